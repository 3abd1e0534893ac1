package catalog

import "strings"

const (
	GroupDocuments = "Документы"
	GroupMedia     = "Медиа"
)

type FormatGroup struct {
	Name    string
	Formats []string
}

var groups = []FormatGroup{
	{
		Name:    GroupDocuments,
		Formats: []string{"DOCX", "PDF", "TXT"},
	},
	{
		Name:    GroupMedia,
		Formats: []string{"MP4", "MP3", "WAV"},
	},
}

func Groups() []string {
	names := make([]string, 0, len(groups))
	for _, g := range groups {
		names = append(names, g.Name)
	}
	return names
}

// Formats возвращает форматы группы в каталожном порядке.
func Formats(group string) []string {
	for _, g := range groups {
		if g.Name == group {
			out := make([]string, len(g.Formats))
			copy(out, g.Formats)
			return out
		}
	}
	return nil
}

// Normalize сопоставляет пользовательский ввод с форматом каталога.
// Сравнение без учёта регистра, только точные совпадения.
func Normalize(format string) (string, bool) {
	format = strings.TrimSpace(strings.TrimPrefix(format, "."))
	for _, g := range groups {
		for _, f := range g.Formats {
			if strings.EqualFold(f, format) {
				return f, true
			}
		}
	}
	return "", false
}

func GroupOf(format string) string {
	for _, g := range groups {
		for _, f := range g.Formats {
			if strings.EqualFold(f, format) {
				return g.Name
			}
		}
	}
	return ""
}

func FormatExists(format string) bool {
	_, ok := Normalize(format)
	return ok
}

// IsConvertiblePair: оба формата из одной группы и не совпадают.
// Конвертация формата в самого себя не предлагается.
func IsConvertiblePair(inputFormat, outputFormat string) bool {
	in, ok := Normalize(inputFormat)
	if !ok {
		return false
	}
	out, ok := Normalize(outputFormat)
	if !ok {
		return false
	}
	if in == out {
		return false
	}
	return GroupOf(in) == GroupOf(out)
}

// OutputOptions возвращает форматы группы за вычетом входного.
func OutputOptions(inputFormat string) []string {
	in, ok := Normalize(inputFormat)
	if !ok {
		return nil
	}
	all := Formats(GroupOf(in))
	out := make([]string, 0, len(all))
	for _, f := range all {
		if f != in {
			out = append(out, f)
		}
	}
	return out
}
