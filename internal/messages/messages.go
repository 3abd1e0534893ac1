package messages

import (
	"fmt"
	"strings"

	"github.com/ivanka58/convertobot/internal/jobs"
)

const ParseModeHTML = "HTML"

func Escape(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		"\"", "&quot;",
		"'", "&#39;",
	)
	return replacer.Replace(strings.TrimSpace(s))
}

const (
	BtnConvert = "Конвертировать файл"
	BtnExtract = "Извлечь музыку из видео"
	BtnRemove  = "Удалить музыку из видео"
)

func StartWelcome() string {
	return "👋 <b>Привет!</b>\nВ этом боте ты можешь конвертировать файлы и работать с медиа.\nВоспользуйся кнопками ниже."
}

func ChooseInputFormat() string {
	return "Выбери начальный формат файла:"
}

func ChooseOutputFormat() string {
	return "Теперь выбери желаемый формат файла:"
}

func SendFile() string {
	return "Теперь отправь мне файл."
}

func SendVideoExtract() string {
	return "Отправьте видео или кружок для извлечения звука."
}

func SendVideoRemove() string {
	return "Отправьте ваше видео или кружок для удаления звука."
}

func Busy() string {
	return "⏳ Предыдущее задание ещё выполняется. Подождите пожалуйста..."
}

func JobAccepted() string {
	return "⚙️ Подождите пожалуйста..."
}

func ResultCaption() string {
	return "Спасибо что пользуетесь нашим ботом!"
}

func ErrorDefault() string {
	return "🚫 <b>Ошибка</b>\nПопробуйте ещё раз."
}

func ErrorUnknownCommand() string {
	return "❓ <b>Команда не найдена</b>"
}

func FailureText(kind jobs.ErrorKind) string {
	switch kind {
	case jobs.KindDownload:
		return "🚫 <b>Не удалось скачать файл</b>\nОтправьте его ещё раз."
	case jobs.KindUnsupportedPair:
		return "🚫 Конвертация в этот формат пока не поддерживается."
	case jobs.KindTimeout:
		return "🚫 <b>Слишком долго</b>\nОбработка не уложилась в лимит времени. Попробуйте файл поменьше."
	case jobs.KindConversion:
		return "🚫 <b>Ошибка конвертации</b>\nВозможно, файл повреждён."
	default:
		return ErrorDefault()
	}
}

func HistoryUnavailable() string {
	return "История конвертаций недоступна."
}

func HistoryEmpty() string {
	return "Вы ещё ничего не конвертировали."
}

func HistoryLine(fileName, inputFormat, outputFormat string, succeeded bool) string {
	mark := "✅"
	if !succeeded {
		mark = "🚫"
	}
	name := strings.TrimSpace(fileName)
	if name == "" {
		name = "файл"
	}
	if outputFormat == "" {
		return fmt.Sprintf("%s %s", mark, Escape(name))
	}
	return fmt.Sprintf("%s %s: %s → %s", mark, Escape(name), strings.ToUpper(inputFormat), strings.ToUpper(outputFormat))
}

func HelpText(groups map[string][]string, order []string) string {
	var msg strings.Builder
	msg.WriteString("ℹ️ <b>Поддерживаемые форматы</b>\n\n")
	for _, name := range order {
		formats := groups[name]
		msg.WriteString(fmt.Sprintf("• <b>%s</b>\n<code>%s</code>\n\n", Escape(name), Escape(strings.Join(formats, ", "))))
	}
	msg.WriteString("🧭 <b>Использование</b>\n")
	msg.WriteString("1) Нажмите кнопку действия\n")
	msg.WriteString("2) Ответьте на вопросы бота\n")
	msg.WriteString("3) Дождитесь результата")
	return msg.String()
}
