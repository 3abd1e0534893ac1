package backend

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ivanka58/convertobot/types"
)

// ExecBackend запускает внешние инструменты: LibreOffice для документов,
// pdftotext для PDF -> TXT, ffmpeg для медиа-операций.
type ExecBackend struct{}

func NewExecBackend() *ExecBackend {
	return &ExecBackend{}
}

func (b *ExecBackend) Convert(ctx context.Context, req Request) error {
	switch req.Flow {
	case types.FlowExtractAudio:
		return b.extractAudio(ctx, req.InputPath, req.OutputPath)
	case types.FlowRemoveAudio:
		return b.removeAudio(ctx, req.InputPath, req.OutputPath)
	case types.FlowConvert:
		return b.convertDocument(ctx, req)
	default:
		return fmt.Errorf("unknown flow %q", req.Flow)
	}
}

// SupportsPair сообщает, какие документные пары бэкенд умеет на самом деле.
// Независима от правил каталога: каталог определяет легальность пары,
// бэкенд отвечает за реализуемость.
func (b *ExecBackend) SupportsPair(inputFormat, outputFormat string) bool {
	in := strings.ToLower(strings.TrimPrefix(inputFormat, "."))
	out := strings.ToLower(strings.TrimPrefix(outputFormat, "."))
	switch in {
	case "docx", "txt":
		return out == "pdf" || out == "txt" || out == "docx"
	case "pdf":
		// PDF обратно в офисные форматы напрямую не разбирается.
		return out == "txt"
	default:
		return false
	}
}

func (b *ExecBackend) convertDocument(ctx context.Context, req Request) error {
	in := strings.ToLower(strings.TrimPrefix(req.InputFormat, "."))
	out := strings.ToLower(strings.TrimPrefix(req.OutputFormat, "."))

	if !b.SupportsPair(in, out) {
		return fmt.Errorf("%s -> %s: %w", in, out, ErrUnsupportedPair)
	}

	if in == "pdf" && out == "txt" {
		if !hasCommand("pdftotext") {
			return fmt.Errorf("pdftotext is not installed")
		}
		return runTool(ctx, "pdftotext", req.InputPath, req.OutputPath)
	}

	return b.convertWithLibreOffice(ctx, req.InputPath, req.OutputPath, out)
}

func (b *ExecBackend) convertWithLibreOffice(ctx context.Context, inputPath, outputPath, targetExt string) error {
	cmdName := "libreoffice"
	if !hasCommand(cmdName) {
		cmdName = "soffice"
		if !hasCommand(cmdName) {
			return fmt.Errorf("LibreOffice is not installed")
		}
	}

	convertTo := targetExt
	if targetExt == "txt" {
		convertTo = "txt:Text"
	}

	outputDir := filepath.Dir(outputPath)
	if err := runTool(ctx, cmdName, "--headless", "--convert-to", convertTo, "--outdir", outputDir, inputPath); err != nil {
		return err
	}

	// LibreOffice кладёт результат рядом под именем исходника.
	baseName := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	generated := filepath.Join(outputDir, baseName+"."+targetExt)
	if _, err := os.Stat(generated); err != nil {
		return fmt.Errorf("LibreOffice did not produce %s: %w", generated, err)
	}
	if filepath.Clean(generated) == filepath.Clean(outputPath) {
		return nil
	}
	return copyFile(generated, outputPath)
}

func (b *ExecBackend) extractAudio(ctx context.Context, inputPath, outputPath string) error {
	if !hasCommand("ffmpeg") {
		return fmt.Errorf("ffmpeg is not installed")
	}
	return runTool(ctx, "ffmpeg", "-i", inputPath, "-vn", "-y", outputPath)
}

func (b *ExecBackend) removeAudio(ctx context.Context, inputPath, outputPath string) error {
	if !hasCommand("ffmpeg") {
		return fmt.Errorf("ffmpeg is not installed")
	}
	return runTool(ctx, "ffmpeg", "-i", inputPath, "-an", "-c:v", "copy", "-y", outputPath)
}

func runTool(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s: %v, output: %s", name, err, string(output))
	}
	return nil
}

func hasCommand(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func copyFile(src, dst string) error {
	sourceFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer sourceFile.Close()

	destFile, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer destFile.Close()

	_, err = io.Copy(destFile, sourceFile)
	return err
}

// OutputExt определяет расширение результата для каждого сценария.
func OutputExt(flow types.FlowKind, outputFormat string) string {
	switch flow {
	case types.FlowExtractAudio:
		return "mp3"
	case types.FlowRemoveAudio:
		return "mp4"
	default:
		return strings.ToLower(strings.TrimPrefix(outputFormat, "."))
	}
}

// ResultFileName заменяет расширение исходного имени на целевое.
func ResultFileName(originalName, targetExt string) string {
	targetExt = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(targetExt), "."))
	if targetExt == "" {
		targetExt = "bin"
	}

	originalName = strings.TrimSpace(originalName)
	if originalName == "" {
		return "converted." + targetExt
	}

	base := filepath.Base(originalName)
	if filepath.Ext(base) == "" {
		return base + "." + targetExt
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + "." + targetExt
}
