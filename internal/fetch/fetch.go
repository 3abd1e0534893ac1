package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/go-telegram/bot"
)

// TelegramFetcher скачивает файл с серверов Telegram в локальный путь,
// принадлежащий заданию.
type TelegramFetcher struct {
	b      *bot.Bot
	client *http.Client
}

func NewTelegramFetcher(b *bot.Bot) *TelegramFetcher {
	return &TelegramFetcher{
		b: b,
		client: &http.Client{
			Timeout: 30 * time.Minute,
		},
	}
}

func (f *TelegramFetcher) Fetch(ctx context.Context, fileID, destPath string) error {
	fileInfo, err := f.b.GetFile(ctx, &bot.GetFileParams{
		FileID: fileID,
	})
	if err != nil {
		return fmt.Errorf("get file info: %w", err)
	}

	fileURL := fmt.Sprintf("https://api.telegram.org/file/bot%s/%s", f.b.Token(), fileInfo.FilePath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download: status %d", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = os.Remove(destPath)
		return fmt.Errorf("download: %w", err)
	}
	return nil
}
