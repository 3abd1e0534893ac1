package handlers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ivanka58/convertobot/internal/messages"
)

// TelegramPrompter шлёт подсказки и reply-клавиатуры с вариантами.
type TelegramPrompter struct {
	b *bot.Bot
}

func NewTelegramPrompter(b *bot.Bot) *TelegramPrompter {
	return &TelegramPrompter{b: b}
}

func (p *TelegramPrompter) PromptChoices(ctx context.Context, chatID int64, text string, choices []string) error {
	kb := make([][]models.KeyboardButton, 0, len(choices))
	for _, choice := range choices {
		kb = append(kb, []models.KeyboardButton{{Text: choice}})
	}
	_, err := p.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
		ReplyMarkup: &models.ReplyKeyboardMarkup{
			Keyboard:       kb,
			ResizeKeyboard: true,
		},
	})
	return err
}

func (p *TelegramPrompter) Send(ctx context.Context, chatID int64, text string) error {
	_, err := p.b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      text,
		ParseMode: messages.ParseModeHTML,
	})
	return err
}

// TelegramDeliverer отдаёт готовый документ в чат.
type TelegramDeliverer struct {
	b *bot.Bot
}

func NewTelegramDeliverer(b *bot.Bot) *TelegramDeliverer {
	return &TelegramDeliverer{b: b}
}

func (d *TelegramDeliverer) DeliverDocument(ctx context.Context, chatID int64, path, fileName string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if strings.TrimSpace(fileName) == "" {
		fileName = filepath.Base(path)
	}

	_, err = d.b.SendDocument(ctx, &bot.SendDocumentParams{
		ChatID: chatID,
		Document: &models.InputFileUpload{
			Filename: fileName,
			Data:     file,
		},
		Caption: messages.ResultCaption(),
	})
	return err
}
