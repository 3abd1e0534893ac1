package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ivanka58/convertobot/internal/catalog"
	"github.com/ivanka58/convertobot/internal/contextkeys"
	"github.com/ivanka58/convertobot/internal/messages"
	"github.com/ivanka58/convertobot/internal/orchestrator"
	"github.com/ivanka58/convertobot/types"
)

// Handlers переводит телеграмовские апдейты в события оркестратора.
// Вся логика диалога живёт в core, здесь только транспортный разбор.
type Handlers struct {
	orch    *orchestrator.Orchestrator
	history types.HistoryStore
}

func NewHandlers(orch *orchestrator.Orchestrator, history types.HistoryStore) *Handlers {
	return &Handlers{
		orch:    orch,
		history: history,
	}
}

func (h *Handlers) MainHandler(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	userID := msg.From.ID
	chatID := msg.Chat.ID

	messageType, _ := contextkeys.GetMessageType(ctx)

	switch messageType {
	case contextkeys.MessageTypeCommand:
		h.handleCommand(ctx, b, msg)
		return
	case contextkeys.MessageTypeText:
		h.orch.HandleEvent(ctx, textEvent(userID, chatID, msg.Text))
		return
	case contextkeys.MessageTypeDocument:
		if info, ok := contextkeys.GetFileInfo(ctx); ok {
			h.orch.HandleEvent(ctx, orchestrator.Event{
				UserID:   userID,
				ChatID:   chatID,
				Kind:     orchestrator.EventDocument,
				FileID:   info.FileID,
				FileName: info.FileName,
			})
		}
		return
	case contextkeys.MessageTypeVideo, contextkeys.MessageTypeVideoNote:
		if info, ok := contextkeys.GetFileInfo(ctx); ok {
			kind := orchestrator.EventVideo
			if messageType == contextkeys.MessageTypeVideoNote {
				kind = orchestrator.EventVideoNote
			}
			h.orch.HandleEvent(ctx, orchestrator.Event{
				UserID:   userID,
				ChatID:   chatID,
				Kind:     kind,
				FileID:   info.FileID,
				FileName: info.FileName,
			})
		}
		return
	default:
		// Прочие типы сообщений прогоняются как текст: FSM сам решит,
		// перепросить или промолчать.
		h.orch.HandleEvent(ctx, textEvent(userID, chatID, msg.Text))
	}
}

// textEvent распознаёт кнопки верхнего уровня в тексте сообщения.
func textEvent(userID, chatID int64, text string) orchestrator.Event {
	ev := orchestrator.Event{
		UserID: userID,
		ChatID: chatID,
		Kind:   orchestrator.EventText,
		Text:   strings.TrimSpace(text),
	}
	switch ev.Text {
	case messages.BtnConvert:
		ev.Kind = orchestrator.EventStartConvert
	case messages.BtnExtract:
		ev.Kind = orchestrator.EventStartExtract
	case messages.BtnRemove:
		ev.Kind = orchestrator.EventStartRemove
	}
	return ev
}

func (h *Handlers) handleCommand(ctx context.Context, b *bot.Bot, msg *models.Message) {
	fields := strings.Fields(strings.TrimSpace(msg.Text))
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if strings.Contains(cmd, "@") {
		cmd = strings.SplitN(cmd, "@", 2)[0]
	}

	switch cmd {
	case "/start":
		h.sendWelcome(ctx, b, msg.Chat.ID)
	case "/help":
		groups := map[string][]string{}
		order := catalog.Groups()
		for _, g := range order {
			groups[g] = catalog.Formats(g)
		}
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    msg.Chat.ID,
			Text:      messages.HelpText(groups, order),
			ParseMode: messages.ParseModeHTML,
		})
	case "/history":
		h.sendHistory(ctx, b, msg.From.ID, msg.Chat.ID)
	default:
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:    msg.Chat.ID,
			Text:      messages.ErrorUnknownCommand(),
			ParseMode: messages.ParseModeHTML,
		})
	}
}

func (h *Handlers) sendWelcome(ctx context.Context, b *bot.Bot, chatID int64) {
	kb := &models.ReplyKeyboardMarkup{
		Keyboard: [][]models.KeyboardButton{
			{{Text: messages.BtnConvert}},
			{{Text: messages.BtnExtract}},
			{{Text: messages.BtnRemove}},
		},
		ResizeKeyboard: true,
	}
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        messages.StartWelcome(),
		ParseMode:   messages.ParseModeHTML,
		ReplyMarkup: kb,
	})
	if err != nil {
		log.Printf("handlers: send welcome to chat %d: %v", chatID, err)
	}
}

func (h *Handlers) sendHistory(ctx context.Context, b *bot.Bot, userID, chatID int64) {
	if h.history == nil {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   messages.HistoryUnavailable(),
		})
		return
	}
	recs, err := h.history.RecentJobs(ctx, userID, 5)
	if err != nil {
		log.Printf("handlers: history for user %d: %v", userID, err)
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   messages.HistoryUnavailable(),
		})
		return
	}
	if len(recs) == 0 {
		_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: chatID,
			Text:   messages.HistoryEmpty(),
		})
		return
	}
	var sb strings.Builder
	for _, rec := range recs {
		sb.WriteString(messages.HistoryLine(rec.FileName, rec.InputFormat, rec.OutputFormat, rec.Succeeded))
		sb.WriteString("\n")
	}
	_, _ = b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    chatID,
		Text:      sb.String(),
		ParseMode: messages.ParseModeHTML,
	})
}
