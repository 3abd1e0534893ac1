package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/ivanka58/convertobot/internal/backend"
	"github.com/ivanka58/convertobot/internal/config"
	"github.com/ivanka58/convertobot/internal/fetch"
	"github.com/ivanka58/convertobot/internal/handlers"
	"github.com/ivanka58/convertobot/internal/jobs"
	"github.com/ivanka58/convertobot/internal/messages"
	"github.com/ivanka58/convertobot/internal/middleware"
	"github.com/ivanka58/convertobot/internal/orchestrator"
	"github.com/ivanka58/convertobot/internal/tempstore"
	"github.com/ivanka58/convertobot/store"
	"github.com/ivanka58/convertobot/types"
)

func main() {
	_ = config.LoadEnvFile("config.env")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	var sessions types.SessionStore
	if cfg.RedisAddr != "" {
		rdb, err := store.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, "convertobot")
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer rdb.Close()
		sessions = store.NewRedisSessionStore(rdb, 24)
		log.Println("Sessions: Redis")
	} else {
		sessions = store.NewMemorySessionStore()
		log.Println("Sessions: in-memory")
	}

	var history types.HistoryStore
	if cfg.PostgresDSN != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("Failed to connect to Postgres: %v", err)
		}
		defer pgStore.Close()
		history = pgStore
		log.Println("History: Postgres")
	}

	httpClient := &http.Client{
		Timeout: 10 * time.Minute,
	}
	pollTimeout := 50 * time.Second

	b, err := bot.New(
		cfg.BotToken,
		bot.WithHTTPClient(pollTimeout, httpClient),
	)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	storage, err := tempstore.New(cfg.TempDir)
	if err != nil {
		log.Fatalf("Failed to prepare temp storage: %v", err)
	}

	runner := jobs.NewRunner(
		backend.NewExecBackend(),
		fetch.NewTelegramFetcher(b),
		handlers.NewTelegramDeliverer(b),
		storage,
		jobs.Config{
			DownloadTimeout: cfg.DownloadTimeout,
			ConvertTimeout:  cfg.ConvertTimeout,
		},
	)

	orch := orchestrator.New(sessions, runner, handlers.NewTelegramPrompter(b), history, orchestrator.Messages{
		ChooseInputFormat:  messages.ChooseInputFormat(),
		ChooseOutputFormat: messages.ChooseOutputFormat(),
		SendFile:           messages.SendFile(),
		SendVideoExtract:   messages.SendVideoExtract(),
		SendVideoRemove:    messages.SendVideoRemove(),
		Busy:               messages.Busy(),
		JobAccepted:        messages.JobAccepted(),
		FailureText:        messages.FailureText,
	})

	h := handlers.NewHandlers(orch, history)

	b.RegisterHandlerMatchFunc(func(update *models.Update) bool {
		return update.Message != nil
	}, middleware.AnalyzeMessageMiddleware(h.MainHandler))

	log.Println("Bot started. Press Ctrl+C to stop.")
	b.Start(ctx)

	orch.Wait()
	log.Println("Bot stopped.")
}
