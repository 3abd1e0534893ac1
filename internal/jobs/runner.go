package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ivanka58/convertobot/internal/backend"
	"github.com/ivanka58/convertobot/internal/tempstore"
	"github.com/ivanka58/convertobot/types"
)

type ErrorKind string

const (
	KindNone            ErrorKind = ""
	KindDownload        ErrorKind = "download"
	KindUnsupportedPair ErrorKind = "unsupported_pair"
	KindConversion      ErrorKind = "conversion"
	KindTimeout         ErrorKind = "timeout"
	KindInternal        ErrorKind = "internal"
)

// Outcome содержит всё, что видно снаружи после задания: статусные
// переходы внутри Run никому не транслируются.
type Outcome struct {
	Status types.JobStatus
	Kind   ErrorKind
	Err    error
}

func (o Outcome) Succeeded() bool {
	return o.Status == types.JobSucceeded
}

// FileFetcher скачивает исходный файл по транспортной ссылке.
type FileFetcher interface {
	Fetch(ctx context.Context, fileID, destPath string) error
}

// Deliverer отдаёт готовый артефакт пользователю.
type Deliverer interface {
	DeliverDocument(ctx context.Context, chatID int64, path, fileName string) error
}

type Config struct {
	DownloadTimeout time.Duration
	ConvertTimeout  time.Duration
}

type Runner struct {
	backend   backend.Backend
	fetcher   FileFetcher
	deliverer Deliverer
	storage   *tempstore.Storage
	cfg       Config
}

func NewRunner(b backend.Backend, fetcher FileFetcher, deliverer Deliverer, storage *tempstore.Storage, cfg Config) *Runner {
	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = 2 * time.Minute
	}
	if cfg.ConvertTimeout <= 0 {
		cfg.ConvertTimeout = 5 * time.Minute
	}
	return &Runner{
		backend:   b,
		fetcher:   fetcher,
		deliverer: deliverer,
		storage:   storage,
		cfg:       cfg,
	}
}

// Run прогоняет задание: скачать, конвертировать, отдать, убрать за собой.
// Уборка выполняется на любом пути выхода; её сбои не меняют исход.
func (r *Runner) Run(ctx context.Context, job *types.ConversionJob) Outcome {
	scope, err := r.storage.NewScope(job.ID)
	if err != nil {
		job.Status = types.JobFailed
		return Outcome{Status: types.JobFailed, Kind: KindInternal, Err: err}
	}
	defer func() {
		final := job.Status
		job.Status = types.JobCleaningUp
		scope.Cleanup()
		job.Status = final
	}()

	inputExt := strings.ToLower(strings.TrimPrefix(job.InputFormat, "."))
	if inputExt == "" {
		inputExt = "bin"
	}
	inputPath := scope.Path("input." + inputExt)
	outputExt := backend.OutputExt(job.Flow, job.OutputFormat)
	outputPath := scope.Path("result." + outputExt)

	job.Status = types.JobDownloading
	if err := r.withTimeout(ctx, r.cfg.DownloadTimeout, func(ctx context.Context) error {
		return r.fetcher.Fetch(ctx, job.FileID, inputPath)
	}); err != nil {
		return r.fail(job, classify(err, KindDownload))
	}

	job.Status = types.JobConverting
	if err := r.withTimeout(ctx, r.cfg.ConvertTimeout, func(ctx context.Context) error {
		return r.backend.Convert(ctx, backend.Request{
			InputPath:    inputPath,
			OutputPath:   outputPath,
			InputFormat:  job.InputFormat,
			OutputFormat: job.OutputFormat,
			Flow:         job.Flow,
		})
	}); err != nil {
		return r.fail(job, classify(err, KindConversion))
	}

	job.Status = types.JobUploading
	resultName := backend.ResultFileName(job.FileName, outputExt)
	if err := r.deliverer.DeliverDocument(ctx, job.ChatID, outputPath, resultName); err != nil {
		return r.fail(job, Outcome{Kind: KindInternal, Err: fmt.Errorf("deliver result: %w", err)})
	}

	job.Status = types.JobSucceeded
	return Outcome{Status: types.JobSucceeded}
}

func (r *Runner) withTimeout(ctx context.Context, d time.Duration, fn func(context.Context) error) error {
	tctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return fn(tctx)
}

func (r *Runner) fail(job *types.ConversionJob, o Outcome) Outcome {
	job.Status = types.JobFailed
	o.Status = types.JobFailed
	log.Printf("job %s failed (%s): %v", job.ID, o.Kind, o.Err)
	return o
}

func classify(err error, fallback ErrorKind) Outcome {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return Outcome{Kind: KindTimeout, Err: err}
	case errors.Is(err, backend.ErrUnsupportedPair):
		return Outcome{Kind: KindUnsupportedPair, Err: err}
	default:
		return Outcome{Kind: fallback, Err: err}
	}
}
