package store

import (
	"context"
	"embed"
	"strings"
	"time"

	"github.com/ivanka58/convertobot/types"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// PostgresStore ведёт историю конвертаций. Бот работает и без него:
// при пустом DSN оркестратору передаётся nil-история.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(strings.TrimSpace(dsn))
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	s := &PostgresStore{pool: pool}
	if err := s.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func (s *PostgresStore) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDB(*s.pool.Config().ConnConfig)
	defer db.Close()

	goose.SetBaseFS(embedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, "migrations")
}

func (s *PostgresStore) RecordJob(ctx context.Context, rec types.JobRecord) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	_, err := s.pool.Exec(ctx, `
INSERT INTO job_history (user_id, flow, input_format, output_format, file_name, succeeded, error, duration_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
`, rec.UserID, string(rec.Flow), rec.InputFormat, rec.OutputFormat, strings.TrimSpace(rec.FileName), rec.Succeeded, strings.TrimSpace(rec.Error), rec.DurationMS)
	return err
}

func (s *PostgresStore) RecentJobs(ctx context.Context, userID int64, limit int) ([]types.JobRecord, error) {
	if limit <= 0 {
		limit = 5
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rows, err := s.pool.Query(ctx, `
SELECT user_id, flow, input_format, output_format, file_name, succeeded, error, duration_ms, created_at
FROM job_history
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2
`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var recs []types.JobRecord
	for rows.Next() {
		var rec types.JobRecord
		var flow string
		if err := rows.Scan(&rec.UserID, &flow, &rec.InputFormat, &rec.OutputFormat, &rec.FileName, &rec.Succeeded, &rec.Error, &rec.DurationMS, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Flow = types.FlowKind(flow)
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}
