package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	BotToken string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	PostgresDSN string

	TempDir         string
	DownloadTimeout time.Duration
	ConvertTimeout  time.Duration
}

// FromEnv собирает конфигурацию из окружения. Redis и Postgres
// необязательны: без них сессии живут в памяти, история не ведётся.
func FromEnv() (Config, error) {
	cfg := Config{
		BotToken:        strings.TrimSpace(os.Getenv("BOT_TOKEN")),
		RedisAddr:       strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envInt("REDIS_DB", 0),
		PostgresDSN:     strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		TempDir:         strings.TrimSpace(os.Getenv("TEMP_DIR")),
		DownloadTimeout: envDuration("DOWNLOAD_TIMEOUT", 2*time.Minute),
		ConvertTimeout:  envDuration("CONVERT_TIMEOUT", 5*time.Minute),
	}
	if cfg.BotToken == "" {
		return cfg, fmt.Errorf("BOT_TOKEN is required")
	}
	return cfg, nil
}

func envInt(name string, def int) int {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(name string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

// LoadEnvFile подхватывает переменные из файла KEY=VALUE перед FromEnv.
// Уже установленные переменные окружения не перекрываются; отсутствие
// файла не считается ошибкой.
func LoadEnvFile(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		v = strings.TrimSpace(v)
		v = strings.Trim(v, `"'`)
		if _, exists := os.LookupEnv(k); exists {
			continue
		}
		_ = os.Setenv(k, v)
	}
	return sc.Err()
}
