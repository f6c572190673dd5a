// README: Smoke runner against a deployed API; checks health, storage and one optional live planning turn.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	runner := NewRunner(cfg)
	results := runner.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case statusPass:
			pass++
		case statusFail:
			fail++
		case statusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL   string
	DSN       string
	RedisAddr string
	UserID    string
	Token     string
	Live      bool
	Timeout   time.Duration
}

func loadConfig() Config {
	var cfg Config
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("WAYFARER_SMOKE_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.DSN, "dsn", os.Getenv("WAYFARER_DB_DSN"), "Postgres DSN (skips DB checks when empty)")
	flag.StringVar(&cfg.RedisAddr, "redis", os.Getenv("WAYFARER_REDIS_ADDR"), "Redis address (skips Redis checks when empty)")
	flag.StringVar(&cfg.UserID, "user", envOrDefault("WAYFARER_SMOKE_USER", "smoke-test"), "X-User-ID sent when no token is given")
	flag.StringVar(&cfg.Token, "token", os.Getenv("WAYFARER_SMOKE_TOKEN"), "Firebase ID token")
	flag.BoolVar(&cfg.Live, "live", false, "run one real planning turn (calls the LLM and providers)")
	flag.DurationVar(&cfg.Timeout, "timeout", 3*time.Minute, "total timeout")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	return cfg
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
