// README: Smoke cases covering HTTP routes, Postgres schema and Redis connectivity.
package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statusPass = "PASS"
	statusFail = "FAIL"
	statusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *resty.Client
	db    *pgxpool.Pool
	redis *redis.Client

	threadID string
}

type Result struct {
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	c := resty.New().SetBaseURL(cfg.BaseURL).SetTimeout(2 * time.Minute)
	if cfg.Token != "" {
		c.SetAuthToken(cfg.Token)
	} else {
		c.SetHeader("X-User-ID", cfg.UserID)
	}
	return &Runner{cfg: cfg, httpc: c}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
			defer db.Close()
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
		defer r.redis.Close()
	}

	cases := r.cases()
	results := make([]Result, 0, len(cases))
	for _, tc := range cases {
		res := tc.Run(ctx, r)
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "no dsn"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.db.Ping(ctx); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Env: Postgres tables exist", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusSkip, Note: "no dsn"}
			}
			for _, t := range []string{"threads", "plan_usage", "goose_db_version"} {
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
				).Scan(&exists)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: statusFail, Note: "missing table: " + t}
				}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Env: Redis connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.redis == nil {
				return Result{Status: statusSkip, Note: "no redis addr"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.redis.Ping(ctx).Err(); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		getCase("API: health", "/health", http.StatusOK, "OK"),
		getCase("API: metrics exposed", "/metrics", http.StatusOK, "wayfarer_turns_total"),
		postCase("API: plan rejects empty message", map[string]any{"message": "   "}, http.StatusBadRequest),
		postCase("API: plan rejects bad thread id", map[string]any{"thread_id": "../x", "message": "hi"}, http.StatusBadRequest),
		getCase("API: unknown thread is 404", "/api/threads/smoke-missing-thread", http.StatusNotFound, ""),
		{Name: "Flow: live planning turn", Run: func(ctx context.Context, r *Runner) Result {
			if !r.cfg.Live {
				return Result{Status: statusSkip, Note: "live=false"}
			}
			var out struct {
				ThreadID  string `json:"thread_id"`
				Reply     string `json:"reply"`
				Completed bool   `json:"completed"`
			}
			start := time.Now()
			resp, err := r.httpc.R().SetContext(ctx).
				SetBody(map[string]any{"message": "Plan 5 days in Lisbon from New York in March, budget 2500 USD, interests food and history."}).
				SetResult(&out).
				Post("/api/plan")
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if resp.StatusCode() != http.StatusOK || out.Reply == "" {
				return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", resp.StatusCode())}
			}
			r.threadID = out.ThreadID
			return Result{Status: statusPass, Latency: time.Since(start), Note: fmt.Sprintf("completed=%t", out.Completed)}
		}},
		{Name: "Flow: thread state persisted", Run: func(ctx context.Context, r *Runner) Result {
			if r.threadID == "" {
				return Result{Status: statusSkip, Note: "no live turn"}
			}
			resp, err := r.httpc.R().SetContext(ctx).Get("/api/threads/" + r.threadID)
			if err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			if resp.StatusCode() != http.StatusOK || !strings.Contains(resp.String(), `"destination"`) {
				return Result{Status: statusFail, Note: fmt.Sprintf("status=%d", resp.StatusCode())}
			}
			return Result{Status: statusPass}
		}},
	}
}

func getCase(name, path string, want int, contains string) TestCase {
	return TestCase{Name: name, Run: func(ctx context.Context, r *Runner) Result {
		start := time.Now()
		resp, err := r.httpc.R().SetContext(ctx).Get(path)
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if resp.StatusCode() != want {
			return Result{Status: statusFail, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode(), want)}
		}
		if contains != "" && !strings.Contains(resp.String(), contains) {
			return Result{Status: statusFail, Note: "missing " + contains}
		}
		return Result{Status: statusPass, Latency: time.Since(start)}
	}}
}

func postCase(name string, body map[string]any, want int) TestCase {
	return TestCase{Name: name, Run: func(ctx context.Context, r *Runner) Result {
		start := time.Now()
		resp, err := r.httpc.R().SetContext(ctx).SetBody(body).Post("/api/plan")
		if err != nil {
			return Result{Status: statusFail, Note: err.Error()}
		}
		if resp.StatusCode() != want {
			return Result{Status: statusFail, Note: fmt.Sprintf("status=%d want=%d", resp.StatusCode(), want)}
		}
		return Result{Status: statusPass, Latency: time.Since(start)}
	}}
}
