// README: Trip planner turn loop. Sequences LLM rounds, tool calls and the extraction/budget stages.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"wayfarer/internal/ai"
	"wayfarer/internal/metrics"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/tools"
)

const (
	DefaultMaxRounds = 12
	// DefaultMaxLLMErrors is how many consecutive LLM failures end a turn.
	DefaultMaxLLMErrors = 2

	// saveTimeout bounds the final save, which runs even after the turn context ends.
	saveTimeout = 5 * time.Second
)

var ErrEmptyMessage = errors.New("message is empty")

// Result is the user-visible outcome of one turn.
type Result struct {
	ThreadID string `json:"thread_id"`
	Reply    string `json:"reply"`
	// Completed is false when the turn fell back to FallbackReply.
	Completed bool `json:"completed"`
	Rounds    int  `json:"rounds"`
}

// Planner runs planning turns against persisted threads.
type Planner struct {
	llm          ai.LLMProvider
	registry     *tools.Registry
	store        thread.Store
	logger       *log.Logger
	metrics      *metrics.Metrics
	maxRounds    int
	maxLLMErrors int
	now          func() time.Time

	locks threadLocks
}

type Option func(*Planner)

func WithMaxRounds(n int) Option {
	return func(p *Planner) {
		if n > 0 {
			p.maxRounds = n
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Planner) { p.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(p *Planner) { p.now = now }
}

// NewPlanner creates a Planner with initialized dependencies.
func NewPlanner(llm ai.LLMProvider, registry *tools.Registry, store thread.Store, logger *log.Logger, opts ...Option) *Planner {
	p := &Planner{
		llm:          llm,
		registry:     registry,
		store:        store,
		logger:       logger,
		maxRounds:    DefaultMaxRounds,
		maxLLMErrors: DefaultMaxLLMErrors,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Thread returns the persisted state of a thread.
func (p *Planner) Thread(ctx context.Context, id string) (*thread.Thread, error) {
	return p.store.Load(ctx, id)
}

// Plan processes one user message. An empty threadID starts a new thread.
// The thread is saved even when the turn ends with the fallback reply.
func (p *Planner) Plan(ctx context.Context, threadID, message string) (Result, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return Result{}, ErrEmptyMessage
	}
	start := p.now()

	if threadID != "" {
		unlock := p.lock(threadID)
		defer unlock()
	}
	th, err := p.loadOrCreate(ctx, threadID)
	if err != nil {
		return Result{}, err
	}

	th.Append(ai.User(message))
	reply, rounds, ok := p.run(ctx, th)

	th.UpdatedAt = p.now().UTC()
	saveCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), saveTimeout)
	defer cancel()
	if err := p.store.Save(saveCtx, th); err != nil {
		p.metrics.ObserveTurn("error", p.now().Sub(start))
		return Result{}, fmt.Errorf("save thread: %w", err)
	}

	outcome := "completed"
	if !ok {
		reply = FallbackReply
		outcome = "fallback"
	}
	p.metrics.ObserveTurn(outcome, p.now().Sub(start))
	p.logger.Info("turn finished", "thread", th.ID, "rounds", rounds, "completed", ok)
	return Result{ThreadID: th.ID, Reply: reply, Completed: ok, Rounds: rounds}, nil
}

func (p *Planner) loadOrCreate(ctx context.Context, id string) (*thread.Thread, error) {
	if id == "" {
		return thread.New("", p.now()), nil
	}
	th, err := p.store.Load(ctx, id)
	if errors.Is(err, thread.ErrNotFound) {
		return thread.New(id, p.now()), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load thread: %w", err)
	}
	return th, nil
}

func (p *Planner) lock(id string) func() {
	return p.locks.lock(id)
}

// threadLocks hands out one mutex per thread id. Entries are dropped when the
// last holder or waiter releases them.
type threadLocks struct {
	mu sync.Mutex
	m  map[string]*threadLock
}

type threadLock struct {
	mu   sync.Mutex
	refs int
}

func (l *threadLocks) lock(id string) func() {
	l.mu.Lock()
	if l.m == nil {
		l.m = make(map[string]*threadLock)
	}
	e, ok := l.m[id]
	if !ok {
		e = &threadLock{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

func (l *threadLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}

// run drives decision, tool execution and routing until the latest assistant
// message is a final answer or a ceiling is hit.
func (p *Planner) run(ctx context.Context, th *thread.Thread) (string, int, bool) {
	llmErrors := 0
	for round := 1; round <= p.maxRounds; round++ {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("turn cancelled", "thread", th.ID, "err", err)
			return "", round - 1, false
		}

		prog := observe(th)
		st := next(th, prog)
		req := buildRequest(th, prog, st, p.registry.Schemas())
		p.logger.Debug("planner decision", "thread", th.ID, "round", round, "stage", st,
			"flight", prog.flight, "hotel", prog.hotel, "activities", prog.activities, "directions", prog.directions)

		resp, err := p.llm.Invoke(ctx, req.messages, req.tools)
		p.metrics.LLMCall(err)
		if err != nil {
			llmErrors++
			p.logger.Error("llm call failed", "thread", th.ID, "round", round, "stage", st, "err", err)
			if llmErrors >= p.maxLLMErrors {
				return "", round, false
			}
			continue
		}
		llmErrors = 0

		resp.Role = ai.RoleAssistant
		resp.Content = strings.TrimSpace(resp.Content)
		if req.tools == nil {
			resp.ToolCalls = nil
		}
		if len(resp.ToolCalls) > 1 {
			p.logger.Warn("multiple tool calls, keeping the first", "thread", th.ID, "count", len(resp.ToolCalls))
			resp = keepFirstCall(resp)
		}

		if prog.complete(th.Trip.NeedsDirections) {
			if resp.IsTerminal() {
				th.Append(resp)
				return resp.Content, round, true
			}
			// Everything has run: drop any tool request and ask for the summary again.
			resp.ToolCalls = nil
			th.Append(resp)
			continue
		}

		th.Append(resp)
		if !resp.HasToolCalls() {
			continue
		}
		p.execute(ctx, th, resp.ToolCalls[0])
	}
	p.logger.Warn("round ceiling reached", "thread", th.ID, "max_rounds", p.maxRounds)
	return "", p.maxRounds, false
}

func (p *Planner) execute(ctx context.Context, th *thread.Thread, call ai.ToolCall) {
	kind, out := p.registry.Execute(ctx, call)
	p.metrics.ToolCall(call.Name, out.Failed())
	p.logger.Info("tool executed", "thread", th.ID, "tool", call.Name, "failed", out.Failed())

	th.Append(ai.Message{
		Role:       ai.RoleTool,
		Content:    out.Text,
		ToolName:   call.Name,
		ToolCallID: call.ID,
		Failed:     out.Failed(),
	})
	p.route(th, kind)
}
