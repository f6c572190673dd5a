package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wayfarer/internal/ai"
	"wayfarer/internal/http/middleware"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/trip"
	"wayfarer/internal/modules/usage"
	"wayfarer/internal/service"
	"wayfarer/internal/tools"
)

type fakePlanner struct {
	result   service.Result
	err      error
	threads  map[string]*thread.Thread
	gotID    string
	gotMsg   string
	deadline bool
}

func (f *fakePlanner) Plan(ctx context.Context, threadID, message string) (service.Result, error) {
	f.gotID, f.gotMsg = threadID, message
	_, f.deadline = ctx.Deadline()
	return f.result, f.err
}

func (f *fakePlanner) Thread(_ context.Context, id string) (*thread.Thread, error) {
	th, ok := f.threads[id]
	if !ok {
		return nil, fmt.Errorf("load: %w", thread.ErrNotFound)
	}
	return th, nil
}

type fakeQuota struct {
	left       int
	err        error
	consumeErr error
	calls      []string
}

func (f *fakeQuota) Remaining(context.Context, string) (int, error) {
	return f.left, f.err
}

func (f *fakeQuota) Consume(_ context.Context, uid string) error {
	f.calls = append(f.calls, uid)
	return f.consumeErr
}

type fakeHotels struct {
	out tools.Outcome
	got tools.DetailsQuery
}

func (f *fakeHotels) Details(_ context.Context, q tools.DetailsQuery) tools.Outcome {
	f.got = q
	return f.out
}

func newTestRouter(p Planner, q Quota, hotels HotelDetails) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth(nil))
	h := NewPlanHandler(p, q, time.Second)
	r.POST("/api/plan", h.Plan)
	r.GET("/api/threads/:id", h.Thread)
	if hotels != nil {
		r.GET("/api/hotels/:id", NewHotelHandler(hotels).Details)
	}
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.UserIDHeader, "traveler-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestPlan_OK(t *testing.T) {
	p := &fakePlanner{result: service.Result{ThreadID: "t-1", Reply: "Here is your plan.", Completed: true, Rounds: 5}}
	q := &fakeQuota{left: 3}
	w := do(newTestRouter(p, q, nil), http.MethodPost, "/api/plan", `{"thread_id":"t-1","message":"  5 days in Morocco  "}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"thread_id":"t-1","reply":"Here is your plan.","completed":true}`, w.Body.String())
	assert.Equal(t, "t-1", p.gotID)
	assert.Equal(t, "  5 days in Morocco  ", p.gotMsg)
	assert.True(t, p.deadline)
	assert.Equal(t, []string{"traveler-1"}, q.calls)
}

func TestPlan_NilQuotaIsUnlimited(t *testing.T) {
	p := &fakePlanner{result: service.Result{ThreadID: "new", Reply: "hi", Completed: true}}
	w := do(newTestRouter(p, nil, nil), http.MethodPost, "/api/plan", `{"message":"hello"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, p.gotID)
}

func TestPlan_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{"message":`},
		{"missing message", `{}`},
		{"blank message", `{"message":"   "}`},
		{"bad thread id", `{"thread_id":"../etc","message":"hi"}`},
		{"long thread id", `{"thread_id":"` + strings.Repeat("a", 129) + `","message":"hi"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlanner{}
			w := do(newTestRouter(p, nil, nil), http.MethodPost, "/api/plan", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Empty(t, p.gotMsg)
		})
	}
}

func TestPlan_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		quota    *fakeQuota
		planErr  error
		expected int
	}{
		{"quota exhausted", &fakeQuota{left: 0}, nil, http.StatusTooManyRequests},
		{"quota store down", &fakeQuota{left: 5, err: errors.New("db down")}, nil, http.StatusInternalServerError},
		{"empty message", &fakeQuota{left: 5}, service.ErrEmptyMessage, http.StatusBadRequest},
		{"invalid id", &fakeQuota{left: 5}, fmt.Errorf("load thread: %w", thread.ErrInvalidID), http.StatusBadRequest},
		{"save failed", &fakeQuota{left: 5}, errors.New("save thread: boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakePlanner{err: tt.planErr}
			w := do(newTestRouter(p, tt.quota, nil), http.MethodPost, "/api/plan", `{"message":"hi"}`)
			assert.Equal(t, tt.expected, w.Code)
			assert.NotContains(t, w.Body.String(), "boom")
			// Failed or refused turns are never charged.
			assert.Empty(t, tt.quota.calls)
		})
	}
}

func TestPlan_ExhaustedQuotaSkipsPlanner(t *testing.T) {
	p := &fakePlanner{}
	w := do(newTestRouter(p, &fakeQuota{left: 0}, nil), http.MethodPost, "/api/plan", `{"message":"hi"}`)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), usage.ErrQuotaExceeded.Error())
	assert.Empty(t, p.gotMsg)
}

func TestPlan_ChargeFailureStillReturnsReply(t *testing.T) {
	p := &fakePlanner{result: service.Result{ThreadID: "t-2", Reply: "plan", Completed: true}}
	q := &fakeQuota{left: 1, consumeErr: usage.ErrQuotaExceeded}
	w := do(newTestRouter(p, q, nil), http.MethodPost, "/api/plan", `{"message":"hi"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"traveler-1"}, q.calls)
}

func TestThread_View(t *testing.T) {
	th := thread.New("t-9", time.Date(2025, 10, 1, 12, 0, 0, 0, time.UTC))
	th.Trip = trip.Record{Destination: "Morocco", Adults: 1}
	th.Flags.FlightSearched = true
	th.Append(ai.User("5 days in Morocco"), ai.Message{Role: ai.RoleAssistant, Content: "Done."})
	r := newTestRouter(&fakePlanner{threads: map[string]*thread.Thread{"t-9": th}}, nil, nil)

	w := do(r, http.MethodGet, "/api/threads/t-9", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"destination":"Morocco"`)
	assert.Contains(t, w.Body.String(), `"flight_searched":true`)
	assert.Contains(t, w.Body.String(), `"message_count":2`)
	assert.NotContains(t, w.Body.String(), `"messages"`)

	w = do(r, http.MethodGet, "/api/threads/t-9?messages=true", "")
	assert.Contains(t, w.Body.String(), `"messages"`)
	assert.Contains(t, w.Body.String(), "5 days in Morocco")

	w = do(r, http.MethodGet, "/api/threads/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodGet, "/api/threads/bad$id", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHotelDetails(t *testing.T) {
	hotels := &fakeHotels{out: tools.Outcome{Text: "Riad Yasmine\nRating: 4.7/5"}}
	r := newTestRouter(&fakePlanner{}, nil, hotels)

	w := do(r, http.MethodGet, "/api/hotels/ChkI123?check_in=2025-11-01&check_out=2025-11-06&adults=3&currency=EUR", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, tools.DetailsQuery{HotelID: "ChkI123", CheckIn: "2025-11-01", CheckOut: "2025-11-06", Adults: 3, Currency: "EUR"}, hotels.got)
	assert.Contains(t, w.Body.String(), "Riad Yasmine")

	w = do(r, http.MethodGet, "/api/hotels/ChkI123?check_in=tomorrow&check_out=2025-11-06", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	hotels.out = tools.Outcome{Text: "SearchApi is not configured.", Err: tools.ErrNotConfigured}
	w = do(r, http.MethodGet, "/api/hotels/ChkI123?check_in=2025-11-01&check_out=2025-11-06", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	hotels.out = tools.Outcome{Text: "SearchApi Error: 500", Err: tools.ErrUpstream}
	w = do(r, http.MethodGet, "/api/hotels/ChkI123?check_in=2025-11-01&check_out=2025-11-06", "")
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestIsValidID(t *testing.T) {
	assert.True(t, isValidID("3f2b8c1e-5d4a-4b7e-9c1a-2e6f8d0b7a11"))
	assert.True(t, isValidID("demo_thread"))
	assert.False(t, isValidID(""))
	assert.False(t, isValidID("a/b"))
	assert.False(t, isValidID(strings.Repeat("x", 129)))
}
