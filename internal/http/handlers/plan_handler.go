// README: Planning handlers (one conversational turn, thread debug view).
package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/http/middleware"
	"wayfarer/internal/modules/budget"
	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/trip"
	"wayfarer/internal/modules/usage"
	"wayfarer/internal/service"
)

// DefaultPlanTimeout bounds one planning turn, tool calls included.
const DefaultPlanTimeout = 2 * time.Minute

// Planner is the subset of service.Planner the handlers need.
type Planner interface {
	Plan(ctx context.Context, threadID, message string) (service.Result, error)
	Thread(ctx context.Context, id string) (*thread.Thread, error)
}

// Quota tracks monthly turns per caller. A nil Quota means unlimited turns.
type Quota interface {
	Remaining(ctx context.Context, uid string) (int, error)
	Consume(ctx context.Context, uid string) error
}

type PlanHandler struct {
	planner Planner
	quota   Quota
	timeout time.Duration
}

func NewPlanHandler(planner Planner, quota Quota, timeout time.Duration) *PlanHandler {
	if timeout <= 0 {
		timeout = DefaultPlanTimeout
	}
	return &PlanHandler{planner: planner, quota: quota, timeout: timeout}
}

type planReq struct {
	ThreadID string `json:"thread_id" binding:"omitempty,max=128"`
	Message  string `json:"message" binding:"required,max=4000"`
}

type planResp struct {
	ThreadID  string `json:"thread_id"`
	Reply     string `json:"reply"`
	Completed bool   `json:"completed"`
}

// Plan handles POST /api/plan.
func (h *PlanHandler) Plan(c *gin.Context) {
	var req planReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid request")
		return
	}
	req.ThreadID = strings.TrimSpace(req.ThreadID)
	if strings.TrimSpace(req.Message) == "" {
		writeError(c, http.StatusBadRequest, service.ErrEmptyMessage.Error())
		return
	}
	if req.ThreadID != "" && !isValidID(req.ThreadID) {
		writeError(c, http.StatusBadRequest, thread.ErrInvalidID.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	uid := middleware.CallerUID(c)
	if h.quota != nil {
		left, err := h.quota.Remaining(ctx, uid)
		if err != nil {
			writePlanError(c, err)
			return
		}
		if left <= 0 {
			writePlanError(c, usage.ErrQuotaExceeded)
			return
		}
	}

	res, err := h.planner.Plan(ctx, req.ThreadID, req.Message)
	if err != nil {
		writePlanError(c, err)
		return
	}

	// Only turns that produced a reply are charged. The reply is returned even
	// if the charge fails.
	if h.quota != nil {
		if err := h.quota.Consume(context.WithoutCancel(ctx), uid); err != nil {
			_ = c.Error(err)
		}
	}
	writeJSON(c, http.StatusOK, planResp{ThreadID: res.ThreadID, Reply: res.Reply, Completed: res.Completed})
}

type threadView struct {
	ID           string            `json:"id"`
	Trip         trip.Record       `json:"trip"`
	Flags        thread.Flags      `json:"flags"`
	Budget       budget.Assessment `json:"budget"`
	MessageCount int               `json:"message_count"`
	Messages     any               `json:"messages,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// Thread handles GET /api/threads/:id. Pass ?messages=true to include the log.
func (h *PlanHandler) Thread(c *gin.Context) {
	id := c.Param("id")
	if !isValidID(id) {
		writeError(c, http.StatusBadRequest, thread.ErrInvalidID.Error())
		return
	}
	th, err := h.planner.Thread(c.Request.Context(), id)
	if err != nil {
		writePlanError(c, err)
		return
	}

	view := threadView{
		ID:           th.ID,
		Trip:         th.Trip,
		Flags:        th.Flags,
		Budget:       th.Budget,
		MessageCount: len(th.Messages),
		CreatedAt:    th.CreatedAt,
		UpdatedAt:    th.UpdatedAt,
	}
	if c.Query("messages") == "true" {
		view.Messages = th.Messages
	}
	writeJSON(c, http.StatusOK, view)
}
