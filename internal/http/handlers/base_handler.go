// README: Base handler utilities (JSON helpers, error mapping).
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/modules/thread"
	"wayfarer/internal/modules/usage"
	"wayfarer/internal/service"
)

type errorResponse struct {
	Error string `json:"error"`
}

// isValidID accepts thread ids made of letters, digits, '-' and '_' up to 128 chars.
func isValidID(v string) bool {
	if v == "" || len(v) > 128 {
		return false
	}
	for _, c := range v {
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '-' || c == '_' {
			continue
		}
		return false
	}
	return true
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writePlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptyMessage), errors.Is(err, thread.ErrInvalidID):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, thread.ErrNotFound):
		writeError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, usage.ErrQuotaExceeded):
		writeError(c, http.StatusTooManyRequests, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
