// README: Hotel details lookup for a property token returned by the hotel search.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wayfarer/internal/tools"
)

// HotelDetails is implemented by tools.HotelSearch.
type HotelDetails interface {
	Details(ctx context.Context, q tools.DetailsQuery) tools.Outcome
}

type HotelHandler struct {
	hotels HotelDetails
}

func NewHotelHandler(hotels HotelDetails) *HotelHandler {
	return &HotelHandler{hotels: hotels}
}

type hotelDetailsQuery struct {
	CheckIn  string `form:"check_in" binding:"required,datetime=2006-01-02"`
	CheckOut string `form:"check_out" binding:"required,datetime=2006-01-02"`
	Adults   int    `form:"adults" binding:"omitempty,min=1,max=12"`
	Currency string `form:"currency" binding:"omitempty,len=3,alpha"`
}

// Details handles GET /api/hotels/:id.
func (h *HotelHandler) Details(c *gin.Context) {
	id := c.Param("id")
	if id == "" || len(id) > 512 {
		writeError(c, http.StatusBadRequest, "invalid hotel id")
		return
	}
	var q hotelDetailsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeError(c, http.StatusBadRequest, "invalid query")
		return
	}

	out := h.hotels.Details(c.Request.Context(), tools.DetailsQuery{
		HotelID:  id,
		CheckIn:  q.CheckIn,
		CheckOut: q.CheckOut,
		Adults:   q.Adults,
		Currency: q.Currency,
	})
	if out.Failed() {
		status := http.StatusBadGateway
		switch {
		case errors.Is(out.Err, tools.ErrNotConfigured):
			status = http.StatusServiceUnavailable
		case errors.Is(out.Err, tools.ErrNoResults):
			status = http.StatusNotFound
		}
		writeError(c, status, out.Text)
		return
	}
	writeJSON(c, http.StatusOK, map[string]any{"hotel_id": id, "details": out.Text})
}
