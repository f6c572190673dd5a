// README: HTTP router registration.
package http

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"wayfarer/internal/http/handlers"
	"wayfarer/internal/http/middleware"
	"wayfarer/internal/infra"
	"wayfarer/internal/metrics"
)

// RouterDeps collects what the API needs. Quota, Verifier and Hotels are optional.
type RouterDeps struct {
	Planner     handlers.Planner
	Quota       handlers.Quota
	Hotels      handlers.HotelDetails
	Verifier    infra.TokenVerifier
	Metrics     *metrics.Metrics
	Logger      *log.Logger
	PlanTimeout time.Duration
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Recovery(deps.Logger), middleware.Logging(deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	api := r.Group("/api", middleware.Auth(deps.Verifier))

	planHandler := handlers.NewPlanHandler(deps.Planner, deps.Quota, deps.PlanTimeout)
	api.POST("/plan", planHandler.Plan)
	api.GET("/threads/:id", planHandler.Thread)

	if deps.Hotels != nil {
		hotelHandler := handlers.NewHotelHandler(deps.Hotels)
		api.GET("/hotels/:id", hotelHandler.Details)
	}
	return r
}
