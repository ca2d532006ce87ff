package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stelvault/timelock_app/internal/core/domain"
	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
	"github.com/stelvault/timelock_app/internal/dto"
	"github.com/stelvault/timelock_app/internal/middleware"
)

// statsHandler handles HTTP requests for ledger rollups and the rate schedule.
type statsHandler struct {
	statsService portssvc.StatsSvcFacade
}

func newStatsHandler(ss portssvc.StatsSvcFacade) *statsHandler {
	return &statsHandler{statsService: ss}
}

// registerStatsRoutes registers the stats and rates routes.
func registerStatsRoutes(rg *gin.RouterGroup, ss portssvc.StatsSvcFacade) {
	h := newStatsHandler(ss)
	rg.GET("/stats", h.getStats)
	rg.GET("/rates", h.getRates)
}

func (h *statsHandler) getStats(c *gin.Context) {
	stats, err := h.statsService.GetStats(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromCtx(c.Request.Context()).Error("Failed to get stats", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}

	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

// getRates serves the fixed lock-period schedule so clients have a single source
// of truth for the supported periods and their rates.
func (h *statsHandler) getRates(c *gin.Context) {
	schedule := domain.RateSchedule()
	rates := make([]dto.RateResponse, 0, len(schedule))
	for _, entry := range schedule {
		rates = append(rates, dto.RateResponse{
			LockPeriodDays: entry.LockPeriodDays,
			RatePercent:    entry.RatePercent,
		})
	}
	c.JSON(http.StatusOK, rates)
}
