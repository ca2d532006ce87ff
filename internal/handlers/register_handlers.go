package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	portssvc "github.com/stelvault/timelock_app/internal/core/ports/services"
	"github.com/stelvault/timelock_app/internal/middleware"
	"github.com/stelvault/timelock_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// The original frontend is a separate SPA, so the API stays CORS-open.
	r.Use(cors.Default())

	api := r.Group("/api")

	api.GET("/health", getHealth)

	// Mutating routes (creation and withdrawal move funds) are rate limited.
	rate := limiter.Rate{Period: cfg.RateLimitPeriod, Limit: cfg.RateLimitRequests}
	limiterInstance := limiter.New(memory.NewStore(), rate)
	mutating := []gin.HandlerFunc{middleware.RateLimit(limiterInstance)}

	registerAccountRoutes(api, services.Account, services.Withdrawal, mutating...)
	registerStatsRoutes(api, services.Stats)
}
