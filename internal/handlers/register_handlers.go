package handlers

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/finpost/glcore/internal/core/domain"
	portssvc "github.com/finpost/glcore/internal/core/ports/services"
	"github.com/finpost/glcore/internal/middleware"
	"github.com/finpost/glcore/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
}

// registerValidators installs the custom request validators on gin's binding
// engine.
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	_ = v.RegisterValidation("debitorcredit", func(fl validator.FieldLevel) bool {
		return domain.EntrySide(fl.Field().String()).Valid()
	})
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "X-Request-ID", "X-User-ID")

	v1 := r.Group("/api/v1", cors.New(corsConfig), rateLimitMiddleware(cfg))

	registerLedgerRoutes(v1, services)
	registerAccountingRoutes(v1, services)
	registerPeriodRoutes(v1, services)
	registerReportRoutes(v1, services)
}

// rateLimitMiddleware builds the per-client-IP rate limiter from the
// configured rate, e.g. "300-M".
func rateLimitMiddleware(cfg *config.Config) gin.HandlerFunc {
	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		log.Printf("Warning: Invalid value for RATE_LIMIT ('%s'). Defaulting to 300-M.\n", cfg.RateLimit)
		rate, _ = limiter.NewRateFromFormatted("300-M")
	}
	return middleware.RateLimit(limiter.New(memory.NewStore(), rate))
}

// requestUserID returns the acting user for audit stamping. Authentication is
// handled upstream of this service; the gateway forwards the user id.
func requestUserID(c *gin.Context) string {
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		return userID
	}
	return "system"
}
