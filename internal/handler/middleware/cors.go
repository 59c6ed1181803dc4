package middleware

import (
	"log/slog"
	"slices"

	"hotel-reservation/internal/pkg/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Booking clients must be able to send an idempotency key and read the request id back.
var (
	requiredAllowHeaders  = []string{"Idempotency-Key", RequestIDHeader}
	requiredExposeHeaders = []string{RequestIDHeader}
)

func NewCORSMiddleware(cfg config.CORSConfig, logger *slog.Logger) gin.HandlerFunc {
	corsCfg := cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     cfg.AllowMethods,
		AllowHeaders:     withHeaders(cfg.AllowHeaders, requiredAllowHeaders),
		ExposeHeaders:    withHeaders(cfg.ExposeHeaders, requiredExposeHeaders),
		AllowCredentials: cfg.AllowCredentials,
		MaxAge:           cfg.MaxAge,
	}
	logger.Info("CORS configured", "origins", corsCfg.AllowOrigins, "allow_headers", corsCfg.AllowHeaders)
	return cors.New(corsCfg)
}

func withHeaders(configured, required []string) []string {
	out := slices.Clone(configured)
	for _, h := range required {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	return out
}
