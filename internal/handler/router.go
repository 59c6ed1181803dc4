package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"hotel-reservation/internal/handler/api"
	reqdto "hotel-reservation/internal/handler/dto/request"
	"hotel-reservation/internal/handler/middleware"
	"hotel-reservation/internal/pkg/config"
)

const healthPingTimeout = 2 * time.Second

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc // middleware first, endpoint last
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	logger *slog.Logger,
	pool *pgxpool.Pool,
	reservationHandler *api.ReservationHandler,
	availabilityHandler *api.AvailabilityHandler,
	authMiddleware *middleware.AuthMiddleware,
) error {
	if err := reqdto.RegisterValidators(); err != nil {
		return err
	}

	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(
		middleware.CustomRecovery(logger),
		middleware.NewCORSMiddleware(cfg.CORS, logger),
		middleware.RequestLogger(logger),
		middleware.ErrorHandler(logger),
	)

	engine.GET("/health", healthCheck(pool))
	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	staffOnly := []gin.HandlerFunc{authMiddleware.RequireAuth(), authMiddleware.RequireAdmin()}

	register(engine.Group("/reservations"),
		route{http.MethodPost, "", handlers(reservationHandler.Checkout)},
		route{http.MethodGet, "/:code", handlers(reservationHandler.GetByConfirmationCode)},
		route{http.MethodPost, "/:id/cancel", handlers(reservationHandler.Cancel)},
		route{http.MethodPost, "/:id/complete", handlers(reservationHandler.Complete, staffOnly...)},
	)
	register(&engine.RouterGroup,
		route{http.MethodGet, "/availability", handlers(availabilityHandler.Search)},
		route{http.MethodGet, "/calendar/:roomType", handlers(availabilityHandler.Calendar)},
	)
	return nil
}

func handlers(endpoint gin.HandlerFunc, mw ...gin.HandlerFunc) []gin.HandlerFunc {
	return append(mw, endpoint)
}

func register(g *gin.RouterGroup, routes ...route) {
	for _, r := range routes {
		g.Handle(r.method, r.path, r.handlers...)
	}
}

type pinger interface {
	Ping(ctx context.Context) error
}

// @Summary Health check
// @Description Reports whether the service can reach its database
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /health [get]
func healthCheck(db pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "ok"})
	}
}
