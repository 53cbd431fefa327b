package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatterup/chatterup-server/internal/config"
	"github.com/chatterup/chatterup-server/internal/core"
	"github.com/chatterup/chatterup-server/internal/store"
)

// NewServer builds the HTTP server: health, REST read endpoints, and the
// WebSocket upgrade route.
func NewServer(coord *core.Coordinator, st store.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	api := NewAPIHandlers(coord, st, cfg.HistoryLimit, logger)
	router.GET("/api/users/count", api.UserCount)
	router.GET("/api/messages", api.Messages)

	router.GET("/ws", gin.WrapH(NewWSHandler(coord, logger, cfg.RateLimitPerMin)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
