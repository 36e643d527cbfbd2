package http

import (
	"context"
	"net/http"

	"github.com/ecolive50-hue/backend/internal/adapters/signal"
	"github.com/ecolive50-hue/backend/internal/app"
	"github.com/ecolive50-hue/backend/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func genClientToken() string {
	return uuid.NewString()
}

// ClientTokenMiddleware pins a stable session identity to each
// browser via cookie, so a reconnecting client keeps its hub session.
func ClientTokenMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie("ct")
		if token == "" {
			token = genClientToken()
			c.SetCookie("ct", token, 3600*24*7, "/", "", false, true)
		}
		c.Set("client_token", token)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, orch *app.Orchestrator) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("LiveRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	// Liveness probe; load balancers and the mobile client both hit it.
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "🚀 Live voice backend running")
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, orch.Rooms.List())
	})

	ctl := signal.NewController(orch, cfg)
	api.GET("/ws", func(c *gin.Context) {
		log.Info().Str("module", "adapters.http").Str("sid", c.GetString("client_token")).Msg("ws endpoint hit")
		ctl.HandleSession(ctx, c)
	})

	return r
}
