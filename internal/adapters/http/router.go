package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/teleclinic/rtc/internal/adapters/signal"
	"github.com/teleclinic/rtc/internal/app/orch"
	"github.com/teleclinic/rtc/internal/auth"
	"github.com/teleclinic/rtc/internal/config"
	"github.com/teleclinic/rtc/internal/domain"
)

// IdentityMiddleware resolves the bearer credential into a verified
// identity and stores it on the request context. The realtime layer
// downstream trusts the result as-is. A missing or invalid token
// yields an anonymous guest; gating rooms by role is the HTTP API's
// job, not the relay's.
func IdentityMiddleware(verifier auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			header := c.GetHeader("Authorization")
			token = strings.TrimPrefix(header, "Bearer ")
			if token == header {
				token = ""
			}
		}
		identity := domain.Anonymous()
		if token != "" && verifier != nil {
			if id, err := verifier.Verify(token); err == nil {
				identity = id
			} else {
				log.Warn().Err(err).Str("module", "adapters.http").Msg("token rejected, treating as guest")
			}
		}
		c.Set("identity", identity)
		c.Next()
	}
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, verifier auth.Verifier) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	r.Use(sessions.Sessions("TeleclinicSessions", store))
	r.Use(IdentityMiddleware(verifier))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": o.Registry.Count(),
		})
	})

	log.Info().Str("module", "adapters.http").Msg("router setup")

	api := r.Group("/api")

	api.GET("/rooms", func(c *gin.Context) {
		c.JSON(http.StatusOK, o.Rooms.List())
	})

	limiter := signal.NewChatRateLimiter(cfg.ChatRateLimit, cfg.ChatRateWindow)
	ctrl := signal.NewSignalWSController(o, limiter, cfg.SendBuffer, cfg.ReadLimit)
	api.GET("/ws/signal", func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	})

	return r
}
