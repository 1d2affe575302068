package http

import (
	"context"
	"net/http"
	"path/filepath"

	"github.com/dkeye/ShareRoom/internal/adapters/signal"
	"github.com/dkeye/ShareRoom/internal/app/orch"
	"github.com/dkeye/ShareRoom/internal/config"
	"github.com/dkeye/ShareRoom/internal/domain"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

func genClientToken() string {
	idStr := uuid.NewString()
	return idStr
}

// ClientTokenMiddleware tags every browser with a long-lived token used only
// to correlate log lines; it is not a connection id.
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

type profileRequest struct {
	Username string `json:"username"`
}

func SetupRouter(ctx context.Context, cfg *config.Config, o *orch.Orchestrator, limiter *signal.RoomRateLimiter) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	store := cookie.NewStore([]byte(cfg.Secret))
	// Secure cookies never come back over plain http or ws.
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   3600 * 24 * 7,
		HttpOnly: true,
		Secure:   cfg.Mode == "release",
		SameSite: http.SameSiteLaxMode,
	})
	r.Use(sessions.Sessions("ShareRoomSessions", store))
	r.Use(ClientTokenMiddleware())

	index := filepath.Join(cfg.StaticPath, "index.html")
	r.Static("/static", cfg.StaticPath)
	r.GET("/", func(c *gin.Context) {
		c.File(index)
	})
	r.GET("/room/:code", func(c *gin.Context) {
		c.File(index)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":      "ok",
			"connections": o.Registry.Count(),
			"rooms":       len(o.Rooms.List()),
		})
	})

	log.Info().Str("module", "adapters.http").Str("static", cfg.StaticPath).Msg("router setup")

	api := r.Group("/api")

	// GET /api/rooms/:code lets the lobby check a code before opening a socket
	api.GET("/rooms/:code", func(c *gin.Context) {
		code := domain.NormalizeRoomCode(c.Param("code"))
		members, err := o.Rooms.Members(code)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"roomCode": code, "exists": false, "members": 0})
			return
		}
		c.JSON(http.StatusOK, gin.H{"roomCode": code, "exists": true, "members": len(members)})
	})

	api.GET("/ice-servers", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"iceServers": cfg.WebRTCICEServers()})
	})

	// PUT /api/profile remembers the display name for the next socket
	api.PUT("/profile", func(c *gin.Context) {
		var req profileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_payload"})
			return
		}
		if err := domain.ValidateUsername(req.Username); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		name := domain.NormalizeUsername(req.Username, domain.DefaultUsername)
		sess := sessions.Default(c)
		sess.Set(signal.SessionUsernameKey, name)
		if err := sess.Save(); err != nil {
			log.Error().Err(err).Str("module", "adapters.http").Msg("save session")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": name})
	})

	ctrl := signal.NewSignalWSController(o, limiter, signal.Options{
		ReadLimit:  cfg.ReadLimit,
		PingPeriod: cfg.PingPeriod,
		PongWait:   cfg.PongWait,
		WriteWait:  cfg.WriteWait,
		SendBuffer: cfg.SendBuffer,
	})
	ws := func(c *gin.Context) {
		ctrl.HandleSignal(ctx, c)
	}
	api.GET("/ws/signal", ws)
	r.GET("/ws", ws)

	return r
}
