package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/multitemplate"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/questbank/internal/config"
	"github.com/stemsi/questbank/internal/handler"
	"github.com/stemsi/questbank/internal/middleware"
	"github.com/stemsi/questbank/internal/response"
	"github.com/stemsi/questbank/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Health   *handler.HealthHandler
	Question *handler.QuestionHandler
	Document *handler.DocumentHandler
	Session  *handler.SessionHandler
	UI       *handler.UIHandler
}

// Deps holds what the router needs besides handlers.
type Deps struct {
	Sessions      *service.SessionService
	AppendLimiter middleware.Limiter
	Renderer      multitemplate.Render
	Log           zerolog.Logger
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, deps Deps, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(deps.Log))
	router.HTMLRender = deps.Renderer

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PATCH", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", handler.HeaderDocumentWarnings}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", handlers.Health.Health)

	appendLimit := middleware.RateLimit(deps.AppendLimiter)

	// ─── 1. JSON API ───────────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.NoStore())
	{
		api.GET("/questions", handlers.Question.ListQuestions)
		api.POST("/questions", appendLimit, handlers.Question.CreateQuestion)
		api.POST("/questions/sample", handlers.Question.SampleQuestions)

		api.POST("/documents/preview", handlers.Document.Preview)
		api.POST("/documents/export", handlers.Document.Export)

		api.POST("/sessions", handlers.Session.CreateSession)
		api.GET("/sessions/:id", handlers.Session.GetSession)
		api.PATCH("/sessions/:id", handlers.Session.UpdateSession)
		api.POST("/sessions/:id/export", handlers.Session.ExportSession)
	}

	// ─── 2. Form UI ────────────────────────────────────────────────────
	ui := router.Group("/")
	ui.Use(middleware.NoStore(), middleware.EnsureSession(deps.Sessions, int(cfg.SessionTTL/time.Second), deps.Log))
	{
		ui.GET("/", handlers.UI.Bank)
		ui.POST("/ui/filters", handlers.UI.Filters)
		ui.POST("/ui/selection", handlers.UI.Selection)
		ui.POST("/ui/document", handlers.UI.Document)
		ui.POST("/ui/export", handlers.UI.Export)
		ui.POST("/ui/reset", handlers.UI.Reset)
		ui.GET("/ui/questions/new", handlers.UI.NewQuestion)
		ui.POST("/ui/questions", appendLimit, handlers.UI.CreateQuestion)
	}

	router.GET("/ui/about", middleware.CacheControl(3600), handlers.UI.About)

	router.NoRoute(func(c *gin.Context) {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
	})

	return router
}

// requestLogger logs one line per request with the structured logger.
func requestLogger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		ev := log.Info()
		if c.Writer.Status() >= http.StatusInternalServerError {
			ev = log.Error().Str("errors", c.Errors.String())
		}
		ev.Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("request_id", response.RequestID(c)).
			Msg("HTTP request")
	}
}
