package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/hdbaza/helpdesk-api/internal/config"
	"github.com/hdbaza/helpdesk-api/internal/handler"
	"github.com/hdbaza/helpdesk-api/internal/logger"
	"github.com/hdbaza/helpdesk-api/internal/middleware"
	"github.com/hdbaza/helpdesk-api/internal/response"
	"github.com/hdbaza/helpdesk-api/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth        *handler.AuthHandler
	Problem     *handler.ProblemHandler
	Instruction *handler.InstructionHandler
	Admin       *handler.AdminHandler
	Media       *handler.MediaHandler
	Stats       *handler.StatsHandler
	WS          *handler.WSHandler
	System      *handler.SystemHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// loginLimiter may be nil to disable login throttling.
func SetupRouter(
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	loginLimiter *middleware.RateLimiter,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Request ID first so the access log and every envelope carry it.
	router.Use(response.RequestIDMiddleware())
	router.Use(logger.RequestLogger(log))
	router.Use(middleware.Compression())

	router.GET("/health", handlers.System.Health)

	api := router.Group("/api")
	api.Use(middleware.NoStore())

	// ─── 1. Public ─────────────────────────────────────────────────────
	api.GET("/", handlers.System.Root)
	api.GET("/check-admin/:email", handlers.Admin.CheckAdmin)

	login := []gin.HandlerFunc{handlers.Auth.Login}
	if loginLimiter != nil {
		login = append([]gin.HandlerFunc{loginLimiter.Middleware()}, login...)
	}
	api.POST("/login", login...)

	// ─── 2. Authenticated ──────────────────────────────────────────────
	user := api.Group("")
	user.Use(middleware.RequireAuth(authService))
	{
		user.POST("/logout", handlers.Auth.Logout)
		user.GET("/me", handlers.Auth.Me)

		user.POST("/problems", handlers.Problem.Create)
		user.GET("/problems", handlers.Problem.List)
		user.GET("/problems/:id", handlers.Problem.Get)
		user.PUT("/problems/:id", handlers.Problem.Update)

		user.GET("/instructions/:problem_id", handlers.Instruction.Get)

		user.POST("/upload", handlers.Media.Upload)
		user.GET("/stats", handlers.Stats.Get)
	}

	// ─── 3. Admin ──────────────────────────────────────────────────────
	admin := api.Group("")
	admin.Use(middleware.RequireAuth(authService), middleware.RequireAdmin(authService))
	{
		admin.PUT("/problems/:id/status", handlers.Problem.UpdateStatus)
		admin.DELETE("/problems/:id", handlers.Problem.Delete)

		admin.POST("/instructions", handlers.Instruction.Create)
		admin.DELETE("/instructions/:problem_id", handlers.Instruction.Delete)

		admin.GET("/admins", handlers.Admin.List)
		admin.POST("/admins", handlers.Admin.Create)
		admin.DELETE("/admins/:email", handlers.Admin.Delete)
	}

	// ─── 4. WebSocket (token in query) ─────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.RequireAuth(authService), middleware.RequireAdmin(authService))
	{
		ws.GET("/events", handlers.WS.Events)
	}

	return router
}
