package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/orionjupiterai/finbrain-api/internal/auth"
	"github.com/orionjupiterai/finbrain-api/internal/config"
	"github.com/orionjupiterai/finbrain-api/internal/http/handlers"
	"github.com/orionjupiterai/finbrain-api/internal/http/middlewares"
	"github.com/orionjupiterai/finbrain-api/internal/notifications"
	"github.com/orionjupiterai/finbrain-api/internal/observability"
	"github.com/orionjupiterai/finbrain-api/internal/store"
)

const serviceName = "finbrain-api"

// Deps carries everything the router wires together. Prom, Metrics and
// Notifier are optional; leaving them nil drops the corresponding wiring.
type Deps struct {
	Cfg         config.Config
	Users       store.Users
	Sessions    store.Sessions
	Accounts    store.Accounts
	Tokens      auth.TokenSource
	Notifier    notifications.Notifier
	Prom        *observability.Prom
	Metrics     http.Handler
	ReadyChecks []handlers.ReadyCheck
}

func NewRouter(deps Deps) *gin.Engine {
	if deps.Cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	// middleware
	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.SecurityHeaders())
	if len(deps.Cfg.AllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(deps.Cfg.AllowedOrigins))
	}
	if deps.Cfg.MaxBodyBytes > 0 {
		r.Use(middlewares.MaxBodyBytes(deps.Cfg.MaxBodyBytes))
	}
	r.Use(middlewares.RequireJSON())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(middlewares.RequestLogger())
	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	authMW := middlewares.NewAuthMiddleware(deps.Sessions)

	// handlers
	meta := handlers.NewMetaHandler(deps.Users, deps.Sessions, deps.Accounts)
	health := handlers.NewHealthHandler(deps.ReadyChecks...)
	authHandler := handlers.NewAuthHandler(deps.Users, deps.Sessions, deps.Tokens, deps.Notifier)
	accountsHandler := handlers.NewAccountsHandler(deps.Accounts)

	r.GET("/", meta.Root)
	r.GET("/health", health.Health)
	r.GET("/ready", health.Ready)
	r.GET("/test", meta.Test)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/status", meta.APIStatus)

	authGroup := v1.Group("/auth")
	if deps.Cfg.AuthRateLimit > 0 {
		limiter := middlewares.NewRateLimiter(deps.Cfg.AuthRateLimit, deps.Cfg.AuthRateWindow)
		authGroup.Use(limiter.RateLimiterMiddleware(middlewares.KeyByIP))
	}
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	v1.GET("/users/me", authMW.RequireAuth(), authHandler.Me)

	accounts := v1.Group("/accounts")
	accounts.Use(authMW.RequireAuth())
	accounts.POST("", accountsHandler.Create)
	accounts.GET("", accountsHandler.List)
	accounts.GET("/summary", accountsHandler.Summary)
	accounts.GET("/:id", accountsHandler.Get)
	accounts.PUT("/:id", accountsHandler.Update)
	accounts.DELETE("/:id", accountsHandler.Delete)

	return r
}
