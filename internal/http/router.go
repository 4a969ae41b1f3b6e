// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// compression, CORS, security headers and the auth gate.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	_ "github.com/tbourn/go-chat-gateway/docs"
	"github.com/tbourn/go-chat-gateway/internal/config"
	"github.com/tbourn/go-chat-gateway/internal/http/handlers"
	"github.com/tbourn/go-chat-gateway/internal/http/middleware"
)

// maxBodyBytes caps request bodies; questions are short text.
const maxBodyBytes = 1 << 20

// Sessions is what the router needs from the session manager: the gate
// reads the token, the login handlers write it.
type Sessions interface {
	middleware.SessionReader
	handlers.SessionStore
}

// Deps are the collaborators built at startup.
type Deps struct {
	Sessions      Sessions
	Identity      handlers.IdentityService
	Conversations handlers.ConversationService
	Completion    handlers.CompletionService
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. RedactingLogger: structured logs with credential and PII scrubbing
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Gzip
//  8. CORS and Security headers
//
// The message routes additionally run behind the auth gate.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging with redaction
	r.Use(middleware.RedactingLogger(middleware.RedactOptions{}))

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Response compression
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	// 8) CORS posture
	r.Use(corsMiddleware(cfg.CORS))
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptionsFrom(cfg.Security)))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(deps.Sessions, deps.Identity, deps.Conversations, deps.Completion, handlers.Options{
		AppURL:           cfg.App.URL,
		PostLoginURL:     cfg.App.PostLoginURL,
		MaxQuestionRunes: cfg.MaxQuestionRunes,
	})

	// Login surface
	r.GET("/login", h.Login)
	r.GET("/login/callback", h.LoginCallback)
	r.GET("/logout", h.Logout)

	// Protected API
	api := groupWithPrefix(r, cfg.APIBasePath)
	api.Use(middleware.RequireSession(deps.Sessions, middleware.AuthOptions{
		LoginPath:   cfg.App.LoginPath,
		RedirectAll: cfg.UnifyAuthRejection,
	}))
	{
		api.GET("/messages", h.ListMessages)
		api.POST("/messages", h.PostMessage)
		api.DELETE("/messages/:messageId", h.DeleteMessage)
	}
}

// corsMiddleware allows any origin without credentials when no allowlist is
// configured. With an allowlist, credentialed requests (the session cookie)
// are allowed from the listed origins only.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	base := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "If-None-Match", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag"},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 {
		base.AllowAllOrigins = true
		base.AllowCredentials = false // must remain false with AllowAllOrigins
		return cors.New(base)
	}
	base.AllowOrigins = cfg.AllowedOrigins
	base.AllowCredentials = true
	return cors.New(base)
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}
