// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes gateway settings
// such as server timeouts, logging, the document store, the OAuth provider,
// session cookies, the completion service, and observability.
//
// The configuration is loaded once at startup and passed explicitly to the
// components that need it; nothing reads the process environment afterwards.
package config

import (
	"errors"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tbourn/go-chat-gateway/internal/sysutil"
)

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-chat-gateway")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// StoreConfig selects the document store backend.
type StoreConfig struct {
	Driver string // sqlite|postgres
	DSN    string // file path for sqlite, connection string for postgres
}

// OAuthConfig holds the identity provider (GitHub) settings.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string   // absolute URL of GET /login/callback
	Scopes       []string // requested scopes
	APIBaseURL   string   // base for the user lookup, e.g. https://api.github.com
}

// SessionConfig holds cookie settings for the session manager.
type SessionConfig struct {
	Secret     string // SESSION_SECRET, >= 32 bytes
	CookieName string
	Secure     bool
	MaxAge     time.Duration // cookie lifetime; not a token expiry policy
}

// CompletionConfig holds the completion service settings.
type CompletionConfig struct {
	APIKey  string
	Model   string
	BaseURL string // optional override of the service endpoint
}

// AppConfig holds the browser-facing URLs used for redirects.
type AppConfig struct {
	URL          string // where logout sends the browser
	PostLoginURL string // where the login callback sends the browser
	LoginPath    string // login surface used by the auth gate
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // e.g. 20s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Questions
	MaxQuestionRunes int

	// Auth
	UnifyAuthRejection bool // redirect every protected verb at the gate

	Store      StoreConfig
	OAuth      OAuthConfig
	Session    SessionConfig
	Completion CompletionConfig
	App        AppConfig

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		// Server
		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 120*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/")),

		MaxQuestionRunes:   getint("MAX_QUESTION_RUNES", 4000),
		UnifyAuthRejection: getbool("AUTH_UNIFY_REJECTION", false),

		Store: StoreConfig{
			Driver: strings.ToLower(getenv("STORE_DRIVER", "sqlite")),
			DSN:    getenv("STORE_DSN", "gateway.db"),
		},
		OAuth: OAuthConfig{
			ClientID:     getenv("GITHUB_CLIENT_ID", ""),
			ClientSecret: getenv("GITHUB_CLIENT_SECRET", ""),
			RedirectURL:  getenv("OAUTH_REDIRECT_URL", "http://localhost:8080/login/callback"),
			Scopes:       splitCSV(getenv("OAUTH_SCOPES", "read:user")),
			APIBaseURL:   strings.TrimRight(getenv("GITHUB_API_URL", "https://api.github.com"), "/"),
		},
		Session: SessionConfig{
			Secret:     getenv("SESSION_SECRET", ""),
			CookieName: getenv("SESSION_COOKIE_NAME", "my-session-login-cookie"),
			Secure:     getbool("COOKIE_SECURE", false),
			MaxAge:     getdur("SESSION_COOKIE_MAX_AGE", 30*24*time.Hour),
		},
		Completion: CompletionConfig{
			// "openAI" is the variable name older deployments used.
			APIKey:  sysutil.FirstNonEmpty(os.Getenv("OPENAI_API_KEY"), os.Getenv("openAI")),
			Model:   getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
			BaseURL: getenv("OPENAI_BASE_URL", ""),
		},
		App: AppConfig{
			URL:          getenv("APP_URL", "http://localhost:5173"),
			PostLoginURL: getenv("APP_POST_LOGIN_URL", "http://localhost:5173/chat"),
			LoginPath:    getenv("LOGIN_PATH", "/login"),
		},

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-chat-gateway"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Store.Driver == "postgresql" {
		cfg.Store.Driver = "postgres"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxQuestionRunes <= 0 {
		return cfg, errors.New("MAX_QUESTION_RUNES must be > 0")
	}
	switch cfg.Store.Driver {
	case "sqlite", "postgres":
	default:
		return cfg, errors.New("STORE_DRIVER must be one of: sqlite, postgres")
	}
	if strings.TrimSpace(cfg.Store.DSN) == "" {
		return cfg, errors.New("STORE_DSN must not be empty")
	}
	if strings.TrimSpace(cfg.OAuth.ClientID) == "" || strings.TrimSpace(cfg.OAuth.ClientSecret) == "" {
		return cfg, errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	}
	if !isAbsURL(cfg.OAuth.RedirectURL) {
		return cfg, errors.New("OAUTH_REDIRECT_URL must be an absolute URL")
	}
	if !isAbsURL(cfg.OAuth.APIBaseURL) {
		return cfg, errors.New("GITHUB_API_URL must be an absolute URL")
	}
	if len(cfg.Session.Secret) < 32 {
		return cfg, errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	if strings.TrimSpace(cfg.Session.CookieName) == "" {
		return cfg, errors.New("SESSION_COOKIE_NAME must not be empty")
	}
	if cfg.Session.MaxAge <= 0 {
		return cfg, errors.New("SESSION_COOKIE_MAX_AGE must be > 0")
	}
	if strings.TrimSpace(cfg.Completion.APIKey) == "" {
		return cfg, errors.New("OPENAI_API_KEY is required")
	}
	if strings.TrimSpace(cfg.Completion.Model) == "" {
		return cfg, errors.New("OPENAI_MODEL must not be empty")
	}
	if cfg.Completion.BaseURL != "" && !isAbsURL(cfg.Completion.BaseURL) {
		return cfg, errors.New("OPENAI_BASE_URL must be an absolute URL")
	}
	if strings.TrimSpace(cfg.App.URL) == "" || strings.TrimSpace(cfg.App.PostLoginURL) == "" {
		return cfg, errors.New("APP_URL and APP_POST_LOGIN_URL must not be empty")
	}
	if !strings.HasPrefix(cfg.App.LoginPath, "/") {
		return cfg, errors.New("LOGIN_PATH must start with '/'")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// isAbsURL reports whether s parses as an absolute http(s) URL with a host.
func isAbsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
