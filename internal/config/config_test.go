package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// setRequired sets the variables that have no usable default.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("GITHUB_CLIENT_ID", "client-id")
	t.Setenv("GITHUB_CLIENT_SECRET", "client-secret")
	t.Setenv("SESSION_SECRET", strings.Repeat("s", 32))
	t.Setenv("OPENAI_API_KEY", "sk-test")
}

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	setRequired(t)
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_PanicsWithoutCompletionKey(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("openAI", "")
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic when the API key is missing")
		}
	}()
	_ = MustLoad()
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	setRequired(t)
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath != "/" {
		t.Fatalf("API_BASE_PATH default expected '/', got %q", cfg.APIBasePath)
	}
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	setRequired(t)

	// Server
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // -> "/api/v1"

	t.Setenv("MAX_QUESTION_RUNES", "nope") // -> default 4000
	t.Setenv("AUTH_UNIFY_REJECTION", "true")

	// Store
	t.Setenv("STORE_DRIVER", "PostgreSQL")
	t.Setenv("STORE_DSN", "postgres://u:p@db/gw")

	// OAuth
	t.Setenv("OAUTH_REDIRECT_URL", "https://gw.example.com/login/callback")
	t.Setenv("OAUTH_SCOPES", "read:user, user:email")
	t.Setenv("GITHUB_API_URL", "https://ghe.example.com/api/v3/")

	// Session
	t.Setenv("SESSION_COOKIE_NAME", "sid")
	t.Setenv("COOKIE_SECURE", "1")
	t.Setenv("SESSION_COOKIE_MAX_AGE", "1h")

	// Completion
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_BASE_URL", "http://llm.local/v1")

	// App
	t.Setenv("APP_URL", "https://app.example.com")
	t.Setenv("APP_POST_LOGIN_URL", "https://app.example.com/chat")

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}
	if cfg.LogLevel != "warn" || !cfg.LogPretty || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.MaxQuestionRunes != 4000 || !cfg.UnifyAuthRejection {
		t.Fatalf("question/auth unexpected: %+v", cfg)
	}
	if cfg.Store.Driver != "postgres" || cfg.Store.DSN != "postgres://u:p@db/gw" {
		t.Fatalf("store unexpected: %+v", cfg.Store)
	}
	if cfg.OAuth.RedirectURL != "https://gw.example.com/login/callback" ||
		!reflect.DeepEqual(cfg.OAuth.Scopes, []string{"read:user", "user:email"}) ||
		cfg.OAuth.APIBaseURL != "https://ghe.example.com/api/v3" {
		t.Fatalf("oauth unexpected: %+v", cfg.OAuth)
	}
	if cfg.Session.CookieName != "sid" || !cfg.Session.Secure || cfg.Session.MaxAge != time.Hour {
		t.Fatalf("session unexpected: %+v", cfg.Session)
	}
	if cfg.Completion.APIKey != "sk-test" || cfg.Completion.Model != "gpt-4o-mini" || cfg.Completion.BaseURL != "http://llm.local/v1" {
		t.Fatalf("completion unexpected: %+v", cfg.Completion)
	}
	if cfg.App.URL != "https://app.example.com" || cfg.App.PostLoginURL != "https://app.example.com/chat" || cfg.App.LoginPath != "/login" {
		t.Fatalf("app unexpected: %+v", cfg.App)
	}
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

func TestLoad_LegacyCompletionKeyName(t *testing.T) {
	setRequired(t)
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("openAI", "sk-legacy")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Completion.APIKey != "sk-legacy" {
		t.Fatalf("expected legacy key to be used, got %q", cfg.Completion.APIKey)
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Completion.Model != "gpt-3.5-turbo" {
		t.Fatalf("default model = %q", cfg.Completion.Model)
	}
	if cfg.Store.Driver != "sqlite" || cfg.Store.DSN != "gateway.db" {
		t.Fatalf("default store = %+v", cfg.Store)
	}
	if cfg.Session.CookieName != "my-session-login-cookie" {
		t.Fatalf("default cookie name = %q", cfg.Session.CookieName)
	}
	if cfg.App.PostLoginURL != "http://localhost:5173/chat" || cfg.App.URL != "http://localhost:5173" {
		t.Fatalf("default app urls = %+v", cfg.App)
	}
	if cfg.UnifyAuthRejection {
		t.Fatalf("unified auth rejection must be opt-in")
	}
}

// --- Load validations (each case triggers exactly one validation error) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"invalid LOG_LEVEL", map[string]string{"LOG_LEVEL": "verbose"}, "LOG_LEVEL"},
		{"empty PORT via spaces", map[string]string{"PORT": "   "}, "PORT must not be empty"},
		{"non-positive timeouts", map[string]string{"READ_TIMEOUT": "0s"}, "timeouts must be positive"},
		{"max header bytes <= 0", map[string]string{"MAX_HEADER_BYTES": "0"}, "MAX_HEADER_BYTES"},
		{"max question runes <= 0", map[string]string{"MAX_QUESTION_RUNES": "-5"}, "MAX_QUESTION_RUNES"},
		{"unknown store driver", map[string]string{"STORE_DRIVER": "mongo"}, "STORE_DRIVER"},
		{"empty store dsn", map[string]string{"STORE_DSN": "  "}, "STORE_DSN"},
		{"missing client secret", map[string]string{"GITHUB_CLIENT_SECRET": " "}, "GITHUB_CLIENT_ID"},
		{"relative redirect url", map[string]string{"OAUTH_REDIRECT_URL": "/login/callback"}, "OAUTH_REDIRECT_URL"},
		{"bad api url", map[string]string{"GITHUB_API_URL": "ftp://x"}, "GITHUB_API_URL"},
		{"short session secret", map[string]string{"SESSION_SECRET": "short"}, "SESSION_SECRET"},
		{"empty cookie name", map[string]string{"SESSION_COOKIE_NAME": " "}, "SESSION_COOKIE_NAME"},
		{"non-positive cookie max age", map[string]string{"SESSION_COOKIE_MAX_AGE": "-1h"}, "SESSION_COOKIE_MAX_AGE"},
		{"bad completion base url", map[string]string{"OPENAI_BASE_URL": "llm.local"}, "OPENAI_BASE_URL"},
		{"empty model", map[string]string{"OPENAI_MODEL": " "}, "OPENAI_MODEL"},
		{"login path without slash", map[string]string{"LOGIN_PATH": "login"}, "LOGIN_PATH"},
		{"hsts max age negative", map[string]string{"HSTS_MAX_AGE": "-1s"}, "HSTS_MAX_AGE"},
		{"otel sample ratio out of range", map[string]string{"OTEL_TRACES_SAMPLER_ARG": "1.5"}, "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); err == nil || !containsErr(err, tc.want) {
				t.Fatalf("expected %s validation error, got: %v", tc.want, err)
			}
		})
	}
}

// --- helpers ---

func TestHelpers_getenv(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	if getenv("X_EMPTY", "d") != "d" {
		t.Fatalf("getenv should fall back to default on empty var")
	}
	t.Setenv("X_SET", "val")
	if getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv should read set value")
	}
}

func TestHelpers_getfloat_getint_getdur(t *testing.T) {
	t.Setenv("F_VALID", "3.14")
	if getfloat("F_VALID", 0) != 3.14 {
		t.Fatalf("getfloat parse failed")
	}
	t.Setenv("F_BAD", "nope")
	if getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat default on bad parse failed")
	}

	t.Setenv("I_VALID", "42")
	if getint("I_VALID", 0) != 42 {
		t.Fatalf("getint parse failed")
	}
	t.Setenv("I_BAD", "x")
	if getint("I_BAD", 7) != 7 {
		t.Fatalf("getint default on bad parse failed")
	}

	t.Setenv("D_VALID", "150ms")
	if getdur("D_VALID", time.Second) != 150*time.Millisecond {
		t.Fatalf("getdur parse failed")
	}
	t.Setenv("D_BAD", "zzz")
	if getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur default on bad parse failed")
	}
}

func TestHelpers_getbool(t *testing.T) {
	for i, v := range []string{"1", "true", "TRUE", " yes ", "Y", "on", "On"} {
		k := "B_T_" + string(rune('a'+i))
		t.Setenv(k, v)
		if !getbool(k, false) {
			t.Fatalf("getbool(%q) = false; want true", v)
		}
	}
	for i, v := range []string{"0", "false", "FALSE", " no ", "N", "off", "Off"} {
		k := "B_F_" + string(rune('a'+i))
		t.Setenv(k, v)
		if getbool(k, true) {
			t.Fatalf("getbool(%q) = true; want false", v)
		}
	}
	t.Setenv("B_EMPTY", "")
	if !getbool("B_EMPTY", true) || getbool("B_EMPTY", false) {
		t.Fatalf("getbool default behavior unexpected")
	}
}

func TestHelpers_splitCSV_normalizeBasePath_isAbsURL(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitCSV mismatch: got %#v", got)
	}

	if normalizeBasePath("") != "/" {
		t.Fatalf("normalizeBasePath empty -> '/' failed")
	}
	if normalizeBasePath("v1") != "/v1" {
		t.Fatalf("normalizeBasePath missing leading slash failed")
	}
	if normalizeBasePath("/v1/") != "/v1" {
		t.Fatalf("normalizeBasePath trailing slash trim failed")
	}

	if !isAbsURL("https://api.github.com") || !isAbsURL("http://localhost:8080/x") {
		t.Fatalf("isAbsURL should accept http(s) URLs")
	}
	if isAbsURL("/relative") || isAbsURL("mailto:a@b") || isAbsURL("") {
		t.Fatalf("isAbsURL should reject non-absolute URLs")
	}
}

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	for _, k := range []string{"PORT", "OPENAI_API_KEY", "openAI", "SESSION_SECRET", "GITHUB_CLIENT_ID", "GITHUB_CLIENT_SECRET"} {
		os.Unsetenv(k)
	}
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}
