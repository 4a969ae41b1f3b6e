// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements RedactingLogger, the access logger used in
// production. It never logs bodies (questions and answers stay out of logs)
// and scrubs request metadata before emitting:
//
//   - Session and OAuth credentials: the Cookie, Set-Cookie and
//     Authorization headers are fully masked, and the OAuth callback's
//     code/state query parameters are replaced.
//   - Obvious PII in the remaining query string and headers: emails and
//     UUID-like identifiers.
//
// Usage:
//
//	r.Use(middleware.RedactingLogger(middleware.RedactOptions{
//	    MaskHeaders: []string{"X-Api-Key"},
//	}))
package middleware

import (
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const redacted = "[REDACTED]"

// RedactOptions configures additional scrub behavior for RedactingLogger.
//
// MaskHeaders and MaskParams extend the built-in header and query parameter
// sets. Header matching is case-insensitive; parameter matching is exact.
type RedactOptions struct {
	MaskHeaders []string
	MaskParams  []string
}

var (
	// UUIDs are redacted before emails so the email pattern never sees them.
	uuidRE  = regexp.MustCompile(`(?i)\b[0-9a-f]{8}\-[0-9a-f]{4}\-[1-5][0-9a-f]{3}\-[89ab][0-9a-f]{3}\-[0-9a-f]{12}\b`)
	emailRE = regexp.MustCompile(`(?i)\b[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}\b`)
)

func redactPII(s string) string {
	if s == "" {
		return s
	}
	s = uuidRE.ReplaceAllString(s, "[REDACTED:id]")
	return emailRE.ReplaceAllString(s, "[REDACTED:email]")
}

// RedactingLogger returns a Gin middleware that logs each request with
// credentials and PII scrubbed. Like Logger it attaches a request-scoped
// logger to the Gin and request contexts. Level: error for 5xx, warn for
// 4xx, info otherwise.
func RedactingLogger(opts RedactOptions) gin.HandlerFunc {
	maskHeaders := map[string]struct{}{
		"authorization": {},
		"cookie":        {},
		"set-cookie":    {},
	}
	for _, h := range opts.MaskHeaders {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			maskHeaders[h] = struct{}{}
		}
	}
	maskParams := map[string]struct{}{
		"code":         {},
		"state":        {},
		"access_token": {},
	}
	for _, p := range opts.MaskParams {
		if p = strings.TrimSpace(p); p != "" {
			maskParams[p] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		start := time.Now()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		safeQuery := scrubQuery(c.Request.URL.RawQuery, maskParams)

		safeHeaders := make(map[string]string, len(c.Request.Header))
		for k, vv := range c.Request.Header {
			if _, ok := maskHeaders[strings.ToLower(k)]; ok {
				safeHeaders[k] = redacted
				continue
			}
			safeHeaders[k] = redactPII(strings.Join(vv, ", "))
		}

		l := log.With().
			Str("request_id", RequestIDFrom(c)).
			Str("method", c.Request.Method).
			Str("path", path).
			Logger()
		c.Set(loggerKey, &l)
		c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))

		c.Next()

		status := c.Writer.Status()
		var ev *zerolog.Event
		switch {
		case status >= 500 || len(c.Errors) > 0:
			ev = l.Error()
		case status >= 400:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		if v, ok := c.Get(userIDKey); ok {
			if uid, ok := v.(int64); ok {
				ev = ev.Int64("user_id", uid)
			}
		}
		if len(c.Errors) > 0 {
			ev = ev.Str("errors", c.Errors.String())
		}

		ev.
			Str("query", safeQuery).
			Int("status", status).
			Int("bytes", c.Writer.Size()).
			Dur("latency", time.Since(start)).
			Interface("headers", safeHeaders).
			Msg("http_request")
	}
}

// scrubQuery masks sensitive parameters and redacts PII in the rest. An
// unparsable query is redacted as a whole.
func scrubQuery(raw string, mask map[string]struct{}) string {
	if raw == "" {
		return ""
	}
	vals, err := url.ParseQuery(raw)
	if err != nil {
		return redacted
	}
	for k, vv := range vals {
		if _, ok := mask[k]; ok {
			vals[k] = []string{redacted}
			continue
		}
		for i := range vv {
			vv[i] = redactPII(vv[i])
		}
	}
	return truncate(vals.Encode(), maxQueryLogLength)
}
