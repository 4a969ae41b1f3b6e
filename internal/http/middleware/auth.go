// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements the auth gate. It runs before every protected route,
// looks only at whether a session token can be read (no identity call), and
// records an AuthResult in the Gin context for the handler:
//
//   - Read-style requests (GET/HEAD) without a token are redirected to the
//     login surface and the handler is never invoked.
//   - Mutating requests without a token are NOT stopped here. The gate
//     records Rejected(ErrAuthMissing) and continues; the handler then fails
//     the request with a generic 500.
//   - With RedirectAll set, every protected verb without a token is
//     redirected at the gate.
//
// The gate never writes application state.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/services"
)

// authResultKey is the Gin context key holding the gate's AuthResult.
const authResultKey = "authResult"

// SessionReader reads the session token bound to the request.
type SessionReader interface {
	Get(c *gin.Context) (domain.Session, bool)
}

// AuthOptions configures RequireSession.
type AuthOptions struct {
	// LoginPath is where unauthenticated read requests are sent.
	LoginPath string
	// RedirectAll redirects mutating requests too instead of handing a
	// rejection to the handler.
	RedirectAll bool
}

// AuthResult is the gate's verdict: Authenticated(token) when Err is nil,
// Rejected(Err) otherwise.
type AuthResult struct {
	Token domain.Session
	Err   error
}

// Authenticated reports whether the request carried a session token.
func (r AuthResult) Authenticated() bool { return r.Err == nil && !r.Token.Empty() }

// RequireSession returns the auth gate middleware.
func RequireSession(sessions SessionReader, opt AuthOptions) gin.HandlerFunc {
	login := opt.LoginPath
	if login == "" {
		login = "/login"
	}
	return func(c *gin.Context) {
		if tok, ok := sessions.Get(c); ok && !tok.Empty() {
			c.Set(authResultKey, AuthResult{Token: tok})
			authGateOutcomes.WithLabelValues("authenticated").Inc()
			c.Next()
			return
		}

		if opt.RedirectAll || isReadStyle(c.Request.Method) {
			authGateOutcomes.WithLabelValues("redirected").Inc()
			c.Redirect(http.StatusFound, login)
			c.Abort()
			return
		}

		authGateOutcomes.WithLabelValues("rejected").Inc()
		c.Set(authResultKey, AuthResult{Err: services.ErrAuthMissing})
		c.Next()
	}
}

// AuthFrom returns the AuthResult recorded by the gate. Routes that did not
// pass through the gate read as Rejected(ErrAuthMissing).
func AuthFrom(c *gin.Context) AuthResult {
	if v, ok := c.Get(authResultKey); ok {
		if r, ok := v.(AuthResult); ok {
			return r
		}
	}
	return AuthResult{Err: services.ErrAuthMissing}
}

func isReadStyle(method string) bool {
	return method == http.MethodGet || method == http.MethodHead
}
