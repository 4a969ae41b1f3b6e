// Package handlers exposes the gateway's HTTP endpoints.
//
// Endpoints:
//   - GET    /login                  (start the OAuth authorization flow)
//   - GET    /login/callback         (finish it and bind the session)
//   - GET    /logout                 (clear session cookies)
//   - GET    /messages               (list the caller's messages)
//   - POST   /messages               (ask a question, store the answer)
//   - DELETE /messages/{messageId}   (delete one of the caller's messages)
//
// Handlers are transport-thin: they validate input, read the auth gate's
// verdict, call application services, and translate results into HTTP
// responses. Every protected handler resolves the caller's identity afresh;
// nothing about the identity is cached between requests.
package handlers

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-gateway/internal/domain"
)

//
// Service contracts (context-aware)
//

// SessionStore binds the provider token and the OAuth state to the browser.
type SessionStore interface {
	Set(c *gin.Context, token domain.Session) error
	Clear(c *gin.Context)
	IssueState(c *gin.Context) (string, error)
	VerifyState(c *gin.Context, state string) error
}

// IdentityService resolves tokens and fronts the provider's OAuth endpoints.
type IdentityService interface {
	// Resolve returns the identity behind token; one provider round trip.
	Resolve(ctx context.Context, token string) (domain.Identity, error)
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
}

// ConversationService is the identity-scoped message store.
//
// Implementations must build every path from uid and honor ctx.
type ConversationService interface {
	List(ctx context.Context, uid int64) ([]domain.Message, error)
	Create(ctx context.Context, uid int64, question, answer string) (domain.Message, error)
	Delete(ctx context.Context, uid int64, messageID string) error
	EnsureProfile(ctx context.Context, uid int64, name string) (bool, error)
	Stats(ctx context.Context, uid int64) (int64, *time.Time, error)
}

// CompletionService answers a single question.
type CompletionService interface {
	Complete(ctx context.Context, question string) (string, error)
}

// Options carries the handler settings taken from configuration.
type Options struct {
	AppURL           string // logout target
	PostLoginURL     string // login callback target
	MaxQuestionRunes int
}

// Handlers groups the gateway's HTTP endpoints.
type Handlers struct {
	sessions SessionStore
	identity IdentityService
	convo    ConversationService
	answers  CompletionService
	opt      Options
}

// New constructs and returns a Handlers instance bound to the given services.
func New(sessions SessionStore, identity IdentityService, convo ConversationService, answers CompletionService, opt Options) *Handlers {
	return &Handlers{
		sessions: sessions,
		identity: identity,
		convo:    convo,
		answers:  answers,
		opt:      opt,
	}
}
