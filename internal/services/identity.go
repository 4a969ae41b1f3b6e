// Package services – IdentityResolver
//
// IdentityResolver turns an opaque session token into a verified caller
// identity by asking the identity provider, once per call. It also fronts
// the provider's authorization URL and code exchange used by the login flow.
//
// There is no cache: every protected request pays one provider round trip.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/observability"
)

// ProviderUser is the subset of the provider's user record the gateway
// reads. Name is nil when the account has no display name.
type ProviderUser struct {
	ID    int64
	Login string
	Name  *string
}

// IdentityProvider is the OAuth provider contract.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (string, error)
	FetchUser(ctx context.Context, token string) (ProviderUser, error)
}

// IdentityResolver resolves session tokens through an IdentityProvider.
type IdentityResolver struct {
	Provider IdentityProvider
}

// NewIdentityResolver returns a resolver over p.
func NewIdentityResolver(p IdentityProvider) *IdentityResolver {
	return &IdentityResolver{Provider: p}
}

// Resolve returns the identity the token belongs to. Any provider failure,
// or a record without a usable id, yields ErrUpstreamIdentity.
func (r *IdentityResolver) Resolve(ctx context.Context, token string) (_ domain.Identity, err error) {
	ctx, span := otel.Tracer("services/IdentityResolver").Start(ctx, "Resolve")
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamIdentity, "resolve", start, err) }()

	u, err := r.Provider.FetchUser(ctx, token)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch user")
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUpstreamIdentity, err)
	}
	if u.ID == 0 {
		err = fmt.Errorf("%w: user record has no id", ErrUpstreamIdentity)
		span.SetStatus(codes.Error, "no id")
		return domain.Identity{}, err
	}

	name := u.Login
	if u.Name != nil && strings.TrimSpace(*u.Name) != "" {
		name = *u.Name
	}
	span.SetAttributes(attribute.Int64("user.id", u.ID))
	return domain.Identity{ID: u.ID, Name: name}, nil
}

// AuthCodeURL returns the provider URL that starts the authorization flow.
func (r *IdentityResolver) AuthCodeURL(state string) string {
	return r.Provider.AuthCodeURL(state)
}

// Exchange trades an authorization code for a session token.
func (r *IdentityResolver) Exchange(ctx context.Context, code string) (_ string, err error) {
	ctx, span := otel.Tracer("services/IdentityResolver").Start(ctx, "Exchange",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamIdentity, "exchange", start, err) }()

	if strings.TrimSpace(code) == "" {
		return "", ErrMissingCode
	}
	tok, err := r.Provider.Exchange(ctx, code)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "exchange")
		return "", fmt.Errorf("%w: %w", ErrUpstreamIdentity, err)
	}
	if tok == "" {
		err = fmt.Errorf("%w: empty access token", ErrUpstreamIdentity)
		return "", err
	}
	return tok, nil
}
