// Package github adapts GitHub OAuth apps to the gateway's identity
// provider contract: the authorize URL, the authorization-code exchange
// (golang.org/x/oauth2) and the authenticated user lookup (GET /user).
//
// Requests carry the caller's context and go through an otelhttp-instrumented
// client; no timeout or retry is added.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	ghendpoint "golang.org/x/oauth2/github"

	"github.com/tbourn/go-chat-gateway/internal/config"
	"github.com/tbourn/go-chat-gateway/internal/observability"
	"github.com/tbourn/go-chat-gateway/internal/services"
)

const (
	acceptHeader = "application/vnd.github+json"
	apiVersion   = "2022-11-28"

	// maxErrBody caps how much of an error response is kept in the error.
	maxErrBody = 512
)

// Client talks to GitHub on behalf of the gateway.
type Client struct {
	oauth *oauth2.Config
	api   string
	http  *http.Client
}

// New returns a client for the OAuth app described by cfg.
func New(cfg config.OAuthConfig) *Client {
	return &Client{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     ghendpoint.Endpoint,
		},
		api:  cfg.APIBaseURL,
		http: observability.HTTPClient(observability.UpstreamIdentity),
	}
}

// AuthCodeURL returns the GitHub authorize URL for state.
func (c *Client) AuthCodeURL(state string) string {
	return c.oauth.AuthCodeURL(state)
}

// Exchange trades code for an access token.
func (c *Client) Exchange(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	tok, err := c.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("github: exchange code: %w", err)
	}
	return tok.AccessToken, nil
}

type userResponse struct {
	ID    int64   `json:"id"`
	Login string  `json:"login"`
	Name  *string `json:"name"`
}

// FetchUser returns the user the token belongs to.
func (c *Client) FetchUser(ctx context.Context, token string) (services.ProviderUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.api+"/user", nil)
	if err != nil {
		return services.ProviderUser{}, fmt.Errorf("github: build user request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	resp, err := c.http.Do(req)
	if err != nil {
		return services.ProviderUser{}, fmt.Errorf("github: user request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		return services.ProviderUser{}, fmt.Errorf("github: user lookup status %d: %s", resp.StatusCode, body)
	}

	var u userResponse
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return services.ProviderUser{}, fmt.Errorf("github: decode user: %w", err)
	}
	return services.ProviderUser{ID: u.ID, Login: u.Login, Name: u.Name}, nil
}

// compile-time interface check
var _ services.IdentityProvider = (*Client)(nil)
