// Package session binds an opaque provider token to a browser through a
// sealed cookie, and issues the short-lived OAuth state used by the login
// flow.
//
// The session cookie carries the token sealed with NaCl secretbox under a
// key derived from the configured secret; the gateway never interprets the
// token itself. Cookies that fail to open read as absent. The OAuth state is
// an HS256 JWT kept in its own cookie for ten minutes and consumed by the
// callback.
package session

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/tbourn/go-chat-gateway/internal/config"
	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/services"
)

const (
	// StateCookieName holds the OAuth state JWT between /login and the callback.
	StateCookieName = "oauth2-redirect-state"
	stateTTL        = 10 * time.Minute

	nonceLen = 24
)

// Manager reads and writes the session and state cookies.
type Manager struct {
	cookieName string
	secure     bool
	maxAge     time.Duration

	sealKey  [32]byte
	stateKey []byte

	now func() time.Time
}

// NewManager derives the cookie keys from cfg.Secret.
func NewManager(cfg config.SessionConfig) (*Manager, error) {
	if len(cfg.Secret) < 32 {
		return nil, errors.New("session secret must be at least 32 bytes")
	}
	m := &Manager{
		cookieName: cfg.CookieName,
		secure:     cfg.Secure,
		maxAge:     cfg.MaxAge,
		stateKey:   make([]byte, 32),
		now:        time.Now,
	}
	if err := derive([]byte(cfg.Secret), "session-cookie", m.sealKey[:]); err != nil {
		return nil, err
	}
	if err := derive([]byte(cfg.Secret), "oauth-state", m.stateKey); err != nil {
		return nil, err
	}
	return m, nil
}

func derive(secret []byte, info string, out []byte) error {
	_, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), out)
	return err
}

// Set binds token to the client.
func (m *Manager) Set(c *gin.Context, token domain.Session) error {
	var nonce [nonceLen]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("session nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(token), &nonce, &m.sealKey)
	m.setCookie(c, m.cookieName, base64.RawURLEncoding.EncodeToString(sealed), int(m.maxAge/time.Second))
	return nil
}

// Get returns the bound token. A missing, tampered or foreign cookie reads
// as absent.
func (m *Manager) Get(c *gin.Context) (domain.Session, bool) {
	raw, err := c.Cookie(m.cookieName)
	if err != nil || raw == "" {
		return "", false
	}
	box, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil || len(box) < nonceLen+secretbox.Overhead {
		return "", false
	}
	var nonce [nonceLen]byte
	copy(nonce[:], box[:nonceLen])
	plain, ok := secretbox.Open(nil, box[nonceLen:], &nonce, &m.sealKey)
	if !ok || len(plain) == 0 {
		return "", false
	}
	return domain.Session(plain), true
}

// Clear removes the session and state cookies. The token itself is not
// revoked at the provider.
func (m *Manager) Clear(c *gin.Context) {
	m.setCookie(c, m.cookieName, "", -1)
	m.setCookie(c, StateCookieName, "", -1)
}

type stateClaims struct {
	jwt.RegisteredClaims
	State string `json:"state"`
}

// IssueState generates a random OAuth state, stores it as a signed JWT in
// the state cookie and returns the raw state for the authorize URL.
func (m *Manager) IssueState(c *gin.Context) (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	state := hex.EncodeToString(b)

	now := m.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, stateClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(stateTTL)),
		},
		State: state,
	})
	signed, err := tok.SignedString(m.stateKey)
	if err != nil {
		return "", err
	}
	m.setCookie(c, StateCookieName, signed, int(stateTTL/time.Second))
	return state, nil
}

// VerifyState checks state against the state cookie and consumes the
// cookie. Any mismatch returns services.ErrInvalidState.
func (m *Manager) VerifyState(c *gin.Context, state string) error {
	raw, err := c.Cookie(StateCookieName)
	if err != nil || raw == "" || state == "" {
		return services.ErrInvalidState
	}
	m.setCookie(c, StateCookieName, "", -1)

	claims := &stateClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return m.stateKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tok.Valid {
		return fmt.Errorf("%w: %v", services.ErrInvalidState, err)
	}
	if subtle.ConstantTimeCompare([]byte(claims.State), []byte(state)) != 1 {
		return services.ErrInvalidState
	}
	return nil
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}
