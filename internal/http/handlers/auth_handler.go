// Login HTTP handlers.
//
// This file exposes the OAuth entry points:
//   - GET /login            (issue state, redirect to the provider)
//   - GET /login/callback   (verify state, exchange code, bind session,
//     create the profile on first login)
//   - GET /logout           (clear cookies; the token is not revoked)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/http/middleware"
)

// Login godoc
// @ID          login
// @Summary     Start login
// @Description Redirects the browser to the identity provider's authorize page.
// @Tags        Auth
// @Success     302
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /login [get]
func (h *Handlers) Login(c *gin.Context) {
	state, err := h.sessions.IssueState(c)
	if err != nil {
		failErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.identity.AuthCodeURL(state))
}

// LoginCallback godoc
// @ID          loginCallback
// @Summary     Finish login
// @Description Verifies the OAuth state, exchanges the authorization code for a token,
// @Description binds it to the browser and creates the profile on first login.
// @Tags        Auth
// @Param       code   query  string  true  "Authorization code"
// @Param       state  query  string  true  "OAuth state"
// @Success     302
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid state or missing code"
// @Failure     500  {object}  handlers.ErrorResponse  "Identity provider or storage failure"
// @Router      /login/callback [get]
func (h *Handlers) LoginCallback(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.sessions.VerifyState(c, c.Query("state")); err != nil {
		failErr(c, err)
		return
	}
	token, err := h.identity.Exchange(ctx, c.Query("code"))
	if err != nil {
		failErr(c, err)
		return
	}
	if err := h.sessions.Set(c, domain.Session(token)); err != nil {
		failErr(c, err)
		return
	}

	id, err := h.identity.Resolve(ctx, token)
	if err != nil {
		failErr(c, err)
		return
	}
	middleware.SetUserID(c, id.ID)

	if _, err := h.convo.EnsureProfile(ctx, id.ID, id.Name); err != nil {
		failErr(c, err)
		return
	}
	c.Redirect(http.StatusFound, h.opt.PostLoginURL)
}

// Logout godoc
// @ID          logout
// @Summary     Log out
// @Description Clears the session and state cookies and redirects to the app.
// @Tags        Auth
// @Success     302
// @Router      /logout [get]
func (h *Handlers) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	c.Redirect(http.StatusFound, h.opt.AppURL)
}
