// Message HTTP handlers.
//
// This file exposes the protected message endpoints:
//   - GET    /messages               (list, ETag support)
//   - POST   /messages               (ask a question; the answer is stored)
//   - DELETE /messages/{messageId}   (delete; missing ids succeed)
//
// All three run behind the auth gate. A GET without a session never reaches
// these handlers. POST and DELETE without a session do, and fail with a
// generic 500 once they read the gate's verdict.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/http/middleware"
	"github.com/tbourn/go-chat-gateway/internal/services"
)

//
// DTOs
//

// PostMessageRequest is the JSON form of a question. Clients may also send
// the question as a raw text body.
type PostMessageRequest struct {
	Question string `json:"question" example:"2+2?"`
}

// DeleteMessageResponse acknowledges a delete.
type DeleteMessageResponse struct {
	Deleted bool   `json:"deleted" example:"true"`
	ID      string `json:"id"      example:"0b6f1c1e9f0a4c7e8d5b2a3c4d5e6f70"`
}

var errUnreadableBody = errors.New("unreadable request body")

//
// Helpers
//

// session reads the gate's verdict. Mutating routes reach the handler even
// without a session; they must fail before looking at the request input.
// On failure the response has already been written.
func session(c *gin.Context) (domain.Session, bool) {
	auth := middleware.AuthFrom(c)
	if !auth.Authenticated() {
		failErr(c, auth.Err)
		return "", false
	}
	return auth.Token, true
}

// identify resolves the caller behind token. On failure the response has
// already been written.
func (h *Handlers) identify(c *gin.Context, token domain.Session) (domain.Identity, bool) {
	id, err := h.identity.Resolve(c.Request.Context(), string(token))
	if err != nil {
		failErr(c, err)
		return domain.Identity{}, false
	}
	middleware.SetUserID(c, id.ID)
	return id, true
}

// readQuestion extracts the question from a JSON body ({"question": "..."}
// or a bare JSON string) or from a raw text body.
func readQuestion(c *gin.Context) (string, error) {
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return "", errUnreadableBody
	}
	if !strings.HasPrefix(c.ContentType(), "application/json") {
		return string(raw), nil
	}
	var req PostMessageRequest
	if err := json.Unmarshal(raw, &req); err == nil {
		return req.Question, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", errUnreadableBody
	}
	return s, nil
}

// messagesETag builds a weak validator from the caller's collection stats.
func messagesETag(uid, count int64, maxNanos int64) string {
	return fmt.Sprintf(`W/"messages:%d:%d:%d"`, uid, count, maxNanos)
}

//
// Handlers
//

// ListMessages godoc
// @ID          listMessages
// @Summary     List my messages
// @Description Returns the caller's messages in store insertion order.
// @Description Anonymous requests are redirected to the login page.
// @Tags        Messages
// @Produce     json
// @Param       If-None-Match  header  string  false  "ETag from a previous list"
// @Success     200  {array}   domain.Message
// @Success     304  "Not modified"
// @Failure     302  "Redirect to login"
// @Failure     500  {object}  handlers.ErrorResponse  "Identity provider or storage failure"
// @Router      /messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	ctx := c.Request.Context()

	token, good := session(c)
	if !good {
		return
	}
	id, good := h.identify(c, token)
	if !good {
		return
	}

	// ETag pre-check (best effort).
	if count, maxTS, err := h.convo.Stats(ctx, id.ID); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := messagesETag(id.ID, count, ts)
		c.Header("ETag", etag)
		if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, err := h.convo.List(ctx, id.ID)
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Message{}
	}
	ok(c, http.StatusOK, items)
}

// PostMessage godoc
// @ID          postMessage
// @Summary     Ask a question
// @Description Sends the question to the completion service as a single turn and stores
// @Description the exchange in the caller's collection. Nothing is stored when no answer
// @Description is obtained.
// @Tags        Messages
// @Accept      plain
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.PostMessageRequest  true  "Question (raw text or JSON)"
// @Success     200   {object}  domain.Message
// @Failure     400   {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500   {object}  handlers.ErrorResponse  "No session, upstream or storage failure"
// @Router      /messages [post]
func (h *Handlers) PostMessage(c *gin.Context) {
	ctx := c.Request.Context()

	token, good := session(c)
	if !good {
		return
	}

	raw, err := readQuestion(c)
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "question required")
		return
	}
	question, err := services.NormalizeQuestion(raw, h.opt.MaxQuestionRunes)
	if err != nil {
		failErr(c, err)
		return
	}

	id, good := h.identify(c, token)
	if !good {
		return
	}

	answer, err := h.answers.Complete(ctx, question)
	if err != nil {
		failErr(c, err)
		return
	}

	m, err := h.convo.Create(ctx, id.ID, question, answer)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, m)
}

// DeleteMessage godoc
// @ID          deleteMessage
// @Summary     Delete one of my messages
// @Description Deletes the message from the caller's collection. Deleting an id that does
// @Description not exist succeeds.
// @Tags        Messages
// @Produce     json
// @Param       messageId  path      string  true  "Message ID"
// @Success     200        {object}  handlers.DeleteMessageResponse
// @Failure     400        {object}  handlers.ErrorResponse  "Invalid message id"
// @Failure     500        {object}  handlers.ErrorResponse  "No session, upstream or storage failure"
// @Router      /messages/{messageId} [delete]
func (h *Handlers) DeleteMessage(c *gin.Context) {
	token, good := session(c)
	if !good {
		return
	}
	messageID := c.Param("messageId")
	if !services.ValidMessageID(messageID) {
		failErr(c, services.ErrInvalidMessageID)
		return
	}

	id, good := h.identify(c, token)
	if !good {
		return
	}

	if err := h.convo.Delete(c.Request.Context(), id.ID, messageID); err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DeleteMessageResponse{Deleted: true, ID: messageID})
}
