// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package) and the translation of
// service errors into status and code.
//
// Conventions:
//   - Codes are lowercase, snake_case.
//   - Validation failures are 400 bad_request.
//   - A missing session on a mutating route and every upstream failure are
//     reported as 500 with a code naming the failing leg. No fallback answer
//     is ever produced.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "answer_failed",
//	  "message": "could not get an answer"
//	}
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-chat-gateway/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"

	// Domain-specific:
	ErrCodeIdentityFailed = "identity_failed"
	ErrCodeAnswerFailed   = "answer_failed"
	ErrCodeStorageFailed  = "storage_failed"
)

// failErr translates a service error into the error envelope. The wrapped
// cause is logged, never returned to the client.
func failErr(c *gin.Context, err error) {
	status, code, msg := classify(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	fail(c, status, code, msg)
}

func classify(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, services.ErrEmptyQuestion):
		return http.StatusBadRequest, ErrCodeBadRequest, "question required"
	case errors.Is(err, services.ErrQuestionTooLong):
		return http.StatusBadRequest, ErrCodeBadRequest, "question too long"
	case errors.Is(err, services.ErrInvalidMessageID):
		return http.StatusBadRequest, ErrCodeBadRequest, "invalid message id"
	case errors.Is(err, services.ErrInvalidState):
		return http.StatusBadRequest, ErrCodeBadRequest, "invalid login state"
	case errors.Is(err, services.ErrMissingCode):
		return http.StatusBadRequest, ErrCodeBadRequest, "authorization code required"
	case errors.Is(err, services.ErrUpstreamIdentity):
		return http.StatusInternalServerError, ErrCodeIdentityFailed, "could not resolve identity"
	case errors.Is(err, services.ErrUpstreamCompletion):
		return http.StatusInternalServerError, ErrCodeAnswerFailed, "could not get an answer"
	case errors.Is(err, services.ErrStorage):
		return http.StatusInternalServerError, ErrCodeStorageFailed, "storage failure"
	default:
		// includes services.ErrAuthMissing on mutating routes
		return http.StatusInternalServerError, ErrCodeInternal, "internal server error"
	}
}
