// Package services defines the gateway's orchestration logic: identity
// resolution, the identity-scoped conversation store, and single-turn
// completions. This file centralizes the service-level error values so that
// they can be consistently returned by service methods and checked by callers.
//
// Upstream failures are wrapped with %w around the underlying cause; callers
// match them with errors.Is. Translation into HTTP status codes is performed
// at the handler layer.
package services

import "errors"

// Authentication and upstream errors.
var (
	// ErrAuthMissing is recorded by the auth gate when a protected request
	// carries no readable session token.
	ErrAuthMissing = errors.New("authentication missing")

	// ErrUpstreamIdentity indicates the identity provider was unreachable,
	// answered with a non-2xx status, or returned an unusable body.
	ErrUpstreamIdentity = errors.New("identity provider failure")

	// ErrUpstreamCompletion indicates the completion call failed or returned
	// no usable answer.
	ErrUpstreamCompletion = errors.New("completion service failure")

	// ErrStorage indicates a document store read or write failed.
	ErrStorage = errors.New("document store failure")
)

// Boundary validation errors.
var (
	// ErrEmptyQuestion is returned when a submitted question is blank.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrQuestionTooLong is returned when a question exceeds the configured
	// rune limit.
	ErrQuestionTooLong = errors.New("question too long")

	// ErrInvalidMessageID is returned for message ids that are not a single
	// safe path segment.
	ErrInvalidMessageID = errors.New("invalid message id")

	// ErrInvalidState is returned when the OAuth state is missing, expired,
	// or does not match the state cookie.
	ErrInvalidState = errors.New("invalid oauth state")

	// ErrMissingCode is returned when the login callback carries no
	// authorization code.
	ErrMissingCode = errors.New("missing authorization code")
)
