// Package services – CompletionOrchestrator
//
// CompletionOrchestrator asks the completion service for a single-turn
// answer: the question is sent as the only user turn, with no history and
// no system prompt. No fallback answer is ever produced.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/unicode/norm"

	"github.com/tbourn/go-chat-gateway/internal/observability"
)

const roleUser = "user"

// ChatTurn is one message of a completion request.
type ChatTurn struct {
	Role    string
	Content string
}

// CompletionRequest is a model name plus the turns to send.
type CompletionRequest struct {
	Model string
	Turns []ChatTurn
}

// CompletionClient is the completion service contract. It returns the
// content of each candidate answer, in the service's order.
type CompletionClient interface {
	CreateCompletion(ctx context.Context, req CompletionRequest) ([]string, error)
}

// CompletionOrchestrator produces answers through a CompletionClient.
type CompletionOrchestrator struct {
	Client CompletionClient
	Model  string
}

// NewCompletionOrchestrator returns an orchestrator for model.
func NewCompletionOrchestrator(c CompletionClient, model string) *CompletionOrchestrator {
	return &CompletionOrchestrator{Client: c, Model: model}
}

// Complete returns the first candidate's content. A failed call, an empty
// candidate list, or blank content yields ErrUpstreamCompletion.
func (o *CompletionOrchestrator) Complete(ctx context.Context, question string) (_ string, err error) {
	ctx, span := otel.Tracer("services/CompletionOrchestrator").Start(ctx, "Complete",
		trace.WithAttributes(
			attribute.String("llm.model", o.Model),
			attribute.Int("question.runes", utf8.RuneCountInString(question)),
		),
	)
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamCompletion, "complete", start, err) }()

	candidates, err := o.Client.CreateCompletion(ctx, CompletionRequest{
		Model: o.Model,
		Turns: []ChatTurn{{Role: roleUser, Content: question}},
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create completion")
		return "", fmt.Errorf("%w: %w", ErrUpstreamCompletion, err)
	}
	if len(candidates) == 0 {
		span.SetStatus(codes.Error, "no choices")
		return "", fmt.Errorf("%w: no choices returned", ErrUpstreamCompletion)
	}
	if strings.TrimSpace(candidates[0]) == "" {
		span.SetStatus(codes.Error, "empty content")
		return "", fmt.Errorf("%w: empty answer", ErrUpstreamCompletion)
	}
	return candidates[0], nil
}

// NormalizeQuestion trims and NFC-normalizes raw and enforces the rune
// limit. maxRunes <= 0 disables the limit.
func NormalizeQuestion(raw string, maxRunes int) (string, error) {
	q := norm.NFC.String(strings.TrimSpace(raw))
	if q == "" {
		return "", ErrEmptyQuestion
	}
	if maxRunes > 0 && utf8.RuneCountInString(q) > maxRunes {
		return "", ErrQuestionTooLong
	}
	return q, nil
}
