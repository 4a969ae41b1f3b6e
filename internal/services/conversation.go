// Package services – ConversationStore
//
// ConversationStore is the identity-scoped view over the document store.
// Every path it builds starts from the caller's resolved id, so one identity
// can never read or delete another identity's messages:
//
//	users/{uid}                  profile {name}
//	users/{uid}/messages/{mid}   message {question, answer, createDate}
//
// Documents are written one at a time; there are no multi-document
// transactions. Observability: public methods are OpenTelemetry-instrumented
// and every store call is counted in the upstream metrics.
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tbourn/go-chat-gateway/internal/domain"
	"github.com/tbourn/go-chat-gateway/internal/observability"
)

// DocumentStore is the document store contract used by ConversationStore.
type DocumentStore interface {
	GetDocument(ctx context.Context, path string) (domain.Document, bool, error)
	SetDocument(ctx context.Context, path string, data any) error
	AddDocument(ctx context.Context, collection string, data any) (string, error)
	ListDocuments(ctx context.Context, collection string) ([]domain.Document, error)
	DeleteDocument(ctx context.Context, path string) error
}

// collectionStatser is implemented by stores that can summarize a
// collection cheaply.
type collectionStatser interface {
	CollectionStats(ctx context.Context, collection string) (int64, *time.Time, error)
}

// ErrStatsUnsupported is returned by Stats when the store cannot summarize
// collections.
var ErrStatsUnsupported = errors.New("collection stats unsupported")

var messageIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

// ValidMessageID reports whether id is a single safe path segment.
func ValidMessageID(id string) bool {
	return messageIDRe.MatchString(id)
}

// messageDoc is the stored shape of a message.
type messageDoc struct {
	Question   string           `json:"question"`
	Answer     *string          `json:"answer"`
	CreateDate domain.Timestamp `json:"createDate"`
}

// ConversationStore keeps per-identity question/answer records.
type ConversationStore struct {
	Store DocumentStore
	// Now stamps createDate; defaults to time.Now.
	Now func() time.Time
}

// NewConversationStore returns a store over s using the wall clock.
func NewConversationStore(s DocumentStore) *ConversationStore {
	return &ConversationStore{Store: s, Now: time.Now}
}

func profilePath(uid int64) string {
	return "users/" + strconv.FormatInt(uid, 10)
}

func messagesPath(uid int64) string {
	return profilePath(uid) + "/messages"
}

func (s *ConversationStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func startSpan(ctx context.Context, name string, uid int64) (context.Context, trace.Span) {
	return otel.Tracer("services/ConversationStore").Start(ctx, name,
		trace.WithAttributes(attribute.Int64("user.id", uid)),
	)
}

func storageErr(span trace.Span, op string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

// List returns the caller's messages in store insertion order.
func (s *ConversationStore) List(ctx context.Context, uid int64) (_ []domain.Message, err error) {
	ctx, span := startSpan(ctx, "List", uid)
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamStore, "list", start, err) }()

	docs, err := s.Store.ListDocuments(ctx, messagesPath(uid))
	if err != nil {
		return nil, storageErr(span, "list messages", err)
	}

	out := make([]domain.Message, 0, len(docs))
	for _, d := range docs {
		var md messageDoc
		if err = d.Decode(&md); err != nil {
			return nil, storageErr(span, "decode message "+d.DocID, err)
		}
		out = append(out, domain.Message{
			ID:         d.DocID,
			Question:   md.Question,
			Answer:     md.Answer,
			CreateDate: md.CreateDate.Time(),
		})
	}
	span.SetAttributes(attribute.Int("messages.count", len(out)))
	return out, nil
}

// Create stores a new answered question and returns it with the
// store-assigned id. createDate is taken from the gateway clock.
func (s *ConversationStore) Create(ctx context.Context, uid int64, question, answer string) (_ domain.Message, err error) {
	ctx, span := startSpan(ctx, "Create", uid)
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamStore, "create", start, err) }()

	ts := domain.NewTimestamp(s.now())
	ans := answer
	id, err := s.Store.AddDocument(ctx, messagesPath(uid), messageDoc{
		Question:   question,
		Answer:     &ans,
		CreateDate: ts,
	})
	if err != nil {
		return domain.Message{}, storageErr(span, "create message", err)
	}
	span.SetAttributes(attribute.String("message.id", id))
	return domain.Message{ID: id, Question: question, Answer: &ans, CreateDate: ts.Time()}, nil
}

// Delete removes one of the caller's messages. Unknown ids succeed.
func (s *ConversationStore) Delete(ctx context.Context, uid int64, messageID string) (err error) {
	ctx, span := startSpan(ctx, "Delete", uid)
	defer span.End()

	if !ValidMessageID(messageID) {
		return ErrInvalidMessageID
	}
	span.SetAttributes(attribute.String("message.id", messageID))

	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamStore, "delete", start, err) }()
	if err = s.Store.DeleteDocument(ctx, messagesPath(uid)+"/"+messageID); err != nil {
		return storageErr(span, "delete message", err)
	}
	return nil
}

// EnsureProfile writes the profile record {name} if it does not exist yet
// and reports whether it did. An existing profile is never overwritten.
func (s *ConversationStore) EnsureProfile(ctx context.Context, uid int64, name string) (created bool, err error) {
	ctx, span := startSpan(ctx, "EnsureProfile", uid)
	defer span.End()
	start := time.Now()
	defer func() { observability.ObserveUpstream(observability.UpstreamStore, "ensure_profile", start, err) }()

	_, found, err := s.Store.GetDocument(ctx, profilePath(uid))
	if err != nil {
		return false, storageErr(span, "read profile", err)
	}
	if found {
		return false, nil
	}
	if err = s.Store.SetDocument(ctx, profilePath(uid), domain.Profile{Name: name}); err != nil {
		return false, storageErr(span, "write profile", err)
	}

	observability.ProfileCreated()
	zerolog.Ctx(ctx).Info().Int64("uid", uid).Msg("new user profile created")
	span.SetAttributes(attribute.Bool("profile.created", true))
	return true, nil
}

// Stats summarizes the caller's message collection for conditional
// responses. It returns ErrStatsUnsupported when the store cannot.
func (s *ConversationStore) Stats(ctx context.Context, uid int64) (count int64, maxUpdatedAt *time.Time, err error) {
	st, ok := s.Store.(collectionStatser)
	if !ok {
		return 0, nil, ErrStatsUnsupported
	}
	count, maxUpdatedAt, err = st.CollectionStats(ctx, messagesPath(uid))
	if err != nil {
		return 0, nil, fmt.Errorf("%w: stats: %w", ErrStorage, err)
	}
	return count, maxUpdatedAt, nil
}
