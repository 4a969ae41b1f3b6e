// Package repo implements the document store behind the conversation
// gateway, backed by GORM. This file provides the document CRUD contract:
// get/set by document path, add/list by collection path, and delete.
//
// Paths are slash-separated and alternate collection and document ids, so
// "users/42" is a document and "users/42/messages" is a collection nested
// under it. Every segment is validated before it reaches SQL.
//
// Error semantics:
//   - Get reports absence with found=false and a nil error.
//   - Delete of a missing document succeeds.
//   - Malformed paths return ErrInvalidPath; DB errors are propagated raw.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-chat-gateway/internal/domain"
)

// ErrInvalidPath is returned when a collection or document path is malformed.
var ErrInvalidPath = errors.New("invalid document path")

// maxSegmentLen bounds a single path segment.
const maxSegmentLen = 128

// DocumentStore is a GORM-backed document store. It is safe for concurrent
// use; every call is a single-statement read or write.
type DocumentStore struct {
	db *gorm.DB
}

// NewDocumentStore returns a store over db. The documents table must exist
// (see AutoMigrate).
func NewDocumentStore(db *gorm.DB) *DocumentStore {
	return &DocumentStore{db: db}
}

// GetDocument loads the document at path.
func (s *DocumentStore) GetDocument(ctx context.Context, path string) (domain.Document, bool, error) {
	if _, _, err := splitDocPath(path); err != nil {
		return domain.Document{}, false, err
	}
	var doc domain.Document
	err := s.db.WithContext(ctx).Where("path = ?", path).Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Document{}, false, nil
	}
	if err != nil {
		return domain.Document{}, false, err
	}
	return doc, true, nil
}

// SetDocument writes data at path, replacing the body of an existing
// document while keeping its insertion position.
func (s *DocumentStore) SetDocument(ctx context.Context, path string, data any) error {
	collection, id, err := splitDocPath(path)
	if err != nil {
		return err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return err
	}
	doc := &domain.Document{Path: path, Collection: collection, DocID: id, Data: string(body)}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
		}).
		Create(doc).Error
}

// AddDocument appends a new document to collection under a generated id
// and returns that id.
func (s *DocumentStore) AddDocument(ctx context.Context, collection string, data any) (string, error) {
	if err := validateCollection(collection); err != nil {
		return "", err
	}
	body, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	id := newDocID()
	doc := &domain.Document{
		Path:       collection + "/" + id,
		Collection: collection,
		DocID:      id,
		Data:       string(body),
	}
	if err := s.db.WithContext(ctx).Create(doc).Error; err != nil {
		return "", err
	}
	return id, nil
}

// ListDocuments returns every document directly inside collection, in
// insertion order. Nested collections are not included.
func (s *DocumentStore) ListDocuments(ctx context.Context, collection string) ([]domain.Document, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}
	out := []domain.Document{}
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("seq ASC").
		Find(&out).Error
	return out, err
}

// DeleteDocument removes the document at path. Missing documents are not
// an error.
func (s *DocumentStore) DeleteDocument(ctx context.Context, path string) error {
	if _, _, err := splitDocPath(path); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Where("path = ?", path).Delete(&domain.Document{}).Error
}

// newDocID returns a 32-char hex id.
func newDocID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// segments splits p and validates each piece.
func segments(p string) ([]string, error) {
	if p == "" || strings.HasPrefix(p, "/") || strings.HasSuffix(p, "/") {
		return nil, ErrInvalidPath
	}
	parts := strings.Split(p, "/")
	for _, s := range parts {
		if s == "" || s == "." || s == ".." || len(s) > maxSegmentLen {
			return nil, ErrInvalidPath
		}
	}
	return parts, nil
}

// validateCollection requires an odd number of segments.
func validateCollection(p string) error {
	parts, err := segments(p)
	if err != nil {
		return err
	}
	if len(parts)%2 != 1 {
		return ErrInvalidPath
	}
	return nil
}

// splitDocPath requires an even number of segments and returns the parent
// collection path and the document id.
func splitDocPath(p string) (collection, id string, err error) {
	parts, err := segments(p)
	if err != nil {
		return "", "", err
	}
	if len(parts)%2 != 0 {
		return "", "", ErrInvalidPath
	}
	return strings.Join(parts[:len(parts)-1], "/"), parts[len(parts)-1], nil
}
