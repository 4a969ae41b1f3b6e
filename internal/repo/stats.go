// Package repo implements the document store behind the conversation
// gateway, backed by GORM. This file provides a small aggregate query used
// for conditional responses (weak ETags) in the HTTP layer.
package repo

import (
	"context"
	"time"

	"github.com/tbourn/go-chat-gateway/internal/domain"
)

// CollectionStats returns aggregate metadata for a collection: the number of
// documents directly inside it and the greatest UpdatedAt among them.
//
// When the collection is empty, the returned count is 0 and maxUpdatedAt is
// nil.
//
// Return values:
//   - count:        documents in collection
//   - maxUpdatedAt: pointer to the greatest UpdatedAt, or nil if no rows
//   - err:          ErrInvalidPath or a database error
func (s *DocumentStore) CollectionStats(ctx context.Context, collection string) (count int64, maxUpdatedAt *time.Time, err error) {
	if err = validateCollection(collection); err != nil {
		return 0, nil, err
	}
	q := s.db.WithContext(ctx).Model(&domain.Document{}).Where("collection = ?", collection)

	// Count
	if err = q.Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Get latest updated_at (avoid MAX() -> TEXT in SQLite)
	var row struct {
		UpdatedAt time.Time
	}
	if err = q.Select("updated_at").Order("updated_at DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.UpdatedAt, nil
}
