// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import (
	"encoding/json"
	"time"
)

// Document is a single record of the document store, addressed by a
// slash-separated path such as "users/42" or "users/42/messages/abc".
//
// Seq is an auto-incrementing insertion counter; listing a collection
// returns documents in Seq order, which is the store's insertion order.
type Document struct {
	Seq        int64     `gorm:"primaryKey;autoIncrement"`
	Path       string    `gorm:"type:varchar(512);not null;uniqueIndex:ux_documents_path"`
	Collection string    `gorm:"type:varchar(512);not null;index:idx_documents_collection"`
	DocID      string    `gorm:"column:doc_id;type:varchar(128);not null"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Document) TableName() string { return "documents" }

// Decode unmarshals the stored document body into v.
func (d Document) Decode(v any) error {
	return json.Unmarshal([]byte(d.Data), v)
}

// Timestamp is the store's native time representation: whole seconds since
// the Unix epoch plus a nanosecond remainder.
type Timestamp struct {
	Seconds int64 `json:"seconds"`
	Nanos   int32 `json:"nanos"`
}

// NewTimestamp converts t into the store's native representation.
func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Seconds: t.Unix(), Nanos: int32(t.Nanosecond())}
}

// Time converts the stored timestamp back into a UTC time.Time.
func (ts Timestamp) Time() time.Time {
	return time.Unix(ts.Seconds, int64(ts.Nanos)).UTC()
}
