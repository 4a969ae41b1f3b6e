// Package domain defines the records exchanged between the gateway layers:
// the caller identity resolved from the provider, the question/answer
// messages kept per identity, and the document shape persisted by the
// document store (mapped with GORM).
package domain

import (
	"time"
)

// Identity is the verified caller resolved from a session token. It is
// derived fresh on every request and never persisted in full.
//
// Fields:
//   - ID: provider-assigned numeric user id; scopes every storage path.
//   - Name: display name, written once into the profile record.
type Identity struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Message is a single question/answer exchange owned by one identity.
//
// Fields:
//   - ID: assigned by the document store on creation, immutable afterwards.
//   - Question: the submitted question text.
//   - Answer: the completion text; nullable to mirror stored records that
//     carry no answer.
//   - CreateDate: submission time taken from the gateway clock.
type Message struct {
	ID         string    `json:"id"         example:"0b6f1c1e9f0a4c7e8d5b2a3c4d5e6f70"`
	Question   string    `json:"question"   example:"2+2?"`
	Answer     *string   `json:"answer"     example:"4"`
	CreateDate time.Time `json:"createDate" example:"2024-05-01T12:00:00Z"`
}

// Profile is the stub record kept at users/{id}.
type Profile struct {
	Name string `json:"name"`
}

// Session is the opaque provider token bound to a browser via cookie.
// The gateway never interprets its contents.
type Session string

// Empty reports whether the session carries no token.
func (s Session) Empty() bool { return s == "" }
