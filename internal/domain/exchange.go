// Package domain defines the core types shared across chatgate.
package domain

import "time"

// Exchange is one completed chat round trip: the user's query and the
// assistant's response, bound to the SSO session that produced it.
// Records are append-only; they are never mutated after creation.
type Exchange struct {
	ID        int64     `json:"id"`
	SessionID string    `json:"sessionId"`
	CreatedAt time.Time `json:"timestamp"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
}
