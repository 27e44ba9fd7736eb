// Package todo holds the Todo resource in its two shapes: the public Todo
// returned by the API and the Entity persisted in the table store, together
// with the mapping between them.
package todo

import (
	"encoding/hex"
	"time"

	"github.com/google/uuid"
)

// Todo is the public representation of a task item.
//
// ID and CreatedTime are assigned once at creation and never change.
// TaskDescription is set at creation and is not modified by any operation.
// IsCompleted is the only mutable field.
type Todo struct {
	ID              string
	CreatedTime     time.Time
	TaskDescription string
	IsCompleted     bool
}

// New returns an active Todo with a freshly generated ID, stamped with the
// given creation instant normalized to UTC at microsecond precision, the
// finest resolution every store backend round-trips.
func New(taskDescription string, now time.Time) Todo {
	return Todo{
		ID:              NewID(),
		CreatedTime:     now.UTC().Truncate(time.Microsecond),
		TaskDescription: taskDescription,
		IsCompleted:     false,
	}
}

// NewID returns a random (version 4) UUID rendered as 32 lowercase hex
// characters without separators.
func NewID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
