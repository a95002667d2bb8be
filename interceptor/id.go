package interceptor

import (
	"github.com/google/uuid"
)

// ID identifies an interceptor. Two interceptors are the same iff their ids match.
type ID uuid.UUID

// NewID returns a process-unique, time-ordered id.
func NewID() ID {
	id, err := uuid.NewV7()
	if err != nil {
		return ID(uuid.New())
	}
	return ID(id)
}

// String returns the canonical UUID form.
func (id ID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == ID{} }
