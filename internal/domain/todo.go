package domain

import "time"

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

// Todo is the domain entity. It does not depend on gin or Redis.
// Description is nil when absent; a pointer to "" is an explicit empty description.
type Todo struct {
	ID          string
	Title       string
	Description *string
	Completed   bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Clone returns a copy that shares no memory with t.
func (t Todo) Clone() Todo {
	if t.Description != nil {
		d := *t.Description
		t.Description = &d
	}
	return t
}

// TodoPatch carries the fields of a partial update. nil = leave unchanged.
type TodoPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// TodoFilter selects todos for search. Every non-nil field is a predicate;
// predicates are combined with AND.
type TodoFilter struct {
	Title       *string
	Description *string
	Completed   *bool
}

// StringPtr and BoolPtr are small helpers for building patches and filters.
func StringPtr(s string) *string { return &s }

func BoolPtr(b bool) *bool { return &b }
