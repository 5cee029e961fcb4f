// Package service defines the backend-agnostic interface for task operations.
package service

import "strings"

// Task represents a single task item as served by the remote service.
type Task struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	UserID    int    `json:"userId"`
}

// TaskFormInput is the subset of Task a user supplies when creating one.
// The server assigns the id; userId and completed use their defaults.
type TaskFormInput struct {
	Title string `validate:"required,min=3"`
}

// Normalized returns the input with surrounding whitespace removed.
func (in TaskFormInput) Normalized() TaskFormInput {
	return TaskFormInput{Title: strings.TrimSpace(in.Title)}
}

// TaskPatch holds the fields an update changes. Nil fields keep their value.
type TaskPatch struct {
	Title     *string
	Completed *bool
	UserID    *int
}

// Apply merges the patch over t and returns the result.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.UserID != nil {
		t.UserID = *p.UserID
	}
	return t
}

// Filter selects a subset of the cached collection for display.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterCompleted Filter = "completed"
	FilterPending   Filter = "pending"
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterCompleted, FilterPending}

// ParseFilter parses a filter name (case-insensitive, trimmed).
func ParseFilter(s string) (Filter, error) {
	if f := Filter(strings.ToLower(strings.TrimSpace(s))); f.Valid() {
		return f, nil
	}
	return "", &ValidationError{Field: "filter", Message: "invalid filter: " + s}
}

// Valid reports whether f is one of Filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterPending:
		return true
	}
	return false
}

// Match reports whether t belongs to the filtered subset.
// Unknown filters match nothing.
func (f Filter) Match(t Task) bool {
	switch f {
	case FilterAll:
		return true
	case FilterCompleted:
		return t.Completed
	case FilterPending:
		return !t.Completed
	default:
		return false
	}
}
