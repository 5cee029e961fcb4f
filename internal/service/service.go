// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

const (
	// PageLimit is the number of tasks requested by a list fetch.
	PageLimit = 20

	// DefaultUserID is the owner assigned to tasks created by this client.
	DefaultUserID = 1
)

// TaskRepository defines the interface for remote task operations.
// Every call is single-shot: no retries and no deduplication.
// Failures are reported as *NetworkError.
type TaskRepository interface {
	// List returns up to limit tasks in server order.
	List(ctx context.Context, limit int) ([]Task, error)

	// Get returns a single task by id.
	Get(ctx context.Context, id int) (Task, error)

	// Create posts a new task and returns the server's acknowledgement.
	// The demo service does not persist it.
	Create(ctx context.Context, input TaskFormInput) (Task, error)

	// Update sends a full replacement of task id built from patch applied
	// over last, the caller's last known state.
	Update(ctx context.Context, id int, last Task, patch TaskPatch) (Task, error)

	// Remove deletes a task by id.
	Remove(ctx context.Context, id int) error
}
