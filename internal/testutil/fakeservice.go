// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"todoctl/internal/service"
)

// ErrNotFound is wrapped in the NetworkError returned for unknown ids.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.TaskRepository for
// testing. Like the demo service it acknowledges create, update and remove
// without changing its stored tasks; the calls are recorded instead.
type FakeService struct {
	mu    sync.Mutex
	tasks []service.Task

	// Error injection for testing
	ListErr   error
	GetErr    error
	CreateErr error
	UpdateErr error
	RemoveErr error

	// IgnoreLimit makes List return every task, like a server that does not
	// honor the page size.
	IgnoreLimit bool

	// Recorded calls
	ListCalls   int
	GetCalls    int
	CreateCalls int
	UpdateCalls int
	RemoveCalls int
	LastLimit   int
	Created     []service.TaskFormInput
	Updated     []service.Task
	Removed     []int
}

// NewFakeService creates a FakeService holding tasks in the given order.
func NewFakeService(tasks ...service.Task) *FakeService {
	return &FakeService{tasks: append([]service.Task(nil), tasks...)}
}

// AddTask appends a task.
func (f *FakeService) AddTask(id int, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Completed: completed, UserID: 1})
}

// SetTasks replaces the stored tasks.
func (f *FakeService) SetTasks(tasks ...service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append([]service.Task(nil), tasks...)
}

// Calls returns the total number of repository calls made.
func (f *FakeService) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ListCalls + f.GetCalls + f.CreateCalls + f.UpdateCalls + f.RemoveCalls
}

// List implements service.TaskRepository.
func (f *FakeService) List(ctx context.Context, limit int) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ListCalls++
	f.LastLimit = limit
	if f.ListErr != nil {
		return nil, f.ListErr
	}

	n := len(f.tasks)
	if !f.IgnoreLimit && limit > 0 && limit < n {
		n = limit
	}
	result := make([]service.Task, n)
	copy(result, f.tasks[:n])
	return result, nil
}

// Get implements service.TaskRepository.
func (f *FakeService) Get(ctx context.Context, id int) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.GetCalls++
	if f.GetErr != nil {
		return service.Task{}, f.GetErr
	}
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return service.Task{}, &service.NetworkError{Op: "get", StatusCode: http.StatusNotFound, Err: ErrNotFound}
}

// Create implements service.TaskRepository.
func (f *FakeService) Create(ctx context.Context, input service.TaskFormInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CreateCalls++
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	f.Created = append(f.Created, input)
	return service.Task{
		ID:     len(f.tasks) + len(f.Created),
		Title:  input.Title,
		UserID: service.DefaultUserID,
	}, nil
}

// Update implements service.TaskRepository.
func (f *FakeService) Update(ctx context.Context, id int, last service.Task, patch service.TaskPatch) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.UpdateCalls++
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	body := patch.Apply(last)
	body.ID = id
	f.Updated = append(f.Updated, body)
	return body, nil
}

// Remove implements service.TaskRepository.
func (f *FakeService) Remove(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RemoveCalls++
	if f.RemoveErr != nil {
		return f.RemoveErr
	}
	f.Removed = append(f.Removed, id)
	return nil
}
