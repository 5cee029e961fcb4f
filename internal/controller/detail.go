package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"todoctl/internal/service"
)

const (
	// NotFoundMessage is the only failure the detail screen shows for a load.
	NotFoundMessage = "task not found"

	updateErrorMessage = "could not update task"
	deleteErrorMessage = "could not delete task"
)

// ErrNotLoaded is returned by actions that need a loaded task.
var ErrNotLoaded = errors.New("task not loaded")

// Confirmer asks the user to confirm a destructive action.
type Confirmer func(prompt string) (bool, error)

// DetailController owns a single task working copy, independent of any list.
type DetailController struct {
	repo service.TaskRepository
	log  zerolog.Logger
	id   int

	mu       sync.Mutex
	task     *service.Task
	notFound bool
	errMsg   string
}

// NewDetailController creates a controller for task id.
func NewDetailController(repo service.TaskRepository, id int, log zerolog.Logger) *DetailController {
	return &DetailController{repo: repo, id: id, log: log}
}

// ID returns the task id the controller was opened with.
func (c *DetailController) ID() int { return c.id }

// Load fetches the task. Any failure leaves the controller in the not-found
// state.
func (c *DetailController) Load(ctx context.Context) {
	task, err := c.repo.Get(ctx, c.id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Debug().Err(err).Int("id", c.id).Msg("task load failed")
		c.task = nil
		c.notFound = true
		c.errMsg = NotFoundMessage
		return
	}
	c.task = &task
	c.notFound = false
	c.errMsg = ""
}

// Task returns the loaded task.
func (c *DetailController) Task() (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.task == nil {
		return service.Task{}, false
	}
	return *c.task, true
}

// NotFound reports whether the last load failed.
func (c *DetailController) NotFound() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.notFound
}

// Err returns the message of the last failure, or "".
func (c *DetailController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// ToggleCompletion flips the completed flag on the server. The local copy
// changes only after the update succeeds.
func (c *DetailController) ToggleCompletion(ctx context.Context) error {
	c.mu.Lock()
	if c.task == nil {
		c.mu.Unlock()
		return ErrNotLoaded
	}
	last := *c.task
	c.mu.Unlock()

	completed := !last.Completed
	_, err := c.repo.Update(ctx, c.id, last, service.TaskPatch{Completed: &completed})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Debug().Err(err).Int("id", c.id).Msg("task update failed")
		c.errMsg = updateErrorMessage
		return fmt.Errorf("%s: %w", updateErrorMessage, err)
	}
	if c.task != nil {
		c.task.Completed = completed
	}
	c.errMsg = ""
	return nil
}

// Delete asks confirm and, if accepted, removes the task. It returns true
// when the task was deleted and the caller should leave the detail context.
// A declined confirmation sends no request.
func (c *DetailController) Delete(ctx context.Context, confirm Confirmer) (bool, error) {
	if confirm != nil {
		ok, err := confirm(fmt.Sprintf("delete task %d?", c.id))
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}

	err := c.repo.Remove(ctx, c.id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.log.Debug().Err(err).Int("id", c.id).Msg("task delete failed")
		c.errMsg = deleteErrorMessage
		return false, fmt.Errorf("%s: %w", deleteErrorMessage, err)
	}
	c.task = nil
	c.errMsg = ""
	return true, nil
}
