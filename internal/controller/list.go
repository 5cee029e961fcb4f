// Package controller holds the stateful coordinators behind the list, detail
// and form screens. Controllers own their working copy of the data and turn
// repository errors into displayable state; they never render.
package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"todoctl/internal/service"
)

// Status is the lifecycle state of a list fetch.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusReady
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusReady:
		return "ready"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// LoadErrorMessage is shown when a list fetch fails.
const LoadErrorMessage = "error loading tasks"

// Counts summarizes the collection per filter.
type Counts struct {
	All       int
	Completed int
	Pending   int
}

// ListController owns the task collection for the list screen.
// It is safe for concurrent use; overlapping refreshes are not deduplicated
// and the last response to arrive wins.
type ListController struct {
	repo service.TaskRepository
	log  zerolog.Logger

	mu      sync.Mutex
	status  Status
	tasks   []service.Task
	errMsg  string
	filter  service.Filter
	visible []service.Task // nil when invalidated
}

// NewListController creates an idle controller with the "all" filter.
func NewListController(repo service.TaskRepository, log zerolog.Logger) *ListController {
	return &ListController{
		repo:   repo,
		log:    log,
		filter: service.FilterAll,
	}
}

// Initialize performs the first fetch.
func (c *ListController) Initialize(ctx context.Context) {
	c.Refresh(ctx)
}

// Refresh fetches the first page and replaces the collection.
// Failures are stored as a message; Refresh never returns an error.
func (c *ListController) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.status = StatusLoading
	c.errMsg = ""
	c.mu.Unlock()

	tasks, err := c.repo.List(ctx, service.PageLimit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.visible = nil
	if err != nil {
		c.log.Debug().Err(err).Msg("list fetch failed")
		c.status = StatusFailed
		c.errMsg = errorMessage(err, LoadErrorMessage)
		c.tasks = nil
		return
	}
	c.tasks = uniqueByID(tasks)
	if len(c.tasks) > service.PageLimit {
		c.tasks = c.tasks[:service.PageLimit]
	}
	c.status = StatusReady
	c.log.Debug().Int("count", len(c.tasks)).Msg("list fetched")
}

// SetFilter changes the filter. It never fetches.
// Values outside service.Filters are rejected and the filter is unchanged.
func (c *ListController) SetFilter(f service.Filter) error {
	if !f.Valid() {
		return &service.ValidationError{Field: "filter", Message: "invalid filter: " + string(f)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if f == c.filter {
		return nil
	}
	c.filter = f
	c.visible = nil
	return nil
}

// Filter returns the current filter.
func (c *ListController) Filter() service.Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Status returns the current state.
func (c *ListController) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Err returns the last fetch error message, or "" when none.
func (c *ListController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Tasks returns a copy of the full collection.
func (c *ListController) Tasks() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]service.Task(nil), c.tasks...)
}

// Visible returns the filtered subset in fetch order.
func (c *ListController) Visible() []service.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.visible == nil {
		c.visible = DeriveVisible(c.tasks, c.filter)
	}
	return append([]service.Task(nil), c.visible...)
}

// Counts returns per-filter sizes of the collection.
func (c *ListController) Counts() Counts {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n Counts
	for _, t := range c.tasks {
		n.All++
		if t.Completed {
			n.Completed++
		} else {
			n.Pending++
		}
	}
	return n
}

// DeriveVisible returns the tasks matching f, keeping their order.
// The result is never nil.
func DeriveVisible(tasks []service.Task, f service.Filter) []service.Task {
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// uniqueByID keeps the first task for each id.
func uniqueByID(tasks []service.Task) []service.Task {
	seen := make(map[int]struct{}, len(tasks))
	out := make([]service.Task, 0, len(tasks))
	for _, t := range tasks {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}
