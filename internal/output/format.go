// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"todoctl/internal/service"
)

const (
	// CompletedLabel and PendingLabel are the status badge texts.
	CompletedLabel = "completed"
	PendingLabel   = "pending"
)

// FormatTask formats a task line for the list.
// Format: "{ID:>4}  [x] {TITLE}\n" ("[ ]" for pending tasks).
func FormatTask(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", task.ID, Checkbox(task.Completed), NormalizeTitle(task.Title))
}

// FormatTaskDetail formats the detail view of a single task.
func FormatTaskDetail(w io.Writer, task service.Task) {
	fmt.Fprintf(w, "title:  %s\n", NormalizeTitle(task.Title))
	fmt.Fprintf(w, "id:     #%d\n", task.ID)
	fmt.Fprintf(w, "status: %s\n", StatusLabel(task.Completed))
	fmt.Fprintf(w, "user:   %d\n", task.UserID)
}

// Checkbox returns "[x]" for completed tasks and "[ ]" otherwise.
func Checkbox(completed bool) string {
	if completed {
		return "[x]"
	}
	return "[ ]"
}

// StatusLabel returns the badge text for a completion flag.
func StatusLabel(completed bool) string {
	if completed {
		return CompletedLabel
	}
	return PendingLabel
}

// NormalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
