package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todoctl/internal/config"
	"todoctl/internal/controller"
	"todoctl/internal/exitcode"
	"todoctl/internal/output"
	"todoctl/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todoctl` (no args) and `todoctl list`.
type ListCmd struct {
	filter string
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "todoctl list [--filter all|completed|pending]" }
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", string(service.FilterAll), "")
	fs.StringVar(&c.filter, "f", string(service.FilterAll), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, repo service.TaskRepository, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter := service.FilterAll
	if c.filter != "" {
		f, err := service.ParseFilter(c.filter)
		if err != nil {
			return reportError(errOut, err)
		}
		filter = f
	}

	ctl := controller.NewListController(repo, cfg.Log)
	if err := ctl.SetFilter(filter); err != nil {
		return reportError(errOut, err)
	}
	ctl.Initialize(ctx)

	if ctl.Status() == controller.StatusFailed {
		fmt.Fprintf(errOut, "error: backend error: %s\n", ctl.Err())
		return exitcode.BackendError
	}

	visible := ctl.Visible()
	if len(visible) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no tasks found")
		}
		return exitcode.Success
	}

	for _, task := range visible {
		output.FormatTask(out, task)
	}
	return exitcode.Success
}
