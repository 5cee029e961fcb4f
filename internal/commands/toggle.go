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
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command: it flips a task between
// completed and pending.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Toggle task completion" }
func (c *ToggleCmd) Usage() string      { return "todoctl toggle <id>" }
func (c *ToggleCmd) NeedsBackend() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, repo service.TaskRepository, args []string, out, errOut io.Writer) int {
	id, err := ParseTaskID(args)
	if err != nil {
		return reportError(errOut, err)
	}

	ctl := controller.NewDetailController(repo, id, cfg.Log)
	ctl.Load(ctx)
	if ctl.NotFound() {
		fmt.Fprintf(errOut, "error: %s: %d\n", controller.NotFoundMessage, id)
		return exitcode.UserError
	}

	if err := ctl.ToggleCompletion(ctx); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		task, _ := ctl.Task()
		fmt.Fprintf(out, "ok %s\n", output.StatusLabel(task.Completed))
	}
	return exitcode.Success
}
