package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todoctl/internal/config"
	"todoctl/internal/controller"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "todoctl add <title...>" }
func (c *AddCmd) NeedsBackend() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, repo service.TaskRepository, args []string, out, errOut io.Writer) int {
	input := service.TaskFormInput{Title: strings.Join(args, " ")}

	ctl := controller.NewFormController(repo, cfg.Log)
	created, err := ctl.Submit(ctx, input)
	if err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		// The demo service acknowledges but does not store the task.
		fmt.Fprintf(out, "ok %d\n", created.ID)
	}
	return exitcode.Success
}
