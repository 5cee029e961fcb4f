package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/tui"
)

func init() {
	Register(&BrowseCmd{})
}

// BrowseCmd implements the browse command, an interactive list and detail
// screen.
type BrowseCmd struct {
	in io.Reader
}

// SetInput sets the key input source (for testing).
func (c *BrowseCmd) SetInput(r io.Reader) {
	c.in = r
}

func (c *BrowseCmd) Name() string       { return "browse" }
func (c *BrowseCmd) Aliases() []string  { return []string{"ui"} }
func (c *BrowseCmd) Synopsis() string   { return "Browse tasks interactively" }
func (c *BrowseCmd) Usage() string      { return "todoctl browse" }
func (c *BrowseCmd) NeedsBackend() bool { return true }

func (c *BrowseCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *BrowseCmd) Run(ctx context.Context, cfg *config.Config, repo service.TaskRepository, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithOutput(out)}
	if c.in != nil {
		opts = append(opts, tea.WithInput(c.in))
	}

	if _, err := tea.NewProgram(tui.New(ctx, repo, cfg.Log), opts...).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			return exitcode.Success
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
