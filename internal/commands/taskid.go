package commands

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"todoctl/internal/exitcode"
	"todoctl/internal/service"
)

// ErrTaskIDRequired indicates no task id was provided.
var ErrTaskIDRequired = errors.New("task id required")

// ParseTaskID parses the single positional task id argument.
// Ids are positive integers assigned by the remote service.
func ParseTaskID(args []string) (int, error) {
	if len(args) == 0 {
		return 0, ErrTaskIDRequired
	}
	if len(args) > 1 {
		return 0, fmt.Errorf("unexpected argument: %s", args[1])
	}

	raw := strings.TrimPrefix(strings.TrimSpace(args[0]), "#")
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid task id: %s", args[0])
	}
	return id, nil
}

// reportError prints err in the "error: ..." form and returns its exit code.
// Validation errors are user errors; network errors are backend errors.
func reportError(errOut io.Writer, err error) int {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(errOut, "error: %s\n", ve.Message)
		return exitcode.UserError
	}
	if service.IsNetwork(err) {
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
		return exitcode.BackendError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.UserError
}
