package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"todoctl/internal/backend/todoapi"
	"todoctl/internal/commands"
	"todoctl/internal/config"
	"todoctl/internal/exitcode"
	"todoctl/internal/service"
	"todoctl/internal/testutil"
)

// runCommand is a helper to run a command against a repository.
func runCommand(t *testing.T, cmd commands.Command, repo service.TaskRepository, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()

	var outBuf, errBuf bytes.Buffer

	cfg := &config.Config{
		Dir:   t.TempDir(),
		Quiet: quiet,
		Log:   zerolog.Nop(),
	}

	ctx := context.Background()
	code = cmd.Run(ctx, cfg, repo, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func sampleService() *testutil.FakeService {
	svc := testutil.NewFakeService()
	svc.AddTask(1, "Buy milk", false)
	svc.AddTask(2, "Walk dog", true)
	return svc
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	cmd := &commands.VersionCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "todoctl 0.1.0\n" {
		t.Errorf("expected version output, got %q", stdout)
	}
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	cmd := &commands.HelpCmd{}

	stdout, stderr, code := runCommand(t, cmd, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_All(t *testing.T) {
	svc := sampleService()

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "list_all", stdout)

	if svc.LastLimit != service.PageLimit {
		t.Errorf("expected limit %d, got %d", service.PageLimit, svc.LastLimit)
	}
}

func TestListCommand_Completed(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("completed")
	stdout, stderr, code := runCommand(t, cmd, sampleService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	expected := "   2  [x] Walk dog\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_Pending(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("Pending")
	stdout, _, code := runCommand(t, cmd, sampleService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "   1  [ ] Buy milk\n"
	if stdout != expected {
		t.Errorf("expected %q, got %q", expected, stdout)
	}
}

func TestListCommand_InvalidFilter(t *testing.T) {
	svc := sampleService()

	cmd := &commands.ListCmd{}
	cmd.SetFilter("done")
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: invalid filter: done\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if svc.Calls() != 0 {
		t.Errorf("expected no backend calls, got %d", svc.Calls())
	}
}

func TestListCommand_Empty(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "no tasks found\n" {
		t.Errorf("expected 'no tasks found', got %q", stdout)
	}
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, _, code := runCommand(t, cmd, testutil.NewFakeService(), nil, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	// Quiet mode should suppress "no tasks found"
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestListCommand_BackendError(t *testing.T) {
	svc := sampleService()
	svc.ListErr = &service.NetworkError{Op: "list", StatusCode: http.StatusBadGateway}

	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, nil, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: backend error: error loading tasks (http status 502)\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for show command
func TestShowCommand_Success(t *testing.T) {
	cmd := &commands.ShowCmd{}
	stdout, stderr, code := runCommand(t, cmd, sampleService(), []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "show", stdout)
}

func TestShowCommand_NotFound(t *testing.T) {
	cmd := &commands.ShowCmd{}
	stdout, stderr, code := runCommand(t, cmd, sampleService(), []string{"99"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: task not found: 99\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

func TestShowCommand_NoID(t *testing.T) {
	cmd := &commands.ShowCmd{}
	_, stderr, code := runCommand(t, cmd, sampleService(), nil, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task id required\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"Buy", "groceries"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok 1\n" {
		t.Errorf("expected 'ok 1\\n', got %q", stdout)
	}
	if len(svc.Created) != 1 || svc.Created[0].Title != "Buy groceries" {
		t.Errorf("expected one created task 'Buy groceries', got %+v", svc.Created)
	}
}

func TestAddCommand_Quiet(t *testing.T) {
	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), []string{"Buy", "milk"}, true)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "" {
		t.Errorf("expected empty stdout in quiet mode, got %q", stdout)
	}
}

func TestAddCommand_BlankTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"  "}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "error: title is required\n" {
		t.Errorf("expected title required error, got %q", stderr)
	}
	if svc.Calls() != 0 {
		t.Errorf("expected zero backend calls, got %d", svc.Calls())
	}
}

func TestAddCommand_ShortTitle(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"ab"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: title must be at least 3 characters\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if svc.Calls() != 0 {
		t.Errorf("expected zero backend calls, got %d", svc.Calls())
	}
}

func TestAddCommand_BackendError(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.CreateErr = &service.NetworkError{Op: "create", Err: errors.New("connection refused")}

	cmd := &commands.AddCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"Water", "plants"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: could not create task: create: connection refused\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

// Tests for toggle command
func TestToggleCommand_Success(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(5, "Call mom", false)

	cmd := &commands.ToggleCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok completed\n" {
		t.Errorf("expected 'ok completed\\n', got %q", stdout)
	}
	if len(svc.Updated) != 1 || !svc.Updated[0].Completed || svc.Updated[0].ID != 5 {
		t.Errorf("expected update of task 5 with completed=true, got %+v", svc.Updated)
	}
}

func TestToggleCommand_UpdateFails(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddTask(5, "Call mom", false)
	svc.UpdateErr = &service.NetworkError{Op: "update", StatusCode: http.StatusInternalServerError}

	cmd := &commands.ToggleCmd{}
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"5"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	expected := "error: backend error: could not update task: update: http status 500\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestToggleCommand_NotFound(t *testing.T) {
	svc := testutil.NewFakeService()

	cmd := &commands.ToggleCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"7"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: task not found: 7\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if svc.UpdateCalls != 0 {
		t.Errorf("expected no update call, got %d", svc.UpdateCalls)
	}
}

// Tests for rm command
func TestRmCommand_Confirmed(t *testing.T) {
	svc := sampleService()

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("y\n"))
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "delete task 1? [y/N] " {
		t.Errorf("expected prompt on stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
	if len(svc.Removed) != 1 || svc.Removed[0] != 1 {
		t.Errorf("expected task 1 removed, got %v", svc.Removed)
	}
}

func TestRmCommand_Declined(t *testing.T) {
	svc := sampleService()

	cmd := &commands.RmCmd{}
	cmd.SetInput(strings.NewReader("n\n"))
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"1"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if stderr != "delete task 1? [y/N] error: cancelled\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
	if svc.RemoveCalls != 0 {
		t.Errorf("expected no remove call, got %d", svc.RemoveCalls)
	}
}

func TestRmCommand_Yes(t *testing.T) {
	svc := sampleService()

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	stdout, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	if stdout != "ok\n" {
		t.Errorf("expected 'ok\\n', got %q", stdout)
	}
}

func TestRmCommand_BackendError(t *testing.T) {
	svc := sampleService()
	svc.RemoveErr = &service.NetworkError{Op: "remove", StatusCode: http.StatusNotFound}

	cmd := &commands.RmCmd{}
	cmd.SetYes(true)
	_, stderr, code := runCommand(t, cmd, svc, []string{"2"}, false)

	if code != exitcode.BackendError {
		t.Errorf("expected exit code %d, got %d", exitcode.BackendError, code)
	}
	expected := "error: backend error: could not delete task: remove: http status 404\n"
	if stderr != expected {
		t.Errorf("expected %q, got %q", expected, stderr)
	}
}

func TestRmCommand_InvalidID(t *testing.T) {
	svc := sampleService()

	cmd := &commands.RmCmd{}
	_, stderr, code := runCommand(t, cmd, svc, []string{"abc"}, false)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: invalid task id: abc\n" {
		t.Errorf("unexpected stderr: %q", stderr)
	}
}

// Tests against the HTTP backend and a fake remote service
func TestCommands_AgainstTodoServer(t *testing.T) {
	srv := testutil.NewTodoServer(t,
		service.Task{ID: 1, Title: "Buy milk", Completed: false, UserID: 1},
		service.Task{ID: 5, Title: "Call mom", Completed: false, UserID: 1},
	)
	repo, err := todoapi.NewWithHTTPClient(context.Background(), srv.Client(), srv.URL)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	stdout, _, code := runCommand(t, &commands.ListCmd{}, repo, nil, false)
	if code != exitcode.Success {
		t.Fatalf("list: expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "   1  [ ] Buy milk\n   5  [ ] Call mom\n" {
		t.Errorf("list: unexpected stdout %q", stdout)
	}
	if q := srv.LastRequest().Query; q != "_limit=20" {
		t.Errorf("list: expected _limit=20, got %q", q)
	}

	_, _, code = runCommand(t, &commands.ToggleCmd{}, repo, []string{"5"}, false)
	if code != exitcode.Success {
		t.Fatalf("toggle: expected exit code %d, got %d", exitcode.Success, code)
	}
	put := srv.LastRequest()
	if put.Method != http.MethodPut || put.Path != "/todos/5" {
		t.Errorf("toggle: unexpected request %s %s", put.Method, put.Path)
	}
	var body service.Task
	if err := json.Unmarshal(put.Body, &body); err != nil {
		t.Fatalf("toggle: invalid body: %v", err)
	}
	if !body.Completed || body.Title != "Call mom" {
		t.Errorf("toggle: expected full body with completed=true, got %+v", body)
	}

	stdout, _, code = runCommand(t, &commands.AddCmd{}, repo, []string{"Water", "plants"}, false)
	if code != exitcode.Success || stdout != "ok 201\n" {
		t.Errorf("add: expected 'ok 201', got code %d stdout %q", code, stdout)
	}

	srv.FailStatus = http.StatusInternalServerError
	_, stderr, code := runCommand(t, &commands.ListCmd{}, repo, nil, false)
	if code != exitcode.BackendError {
		t.Errorf("list failure: expected exit code %d, got %d", exitcode.BackendError, code)
	}
	if !strings.HasPrefix(stderr, "error: backend error: error loading tasks") {
		t.Errorf("list failure: unexpected stderr %q", stderr)
	}
}
