package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"todoctl/internal/service"
)

const (
	TitleRequiredMessage = "title is required"
	TitleTooShortMessage = "title must be at least 3 characters"

	createErrorMessage = "could not create task"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// FormController owns the create-task form.
type FormController struct {
	repo service.TaskRepository
	log  zerolog.Logger

	mu      sync.Mutex
	input   service.TaskFormInput
	created *service.Task
	errMsg  string
}

// NewFormController creates an empty form.
func NewFormController(repo service.TaskRepository, log zerolog.Logger) *FormController {
	return &FormController{repo: repo, log: log}
}

// Validate checks input on the client. Titles are trimmed first.
func (c *FormController) Validate(input service.TaskFormInput) error {
	return ValidateInput(input)
}

// ValidateInput returns a *service.ValidationError for an invalid title.
func ValidateInput(input service.TaskFormInput) error {
	err := validate.Struct(input.Normalized())
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate input: %w", err)
	}
	msg := TitleTooShortMessage
	if verrs[0].Tag() == "required" {
		msg = TitleRequiredMessage
	}
	return &service.ValidationError{Field: "title", Message: msg}
}

// Submit validates and creates the task. Invalid input sends no request.
// On failure the input stays on the form for a retry.
func (c *FormController) Submit(ctx context.Context, input service.TaskFormInput) (service.Task, error) {
	c.mu.Lock()
	c.input = input
	c.mu.Unlock()

	if err := c.Validate(input); err != nil {
		c.setErr(errorMessage(err, createErrorMessage))
		return service.Task{}, err
	}

	created, err := c.repo.Create(ctx, input.Normalized())
	if err != nil {
		c.log.Debug().Err(err).Msg("task create failed")
		c.setErr(createErrorMessage)
		return service.Task{}, fmt.Errorf("%s: %w", createErrorMessage, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.created = &created
	c.errMsg = ""
	return created, nil
}

// Input returns the last submitted input.
func (c *FormController) Input() service.TaskFormInput {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// Created returns the server acknowledgement of the last successful submit.
func (c *FormController) Created() (service.Task, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.created == nil {
		return service.Task{}, false
	}
	return *c.created, true
}

// Err returns the message of the last failure, or "".
func (c *FormController) Err() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

func (c *FormController) setErr(msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = msg
}
