// Package server provides the HTTP REST API for the job board.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/jonathan/jobboard/internal/feed"
	"github.com/jonathan/jobboard/internal/postings"
	"github.com/jonathan/jobboard/internal/schemas"
	"github.com/jonathan/jobboard/internal/store"
	"github.com/jonathan/jobboard/internal/wizard"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists     *ErrEmailAlreadyExists
		invalidCreds    *ErrInvalidCredentials
		userNotFound    *ErrUserNotFound
		validation      *ErrValidation
		wizardInvalid   *wizard.ValidationError
		unknownField    *wizard.UnknownFieldError
		schemaInvalid   *schemas.ValidationError
		unknownAction   *feed.UnknownActionError
		invalidAction   *feed.InvalidActionError
		sessionNotFound *feed.SessionNotFoundError
		recordNotFound  *store.NotFoundError
		backendStatus   *postings.StatusError
		backendFailure  *postings.Error
	)

	switch {
	case errors.As(err, &emailExists), errors.Is(err, store.ErrEmailExists):
		return http.StatusConflict
	case errors.As(err, &invalidCreds):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &sessionNotFound), errors.As(err, &recordNotFound):
		return http.StatusNotFound
	case errors.As(err, &validation), errors.As(err, &wizardInvalid), errors.As(err, &unknownField),
		errors.As(err, &schemaInvalid), errors.As(err, &unknownAction), errors.As(err, &invalidAction):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &backendStatus), errors.As(err, &backendFailure):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Step   *int              `json:"step,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// newErrorBody builds the response body for err. Field-level details are
// included for validation failures; internal errors are not echoed.
func newErrorBody(err error, status int) errorBody {
	body := errorBody{Error: err.Error()}

	var (
		wizardInvalid *wizard.ValidationError
		schemaInvalid *schemas.ValidationError
		validation    *ErrValidation
	)
	switch {
	case errors.As(err, &wizardInvalid):
		step := wizardInvalid.Step
		body.Step = &step
		body.Fields = wizardInvalid.Fields
	case errors.As(err, &schemaInvalid):
		body.Error = "request does not match schema"
		body.Fields = schemaInvalid.Fields()
	case errors.As(err, &validation):
		body.Fields = map[string]string{validation.Field: validation.Message}
	}

	if status == http.StatusInternalServerError {
		body.Error = "internal server error"
	}
	return body
}
