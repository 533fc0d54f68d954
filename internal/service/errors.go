package service

import (
	"errors"
	"fmt"

	"github.com/safar/labecommerce/internal/validation"
)

// Error kinds. Match them with errors.Is.
var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrUnexpected = errors.New("unexpected error")
)

// Error is a failed pipeline run. Stage is the stage that was running when
// the run aborted (StageCommitted means the write itself failed). Message is
// safe to show to clients; Err holds the underlying cause, if any.
type Error struct {
	Kind    error
	Stage   Stage
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func invalid(format string, args ...any) *Error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func notFound(format string, args ...any) *Error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...any) *Error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func unexpected(err error) *Error {
	return &Error{Kind: ErrUnexpected, Message: "unexpected error", Err: err}
}

// asError classifies err as a *Error aborted at stage.
func asError(err error, stage Stage) *Error {
	var serr *Error
	var verr *validation.Error

	switch {
	case errors.As(err, &serr):
		out := *serr
		out.Stage = stage
		return &out
	case errors.As(err, &verr):
		return &Error{Kind: ErrValidation, Stage: stage, Message: verr.Error(), Err: verr}
	default:
		out := unexpected(err)
		out.Stage = stage
		return out
	}
}
