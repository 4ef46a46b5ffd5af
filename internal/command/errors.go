package command

import (
	"errors"

	"github.com/amirbrooks/jade/internal/task"
)

var (
	ErrEmptyTask           = errors.New("empty task")
	ErrFormat              = errors.New("bad command format")
	ErrUnrecognizedCommand = errors.New("unrecognized command")
)

const (
	unrecognizedMessage = "Please specify the type of task: todo, deadline, or event."
	timeFormatMessage   = "Please use yyyy-MM-dd HHmm format for time.\n  eg. 2024-12-25 2130"
	noSuchTaskMessage   = "Hmm, no such task. Try again."
)

// Error is a user-facing command failure. Message is what the user sees;
// errors.Is matches Kind (one of the sentinels above, or task.ErrTimeFormat /
// task.ErrIndex) and the underlying cause, if any.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message == "" && e.Kind != nil {
		return e.Kind.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() []error {
	var out []error
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func newError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// fromTaskError maps a task constructor failure onto the command error kinds.
func fromTaskError(err error, emptyMessage string) error {
	switch {
	case errors.Is(err, task.ErrEmptyDescription):
		return &Error{Kind: ErrEmptyTask, Message: emptyMessage, Err: err}
	case errors.Is(err, task.ErrTimeFormat):
		return &Error{Kind: task.ErrTimeFormat, Message: timeFormatMessage, Err: err}
	default:
		return err
	}
}
