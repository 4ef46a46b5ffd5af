// Package assistant runs one jade session: it parses each input line, runs
// the command against the task list and saves the list after any change.
package assistant

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/amirbrooks/jade/internal/command"
	"github.com/amirbrooks/jade/internal/task"
)

// Storage is the persistence collaborator.
type Storage interface {
	LoadAll() ([]task.Task, error)
	SaveAll(tasks []task.Task) error
}

// Response is the outcome of one input line.
type Response struct {
	Text string
	// Err is set when Text is an error message (parse or run failure).
	Err error
	// SaveErr is set when the command succeeded but persisting failed.
	SaveErr error
	Exit    bool
}

func (r Response) IsError() bool {
	return r.Err != nil || r.SaveErr != nil
}

// Assistant owns the task list for a session. It is not safe for concurrent
// use; front ends feed it one line at a time.
type Assistant struct {
	tasks   *task.List
	parser  *command.Parser
	storage Storage
	log     *log.Logger
}

// New loads the list from storage. Corrupt lines are skipped with a warning;
// any other load error is returned.
func New(storage Storage, logger *log.Logger) (*Assistant, error) {
	tasks, err := storage.LoadAll()
	if err != nil {
		if !errors.Is(err, task.ErrCorruptData) {
			return nil, fmt.Errorf("load tasks: %w", err)
		}
		logger.Warn("skipped unreadable task lines", "err", err)
	}
	list := task.NewList(tasks)
	logger.Debug("tasks loaded", "count", list.Count())
	return &Assistant{
		tasks:   list,
		parser:  command.NewParser(list),
		storage: storage,
		log:     logger,
	}, nil
}

// Tasks exposes the session list for read-only callers such as export.
func (a *Assistant) Tasks() []task.Task {
	return a.tasks.All()
}

func (a *Assistant) Greeting() string {
	text, _ := (&command.GreetCommand{}).Run()
	return text
}

// Respond parses and runs one line. Errors never escape: they come back as
// the response text so the caller can keep reading input.
func (a *Assistant) Respond(line string) Response {
	cmd, err := a.parser.Parse(line)
	if err != nil {
		a.log.Debug("parse failed", "line", line, "err", err)
		return Response{Text: err.Error(), Err: err}
	}

	before := a.tasks.Revision()
	text, err := cmd.Run()
	if err != nil {
		a.log.Debug("command failed", "line", line, "err", err)
		return Response{Text: err.Error(), Err: err}
	}
	resp := Response{Text: text, Exit: command.IsExit(cmd)}
	if a.tasks.Revision() == before {
		return resp
	}

	if err := a.storage.SaveAll(a.tasks.All()); err != nil {
		a.log.Warn("save failed, keeping tasks in memory", "err", err)
		resp.SaveErr = err
		resp.Text = fmt.Sprintf("%s\n(Could not save your tasks: %v)", text, err)
		return resp
	}
	a.log.Debug("tasks saved", "count", a.tasks.Count())
	return resp
}
