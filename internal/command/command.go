// Package command parses input lines into commands and runs them against a
// task list. Every command returns the response shown to the user.
package command

import (
	"cmp"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/amirbrooks/jade/internal/task"
)

const (
	GreetMessage = "Hello! I'm Jade\nWhat can I do for you?"
	ExitMessage  = "Bye. Hope to see you again soon!"
)

// Command mutates or queries the list only when Run is called.
type Command interface {
	Run() (string, error)
}

// IsExit reports whether cmd ends the session.
func IsExit(cmd Command) bool {
	_, ok := cmd.(*ExitCommand)
	return ok
}

type ExitCommand struct{}

func (c *ExitCommand) Run() (string, error) { return ExitMessage, nil }

type GreetCommand struct{}

func (c *GreetCommand) Run() (string, error) { return GreetMessage, nil }

type ListCommand struct {
	tasks *task.List
}

func (c *ListCommand) Run() (string, error) {
	if c.tasks.Count() == 0 {
		return "Your list is empty.", nil
	}
	var b strings.Builder
	b.WriteString("Here are the tasks in your list:")
	writeNumbered(&b, c.tasks.All())
	return b.String(), nil
}

type AddCommand struct {
	tasks *task.List
	task  task.Task
}

func (c *AddCommand) Run() (string, error) {
	c.tasks.Add(c.task)
	return fmt.Sprintf("Got it. I've added this task:\n  %s\n%s", c.task, countLine(c.tasks.Count())), nil
}

type MarkCommand struct {
	tasks *task.List
	args  string
	done  bool
}

func (c *MarkCommand) Run() (string, error) {
	verb := "unmark"
	if c.done {
		verb = "mark"
	}
	index, err := parseIndex(c.args, verb)
	if err != nil {
		return "", err
	}
	if !c.tasks.Mark(index, c.done) {
		return "", &Error{Kind: task.ErrIndex, Message: noSuchTaskMessage}
	}
	t, err := c.tasks.Get(index)
	if err != nil {
		return "", err
	}
	if c.done {
		return fmt.Sprintf("Nice! I've marked this task as done:\n  %s", t), nil
	}
	return fmt.Sprintf("OK, I've marked this task as not done yet:\n  %s", t), nil
}

type DeleteCommand struct {
	tasks *task.List
	args  string
}

func (c *DeleteCommand) Run() (string, error) {
	index, err := parseIndex(c.args, "delete")
	if err != nil {
		return "", err
	}
	removed, err := c.tasks.Delete(index)
	if err != nil {
		if errors.Is(err, task.ErrIndex) {
			return "", &Error{Kind: task.ErrIndex, Message: noSuchTaskMessage, Err: err}
		}
		return "", err
	}
	return fmt.Sprintf("Noted. I've removed this task:\n  %s\n%s", removed, countLine(c.tasks.Count())), nil
}

type FindCommand struct {
	tasks *task.List
	args  string
}

func (c *FindCommand) Run() (string, error) {
	keyword := strings.TrimSpace(c.args)
	if keyword == "" {
		return "", newError(ErrFormat, "Please provide a keyword, eg. find book")
	}
	matches := c.tasks.Find(keyword)
	if len(matches) == 0 {
		return "No matching tasks found.", nil
	}
	var b strings.Builder
	b.WriteString("Here are the matching tasks in your list:")
	for _, m := range matches {
		fmt.Fprintf(&b, "\n%d. %s", m.Index+1, m.Task)
	}
	return b.String(), nil
}

type SortCommand struct {
	tasks *task.List
	args  string
}

var sortOrders = map[string]func(a, b task.Task) int{
	"":            byTime,
	"time":        byTime,
	"date":        byTime,
	"name":        byDescription,
	"description": byDescription,
	"done":        byDone,
}

func (c *SortCommand) Run() (string, error) {
	key := strings.ToLower(strings.TrimSpace(c.args))
	order, ok := sortOrders[key]
	if !ok {
		return "", newError(ErrFormat, "Please sort by one of: time, name, done.\n  eg. sort time")
	}
	c.tasks.SortStable(order)
	if c.tasks.Count() == 0 {
		return "Your list is empty.", nil
	}
	var b strings.Builder
	b.WriteString("Here are your tasks, sorted:")
	writeNumbered(&b, c.tasks.All())
	return b.String(), nil
}

// byDone puts open tasks before finished ones.
func byDone(a, b task.Task) int {
	switch {
	case a.IsDone() == b.IsDone():
		return 0
	case b.IsDone():
		return -1
	default:
		return 1
	}
}

// byTime orders open before done, then dated tasks chronologically, then
// undated tasks.
func byTime(a, b task.Task) int {
	if c := byDone(a, b); c != 0 {
		return c
	}
	at, aok := a.When()
	bt, bok := b.When()
	switch {
	case aok && bok:
		return at.Compare(bt)
	case aok:
		return -1
	case bok:
		return 1
	}
	return 0
}

func byDescription(a, b task.Task) int {
	return cmp.Compare(strings.ToLower(a.Description()), strings.ToLower(b.Description()))
}

func parseIndex(args, verb string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil {
		return 0, &Error{Kind: ErrFormat, Message: fmt.Sprintf("Please provide a task number, eg. %s 2", verb), Err: err}
	}
	return n - 1, nil
}

func writeNumbered(b *strings.Builder, tasks []task.Task) {
	for i, t := range tasks {
		fmt.Fprintf(b, "\n%d. %s", i+1, t)
	}
}

func countLine(n int) string {
	if n == 1 {
		return "Now you have 1 task in the list."
	}
	return fmt.Sprintf("Now you have %d tasks in the list.", n)
}
