package command

import (
	"strings"
	"unicode"

	"github.com/amirbrooks/jade/internal/task"
)

type factory func(tasks *task.List, args string) Command

// controlVerbs is filled once here and only read afterwards.
var controlVerbs = map[string]factory{
	"bye":    func(*task.List, string) Command { return &ExitCommand{} },
	"list":   func(tasks *task.List, _ string) Command { return &ListCommand{tasks: tasks} },
	"mark":   func(tasks *task.List, args string) Command { return &MarkCommand{tasks: tasks, args: args, done: true} },
	"unmark": func(tasks *task.List, args string) Command { return &MarkCommand{tasks: tasks, args: args, done: false} },
	"delete": func(tasks *task.List, args string) Command { return &DeleteCommand{tasks: tasks, args: args} },
	"find":   func(tasks *task.List, args string) Command { return &FindCommand{tasks: tasks, args: args} },
	"sort":   func(tasks *task.List, args string) Command { return &SortCommand{tasks: tasks, args: args} },
}

type taskParser func(body string) (task.Task, error)

var taskVerbs = map[string]taskParser{
	"todo":     parseTodo,
	"deadline": parseDeadline,
	"event":    parseEvent,
}

// Verbs lists every recognised first word, control verbs first.
func Verbs() []string {
	return []string{"bye", "list", "mark", "unmark", "delete", "find", "sort", "todo", "deadline", "event"}
}

type Parser struct {
	tasks *task.List
}

func NewParser(tasks *task.List) *Parser {
	return &Parser{tasks: tasks}
}

// Parse turns one input line into a command bound to the parser's list.
// Task verbs are fully validated here, so a returned error means the list
// was not touched.
func (p *Parser) Parse(line string) (Command, error) {
	verb, args := splitVerb(line)
	if f, ok := controlVerbs[verb]; ok {
		return f(p.tasks, args), nil
	}
	if parse, ok := taskVerbs[verb]; ok {
		t, err := parse(args)
		if err != nil {
			return nil, err
		}
		return &AddCommand{tasks: p.tasks, task: t}, nil
	}
	return nil, newError(ErrUnrecognizedCommand, unrecognizedMessage)
}

// splitVerb lowercases the first word; the argument text keeps its case.
func splitVerb(line string) (string, string) {
	line = strings.TrimSpace(line)
	i := strings.IndexFunc(line, unicode.IsSpace)
	if i < 0 {
		return strings.ToLower(line), ""
	}
	return strings.ToLower(line[:i]), strings.TrimSpace(line[i:])
}

func parseTodo(body string) (task.Task, error) {
	const empty = "The todo task cannot be empty!"
	if body == "" {
		return nil, newError(ErrEmptyTask, empty)
	}
	t, err := task.NewTodo(body)
	if err != nil {
		return nil, fromTaskError(err, empty)
	}
	return t, nil
}

func parseDeadline(body string) (task.Task, error) {
	const empty = "The deadline task cannot be empty!"
	if body == "" {
		return nil, newError(ErrEmptyTask, empty)
	}
	desc, by, ok := strings.Cut(body, " /by ")
	if !ok {
		return nil, newError(ErrFormat, "Please provide a deadline in the format:\n  deadline <task> /by <time>")
	}
	t, err := task.NewDeadline(desc, by)
	if err != nil {
		return nil, fromTaskError(err, empty)
	}
	return t, nil
}

func parseEvent(body string) (task.Task, error) {
	const empty = "The event task cannot be empty!"
	if body == "" {
		return nil, newError(ErrEmptyTask, empty)
	}
	desc, span, ok := strings.Cut(body, " /from ")
	if !ok {
		return nil, newError(ErrFormat, "Please provide an event in the format:\n  event <task> /from <time>")
	}
	from, to, ok := strings.Cut(span, " /to ")
	if !ok {
		return nil, newError(ErrFormat, "Please provide an end time in the format:\n  event <task> /from <start time> /to <end time>")
	}
	t, err := task.NewEvent(desc, from, to)
	if err != nil {
		return nil, fromTaskError(err, empty)
	}
	return t, nil
}
