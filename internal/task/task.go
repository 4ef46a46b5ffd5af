package task

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
)

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrTimeFormat       = errors.New("invalid time format")
	ErrIndex            = errors.New("index out of range")
	ErrCorruptData      = errors.New("corrupt data")
)

// TimeLayout is the only accepted date-time input format (yyyy-MM-dd HHmm).
const TimeLayout = "2006-01-02 1504"

const displayLayout = "Jan 2 2006, 3:04PM"

type Kind string

const (
	KindTodo     Kind = "T"
	KindDeadline Kind = "D"
	KindEvent    Kind = "E"
)

// Task is implemented by *Todo, *Deadline and *Event.
type Task interface {
	Kind() Kind
	Description() string
	IsDone() bool
	MarkAsDone()
	MarkAsNotDone()
	// When returns the date used for chronological ordering.
	When() (time.Time, bool)
	String() string
	fields() []string
}

// Time keeps the text the user typed next to the parsed value so the
// persisted form stays in original input units.
type Time struct {
	Raw string
	At  time.Time
}

func ParseTime(s string) (Time, error) {
	raw := strings.TrimSpace(s)
	at, err := time.Parse(TimeLayout, raw)
	if err != nil {
		return Time{}, fmt.Errorf("%w: %q", ErrTimeFormat, raw)
	}
	return Time{Raw: raw, At: at}, nil
}

func (t Time) String() string {
	return t.At.Format(displayLayout)
}

type base struct {
	description string
	done        bool
}

// newBase replaces control characters with spaces: a description is stored
// on a single line.
func newBase(description string) (base, error) {
	description = strings.TrimSpace(strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, description))
	if description == "" {
		return base{}, ErrEmptyDescription
	}
	return base{description: description}, nil
}

func (b *base) Description() string { return b.description }
func (b *base) IsDone() bool        { return b.done }
func (b *base) MarkAsDone()         { b.done = true }
func (b *base) MarkAsNotDone()      { b.done = false }

func (b *base) prefix(k Kind) string {
	icon := " "
	if b.done {
		icon = "X"
	}
	return fmt.Sprintf("[%s][%s] %s", k, icon, b.description)
}

func (b *base) doneFlag() string {
	if b.done {
		return "1"
	}
	return "0"
}

type Todo struct {
	base
}

func NewTodo(description string) (*Todo, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	return &Todo{base: b}, nil
}

func (t *Todo) Kind() Kind              { return KindTodo }
func (t *Todo) When() (time.Time, bool) { return time.Time{}, false }
func (t *Todo) String() string          { return t.prefix(KindTodo) }

func (t *Todo) fields() []string {
	return []string{string(KindTodo), t.doneFlag(), t.description}
}

type Deadline struct {
	base
	By Time
}

func NewDeadline(description, by string) (*Deadline, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	at, err := ParseTime(by)
	if err != nil {
		return nil, err
	}
	return &Deadline{base: b, By: at}, nil
}

func (d *Deadline) Kind() Kind              { return KindDeadline }
func (d *Deadline) When() (time.Time, bool) { return d.By.At, true }

func (d *Deadline) String() string {
	return fmt.Sprintf("%s (by: %s)", d.prefix(KindDeadline), d.By)
}

func (d *Deadline) fields() []string {
	return []string{string(KindDeadline), d.doneFlag(), d.description, d.By.Raw}
}

// Event spans From..To. From after To is accepted as typed.
type Event struct {
	base
	From Time
	To   Time
}

func NewEvent(description, from, to string) (*Event, error) {
	b, err := newBase(description)
	if err != nil {
		return nil, err
	}
	start, err := ParseTime(from)
	if err != nil {
		return nil, err
	}
	end, err := ParseTime(to)
	if err != nil {
		return nil, err
	}
	return &Event{base: b, From: start, To: end}, nil
}

func (e *Event) Kind() Kind              { return KindEvent }
func (e *Event) When() (time.Time, bool) { return e.From.At, true }

func (e *Event) String() string {
	return fmt.Sprintf("%s (from: %s to: %s)", e.prefix(KindEvent), e.From, e.To)
}

func (e *Event) fields() []string {
	return []string{string(KindEvent), e.doneFlag(), e.description, e.From.Raw, e.To.Raw}
}
