package command

import (
	"errors"
	"strings"
	"testing"

	"github.com/amirbrooks/jade/internal/task"
)

func run(t *testing.T, p *Parser, line string) string {
	t.Helper()
	cmd, err := p.Parse(line)
	if err != nil {
		t.Fatalf("Parse(%q): %v", line, err)
	}
	out, err := cmd.Run()
	if err != nil {
		t.Fatalf("Run(%q): %v", line, err)
	}
	return out
}

func runErr(t *testing.T, p *Parser, line string) error {
	t.Helper()
	cmd, err := p.Parse(line)
	if err != nil {
		return err
	}
	_, err = cmd.Run()
	return err
}

func TestAddTodo(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	out := run(t, p, "todo read book")
	if l.Count() != 1 {
		t.Fatalf("count = %d, want 1", l.Count())
	}
	got, _ := l.Get(0)
	if got.Kind() != task.KindTodo || got.Description() != "read book" || got.IsDone() {
		t.Fatalf("unexpected task %s", got)
	}
	want := "Got it. I've added this task:\n  [T][ ] read book\nNow you have 1 task in the list."
	if out != want {
		t.Fatalf("response:\n%s\nwant:\n%s", out, want)
	}
}

func TestAddDeadline(t *testing.T) {
	l := task.NewList(nil)
	out := run(t, NewParser(l), "deadline submit report /by 2024-12-25 2130")
	got, _ := l.Get(0)
	dl, ok := got.(*task.Deadline)
	if !ok {
		t.Fatalf("expected *task.Deadline, got %T", got)
	}
	if dl.By.Raw != "2024-12-25 2130" {
		t.Fatalf("by = %q", dl.By.Raw)
	}
	if !strings.Contains(out, "(by: Dec 25 2024, 9:30PM)") {
		t.Fatalf("response missing formatted time: %s", out)
	}
}

func TestAddEvent(t *testing.T) {
	l := task.NewList(nil)
	run(t, NewParser(l), "event trip /from 2024-01-01 0900 /to 2024-01-02 1800")
	got, _ := l.Get(0)
	ev, ok := got.(*task.Event)
	if !ok {
		t.Fatalf("expected *task.Event, got %T", got)
	}
	if ev.Description() != "trip" || ev.From.Raw != "2024-01-01 0900" || ev.To.Raw != "2024-01-02 1800" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestVerbIsCaseInsensitiveButArgumentsKeepCase(t *testing.T) {
	l := task.NewList(nil)
	run(t, NewParser(l), "  TODO Read Book  ")
	got, _ := l.Get(0)
	if got.Description() != "Read Book" {
		t.Fatalf("description = %q", got.Description())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		line    string
		kind    error
		message string
	}{
		{"todo", ErrEmptyTask, "The todo task cannot be empty!"},
		{"todo    ", ErrEmptyTask, "The todo task cannot be empty!"},
		{"deadline", ErrEmptyTask, "The deadline task cannot be empty!"},
		{"deadline x", ErrFormat, "Please provide a deadline in the format:\n  deadline <task> /by <time>"},
		{"deadline x /by tomorrow", task.ErrTimeFormat, timeFormatMessage},
		{"event", ErrEmptyTask, "The event task cannot be empty!"},
		{"event party", ErrFormat, "Please provide an event in the format:\n  event <task> /from <time>"},
		{"event party /from 2024-01-01 0900", ErrFormat, "Please provide an end time in the format:\n  event <task> /from <start time> /to <end time>"},
		{"event party /from 2024-01-01 0900 /to soon", task.ErrTimeFormat, timeFormatMessage},
		{"bogus foo", ErrUnrecognizedCommand, unrecognizedMessage},
		{"", ErrUnrecognizedCommand, unrecognizedMessage},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			l := task.NewList(nil)
			_, err := NewParser(l).Parse(tt.line)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("expected %v, got %v", tt.kind, err)
			}
			if err.Error() != tt.message {
				t.Fatalf("message = %q, want %q", err.Error(), tt.message)
			}
			if l.Count() != 0 {
				t.Fatal("collection changed on parse error")
			}
		})
	}
}

func TestTimeFormatErrorKeepsCause(t *testing.T) {
	_, err := NewParser(task.NewList(nil)).Parse("deadline x /by 2024-12-25")
	var cmdErr *Error
	if !errors.As(err, &cmdErr) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if cmdErr.Err == nil || !errors.Is(cmdErr.Err, task.ErrTimeFormat) {
		t.Fatalf("cause = %v", cmdErr.Err)
	}
}

func TestDelimiterSplitsOnFirstOccurrence(t *testing.T) {
	l := task.NewList(nil)
	err := runErr(t, NewParser(l), "deadline a /by b /by 2024-12-25 2130")
	if !errors.Is(err, task.ErrTimeFormat) {
		t.Fatalf("expected time format error from 'b /by ...', got %v", err)
	}
}

func TestMarkAndUnmark(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo read book")
	out := run(t, p, "mark 1")
	if out != "Nice! I've marked this task as done:\n  [T][X] read book" {
		t.Fatalf("mark response: %q", out)
	}
	out = run(t, p, "unmark 1")
	if out != "OK, I've marked this task as not done yet:\n  [T][ ] read book" {
		t.Fatalf("unmark response: %q", out)
	}
	got, _ := l.Get(0)
	if got.IsDone() {
		t.Fatal("expected not done after mark/unmark pair")
	}
}

func TestMarkOnEmptyListIsIndexError(t *testing.T) {
	l := task.NewList(nil)
	err := runErr(t, NewParser(l), "mark 1")
	if !errors.Is(err, task.ErrIndex) {
		t.Fatalf("expected ErrIndex, got %v", err)
	}
	if err.Error() != noSuchTaskMessage {
		t.Fatalf("message = %q", err.Error())
	}
}

func TestIndexArgumentErrors(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo a")
	for _, line := range []string{"mark", "mark one", "unmark x", "delete", "delete 1.5"} {
		if err := runErr(t, p, line); !errors.Is(err, ErrFormat) {
			t.Errorf("%q: expected ErrFormat, got %v", line, err)
		}
	}
	for _, line := range []string{"mark 0", "unmark 2", "delete 0", "delete 5", "delete -1"} {
		if err := runErr(t, p, line); !errors.Is(err, task.ErrIndex) {
			t.Errorf("%q: expected ErrIndex, got %v", line, err)
		}
	}
	if l.Count() != 1 {
		t.Fatalf("count = %d", l.Count())
	}
}

func TestDelete(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo a")
	run(t, p, "todo b")
	run(t, p, "todo c")
	out := run(t, p, "delete 2")
	if out != "Noted. I've removed this task:\n  [T][ ] b\nNow you have 2 tasks in the list." {
		t.Fatalf("delete response: %q", out)
	}
	got, _ := l.Get(1)
	if got.Description() != "c" {
		t.Fatalf("task at 1 = %q, want c", got.Description())
	}
}

func TestList(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	if out := run(t, p, "list"); out != "Your list is empty." {
		t.Fatalf("empty list: %q", out)
	}
	run(t, p, "todo a")
	run(t, p, "deadline b /by 2024-12-25 2130")
	want := "Here are the tasks in your list:\n1. [T][ ] a\n2. [D][ ] b (by: Dec 25 2024, 9:30PM)"
	if out := run(t, p, "list"); out != want {
		t.Fatalf("list:\n%s\nwant:\n%s", out, want)
	}
}

func TestFindIsCaseSensitiveAndKeepsNumbers(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo read book")
	run(t, p, "todo write code")
	run(t, p, "todo Book club")
	run(t, p, "todo return book")
	rev := l.Revision()
	want := "Here are the matching tasks in your list:\n1. [T][ ] read book\n4. [T][ ] return book"
	if out := run(t, p, "find book"); out != want {
		t.Fatalf("find:\n%s\nwant:\n%s", out, want)
	}
	if out := run(t, p, "find zzz"); out != "No matching tasks found." {
		t.Fatalf("no match: %q", out)
	}
	if err := runErr(t, p, "find"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for empty keyword, got %v", err)
	}
	if l.Revision() != rev {
		t.Fatal("find mutated the list")
	}
}

func TestSortByTime(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo undated")
	run(t, p, "deadline late /by 2024-12-25 2130")
	run(t, p, "event early /from 2024-01-01 0900 /to 2024-01-02 1800")
	run(t, p, "deadline finished /by 2023-01-01 0000")
	run(t, p, "mark 4")
	out := run(t, p, "sort")
	want := "Here are your tasks, sorted:\n" +
		"1. [E][ ] early (from: Jan 1 2024, 9:00AM to: Jan 2 2024, 6:00PM)\n" +
		"2. [D][ ] late (by: Dec 25 2024, 9:30PM)\n" +
		"3. [T][ ] undated\n" +
		"4. [D][X] finished (by: Jan 1 2023, 12:00AM)"
	if out != want {
		t.Fatalf("sort:\n%s\nwant:\n%s", out, want)
	}
}

func TestSortByNameIsStable(t *testing.T) {
	l := task.NewList(nil)
	p := NewParser(l)
	run(t, p, "todo b")
	run(t, p, "deadline A /by 2024-12-25 2130")
	run(t, p, "todo a")
	run(t, p, "sort name")
	var got []string
	for _, tk := range l.All() {
		got = append(got, tk.String()[:3])
	}
	if strings.Join(got, "") != "[D][T][T]" {
		t.Fatalf("order = %v", got)
	}
	if err := runErr(t, p, "sort priority"); !errors.Is(err, ErrFormat) {
		t.Fatalf("expected ErrFormat for unknown key, got %v", err)
	}
}

func TestByeIsExit(t *testing.T) {
	cmd, err := NewParser(task.NewList(nil)).Parse("bye")
	if err != nil {
		t.Fatal(err)
	}
	if !IsExit(cmd) {
		t.Fatalf("expected exit command, got %T", cmd)
	}
	out, _ := cmd.Run()
	if out != ExitMessage {
		t.Fatalf("got %q", out)
	}
}
