package task

import (
	"fmt"
	"strings"
)

// Delimiter separates fields of a persisted task line.
const Delimiter = " | "

// Encode renders t as one persisted line:
//
//	T | 0 | read book
//	D | 1 | submit report | 2024-12-25 2130
//	E | 0 | trip | 2024-01-01 0900 | 2024-01-02 1800
func Encode(t Task) string {
	return strings.Join(t.fields(), Delimiter)
}

// Decode parses a line produced by Encode. The type tag and done flag are
// taken from the left and time fields from the right; time fields never
// contain the delimiter, so whatever remains is the description, even when
// it contains or ends with the delimiter itself.
func Decode(line string) (Task, error) {
	line = strings.TrimRight(line, "\r\n")
	parts := strings.SplitN(line, Delimiter, 3)
	if len(parts) < 3 {
		return nil, fmt.Errorf("%w: expected at least 3 fields, got %d", ErrCorruptData, len(parts))
	}

	var done bool
	switch parts[1] {
	case "1":
		done = true
	case "0":
	default:
		return nil, fmt.Errorf("%w: bad done flag %q", ErrCorruptData, parts[1])
	}

	var (
		t    Task
		err  error
		rest = parts[2]
	)
	switch Kind(parts[0]) {
	case KindTodo:
		t, err = NewTodo(rest)
	case KindDeadline:
		desc, by, ok := cutLast(rest)
		if !ok {
			return nil, fmt.Errorf("%w: deadline needs a by field", ErrCorruptData)
		}
		t, err = NewDeadline(desc, by)
	case KindEvent:
		head, to, ok := cutLast(rest)
		var desc, from string
		if ok {
			desc, from, ok = cutLast(head)
		}
		if !ok {
			return nil, fmt.Errorf("%w: event needs from and to fields", ErrCorruptData)
		}
		t, err = NewEvent(desc, from, to)
	default:
		return nil, fmt.Errorf("%w: unknown type tag %q", ErrCorruptData, parts[0])
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}
	if done {
		t.MarkAsDone()
	}
	return t, nil
}

// cutLast splits s around the last delimiter.
func cutLast(s string) (before, after string, found bool) {
	i := strings.LastIndex(s, Delimiter)
	if i < 0 {
		return s, "", false
	}
	return s[:i], s[i+len(Delimiter):], true
}
