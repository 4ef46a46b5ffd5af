package task

import (
	"fmt"
	"slices"
	"strings"
)

// List is the ordered, index-addressable task collection of a session.
// Indices are 0-based; callers convert from the 1-based numbers users see.
// A List is not safe for concurrent use.
type List struct {
	tasks    []Task
	revision int
}

func NewList(tasks []Task) *List {
	return &List{tasks: slices.Clone(tasks)}
}

func (l *List) Add(t Task) {
	l.tasks = append(l.tasks, t)
	l.revision++
}

func (l *List) Get(index int) (Task, error) {
	if !l.IsValidIndex(index) {
		return nil, fmt.Errorf("%w: %d", ErrIndex, index)
	}
	return l.tasks[index], nil
}

// Mark sets the done flag of the task at index. An invalid index is ignored
// and reported by the false return.
func (l *List) Mark(index int, done bool) bool {
	if !l.IsValidIndex(index) {
		return false
	}
	if done {
		l.tasks[index].MarkAsDone()
	} else {
		l.tasks[index].MarkAsNotDone()
	}
	l.revision++
	return true
}

func (l *List) Delete(index int) (Task, error) {
	if !l.IsValidIndex(index) {
		return nil, fmt.Errorf("%w: %d", ErrIndex, index)
	}
	removed := l.tasks[index]
	l.tasks = slices.Delete(l.tasks, index, index+1)
	l.revision++
	return removed, nil
}

func (l *List) Count() int {
	return len(l.tasks)
}

func (l *List) IsValidIndex(index int) bool {
	return index >= 0 && index < len(l.tasks)
}

// All returns a copy of the tasks in list order.
func (l *List) All() []Task {
	return slices.Clone(l.tasks)
}

// Match is a Find hit with its 0-based position in the list.
type Match struct {
	Index int
	Task  Task
}

// Find returns tasks whose description contains keyword (case-sensitive),
// in list order.
func (l *List) Find(keyword string) []Match {
	var out []Match
	for i, t := range l.tasks {
		if strings.Contains(t.Description(), keyword) {
			out = append(out, Match{Index: i, Task: t})
		}
	}
	return out
}

// SortStable reorders the list by cmp; equal tasks keep their relative order.
func (l *List) SortStable(cmp func(a, b Task) int) {
	slices.SortStableFunc(l.tasks, cmp)
	l.revision++
}

// Revision increases with every mutation. Callers compare revisions to tell
// whether a command changed anything.
func (l *List) Revision() int {
	return l.revision
}
