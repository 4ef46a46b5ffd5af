package store

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/amirbrooks/jade/internal/task"
)

type randReader struct{}

func (randReader) Read(p []byte) (int, error) { return rand.Read(p) }

var timeNow = func() time.Time { return time.Now().UTC() }

// LineError describes one persisted line that could not be decoded.
type LineError struct {
	Line int
	Text string
	Err  error
}

// CorruptError reports lines skipped by LoadAll. Backup is where the
// original file is copied before the next SaveAll overwrites it.
// It satisfies errors.Is(err, task.ErrCorruptData).
type CorruptError struct {
	Path   string
	Backup string
	Lines  []LineError
}

func (e *CorruptError) Error() string {
	if e == nil || len(e.Lines) == 0 {
		return "corrupt data"
	}
	return fmt.Sprintf("corrupt data: %d unreadable line(s) in %s", len(e.Lines), e.Path)
}

func (e *CorruptError) Is(target error) bool {
	return target == task.ErrCorruptData
}

// File persists tasks as one encoded line per task.
type File struct {
	Path string

	// original bytes of a file with unreadable lines, written to backup
	// by the next SaveAll
	pending []byte
	backup  string
}

func Open(path string) *File {
	return &File{Path: path}
}

// LoadAll reads every task from the file. A missing file is an empty list.
// Corrupt lines are skipped: the decoded tasks are returned together with a
// *CorruptError, and the caller decides whether that is fatal.
func (f *File) LoadAll() ([]task.Task, error) {
	b, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []task.Task{}, nil
		}
		return nil, err
	}

	var (
		tasks []task.Task
		bad   []LineError
	)
	sc := bufio.NewScanner(bytes.NewReader(b))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	n := 0
	for sc.Scan() {
		n++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		t, err := task.Decode(line)
		if err != nil {
			bad = append(bad, LineError{Line: n, Text: line, Err: err})
			continue
		}
		tasks = append(tasks, t)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []task.Task{}
	}
	if len(bad) == 0 {
		f.pending, f.backup = nil, ""
		return tasks, nil
	}

	if f.pending == nil || !bytes.Equal(f.pending, b) {
		f.pending = b
		f.backup = fmt.Sprintf("%s.corrupt-%s", f.Path, newULID())
	}
	return tasks, &CorruptError{Path: f.Path, Backup: f.backup, Lines: bad}
}

// SaveAll replaces the file with the encoded tasks. If the last load skipped
// unreadable lines, the original file is copied aside first.
func (f *File) SaveAll(tasks []task.Task) error {
	if f.pending != nil {
		if err := atomicWriteFile(f.backup, f.pending, 0o644); err != nil {
			return fmt.Errorf("backup corrupt file: %w", err)
		}
		f.pending, f.backup = nil, ""
	}
	var buf bytes.Buffer
	for _, t := range tasks {
		buf.WriteString(task.Encode(t))
		buf.WriteByte('\n')
	}
	return atomicWriteFile(f.Path, buf.Bytes(), 0o644)
}

func newULID() string {
	t := ulid.Timestamp(timeNow())
	entropy := ulid.Monotonic(randReader{}, 0)
	id, err := ulid.New(t, entropy)
	if err != nil {
		// fallback
		return fmt.Sprintf("%d", timeNow().UnixNano())
	}
	return strings.ToUpper(id.String())
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, ".tmp-"+newULID())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
