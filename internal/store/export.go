package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/amirbrooks/jade/internal/task"
)

const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

type Record struct {
	Type        string `yaml:"type" json:"type"`
	Done        bool   `yaml:"done" json:"done"`
	Description string `yaml:"description" json:"description"`
	By          string `yaml:"by,omitempty" json:"by,omitempty"`
	From        string `yaml:"from,omitempty" json:"from,omitempty"`
	To          string `yaml:"to,omitempty" json:"to,omitempty"`
}

type Snapshot struct {
	Schema     int       `yaml:"schema" json:"schema"`
	ExportedAt time.Time `yaml:"exported_at" json:"exported_at"`
	Count      int       `yaml:"count" json:"count"`
	Tasks      []Record  `yaml:"tasks" json:"tasks"`
}

func recordOf(t task.Task) Record {
	r := Record{Done: t.IsDone(), Description: t.Description()}
	switch v := t.(type) {
	case *task.Todo:
		r.Type = "todo"
	case *task.Deadline:
		r.Type = "deadline"
		r.By = v.By.Raw
	case *task.Event:
		r.Type = "event"
		r.From = v.From.Raw
		r.To = v.To.Raw
	default:
		r.Type = string(t.Kind())
	}
	return r
}

func NewSnapshot(tasks []task.Task) Snapshot {
	s := Snapshot{Schema: 1, ExportedAt: timeNow(), Count: len(tasks), Tasks: make([]Record, 0, len(tasks))}
	for _, t := range tasks {
		s.Tasks = append(s.Tasks, recordOf(t))
	}
	return s
}

// Marshal encodes a snapshot of tasks as yaml or json.
func Marshal(tasks []task.Task, format string) ([]byte, error) {
	snap := NewSnapshot(tasks)
	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatYAML, "yml", "":
		return yaml.Marshal(&snap)
	case FormatJSON:
		b, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(b, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported export format %q", format)
	}
}

// WriteExport writes data to a new timestamped file in dir and returns its path.
func WriteExport(dir, base, ext string, data []byte) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", errors.New("export directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	ts := timeNow().Format("20060102-150405")
	name := fmt.Sprintf("%s-%s.%s", base, ts, ext)
	path := filepath.Join(dir, name)
	for i := 1; ; i++ {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			break
		}
		name = fmt.Sprintf("%s-%s-%d.%s", base, ts, i, ext)
		path = filepath.Join(dir, name)
	}
	if err := atomicWriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	return path, nil
}
