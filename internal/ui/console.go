// Package ui provides the front ends that feed input lines to the assistant.
package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/amirbrooks/jade/internal/assistant"
)

// Responder is the part of the assistant a front end needs.
type Responder interface {
	Greeting() string
	Respond(line string) assistant.Response
}

const (
	Indent = "    "
	rule   = Indent + "____________________________________________________________"
)

// FormatTextMessage frames a response between horizontal rules and indents
// every line.
func FormatTextMessage(msg string) string {
	var b strings.Builder
	b.WriteString(rule)
	b.WriteByte('\n')
	for _, line := range strings.Split(msg, "\n") {
		b.WriteString(Indent)
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(rule)
	b.WriteByte('\n')
	return b.String()
}

// RunConsole reads commands from in until "bye", end of input, or ctx is
// cancelled, printing each response to out. Input is scanned on its own
// goroutine so cancellation does not wait for the next line.
func RunConsole(ctx context.Context, r Responder, in io.Reader, out io.Writer) error {
	if _, err := io.WriteString(out, FormatTextMessage(r.Greeting())); err != nil {
		return err
	}

	lines := make(chan string)
	scanErr := make(chan error, 1)
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-stop:
				return
			}
		}
		scanErr <- sc.Err()
	}()

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var (
			line string
			ok   bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			if err := <-scanErr; err != nil {
				return fmt.Errorf("read input: %w", err)
			}
			return nil
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		resp := r.Respond(line)
		if _, err := io.WriteString(out, FormatTextMessage(resp.Text)); err != nil {
			return err
		}
		if resp.Exit {
			return nil
		}
	}
}
