package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/log"

	"github.com/amirbrooks/jade/internal/assistant"
	"github.com/amirbrooks/jade/internal/command"
	"github.com/amirbrooks/jade/internal/config"
	"github.com/amirbrooks/jade/internal/logging"
	"github.com/amirbrooks/jade/internal/store"
	"github.com/amirbrooks/jade/internal/task"
	"github.com/amirbrooks/jade/internal/ui"
)

// Exit codes
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitNotFound = 3
	ExitInternal = 10
)

type GlobalFlags struct {
	Root      string
	DataFile  string
	LogLevel  string
	LogFormat string
	UI        string
	Quiet     bool
	Verbose   bool
}

type streams struct {
	in  io.Reader
	out io.Writer
	err io.Writer
}

func reorderFlags(args []string, takesValue map[string]bool) []string {
	if len(args) == 0 {
		return args
	}
	var flags []string
	var rest []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		if a == "--" {
			if i+1 < len(args) {
				rest = append(rest, args[i+1:]...)
			}
			break
		}
		if strings.HasPrefix(a, "-") {
			flags = append(flags, a)
			if takesValue[a] && !strings.Contains(a, "=") {
				if i+1 < len(args) {
					flags = append(flags, args[i+1])
					i++
				}
			}
			continue
		}
		rest = append(rest, a)
	}
	return append(flags, rest...)
}

func Run(args []string) int {
	return run(args, streams{in: os.Stdin, out: os.Stdout, err: os.Stderr})
}

func run(args []string, s streams) int {
	gf, rest, err := extractGlobalFlags(args)
	if err != nil {
		fmt.Fprintln(s.err, err.Error())
		return ExitUsage
	}

	cmd := ""
	var cmdArgs []string
	if len(rest) > 0 {
		cmd = rest[0]
		cmdArgs = rest[1:]
	}

	switch cmd {
	case "help", "--help", "-h":
		printHelp(s.out)
		return ExitOK
	}

	cfg, err := config.Load(config.Overrides{
		Root:      gf.Root,
		DataFile:  gf.DataFile,
		LogLevel:  gf.LogLevel,
		LogFormat: gf.LogFormat,
		UI:        gf.UI,
	})
	if err != nil {
		fmt.Fprintln(s.err, "jade:", err)
		return ExitUsage
	}
	logger := logging.New(s.err, logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	switch cmd {
	case "":
		return cmdInteractive(cfg, logger, s, cfg.UI)
	case "console":
		return cmdInteractive(cfg, logger, s, config.UIConsole)
	case "chat":
		return cmdInteractive(cfg, logger, s, config.UIChat)
	case "do":
		return cmdDo(cfg, logger, s, cmdArgs)
	case "export":
		return cmdExport(cfg, gf, logger, s, cmdArgs)
	case "config", "cfg":
		return cmdConfig(cfg, s, cmdArgs)
	default:
		fmt.Fprintf(s.err, "Unknown command: %s\n\n", cmd)
		printHelp(s.err)
		return ExitUsage
	}
}

func printHelp(w io.Writer) {
	fmt.Fprint(w, `jade - personal task-tracking assistant

Usage:
  jade [global flags] [command] [args]

Global flags:
  --root <path>        Store root (default: ~/.jade or JADE_ROOT)
  --data <path>        Task file (default: <root>/data/jade.txt or JADE_DATA_FILE)
  --log-level <lvl>    debug|info|warn|error (default: warn or JADE_LOG_LEVEL)
  --log-format <fmt>   text|json|logfmt
  --ui <name>          console|chat, used when no command is given
  --quiet
  --verbose            Same as --log-level debug

Commands:
  console              Interactive text console (default)
  chat                 Chat-style terminal front end
  do <command line>    Run one command, eg. jade do todo read book
  export [--format yaml|json] [--stdout]
  config show [--plain|--json]

Assistant commands:
  todo <desc>
  deadline <desc> /by <yyyy-MM-dd HHmm>
  event <desc> /from <yyyy-MM-dd HHmm> /to <yyyy-MM-dd HHmm>
  list | mark <n> | unmark <n> | delete <n> | find <text> | sort [time|name|done] | bye
`)
}

func extractGlobalFlags(args []string) (GlobalFlags, []string, error) {
	// Allow flags anywhere by scanning and stripping known globals.
	gf := GlobalFlags{}
	out := make([]string, 0, len(args))
	skip := 0

	value := func(i int, name string) (string, error) {
		if i+1 >= len(args) {
			return "", fmt.Errorf("%s requires a value", name)
		}
		return args[i+1], nil
	}

	for i := 0; i < len(args); i++ {
		if skip > 0 {
			skip--
			continue
		}
		a := args[i]
		var err error
		switch a {
		case "--root":
			gf.Root, err = value(i, a)
			skip = 1
		case "--data":
			gf.DataFile, err = value(i, a)
			skip = 1
		case "--log-level":
			gf.LogLevel, err = value(i, a)
			skip = 1
		case "--log-format":
			gf.LogFormat, err = value(i, a)
			skip = 1
		case "--ui":
			gf.UI, err = value(i, a)
			skip = 1
		case "--quiet":
			gf.Quiet = true
		case "--verbose":
			gf.Verbose = true
		default:
			out = append(out, a)
		}
		if err != nil {
			return gf, nil, err
		}
	}
	if gf.Verbose && gf.LogLevel == "" {
		gf.LogLevel = "debug"
	}
	return gf, out, nil
}

func openAssistant(cfg *config.Config, logger *log.Logger) (*assistant.Assistant, error) {
	return assistant.New(store.Open(cfg.DataFile), logger.With("file", cfg.DataFile))
}

func cmdInteractive(cfg *config.Config, logger *log.Logger, s streams, mode string) int {
	a, err := openAssistant(cfg, logger)
	if err != nil {
		fmt.Fprintln(s.err, "jade:", err)
		return ExitInternal
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if mode == config.UIChat {
		err = ui.RunChat(ctx, a)
	} else {
		err = ui.RunConsole(ctx, a, s.in, s.out)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(s.err, "jade:", err)
		return ExitInternal
	}
	return ExitOK
}

func cmdDo(cfg *config.Config, logger *log.Logger, s streams, args []string) int {
	line := strings.TrimSpace(strings.Join(args, " "))
	if line == "" {
		fmt.Fprintln(s.err, "Usage: jade do <command line>")
		return ExitUsage
	}
	a, err := openAssistant(cfg, logger)
	if err != nil {
		fmt.Fprintln(s.err, "jade:", err)
		return ExitInternal
	}
	resp := a.Respond(line)
	if resp.Err != nil {
		fmt.Fprintln(s.err, resp.Text)
		return exitCodeFor(resp.Err)
	}
	fmt.Fprintln(s.out, resp.Text)
	if resp.SaveErr != nil {
		return ExitInternal
	}
	return ExitOK
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, task.ErrIndex):
		return ExitNotFound
	case errors.Is(err, command.ErrUnrecognizedCommand),
		errors.Is(err, command.ErrFormat),
		errors.Is(err, command.ErrEmptyTask),
		errors.Is(err, task.ErrTimeFormat):
		return ExitUsage
	default:
		return ExitInternal
	}
}

func cmdExport(cfg *config.Config, gf GlobalFlags, logger *log.Logger, s streams, args []string) int {
	args = reorderFlags(args, map[string]bool{
		"--format": true,
		"--stdout": false,
	})
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(s.err)
	format := fs.String("format", store.FormatYAML, "Export format (yaml|json)")
	toStdout := fs.Bool("stdout", false, "Write to stdout instead of the export dir")
	if err := fs.Parse(args); err != nil {
		return ExitUsage
	}

	a, err := openAssistant(cfg, logger)
	if err != nil {
		fmt.Fprintln(s.err, "export:", err)
		return ExitInternal
	}
	data, err := store.Marshal(a.Tasks(), *format)
	if err != nil {
		fmt.Fprintln(s.err, "export:", err)
		return ExitUsage
	}
	if *toStdout {
		_, _ = s.out.Write(data)
		return ExitOK
	}
	ext := strings.ToLower(strings.TrimSpace(*format))
	if ext == "yml" {
		ext = store.FormatYAML
	}
	path, err := store.WriteExport(cfg.ExportDir, "tasks", ext, data)
	if err != nil {
		fmt.Fprintln(s.err, "export:", err)
		return ExitInternal
	}
	if !gf.Quiet {
		fmt.Fprintln(s.out, "Wrote export to:", path)
	}
	return ExitOK
}

func cmdConfig(cfg *config.Config, s streams, args []string) int {
	if len(args) == 0 || args[0] != "show" {
		fmt.Fprintln(s.err, "Usage: jade config show [--plain|--json]")
		return ExitUsage
	}
	fs := flag.NewFlagSet("config show", flag.ContinueOnError)
	fs.SetOutput(s.err)
	plain := fs.Bool("plain", false, "TSV output")
	asJSON := fs.Bool("json", false, "JSON output")
	if err := fs.Parse(args[1:]); err != nil {
		return ExitUsage
	}

	_, err := os.Stat(cfg.Path())
	exists := err == nil

	if *asJSON {
		payload := map[string]any{
			"root":        cfg.Root,
			"config_path": cfg.Path(),
			"exists":      exists,
			"config":      cfg,
		}
		enc := json.NewEncoder(s.out)
		enc.SetIndent("", "  ")
		_ = enc.Encode(payload)
		return ExitOK
	}

	if *plain {
		w := tabwriter.NewWriter(s.out, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "KEY\tVALUE")
		fmt.Fprintf(w, "root\t%s\n", cfg.Root)
		fmt.Fprintf(w, "config_path\t%s\n", cfg.Path())
		fmt.Fprintf(w, "exists\t%t\n", exists)
		fmt.Fprintf(w, "data_file\t%s\n", cfg.DataFile)
		fmt.Fprintf(w, "export_dir\t%s\n", cfg.ExportDir)
		fmt.Fprintf(w, "log_level\t%s\n", cfg.LogLevel)
		fmt.Fprintf(w, "log_format\t%s\n", cfg.LogFormat)
		fmt.Fprintf(w, "ui\t%s\n", cfg.UI)
		_ = w.Flush()
		return ExitOK
	}

	fmt.Fprintf(s.out, "Root: %s\n", cfg.Root)
	fmt.Fprintf(s.out, "Config: %s", cfg.Path())
	if !exists {
		fmt.Fprint(s.out, " (not found, using defaults)")
	}
	fmt.Fprintln(s.out)
	fmt.Fprintf(s.out, "Data file: %s\n", cfg.DataFile)
	fmt.Fprintf(s.out, "Export dir: %s\n", cfg.ExportDir)
	fmt.Fprintf(s.out, "Log: %s (%s)\n", cfg.LogLevel, cfg.LogFormat)
	fmt.Fprintf(s.out, "UI: %s\n", cfg.UI)
	return ExitOK
}
