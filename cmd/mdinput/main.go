// Package main is the entry point for the mdinput editor.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/dshills/mdinput/internal/app"
	"github.com/dshills/mdinput/internal/config"
	"github.com/dshills/mdinput/internal/config/loader"
	"github.com/dshills/mdinput/internal/engine/markdown"
	"github.com/dshills/mdinput/internal/plugin/lua"
	"github.com/dshills/mdinput/internal/renderer"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const defaultWidth = 80

type options struct {
	config      config.Options
	width       int
	sourceMap   bool
	showVersion bool
	command     string
	args        []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Fprintf(stdout, "mdinput %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch opts.command {
	case "edit":
		err = edit(ctx, opts)
	case "render":
		err = render(ctx, opts, stdin, stdout)
	default:
		err = fmt.Errorf("unknown command %q", opts.command)
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var (
		opts     options
		logLevel string
		logFile  string
		debounce int
	)

	fs := pflag.NewFlagSet("mdinput", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVarP(&opts.config.Path, "config", "c", config.DefaultPath(), "Path to configuration file (.toml or .yaml)")
	fs.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&logFile, "log-file", "", "Write logs to this file")
	fs.IntVar(&debounce, "debounce", 0, "Undo debounce window in milliseconds")
	fs.IntVarP(&opts.width, "width", "w", 0, "Wrap width for render (default: terminal width or 80)")
	fs.BoolVar(&opts.sourceMap, "source-map", false, "Print the source map instead of the rendered text")
	fs.BoolVarP(&opts.showVersion, "version", "v", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "mdinput - markdown-aware rich text input\n\n")
		fmt.Fprintf(stderr, "Usage: mdinput [options] [edit | render [file]]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  mdinput                      Open the editor\n")
		fmt.Fprintf(stderr, "  mdinput --debounce 500       Open with a longer undo window\n")
		fmt.Fprintf(stderr, "  mdinput render notes.md      Print notes.md with styles applied\n")
		fmt.Fprintf(stderr, "  echo '*hi*' | mdinput render --source-map\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.config.EnvPrefix = loader.DefaultEnvPrefix
	opts.config.Overrides = map[string]any{}
	if fs.Changed("log-level") {
		opts.config.Overrides["logging.level"] = logLevel
	}
	if fs.Changed("log-file") {
		opts.config.Overrides["logging.file"] = logFile
	}
	if fs.Changed("debounce") {
		opts.config.Overrides["history.debounceMs"] = int64(debounce)
	}

	rest := fs.Args()
	opts.command = "edit"
	if len(rest) > 0 {
		opts.command, opts.args = rest[0], rest[1:]
	}
	if opts.command == "edit" && len(opts.args) > 0 {
		return opts, fmt.Errorf("edit takes no arguments")
	}
	if opts.command == "render" && len(opts.args) > 1 {
		return opts, fmt.Errorf("render takes at most one file")
	}
	return opts, nil
}

func edit(ctx context.Context, opts options) error {
	application, err := app.New(ctx, app.Options{Config: opts.config})
	if err != nil {
		return err
	}
	defer application.Close()

	return application.Run(ctx)
}

// render parses markdown from a file or stdin and prints it styled for
// a terminal, or plain when stdout is not one.
func render(ctx context.Context, opts options, stdin io.Reader, stdout io.Writer) error {
	cfg, err := config.Load(opts.config)
	if err != nil {
		return err
	}
	reg, err := lua.BuildRegistry(ctx, cfg.Plugins.Styles)
	if err != nil {
		return err
	}

	src, err := readSource(opts.args, stdin)
	if err != nil {
		return err
	}
	doc := markdown.Parse(reg, strings.TrimSuffix(src, "\n"))

	if opts.sourceMap {
		for _, e := range markdown.NewSourceMap(doc).Entries() {
			name := e.Style
			if name == "" {
				name = "-"
			}
			fmt.Fprintf(stdout, "%d-%d\t%d-%d\t%d\t%s\n",
				e.RenderedStart, e.RenderedEnd, e.SourceStart, e.SourceEnd, e.PrefixLen, name)
		}
		return nil
	}

	width, tty := outputWidth(stdout, opts.width)
	if tty {
		_, err = fmt.Fprintln(stdout, renderer.ANSI(doc, renderer.NewTheme(reg), width))
	} else {
		_, err = fmt.Fprintln(stdout, renderer.Text(doc, width))
	}
	return err
}

func readSource(args []string, stdin io.Reader) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

// outputWidth reports the wrap width and whether w is a terminal.
func outputWidth(w io.Writer, flagWidth int) (int, bool) {
	f, ok := w.(*os.File)
	tty := ok && term.IsTerminal(int(f.Fd()))

	if flagWidth > 0 {
		return flagWidth, tty
	}
	if tty {
		if cols, _, err := term.GetSize(int(f.Fd())); err == nil && cols > 0 {
			return cols, true
		}
	}
	return defaultWidth, tty
}
