package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vanderheijden86/faqview/internal/datasource"
	"github.com/vanderheijden86/faqview/pkg/accordion"
	"github.com/vanderheijden86/faqview/pkg/config"
	"github.com/vanderheijden86/faqview/pkg/debug"
	"github.com/vanderheijden86/faqview/pkg/export"
	"github.com/vanderheijden86/faqview/pkg/hooks"
	"github.com/vanderheijden86/faqview/pkg/metrics"
	"github.com/vanderheijden86/faqview/pkg/surface"
	_ "github.com/vanderheijden86/faqview/pkg/ttyguard"
	"github.com/vanderheijden86/faqview/pkg/ui"
	"github.com/vanderheijden86/faqview/pkg/version"
	"github.com/vanderheijden86/faqview/pkg/watcher"
)

// sourceList collects repeated -source flags.
type sourceList []string

func (s *sourceList) String() string { return strings.Join(*s, ",") }

func (s *sourceList) Set(v string) error {
	v = strings.TrimSpace(v)
	if v == "" {
		return errors.New("empty source")
	}
	*s = append(*s, v)
	return nil
}

type options struct {
	sources    sourceList
	configPath string
	exportPath string
	open       int
	toggle     bool
	noWatch    bool
	noHooks    bool
	cpuProfile string
	help       bool
	version    bool
}

func parseFlags(args []string, stderr io.Writer) (options, *flag.FlagSet, error) {
	var opts options
	fs := flag.NewFlagSet("faqview", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Var(&opts.sources, "source", "Content source: .json, .jsonl, .yaml, .db file or http(s) URL (repeatable; overrides config)")
	fs.StringVar(&opts.configPath, "config", "", "Config file (default "+config.ConfigPath()+")")
	fs.StringVar(&opts.exportPath, "export", "", "Write an SVG or PNG snapshot to this path and exit")
	fs.IntVar(&opts.open, "open", 0, "With -export: open question N (1-based) before the snapshot")
	fs.BoolVar(&opts.toggle, "toggle", false, "Clicking the open question closes it")
	fs.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload when content files change")
	fs.BoolVar(&opts.noHooks, "no-hooks", false, "With -export: skip hooks from "+hooks.ConfigFile)
	fs.StringVar(&opts.cpuProfile, "cpu-profile", "", "Write CPU profile to file")
	fs.BoolVar(&opts.help, "help", false, "Show help")
	fs.BoolVar(&opts.version, "version", false, "Show version")
	if err := fs.Parse(args); err != nil {
		return opts, fs, err
	}
	if fs.NArg() > 0 {
		return opts, fs, fmt.Errorf("unexpected argument %q", fs.Arg(0))
	}
	if opts.open < 0 {
		return opts, fs, fmt.Errorf("-open must be 1 or more, got %d", opts.open)
	}
	if opts.open > 0 && opts.exportPath == "" {
		return opts, fs, errors.New("-open only applies with -export")
	}
	if opts.noHooks && opts.exportPath == "" {
		return opts, fs, errors.New("-no-hooks only applies with -export")
	}
	return opts, fs, nil
}

// resolveConfig loads the config file and applies flag overrides.
func resolveConfig(opts options) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.LoadFrom(config.ExpandHome(opts.configPath))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return cfg, err
	}
	if len(opts.sources) > 0 {
		cfg.Sources = nil
		for _, s := range opts.sources {
			cfg.Sources = append(cfg.Sources, config.ExpandHome(s))
		}
	}
	if opts.toggle {
		cfg.UI.ToggleOnReclick = true
	}
	if opts.noWatch {
		off := false
		cfg.Watch = &off
	}
	return cfg, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "init" {
		if err := runInit(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	// CPU profiling support
	if opts.cpuProfile != "" {
		f, err := os.Create(opts.cpuProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Could not create CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(os.Stderr, "Could not start CPU profile: %v\n", err)
			os.Exit(1)
		}
		defer pprof.StopCPUProfile()
	}

	if opts.help {
		fmt.Println("Usage: faqview [options]")
		fmt.Println("       faqview init [path]")
		fmt.Println("\nA terminal viewer for frequently asked questions.")
		fs.PrintDefaults()
		os.Exit(0)
	}

	if opts.version {
		fmt.Println(version.String())
		os.Exit(0)
	}

	cfg, err := resolveConfig(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if len(cfg.Sources) == 0 {
		fmt.Fprintln(os.Stderr, "No content sources configured.")
		fmt.Fprintln(os.Stderr, "Pass -source <file or URL>, or create a file with 'faqview init'.")
		os.Exit(1)
	}

	src, err := datasource.OpenAll(cfg.Sources)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if opts.exportPath != "" {
		ctx, cancel := context.WithTimeout(context.Background(), ui.DefaultLoadTimeout)
		defer cancel()
		cwd, _ := os.Getwd()
		written, err := exportSnapshot(ctx, src, exportRequest{
			Path:     opts.exportPath,
			Open:     opts.open,
			Toggle:   cfg.UI.ToggleOnReclick,
			HooksDir: cwd,
			NoHooks:  opts.noHooks,
			Log:      os.Stderr,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Export failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", written)
		return
	}

	modelOpts := []ui.Option{
		ui.WithToggle(cfg.UI.ToggleOnReclick),
		ui.WithGlyphs(ui.Glyphs{Collapsed: cfg.UI.Glyphs.Collapsed, Expanded: cfg.UI.Glyphs.Expanded}),
		ui.WithMaxWidth(cfg.UI.MaxWidth),
		ui.WithMarkdown(cfg.UI.Markdown, ""),
	}

	if paths := datasource.LocalPaths(src); cfg.WatchEnabled() && len(paths) > 0 {
		w, err := watcher.NewWatcher(paths)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			// Non-fatal: run without live reload
			debug.Log("watcher disabled: %v", err)
		} else {
			defer w.Stop()
			modelOpts = append(modelOpts, ui.WithWatcher(w))
		}
	}

	m := ui.NewModel(src, modelOpts...)
	err = runTUIProgram(m)
	if s := metrics.Summary(); s != "" {
		debug.Log("metrics: %s", s)
	}
	if err != nil {
		fmt.Printf("Error running faqview: %v\n", err)
		os.Exit(1)
	}
}

type exportRequest struct {
	Path     string
	Open     int // 1-based; 0 leaves every question closed
	Toggle   bool
	HooksDir string    // project dir holding .faqview/hooks.yaml
	NoHooks  bool
	Log      io.Writer // hook summary; nil discards
}

// exportSnapshot loads src, opens the requested question and writes a
// snapshot, running export hooks around the write. It returns the path
// actually written.
func exportSnapshot(ctx context.Context, src datasource.Source, req exportRequest) (string, error) {
	questions, err := src.FetchQuestions(ctx)
	if err != nil {
		return "", err
	}

	doc := surface.NewDocument()
	c := accordion.NewController(doc, accordion.WithToggle(req.Toggle))
	if err := c.Load(datasource.ToItems(questions)); err != nil {
		return "", err
	}
	if req.Open > 0 {
		if _, err := c.Dispatch(accordion.Click(req.Open - 1)); err != nil {
			return "", fmt.Errorf("open question %d: %w", req.Open, err)
		}
	}

	snap, err := export.Resolve(export.SnapshotOptions{Path: req.Path})
	if err != nil {
		return "", err
	}

	var executor *hooks.Executor
	if req.HooksDir != "" {
		executor, err = hooks.RunHooks(req.HooksDir, hooks.ExportContext{
			ExportPath:    snap.Path,
			ExportFormat:  snap.Format,
			QuestionCount: len(questions),
			OpenQuestion:  req.Open,
			Timestamp:     time.Now(),
		}, req.NoHooks)
		if err != nil {
			return "", fmt.Errorf("load hooks: %w", err)
		}
	}
	if executor != nil {
		log := req.Log
		if log == nil {
			log = io.Discard
		}
		defer func() {
			if s := executor.Summary(); s != "" {
				fmt.Fprintln(log, s)
			}
		}()
		if err := executor.RunPreExport(); err != nil {
			return "", err
		}
	}

	if err := export.Snapshot(doc, snap); err != nil {
		return "", err
	}

	if executor != nil {
		if err := executor.RunPostExport(); err != nil {
			return snap.Path, err
		}
	}
	return snap.Path, nil
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithoutSignalHandler(),
	)

	runDone := make(chan struct{})
	defer close(runDone)

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-runDone:
			return
		case <-sigCh:
		}

		p.Quit()

		select {
		case <-runDone:
			return
		case <-sigCh:
		case <-time.After(5 * time.Second):
		}

		p.Kill()
	}()

	// Optional auto-quit for automated tests: set FAQVIEW_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("FAQVIEW_TUI_AUTOCLOSE_MS"); v != "" {
		if ms, err := strconv.Atoi(v); err == nil && ms > 0 {
			go func() {
				timer := time.NewTimer(time.Duration(ms) * time.Millisecond)
				defer timer.Stop()

				select {
				case <-runDone:
					return
				case <-timer.C:
				}

				p.Quit()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
