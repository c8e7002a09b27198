package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/pprof"
	"strconv"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/config"
	"github.com/vanderheijden86/crumbbar/pkg/export"
	"github.com/vanderheijden86/crumbbar/pkg/tree"
	"github.com/vanderheijden86/crumbbar/pkg/ui"
	"github.com/vanderheijden86/crumbbar/pkg/version"
	"github.com/vanderheijden86/crumbbar/pkg/watcher"
)

const defaultWidth = 80

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes cb with args and returns the process exit status. Every path
// returns through here so deferred cleanup, such as stopping the CPU
// profile, runs before the process exits.
func run(args []string, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("cb", flag.ContinueOnError)
	flags.SetOutput(stderr)
	cpuProfile := flags.String("cpu-profile", "", "Write CPU profile to file")
	help := flags.Bool("help", false, "Show help")
	versionFlag := flags.Bool("version", false, "Show version")
	configPath := flags.String("config", "", "Config file (default ~/.config/cb/config.yaml)")
	selectPath := flags.String("select", "", "Path of the node to select, relative to the opened source")
	rootPath := flags.String("root", "", "Path of the scope root, relative to the opened source")
	width := flags.Int("width", 0, "Container width in cells for --robot-fit and --export-snapshot (default: terminal width)")
	robotFit := flags.Bool("robot-fit", false, "Fit the trail of every given source and print JSON")
	exportSnapshot := flags.String("export-snapshot", "", "Write the fitted trail as SVG or PNG and exit")
	preset := flags.String("preset", "", "Snapshot preset: compact or roomy")
	noWatch := flags.Bool("no-watch", false, "Disable live reload")
	initConfig := flags.Bool("init-config", false, "Edit the config file interactively and exit")
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			fmt.Fprintf(stderr, "Could not create CPU profile: %v\n", err)
			return 1
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			fmt.Fprintf(stderr, "Could not start CPU profile: %v\n", err)
			return 1
		}
		defer pprof.StopCPUProfile()
	}

	if *help {
		fmt.Fprintln(stdout, "Usage: cb [options] [path...]")
		fmt.Fprintln(stdout, "\nBrowse a directory, YAML or JSON document through a self-fitting breadcrumb bar.")
		flags.SetOutput(stdout)
		flags.PrintDefaults()
		return 0
	}

	if *versionFlag {
		fmt.Fprintf(stdout, "cb %s\n", version.Version)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error loading config: %v\n", err)
		return 1
	}

	if *initConfig {
		path := *configPath
		if path == "" {
			path = config.ConfigPath()
		}
		if path == "" {
			fmt.Fprintln(stderr, "Error: no config directory; pass --config")
			return 1
		}
		edited, err := config.RunWizard(cfg)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		if err := config.SaveTo(edited, path); err != nil {
			fmt.Fprintf(stderr, "Error saving config: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Config written to %s\n", path)
		return 0
	}

	if *preset != "" {
		cfg.Export.Preset = *preset
	}

	sources := flags.Args()
	if len(sources) == 0 {
		sources = []string{"."}
	}

	fitWidth := *width
	if fitWidth <= 0 {
		fitWidth = terminalWidth()
	}

	if *robotFit {
		out := fitSources(sources, fitRequest{Select: *selectPath, Root: *rootPath, Width: fitWidth, Config: cfg})
		if err := export.WriteRobotJSON(stdout, out); err != nil {
			fmt.Fprintf(stderr, "Error writing JSON: %v\n", err)
			return 1
		}
		for _, f := range out.Trails {
			if f.Error != "" {
				return 1
			}
		}
		return 0
	}

	selected, root, err := openTarget(sources[0], *selectPath, *rootPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	if *exportSnapshot != "" {
		if err := exportTrail(*exportSnapshot, selected, root, fitWidth, cfg); err != nil {
			fmt.Fprintf(stderr, "Error exporting snapshot: %v\n", err)
			return 1
		}
		fmt.Fprintf(stdout, "Snapshot written to %s\n", *exportSnapshot)
		return 0
	}

	var w *watcher.Watcher
	if cfg.WatchEnabled() && !*noWatch {
		w, err = watcher.NewWatcher(sources[0],
			watcher.WithDebounceDuration(cfg.WatchDebounce()),
			watcher.WithForcePoll(cfg.Watch.ForcePoll),
		)
		if err == nil {
			err = w.Start()
		}
		if err != nil {
			// Non-fatal: run without live reload
			fmt.Fprintf(stderr, "Warning: live reload disabled: %v\n", err)
			w = nil
		} else {
			defer w.Stop()
		}
	}

	theme := ui.ThemeFor(os.Stdout, cfg.UI.Theme)
	m := ui.NewModel(selected, ui.Options{
		Bar: ui.BarOptions{
			Padding:      cfg.UI.Padding,
			Separator:    cfg.UI.Separator,
			CompactWidth: cfg.UI.CompactWidth,
		},
		MouseOutDelay: cfg.MouseOutDelay(),
		Theme:         &theme,
		Watcher:       w,
		Root:          root,
	})

	if err := runTUIProgram(m); err != nil {
		fmt.Fprintf(stderr, "Error running crumb bar: %v\n", err)
		return 1
	}
	return 0
}

func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	cfg, err := config.Load()
	if err != nil {
		// Non-fatal: continue with defaults
		return config.DefaultConfig(), nil
	}
	return cfg, nil
}

// openTarget loads source and resolves the selected node and optional scope
// root inside it.
func openTarget(source, selectPath, rootPath string) (selected, root tree.Node, err error) {
	top, err := tree.Load(source)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", source, err)
	}
	selected, err = tree.Find(top, selectPath)
	if err != nil {
		return nil, nil, fmt.Errorf("select: %w", err)
	}
	if rootPath != "" {
		root, err = tree.Find(top, rootPath)
		if err != nil {
			return nil, nil, fmt.Errorf("root: %w", err)
		}
	}
	return selected, root, nil
}

// fitTrail builds and fits the trail for selected with plain text widths:
// each chip is its label plus one cell of padding on either side.
func fitTrail(selected, root tree.Node, width int, cfg config.Config) (*breadcrumb.Trail, breadcrumb.Result, int) {
	var scope breadcrumb.Node
	if root != nil {
		scope = root
	}
	t := breadcrumb.Build(selected, scope, nil)
	breadcrumb.MeasureCells(t, cfg.UI.CompactWidth, 2)
	m := breadcrumb.TierMeasurer{Separator: runewidth.StringWidth(cfg.UI.Separator)}
	c := breadcrumb.NewCompactor(m, breadcrumb.WithPadding(cfg.UI.Padding))
	res := c.Fit(t, width)
	return t, res, m.Width(t)
}

func exportTrail(path string, selected, root tree.Node, width int, cfg config.Config) error {
	t, res, _ := fitTrail(selected, root, width, cfg)
	return export.SaveSnapshot(export.SnapshotOptions{
		Path:         path,
		Preset:       cfg.Export.Preset,
		Trail:        t,
		Result:       res,
		Width:        width,
		CompactWidth: cfg.UI.CompactWidth,
		Separator:    cfg.UI.Separator,
	})
}

func terminalWidth() int {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return defaultWidth
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return defaultWidth
	}
	return w
}

func runTUIProgram(m ui.Model) error {
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
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

	// Optional auto-quit for automated tests: set CB_TUI_AUTOCLOSE_MS.
	if v := os.Getenv("CB_TUI_AUTOCLOSE_MS"); v != "" {
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

				select {
				case <-runDone:
					return
				case <-time.After(2 * time.Second):
				}

				p.Kill()
			}()
		}
	}

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, tea.ErrInterrupted) {
		return nil
	}
	return err
}
