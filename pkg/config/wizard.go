package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// wizardAnswers holds the raw form values. Numbers are collected as text
// so the inputs can show the current value and validate it in place.
type wizardAnswers struct {
	Theme         string
	Separator     string
	Padding       string
	CompactWidth  string
	MouseOutDelay string
	Watch         bool
	ForcePoll     bool
	Preset        string
}

func answersFrom(cfg Config) wizardAnswers {
	return wizardAnswers{
		Theme:         cfg.UI.Theme,
		Separator:     cfg.UI.Separator,
		Padding:       strconv.Itoa(cfg.UI.Padding),
		CompactWidth:  strconv.Itoa(cfg.UI.CompactWidth),
		MouseOutDelay: strconv.Itoa(cfg.UI.MouseOutDelayMs),
		Watch:         cfg.WatchEnabled(),
		ForcePoll:     cfg.Watch.ForcePoll,
		Preset:        cfg.Export.Preset,
	}
}

// apply returns cfg with the answers written over it.
func (a wizardAnswers) apply(cfg Config) (Config, error) {
	padding, err := parseCells("padding", a.Padding, 0)
	if err != nil {
		return cfg, err
	}
	compact, err := parseCells("compact width", a.CompactWidth, 1)
	if err != nil {
		return cfg, err
	}
	delay, err := parseCells("mouse-out delay", a.MouseOutDelay, 0)
	if err != nil {
		return cfg, err
	}

	cfg.UI.Theme = a.Theme
	cfg.UI.Separator = a.Separator
	cfg.UI.Padding = padding
	cfg.UI.CompactWidth = compact
	cfg.UI.MouseOutDelayMs = delay
	watch := a.Watch
	cfg.Watch.Enabled = &watch
	cfg.Watch.ForcePoll = a.ForcePoll
	cfg.Export.Preset = a.Preset
	return cfg, cfg.Validate()
}

func parseCells(name, s string, min int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %q", name, s)
	}
	if n < min {
		return 0, fmt.Errorf("%s must be at least %d, got %d", name, min, n)
	}
	return n, nil
}

func isTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).WithTheme(huh.ThemeDracula())
	if !isTerminal() {
		form = form.WithAccessible(true)
	}
	return form
}

// RunWizard asks for every setting, starting from cfg, and returns the
// edited config. Nothing is written to disk.
func RunWizard(cfg Config) (Config, error) {
	a := answersFrom(cfg)
	validate := func(name string, min int) func(string) error {
		return func(s string) error {
			_, err := parseCells(name, s, min)
			return err
		}
	}

	form := newForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Theme").
				Options(
					huh.NewOption("Follow the terminal", "auto"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(&a.Theme),
			huh.NewInput().
				Title("Separator").
				Description("Drawn between visible crumbs").
				Value(&a.Separator),
			huh.NewInput().
				Title("Right padding (cells)").
				Value(&a.Padding).
				Validate(validate("padding", 0)),
			huh.NewInput().
				Title("Compact label width (cells)").
				Value(&a.CompactWidth).
				Validate(validate("compact width", 1)),
			huh.NewInput().
				Title("Refit delay after the pointer leaves the bar (ms)").
				Value(&a.MouseOutDelay).
				Validate(validate("mouse-out delay", 0)),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reload when the source changes?").
				Value(&a.Watch),
			huh.NewConfirm().
				Title("Always poll instead of using file events?").
				Description("Useful on network filesystems").
				Value(&a.ForcePoll),
			huh.NewSelect[string]().
				Title("Snapshot preset").
				Options(
					huh.NewOption("Compact", "compact"),
					huh.NewOption("Roomy", "roomy"),
				).
				Value(&a.Preset),
		),
	)

	if err := form.Run(); err != nil {
		return cfg, err
	}
	return a.apply(cfg)
}
