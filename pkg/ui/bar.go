package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/debug"
	"github.com/vanderheijden86/crumbbar/pkg/metrics"
)

// BarOptions configures a Bar.
type BarOptions struct {
	Padding      int
	Separator    string
	CompactWidth int
}

// span is the cell range a visible crumb occupies in the rendered bar.
type span struct {
	start, end int // end is exclusive
	index      int
}

// Bar draws a trail on one line and keeps it fitted to the available width.
type Bar struct {
	theme        Theme
	compactor    *breadcrumb.Compactor
	separator    string
	compactWidth int

	trail   *breadcrumb.Trail
	width   int
	focused int
	hover   int
	result  breadcrumb.Result
	spans   []span
}

// NewBar returns an empty bar.
func NewBar(theme Theme, opts BarOptions) *Bar {
	sep := opts.Separator
	if sep == "" {
		sep = " › "
	}
	b := &Bar{
		theme:        theme,
		separator:    sep,
		compactWidth: opts.CompactWidth,
		focused:      -1,
		hover:        -1,
	}
	m := breadcrumb.TierMeasurer{Separator: lipgloss.Width(sep)}
	b.compactor = breadcrumb.NewCompactor(m, breadcrumb.WithPadding(opts.Padding))
	return b
}

// SetTrail replaces the trail and refits it unfocused.
func (b *Bar) SetTrail(t *breadcrumb.Trail) {
	b.trail = t
	b.focused = -1
	b.hover = -1
	b.Layout(b.width)
}

func (b *Bar) Trail() *breadcrumb.Trail { return b.trail }

func (b *Bar) Result() breadcrumb.Result { return b.result }

// Focused returns the crumb the last focused pass centred on, or -1.
func (b *Bar) Focused() int { return b.focused }

func (b *Bar) Hover() int { return b.hover }

// SetHover marks crumb i as hovered, -1 for none, and reports whether the
// hover changed. Hover never changes widths, so no refit is needed.
func (b *Bar) SetHover(i int) bool {
	if b.trail.At(i) == nil {
		i = -1
	}
	if i == b.hover {
		return false
	}
	b.hover = i
	return true
}

// Focus refits the trail keeping the crumb at i and its neighbours as wide
// as possible.
func (b *Bar) Focus(i int) {
	if b.trail.At(i) == nil {
		i = -1
	}
	b.focused = i
	b.Layout(b.width)
}

// Unfocus refits the trail around the selected crumb.
func (b *Bar) Unfocus() {
	b.focused = -1
	b.Layout(b.width)
}

// Resize drops any focus and refits the trail into width.
func (b *Bar) Resize(width int) {
	b.focused = -1
	b.Layout(width)
}

// Layout measures every crumb at each tier and fits the trail into width.
func (b *Bar) Layout(width int) {
	b.width = width
	if b.trail == nil {
		b.spans = nil
		return
	}
	for _, c := range b.trail.Crumbs() {
		st := b.style(c, false)
		c.SetWidths(
			lipgloss.Width(st.Render(breadcrumb.TierText(c.Label, breadcrumb.TierNormal, b.compactWidth))),
			lipgloss.Width(st.Render(breadcrumb.TierText(c.Label, breadcrumb.TierCompact, b.compactWidth))),
			lipgloss.Width(b.theme.CrumbCollapse.Render(breadcrumb.CollapsedGlyph)),
		)
	}
	if b.focused >= 0 {
		b.result = b.compactor.FitFocused(b.trail, width, b.focused)
	} else {
		b.result = b.compactor.Fit(b.trail, width)
	}
	b.computeSpans()
	debug.LogIf(!b.result.Fits && !b.result.Skipped, "ui: bar overflows %d cells", width)
}

func (b *Bar) computeSpans() {
	b.spans = b.spans[:0]
	sepWidth := lipgloss.Width(b.separator)
	x := 0
	first := true
	crumbs := b.trail.Crumbs()
	for i := len(crumbs) - 1; i >= 0; i-- {
		c := crumbs[i]
		if c.Tier == breadcrumb.TierHidden {
			continue
		}
		if !first {
			x += sepWidth
		}
		first = false
		w := c.Width()
		b.spans = append(b.spans, span{start: x, end: x + w, index: i})
		x += w
	}
}

// HitTest returns the crumb drawn at cell x, or -1.
func (b *Bar) HitTest(x int) int {
	for _, s := range b.spans {
		if x >= s.start && x < s.end {
			return s.index
		}
	}
	return -1
}

func (b *Bar) style(c *breadcrumb.Crumb, hovered bool) lipgloss.Style {
	switch {
	case c.Tier == breadcrumb.TierCollapsed:
		if hovered {
			return b.theme.CrumbHover
		}
		return b.theme.CrumbCollapse
	case c.Selected:
		return b.theme.CrumbSelected
	case hovered:
		return b.theme.CrumbHover
	case c.Dimmed:
		return b.theme.CrumbDimmed
	default:
		return b.theme.Crumb
	}
}

// View renders the visible crumbs outermost first.
func (b *Bar) View() string {
	defer metrics.Timer(metrics.UIRender)()
	if b.trail == nil {
		return ""
	}
	sep := b.theme.Separator.Render(b.separator)
	var sb strings.Builder
	for n, s := range b.spans {
		c := b.trail.At(s.index)
		if n > 0 {
			sb.WriteString(sep)
		}
		sb.WriteString(b.style(c, s.index == b.hover).Render(c.Text(b.compactWidth)))
	}
	return sb.String()
}
