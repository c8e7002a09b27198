// Package breadcrumb models an ancestor trail as a row of crumbs and fits
// that row into a fixed width by shrinking crumbs in a fixed priority order.
//
// A Trail is ordered leaf first: index 0 is the innermost crumb (drawn at the
// right edge, flagged End) and the last index is the outermost crumb (drawn at
// the left edge, flagged Start). Layout state lives entirely in the crumb
// flags; a Compactor resets and reapplies them on every pass.
package breadcrumb

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Tier is the size state of a crumb. Tiers are ordered from widest to
// narrowest and are mutually exclusive.
type Tier int

const (
	TierNormal Tier = iota
	TierCompact
	TierCollapsed
	TierHidden
)

// CollapsedGlyph is the text drawn for a collapsed crumb.
const CollapsedGlyph = "…"

func (t Tier) String() string {
	switch t {
	case TierNormal:
		return "normal"
	case TierCompact:
		return "compact"
	case TierCollapsed:
		return "collapsed"
	case TierHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Crumb is one chip in the trail.
type Crumb struct {
	Label string // text shown at full size
	Title string // full description, used for tooltips and paths
	Node  Node   // source item the crumb represents

	Tier     Tier
	Dimmed   bool // outside the current scope root
	Selected bool
	Start    bool // outermost visible crumb
	End      bool // innermost visible crumb

	// Widths holds the rendered width of the crumb at each tier.
	// Widths[TierHidden] is ignored; hidden crumbs are always zero wide.
	Widths [4]int
}

// Width returns the rendered width of the crumb at its current tier.
func (c *Crumb) Width() int {
	if c.Tier == TierHidden || c.Tier < TierNormal || c.Tier > TierHidden {
		return 0
	}
	return c.Widths[c.Tier]
}

// SetWidths records the measured width per tier. Narrower tiers are clamped
// so they never measure wider than the tier before them.
func (c *Crumb) SetWidths(normal, compact, collapsed int) {
	if normal < 0 {
		normal = 0
	}
	if compact > normal {
		compact = normal
	}
	if compact < 0 {
		compact = 0
	}
	if collapsed > compact {
		collapsed = compact
	}
	if collapsed < 0 {
		collapsed = 0
	}
	c.Widths = [4]int{normal, compact, collapsed, 0}
}

// Text returns the label as drawn at the crumb's current tier. compactWidth
// is the maximum cell width of a compact label.
func (c *Crumb) Text(compactWidth int) string {
	return TierText(c.Label, c.Tier, compactWidth)
}

// TierText renders label for the given tier.
func TierText(label string, tier Tier, compactWidth int) string {
	switch tier {
	case TierCompact:
		if compactWidth <= 0 {
			return CollapsedGlyph
		}
		if runewidth.StringWidth(label) <= compactWidth {
			return label
		}
		return runewidth.Truncate(label, compactWidth, CollapsedGlyph)
	case TierCollapsed:
		return CollapsedGlyph
	case TierHidden:
		return ""
	default:
		return label
	}
}

// Trail is an ordered sequence of crumbs, leaf first.
type Trail struct {
	crumbs []*Crumb
}

// NewTrail returns a trail over the given crumbs, leaf first.
func NewTrail(crumbs ...*Crumb) *Trail {
	return &Trail{crumbs: crumbs}
}

// Len returns the number of crumbs, hidden ones included.
func (t *Trail) Len() int {
	if t == nil {
		return 0
	}
	return len(t.crumbs)
}

// At returns the crumb at index i, or nil when out of range.
func (t *Trail) At(i int) *Crumb {
	if t == nil || i < 0 || i >= len(t.crumbs) {
		return nil
	}
	return t.crumbs[i]
}

// Crumbs returns the underlying slice. Callers may mutate crumb fields but
// should not reorder the slice.
func (t *Trail) Crumbs() []*Crumb {
	if t == nil {
		return nil
	}
	return t.crumbs
}

// SelectedIndex returns the index of the first selected crumb, or -1.
func (t *Trail) SelectedIndex() int {
	for i, c := range t.Crumbs() {
		if c.Selected {
			return i
		}
	}
	return -1
}

// IndexOf returns the index of the crumb representing n, or -1.
func (t *Trail) IndexOf(n Node) int {
	if n == nil {
		return -1
	}
	for i, c := range t.Crumbs() {
		if sameNode(c.Node, n) {
			return i
		}
	}
	return -1
}

// Visible returns the indexes of non-hidden crumbs, leaf first.
func (t *Trail) Visible() []int {
	var out []int
	for i, c := range t.Crumbs() {
		if c.Tier != TierHidden {
			out = append(out, i)
		}
	}
	return out
}

// Path joins the full crumb titles from the outermost crumb inward.
func (t *Trail) Path(sep string) string {
	crumbs := t.Crumbs()
	parts := make([]string, 0, len(crumbs))
	for i := len(crumbs) - 1; i >= 0; i-- {
		c := crumbs[i]
		if c.Title != "" {
			parts = append(parts, c.Title)
		} else {
			parts = append(parts, c.Label)
		}
	}
	return strings.Join(parts, sep)
}

// Tiers returns the tier of every crumb, leaf first.
func (t *Trail) Tiers() []Tier {
	crumbs := t.Crumbs()
	out := make([]Tier, len(crumbs))
	for i, c := range crumbs {
		out[i] = c.Tier
	}
	return out
}

func (t *Trail) resetLayout() {
	last := len(t.crumbs) - 1
	for i, c := range t.crumbs {
		c.Tier = TierNormal
		c.Start = i == last
		c.End = i == 0
	}
}
