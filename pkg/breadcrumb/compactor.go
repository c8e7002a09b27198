package breadcrumb

import (
	"github.com/vanderheijden86/crumbbar/pkg/debug"
	"github.com/vanderheijden86/crumbbar/pkg/metrics"
)

// Phase identifies a shrink step of a fit pass, in the order they run.
type Phase int

const (
	PhaseNone Phase = iota
	PhaseCompactChildren
	PhaseCollapseChildren
	PhaseCompactDimmed
	PhaseCollapseDimmed
	PhaseCompactAncestors
	PhaseCollapseAncestors
	PhaseCompactSelected
	PhaseCollapseSelected
)

// phaseCount bounds the number of shrink phases a pass can run.
const phaseCount = int(PhaseCollapseSelected)

func (p Phase) String() string {
	switch p {
	case PhaseNone:
		return "none"
	case PhaseCompactChildren:
		return "compact-children"
	case PhaseCollapseChildren:
		return "collapse-children"
	case PhaseCompactDimmed:
		return "compact-dimmed"
	case PhaseCollapseDimmed:
		return "collapse-dimmed"
	case PhaseCompactAncestors:
		return "compact-ancestors"
	case PhaseCollapseAncestors:
		return "collapse-ancestors"
	case PhaseCompactSelected:
		return "compact-selected"
	case PhaseCollapseSelected:
		return "collapse-selected"
	default:
		return "unknown"
	}
}

// Result describes the outcome of a fit pass.
type Result struct {
	Fits    bool  // the trail fits the container after the pass
	Skipped bool  // nothing could be compacted (no width, or fewer than two crumbs)
	Phase   Phase // last phase that ran
	Steps   int   // crumbs visited by shrink phases
}

// Measurer reports the rendered width of the visible crumbs of a trail.
type Measurer interface {
	Width(t *Trail) int
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(t *Trail) int

func (f MeasurerFunc) Width(t *Trail) int { return f(t) }

// Option configures a Compactor.
type Option func(*Compactor)

// WithPadding reserves extra width that the crumbs may not use.
func WithPadding(p int) Option {
	return func(c *Compactor) {
		if p > 0 {
			c.padding = p
		}
	}
}

// Compactor fits trails into a container width.
type Compactor struct {
	measure Measurer
	padding int
}

// NewCompactor returns a Compactor measuring trails with m.
func NewCompactor(m Measurer, opts ...Option) *Compactor {
	c := &Compactor{measure: m}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Padding returns the reserved width.
func (c *Compactor) Padding() int {
	return c.padding
}

// Fits reports whether t already fits in containerWidth at its current tiers.
func (c *Compactor) Fits(t *Trail, containerWidth int) bool {
	return c.measure.Width(t)+c.padding <= containerWidth
}

// Fit resets the layout flags of t and shrinks crumbs until the trail fits in
// containerWidth or no shrink step is left. The selected crumb is kept at
// full size unless everything else has been shrunk.
func (c *Compactor) Fit(t *Trail, containerWidth int) Result {
	return c.fit(t, containerWidth, -1)
}

// FitFocused is Fit anchored on the crumb at focused, typically one the user
// just clicked to reveal. Crumbs are shrunk from both sides of the focused
// crumb, farthest first. An out of range index behaves like Fit.
func (c *Compactor) FitFocused(t *Trail, containerWidth, focused int) Result {
	if focused < 0 || focused >= t.Len() {
		focused = -1
	}
	return c.fit(t, containerWidth, focused)
}

type side int

const (
	bothSides    side = 0
	ancestorSide side = -1
	childSide    side = 1
)

type fitPass struct {
	c        *Compactor
	trail    *Trail
	width    int
	selected int
	focused  int
	result   Result
}

func (c *Compactor) fit(t *Trail, containerWidth, focused int) Result {
	if t.Len() == 0 || containerWidth <= 0 {
		return Result{Skipped: true}
	}
	defer metrics.Timer(metrics.FitPass)()

	t.resetLayout()
	p := &fitPass{
		c:        c,
		trail:    t,
		width:    containerWidth,
		selected: t.SelectedIndex(),
		focused:  focused,
	}
	p.run()
	debug.LogIf(!p.result.Fits, "breadcrumb: %d crumbs overflow %d cells after %s", t.Len(), containerWidth, p.result.Phase)
	return p.result
}

func (p *fitPass) run() {
	if p.trail.Len() == 1 {
		p.result.Skipped = true
		p.result.Fits = p.fits()
		return
	}
	if p.fits() {
		p.result.Fits = true
		return
	}

	// Without a focused crumb, crumbs the user is less likely to care about
	// go first: descendants of the selection, then dimmed ancestors.
	if p.focused < 0 {
		if p.shrink(PhaseCompactChildren, p.compact, childSide) {
			return
		}
		if p.shrink(PhaseCollapseChildren, p.collapse, childSide) {
			return
		}
		if p.shrink(PhaseCompactDimmed, p.compactDimmed, ancestorSide) {
			return
		}
		if p.shrink(PhaseCollapseDimmed, p.collapseDimmed, ancestorSide) {
			return
		}
	}

	dir := ancestorSide
	if p.focused >= 0 {
		dir = bothSides
	}
	if p.shrink(PhaseCompactAncestors, p.compact, dir) {
		return
	}
	if p.shrink(PhaseCollapseAncestors, p.collapse, dir) {
		return
	}

	if p.selected < 0 {
		return
	}

	p.result.Phase = PhaseCompactSelected
	p.compact(p.selected)
	p.result.Steps++
	if p.fits() {
		p.result.Fits = true
		return
	}

	// Last resort. No coalescing here: it must never hide the selection.
	p.result.Phase = PhaseCollapseSelected
	p.collapseOnly(p.selected)
	p.result.Steps++
	p.result.Fits = p.fits()
}

func (p *fitPass) fits() bool {
	return p.c.Fits(p.trail, p.width)
}

func (p *fitPass) significant() int {
	switch {
	case p.focused >= 0:
		return p.focused
	case p.selected >= 0:
		return p.selected
	default:
		return 0
	}
}

// shrink applies fn one crumb at a time on the given side of the significant
// crumb, checking the fit after each one. It reports whether the trail fits.
func (p *fitPass) shrink(phase Phase, fn func(i int), dir side) bool {
	p.result.Phase = phase
	sig := p.significant()
	n := p.trail.Len()

	switch dir {
	case childSide:
		for i := 0; i < sig; i++ {
			if p.shrinkAt(i, sig, fn) {
				return true
			}
		}
	case ancestorSide:
		for i := n - 1; i > sig; i-- {
			if p.shrinkAt(i, sig, fn) {
				return true
			}
		}
	default:
		// Farthest from the significant crumb first; ties go to the child side.
		start, end := 0, n-1
		for start != sig || end != sig {
			var i int
			if sig-start >= end-sig {
				i = start
				start++
			} else {
				i = end
				end--
			}
			if p.shrinkAt(i, sig, fn) {
				return true
			}
		}
	}
	return false
}

func (p *fitPass) shrinkAt(i, sig int, fn func(i int)) bool {
	p.result.Steps++
	if i != sig && i != p.selected {
		fn(i)
	}
	if p.fits() {
		p.result.Fits = true
		return true
	}
	return false
}

func (p *fitPass) compact(i int) {
	c := p.trail.crumbs[i]
	if c.Tier == TierNormal {
		c.Tier = TierCompact
	}
}

func (p *fitPass) collapseOnly(i int) {
	c := p.trail.crumbs[i]
	if c.Tier != TierHidden {
		c.Tier = TierCollapsed
	}
}

func (p *fitPass) collapse(i int) {
	if p.trail.crumbs[i].Tier == TierHidden {
		return
	}
	p.collapseOnly(i)
	p.trail.coalesce()
}

func (p *fitPass) compactDimmed(i int) {
	if p.trail.crumbs[i].Dimmed {
		p.compact(i)
	}
}

func (p *fitPass) collapseDimmed(i int) {
	if p.trail.crumbs[i].Dimmed {
		p.collapse(i)
	}
}

// coalesce hides every collapsed crumb that directly follows another
// collapsed or hidden crumb, so each run shows a single collapsed marker.
// Start and End move to the nearest visible crumb when their owner is hidden.
// The selected crumb is never hidden.
func (t *Trail) coalesce() {
	run := false
	newStart, newEnd := false, false
	for _, c := range t.crumbs {
		if c.Tier == TierHidden {
			run = true
			continue
		}
		collapsed := c.Tier == TierCollapsed
		if run && collapsed && !c.Selected {
			c.Tier = TierHidden
			if c.Start {
				c.Start = false
				newStart = true
			}
			if c.End {
				c.End = false
				newEnd = true
			}
			continue
		}
		run = collapsed
		if newEnd {
			newEnd = false
			c.End = true
		}
	}

	if newStart {
		for i := len(t.crumbs) - 1; i >= 0; i-- {
			if t.crumbs[i].Tier != TierHidden {
				t.crumbs[i].Start = true
				break
			}
		}
	}
}
