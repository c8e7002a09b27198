package breadcrumb

import "github.com/mattn/go-runewidth"

// TierMeasurer sums the per-tier widths recorded on each visible crumb and
// adds Separator between neighbouring visible crumbs.
type TierMeasurer struct {
	Separator int
}

func (m TierMeasurer) Width(t *Trail) int {
	total, visible := 0, 0
	for _, c := range t.Crumbs() {
		if c.Tier == TierHidden {
			continue
		}
		total += c.Width()
		visible++
	}
	if visible > 1 {
		total += m.Separator * (visible - 1)
	}
	return total
}

// MeasureCells fills the tier widths of every crumb with the terminal cell
// width of its text plus pad cells of chrome, for callers that draw plain
// text rather than styled chips.
func MeasureCells(t *Trail, compactWidth, pad int) {
	for _, c := range t.Crumbs() {
		c.SetWidths(
			runewidth.StringWidth(TierText(c.Label, TierNormal, compactWidth))+pad,
			runewidth.StringWidth(TierText(c.Label, TierCompact, compactWidth))+pad,
			runewidth.StringWidth(CollapsedGlyph)+pad,
		)
	}
}
