package ui

import (
	"reflect"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/tree"
)

const barDoc = "a:\n  bb:\n    ccc:\n      dddd: x\n"

// leafTrail returns the trail for t.yaml/a/bb/ccc/dddd with dddd selected.
// Chip widths are label+2, the separator is 3 cells wide.
func leafTrail(t *testing.T) *breadcrumb.Trail {
	t.Helper()
	top, err := tree.ParseDocument("t.yaml", []byte(barDoc))
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := tree.Find(top, "a/bb/ccc/dddd")
	if err != nil {
		t.Fatal(err)
	}
	return breadcrumb.Build(leaf, nil, nil)
}

func newTestBar(t *testing.T) *Bar {
	t.Helper()
	b := NewBar(TestTheme(), BarOptions{Separator: " › ", CompactWidth: 2})
	b.SetTrail(leafTrail(t))
	return b
}

func TestBar_FitsWithoutShrinking(t *testing.T) {
	b := newTestBar(t)
	b.Layout(100)

	if r := b.Result(); !r.Fits || r.Phase != breadcrumb.PhaseNone {
		t.Errorf("Result = %+v, want fit without shrinking", r)
	}
	view := b.View()
	if got := lipgloss.Width(view); got != 38 {
		t.Errorf("view width = %d, want 38", got)
	}
	if !strings.HasPrefix(strings.TrimSpace(view), "t.yaml") {
		t.Errorf("view should start with the outermost crumb: %q", view)
	}
}

func TestBar_HitTest(t *testing.T) {
	b := newTestBar(t)
	b.Layout(100)

	tests := []struct {
		x    int
		want int
	}{
		{0, 4},   // t.yaml [0,8)
		{7, 4},   //
		{9, -1},  // separator
		{12, 3},  // a [11,14)
		{18, 2},  // bb [17,21)
		{24, 1},  // ccc [24,29)
		{37, 0},  // dddd [32,38)
		{38, -1}, // past the end
		{-1, -1},
	}
	for _, tc := range tests {
		if got := b.HitTest(tc.x); got != tc.want {
			t.Errorf("HitTest(%d) = %d, want %d", tc.x, got, tc.want)
		}
	}
}

func TestBar_NarrowWidthCollapsesAncestors(t *testing.T) {
	b := newTestBar(t)
	b.Layout(20)

	want := []breadcrumb.Tier{
		breadcrumb.TierNormal,    // dddd, selected
		breadcrumb.TierCompact,   // ccc
		breadcrumb.TierCollapsed, // bb marks the run
		breadcrumb.TierHidden,    // a
		breadcrumb.TierHidden,    // t.yaml
	}
	if got := b.Trail().Tiers(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tiers = %v, want %v", got, want)
	}
	if r := b.Result(); !r.Fits || r.Phase != breadcrumb.PhaseCollapseAncestors {
		t.Errorf("Result = %+v", r)
	}
	if !b.Trail().At(2).Start {
		t.Error("Start should move to the visible collapsed crumb")
	}

	view := b.View()
	if got := lipgloss.Width(view); got != 19 {
		t.Errorf("view width = %d, want 19", got)
	}
	if strings.Contains(view, "t.yaml") || !strings.Contains(view, breadcrumb.CollapsedGlyph) {
		t.Errorf("view = %q", view)
	}
	if got := b.HitTest(1); got != 2 {
		t.Errorf("HitTest(1) = %d, want collapsed crumb 2", got)
	}
}

func TestBar_FocusExpandsCrumb(t *testing.T) {
	b := newTestBar(t)
	b.Layout(20)

	b.Focus(2)
	if b.Focused() != 2 {
		t.Fatalf("Focused() = %d", b.Focused())
	}
	if tier := b.Trail().At(2).Tier; tier != breadcrumb.TierNormal {
		t.Errorf("focused crumb tier = %v, want normal", tier)
	}
	if tier := b.Trail().At(0).Tier; tier == breadcrumb.TierHidden {
		t.Error("selected crumb hidden")
	}

	b.Unfocus()
	if b.Focused() != -1 || b.Trail().At(2).Tier != breadcrumb.TierCollapsed {
		t.Errorf("after Unfocus: focused=%d tier=%v", b.Focused(), b.Trail().At(2).Tier)
	}

	b.Focus(99)
	if b.Focused() != -1 {
		t.Errorf("out of range focus = %d, want -1", b.Focused())
	}
}

func TestBar_Hover(t *testing.T) {
	b := newTestBar(t)
	b.Layout(100)

	if !b.SetHover(3) || b.Hover() != 3 {
		t.Fatal("SetHover(3) did not take")
	}
	if b.SetHover(3) {
		t.Error("repeated SetHover reported a change")
	}
	before := b.Trail().Tiers()
	_ = b.View()
	if !reflect.DeepEqual(before, b.Trail().Tiers()) {
		t.Error("hover changed the layout")
	}
	if !b.SetHover(42) || b.Hover() != -1 {
		t.Errorf("out of range hover = %d, want -1", b.Hover())
	}
}

func TestBar_Empty(t *testing.T) {
	b := NewBar(TestTheme(), BarOptions{})
	b.Layout(40)
	if b.View() != "" || b.HitTest(0) != -1 {
		t.Error("empty bar should render nothing")
	}
}

func TestBar_ResizeDropsFocus(t *testing.T) {
	b := newTestBar(t)
	b.Layout(20)
	b.Focus(2)

	b.Resize(20)
	if b.Focused() != -1 {
		t.Errorf("Focused() = %d after resize, want -1", b.Focused())
	}
	if tier := b.Trail().At(2).Tier; tier != breadcrumb.TierCollapsed {
		t.Errorf("crumb 2 tier = %v, want collapsed", tier)
	}
}
