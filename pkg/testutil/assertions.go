package testutil

import (
	"reflect"
	"testing"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
)

// AssertTiers verifies the tier of every crumb, leaf first.
func AssertTiers(t *testing.T, tr *breadcrumb.Trail, want ...breadcrumb.Tier) {
	t.Helper()
	if got := tr.Tiers(); !reflect.DeepEqual(got, want) {
		t.Errorf("tiers = %v, want %v", got, want)
	}
}

// AssertFitted verifies the layout invariants every fit pass must leave
// behind: the selected crumb is visible, the Start and End flags sit on the
// outermost and innermost visible crumbs, and no two collapsed crumbs are
// drawn next to each other.
func AssertFitted(t *testing.T, tr *breadcrumb.Trail) {
	t.Helper()
	visible := tr.Visible()
	if tr.Len() > 0 && len(visible) == 0 {
		t.Fatal("no crumb visible")
	}

	for i := 0; i < tr.Len(); i++ {
		c := tr.At(i)
		if c.Selected && c.Tier == breadcrumb.TierHidden {
			t.Errorf("selected crumb %d (%q) is hidden", i, c.Label)
		}
		wantEnd := len(visible) > 0 && i == visible[0]
		wantStart := len(visible) > 0 && i == visible[len(visible)-1]
		if c.End != wantEnd {
			t.Errorf("crumb %d End = %v, want %v", i, c.End, wantEnd)
		}
		if c.Start != wantStart {
			t.Errorf("crumb %d Start = %v, want %v", i, c.Start, wantStart)
		}
	}

	// A collapsed selected crumb is never coalesced with its neighbours.
	prevCollapsed, prevSelected := false, false
	for i := 0; i < tr.Len(); i++ {
		c := tr.At(i)
		if c.Tier == breadcrumb.TierHidden {
			continue
		}
		collapsed := c.Tier == breadcrumb.TierCollapsed
		if collapsed && prevCollapsed && !c.Selected && !prevSelected {
			t.Errorf("crumb %d repeats the collapsed marker of its neighbour", i)
		}
		prevCollapsed, prevSelected = collapsed, c.Selected
	}
}

// AssertWithin verifies that a fitted trail leaves padding cells free.
func AssertWithin(t *testing.T, measured, padding, width int) {
	t.Helper()
	if measured+padding > width {
		t.Errorf("measured %d + padding %d exceeds width %d", measured, padding, width)
	}
}
