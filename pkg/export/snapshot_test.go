package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
)

// fittedTrail returns html/body/main/section/p with p selected, fitted into
// width cells with plain text widths.
func fittedTrail(t *testing.T, width int) (*breadcrumb.Trail, breadcrumb.Result) {
	t.Helper()
	labels := []string{"p", "section", "main", "body", "html"}
	crumbs := make([]*breadcrumb.Crumb, len(labels))
	for i, l := range labels {
		crumbs[i] = &breadcrumb.Crumb{Label: l, Title: l}
	}
	crumbs[0].Selected = true
	crumbs[0].End = true
	crumbs[len(crumbs)-1].Start = true
	crumbs[len(crumbs)-1].Dimmed = true

	tr := breadcrumb.NewTrail(crumbs...)
	breadcrumb.MeasureCells(tr, 3, 2)
	c := breadcrumb.NewCompactor(breadcrumb.TierMeasurer{Separator: 3})
	return tr, c.Fit(tr, width)
}

func TestSaveSnapshot_SVG(t *testing.T) {
	tr, res := fittedTrail(t, 22)
	if !res.Fits {
		t.Fatalf("fixture does not fit: %+v", res)
	}
	path := filepath.Join(t.TempDir(), "nested", "trail.svg")

	err := SaveSnapshot(SnapshotOptions{Path: path, Trail: tr, Result: res, Width: 22, CompactWidth: 3})
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	svg := string(data)

	if !strings.Contains(svg, "<svg") {
		t.Fatal("output is not SVG")
	}
	if !strings.Contains(svg, `class="crumb normal selected"`) {
		t.Error("selected crumb group missing")
	}
	for _, i := range tr.Visible() {
		if text := tr.At(i).Text(3); !strings.Contains(svg, ">"+text+"<") {
			t.Errorf("visible crumb %q not drawn", text)
		}
	}
	for i := 0; i < tr.Len(); i++ {
		if c := tr.At(i); c.Tier == breadcrumb.TierHidden && strings.Contains(svg, ">"+c.Label+"<") {
			t.Errorf("hidden crumb %q drawn", c.Label)
		}
	}
	if !strings.Contains(svg, "stroke-dasharray:4,3") {
		t.Error("container edge marker missing")
	}
}

func TestSaveSnapshot_PNG(t *testing.T) {
	tr, res := fittedTrail(t, 40)
	path := filepath.Join(t.TempDir(), "trail.png")

	if err := SaveSnapshot(SnapshotOptions{Path: path, Trail: tr, Result: res, Width: 40}); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}

	want := buildLayout(SnapshotOptions{Trail: tr, Result: res, Width: 40})
	if b := img.Bounds(); b.Dx() != want.Width || b.Dy() != want.Height {
		t.Errorf("image %dx%d, want %dx%d", b.Dx(), b.Dy(), want.Width, want.Height)
	}
}

func TestSaveSnapshot_Errors(t *testing.T) {
	dir := t.TempDir()
	tr, res := fittedTrail(t, 40)

	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.svg")}); !errors.Is(err, ErrEmptyTrail) {
		t.Errorf("nil trail error = %v, want ErrEmptyTrail", err)
	}
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.svg"), Trail: breadcrumb.NewTrail()}); !errors.Is(err, ErrEmptyTrail) {
		t.Errorf("empty trail error = %v, want ErrEmptyTrail", err)
	}
	if err := SaveSnapshot(SnapshotOptions{Path: filepath.Join(dir, "a.gif"), Format: "gif", Trail: tr, Result: res}); err == nil {
		t.Error("expected error for gif")
	}
	if err := SaveSnapshot(SnapshotOptions{Trail: tr, Result: res}); err == nil {
		t.Error("expected error without a path")
	}
}

func TestSaveSnapshot_DefaultsToSVG(t *testing.T) {
	tr, res := fittedTrail(t, 40)
	base := filepath.Join(t.TempDir(), "trail")
	if err := SaveSnapshot(SnapshotOptions{Path: base, Trail: tr, Result: res, Width: 40}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(base + ".svg"); err != nil {
		t.Errorf("expected %s.svg: %v", base, err)
	}
}

func TestBuildLayout(t *testing.T) {
	tr, res := fittedTrail(t, 22)
	compact := buildLayout(SnapshotOptions{Trail: tr, Result: res, Width: 22, CompactWidth: 3})
	roomy := buildLayout(SnapshotOptions{Trail: tr, Result: res, Width: 22, CompactWidth: 3, Preset: "roomy"})

	if got, want := len(compact.Chips), len(tr.Visible()); got != want {
		t.Fatalf("chips = %d, want %d visible crumbs", got, want)
	}
	if len(compact.SepXs) != len(compact.Chips)-1 {
		t.Errorf("separators = %d for %d chips", len(compact.SepXs), len(compact.Chips))
	}
	for i := 1; i < len(compact.Chips); i++ {
		if compact.Chips[i].X <= compact.Chips[i-1].X+compact.Chips[i-1].W {
			t.Errorf("chip %d overlaps chip %d", i, i-1)
		}
	}
	if last := compact.Chips[len(compact.Chips)-1]; !last.Selected || !last.End {
		t.Errorf("innermost chip = %+v, want selected end chip", last)
	}
	if roomy.Height <= compact.Height || roomy.Chips[0].W <= compact.Chips[0].W {
		t.Error("roomy preset should be larger than compact")
	}
	if compact.Title != "html/body/main/section/p" {
		t.Errorf("default title = %q", compact.Title)
	}
}

func TestNewRobotFit(t *testing.T) {
	tr, res := fittedTrail(t, 22)
	m := breadcrumb.TierMeasurer{Separator: 3}
	fit := NewRobotFit("page.yaml", tr, 22, 0, m.Width(tr), res, 3)

	if fit.Selected != "p" || fit.Phase != res.Phase.String() || !fit.Fits {
		t.Errorf("fit = %+v", fit)
	}
	if fit.Measured > 22 {
		t.Errorf("Measured = %d, exceeds width", fit.Measured)
	}
	if len(fit.Crumbs) != tr.Len() {
		t.Fatalf("crumbs = %d, want %d", len(fit.Crumbs), tr.Len())
	}
	if fit.Crumbs[0].Label != "html" || !fit.Crumbs[len(fit.Crumbs)-1].Selected {
		t.Error("crumbs should run outermost first")
	}

	var buf bytes.Buffer
	if err := WriteRobotJSON(&buf, RobotOutput{Version: "test", Trails: []RobotFit{fit}}); err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	trails, ok := decoded["trails"].([]any)
	if !ok || len(trails) != 1 {
		t.Fatalf("trails = %v", decoded["trails"])
	}
	first := trails[0].(map[string]any)
	for _, key := range []string{"source", "width", "fits", "phase", "crumbs"} {
		if _, ok := first[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}
