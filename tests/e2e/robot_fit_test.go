package main_test

import (
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vanderheijden86/crumbbar/pkg/testutil"
)

const pageDoc = "html:\n  body:\n    main:\n      section:\n        p: hello\n"

// TestRobotFitContract verifies the --robot-fit output structure for a
// trail that has to shrink.
func TestRobotFitContract(t *testing.T) {
	env := t.TempDir()
	testutil.WriteFile(t, env, "page.yaml", pageDoc)

	payload := runRobotFit(t, env, true, "--width", "24", "--select", "html/body/main/section/p", "page.yaml")

	if payload.Version == "" || len(payload.Trails) != 1 {
		t.Fatalf("payload = %+v", payload)
	}
	fit := payload.Trails[0]
	if !fit.Fits || fit.Phase == "none" || fit.Selected != "p" {
		t.Errorf("fit = %+v", fit)
	}
	if fit.Measured+fit.Padding > 24 {
		t.Errorf("measured %d + padding %d exceeds 24", fit.Measured, fit.Padding)
	}
	if fit.Path != "page.yaml/html/body/main/section/p" {
		t.Errorf("path = %q", fit.Path)
	}
	if len(fit.Crumbs) != 6 || !fit.Crumbs[0].Start || !fit.Crumbs[5].Selected || !fit.Crumbs[5].End {
		t.Errorf("crumbs = %+v", fit.Crumbs)
	}
	for _, c := range fit.Crumbs {
		if c.Selected && c.Tier == "hidden" {
			t.Error("selected crumb hidden")
		}
	}
}

// TestRobotFitBatch fits a directory trail and a document trail in one run
// and reports a missing source without dropping the others.
func TestRobotFitBatch(t *testing.T) {
	env := t.TempDir()
	chain := testutil.NewDefault().Chain(8)
	testutil.WriteTree(t, filepath.Join(env, "tree"), chain)
	testutil.WriteFile(t, env, "deep.yaml", testutil.ToYAML(chain, "leaf"))

	payload := runRobotFit(t, env, false,
		"--width", "40", "--select", chain.Path,
		"tree", "missing.yaml", "deep.yaml")

	if len(payload.Trails) != 3 {
		t.Fatalf("trails = %d, want 3", len(payload.Trails))
	}
	for _, i := range []int{0, 2} {
		fit := payload.Trails[i]
		if fit.Error != "" {
			t.Fatalf("%s: %s", fit.Source, fit.Error)
		}
		if fit.Selected != chain.Labels[len(chain.Labels)-1] {
			t.Errorf("%s selected %q", fit.Source, fit.Selected)
		}
		if !strings.HasSuffix(fit.Path, chain.Path) {
			t.Errorf("%s path = %q", fit.Source, fit.Path)
		}
	}
	if payload.Trails[1].Source != "missing.yaml" || payload.Trails[1].Error == "" {
		t.Errorf("missing source entry = %+v", payload.Trails[1])
	}
}

func TestVersionAndHelp(t *testing.T) {
	cb := buildCbBinary(t)

	out, err := exec.Command(cb, "--version").CombinedOutput()
	if err != nil || !strings.HasPrefix(string(out), "cb ") {
		t.Errorf("--version = %q (%v)", out, err)
	}

	out, err = exec.Command(cb, "--help").CombinedOutput()
	if err != nil || !strings.Contains(string(out), "-robot-fit") {
		t.Errorf("--help = %q (%v)", out, err)
	}
}
