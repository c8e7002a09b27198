// Package testutil provides fixture generators for deep documents and
// directory trees. All generators produce deterministic output for
// reproducible tests.
package testutil

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// ChainFixture is a single ancestor chain, outermost first. Path is the
// slash separated path of the innermost node relative to the top.
type ChainFixture struct {
	Description string
	Labels      []string
	Path        string
}

// Depth returns the number of nodes below the top.
func (c ChainFixture) Depth() int { return len(c.Labels) }

// GeneratorConfig controls label generation.
type GeneratorConfig struct {
	Seed     int64 // Random seed for determinism (0 = use current time)
	MinLabel int   // Shortest label in cells (default 1)
	MaxLabel int   // Longest label in cells (default 12)
	Wide     bool  // Mix double-width runes into labels
}

// DefaultConfig returns a config suitable for most tests.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Seed:     42,
		MinLabel: 1,
		MaxLabel: 12,
	}
}

// Generator creates label chains and writes them out as fixtures.
type Generator struct {
	cfg GeneratorConfig
	rng *rand.Rand
}

// New creates a Generator with the given config.
func New(cfg GeneratorConfig) *Generator {
	seed := cfg.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	if cfg.MinLabel < 1 {
		cfg.MinLabel = 1
	}
	if cfg.MaxLabel < cfg.MinLabel {
		cfg.MaxLabel = cfg.MinLabel
	}
	return &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(seed)),
	}
}

// NewDefault creates a Generator with default config.
func NewDefault() *Generator {
	return New(DefaultConfig())
}

const (
	narrowRunes = "abcdefghijklmnopqrstuvwxyz"
	wideRunes   = "木林森山川田"
)

// Label returns a random label. Wide labels count double-width runes as two
// cells so the result never exceeds MaxLabel cells.
func (g *Generator) Label() string {
	cells := g.cfg.MinLabel + g.rng.Intn(g.cfg.MaxLabel-g.cfg.MinLabel+1)
	narrow := []rune(narrowRunes)
	wide := []rune(wideRunes)

	var b strings.Builder
	for used := 0; used < cells; {
		if g.cfg.Wide && used+2 <= cells && g.rng.Intn(3) == 0 {
			b.WriteRune(wide[g.rng.Intn(len(wide))])
			used += 2
			continue
		}
		b.WriteRune(narrow[g.rng.Intn(len(narrow))])
		used++
	}
	return b.String()
}

// Chain creates depth nested labels. Labels are unique within the chain so
// every node is addressable by path.
func (g *Generator) Chain(depth int) ChainFixture {
	labels := make([]string, depth)
	seen := make(map[string]bool, depth)
	for i := range labels {
		l := g.Label()
		for seen[l] {
			l = fmt.Sprintf("%s%d", l, i)
		}
		seen[l] = true
		labels[i] = l
	}
	return ChainFixture{
		Description: fmt.Sprintf("Chain of %d labels", depth),
		Labels:      labels,
		Path:        strings.Join(labels, "/"),
	}
}

// ToYAML renders c as nested mappings with leaf as the innermost value.
// Every level also gets a sibling key so containers have more than one
// child.
func ToYAML(c ChainFixture, leaf string) string {
	var b strings.Builder
	for i, l := range c.Labels {
		indent := strings.Repeat("  ", i)
		fmt.Fprintf(&b, "%s%q:", indent, l)
		if i == len(c.Labels)-1 {
			fmt.Fprintf(&b, " %q\n", leaf)
		} else {
			b.WriteString("\n")
		}
	}
	for i := len(c.Labels) - 1; i >= 0; i-- {
		fmt.Fprintf(&b, "%s%q: %d\n", strings.Repeat("  ", i), fmt.Sprintf("zz-sibling-%d", i), i)
	}
	return b.String()
}

// WriteFile writes content to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// WriteTree creates c as nested directories under dir with an empty file at
// the bottom, and returns the innermost directory.
func WriteTree(t *testing.T, dir string, c ChainFixture) string {
	t.Helper()
	deepest := filepath.Join(append([]string{dir}, c.Labels...)...)
	if err := os.MkdirAll(deepest, 0o755); err != nil {
		t.Fatalf("failed to create tree: %v", err)
	}
	WriteFile(t, deepest, "leaf.txt", "")
	return deepest
}
