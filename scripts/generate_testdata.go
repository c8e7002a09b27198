//go:build ignore
// +build ignore

// generate_testdata.go creates deep documents for profiling the fit loop.
// Usage: go run scripts/generate_testdata.go
//
// Creates:
//   tests/testdata/deep/shallow.yaml  (8 levels)
//   tests/testdata/deep/medium.yaml   (32 levels)
//   tests/testdata/deep/deep.yaml     (128 levels)
//   tests/testdata/deep/wide.yaml     (32 levels, double-width labels)
//
// Open one with its printed selection path, e.g.
//   cb --cpu-profile cpu.out --select "$(sed -n 1p tests/testdata/deep/deep.path)" tests/testdata/deep/deep.yaml
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vanderheijden86/crumbbar/pkg/testutil"
)

type datasetSpec struct {
	name  string
	depth int
	wide  bool
}

var datasets = []datasetSpec{
	{"shallow", 8, false},
	{"medium", 32, false},
	{"deep", 128, false},
	{"wide", 32, true},
}

func main() {
	outputDir := "tests/testdata/deep"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	for _, ds := range datasets {
		fmt.Printf("Generating %s document (%d levels)...\n", ds.name, ds.depth)

		gen := testutil.New(testutil.GeneratorConfig{
			Seed:     int64(ds.depth), // Reproducible per-size
			MinLabel: 3,
			MaxLabel: 16,
			Wide:     ds.wide,
		})
		chain := gen.Chain(ds.depth)

		docPath := filepath.Join(outputDir, ds.name+".yaml")
		if err := os.WriteFile(docPath, []byte(testutil.ToYAML(chain, "leaf")), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", docPath, err)
			os.Exit(1)
		}
		pathFile := filepath.Join(outputDir, ds.name+".path")
		if err := os.WriteFile(pathFile, []byte(chain.Path+"\n"), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", pathFile, err)
			os.Exit(1)
		}
		fmt.Printf("  %s\n", docPath)
	}

	fmt.Println("Done.")
}
