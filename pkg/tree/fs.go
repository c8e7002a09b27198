package tree

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
)

// FSNode is a file or directory. Parents are derived from the path, so the
// chain always reaches the filesystem root.
type FSNode struct {
	abs  string
	base string // path Open was called with, used for Path and Source
	kind breadcrumb.Kind
}

// Open returns the node for path.
func Open(path string) (*FSNode, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	info, err := os.Lstat(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &FSNode{abs: abs, base: abs, kind: kindOf(info.Mode())}, nil
}

func kindOf(mode fs.FileMode) breadcrumb.Kind {
	switch {
	case mode.IsDir():
		return breadcrumb.KindContainer
	case mode.IsRegular():
		return breadcrumb.KindLeaf
	default:
		return breadcrumb.KindOther
	}
}

func (n *FSNode) Parent() breadcrumb.Node {
	dir := filepath.Dir(n.abs)
	if dir == n.abs {
		return nil
	}
	return &FSNode{abs: dir, base: n.base, kind: breadcrumb.KindContainer}
}

func (n *FSNode) Kind() breadcrumb.Kind { return n.kind }

func (n *FSNode) Name() string {
	if name := filepath.Base(n.abs); name != string(filepath.Separator) && name != "." {
		return name
	}
	return n.abs
}

func (n *FSNode) Key() string { return n.abs }

// AbsPath returns the node's absolute filesystem path.
func (n *FSNode) AbsPath() string { return n.abs }

func (n *FSNode) Source() string { return n.base }

func (n *FSNode) Path() string {
	rel, err := filepath.Rel(n.base, n.abs)
	if err != nil || rel == "." {
		return ""
	}
	return filepath.ToSlash(rel)
}

func (n *FSNode) segment() string { return filepath.Base(n.abs) }

// Children lists a directory with subdirectories first, each group sorted
// by name. Files have no children.
func (n *FSNode) Children() ([]Node, error) {
	if n.kind != breadcrumb.KindContainer {
		return nil, nil
	}
	entries, err := os.ReadDir(n.abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", n.abs, err)
	}
	slices.SortStableFunc(entries, func(a, b fs.DirEntry) int {
		if a.IsDir() != b.IsDir() {
			if a.IsDir() {
				return -1
			}
			return 1
		}
		return strings.Compare(a.Name(), b.Name())
	})

	out := make([]Node, 0, len(entries))
	for _, e := range entries {
		out = append(out, &FSNode{
			abs:  filepath.Join(n.abs, e.Name()),
			base: n.base,
			kind: kindOf(e.Type()),
		})
	}
	return out, nil
}
