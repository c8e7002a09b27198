// Package tree provides the hierarchies a crumb bar can walk: directories on
// disk and the nodes of a YAML or JSON document.
package tree

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/metrics"
)

// ErrNotFound is returned when a path does not resolve to a node.
var ErrNotFound = errors.New("node not found")

// Node is a breadcrumb node that can also list its children and be found
// again after its source is reloaded.
type Node interface {
	breadcrumb.Node

	// Children returns the node's children in display order.
	Children() ([]Node, error)
	// Source is the file or directory the hierarchy was loaded from.
	Source() string
	// Path locates the node relative to the node returned by Load(Source()).
	Path() string
}

// segmenter is implemented by nodes whose path segment differs from Name.
type segmenter interface {
	segment() string
}

func segmentOf(n Node) string {
	if s, ok := n.(segmenter); ok {
		return s.segment()
	}
	return n.Name()
}

// IsDocument reports whether path is loaded as a document rather than as a
// directory tree.
func IsDocument(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}

// Load opens path as a document when it has a YAML or JSON extension and as
// a filesystem node otherwise.
func Load(path string) (Node, error) {
	defer metrics.Timer(metrics.TreeLoad)()
	if IsDocument(path) {
		return LoadDocument(path)
	}
	return Open(path)
}

// Reload loads n's source again and returns the node at the same path.
func Reload(n Node) (Node, error) {
	top, err := Load(n.Source())
	if err != nil {
		return nil, err
	}
	return Find(top, n.Path())
}

// Parent returns n's parent as a tree node, or nil at the top.
func Parent(n Node) Node {
	p, _ := n.Parent().(Node)
	return p
}

// Find resolves a slash separated path relative to n. "." and empty
// segments are ignored, ".." moves to the parent, and sequence items match
// either "[i]" or a bare index. Document keys are matched in their escaped
// form, so "paths/~1users" finds the key "/users" under "paths".
func Find(n Node, rel string) (Node, error) {
	cur := n
	for _, seg := range PathSegments(rel) {
		switch seg {
		case ".":
			continue
		case "..":
			p := Parent(cur)
			if p == nil {
				return nil, fmt.Errorf("%w: %s: no parent above %q", ErrNotFound, rel, cur.Name())
			}
			cur = p
			continue
		}

		children, err := cur.Children()
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", cur.Name(), err)
		}
		next := matchSegment(children, seg)
		if next == nil {
			return nil, fmt.Errorf("%w: %s: no %q under %q", ErrNotFound, rel, seg, cur.Name())
		}
		cur = next
	}
	return cur, nil
}

func matchSegment(children []Node, seg string) Node {
	for _, c := range children {
		if segmentOf(c) == seg {
			return c
		}
	}
	if _, err := strconv.Atoi(seg); err == nil {
		want := "[" + seg + "]"
		for _, c := range children {
			if segmentOf(c) == want {
				return c
			}
		}
	}
	return nil
}

// PathSegments splits a slash or OS separated path into its non-empty
// segments.
func PathSegments(p string) []string {
	p = filepath.ToSlash(p)
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func joinPath(parent, seg string) string {
	if parent == "" {
		return seg
	}
	return parent + "/" + seg
}
