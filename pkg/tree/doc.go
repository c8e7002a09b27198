package tree

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
)

// Text and comment children get segments starting with "~", which no escaped
// key can produce.
const (
	textSegment    = "~text"
	commentSegment = "~comment"
)

// Keys are escaped the way JSON pointers escape them so that a key holding a
// slash stays one segment and keeps a path of its own.
var segmentEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func escapeSegment(key string) string {
	return segmentEscaper.Replace(key)
}

// DocNode is a node of a parsed YAML or JSON document. Mapping entries are
// named by their key and addressed by the escaped key ("~" as "~0", "/" as
// "~1"), sequence items by "[i]". A scalar value becomes a leaf
// whose single text child carries the value; comments attached to a node
// become a comment child.
type DocNode struct {
	parent   *DocNode
	children []*DocNode

	kind   breadcrumb.Kind
	name   string
	seg    string
	path   string
	source string
	value  *yaml.Node
}

// LoadDocument reads and parses the document at path.
func LoadDocument(path string) (*DocNode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	root, err := ParseDocument(path, data)
	if err != nil {
		return nil, err
	}
	return root, nil
}

// ParseDocument parses data and returns the top content node, which is named
// after source. Its parent is the document node.
func ParseDocument(source string, data []byte) (*DocNode, error) {
	var yn yaml.Node
	if err := yaml.Unmarshal(data, &yn); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", source, err)
	}

	doc := &DocNode{
		kind:   breadcrumb.KindDocument,
		name:   filepath.Base(source),
		source: source,
		value:  &yn,
	}

	var content *yaml.Node
	if yn.Kind == yaml.DocumentNode && len(yn.Content) > 0 {
		content = yn.Content[0]
	}
	top := &DocNode{
		parent: doc,
		kind:   breadcrumb.KindContainer,
		name:   filepath.Base(source),
		source: source,
		value:  content,
	}
	doc.children = []*DocNode{top}
	if content != nil {
		top.fill(nil, content)
	}
	return top, nil
}

// fill sets n's kind from its value and builds its children. key is the
// mapping key node the value hangs from, if any.
func (n *DocNode) fill(key, v *yaml.Node) {
	n.value = v
	n.addComment(key, v)

	switch v.Kind {
	case yaml.MappingNode:
		n.kind = breadcrumb.KindContainer
		for i := 0; i+1 < len(v.Content); i += 2 {
			k, val := v.Content[i], v.Content[i+1]
			n.child(k.Value, escapeSegment(k.Value)).fill(k, val)
		}
	case yaml.SequenceNode:
		n.kind = breadcrumb.KindContainer
		for i, item := range v.Content {
			name := "[" + strconv.Itoa(i) + "]"
			n.child(name, name).fill(nil, item)
		}
	case yaml.ScalarNode:
		n.kind = breadcrumb.KindLeaf
		t := n.child(v.Value, textSegment)
		t.kind = breadcrumb.KindText
		t.value = v
	case yaml.AliasNode:
		n.kind = breadcrumb.KindOther
	}
}

func (n *DocNode) child(name, seg string) *DocNode {
	c := &DocNode{
		parent: n,
		name:   name,
		seg:    seg,
		path:   joinPath(n.path, seg),
		source: n.source,
	}
	n.children = append(n.children, c)
	return c
}

func (n *DocNode) addComment(key, v *yaml.Node) {
	var parts []string
	for _, yn := range []*yaml.Node{key, v} {
		if yn == nil {
			continue
		}
		for _, c := range []string{yn.HeadComment, yn.LineComment} {
			if text := commentText(c); text != "" {
				parts = append(parts, text)
			}
		}
	}
	if len(parts) == 0 {
		return
	}
	c := n.child(strings.Join(parts, " "), commentSegment)
	c.kind = breadcrumb.KindComment
}

func commentText(raw string) string {
	var lines []string
	for _, l := range strings.Split(raw, "\n") {
		l = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(l), "#"))
		if l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, " ")
}

func (n *DocNode) Parent() breadcrumb.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *DocNode) Kind() breadcrumb.Kind { return n.kind }
func (n *DocNode) Name() string          { return n.name }
func (n *DocNode) Source() string        { return n.source }
func (n *DocNode) Path() string          { return n.path }
func (n *DocNode) segment() string       { return n.seg }

func (n *DocNode) Key() string {
	if n.kind == breadcrumb.KindDocument {
		return n.source + "#document"
	}
	return n.source + "#/" + n.path
}

// Value returns the YAML node n was built from; nil for an empty document.
func (n *DocNode) Value() *yaml.Node { return n.value }

// Line returns the 1-based source line of n, or 0 when unknown.
func (n *DocNode) Line() int {
	if n.value == nil {
		return 0
	}
	return n.value.Line
}

func (n *DocNode) Children() ([]Node, error) {
	out := make([]Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out, nil
}
