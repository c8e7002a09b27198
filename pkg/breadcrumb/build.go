package breadcrumb

// Kind classifies a node for labelling.
type Kind int

const (
	KindContainer Kind = iota
	KindLeaf
	KindText
	KindComment
	KindDocument
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindContainer:
		return "container"
	case KindLeaf:
		return "leaf"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	case KindDocument:
		return "document"
	default:
		return "other"
	}
}

// Node is an item in a hierarchy that can be shown as a crumb.
//
// Parent must return an untyped nil at the top of the hierarchy. Key must be
// stable across reloads of the same source; it is the identity used when
// matching crumbs to nodes.
type Node interface {
	Parent() Node
	Kind() Kind
	Name() string
	Key() string
}

// LabelFunc decorates a node: label is the text shown on the crumb at full
// size, title is the longer description.
type LabelFunc func(n Node) (label, title string)

// DefaultLabel labels containers and leaves by name and gives text and
// comment nodes a fixed marker.
func DefaultLabel(n Node) (string, string) {
	switch n.Kind() {
	case KindText:
		return "(text)", n.Name()
	case KindComment:
		return "#", n.Name()
	default:
		return n.Name(), n.Name()
	}
}

// Build returns a trail for selected and its ancestors. Document nodes are
// skipped. The scope root and every crumb above it are dimmed.
func Build(selected, root Node, label LabelFunc) *Trail {
	if label == nil {
		label = DefaultLabel
	}
	t := &Trail{}
	foundRoot := false
	for n := selected; n != nil; n = n.Parent() {
		if n.Kind() == KindDocument {
			continue
		}
		if root != nil && sameNode(n, root) {
			foundRoot = true
		}
		text, title := label(n)
		t.crumbs = append(t.crumbs, &Crumb{
			Label:    text,
			Title:    title,
			Node:     n,
			Dimmed:   foundRoot,
			Selected: sameNode(n, selected),
			End:      len(t.crumbs) == 0,
		})
	}
	if len(t.crumbs) > 0 {
		t.crumbs[len(t.crumbs)-1].Start = true
	}
	return t
}

// Refresh updates the dimmed and selected flags of t for a new selection or
// scope root. When the selected node is already part of t and force is false
// the same trail is returned and rebuilt is false; the caller only needs to
// fit it again. Otherwise a new trail is built.
func Refresh(t *Trail, selected, root Node, label LabelFunc, force bool) (trail *Trail, rebuilt bool) {
	if t != nil && selected != nil && !force {
		handled := false
		foundRoot := false
		for _, c := range t.crumbs {
			if root != nil && sameNode(c.Node, root) {
				foundRoot = true
			}
			c.Dimmed = foundRoot
			c.Selected = !handled && sameNode(c.Node, selected)
			if c.Selected {
				handled = true
			}
		}
		if handled {
			return t, false
		}
	}
	return Build(selected, root, label), true
}

// ExposeTarget returns the crumb that should become focused when the crumb
// at index i is clicked. ok is false when that crumb is not collapsed, in
// which case a click selects it instead.
//
// Clicking the innermost collapsed crumb focuses the farthest crumb of the
// hidden or collapsed run that starts there, so repeated clicks can expose
// every crumb.
func ExposeTarget(t *Trail, i int) (target int, ok bool) {
	c := t.At(i)
	if c == nil || c.Tier != TierCollapsed {
		return -1, false
	}
	if i != 0 {
		return i, true
	}
	target = i
	for j := i; j < t.Len(); j++ {
		tier := t.crumbs[j].Tier
		if tier != TierHidden && tier != TierCollapsed {
			break
		}
		target = j
	}
	return target, true
}

func sameNode(a, b Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.Key() == b.Key()
}
