package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/tree"
)

// childItem wraps a child of the selected node for the list.
type childItem struct {
	node  tree.Node
	label string
	title string
}

func (i childItem) FilterValue() string { return i.title }

// childDelegate renders one child per line: a kind marker followed by the
// label.
type childDelegate struct {
	theme Theme
}

func (d childDelegate) Height() int                               { return 1 }
func (d childDelegate) Spacing() int                              { return 0 }
func (d childDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d childDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(childItem)
	if !ok {
		return
	}
	width := m.Width()
	if width <= 0 {
		width = defaultWidth
	}
	// One cell short so the terminal never wraps on the last column
	width--

	marker := d.theme.ItemKind.Render(kindMarker(i.node.Kind()))
	text := i.label
	if i.title != "" && i.title != i.label {
		text = fmt.Sprintf("%s %s", i.label, d.theme.ItemKind.Render(i.title))
	}
	line := marker + " " + text

	st := d.theme.Item
	if index == m.Index() {
		st = d.theme.ItemSelected
	}
	fmt.Fprint(w, st.Render(lipgloss.NewStyle().MaxWidth(width-2).Render(line)))
}

func kindMarker(k breadcrumb.Kind) string {
	switch k {
	case breadcrumb.KindContainer:
		return "▸"
	case breadcrumb.KindLeaf:
		return "·"
	case breadcrumb.KindText:
		return "\""
	case breadcrumb.KindComment:
		return "#"
	default:
		return "?"
	}
}
