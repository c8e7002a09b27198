package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/vanderheijden86/crumbbar/pkg/breadcrumb"
	"github.com/vanderheijden86/crumbbar/pkg/debug"
	"github.com/vanderheijden86/crumbbar/pkg/tree"
	"github.com/vanderheijden86/crumbbar/pkg/watcher"
)

const (
	defaultWidth         = 80
	defaultHeight        = 24
	defaultMouseOutDelay = time.Second
	barRow               = 0
)

// FileChangedMsg is sent when the watched source changes on disk.
type FileChangedMsg struct{}

// mouseOutTickMsg fires the deferred refit scheduled when the pointer leaves
// the bar. Only the tick carrying the current generation is applied.
type mouseOutTickMsg struct {
	gen int
}

// WatchFileCmd returns a command that waits for a change and sends
// FileChangedMsg.
func WatchFileCmd(w *watcher.Watcher) tea.Cmd {
	return func() tea.Msg {
		<-w.Changed()
		return FileChangedMsg{}
	}
}

func mouseOutTickCmd(d time.Duration, gen int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return mouseOutTickMsg{gen: gen}
	})
}

// Options configures the panel.
type Options struct {
	Bar           BarOptions
	MouseOutDelay time.Duration
	Theme         *Theme
	Watcher       *watcher.Watcher
	Label         breadcrumb.LabelFunc
	Root          tree.Node // initial scope root, nil for none
}

// Model is the crumb bar panel: the bar on top, the selected node's
// children below it and a status line at the bottom.
type Model struct {
	theme   Theme
	bar     *Bar
	list    list.Model
	label   breadcrumb.LabelFunc
	watcher *watcher.Watcher

	selected tree.Node
	root     tree.Node

	width, height int

	mouseOutDelay time.Duration
	mouseGen      int
	mouseInBar    bool

	statusMsg     string
	statusIsError bool

	showHelp   bool
	helpWidth  int
	helpRender string
}

// NewModel returns a panel with selected as the current node.
func NewModel(selected tree.Node, opts Options) Model {
	theme := TestTheme()
	if opts.Theme != nil {
		theme = *opts.Theme
	}
	label := opts.Label
	if label == nil {
		label = breadcrumb.DefaultLabel
	}
	delay := opts.MouseOutDelay
	if delay <= 0 {
		delay = defaultMouseOutDelay
	}

	l := list.New(nil, childDelegate{theme: theme}, defaultWidth, defaultHeight-2)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(true)

	m := Model{
		theme:         theme,
		bar:           NewBar(theme, opts.Bar),
		list:          l,
		label:         label,
		watcher:       opts.Watcher,
		root:          opts.Root,
		width:         defaultWidth,
		height:        defaultHeight,
		mouseOutDelay: delay,
	}
	m.bar.Layout(m.width)
	m.selectNode(selected, true)
	return m
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return WatchFileCmd(m.watcher)
	}
	return nil
}

// Bar returns the breadcrumb bar.
func (m Model) Bar() *Bar { return m.bar }

// Selected returns the selected node.
func (m Model) Selected() tree.Node { return m.selected }

// Root returns the scope root, or nil.
func (m Model) Root() tree.Node { return m.root }

// Status returns the status line message and whether it is an error.
func (m Model) Status() (string, bool) { return m.statusMsg, m.statusIsError }

func (m *Model) setStatus(msg string, isErr bool) {
	m.statusMsg = msg
	m.statusIsError = isErr
}

// rootNode converts the scope root for the breadcrumb package, keeping a
// nil root untyped.
func (m *Model) rootNode() breadcrumb.Node {
	if m.root == nil {
		return nil
	}
	return m.root
}

// selectNode makes n the selected node. The trail is kept when n is already
// on it, so descendants of n stay visible on the child side.
func (m *Model) selectNode(n tree.Node, force bool) {
	if n == nil {
		return
	}
	m.selected = n
	trail, rebuilt := breadcrumb.Refresh(m.bar.Trail(), n, m.rootNode(), m.label, force)
	if rebuilt {
		m.bar.SetTrail(trail)
	} else {
		m.bar.Unfocus()
	}
	m.loadChildren()
}

func (m *Model) loadChildren() {
	children, err := m.selected.Children()
	if err != nil {
		m.setStatus(fmt.Sprintf("Error: %v", err), true)
		children = nil
	}
	items := make([]list.Item, len(children))
	for i, c := range children {
		text, title := m.label(c)
		items[i] = childItem{node: c, label: text, title: title}
	}
	m.list.ResetFilter()
	m.list.SetItems(items)
	m.list.Select(0)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.bar.Resize(m.width)
		m.list.SetSize(m.width, max(m.height-2, 1))
		if m.showHelp {
			m.renderHelp()
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case mouseOutTickMsg:
		if msg.gen == m.mouseGen && !m.mouseInBar {
			debug.Log("ui: deferred refit after mouse out")
			m.bar.Unfocus()
		}
		return m, nil

	case FileChangedMsg:
		m.reload()
		if m.watcher != nil {
			cmds = append(cmds, WatchFileCmd(m.watcher))
		}
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if m.showHelp {
		switch msg.String() {
		case "?", "esc", "q":
			m.showHelp = false
		case "ctrl+c":
			return tea.Quit, true
		}
		return nil, true
	}

	switch msg.String() {
	case "q", "ctrl+c":
		return tea.Quit, true

	case "?":
		m.showHelp = true
		m.renderHelp()

	case "enter", "l", "right":
		if it, ok := m.list.SelectedItem().(childItem); ok {
			m.selectNode(it.node, false)
			m.setStatus("", false)
		}

	case "h", "left", "backspace":
		p := tree.Parent(m.selected)
		if p == nil || p.Kind() == breadcrumb.KindDocument {
			m.setStatus("Already at the top", false)
			break
		}
		m.selectNode(p, false)
		m.setStatus("", false)

	case "L":
		t := m.bar.Trail()
		i := t.SelectedIndex()
		if i <= 0 {
			m.setStatus("No deeper crumb", false)
			break
		}
		if n, ok := t.At(i - 1).Node.(tree.Node); ok {
			m.selectNode(n, false)
			m.setStatus("", false)
		}

	case "r":
		m.root = m.selected
		m.selectNode(m.selected, false)
		m.setStatus(fmt.Sprintf("Scope root: %s", m.selected.Name()), false)

	case "R":
		m.root = nil
		m.selectNode(m.selected, false)
		m.setStatus("Scope root cleared", false)

	case "y":
		path := m.selected.Key()
		if err := clipboard.WriteAll(path); err != nil {
			m.setStatus(fmt.Sprintf("Clipboard error: %v", err), true)
		} else {
			m.setStatus(fmt.Sprintf("Copied %s to clipboard", path), false)
		}

	default:
		return nil, false
	}
	return nil, true
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	inBar := msg.Y == barRow
	idx := -1
	if inBar {
		idx = m.bar.HitTest(msg.X)
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		if inBar {
			// Moving inside the bar cancels a pending deferred refit.
			m.mouseInBar = true
			m.mouseGen++
			m.bar.SetHover(idx)
			return m, nil
		}
		if m.mouseInBar {
			m.mouseInBar = false
			m.bar.SetHover(-1)
			m.mouseGen++
			return m, mouseOutTickCmd(m.mouseOutDelay, m.mouseGen)
		}

	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft && idx >= 0 {
			m.clickCrumb(idx)
		}
	}
	return m, nil
}

// clickCrumb exposes hidden crumbs when a collapsed crumb is clicked and
// selects the crumb's node otherwise.
func (m *Model) clickCrumb(i int) {
	t := m.bar.Trail()
	if target, ok := breadcrumb.ExposeTarget(t, i); ok {
		m.bar.Focus(target)
		return
	}
	if n, ok := t.At(i).Node.(tree.Node); ok {
		m.selectNode(n, false)
		m.setStatus("", false)
	}
}

// reload re-reads the source and reselects the deepest node that still
// exists on the selected node's path.
func (m *Model) reload() {
	var fresh tree.Node
	var firstErr error
	lost := m.selected.Name()
	for cur := m.selected; cur != nil; cur = tree.Parent(cur) {
		n, err := tree.Reload(cur)
		if err == nil {
			fresh = n
			break
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if fresh == nil {
		m.setStatus(fmt.Sprintf("Reload failed: %v", firstErr), true)
		return
	}
	if m.root != nil {
		if r, err := tree.Reload(m.root); err == nil {
			m.root = r
		} else {
			m.root = nil
		}
	}
	m.selectNode(fresh, true)
	if firstErr != nil {
		m.setStatus(fmt.Sprintf("Reloaded; %s no longer exists", lost), true)
	} else {
		m.setStatus("Reloaded", false)
	}
}

func (m *Model) renderHelp() {
	width := max(m.width-4, 20)
	if m.helpRender != "" && m.helpWidth == width {
		return
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	out := helpMarkdown
	if err == nil {
		if rendered, err := r.Render(helpMarkdown); err == nil {
			out = rendered
		}
	}
	m.helpRender, m.helpWidth = out, width
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.bar.View())
	sb.WriteByte('\n')

	if m.showHelp {
		if m.helpRender != "" {
			sb.WriteString(m.helpRender)
		} else {
			sb.WriteString(helpMarkdown)
		}
		return sb.String()
	}

	sb.WriteString(m.list.View())
	sb.WriteByte('\n')
	sb.WriteString(m.statusLine())
	return sb.String()
}

func (m Model) statusLine() string {
	if c := m.bar.Trail().At(m.bar.Hover()); c != nil {
		return m.theme.Status.Render(c.Title)
	}
	if m.statusMsg != "" {
		if m.statusIsError {
			return m.theme.StatusError.Render(m.statusMsg)
		}
		return m.theme.Status.Render(m.statusMsg)
	}
	line := m.bar.Trail().Path("/")
	if m.root != nil {
		line += "  (root: " + m.root.Name() + ")"
	}
	return m.theme.Status.Render(lipgloss.NewStyle().MaxWidth(max(m.width, 1)).Render(line))
}

const helpMarkdown = `# Keys

| Key | Action |
|---|---|
| enter, l | open the highlighted child |
| h, backspace | select the parent |
| L | select the next crumb toward the leaf |
| r | make the selection the scope root |
| R | clear the scope root |
| y | copy the selection's path |
| / | filter children |
| ? | toggle this help |
| q | quit |

Click a crumb to select it. Click a collapsed crumb to expand the crumbs
around it; the bar shrinks again a moment after the pointer leaves it.
`
