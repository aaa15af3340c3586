package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/alexanderramin/atest/internal/cli/formatter"
	"github.com/alexanderramin/atest/internal/domain"
	"github.com/alexanderramin/atest/internal/service"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

type browseKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	MoveUp      key.Binding
	MoveDown    key.Binding
	Collapse    key.Binding
	Expand      key.Binding
	Toggle      key.Binding
	AddCategory key.Binding
	AddTestCase key.Binding
	Remove      key.Binding
	Mark        key.Binding
	Reparent    key.Binding
	Edit        key.Binding
	Save        key.Binding
	Quit        key.Binding
	Cancel      key.Binding
}

func defaultBrowseKeys() browseKeyMap {
	return browseKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		MoveUp:      key.NewBinding(key.WithKeys("ctrl+up", "K"), key.WithHelp("ctrl+↑", "move up")),
		MoveDown:    key.NewBinding(key.WithKeys("ctrl+down", "J"), key.WithHelp("ctrl+↓", "move down")),
		Collapse:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←", "collapse")),
		Expand:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→", "expand")),
		Toggle:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "performed")),
		AddCategory: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "add category")),
		AddTestCase: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "add test")),
		Remove:      key.NewBinding(key.WithKeys("ctrl+d", "delete"), key.WithHelp("ctrl+d", "remove")),
		Mark:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark")),
		Reparent:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "put marked here")),
		Edit:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit")),
		Save:        key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	}
}

// pendingAction is a question waiting for y/n.
type pendingAction struct {
	prompt string
	run    func(m *browseModel) tea.Cmd
}

// browseModel is an interactive tree editor over one session.
type browseModel struct {
	ctx  context.Context
	app  *App
	sess *service.Session
	keys browseKeyMap

	items    []formatter.TreeItem
	cursor   int
	offset   int
	selected *domain.Node
	marked   *domain.Node

	form    *nodeForm
	pending *pendingAction

	status    string
	statusErr bool

	width, height int
	quitting      bool
}

func newBrowseModel(ctx context.Context, app *App, sess *service.Session) *browseModel {
	m := &browseModel{
		ctx:      ctx,
		app:      app,
		sess:     sess,
		keys:     defaultBrowseKeys(),
		selected: sess.Doc.Root(),
	}
	m.refresh()
	return m
}

func (m *browseModel) Init() tea.Cmd { return nil }

func (m *browseModel) ShortHelp() []key.Binding {
	if m.form != nil {
		return []key.Binding{
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "next")),
			m.keys.Cancel,
		}
	}
	return []key.Binding{
		m.keys.Toggle, m.keys.Edit, m.keys.AddCategory, m.keys.AddTestCase,
		m.keys.MoveUp, m.keys.MoveDown, m.keys.Remove, m.keys.Mark,
		m.keys.Reparent, m.keys.Save, m.keys.Quit,
	}
}

// refresh rebuilds the visible rows and keeps the cursor on the selected
// node. When that node is no longer visible the cursor stays at its index.
func (m *browseModel) refresh() {
	m.items = formatter.TreeItemsFor(m.sess.Doc, true)
	for i, it := range m.items {
		if it.Node == m.selected {
			m.cursor = i
			return
		}
	}
	m.cursor = clampInt(m.cursor, 0, len(m.items)-1)
	m.selected = m.items[m.cursor].Node
}

func (m *browseModel) selectNode(n *domain.Node) {
	m.selected = n
	m.refresh()
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if m.form != nil {
			m.form.Form = m.form.Form.WithWidth(msg.Width)
		}
		return m, nil
	case tea.KeyMsg:
		if m.form != nil {
			return m.updateForm(msg)
		}
		if m.pending != nil {
			return m.updatePending(msg)
		}
		return m.updateTree(msg)
	}
	if m.form != nil {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m *browseModel) updatePending(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.pending
	m.pending = nil
	if strings.EqualFold(msg.String(), "y") {
		return m, p.run(m)
	}
	m.setStatus("Cancelled.")
	return m, nil
}

func (m *browseModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && key.Matches(keyMsg, m.keys.Cancel) {
		m.form = nil
		m.setStatus("Edit cancelled.")
		return m, nil
	}

	updated, cmd := m.form.Form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form.Form = f
	}

	switch m.form.Form.State {
	case huh.StateCompleted:
		form := m.form
		m.form = nil
		changed, err := form.Apply()
		switch {
		case err != nil:
			m.setError(err)
		case changed:
			m.sess.Dirty = true
			m.refresh()
			m.setStatus(fmt.Sprintf("Updated %q.", form.node.Name()))
		default:
			m.setStatus("No changes.")
		}
		return m, nil
	case huh.StateAborted:
		m.form = nil
		m.setStatus("Edit cancelled.")
		return m, nil
	}
	return m, cmd
}

func (m *browseModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""
	sel := m.selected

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.sess.Dirty {
			m.confirm("Unsaved changes. Quit anyway? (y/n)", func(m *browseModel) tea.Cmd {
				m.quitting = true
				return tea.Quit
			})
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.marked != nil {
			m.marked = nil
			m.setStatus("Mark cleared.")
		}

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.selectNode(m.items[m.cursor-1].Node)
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.items)-1 {
			m.selectNode(m.items[m.cursor+1].Node)
		}

	case key.Matches(msg, m.keys.MoveUp):
		m.apply(func(d *domain.Document) error { return d.MoveWithinParent(sel, -1) })

	case key.Matches(msg, m.keys.MoveDown):
		m.apply(func(d *domain.Document) error { return d.MoveWithinParent(sel, 1) })

	case key.Matches(msg, m.keys.Collapse):
		switch {
		case sel.IsContainer() && sel.Expanded() && sel.ChildCount() > 0 && !m.sess.Doc.IsRoot(sel):
			m.setExpanded(sel, false)
		case sel.Parent() != nil:
			m.selectNode(sel.Parent())
		}

	case key.Matches(msg, m.keys.Expand):
		if sel.IsContainer() && !sel.Expanded() {
			m.setExpanded(sel, true)
		} else if sel.ChildCount() > 0 && m.cursor < len(m.items)-1 {
			m.selectNode(m.items[m.cursor+1].Node)
		}

	case key.Matches(msg, m.keys.Toggle):
		m.togglePerformed(sel)

	case key.Matches(msg, m.keys.AddCategory):
		m.addChild(domain.VariantCategory)

	case key.Matches(msg, m.keys.AddTestCase):
		m.addChild(domain.VariantTestCase)

	case key.Matches(msg, m.keys.Remove):
		if m.sess.Doc.IsRoot(sel) {
			m.setError(domain.ErrRootImmutable)
			break
		}
		m.confirm(fmt.Sprintf("Remove %q and everything under it? (y/n)", sel.Name()), func(m *browseModel) tea.Cmd {
			if m.marked != nil && (m.marked == sel || domain.IsDescendantOf(m.marked, sel)) {
				m.marked = nil
			}
			if m.apply(func(d *domain.Document) error { return d.Remove(sel) }) {
				m.setStatus(fmt.Sprintf("Removed %q.", sel.Name()))
			}
			return nil
		})

	case key.Matches(msg, m.keys.Mark):
		if m.sess.Doc.IsRoot(sel) {
			m.setError(domain.ErrRootImmutable)
			break
		}
		m.marked = sel
		m.setStatus(fmt.Sprintf("Marked %q. Select a category and press p.", sel.Name()))

	case key.Matches(msg, m.keys.Reparent):
		if m.marked == nil {
			m.setError(errors.New("nothing marked; press m on a node first"))
			break
		}
		moving := m.marked
		if m.apply(func(d *domain.Document) error { return d.Reparent(moving, sel) }) {
			sel.SetExpanded(true)
			m.marked = nil
			m.selectNode(moving)
			m.setStatus(fmt.Sprintf("Moved %q under %q.", moving.Name(), sel.Name()))
		}

	case key.Matches(msg, m.keys.Edit):
		m.form = newNodeForm(sel)
		if m.width > 0 {
			m.form.Form = m.form.Form.WithWidth(m.width)
		}
		return m, m.form.Form.Init()

	case key.Matches(msg, m.keys.Save):
		if err := m.app.Docs.Save(m.ctx, m.sess); err != nil {
			m.setError(err)
		} else {
			m.setStatus("Saved " + m.sess.Path)
		}
	}
	return m, nil
}

// apply runs a mutation through the session and refreshes the rows.
func (m *browseModel) apply(fn func(*domain.Document) error) bool {
	if err := m.sess.Apply(fn); err != nil {
		m.setError(err)
		return false
	}
	m.refresh()
	return true
}

func (m *browseModel) setExpanded(n *domain.Node, expanded bool) {
	m.apply(func(*domain.Document) error {
		n.SetExpanded(expanded)
		return nil
	})
}

func (m *browseModel) togglePerformed(n *domain.Node) {
	if _, err := n.Field(domain.FieldPerformed); err != nil {
		m.setError(fmt.Errorf("%s status follows its children", n.Variant()))
		return
	}
	m.apply(func(*domain.Document) error {
		return n.SetValue(domain.FieldPerformed, !n.Performed())
	})
}

// addChild appends a new node under the selection, or next to it when the
// selection is a leaf, and selects it.
func (m *browseModel) addChild(tag domain.Variant) {
	parent := m.selected
	if !parent.IsContainer() {
		parent = parent.Parent()
	}
	n, err := m.sess.Doc.Registry().New(tag)
	if err != nil {
		m.setError(err)
		return
	}
	if m.apply(func(d *domain.Document) error { return d.AddChild(parent, n) }) {
		parent.SetExpanded(true)
		m.selectNode(n)
		m.setStatus(fmt.Sprintf("Added %s. Press enter to edit.", tag))
	}
}

func (m *browseModel) confirm(prompt string, run func(m *browseModel) tea.Cmd) {
	m.pending = &pendingAction{prompt: prompt, run: run}
}

func (m *browseModel) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *browseModel) setError(err error) {
	m.status, m.statusErr = err.Error(), true
}

func (m *browseModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(formatter.StyleHeader.Render(m.sess.Title()))
	b.WriteString("  ")
	b.WriteString(formatter.RenderProgress(domain.Summarize(m.sess.Doc.Root()), 20))
	b.WriteString("\n\n")

	if m.form != nil {
		b.WriteString(m.form.Form.View())
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderRows())
	}

	b.WriteString("\n")
	switch {
	case m.pending != nil:
		b.WriteString(formatter.StyleYellowBold.Render(m.pending.prompt))
	case m.statusErr:
		b.WriteString(formatter.Error(m.status))
	case m.status != "":
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(m.renderHints())
	return b.String()
}

const browseChrome = 6

func (m *browseModel) renderRows() string {
	lines := formatter.RenderTreeLines(m.items)

	visible := len(lines)
	if m.height > browseChrome {
		visible = min(visible, m.height-browseChrome)
	}
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}

	var b strings.Builder
	for i := m.offset; i < m.offset+visible && i < len(lines); i++ {
		line := lines[i]
		marker := "  "
		if i == m.cursor {
			marker = formatter.StyleHeader.Render("› ")
			line = formatter.StyleCursor.Render(line)
		}
		if m.items[i].Node == m.marked {
			line += " " + formatter.StylePurple.Render("[marked]")
		}
		b.WriteString(marker + line + "\n")
	}
	return b.String()
}

func (m *browseModel) renderHints() string {
	var hints []string
	for _, k := range m.ShortHelp() {
		hints = append(hints, formatter.Dim(k.Help().Key+": "+k.Help().Desc))
	}
	bar := strings.Join(hints, "  ")
	if m.width > 0 {
		bar = lipgloss.NewStyle().Width(m.width).Render(bar)
	}
	return bar
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
