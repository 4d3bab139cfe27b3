// Package tui is the interactive list. Every action is applied to the
// owner's store right away; there is nothing to save on quit.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/boundedtodo/internal/model"
	"github.com/idilsaglam/boundedtodo/internal/namespace"
	"github.com/idilsaglam/boundedtodo/internal/todolist"
	"github.com/idilsaglam/boundedtodo/internal/ui"
)

const (
	boxChecked   = "☑"
	boxUnchecked = "☐"
)

// listItem adapts a live entry to bubbles/list.Item
type listItem struct {
	todolist.Entry
}

func (i listItem) FilterValue() string { return i.Content }

// itemDelegate renders one line per item.
type itemDelegate struct{}

func (d itemDelegate) Height() int                               { return 1 }
func (d itemDelegate) Spacing() int                              { return 0 }
func (d itemDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	it, ok := item.(listItem)
	if !ok {
		return
	}
	box := ui.MutedStyle.Render(boxUnchecked)
	text := it.Content
	if it.Completed {
		box = ui.SuccessStyle.Render(boxChecked)
		text = ui.DoneStyle.Render(text)
	}
	prefix := "  "
	if index == m.Index() {
		prefix = ui.SelectedStyle.Render("> ")
	}
	fmt.Fprintf(w, "%s%s %s %s", prefix, box, ui.MutedStyle.Render(it.ID.Short()), text)
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAdd
	modeEdit
)

// Model is the Bubble Tea model of the interactive list.
type Model struct {
	ctx   context.Context
	ns    namespace.Namespace
	owner model.ID

	list list.Model
	ti   textinput.Model // shared by add & edit
	mode inputMode

	editID   model.ID
	inputErr string
	status   string
	err      error // last failed action, shown under the list

	// single-level undo of the last delete
	undo *model.Record

	width, height int
}

// New loads owner's list into a fresh model.
func New(ctx context.Context, ns namespace.Namespace, owner model.ID) (Model, error) {
	l := list.New(nil, itemDelegate{}, 0, 0)
	l.SetShowHelp(true)
	l.SetShowPagination(true)
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = ui.TitleStyle
	l.Styles.HelpStyle = ui.HelpStyle
	l.Styles.PaginationStyle = ui.HelpStyle
	l.FilterInput.Prompt = "/ "
	l.SetStatusBarItemName("item", "items")

	bindings := []key.Binding{
		key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
	}
	l.AdditionalShortHelpKeys = func() []key.Binding { return bindings }
	l.AdditionalFullHelpKeys = func() []key.Binding { return bindings }

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = todolist.MaxContentLen

	m := Model{
		ctx:    ctx,
		ns:     ns,
		owner:  owner,
		list:   l,
		ti:     ti,
		width:  80,
		height: 24,
	}
	if err := m.reload(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// Run starts the program on the terminal and blocks until the user quits.
func Run(ctx context.Context, ns namespace.Namespace, owner model.ID) error {
	m, err := New(ctx, ns, owner)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// reload re-reads the store and refreshes items and header.
func (m *Model) reload() error {
	var (
		entries []todolist.Entry
		slots   int
	)
	err := m.ns.View(m.ctx, m.owner, func(l *todolist.List) error {
		entries = l.Live()
		slots = len(l.Slots)
		return nil
	})
	if err != nil {
		return err
	}
	items := make([]list.Item, 0, len(entries))
	done := 0
	for _, e := range entries {
		items = append(items, listItem{Entry: e})
		if e.Completed {
			done++
		}
	}
	m.list.SetItems(items)
	m.list.Title = fmt.Sprintf("%s   %s %d  %s %d  %s %d/%d",
		ui.TitleStyle.Render("Todos"),
		ui.SuccessStyle.Render("✔"), done,
		ui.PendingStyle.Render("•"), len(entries)-done,
		ui.AccentStyle.Render("Slots"), slots, todolist.MaxTodoListLength,
	)
	return nil
}

// apply runs op against the store, then reloads.
func (m *Model) apply(op func(*todolist.List) error, okMsg string) bool {
	if err := m.ns.Mutate(m.ctx, m.owner, m.owner, op); err != nil {
		m.err = err
		m.status = ""
		return false
	}
	m.err = nil
	m.status = okMsg
	if err := m.reload(); err != nil {
		m.err = err
	}
	return true
}

func (m Model) selected() (listItem, bool) {
	it, ok := m.list.SelectedItem().(listItem)
	return it, ok
}

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width, m.height = ws.Width, ws.Height
	}
	if m.mode != modeBrowse {
		return m.updateInput(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok || m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch km.String() {
	case "q":
		return m, tea.Quit
	case "esc":
		// first esc clears an applied filter
		if m.list.FilterState() != list.Unfiltered {
			var cmd tea.Cmd
			m.list, cmd = m.list.Update(msg)
			return m, cmd
		}
		return m, tea.Quit
	case " ":
		if it, ok := m.selected(); ok {
			m.apply(func(l *todolist.List) error { return l.MarkDone(it.ID) }, "done")
		}
		return m, nil
	case "d":
		if it, ok := m.selected(); ok {
			rec := it.Record
			if m.apply(func(l *todolist.List) error { return l.Delete(rec.ID) }, fmt.Sprintf("freed slot %d", it.Slot)) {
				m.undo = &rec
			}
		}
		return m, nil
	case "u":
		if m.undo != nil {
			rec := *m.undo
			// same id and content; lands in the slot the delete just freed
			if m.apply(func(l *todolist.List) error {
				if _, err := l.Add(rec.ID, rec.Content); err != nil {
					return err
				}
				if rec.Completed {
					return l.MarkDone(rec.ID)
				}
				return nil
			}, "restored") {
				m.undo = nil
			}
		}
		return m, nil
	case "a":
		m.mode = modeAdd
		m.inputErr = ""
		m.ti.SetValue("")
		m.ti.Placeholder = "New item..."
		cmd := m.ti.Focus()
		return m, cmd
	case "e":
		if it, ok := m.selected(); ok {
			m.mode = modeEdit
			m.inputErr = ""
			m.editID = it.ID
			m.ti.SetValue(it.Content)
			m.ti.CursorEnd()
			m.ti.Placeholder = "Edit item..."
			cmd := m.ti.Focus()
			return m, cmd
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) updateInput(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "enter":
			content := strings.TrimSpace(m.ti.Value())
			if content == "" {
				m.inputErr = "content cannot be empty"
				return m, nil
			}
			var done bool
			if m.mode == modeAdd {
				id, err := model.NewID()
				if err != nil {
					m.inputErr = err.Error()
					return m, nil
				}
				done = m.apply(func(l *todolist.List) error {
					_, err := l.Add(id, content)
					return err
				}, "added")
			} else {
				id := m.editID
				done = m.apply(func(l *todolist.List) error { return l.UpdateContent(id, content) }, "updated")
			}
			if !done {
				m.inputErr = m.err.Error()
				m.err = nil
				return m, nil
			}
			m.closeInput()
			return m, nil
		case "esc":
			m.closeInput()
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.ti, cmd = m.ti.Update(msg)
	return m, cmd
}

func (m *Model) closeInput() {
	m.mode = modeBrowse
	m.inputErr = ""
	m.ti.SetValue("")
	m.ti.Blur()
}

func (m Model) View() string {
	listHeight := m.height - 4
	if m.mode != modeBrowse {
		listHeight -= 2
	}
	m.list.SetSize(m.width-2, listHeight)

	content := m.list.View()
	switch {
	case m.err != nil:
		content += "\n" + ui.ErrorStyle.Render("✖ "+m.err.Error())
	case m.status != "":
		content += "\n" + ui.SuccessStyle.Render("✔ "+m.status)
	}
	if m.mode != modeBrowse {
		title := "Add item"
		if m.mode == modeEdit {
			title = "Edit item"
		}
		if m.inputErr != "" {
			title += " - " + ui.ErrorStyle.Render(m.inputErr)
		}
		content += "\n" + ui.FrameStyle.Render(title+"\n"+m.ti.View())
	}
	return ui.FrameStyle.Render(content)
}
