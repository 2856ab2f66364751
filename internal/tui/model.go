// Package tui provides the interactive terminal browser for toast history.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/jmylchreest/toasty/internal/core"
	"github.com/jmylchreest/toasty/internal/model"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

const titleMaxLen = 60

// Store is the history the browser reads and edits.
type Store interface {
	Load() ([]model.Record, error)
	Rewrite(records []model.Record) error
}

// ShowFunc shows a record again as a toast.
type ShowFunc func(rec model.Record) error

// Model is the history browser.
type Model struct {
	store Store
	show  ShowFunc

	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model
	help        help.Model

	// State
	records     []model.Record
	selected    *model.Record
	searchQuery string
	width       int
	height      int
	ready       bool

	keys KeyMap

	statusMsg string
	statusErr bool
}

// recordItem wraps a record for the list component.
type recordItem struct {
	record model.Record
}

func (i recordItem) Title() string {
	return i.record.TextTruncated(titleMaxLen)
}

func (i recordItem) Description() string {
	parts := []string{i.record.RelativeTime(), i.record.Duration.String()}
	if i.record.Style != "" {
		parts = append(parts, i.record.Style)
	}
	if i.record.Gravity != "" {
		parts = append(parts, string(i.record.Gravity))
	}
	return strings.Join(parts, " · ")
}

func (i recordItem) FilterValue() string {
	return i.record.Text
}

// New creates a browser over store. show may be nil, in which case the show
// key reports that re-showing is unavailable. query pre-fills the search.
func New(store Store, show ShowFunc, query string) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Toast History"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100
	searchInput.SetValue(query)

	return Model{
		store:       store,
		show:        show,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		searchQuery: query,
		help:        help.New(),
		keys:        DefaultKeyMap(),
	}
}

// Run starts the browser on the alternate screen and blocks until it quits.
func Run(store Store, show ShowFunc, query string, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	_, err := tea.NewProgram(New(store, show, query), opts...).Run()
	return err
}

type recordsMsg struct {
	records []model.Record
	err     error
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

// changedMsg reports the outcome of an action that changes history.
type changedMsg struct {
	text string
	err  error
}

// Init loads the history.
func (m Model) Init() tea.Cmd {
	return m.load
}

func (m Model) load() tea.Msg {
	records, err := m.store.Load()
	return recordsMsg{records: records, err: err}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		m.help.Width = msg.Width
		return m, nil

	case recordsMsg:
		if msg.err != nil {
			return m, status("Failed to load history: "+msg.err.Error(), true)
		}
		m.records = msg.records
		core.Sort(m.records, core.DefaultSortOptions())
		return m, m.list.SetItems(m.buildListItems())

	case changedMsg:
		if msg.err != nil {
			return m, status(msg.err.Error(), true)
		}
		return m, tea.Batch(status(msg.text, false), m.load)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeDetail:
		m.viewport, cmd = m.viewport.Update(msg)
	case ModeSearch:
		m.searchInput, cmd = m.searchInput.Update(msg)
	}
	return m, cmd
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// handleKey handles key presses. While searching, every key except ctrl+c
// goes to the search input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeSearch {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			m.openDetail(item.record)
		}
		return m, nil

	case key.Matches(msg, m.keys.Show):
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			return m, m.showRecord(item.record)
		}
		return m, nil

	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			return m, m.deleteRecord(item.record.ID)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.mode = ModeSearch
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.load
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Show):
		if m.selected != nil {
			return m, m.showRecord(*m.selected)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// handleSearchKey filters live on each keystroke. Esc clears the search;
// enter keeps it and opens the selected record.
func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		return m, m.list.SetItems(m.buildListItems())

	case tea.KeyEnter:
		m.mode = ModeList
		m.searchInput.Blur()
		if item, ok := m.list.SelectedItem().(recordItem); ok {
			m.openDetail(item.record)
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.searchQuery = m.searchInput.Value()
	return m, tea.Batch(cmd, m.list.SetItems(m.buildListItems()))
}

func (m *Model) openDetail(rec model.Record) {
	m.selected = &rec
	m.mode = ModeDetail
	m.viewport.SetContent(renderDetail(rec))
	m.viewport.GotoTop()
}

func (m Model) showRecord(rec model.Record) tea.Cmd {
	show := m.show
	return func() tea.Msg {
		if show == nil {
			return changedMsg{err: fmt.Errorf("showing toasts is not available")}
		}
		if err := show(rec); err != nil {
			return changedMsg{err: fmt.Errorf("failed to show toast: %w", err)}
		}
		return changedMsg{text: "Shown: " + rec.TextTruncated(40)}
	}
}

// deleteRecord rewrites history without the record. It reloads first so
// toasts recorded since the browser opened are kept.
func (m Model) deleteRecord(id string) tea.Cmd {
	store := m.store
	return func() tea.Msg {
		records, err := store.Load()
		if err != nil {
			return changedMsg{err: fmt.Errorf("failed to load history: %w", err)}
		}
		kept := make([]model.Record, 0, len(records))
		for _, r := range records {
			if r.ID != id {
				kept = append(kept, r)
			}
		}
		if len(kept) == len(records) {
			return changedMsg{err: fmt.Errorf("toast %s is no longer in history", id)}
		}
		if err := store.Rewrite(kept); err != nil {
			return changedMsg{err: fmt.Errorf("failed to delete toast: %w", err)}
		}
		return changedMsg{text: "Toast deleted"}
	}
}

// buildListItems creates list items from the records matching the search.
func (m Model) buildListItems() []list.Item {
	records := core.Search(m.records, m.searchQuery)
	items := make([]list.Item, len(records))
	for i, r := range records {
		items[i] = recordItem{record: r}
	}
	return items
}

// renderDetail renders the detail view for a record.
func renderDetail(r model.Record) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))
	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var b strings.Builder
	b.WriteString(headerStyle.Render(r.TextTruncated(titleMaxLen)) + "\n\n")

	b.WriteString(labelStyle.Render("ID: ") + r.ID + "\n")
	b.WriteString(labelStyle.Render("Time: ") + humanize.Time(r.TimestampTime()) +
		" (" + r.TimestampTime().Format(time.RFC3339) + ")\n")
	b.WriteString(labelStyle.Render("Duration: ") + r.Duration.String() + "\n")
	if r.DelayMS > 0 {
		b.WriteString(labelStyle.Render("Delay: ") + (time.Duration(r.DelayMS) * time.Millisecond).String() + "\n")
	}
	if r.Style != "" {
		b.WriteString(labelStyle.Render("Style: ") + r.Style + "\n")
	}
	if r.Gravity != "" {
		b.WriteString(labelStyle.Render("Gravity: ") + string(r.Gravity) + "\n")
	}

	b.WriteString("\n" + labelStyle.Render("Text:") + "\n")
	b.WriteString(r.Text + "\n")
	return b.String()
}

// View renders the browser.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.list.View() + "\n" + m.footer()
	case ModeDetail:
		header := lipgloss.NewStyle().Bold(true).Padding(0, 1).Render("Toast Detail")
		return header + "\n" + m.viewport.View() + "\n" + m.footer()
	case ModeSearch:
		count := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).
			Render(fmt.Sprintf("(%d matches)", len(m.list.Items())))
		return "Search: " + m.searchInput.View() + " " + count + "\n" + m.list.View()
	case ModeHelp:
		h := m.help
		h.ShowAll = true
		title := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Render("Keyboard Shortcuts")
		return title + "\n\n" + h.View(m.keys) + "\n\n" +
			lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("Press ? or esc to return")
	default:
		return ""
	}
}

// footer shows the status message when there is one, otherwise short help.
func (m Model) footer() string {
	if m.statusMsg == "" {
		return m.help.View(m.keys)
	}
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	if m.statusErr {
		style = style.Foreground(lipgloss.Color("9"))
	}
	return style.Render(m.statusMsg)
}
