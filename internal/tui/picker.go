// Package tui implements the interactive recording picker shown by the
// list command.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dshills/replaykit/internal/store"
)

type mode int

const (
	modeList mode = iota
	modeSearch
)

// Model is the bubbletea model for the recording picker.
type Model struct {
	recordings  []store.Info
	filtered    []store.Info
	cursor      int
	offset      int
	width       int
	height      int
	mode        mode
	searchInput textinput.Model
	selected    string
	quitting    bool
}

// NewModel creates a picker over the given recordings, assumed already
// sorted newest first.
func NewModel(recordings []store.Info) Model {
	si := textinput.New()
	si.Placeholder = "search..."
	si.CharLimit = 100

	m := Model{
		recordings:  recordings,
		searchInput: si,
		width:       100,
		height:      24,
	}
	m.applyFilter()
	return m
}

func (m *Model) applyFilter() {
	m.filtered = nil
	search := strings.ToLower(m.searchInput.Value())

	for _, rec := range m.recordings {
		if search != "" {
			haystack := strings.ToLower(rec.ID + " " + rec.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		m.filtered = append(m.filtered, rec)
	}

	if m.cursor >= len(m.filtered) {
		m.cursor = max(0, len(m.filtered)-1)
	}
	m.clampOffset()
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.clampOffset()
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeSearch {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
			m.clampOffset()
		}

	case "down", "j":
		if m.cursor < len(m.filtered)-1 {
			m.cursor++
			m.clampOffset()
		}

	case "home", "g":
		m.cursor = 0
		m.clampOffset()

	case "end", "G":
		m.cursor = max(0, len(m.filtered)-1)
		m.clampOffset()

	case "enter":
		if len(m.filtered) > 0 {
			m.selected = m.filtered[m.cursor].ID
			m.quitting = true
			return m, tea.Quit
		}

	case "/":
		m.searchInput.Focus()
		m.mode = modeSearch
	}

	return m, nil
}

func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter", "esc":
		m.searchInput.Blur()
		m.mode = modeList
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	m.applyFilter()
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	title := titleStyle.Render("Recordings")
	count := dimStyle.Render(fmt.Sprintf("  %d recordings", len(m.filtered)))
	b.WriteString(title + count + "\n")
	b.WriteString(m.renderHeader() + "\n")

	visible := m.visibleRows()
	end := m.offset + visible
	if end > len(m.filtered) {
		end = len(m.filtered)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.filtered[i], i == m.cursor) + "\n")
	}
	for i := end - m.offset; i < visible; i++ {
		b.WriteString("\n")
	}

	if m.mode == modeSearch {
		b.WriteString(statusBarStyle.Render("Search: ") + m.searchInput.View())
	} else {
		b.WriteString(helpStyle.Render("  Enter: play  /: search  q: quit"))
	}
	return b.String()
}

func (m Model) renderHeader() string {
	w := m.colWidths()
	cols := []string{
		pad("ID", w.id),
		pad("Created", w.created),
		pad("Duration", w.duration),
		pad("Cmds", w.commands),
		pad("Description", w.description),
	}
	return headerStyle.Render(strings.Join(cols, " "))
}

func (m Model) renderRow(rec store.Info, selected bool) string {
	w := m.colWidths()

	created := ""
	if !rec.Created.IsZero() {
		created = rec.Created.Format("2006-01-02 15:04")
	}
	cols := []string{
		pad(rec.ID, w.id),
		pad(created, w.created),
		pad(fmt.Sprintf("%.1fs", rec.Duration), w.duration),
		pad(fmt.Sprintf("%d", rec.Commands), w.commands),
		pad(rec.Description, w.description),
	}
	row := strings.Join(cols, " ")

	if selected {
		row = selectedStyle.Render(row)
		row = lipgloss.PlaceHorizontal(m.width, lipgloss.Left, row)
	}
	return row
}

type colWidths struct {
	id          int
	created     int
	duration    int
	commands    int
	description int
}

func (m Model) colWidths() colWidths {
	w := colWidths{
		id:       8,
		created:  17,
		duration: 9,
		commands: 5,
	}
	used := w.id + w.created + w.duration + w.commands + 6
	w.description = m.width - used
	if w.description < 16 {
		w.description = 16
	}
	return w
}

func (m Model) visibleRows() int {
	rows := m.height - 4
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m *Model) clampOffset() {
	visible := m.visibleRows()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+visible {
		m.offset = m.cursor - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// Selected returns the chosen recording id, or "" if the picker was
// dismissed.
func (m Model) Selected() string {
	return m.selected
}

// Run shows the picker and returns the chosen recording id.
func Run(recordings []store.Info) (string, error) {
	p := tea.NewProgram(NewModel(recordings), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("run picker: %w", err)
	}
	model, ok := final.(Model)
	if !ok {
		return "", fmt.Errorf("unexpected model type %T", final)
	}
	return model.Selected(), nil
}

// pad fits s to the given display width, truncating on cell boundaries so
// wide runes (CJK, emoji) cannot misalign the columns.
func pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w <= width {
		return s + strings.Repeat(" ", width-w)
	}

	var b strings.Builder
	w = 0
	for _, r := range s {
		rw := lipgloss.Width(string(r))
		if w+rw > width {
			break
		}
		b.WriteRune(r)
		w += rw
	}
	return b.String() + strings.Repeat(" ", width-w)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
