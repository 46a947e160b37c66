package tui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/nodeconfig"
	"github.com/lowapp/nodesim/internal/registry"
)

// recordsLoadedMsg carries the result of a record listing pass
type recordsLoadedMsg struct {
	items []list.Item
	err   error
}

// pickerKeyMap defines key bindings for the record picker screen
type pickerKeyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Enter, k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Enter},
		{k.Refresh, k.Quit},
	}
}

// recordItem wraps one node record file for use with bubbles/list
type recordItem struct {
	identity string // canonical identity when the file name is one
	nickname string // operator nickname from the registry, may be empty
	path     string
	summary  string // one-line record summary, or the reason it is unreadable
	readable bool
}

// FilterValue implements list.Item; records filter by identity, nickname,
// and file name.
func (r recordItem) FilterValue() string {
	return r.identity + " " + r.nickname + " " + filepath.Base(r.path)
}

// Title returns the record name for list display
func (r recordItem) Title() string {
	if r.nickname != "" {
		return r.nickname
	}
	if r.identity != "" {
		return "Node " + shortIdentity(r.identity)
	}
	return filepath.Base(r.path)
}

// Description returns record details for list display
func (r recordItem) Description() string {
	return r.summary
}

// shortIdentity abbreviates a canonical identity to its first hyphenated
// group for display.
func shortIdentity(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

// recordDelegate is a custom list delegate for rendering record cards
type recordDelegate struct {
	width int
}

func (d recordDelegate) Height() int { return 9 } // Card height including borders

func (d recordDelegate) Spacing() int { return 1 } // Spacing between cards

func (d recordDelegate) Update(msg tea.Msg, m *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	rec, ok := item.(recordItem)
	if !ok {
		return
	}

	selected := index == m.Index()

	// Build content lines
	var content strings.Builder

	if selected {
		content.WriteString(SelectedMenuItemStyle.Render("→ " + rec.Title()))
	} else {
		content.WriteString("  " + rec.Title())
	}
	content.WriteString("\n\n")

	id := rec.identity
	if id == "" {
		id = "(not a node identity)"
	}
	content.WriteString(fmt.Sprintf("  Identity: %s\n", id))
	content.WriteString(fmt.Sprintf("  Path:     %s\n", rec.path))

	if rec.readable {
		content.WriteString(fmt.Sprintf("  Record:   %s", rec.summary))
	} else {
		warnStyle := lipgloss.NewStyle().Foreground(WarningColor)
		content.WriteString("  Record:   " + warnStyle.Render(rec.summary))
	}

	// Responsive card style
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(BorderColor).
		Padding(1, 2).
		MarginLeft(2)

	cardWidth := d.width - 6 // 2 for margin-left, 4 for border + padding
	if cardWidth < MinTerminalWidth-6 {
		cardWidth = MinTerminalWidth - 6
	}
	if cardWidth > MaxContentWidth-6 {
		cardWidth = MaxContentWidth - 6
	}
	cardStyle = cardStyle.Width(cardWidth)

	if selected {
		cardStyle = cardStyle.BorderForeground(HighlightColor)
	}

	fmt.Fprint(w, cardStyle.Render(content.String()))
}

// PickerModel represents the record picker screen state
type PickerModel struct {
	// Listing state
	Loading    bool
	RecordList list.Model
	Selected   bool
	Err        error

	// Where records are looked for
	BaseDir string

	// UI state
	Width  int
	Height int
	Help   help.Model
	Keys   pickerKeyMap
}

// NewPickerModel creates a new record picker for the given base directory
func NewPickerModel(baseDir string) PickerModel {
	delegate := recordDelegate{width: MinTerminalWidth}
	recordList := list.New([]list.Item{}, delegate, 0, 0)
	recordList.Title = "Node Records"
	recordList.SetShowStatusBar(false)
	recordList.SetFilteringEnabled(true)
	recordList.Styles.Title = TitleStyle

	h := help.New()

	keys := pickerKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "edit"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc"),
			key.WithHelp("q", "quit"),
		),
	}

	return PickerModel{
		Loading:    true,
		RecordList: recordList,
		BaseDir:    baseDir,
		Help:       h,
		Keys:       keys,
	}
}

// setSize applies terminal dimensions to the model and its list
func (m *PickerModel) setSize(width, height int) {
	m.Width = width
	m.Height = height
	m.RecordList.SetWidth(width - 4)
	m.RecordList.SetHeight(height - 10) // Leave room for header/footer
	m.RecordList.SetDelegate(recordDelegate{width: width - 4})
}

// Init starts the initial record listing
func (m PickerModel) Init() tea.Cmd {
	return loadRecordsCmd(m.BaseDir)
}

// Update handles messages and updates the model
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.setSize(msg.Width, msg.Height)

	case recordsLoadedMsg:
		m.Loading = false
		m.Err = msg.err
		m.RecordList.SetItems(msg.items)
	}

	if !m.Loading {
		m.RecordList, cmd = m.RecordList.Update(msg)
	}

	return m, cmd
}

// updateNormalMode handles keyboard input on the record list
func (m PickerModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// While the filter input is open the list owns the keyboard
	if m.RecordList.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.RecordList, cmd = m.RecordList.Update(msg)
		return m, cmd
	}

	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit

	case "enter", " ":
		if m.RecordList.SelectedItem() != nil {
			m.Selected = true
		}
		return m, nil

	case "r":
		// Refresh the listing
		m.Loading = true
		m.Err = nil
		m.RecordList.SetItems([]list.Item{})
		return m, loadRecordsCmd(m.BaseDir)
	}

	// The list handles navigation and filtering keys
	var cmd tea.Cmd
	m.RecordList, cmd = m.RecordList.Update(msg)
	return m, cmd
}

// View renders the record picker screen
func (m PickerModel) View() string {
	var content string
	if m.Loading {
		content = m.renderLoading()
	} else {
		content = m.renderRecordResults()
	}

	helpText := m.Help.View(m.Keys)

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderLoading renders the brief listing-in-progress state
func (m PickerModel) renderLoading() string {
	return "\n" + RenderSubtitle(fmt.Sprintf("  Reading node records under %s...", m.nodesDir()))
}

// renderRecordResults renders the record list or a "nothing found" message
func (m PickerModel) renderRecordResults() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(RenderSubtitle("  Base directory: " + m.BaseDir))
	b.WriteString("\n\n")

	if m.Err != nil {
		b.WriteString(RenderError(fmt.Sprintf("Record listing failed: %v", m.Err)))
		b.WriteString("\n\n")
		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Check that the base directory exists and is readable\n")
		b.WriteString("    • Pass --directory to point at your simulation directory\n")
		b.WriteString("    • Press 'r' to retry\n")

	} else if len(m.RecordList.Items()) == 0 {
		b.WriteString("  ")
		warningStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		b.WriteString(warningStyle.Render("⚠ No node records found under " + m.nodesDir()))
		b.WriteString("\n\n")

		b.WriteString("  Troubleshooting:\n")
		b.WriteString("    • Create a node first with 'nodesim-cfg new'\n")
		b.WriteString("    • Pass --directory to point at your simulation directory\n")
		b.WriteString("    • Press 'r' to rescan after adding records\n")
		b.WriteString("\n")

	} else {
		b.WriteString(m.RecordList.View())
	}

	return b.String()
}

func (m PickerModel) nodesDir() string {
	return filepath.Join(m.BaseDir, identity.NodesSubdir)
}

// GetSelectedRecord returns the selected record item (if any)
func (m PickerModel) GetSelectedRecord() (recordItem, bool) {
	if m.Selected {
		if selectedItem := m.RecordList.SelectedItem(); selectedItem != nil {
			if item, ok := selectedItem.(recordItem); ok {
				return item, true
			}
		}
	}
	return recordItem{}, false
}

// loadRecordsCmd lists node records under the base directory and the
// registry as a command
func loadRecordsCmd(baseDir string) tea.Cmd {
	return func() tea.Msg {
		items, err := collectRecords(baseDir)
		return recordsLoadedMsg{
			items: items,
			err:   err,
		}
	}
}

// collectRecords gathers record files from <baseDir>/Nodes plus registry
// entries whose record files still exist elsewhere. Each record is loaded
// once for its summary line; unreadable files are listed, not dropped.
func collectRecords(baseDir string) ([]list.Item, error) {
	// Registry is optional here: without it there are no nicknames and no
	// extra entries, but the directory listing still works
	reg, _ := registry.LoadRegistry()

	nodesDir := filepath.Join(baseDir, identity.NodesSubdir)
	seenPath := make(map[string]bool)
	seenID := make(map[string]bool)
	var records []recordItem

	entries, err := os.ReadDir(nodesDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("cannot list %s: %w", nodesDir, err)
	}
	for _, entry := range entries {
		// Leftover atomic-write temp files are not records
		if entry.IsDir() || strings.HasSuffix(entry.Name(), ".tmp") {
			continue
		}
		item := newRecordItem(filepath.Join(nodesDir, entry.Name()), reg)
		records = append(records, item)
		seenPath[item.path] = true
		if item.identity != "" {
			seenID[item.identity] = true
		}
	}

	// Registry entries remember records created or edited in other
	// directories; list the ones whose files still exist
	if reg != nil {
		for id, node := range reg.Nodes {
			if node.LastPath == "" || seenPath[node.LastPath] || seenID[id] {
				continue
			}
			if _, err := os.Stat(node.LastPath); err != nil {
				continue
			}
			records = append(records, newRecordItem(node.LastPath, reg))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].identity != records[j].identity {
			return records[i].identity < records[j].identity
		}
		return records[i].path < records[j].path
	})

	items := make([]list.Item, len(records))
	for i, rec := range records {
		items[i] = rec
	}
	return items, nil
}

// newRecordItem builds the list entry for one record file
func newRecordItem(path string, reg *registry.Registry) recordItem {
	item := recordItem{path: path}

	if id, err := identity.Parse(filepath.Base(path)); err == nil {
		item.identity = id.String()
		if reg != nil {
			if node := reg.GetNode(item.identity); node != nil {
				item.nickname = node.Nickname
			}
		}
	}

	if rec, err := nodeconfig.Load(path); err == nil {
		item.summary = rec.Summary()
		item.readable = true
	} else {
		item.summary = "unreadable record"
	}

	return item
}
