package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lowapp/nodesim/internal/identity"
	"github.com/lowapp/nodesim/internal/nodeconfig"
	"github.com/lowapp/nodesim/internal/registry"
)

// saveCompleteMsg carries the result of writing the record back to disk
type saveCompleteMsg struct {
	err error
}

// editorKeyMap defines key bindings for the record editor screen
type editorKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Edit key.Binding
	Save key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Edit, k.Save, k.Back, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k editorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Edit},
		{k.Save, k.Back, k.Quit},
	}
}

// editingKeyMap defines key bindings while a field edit is open
type editingKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k editingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k editingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// EditorModel represents the record editor screen state
type EditorModel struct {
	// Record being edited. Original holds the last saved state, Pending
	// accumulates edits until the next save.
	Path     string
	Identity string // canonical identity when the file name is one
	Original *nodeconfig.Record
	Pending  *nodeconfig.Record

	// Field navigation. Cursor ranges over the field rows plus one final
	// position for the save button.
	FieldKeys []string
	Cursor    int

	// Inline field editing
	Editing  bool
	Input    textinput.Model
	FieldErr string

	// Save state
	Saving    bool
	SaveErr   error
	LastSaved time.Time

	// Set when the user wants to return to the record picker
	BackRequested bool

	// UI state
	Width    int
	Height   int
	Help     help.Model
	Keys     editorKeyMap
	EditKeys editingKeyMap
}

// NewEditorModel creates a record editor for a loaded record
func NewEditorModel(path string, rec *nodeconfig.Record) EditorModel {
	input := textinput.New()
	input.CharLimit = nodeconfig.MaxValueLen
	input.Width = 40

	var id string
	if parsed, err := identity.Parse(filepath.Base(path)); err == nil {
		id = parsed.String()
	}

	keys := editorKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "move down"),
		),
		Edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit field"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	editKeys := editingKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "apply"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return EditorModel{
		Path:      path,
		Identity:  id,
		Original:  rec.Clone(),
		Pending:   rec.Clone(),
		FieldKeys: nodeconfig.Keys(),
		Input:     input,
		Help:      help.New(),
		Keys:      keys,
		EditKeys:  editKeys,
	}
}

// Init implements tea.Model; the record is loaded before the editor opens
func (m EditorModel) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model
func (m EditorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.Editing {
			return m.updateFieldEditor(msg)
		}
		return m.updateNormalMode(msg)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case saveCompleteMsg:
		m.Saving = false
		m.SaveErr = msg.err
		if msg.err == nil {
			m.Original = m.Pending.Clone()
			m.LastSaved = time.Now()
		}
	}

	// Cursor blink and other component messages reach the input while an
	// edit is open
	if m.Editing {
		var cmd tea.Cmd
		m.Input, cmd = m.Input.Update(msg)
		return m, cmd
	}

	return m, nil
}

// updateNormalMode handles keyboard input while navigating the field list
func (m EditorModel) updateNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	saveIdx := len(m.FieldKeys)

	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "esc":
		m.BackRequested = true
		return m, nil

	case "up", "k":
		if m.Cursor == 0 {
			m.Cursor = saveIdx
		} else {
			m.Cursor--
		}

	case "down", "j":
		if m.Cursor == saveIdx {
			m.Cursor = 0
		} else {
			m.Cursor++
		}

	case "enter", " ":
		if m.Cursor == saveIdx {
			return m.startSave()
		}
		return m.startEditing()

	case "s":
		return m.startSave()
	}

	return m, nil
}

// startEditing opens the inline editor on the field under the cursor
func (m EditorModel) startEditing() (tea.Model, tea.Cmd) {
	fieldKey := m.FieldKeys[m.Cursor]
	current, _ := m.Pending.Get(fieldKey)

	m.Editing = true
	m.FieldErr = ""
	m.Input.SetValue(current)
	m.Input.Placeholder = nodeconfig.FieldHint(fieldKey)
	m.Input.CursorEnd()
	m.Input.Focus()

	return m, textinput.Blink
}

// updateFieldEditor handles keyboard input while a field edit is open
func (m EditorModel) updateFieldEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		// Discard the edit
		m.Editing = false
		m.FieldErr = ""
		m.Input.Blur()
		return m, nil

	case "enter":
		value := strings.TrimSpace(m.Input.Value())
		if value == "" {
			// Empty input keeps the current value
			m.Editing = false
			m.FieldErr = ""
			m.Input.Blur()
			return m, nil
		}

		fieldKey := m.FieldKeys[m.Cursor]
		if err := m.Pending.Set(fieldKey, value); err != nil {
			var cfgErr *nodeconfig.ConfigError
			if errors.As(err, &cfgErr) {
				m.FieldErr = cfgErr.Message
			} else {
				m.FieldErr = err.Error()
			}
			return m, nil
		}

		m.Editing = false
		m.FieldErr = ""
		m.Input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.Input, cmd = m.Input.Update(msg)
	return m, cmd
}

// startSave writes the pending record back to its file
func (m EditorModel) startSave() (tea.Model, tea.Cmd) {
	if m.Saving {
		return m, nil
	}
	m.Saving = true
	m.SaveErr = nil
	return m, saveRecordCmd(m.Pending.Clone(), m.Path, m.Identity)
}

// saveRecordCmd writes a record snapshot to disk as a command
func saveRecordCmd(rec *nodeconfig.Record, path, id string) tea.Cmd {
	return func() tea.Msg {
		if err := rec.Save(path); err != nil {
			return saveCompleteMsg{err: err}
		}
		// Registry bookkeeping is best effort; the record itself is
		// already on disk
		if id != "" {
			if reg, err := registry.LoadRegistry(); err == nil {
				reg.RecordNodePath(id, path, registry.SourceWizard)
				_ = reg.Save()
			}
		}
		return saveCompleteMsg{}
	}
}

// isFieldChanged reports whether a field differs from its last saved value
func (m EditorModel) isFieldChanged(key string) bool {
	pending, err1 := m.Pending.Get(key)
	original, err2 := m.Original.Get(key)
	return err1 == nil && err2 == nil && pending != original
}

// hasUnsavedChanges reports whether any field differs from the saved record
func (m EditorModel) hasUnsavedChanges() bool {
	for _, key := range m.FieldKeys {
		if m.isFieldChanged(key) {
			return true
		}
	}
	return false
}

// View renders the record editor screen
func (m EditorModel) View() string {
	content := m.renderEditorContent()

	var helpText string
	if m.Editing {
		helpText = m.Help.View(m.EditKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}

	return RenderApplicationContainer(content, helpText, m.Width, m.Height)
}

// renderEditorContent renders the record header, field rows, and save button
func (m EditorModel) renderEditorContent() string {
	var b strings.Builder

	name := m.Identity
	if name == "" {
		name = filepath.Base(m.Path)
	}

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Bold(true).Render("  Node: " + name))
	b.WriteString("\n")
	b.WriteString(RenderSubtitle("  " + m.Path))
	b.WriteString("\n\n")
	b.WriteString("  " + m.renderStatusLine())
	b.WriteString("\n")
	b.WriteString("  " + strings.Repeat("─", 60))
	b.WriteString("\n\n")

	for i := range m.FieldKeys {
		b.WriteString(m.renderFieldLine(i))
		b.WriteString("\n")
		if m.Editing && m.Cursor == i {
			b.WriteString(m.renderInlineEditor())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(m.renderSaveButton())
	b.WriteString("\n")

	return b.String()
}

// renderStatusLine renders the save state shown above the field list
func (m EditorModel) renderStatusLine() string {
	switch {
	case m.Saving:
		return RenderSubtitle("Saving...")
	case m.SaveErr != nil:
		errStyle := lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
		return errStyle.Render(fmt.Sprintf("✗ Save failed: %v", m.SaveErr))
	case m.hasUnsavedChanges():
		warnStyle := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
		return warnStyle.Render("⚠ Unsaved changes")
	case !m.LastSaved.IsZero() && time.Since(m.LastSaved) < time.Minute:
		okStyle := lipgloss.NewStyle().Foreground(SecondaryColor)
		return okStyle.Render("✓ Saved")
	}
	return RenderSubtitle("No unsaved changes")
}

// renderFieldLine renders one field row
func (m EditorModel) renderFieldLine(idx int) string {
	fieldKey := m.FieldKeys[idx]
	value, _ := m.Pending.Get(fieldKey)
	selected := m.Cursor == idx && !m.Editing

	arrow := "  "
	keyStyle := lipgloss.NewStyle().Width(14).Foreground(SubtleColor)
	if selected {
		arrow = lipgloss.NewStyle().Foreground(HighlightColor).Bold(true).Render("→") + " "
		keyStyle = keyStyle.Foreground(HighlightColor).Bold(true)
	}

	line := "  " + arrow + keyStyle.Render(fieldKey) + " " + value
	if m.isFieldChanged(fieldKey) {
		line += lipgloss.NewStyle().Foreground(WarningColor).Render(" ⚠")
	}
	if note := m.fieldAnnotation(fieldKey); note != "" {
		line += RenderSubtitle("  (" + note + ")")
	}
	return line
}

// fieldAnnotation returns a decoded reading of a field where the raw value
// alone is hard to interpret.
func (m EditorModel) fieldAnnotation(key string) string {
	switch key {
	case nodeconfig.KeyGwMask:
		return nodeconfig.FormatGwMask(m.Pending.GwMask)
	case nodeconfig.KeyPreambleTime:
		return "ms"
	case nodeconfig.KeyRSF:
		return fmt.Sprintf("SF %d", m.Pending.RSF)
	}
	return ""
}

// renderInlineEditor renders the edit box under the field being edited
func (m EditorModel) renderInlineEditor() string {
	fieldKey := m.FieldKeys[m.Cursor]

	var b strings.Builder
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(PrimaryColor)
	b.WriteString(titleStyle.Render("Editing " + fieldKey))
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	b.WriteString("\n")
	b.WriteString(RenderSubtitle(nodeconfig.FieldHint(fieldKey)))
	if m.FieldErr != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(ErrorColor).Render("✗ " + m.FieldErr))
	}

	return InlineEditorStyle().Render(b.String())
}

// renderSaveButton renders the save button row
func (m EditorModel) renderSaveButton() string {
	label := "[Save Record]"
	if m.hasUnsavedChanges() {
		label += " ⚠ Modified"
	}

	style := lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true)
	if m.Cursor == len(m.FieldKeys) && !m.Editing {
		style = style.Background(PrimaryColor).Foreground(BackgroundColor)
	}

	return lipgloss.NewStyle().Width(60).Align(lipgloss.Center).Render(style.Render(label))
}
