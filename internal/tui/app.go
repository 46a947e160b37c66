package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/lowapp/nodesim/internal/nodeconfig"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenPicker Screen = "picker"
	ScreenEditor Screen = "editor"
)

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	// Current screen state
	CurrentScreen  Screen
	PreviousScreen Screen

	// Screen models
	PickerModel PickerModel
	EditorModel EditorModel

	// Shared application state
	BaseDir    string // simulation base directory the picker lists
	RecordPath string // record currently open in the editor

	// UI state
	Width  int
	Height int
}

// NewAppModel creates the application model. With a preloaded record the
// wizard opens straight into the editor; otherwise it starts on the picker.
func NewAppModel(baseDir, recordPath string, rec *nodeconfig.Record) AppModel {
	model := AppModel{
		BaseDir: baseDir,
	}

	// Seed dimensions so the first frame renders before the initial
	// tea.WindowSizeMsg arrives
	model.Width, model.Height = GetTerminalSize()

	if recordPath != "" && rec != nil {
		model.CurrentScreen = ScreenEditor
		model.RecordPath = recordPath
		model.EditorModel = NewEditorModel(recordPath, rec)
		model.EditorModel.Width = model.Width
		model.EditorModel.Height = model.Height
	} else {
		model.CurrentScreen = ScreenPicker
		model.PickerModel = NewPickerModel(baseDir)
		model.PickerModel.setSize(model.Width, model.Height)
	}

	return model
}

// Init initializes the current screen
func (m AppModel) Init() tea.Cmd {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.PickerModel.Init()
	case ScreenEditor:
		return m.EditorModel.Init()
	default:
		return nil
	}
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		// Screens size their own components from the same message

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenPicker:
		updated, c := m.PickerModel.Update(msg)
		m.PickerModel = updated.(PickerModel)
		cmd = c

		// Check if user picked a record
		if m.PickerModel.Selected {
			if item, ok := m.PickerModel.GetSelectedRecord(); ok {
				m.RecordPath = item.path
				return m.transitionTo(ScreenEditor)
			}
			m.PickerModel.Selected = false
		}

	case ScreenEditor:
		updated, c := m.EditorModel.Update(msg)
		m.EditorModel = updated.(EditorModel)
		cmd = c

		// Check if user wants to go back
		if m.EditorModel.BackRequested {
			return m.goBack()
		}
	}

	return m, cmd
}

// transitionTo transitions to a new screen
func (m AppModel) transitionTo(screen Screen) (tea.Model, tea.Cmd) {
	m.PreviousScreen = m.CurrentScreen
	m.CurrentScreen = screen

	var cmd tea.Cmd

	switch screen {
	case ScreenPicker:
		m.PickerModel = NewPickerModel(m.BaseDir)
		m.PickerModel.setSize(m.Width, m.Height)
		cmd = m.PickerModel.Init()

	case ScreenEditor:
		// Load the record before entering the editor; on failure stay on
		// the picker and surface the error there
		rec, err := nodeconfig.Load(m.RecordPath)
		if err != nil {
			m.CurrentScreen = m.PreviousScreen
			m.PickerModel.Selected = false
			m.PickerModel.Err = fmt.Errorf("cannot open %s: %w", m.RecordPath, err)
			return m, nil
		}

		m.EditorModel = NewEditorModel(m.RecordPath, rec)
		m.EditorModel.Width = m.Width
		m.EditorModel.Height = m.Height
		cmd = m.EditorModel.Init()
	}

	return m, cmd
}

// goBack returns to the previous screen
func (m AppModel) goBack() (tea.Model, tea.Cmd) {
	switch m.CurrentScreen {
	case ScreenPicker:
		// Can't go back from the picker - quit instead
		return m, tea.Quit

	case ScreenEditor:
		if m.PreviousScreen == "" {
			// Opened straight into the editor; nothing to go back to
			return m, tea.Quit
		}
		return m.transitionTo(ScreenPicker)

	default:
		return m, tea.Quit
	}
}

// View renders the current screen
// Each screen handles its own container using RenderApplicationContainer()
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenPicker:
		return m.PickerModel.View()
	case ScreenEditor:
		return m.EditorModel.View()
	default:
		return "Unknown screen"
	}
}

// Run launches the wizard. With a record path the editor opens directly on
// that record; otherwise the picker lists what it finds under baseDir. The
// wizard needs an interactive terminal and refuses to start without one.
func Run(baseDir, recordPath string) error {
	if !IsTerminal() {
		return fmt.Errorf("the wizard needs an interactive terminal (use 'nodesim-cfg show' for plain output)")
	}

	var rec *nodeconfig.Record
	if recordPath != "" {
		// Verify the record loads before handing it to the editor
		loaded, err := nodeconfig.Load(recordPath)
		if err != nil {
			return fmt.Errorf("cannot open record %s: %w", recordPath, err)
		}
		rec = loaded
	}

	model := NewAppModel(baseDir, recordPath, rec)

	p := tea.NewProgram(model)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("wizard error: %w", err)
	}

	return nil
}
