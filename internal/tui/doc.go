// Package tui implements the terminal user interface for the node configuration wizard.
//
// This package provides an interactive, full-screen TUI for browsing and editing
// node configuration records. Built using the Bubble Tea framework, it follows the
// Elm architecture with immutable state updates and a clean Model-Update-View pattern.
//
// # Architecture
//
// The TUI is organized into two screens:
//   - Picker: List node records from the base directory and the operator registry
//   - Editor: View and edit one record's fields, then save it back to disk
//
// Both screens use a unified container pattern (RenderApplicationContainer) for
// consistent layout with header, content area, and context-sensitive footer.
//
// # Framework Components
//
// The TUI leverages Bubble Tea framework components throughout:
//   - bubbles/list: Record lists with filtering and a custom card delegate
//   - bubbles/textinput: Field value entry with per-field placeholders
//   - bubbles/key: Declarative key bindings
//   - bubbles/help: Context-aware help system
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	// Open the picker over ./Nodes
//	if err := tui.Run(".", ""); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Open a specific record directly in the editor
//	if err := tui.Run(".", recordPath); err != nil {
//	    log.Fatal(err)
//	}
//
// Run refuses to start when stdout is not a terminal, so scripts get a clear
// error instead of a hung program.
//
// # Screen Flow
//
//  1. Picker Screen:
//     - Lists record files under <baseDir>/Nodes plus registry entries whose
//       files still exist elsewhere
//     - Each record renders as a card: nickname or identity, path, and a
//       one-line summary of the decoded record
//     - "/" filters by identity, nickname, or file name; r rescans
//     - User selects a record to edit
//
//  2. Editor Screen:
//     - Shows every record field with its current textual value
//     - Decoded annotations next to raw values (gateway mask bits, SF, ms)
//     - Inline editing - the edit box expands under the selected field
//     - Modified fields are marked until the record is saved
//     - Save writes the record atomically and updates the operator registry
//     - ESC returns to the picker (or exits, when the editor was opened
//       directly on a record path)
//
// # Inline Editing System
//
// The editor edits fields in place, with no modal overlays:
//   - Press Enter on a field to expand the edit box under it
//   - The placeholder shows the expected format (e.g. "8 hex chars")
//   - Enter applies, ESC cancels, an empty input keeps the current value
//   - Rejected values show the validation message and keep the editor open
//   - Nothing touches the file until the save button (or s) is used
//
// # Key Bindings
//
// Each screen has context-aware key bindings:
//   - Picker: ↑/↓ navigate, Enter edit, / filter, r refresh, q quit
//   - Editor (Normal Mode): ↑/↓ navigate fields, Enter edit, s save, ESC back, q quit
//   - Editor (Editing): Enter apply, ESC cancel
//
// Help text in the footer updates based on screen state.
//
// # Styling
//
// All styling uses lipgloss for consistency:
//   - Color palette: Purple highlights, green selection, orange warnings, red errors
//   - Borders: Rounded borders for record cards, heavy borders for the edit box
//   - Layout: Responsive card widths clamped between MinTerminalWidth and MaxContentWidth
//
// # State Management
//
// The TUI maintains immutable state with explicit updates:
//   - Models contain all state (no global variables)
//   - Update() returns new model + commands
//   - View() is pure function of model state
//   - Commands represent async operations (record listing, saving)
//
// The editor keeps two record snapshots: the last saved state and the pending
// edits. Field-level modified markers and the save button state derive from
// comparing the two.
//
// # Thread Safety
//
// The Bubble Tea framework ensures thread safety through message passing.
// All model updates occur in a single goroutine, preventing race conditions.
package tui
