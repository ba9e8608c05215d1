// Package mode tracks the interpreter's Normal/Insert state and classifies
// insert-mode tokens.
//
// The command loop consults the machine for every incoming token: Normal
// tokens go to the command parsers, Insert tokens are literal text except
// for the escape, newline, and backspace controls.
package mode

// Mode is the interpreter mode.
type Mode uint8

const (
	// Normal interprets tokens as commands.
	Normal Mode = iota

	// Insert interprets tokens as text.
	Insert
)

// String returns a string representation of the mode.
func (m Mode) String() string {
	switch m {
	case Normal:
		return "normal"
	case Insert:
		return "insert"
	default:
		return "unknown"
	}
}

// Control tokens recognized in insert mode.
const (
	// EscapeToken leaves insert mode.
	EscapeToken = "\x1b"

	// NewlineToken splits the current line at the cursor.
	NewlineToken = "\n"

	// BackspaceToken deletes the character left of the cursor.
	BackspaceToken = "\b"
)

// InsertAction classifies one insert-mode token.
type InsertAction uint8

const (
	// ActionText inserts the token text.
	ActionText InsertAction = iota

	// ActionEscape returns to normal mode.
	ActionEscape

	// ActionNewline breaks the line at the cursor.
	ActionNewline

	// ActionBackspace deletes left of the cursor.
	ActionBackspace
)

// String returns a string representation of the action.
func (a InsertAction) String() string {
	switch a {
	case ActionText:
		return "text"
	case ActionEscape:
		return "escape"
	case ActionNewline:
		return "newline"
	case ActionBackspace:
		return "backspace"
	default:
		return "unknown"
	}
}

// ClassifyInsertToken maps a token to its insert-mode action.
func ClassifyInsertToken(token string) InsertAction {
	switch token {
	case EscapeToken:
		return ActionEscape
	case NewlineToken:
		return ActionNewline
	case BackspaceToken:
		return ActionBackspace
	default:
		return ActionText
	}
}

// Machine is the two-state mode machine. The initial mode is Normal; there
// is no terminal state, the machine runs until its command list is
// exhausted.
type Machine struct {
	current Mode
}

// NewMachine creates a machine in Normal mode.
func NewMachine() *Machine {
	return &Machine{current: Normal}
}

// Current returns the active mode.
func (m *Machine) Current() Mode {
	return m.current
}

// EnterInsert switches to Insert mode.
func (m *Machine) EnterInsert() {
	m.current = Insert
}

// ExitInsert returns to Normal mode.
func (m *Machine) ExitInsert() {
	m.current = Normal
}

// Reset forces Normal mode, used when a command list ends mid-insert.
func (m *Machine) Reset() {
	m.current = Normal
}
