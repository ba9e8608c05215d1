// Package ex parses :-prefixed ex commands into a closed command type and
// resolves their line ranges.
//
// The executor pattern-matches over Command.Verb rather than re-parsing
// strings, so the set of ex verbs this interpreter understands is exactly
// the Verb enum below.
package ex

import "regexp"

// Verb discriminates the closed set of ex commands.
type Verb uint8

const (
	// VerbGoto moves the cursor to the range's line (bare :N).
	VerbGoto Verb = iota

	// VerbWrite writes the buffer to its file (:w).
	VerbWrite

	// VerbQuit closes the buffer unless dirty (:q).
	VerbQuit

	// VerbForceQuit closes the buffer, discarding changes (:q!).
	VerbForceQuit

	// VerbWriteQuit writes then closes (:wq).
	VerbWriteQuit

	// VerbEdit opens a file (:e path).
	VerbEdit

	// VerbDelete deletes the range (:[range]d).
	VerbDelete

	// VerbYank yanks the range (:[range]y).
	VerbYank

	// VerbPut puts a register below the addressed line (:[range]pu).
	VerbPut

	// VerbSubstitute is :[range]s/pat/repl/flags.
	VerbSubstitute

	// VerbGlobal is :g/pat/cmd or :v/pat/cmd.
	VerbGlobal

	// VerbFilter pipes the range through a shell command (:[range]!cmd).
	VerbFilter
)

// String returns a string representation of the verb.
func (v Verb) String() string {
	switch v {
	case VerbGoto:
		return "goto"
	case VerbWrite:
		return "write"
	case VerbQuit:
		return "quit"
	case VerbForceQuit:
		return "forceQuit"
	case VerbWriteQuit:
		return "writeQuit"
	case VerbEdit:
		return "edit"
	case VerbDelete:
		return "delete"
	case VerbYank:
		return "yank"
	case VerbPut:
		return "put"
	case VerbSubstitute:
		return "substitute"
	case VerbGlobal:
		return "global"
	case VerbFilter:
		return "filter"
	default:
		return "unknown"
	}
}

// SubstituteFlags are the trailing flags of :s.
type SubstituteFlags struct {
	// Global replaces every match on each line, not just the first.
	Global bool

	// IgnoreCase matches case-insensitively.
	IgnoreCase bool
}

// Command is one parsed ex command.
type Command struct {
	// Verb discriminates which fields are meaningful.
	Verb Verb

	// Range is the optional line range before the verb.
	Range Range

	// Arg is the file path for VerbEdit and the shell command for
	// VerbFilter.
	Arg string

	// Register is the explicit register for VerbYank/VerbPut (0 = unnamed).
	Register rune

	// Pattern is the regular expression for VerbGlobal and VerbSubstitute.
	Pattern *regexp.Regexp

	// Replacement is the substitute replacement text.
	Replacement string

	// Flags are the substitute flags.
	Flags SubstituteFlags

	// Invert marks :v (apply to non-matching lines).
	Invert bool

	// Sub is the command :g/:v applies to each selected line.
	Sub *Command
}
