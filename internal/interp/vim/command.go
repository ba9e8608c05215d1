package vim

// Kind discriminates the closed set of normal-mode commands.
type Kind uint8

const (
	// KindMotion moves the cursor by Motion.
	KindMotion Kind = iota

	// KindOperator applies Operator over Motion, or over Count whole lines
	// when Linewise is set.
	KindOperator

	// KindPut puts register content after the cursor.
	KindPut

	// KindPutBefore puts register content before the cursor.
	KindPutBefore

	// KindDeleteChar deletes the character under the cursor (x).
	KindDeleteChar

	// KindEnterInsert switches to insert mode per Entry.
	KindEnterInsert

	// KindSetMark sets mark Mark at the cursor line.
	KindSetMark
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindMotion:
		return "motion"
	case KindOperator:
		return "operator"
	case KindPut:
		return "put"
	case KindPutBefore:
		return "putBefore"
	case KindDeleteChar:
		return "deleteChar"
	case KindEnterInsert:
		return "enterInsert"
	case KindSetMark:
		return "setMark"
	default:
		return "unknown"
	}
}

// Entry identifies how insert mode is entered.
type Entry uint8

const (
	// EntryNone means the command does not enter insert mode.
	EntryNone Entry = iota

	// EntryBefore inserts before the cursor (i).
	EntryBefore

	// EntryAfter inserts after the cursor (a).
	EntryAfter

	// EntryLineStart inserts at the start of the line (I).
	EntryLineStart

	// EntryLineEnd inserts at the end of the line (A).
	EntryLineEnd

	// EntryOpenBelow opens a new line below (o).
	EntryOpenBelow

	// EntryOpenAbove opens a new line above (O).
	EntryOpenAbove
)

// String returns a string representation of the entry.
func (e Entry) String() string {
	switch e {
	case EntryNone:
		return "none"
	case EntryBefore:
		return "before"
	case EntryAfter:
		return "after"
	case EntryLineStart:
		return "lineStart"
	case EntryLineEnd:
		return "lineEnd"
	case EntryOpenBelow:
		return "openBelow"
	case EntryOpenAbove:
		return "openAbove"
	default:
		return "unknown"
	}
}

// Command is one parsed normal-mode command.
type Command struct {
	// Kind discriminates which fields are meaningful.
	Kind Kind

	// Count is the repeat count (0 means unspecified).
	Count int

	// Register is the target register (0 means none given).
	Register rune

	// Operator is set for KindOperator.
	Operator *Operator

	// Motion is set for KindMotion and non-linewise KindOperator.
	Motion *Motion

	// Linewise marks a doubled operator (dd, yy, cc).
	Linewise bool

	// Mark is the mark letter for KindSetMark and mark motions.
	Mark rune

	// Entry is the insert-mode entry point for KindEnterInsert.
	Entry Entry
}

// EffectiveCount returns the count, defaulting to 1.
func (c *Command) EffectiveCount() int {
	if c.Count <= 0 {
		return 1
	}
	return c.Count
}
