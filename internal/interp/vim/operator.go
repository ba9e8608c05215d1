package vim

// Operator is a command that acts on the span a motion covers.
type Operator struct {
	// Name is the operator identifier.
	Name string

	// Key is the key that triggers the operator.
	Key rune

	// ChangesText indicates the operator modifies the buffer.
	ChangesText bool

	// EntersInsert indicates insert mode follows the operation.
	EntersInsert bool
}

// Standard operators.
var (
	// OpDelete removes text into a register.
	OpDelete = Operator{Name: "delete", Key: 'd', ChangesText: true}

	// OpYank copies text into a register.
	OpYank = Operator{Name: "yank", Key: 'y'}

	// OpChange removes text and enters insert mode.
	OpChange = Operator{Name: "change", Key: 'c', ChangesText: true, EntersInsert: true}
)

// operators maps operator keys.
var operators = map[rune]*Operator{
	'd': &OpDelete,
	'y': &OpYank,
	'c': &OpChange,
}

// GetOperator returns the operator for key, or nil.
func GetOperator(key rune) *Operator {
	return operators[key]
}

// IsOperator reports whether key is an operator.
func IsOperator(key rune) bool {
	_, ok := operators[key]
	return ok
}
