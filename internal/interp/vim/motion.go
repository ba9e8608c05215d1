package vim

// MotionType categorizes motions by the span they cover under an operator.
type MotionType uint8

const (
	// MotionCharwise covers characters within lines.
	MotionCharwise MotionType = iota

	// MotionLinewise covers whole lines.
	MotionLinewise
)

// Motion is a cursor movement, usable on its own or as an operator target.
type Motion struct {
	// Name is the motion identifier (e.g., "down", "lineEnd").
	Name string

	// Keys is the key sequence that triggers the motion.
	Keys string

	// Type indicates the span an operator over this motion covers.
	Type MotionType

	// CountIsLine means a count names an absolute line (e.g., 5G).
	CountIsLine bool
}

// Standard motions.
var (
	MotionLeft          = Motion{Name: "left", Keys: "h", Type: MotionCharwise}
	MotionRight         = Motion{Name: "right", Keys: "l", Type: MotionCharwise}
	MotionUp            = Motion{Name: "up", Keys: "k", Type: MotionLinewise}
	MotionDown          = Motion{Name: "down", Keys: "j", Type: MotionLinewise}
	MotionLineStart     = Motion{Name: "lineStart", Keys: "0", Type: MotionCharwise}
	MotionFirstNonBlank = Motion{Name: "firstNonBlank", Keys: "^", Type: MotionCharwise}
	MotionLineEnd       = Motion{Name: "lineEnd", Keys: "$", Type: MotionCharwise}
	MotionWordForward   = Motion{Name: "wordForward", Keys: "w", Type: MotionCharwise}
	MotionWordBackward  = Motion{Name: "wordBackward", Keys: "b", Type: MotionCharwise}
	MotionWordEnd       = Motion{Name: "wordEnd", Keys: "e", Type: MotionCharwise}
	MotionDocumentStart = Motion{Name: "documentStart", Keys: "gg", Type: MotionLinewise, CountIsLine: true}
	MotionDocumentEnd   = Motion{Name: "documentEnd", Keys: "G", Type: MotionLinewise, CountIsLine: true}
	MotionMark          = Motion{Name: "mark", Keys: "'", Type: MotionLinewise}
)

// motions maps single-key motions.
var motions = map[rune]*Motion{
	'h': &MotionLeft,
	'l': &MotionRight,
	'k': &MotionUp,
	'j': &MotionDown,
	'0': &MotionLineStart,
	'^': &MotionFirstNonBlank,
	'$': &MotionLineEnd,
	'w': &MotionWordForward,
	'b': &MotionWordBackward,
	'e': &MotionWordEnd,
	'G': &MotionDocumentEnd,
}

// GetMotion returns the motion for key, or nil.
func GetMotion(key rune) *Motion {
	return motions[key]
}

// IsMotion reports whether key is a single-key motion.
func IsMotion(key rune) bool {
	_, ok := motions[key]
	return ok
}
