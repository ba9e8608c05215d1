package buffer

// Option configures a Buffer during construction.
type Option func(*Buffer)

// WithPath associates the buffer with a file path.
func WithPath(path string) Option {
	return func(b *Buffer) {
		b.path = path
	}
}

// WithLines seeds the buffer with initial lines without marking it dirty.
func WithLines(lines []string) Option {
	return func(b *Buffer) {
		b.lines = append([]string(nil), lines...)
	}
}
