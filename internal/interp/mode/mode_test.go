package mode

import "testing"

func TestMachineTransitions(t *testing.T) {
	m := NewMachine()
	if m.Current() != Normal {
		t.Fatalf("initial mode = %v, want normal", m.Current())
	}

	m.EnterInsert()
	if m.Current() != Insert {
		t.Errorf("mode = %v, want insert", m.Current())
	}

	m.ExitInsert()
	if m.Current() != Normal {
		t.Errorf("mode = %v, want normal", m.Current())
	}

	m.EnterInsert()
	m.Reset()
	if m.Current() != Normal {
		t.Errorf("mode after Reset = %v, want normal", m.Current())
	}
}

func TestClassifyInsertToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  InsertAction
	}{
		{"escape", "\x1b", ActionEscape},
		{"newline", "\n", ActionNewline},
		{"backspace", "\b", ActionBackspace},
		{"plain text", "hello", ActionText},
		{"text containing escape char", "a\x1bb", ActionText},
		{"empty string", "", ActionText},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyInsertToken(tt.token); got != tt.want {
				t.Errorf("ClassifyInsertToken(%q) = %v, want %v", tt.token, got, tt.want)
			}
		})
	}
}
