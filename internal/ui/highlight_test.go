package ui

import "testing"

func TestHighlightJava_PreservesText(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"empty", "", ""},
		{"tabs expanded", "class A {\n\tint x;\n}\n", "class A {\n    int x;\n}\n"},
		{"comment", "// note\nint y = 1;", "// note\nint y = 1;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, style := range []string{"nord", "github-dark", "no-such-style"} {
				if got := stripANSI(highlightJava(tt.code, style)); got != tt.want {
					t.Fatalf("highlightJava(%q, %q) = %q, want %q", tt.code, style, got, tt.want)
				}
			}
		})
	}
}
