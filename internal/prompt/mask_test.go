package prompt

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"login alice secret", "login alice ******"},
		{"register bob pw1 pw2", "register bob *** ***"},
		{"register bob longer1 x", "register bob ******* *"},
		{"look", "look"},
		{"", ""},
		{"login", "login"},
		{"login alice", "login alice"},
		{"login alice secret extra", "login alice ****** extra"},
		{"register bob", "register bob"},
		{"register bob pw1", "register bob ***"},
		{"login alice sécrèt", "login alice ******"},
		{"loginx a b", "loginx a *"},
		{"login  alice secret", "login  ***** secret"},
		{"say login alice secret", "say login alice secret"},
	}
	for _, tt := range tests {
		if got := Render(tt.in); got != tt.want {
			t.Fatalf("Render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskOutOfRangeIndices(t *testing.T) {
	if got := Mask("a b", -1, 5); got != "a b" {
		t.Fatalf("Mask = %q, want %q", got, "a b")
	}
}
