package client

import (
	"reflect"
	"testing"
)

func TestFragment(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "  ", nil},
		{"plain", "just text", []string{"just text"}},
		{"inline", "<div><span>@alice</span> hello &amp; bye</div>", []string{"@alice hello & bye"}},
		{"blocks", "<div>first</div><p>second</p>", []string{"first", "second"}},
		{"list", "<ul><li>a</li><li>b</li></ul>", []string{"a", "b"}},
		{"break", "one<br>two", []string{"one", "two"}},
		{"whitespace", "<div>\n   spaced    out\n</div>", []string{"spaced out"}},
		{"script", "<script>alert(1)</script><div>ok</div>", []string{"ok"}},
		{"comment", "<!-- hidden --><div>shown</div>", []string{"shown"}},
		{"unicode", "<div>Vous êtes connectés</div>", []string{"Vous êtes connectés"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fragment(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("Fragment(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
