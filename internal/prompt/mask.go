package prompt

import "strings"

// maskRules lists, per command prefix, the word indices holding secrets.
var maskRules = []struct {
	prefix  string
	indices []int
}{
	{"login", []int{2}},
	{"register", []int{2, 3}},
}

// Render returns the display form of a buffer with password words masked.
// "login <user> <password>" hides word 2, "register <user> <password> <confirm>"
// hides words 2 and 3. Anything else is returned unchanged.
func Render(buffer string) string {
	for _, rule := range maskRules {
		if strings.HasPrefix(buffer, rule.prefix) {
			return Mask(buffer, rule.indices...)
		}
	}
	return buffer
}

// Mask replaces every rune of the words at the given indices with '*'.
// Words are split on single spaces, so runs of spaces produce empty words and
// count toward the index.
func Mask(line string, indices ...int) string {
	words := strings.Split(line, " ")
	for _, i := range indices {
		if i < 0 || i >= len(words) {
			continue
		}
		words[i] = strings.Repeat("*", len([]rune(words[i])))
	}
	return strings.Join(words, " ")
}
