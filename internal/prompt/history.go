package prompt

// History is an append-only list of submitted lines with a browsing cursor.
// The cursor stays in [0, Len()]; Len() means the live line is being edited.
type History struct {
	entries []string
	cursor  int
}

func (h *History) Append(line string) {
	h.entries = append(h.entries, line)
	h.cursor = len(h.entries)
}

// Up moves toward older entries, stopping at the first one.
func (h *History) Up() {
	if h.cursor > 0 {
		h.cursor--
	}
}

// Down moves toward newer entries, stopping one past the last.
func (h *History) Down() {
	if h.cursor < len(h.entries) {
		h.cursor++
	}
}

// Current returns the entry under the cursor, or "" past the end.
func (h *History) Current() string {
	if h.cursor >= len(h.entries) {
		return ""
	}
	return h.entries[h.cursor]
}

func (h *History) Len() int    { return len(h.entries) }
func (h *History) Cursor() int { return h.cursor }

// Entries returns a copy of the stored lines, oldest first.
func (h *History) Entries() []string {
	out := make([]string, len(h.entries))
	copy(out, h.entries)
	return out
}
