package term

import (
	"strconv"

	"github.com/gdamore/tcell/v2"
)

// KeyName returns the browser-style key identity for a tcell key event:
// printable runes map to themselves, named keys to "ArrowUp", "Enter", "F1" and so on.
// Ctrl chords that have no browser name return "".
func KeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		return string(ev.Rune())
	}
	if ev.Key() >= tcell.KeyF1 && ev.Key() <= tcell.KeyF64 {
		return "F" + strconv.Itoa(int(ev.Key()-tcell.KeyF1)+1)
	}
	switch ev.Key() {
	case tcell.KeyUp:
		return "ArrowUp"
	case tcell.KeyDown:
		return "ArrowDown"
	case tcell.KeyLeft:
		return "ArrowLeft"
	case tcell.KeyRight:
		return "ArrowRight"
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return "Backspace"
	case tcell.KeyEnter:
		return "Enter"
	case tcell.KeyEscape:
		return "Escape"
	case tcell.KeyTab, tcell.KeyBacktab:
		return "Tab"
	case tcell.KeyDelete:
		return "Delete"
	case tcell.KeyInsert:
		return "Insert"
	case tcell.KeyHome:
		return "Home"
	case tcell.KeyEnd:
		return "End"
	case tcell.KeyPgUp:
		return "PageUp"
	case tcell.KeyPgDn:
		return "PageDown"
	}
	return ""
}

// KeyEvent wraps a tcell key event so the prompt can cancel the host's own
// handling of it.
type KeyEvent struct {
	*tcell.EventKey
	prevented bool
}

func NewKeyEvent(ev *tcell.EventKey) *KeyEvent {
	return &KeyEvent{EventKey: ev}
}

func (e *KeyEvent) PreventDefault() { e.prevented = true }

func (e *KeyEvent) Prevented() bool { return e.prevented }
