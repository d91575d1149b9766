package term

import (
	"strconv"
	"strings"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/kobzarvs/qprompt/internal/config"
)

type styles struct {
	main       tcell.Style
	transcript tcell.Style
	prompt     tcell.Style
	symbol     tcell.Style
}

// Page is the terminal rendition of the prompt page: a transcript that
// fills the screen above a single prompt line, and a hidden field carrying
// the raw buffer for submission.
type Page struct {
	mu      sync.Mutex
	lines   []string
	display string
	hidden  string
	symbol  string
	styles  styles
	screen  tcell.Screen
}

func NewPage(cfg config.Config) *Page {
	t := cfg.Theme
	mainFg := parseColor(t.Foreground, tcell.ColorWhite)
	mainBg := parseColor(t.Background, tcell.ColorBlack)
	promptFg := parseColor(t.PromptForeground, mainFg)
	promptBg := parseColor(t.PromptBackground, mainBg)
	return &Page{
		symbol: cfg.Prompt.Symbol,
		styles: styles{
			main:       tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
			transcript: tcell.StyleDefault.Foreground(parseColor(t.TranscriptForeground, mainFg)).Background(mainBg),
			prompt:     tcell.StyleDefault.Foreground(promptFg).Background(promptBg),
			symbol:     tcell.StyleDefault.Foreground(parseColor(t.PromptSymbol, promptFg)).Background(promptBg),
		},
	}
}

// Attach makes changes from other goroutines wake the screen's event loop.
func (p *Page) Attach(s tcell.Screen) {
	p.mu.Lock()
	p.screen = s
	p.mu.Unlock()
}

func (p *Page) SetPrompt(display string) {
	p.mu.Lock()
	p.display = display
	p.mu.Unlock()
}

func (p *Page) SetHidden(raw string) {
	p.mu.Lock()
	p.hidden = raw
	p.mu.Unlock()
}

// Hidden returns the raw buffer as last mirrored by the prompt.
func (p *Page) Hidden() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hidden
}

// Append adds a transcript line. Embedded newlines start new lines.
func (p *Page) Append(line string) {
	p.mu.Lock()
	p.lines = append(p.lines, strings.Split(line, "\n")...)
	s := p.screen
	p.mu.Unlock()
	wake(s)
}

func (p *Page) Clear() {
	p.mu.Lock()
	p.lines = nil
	s := p.screen
	p.mu.Unlock()
	wake(s)
}

// Lines returns a copy of the transcript.
func (p *Page) Lines() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.lines))
	copy(out, p.lines)
	return out
}

func wake(s tcell.Screen) {
	if s != nil {
		_ = s.PostEvent(tcell.NewEventInterrupt(nil))
	}
}

// Draw paints the transcript tail and the prompt line, then shows the screen.
func (p *Page) Draw(s tcell.Screen) {
	p.mu.Lock()
	defer p.mu.Unlock()

	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return
	}
	s.SetStyle(p.styles.main)
	s.Clear()

	viewHeight := h - 1
	rows := wrapLines(p.lines, w)
	if len(rows) > viewHeight {
		rows = rows[len(rows)-viewHeight:]
	}
	for y, row := range rows {
		drawText(s, 0, y, w, row, p.styles.transcript)
	}

	cx := p.drawPrompt(s, w, h-1)
	s.SetCursorStyle(tcell.CursorStyleSteadyBar)
	s.ShowCursor(cx, h-1)
	s.Show()
}

func (p *Page) drawPrompt(s tcell.Screen, w, y int) int {
	for x := 0; x < w; x++ {
		s.SetContent(x, y, ' ', nil, p.styles.prompt)
	}
	x := 0
	if p.symbol != "" {
		x = drawText(s, 0, y, w, p.symbol, p.styles.symbol)
		x = drawText(s, x, y, w, " ", p.styles.prompt)
	}
	display := tailToWidth(p.display, w-x-1)
	return drawText(s, x, y, w, display, p.styles.prompt)
}

// drawText writes text from column x and returns the column after it.
func drawText(s tcell.Screen, x, y, w int, text string, style tcell.Style) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > w {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

// wrapLines splits lines into rows no wider than w cells.
func wrapLines(lines []string, w int) []string {
	var rows []string
	for _, line := range lines {
		if line == "" {
			rows = append(rows, "")
			continue
		}
		var b strings.Builder
		width := 0
		for _, r := range line {
			rw := runewidth.RuneWidth(r)
			if width+rw > w && width > 0 {
				rows = append(rows, b.String())
				b.Reset()
				width = 0
			}
			b.WriteRune(r)
			width += rw
		}
		rows = append(rows, b.String())
	}
	return rows
}

// tailToWidth drops leading runes until text fits in w cells.
func tailToWidth(text string, w int) string {
	if w <= 0 {
		return ""
	}
	runes := []rune(text)
	for len(runes) > 0 && runewidth.StringWidth(string(runes)) > w {
		runes = runes[1:]
	}
	return string(runes)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		v, err := strconv.ParseInt(name[1:], 16, 32)
		if err != nil {
			return fallback
		}
		return tcell.NewHexColor(int32(v))
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
