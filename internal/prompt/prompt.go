package prompt

import (
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kobzarvs/qprompt/internal/logger"
)

// Key identities the controller reacts to, named as browsers report them.
const (
	KeyArrowUp   = "ArrowUp"
	KeyArrowDown = "ArrowDown"
	KeyBackspace = "Backspace"
	KeyEnter     = "Enter"
	KeySlash     = "/"
)

// Notification names emitted on the Notifier.
const (
	SendCmd  = "send_cmd"
	LoadMOTD = "load_motd"
)

// CmdClear empties the transcript without reaching the server.
const CmdClear = "clear"

// Notification is emitted for lines the widget does not handle itself and
// when the startup sequence completes.
type Notification struct {
	Name string
	// Line is the submitted buffer for SendCmd.
	Line string
}

// Event is the raw key event. PreventDefault suppresses the host's own handling.
type Event interface {
	PreventDefault()
}

// View is the visible prompt region plus the hidden field mirroring the raw buffer.
type View interface {
	SetPrompt(display string)
	SetHidden(raw string)
}

type Transcript interface {
	Append(line string)
	Clear()
}

// LoginForm is present while the user still has to authenticate.
type LoginForm interface {
	Present() bool
	RequestSubmit()
}

type Notifier interface {
	Notify(n Notification)
}

type Options struct {
	EnableHistory         bool
	EnableMasking         bool
	EnableStartupSequence bool
	Startup               []StartupLine
}

// Elements are the page pieces the controller writes to. Login may be nil.
type Elements struct {
	View       View
	Transcript Transcript
	Login      LoginForm
	Notifier   Notifier
}

// Controller owns the prompt buffer and history and turns key events into
// buffer edits, renders and notifications.
type Controller struct {
	mu         sync.Mutex
	opts       Options
	view       View
	transcript Transcript
	login      LoginForm
	notifier   Notifier
	log        *zap.SugaredLogger

	buffer  []rune
	history History
	loaded  bool
	started bool
}

func New(opts Options, el Elements) *Controller {
	return &Controller{
		opts:       opts,
		view:       el.View,
		transcript: el.Transcript,
		login:      el.Login,
		notifier:   el.Notifier,
		log:        logger.Named("prompt"),
		loaded:     !opts.EnableStartupSequence,
	}
}

// HandleKey applies one key press. Keys are ignored until the startup
// sequence has finished. ev may be nil.
func (c *Controller) HandleKey(key string, ev Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return
	}

	switch key {
	case KeyArrowUp:
		if c.opts.EnableHistory && c.history.Len() > 0 {
			c.history.Up()
			c.buffer = []rune(c.history.Current())
		}
	case KeyArrowDown:
		if c.opts.EnableHistory && c.history.Len() > 0 {
			c.history.Down()
			c.buffer = []rune(c.history.Current())
		}
	case KeyBackspace:
		if n := len(c.buffer); n > 0 {
			c.buffer = c.buffer[:n-1]
		}
	case KeyEnter:
		c.submit()
		c.buffer = c.buffer[:0]
	default:
		if utf8.RuneCountInString(key) != 1 {
			return
		}
		if key == KeySlash && ev != nil {
			ev.PreventDefault()
		}
		c.buffer = append(c.buffer, []rune(key)...)
	}
	c.update()
}

// Submit runs the current line as if Enter was pressed, without clearing
// the buffer. It reports whether the line was a local command. Like
// HandleKey it does nothing until the startup sequence has finished.
func (c *Controller) Submit() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded {
		return false
	}
	return c.submit()
}

func (c *Controller) submit() bool {
	line := string(c.buffer)
	switch strings.TrimSpace(line) {
	case CmdClear:
		c.transcript.Clear()
		c.log.Debugw("local command", "cmd", CmdClear)
		return true
	}

	if c.login != nil && c.login.Present() {
		c.log.Debugw("login form submit")
		c.login.RequestSubmit()
		return false
	}

	c.notifier.Notify(Notification{Name: SendCmd, Line: line})
	if c.opts.EnableHistory {
		c.history.Append(line)
	}
	c.log.Debugw("command sent", "history", c.history.Len())
	return false
}

func (c *Controller) update() {
	display := string(c.buffer)
	if c.opts.EnableMasking {
		display = Render(display)
	}
	c.view.SetPrompt(display)
	c.view.SetHidden(string(c.buffer))
}

func (c *Controller) Buffer() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.buffer)
}

func (c *Controller) History() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Entries()
}

func (c *Controller) HistoryCursor() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history.Cursor()
}

func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}
