package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/qprompt/internal/config"
	"github.com/kobzarvs/qprompt/internal/events"
	"github.com/kobzarvs/qprompt/internal/logger"
	"github.com/kobzarvs/qprompt/internal/prompt"
	"github.com/kobzarvs/qprompt/internal/term"
)

// App is the top-level runtime for qprompt.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyArgs(&cfg, a.args); err != nil {
		return err
	}
	logPath, err := config.LogPath(cfg)
	if err != nil {
		return err
	}
	if err := logger.Init(logPath, cfg.Log.Debug); err != nil {
		return err
	}
	defer logger.Close()

	s, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	ctx, cancel := context.WithCancel(context.Background())
	page := term.NewPage(cfg)
	page.Attach(s)
	bus := events.NewBus()
	sess := newSession(ctx, cfg, page, bus)
	defer sess.close()
	defer cancel()

	ctrl := prompt.New(promptOptions(cfg), prompt.Elements{
		View:       page,
		Transcript: page,
		Login:      sess.loginForm(),
		Notifier:   bus,
	})
	go func() {
		if err := ctrl.RunStartup(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("startup sequence", "error", err)
		}
	}()

	logger.Info("prompt ready", "offline", cfg.Server.Offline, "server", cfg.Server.URL)
	page.Draw(s)
	for {
		switch ev := s.PollEvent().(type) {
		case nil:
			return nil
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			ctrl.HandleKey(term.KeyName(ev), term.NewKeyEvent(ev))
		case *tcell.EventResize:
			s.Sync()
		}
		page.Draw(s)
	}
}

func promptOptions(cfg config.Config) prompt.Options {
	lines := make([]prompt.StartupLine, len(cfg.Startup))
	for i, l := range cfg.Startup {
		lines[i] = prompt.StartupLine{Text: l.Text, Delay: l.Delay}
	}
	return prompt.Options{
		EnableHistory:         cfg.Prompt.History,
		EnableMasking:         cfg.Prompt.Masking,
		EnableStartupSequence: cfg.Prompt.StartupSequence,
		Startup:               lines,
	}
}

// applyArgs lets command-line flags override the loaded config.
func applyArgs(cfg *config.Config, args []string) error {
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--offline":
			cfg.Server.Offline = true
		case "--debug":
			cfg.Log.Debug = true
		case "--no-startup":
			cfg.Prompt.StartupSequence = false
		case "--server":
			if i+1 >= len(args) {
				return fmt.Errorf("--server needs a url")
			}
			i++
			cfg.Server.URL = args[i]
		default:
			return fmt.Errorf("unknown argument: %s", args[i])
		}
	}
	return nil
}
