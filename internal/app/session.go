package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/kobzarvs/qprompt/internal/client"
	"github.com/kobzarvs/qprompt/internal/config"
	"github.com/kobzarvs/qprompt/internal/events"
	"github.com/kobzarvs/qprompt/internal/logger"
	"github.com/kobzarvs/qprompt/internal/prompt"
	"github.com/kobzarvs/qprompt/internal/term"
)

const outboxSize = 64

// session is the server side of the page: it answers send_cmd and
// load_motd notifications and owns the login form and command socket.
type session struct {
	ctx     context.Context
	cfg     config.Config
	page    *term.Page
	client  *client.Client
	login   *client.LoginForm
	outbox  chan string
	log     *zap.SugaredLogger
	stopped chan struct{}

	mu   sync.Mutex
	conn *client.Conn
}

func newSession(ctx context.Context, cfg config.Config, page *term.Page, bus *events.Bus) *session {
	s := &session{
		ctx:     ctx,
		cfg:     cfg,
		page:    page,
		outbox:  make(chan string, outboxSize),
		log:     logger.Named("session"),
		stopped: make(chan struct{}),
	}
	if !cfg.Server.Offline {
		s.client = client.New(cfg.Server.URL, cfg.Server.Timeout)
		s.login = client.NewLoginForm(ctx, s.client, page.Hidden, page, s.connect)
	}
	bus.Subscribe(prompt.SendCmd, s.onSendCmd)
	bus.Subscribe(prompt.LoadMOTD, s.onLoadMOTD)
	go s.sendLoop()
	return s
}

// loginForm returns the form while it can still be submitted. Offline
// sessions have none.
func (s *session) loginForm() prompt.LoginForm {
	if s.login == nil {
		return nil
	}
	return s.login
}

// onSendCmd reads the hidden field like a form listener would and queues it.
// Offline lines are echoed with the same masking as the prompt.
func (s *session) onSendCmd(prompt.Notification) {
	line := s.page.Hidden()
	if s.cfg.Server.Offline {
		if s.cfg.Prompt.Masking {
			line = prompt.Render(line)
		}
		s.page.Append(s.cfg.Prompt.Symbol + " " + line)
		return
	}
	select {
	case s.outbox <- line:
	default:
		s.log.Warnw("outbox full, command dropped")
		s.page.Append("command dropped: too many pending commands")
	}
}

func (s *session) onLoadMOTD(prompt.Notification) {
	if s.client == nil {
		return
	}
	go func() {
		lines, err := s.client.MOTD(s.ctx)
		if err != nil {
			s.log.Warnw("motd fetch failed", "error", err)
			return
		}
		for _, l := range lines {
			s.page.Append(l)
		}
	}()
}

// connect dials the command socket for a fresh token and starts reading frames.
// Any failure drops the token so the next line goes through the login form again.
func (s *session) connect(token string) {
	url, err := s.client.WebsocketURL(token)
	if err != nil {
		s.login.Reset()
		s.page.Append("connection failed: " + err.Error())
		return
	}
	conn, err := client.Dial(s.ctx, url)
	if err != nil {
		s.log.Warnw("dial failed", "error", err)
		s.login.Reset()
		s.page.Append("connection failed: " + err.Error())
		return
	}
	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.log.Infow("connected")

	go func() {
		err := conn.Listen(s.ctx, func(frame string) {
			for _, l := range client.Fragment(frame) {
				s.page.Append(l)
			}
		})
		s.mu.Lock()
		if s.conn == conn {
			s.conn = nil
		}
		s.mu.Unlock()
		if err != nil {
			s.log.Warnw("connection lost", "error", err)
			s.login.Reset()
			s.page.Append("connection lost, log in again")
		}
	}()
}

func (s *session) currentConn() *client.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn
}

// sendLoop delivers queued commands in submission order.
func (s *session) sendLoop() {
	defer close(s.stopped)
	for {
		select {
		case <-s.ctx.Done():
			return
		case line := <-s.outbox:
			conn := s.currentConn()
			if conn == nil {
				s.page.Append("not connected")
				continue
			}
			if err := conn.Send(line); err != nil {
				s.log.Errorw("send failed", "error", err)
				s.page.Append("send failed: " + err.Error())
			}
		}
	}
}

// close shuts the socket and waits for the send loop. ctx must already be done.
func (s *session) close() {
	<-s.stopped
	if conn := s.currentConn(); conn != nil {
		_ = conn.Close()
	}
}
