package client

import (
	"context"
	"errors"
	"sync"

	"github.com/kobzarvs/qprompt/internal/prompt"
)

// LoginForm stands in for the page's login form. It is present until the
// server hands out a token; submitting it posts the hidden field to /login.
type LoginForm struct {
	ctx        context.Context
	client     *Client
	hidden     func() string
	transcript prompt.Transcript
	onLogin    func(token string)

	mu    sync.Mutex
	token string
	wg    sync.WaitGroup
}

// NewLoginForm builds a form that reads the submitted line through hidden and
// reports server messages to transcript. onLogin runs once a token is obtained.
func NewLoginForm(ctx context.Context, c *Client, hidden func() string, t prompt.Transcript, onLogin func(token string)) *LoginForm {
	return &LoginForm{
		ctx:        ctx,
		client:     c,
		hidden:     hidden,
		transcript: t,
		onLogin:    onLogin,
	}
}

func (f *LoginForm) Present() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token == ""
}

// RequestSubmit captures the hidden field and posts it in the background.
func (f *LoginForm) RequestSubmit() {
	cmd := f.hidden()
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		f.submit(cmd)
	}()
}

// Wait blocks until pending submissions have finished.
func (f *LoginForm) Wait() {
	f.wg.Wait()
}

// Reset forgets the token so the form is present again, as after a page reload.
func (f *LoginForm) Reset() {
	f.mu.Lock()
	f.token = ""
	f.mu.Unlock()
}

func (f *LoginForm) Token() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token
}

func (f *LoginForm) submit(cmd string) {
	token, lines, err := f.client.Login(f.ctx, cmd)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			for _, l := range lines {
				f.transcript.Append(l)
			}
			return
		}
		f.client.log.Warnw("login failed", "error", err)
		f.transcript.Append("login failed: " + err.Error())
		return
	}

	f.mu.Lock()
	f.token = token
	f.mu.Unlock()
	f.client.log.Infow("logged in")
	if f.onLogin != nil {
		f.onLogin(token)
	}
}
