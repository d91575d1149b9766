package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/motd", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method", http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write([]byte("<h1>Welcome</h1><p>Type <b>help</b> to start.</p>"))
	})
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "form", http.StatusBadRequest)
			return
		}
		switch r.PostForm.Get("cmd") {
		case "login alice secret":
			http.SetCookie(w, &http.Cookie{Name: TokenCookie, Value: "tok-alice"})
			_, _ = w.Write([]byte("<div>cli</div>"))
		case "boom":
			http.Error(w, "internal", http.StatusInternalServerError)
		default:
			_, _ = w.Write([]byte("<div class=\"chat\">Invalid user or password</div>"))
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMOTD(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, time.Second)
	lines, err := c.MOTD(context.Background())
	if err != nil {
		t.Fatalf("MOTD error: %v", err)
	}
	want := []string{"Welcome", "Type help to start."}
	if !reflect.DeepEqual(lines, want) {
		t.Fatalf("MOTD = %q, want %q", lines, want)
	}
}

func TestLogin(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, time.Second)

	token, lines, err := c.Login(context.Background(), "login alice secret")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}
	if token != "tok-alice" || lines != nil {
		t.Fatalf("Login = %q %q, want tok-alice nil", token, lines)
	}

	token, lines, err = c.Login(context.Background(), "login alice wrong")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("Login error = %v, want ErrRejected", err)
	}
	if token != "" || !reflect.DeepEqual(lines, []string{"Invalid user or password"}) {
		t.Fatalf("Login = %q %q", token, lines)
	}

	if _, _, err := c.Login(context.Background(), "boom"); err == nil || errors.Is(err, ErrRejected) {
		t.Fatalf("Login error = %v, want HTTP error", err)
	}
}

func TestWebsocketURL(t *testing.T) {
	tests := []struct {
		base string
		want string
	}{
		{"http://localhost:8000", "ws://localhost:8000/ws/abc"},
		{"https://example.test/app/", "wss://example.test/app/ws/abc"},
	}
	for _, tt := range tests {
		got, err := New(tt.base, time.Second).WebsocketURL("abc")
		if err != nil {
			t.Fatalf("WebsocketURL(%q) error: %v", tt.base, err)
		}
		if got != tt.want {
			t.Fatalf("WebsocketURL(%q) = %q, want %q", tt.base, got, tt.want)
		}
	}
}

type lockedTranscript struct {
	mu    sync.Mutex
	lines []string
}

func (l *lockedTranscript) Append(line string) {
	l.mu.Lock()
	l.lines = append(l.lines, line)
	l.mu.Unlock()
}

func (l *lockedTranscript) Clear() {
	l.mu.Lock()
	l.lines = nil
	l.mu.Unlock()
}

func TestLoginForm(t *testing.T) {
	srv := newServer(t)
	c := New(srv.URL, time.Second)
	hidden := "login alice wrong"
	tr := &lockedTranscript{}
	var got []string
	f := NewLoginForm(context.Background(), c, func() string { return hidden }, tr, func(tok string) {
		got = append(got, tok)
	})

	if !f.Present() {
		t.Fatalf("Present = false before login")
	}
	f.RequestSubmit()
	f.Wait()
	if !f.Present() || len(got) != 0 {
		t.Fatalf("rejected login changed state: present=%v tokens=%q", f.Present(), got)
	}
	if !reflect.DeepEqual(tr.lines, []string{"Invalid user or password"}) {
		t.Fatalf("transcript = %q", tr.lines)
	}

	hidden = "login alice secret"
	f.RequestSubmit()
	f.Wait()
	if f.Present() {
		t.Fatalf("Present = true after login")
	}
	if f.Token() != "tok-alice" || !reflect.DeepEqual(got, []string{"tok-alice"}) {
		t.Fatalf("token = %q callbacks = %q", f.Token(), got)
	}

	f.Reset()
	if !f.Present() || f.Token() != "" {
		t.Fatalf("after Reset: present=%v token=%q", f.Present(), f.Token())
	}
}

func TestConnSendListen(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/ws/") {
			http.NotFound(w, r)
			return
		}
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer ws.Close()
		for {
			var msg Message
			if err := ws.ReadJSON(&msg); err != nil {
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, []byte("<div>&gt; "+msg.Cmd+"</div>")); err != nil {
				return
			}
		}
	}))
	t.Cleanup(srv.Close)

	url, err := New(srv.URL, time.Second).WebsocketURL("tok")
	if err != nil {
		t.Fatalf("WebsocketURL error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	conn, err := Dial(ctx, url)
	if err != nil {
		t.Fatalf("Dial error: %v", err)
	}

	frames := make(chan string, 4)
	done := make(chan error, 1)
	go func() { done <- conn.Listen(ctx, func(f string) { frames <- f }) }()

	if err := conn.Send("look"); err != nil {
		t.Fatalf("Send error: %v", err)
	}
	select {
	case f := <-frames:
		if got := Fragment(f); !reflect.DeepEqual(got, []string{"> look"}) {
			t.Fatalf("frame lines = %q, want [> look]", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for frame")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Listen error after cancel: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Listen did not return after cancel")
	}
}
