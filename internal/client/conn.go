package client

import (
	"context"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"
)

// Message is the JSON frame the server reads commands from.
type Message struct {
	Cmd string `json:"cmd"`
}

// Conn is the command socket. Send may be called from any goroutine.
type Conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func Dial(ctx context.Context, url string) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return &Conn{ws: ws}, nil
}

func (c *Conn) Send(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(Message{Cmd: cmd}); err != nil {
		return fmt.Errorf("send command: %w", err)
	}
	return nil
}

// Listen passes every server frame to fn until the socket closes or ctx ends.
// It returns nil when ctx ended the loop.
func (c *Conn) Listen(ctx context.Context, fn func(frame string)) error {
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			_ = c.ws.Close()
		case <-stop:
		}
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		fn(string(data))
	}
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return c.ws.Close()
}
