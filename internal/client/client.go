package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kobzarvs/qprompt/internal/logger"
)

// TokenCookie is the cookie the server sets after a successful login or registration.
const TokenCookie = "access-token"

// ErrRejected is returned by Login when the server answered without a token.
var ErrRejected = errors.New("login rejected")

// Client talks to the page server over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.SugaredLogger
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.Named("client"),
	}
}

// MOTD fetches the message of the day as transcript lines.
func (c *Client) MOTD(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/motd", nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	body, _, err := c.do(req)
	if err != nil {
		return nil, err
	}
	return Fragment(body), nil
}

// Login posts a "login ..." or "register ..." line as the form field cmd.
// On success it returns the session token. When the server refuses, the
// returned lines carry its message and err is ErrRejected.
func (c *Client) Login(ctx context.Context, cmd string) (string, []string, error) {
	form := url.Values{"cmd": {cmd}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/login", strings.NewReader(form.Encode()))
	if err != nil {
		return "", nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, resp, err := c.do(req)
	if err != nil {
		return "", nil, err
	}
	for _, ck := range resp.Cookies() {
		if ck.Name == TokenCookie && ck.Value != "" {
			return ck.Value, nil, nil
		}
	}
	return "", Fragment(body), ErrRejected
}

// WebsocketURL returns the command socket address for a session token.
func (c *Client) WebsocketURL(token string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/ws/" + url.PathEscape(token)
	return u.String(), nil
}

func (c *Client) do(req *http.Request) (string, *http.Response, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		c.log.Warnw("server error", "method", req.Method, "path", req.URL.Path, "status", resp.StatusCode)
		return "", nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return string(data), resp, nil
}
