package client

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"
)

// EventWatcher streams backend change notifications.
type EventWatcher interface {
	Watch(ctx context.Context, events chan<- Event) error
}

// eventsURL maps the http(s) base URL onto the ws(s) events endpoint.
func eventsURL(base string) (string, error) {
	base = strings.TrimRight(base, "/")
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://") + endpointEvents, nil
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://") + endpointEvents, nil
	default:
		return "", fmt.Errorf("unsupported base URL %q", base)
	}
}

// Watch connects to the events websocket and forwards every decoded event to
// events until ctx is cancelled or the connection drops. Malformed messages
// are skipped. The returned error is nil only when ctx ended the stream.
func (c *DefaultClient) Watch(ctx context.Context, events chan<- Event) error {
	u, err := eventsURL(c.config.BaseURL)
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: c.config.RequestTimeout,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: c.config.InsecureSkipVerify, //nolint:gosec
		},
	}
	req, err := http.NewRequest(http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("Watch: %w", err)
	}
	c.authorize(req)

	conn, _, err := dialer.DialContext(ctx, u, req.Header)
	if err != nil {
		return fmt.Errorf("Watch dial: %w", err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the caller goes away.
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("Watch read: %w", err)
		}
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil || ev.Type == "" {
			continue
		}
		select {
		case events <- ev:
		case <-ctx.Done():
			return nil
		}
	}
}
