package channel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/five82/jconf/internal/protocol"
)

const (
	defaultHostURL = "ws://127.0.0.1:7488/panel"
	dialTimeout    = 10 * time.Second
	maxMessageSize = 4 << 20
)

// Socket is a WebSocket connection to the host. Each frame carries one JSON
// message.
type Socket struct {
	conn *websocket.Conn
	url  string
	log  *slog.Logger
}

var _ Sender = (*Socket)(nil)

// Dial connects to the host at rawURL. http and https URLs are rewritten to
// ws and wss.
func Dial(ctx context.Context, rawURL string, logger *slog.Logger) (*Socket, error) {
	target, err := ParseHostURL(rawURL)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	dialCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, target, nil)
	if err != nil {
		return nil, fmt.Errorf("dial host %s: %w", target, err)
	}
	conn.SetReadLimit(maxMessageSize)
	logger.Info("connected to host", "url", target)
	return &Socket{conn: conn, url: target, log: logger}, nil
}

// Send writes msg as a single JSON frame.
func (s *Socket) Send(ctx context.Context, msg protocol.Outbound) error {
	if err := wsjson.Write(ctx, s.conn, msg); err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	s.log.Debug("posted message", "command", msg.OutboundCommand())
	return nil
}

// Pump reads frames until the connection or ctx ends and delivers each text
// frame to ch. Binary frames are skipped. A normal close returns nil.
func (s *Socket) Pump(ctx context.Context, ch *Channel) error {
	for {
		typ, data, err := s.conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil || websocket.CloseStatus(err) == websocket.StatusNormalClosure {
				return nil
			}
			return fmt.Errorf("read frame: %w", err)
		}
		if typ != websocket.MessageText {
			s.log.Debug("skipping binary frame", "bytes", len(data))
			continue
		}
		ch.Deliver(data)
	}
}

// Close closes the connection with a normal closure status.
func (s *Socket) Close() error {
	err := s.conn.Close(websocket.StatusNormalClosure, "panel closed")
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("close socket: %w", err)
	}
	return nil
}

// ParseHostURL normalizes a host address into a ws:// or wss:// URL. A bare
// host:port gets the default scheme and path.
func ParseHostURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = defaultHostURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "ws://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("parse host url %q: %w", raw, err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("parse host url %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("parse host url %q: missing host", raw)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/panel"
	}
	u.Fragment = ""
	return u.String(), nil
}
