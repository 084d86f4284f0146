package app

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/protocol"
)

const (
	baseRedialDelay = time.Second
	maxBackoff      = 30 * time.Second
)

// errDisconnected is returned for posts made while the host link is down.
var errDisconnected = errors.New("not connected to host")

// conn is one live host connection.
type conn interface {
	channel.Sender
	Pump(ctx context.Context, ch *channel.Channel) error
	Close() error
}

type dialFunc func(ctx context.Context, url string, logger *slog.Logger) (conn, error)

func dialSocket(ctx context.Context, url string, logger *slog.Logger) (conn, error) {
	sock, err := channel.Dial(ctx, url, logger)
	if err != nil {
		return nil, err
	}
	return sock, nil
}

// hostLink keeps a connection to the host open, redialing with backoff when
// it drops. Posts made while disconnected fail; they are never queued.
type hostLink struct {
	url   string
	dial  dialFunc
	delay time.Duration
	log   *slog.Logger

	mu      sync.Mutex
	current conn
}

var _ channel.Sender = (*hostLink)(nil)

func newHostLink(url string, dial dialFunc, logger *slog.Logger) *hostLink {
	if dial == nil {
		dial = dialSocket
	}
	return &hostLink{url: url, dial: dial, delay: baseRedialDelay, log: logger}
}

// Send implements channel.Sender.
func (l *hostLink) Send(ctx context.Context, msg protocol.Outbound) error {
	l.mu.Lock()
	c := l.current
	l.mu.Unlock()
	if c == nil {
		return errDisconnected
	}
	return c.Send(ctx, msg)
}

// Connected reports whether a connection is currently up.
func (l *hostLink) Connected() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current != nil
}

// Start dials once in the foreground so startup fails fast against a missing
// host, then keeps the connection alive in a background goroutine until ctx
// ends. done closes when that goroutine exits.
func (l *hostLink) Start(ctx context.Context, ch *channel.Channel) (done <-chan struct{}, err error) {
	first, err := l.dial(ctx, l.url, l.log)
	if err != nil {
		return nil, err
	}
	l.set(first)

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		l.run(ctx, ch, first)
	}()
	return finished, nil
}

func (l *hostLink) run(ctx context.Context, ch *channel.Channel, c conn) {
	failures := 0
	for {
		if c != nil {
			if err := c.Pump(ctx, ch); err != nil {
				l.log.Warn("host connection lost", "error", err)
			} else {
				l.log.Info("host connection closed")
			}
			l.set(nil)
			_ = c.Close()
			c = nil
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(calculateBackoff(failures, l.delay)):
		}

		next, err := l.dial(ctx, l.url, l.log)
		if err != nil {
			failures++
			l.log.Warn("redial failed", "error", err, "failures", failures)
			continue
		}
		failures = 0
		l.set(next)
		c = next
	}
}

func (l *hostLink) set(c conn) {
	l.mu.Lock()
	l.current = c
	l.mu.Unlock()
}

// Close closes the live connection, if any.
func (l *hostLink) Close() error {
	l.mu.Lock()
	c := l.current
	l.current = nil
	l.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

// calculateBackoff doubles interval per consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 {
		return interval
	}
	delay := interval
	for i := 0; i < failures; i++ {
		delay *= 2
		if delay >= maxBackoff {
			return maxBackoff
		}
	}
	return delay
}
