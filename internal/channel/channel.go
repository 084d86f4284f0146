package channel

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/five82/jconf/internal/protocol"
)

// ErrClosed is returned when posting to or reading from a closed channel.
var ErrClosed = errors.New("channel closed")

// Sender delivers outbound messages to the host.
type Sender interface {
	Send(ctx context.Context, msg protocol.Outbound) error
}

// Channel is the panel side of the host connection: outbound messages go to
// a Sender, inbound messages are fanned out to subscriptions in arrival order.
type Channel struct {
	out Sender

	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	closed bool
}

// New creates a channel that posts through out.
func New(out Sender) *Channel {
	return &Channel{out: out, subs: make(map[*subscriber]struct{})}
}

// Post sends exactly one message to the host. It never retries.
func (c *Channel) Post(ctx context.Context, msg protocol.Outbound) error {
	c.mu.Lock()
	closed := c.closed
	c.mu.Unlock()
	if closed {
		return ErrClosed
	}
	if c.out == nil {
		return fmt.Errorf("post %s: no sender", msg.OutboundCommand())
	}
	if err := c.out.Send(ctx, msg); err != nil {
		return fmt.Errorf("post %s: %w", msg.OutboundCommand(), err)
	}
	return nil
}

// Deliver hands one raw inbound message to every current subscriber.
// Messages delivered after Close are dropped.
func (c *Channel) Deliver(data []byte) {
	msg := make([]byte, len(data))
	copy(msg, data)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	for sub := range c.subs {
		sub.push(msg)
	}
}

// Subscribe registers a new listener. The caller must Close the returned
// subscription when its panel is torn down.
func (c *Channel) Subscribe() *Subscription {
	sub := &subscriber{ready: make(chan struct{}, 1), done: make(chan struct{})}
	c.mu.Lock()
	if c.closed {
		sub.finish()
	} else {
		c.subs[sub] = struct{}{}
	}
	c.mu.Unlock()
	return &Subscription{ch: c, sub: sub}
}

// Subscribers reports how many subscriptions are currently registered.
func (c *Channel) Subscribers() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.subs)
}

// Close ends every subscription and rejects further posts.
func (c *Channel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	for sub := range c.subs {
		sub.finish()
		delete(c.subs, sub)
	}
}

// Subscription is one registered listener on a Channel.
type Subscription struct {
	ch   *Channel
	sub  *subscriber
	once sync.Once
}

// Next blocks until an inbound message is available, the subscription is
// closed, or ctx is done. Queued messages are drained before a close is
// reported.
func (s *Subscription) Next(ctx context.Context) ([]byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if msg, ok := s.sub.pop(); ok {
			return msg, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.sub.done:
			if msg, ok := s.sub.pop(); ok {
				return msg, nil
			}
			return nil, ErrClosed
		case <-s.sub.ready:
		}
	}
}

// Close removes the subscription from its channel. It is safe to call more
// than once.
func (s *Subscription) Close() {
	if s == nil || s.ch == nil || s.sub == nil {
		return
	}
	s.once.Do(func() {
		s.ch.mu.Lock()
		delete(s.ch.subs, s.sub)
		s.ch.mu.Unlock()
		s.sub.finish()
	})
}

type subscriber struct {
	mu       sync.Mutex
	queue    [][]byte
	ready    chan struct{}
	done     chan struct{}
	finished bool
}

func (s *subscriber) push(msg []byte) {
	s.mu.Lock()
	if s.finished {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, msg)
	s.mu.Unlock()
	select {
	case s.ready <- struct{}{}:
	default:
	}
}

func (s *subscriber) pop() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	msg := s.queue[0]
	s.queue[0] = nil
	s.queue = s.queue[1:]
	return msg, true
}

func (s *subscriber) finish() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.finished {
		return
	}
	s.finished = true
	close(s.done)
}
