package channel

import (
	"context"
	"sync"

	"github.com/five82/jconf/internal/protocol"
)

// Recorder is an in-process Sender that keeps every posted message. It backs
// offline runs and tests. When Reply is set it is called after each send,
// which lets a caller script host answers.
type Recorder struct {
	Reply func(msg protocol.Outbound)

	mu   sync.Mutex
	sent []protocol.Outbound
}

var _ Sender = (*Recorder)(nil)

// Send records msg.
func (r *Recorder) Send(ctx context.Context, msg protocol.Outbound) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	r.sent = append(r.sent, msg)
	reply := r.Reply
	r.mu.Unlock()
	if reply != nil {
		reply(msg)
	}
	return nil
}

// Sent returns a copy of the messages posted so far.
func (r *Recorder) Sent() []protocol.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	dup := make([]protocol.Outbound, len(r.sent))
	copy(dup, r.sent)
	return dup
}

// Last returns the most recent message, or nil when nothing was sent.
func (r *Recorder) Last() protocol.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		return nil
	}
	return r.sent[len(r.sent)-1]
}

// Reset forgets every recorded message.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.sent = nil
	r.mu.Unlock()
}
