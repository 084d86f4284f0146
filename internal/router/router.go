// Package router dispatches inbound host messages to panel handlers.
//
// A Router owns an ordered route table. Routing is an exact match on the
// command tag and the first matching route wins. Messages with no matching
// route are ignored so that newer hosts can add commands without breaking
// older panels. Handlers that fail, or panic, are logged; nothing escapes
// into the listener loop.
//
// Mount ties one channel subscription to one listener goroutine. The
// returned handle must be closed when the panel goes away; Close releases the
// subscription and waits for the listener to stop.
package router

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/protocol"
)

// Handler consumes one parsed inbound message.
type Handler func(env protocol.Envelope) error

// Route binds a command tag to a handler.
type Route struct {
	Command string
	Handle  Handler
}

// Source is anything a router can subscribe to.
type Source interface {
	Subscribe() *channel.Subscription
}

// Router routes inbound messages for one panel.
type Router struct {
	name   string
	routes []Route
	log    *slog.Logger
}

// New builds a router. name labels log lines.
func New(name string, logger *slog.Logger, routes ...Route) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	table := make([]Route, 0, len(routes))
	for _, rt := range routes {
		if rt.Command == "" || rt.Handle == nil {
			continue
		}
		table = append(table, rt)
	}
	return &Router{name: name, routes: table, log: logger.With("panel", name)}
}

// Route handles one raw message. It reports whether a handler accepted it;
// unknown commands and malformed messages report false.
func (r *Router) Route(data []byte) (handled bool) {
	env, err := protocol.Parse(data)
	if err != nil {
		r.log.Warn("dropping inbound message", "error", err)
		return false
	}
	for _, rt := range r.routes {
		if rt.Command != env.Command {
			continue
		}
		return r.invoke(rt, env)
	}
	r.log.Debug("ignoring unrecognized command", "command", env.Command)
	return false
}

func (r *Router) invoke(rt Route, env protocol.Envelope) (ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("handler panicked", "command", env.Command, "panic", fmt.Sprint(rec))
			ok = false
		}
	}()
	if err := rt.Handle(env); err != nil {
		level := slog.LevelError
		if errors.Is(err, protocol.ErrMalformed) {
			level = slog.LevelWarn
		}
		r.log.Log(context.Background(), level, "inbound message rejected", "command", env.Command, "error", err)
		return false
	}
	return true
}

// Mount is a live subscription plus its listener goroutine.
type Mount struct {
	ID string

	cancel context.CancelFunc
	sub    *channel.Subscription
	done   chan struct{}
}

// Mount subscribes to src and routes every message until ctx ends or the
// returned Mount is closed.
func (r *Router) Mount(ctx context.Context, src Source) *Mount {
	ctx, cancel := context.WithCancel(ctx)
	m := &Mount{
		ID:     uuid.NewString(),
		cancel: cancel,
		sub:    src.Subscribe(),
		done:   make(chan struct{}),
	}
	log := r.log.With("mount", m.ID)
	log.Debug("listener mounted")

	go func() {
		defer close(m.done)
		defer m.sub.Close()
		for {
			data, err := m.sub.Next(ctx)
			if err != nil {
				if !errors.Is(err, channel.ErrClosed) && ctx.Err() == nil {
					log.Error("listener stopped", "error", err)
				}
				log.Debug("listener unmounted")
				return
			}
			r.Route(data)
		}
	}()
	return m
}

// Close deregisters the listener and waits for it to exit.
func (m *Mount) Close() {
	if m == nil {
		return
	}
	m.cancel()
	m.sub.Close()
	<-m.done
}

// Done is closed once the listener has exited.
func (m *Mount) Done() <-chan struct{} {
	return m.done
}
