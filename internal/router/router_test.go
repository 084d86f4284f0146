package router

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/protocol"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRouter_FirstMatchWins(t *testing.T) {
	var calls []string
	r := New("test", quietLogger(),
		Route{Command: "a", Handle: func(protocol.Envelope) error { calls = append(calls, "first"); return nil }},
		Route{Command: "a", Handle: func(protocol.Envelope) error { calls = append(calls, "second"); return nil }},
	)
	assert.True(t, r.Route([]byte(`{"command":"a"}`)))
	assert.Equal(t, []string{"first"}, calls)
}

func TestRouter_ExactMatchOnly(t *testing.T) {
	called := false
	r := New("test", quietLogger(), Route{Command: "onDidBrowseFolder", Handle: func(protocol.Envelope) error {
		called = true
		return nil
	}})
	assert.False(t, r.Route([]byte(`{"command":"ondidbrowsefolder"}`)))
	assert.False(t, r.Route([]byte(`{"command":"onDidBrowseFolder2"}`)))
	assert.False(t, called)
}

func TestRouter_ToleratesBadInput(t *testing.T) {
	r := New("test", quietLogger(),
		Route{Command: "fails", Handle: func(protocol.Envelope) error { return fmt.Errorf("%w: nope", protocol.ErrMalformed) }},
		Route{Command: "panics", Handle: func(protocol.Envelope) error { panic("boom") }},
		Route{Command: "", Handle: func(protocol.Envelope) error { return nil }},
		Route{Command: "nil handler"},
	)
	assert.False(t, r.Route([]byte(`not json`)))
	assert.False(t, r.Route([]byte(`{"command":"unknown"}`)))
	assert.False(t, r.Route([]byte(`{"command":"fails"}`)))
	assert.NotPanics(t, func() { assert.False(t, r.Route([]byte(`{"command":"panics"}`))) })
	assert.False(t, r.Route([]byte(`{"command":"nil handler"}`)))
}

func TestMount_RoutesUntilClosed(t *testing.T) {
	ch := channel.New(&channel.Recorder{})
	got := make(chan string, 4)
	r := New("test", quietLogger(), Route{Command: "ping", Handle: func(env protocol.Envelope) error {
		got <- string(env.Raw)
		return nil
	}})

	m := r.Mount(context.Background(), ch)
	require.NotEmpty(t, m.ID)
	require.Equal(t, 1, ch.Subscribers())

	ch.Deliver([]byte(`{"command":"ping","n":1}`))
	select {
	case raw := <-got:
		assert.Contains(t, raw, `"n":1`)
	case <-time.After(time.Second):
		t.Fatal("handler not called")
	}

	m.Close()
	m.Close()
	assert.Equal(t, 0, ch.Subscribers())
	select {
	case <-m.Done():
	default:
		t.Fatal("listener still running after Close")
	}

	ch.Deliver([]byte(`{"command":"ping","n":2}`))
	select {
	case raw := <-got:
		t.Fatalf("handler called after unmount with %s", raw)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestMount_StopsWhenContextEnds(t *testing.T) {
	ch := channel.New(&channel.Recorder{})
	r := New("test", quietLogger())
	ctx, cancel := context.WithCancel(context.Background())
	m := r.Mount(ctx, ch)
	cancel()

	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on context cancel")
	}
	assert.Equal(t, 0, ch.Subscribers())
}

func TestMount_StopsWhenChannelCloses(t *testing.T) {
	ch := channel.New(&channel.Recorder{})
	m := New("test", quietLogger()).Mount(context.Background(), ch)
	ch.Close()
	select {
	case <-m.Done():
	case <-time.After(time.Second):
		t.Fatal("listener did not stop on channel close")
	}
}
