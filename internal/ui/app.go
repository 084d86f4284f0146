package ui

import (
	"context"
	"errors"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/jconf/internal/classpath"
	"github.com/five82/jconf/internal/formatter"
	"github.com/five82/jconf/internal/prefs"
	"github.com/five82/jconf/internal/state"
)

// Options configures a panel program.
type Options struct {
	Context   context.Context
	Prefs     prefs.Prefs
	PrefsPath string
	Logger    *slog.Logger
}

func (o Options) normalize() Options {
	if o.Context == nil {
		o.Context = context.Background()
	}
	if o.PrefsPath == "" {
		o.PrefsPath = prefs.DefaultPath()
	}
	if o.Prefs.Theme == "" {
		o.Prefs.Theme = ThemeNames()[0]
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// statusLine is a transient message under the panes.
type statusLine struct {
	text  string
	isErr bool
	at    time.Time
}

func (s statusLine) visible(now time.Time) bool {
	return s.text != "" && now.Sub(s.at) < StatusTTL
}

// Messages

type classpathStateMsg classpath.State

type formatterStateMsg formatter.State

type statusExpiredMsg struct{}

// Commands

// waitForUpdate blocks until store changes, then delivers its state wrapped
// by wrap. It returns nil once ctx ends.
func waitForUpdate[S, A any](ctx context.Context, store *state.Store[S, A], wrap func(S) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case <-store.Updates():
			return wrap(store.State())
		}
	}
}

func expireStatusCmd() tea.Cmd {
	return tea.Tick(StatusTTL, func(time.Time) tea.Msg {
		return statusExpiredMsg{}
	})
}

// RunClasspath starts the classpath panel and blocks until it exits.
func RunClasspath(opts Options, ctrl *classpath.Controller) error {
	opts = opts.normalize()
	return run(opts.Context, NewClasspathModel(opts, ctrl))
}

// RunFormatter starts the formatter panel and blocks until it exits.
func RunFormatter(opts Options, ctrl *formatter.Controller) error {
	opts = opts.normalize()
	return run(opts.Context, NewFormatterModel(opts, ctrl))
}

func run(ctx context.Context, m tea.Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func savePrefs(path string, p prefs.Prefs, logger *slog.Logger) {
	if path == "" {
		return
	}
	if err := prefs.Save(path, p); err != nil {
		logger.Warn("save prefs failed", "error", err)
	}
}
