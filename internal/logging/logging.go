// Package logging sets up the process logger.
//
// The panels own the terminal while they run, so log output goes to a file
// opened through bubbletea's LogToFile, which also redirects the standard
// library logger there.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

const prefix = "jconf"

// Setup opens path for appending and installs a text logger at level as the
// slog default. The returned closer flushes and closes the file.
func Setup(path string, level slog.Leveler) (*slog.Logger, io.Closer, error) {
	if path == "" {
		logger := Discard()
		slog.SetDefault(logger)
		return logger, nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := tea.LogToFile(path, prefix)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(file, level)
	slog.SetDefault(logger)
	return logger, file, nil
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Leveler) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, slog.LevelError)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
