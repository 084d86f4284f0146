package ui

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/classpath"
	"github.com/five82/jconf/internal/dispatch"
	"github.com/five82/jconf/internal/prefs"
	"github.com/five82/jconf/internal/protocol"
)

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		Context:   context.Background(),
		Prefs:     prefs.Prefs{Theme: "Slate"},
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func newTestDispatcher(t *testing.T) (*dispatch.Dispatcher, *channel.Recorder) {
	t.Helper()
	rec := &channel.Recorder{}
	ch := channel.New(rec)
	t.Cleanup(ch.Close)
	return dispatch.New(ch), rec
}

func loadedClasspath(kind protocol.ProjectType, paths ...string) classpath.State {
	roots := make([]protocol.SourceRoot, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, protocol.SourceRoot{Path: p})
	}
	return classpath.State{
		Projects:            []protocol.ProjectInfo{{Name: "demo", RootPath: "/ws/demo"}},
		ActiveProject:       0,
		VMInstalls:          []protocol.VMInstall{{Name: "JDK 17", Path: "/jdk/17"}, {Name: "JDK 21", Path: "/jdk/21"}},
		Loaded:              true,
		ProjectType:         kind,
		Sources:             roots,
		ConfirmedSources:    protocol.CloneSourceRoots(roots),
		DefaultOutput:       "bin",
		ActiveVMInstallPath: "/jdk/17",
		ReferencedLibraries: []string{"lib/a.jar"},
	}
}

func newClasspathModel(t *testing.T, s classpath.State) (ClasspathModel, *classpath.Controller, *channel.Recorder) {
	t.Helper()
	out, rec := newTestDispatcher(t)
	opts := testOptions(t)
	ctrl := classpath.NewController(classpath.NewStore(s), out, opts.Logger)
	m := NewClasspathModel(opts, ctrl)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(ClasspathModel), ctrl, rec
}

func press(t *testing.T, m tea.Model, keys ...tea.KeyMsg) tea.Model {
	t.Helper()
	for _, k := range keys {
		m, _ = m.Update(k)
	}
	return m
}

func TestClasspathModel_AddSourceRoundTrip(t *testing.T) {
	m, ctrl, rec := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))

	next := press(t, m, runes("a"))
	cm := next.(ClasspathModel)
	if cm.mode != modeSession {
		t.Fatalf("mode = %v, want session", cm.mode)
	}
	if got := ctrl.Store().State().Mode(classpath.ListSources); got != classpath.EditingNewRow {
		t.Fatalf("source mode = %v, want %v", got, classpath.EditingNewRow)
	}

	next = press(t, next, runes("g"), runes("e"), runes("n"))
	if got := ctrl.Store().State().SourceSession.DraftPath; got != "gen" {
		t.Fatalf("draft path = %q, want gen", got)
	}

	next = press(t, next, tea.KeyMsg{Type: tea.KeyEnter})
	if next.(ClasspathModel).mode != modeBrowse {
		t.Fatal("session still open after commit")
	}
	sent, ok := rec.Last().(protocol.UpdateSourcePath)
	if !ok {
		t.Fatalf("last message = %#v, want UpdateSourcePath", rec.Last())
	}
	if got := protocol.SourcePaths(sent.SourcePaths); strings.Join(got, ",") != "src,gen" {
		t.Fatalf("posted paths = %v, want [src gen]", got)
	}
}

func TestClasspathModel_EscapeCancels(t *testing.T) {
	m, ctrl, rec := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))

	next := press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("x"), tea.KeyMsg{Type: tea.KeyEscape})
	if next.(ClasspathModel).mode != modeBrowse {
		t.Fatal("escape did not leave the session")
	}
	s := ctrl.Store().State()
	if s.SourceSession != nil {
		t.Fatal("session survived escape")
	}
	if s.Sources[0].Path != "src" {
		t.Fatalf("source = %q, want src", s.Sources[0].Path)
	}
	if len(rec.Sent()) != 0 {
		t.Fatalf("sent %d messages, want 0", len(rec.Sent()))
	}
}

func TestClasspathModel_HostBrowseFillsInput(t *testing.T) {
	m, ctrl, _ := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))
	next := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	ctrl.Store().Dispatch(classpath.ApplyBrowse{Result: protocol.BrowseFolderResult{Path: "/ws/out", Type: protocol.BrowseOutput}})
	next, _ = next.Update(classpathStateMsg(ctrl.Store().State()))

	cm := next.(ClasspathModel)
	if got := cm.inputs[fieldOutput].Value(); got != "/ws/out" {
		t.Fatalf("output input = %q, want /ws/out", got)
	}
}

func TestClasspathModel_UnmanagedApply(t *testing.T) {
	m, _, rec := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeUnmanagedFolder, "src", "gen"))

	next := press(t, m, tea.KeyMsg{Type: tea.KeyDown}, runes("d"))
	if len(rec.Sent()) != 0 {
		t.Fatalf("unmanaged removal posted %#v", rec.Sent())
	}
	if !strings.Contains(stripANSI(next.View()), "unsaved") {
		t.Fatal("header does not flag pending edits")
	}

	press(t, next, tea.KeyMsg{Type: tea.KeyCtrlS})
	sent := rec.Sent()
	if len(sent) == 0 {
		t.Fatal("apply posted nothing")
	}
	first, ok := sent[0].(protocol.UpdateSourcePathsForUnmanagedFolder)
	if !ok || strings.Join(first.Paths, ",") != "src" {
		t.Fatalf("first message = %#v, want source paths [src]", sent[0])
	}
}

func TestClasspathModel_ReadOnlyShowsError(t *testing.T) {
	m, _, rec := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeOthers, "src"))

	next := press(t, m, runes("a"))
	cm := next.(ClasspathModel)
	if cm.mode != modeBrowse {
		t.Fatal("read-only project opened a session")
	}
	if !cm.status.isErr {
		t.Fatal("no error status for read-only add")
	}
	view := stripANSI(next.View())
	if !strings.Contains(view, "read-only") {
		t.Fatalf("view does not mark the project read-only:\n%s", view)
	}
	if len(rec.Sent()) != 0 {
		t.Fatal("read-only add posted a message")
	}
}

func TestClasspathModel_View(t *testing.T) {
	m, _, _ := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeUnmanagedFolder, "src"))
	view := stripANSI(m.View())
	for _, want := range []string{"demo", "UnmanagedFolder", "Sources", "src", "Referenced Libraries", "lib/a.jar", "JDK 17"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q:\n%s", want, view)
		}
	}

	managed, _, _ := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))
	if strings.Contains(stripANSI(managed.View()), "Referenced Libraries") {
		t.Fatal("managed project shows the library pane")
	}
}

func TestClasspathModel_FooterSpansWidth(t *testing.T) {
	m, _, _ := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))
	lines := strings.Split(m.View(), "\n")
	footer := lines[len(lines)-1]
	if got := lipgloss.Width(footer); got != 120 {
		t.Fatalf("footer width = %d, want 120", got)
	}
	if strings.TrimSpace(stripANSI(footer)) == "" {
		t.Fatal("footer has no key help")
	}
}

func TestFooterWidth(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{0, 0},
		{2, 0},
		{3, 1},
		{120, 118},
	}
	for _, tt := range tests {
		if got := footerWidth(tt.width); got != tt.want {
			t.Fatalf("footerWidth(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestClasspathModel_ExceptionView(t *testing.T) {
	s := classpath.NewState()
	s.Exception = protocol.ExceptionNoJavaProjects
	m, _, _ := newClasspathModel(t, s)
	view := stripANSI(m.View())
	if !strings.Contains(view, protocol.ExceptionNoJavaProjects.Message()) {
		t.Fatalf("view missing exception message:\n%s", view)
	}
}

func TestClasspathModel_CycleThemeSavesPrefs(t *testing.T) {
	m, _, _ := newClasspathModel(t, loadedClasspath(protocol.ProjectTypeManagedBuildTool, "src"))
	next := press(t, m, runes("T"))
	cm := next.(ClasspathModel)
	if cm.theme.Name != "Nightfox" {
		t.Fatalf("theme = %q, want Nightfox", cm.theme.Name)
	}
	saved, err := prefs.Load(cm.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.Theme != "Nightfox" {
		t.Fatalf("saved theme = %q, want Nightfox", saved.Theme)
	}
}
