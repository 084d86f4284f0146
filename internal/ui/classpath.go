package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jconf/internal/classpath"
	"github.com/five82/jconf/internal/prefs"
	"github.com/five82/jconf/internal/protocol"
)

type classpathPane int

const (
	paneProjects classpathPane = iota
	paneJDK
	paneSources
	paneLibraries
)

type classpathMode int

const (
	modeBrowse classpathMode = iota
	modeSession
	modeOutput
)

const (
	fieldPath = iota
	fieldOutput
)

// ClasspathModel is the Bubble Tea model of the classpath panel.
type ClasspathModel struct {
	ctx       context.Context
	ctrl      *classpath.Controller
	log       *slog.Logger
	prefs     prefs.Prefs
	prefsPath string

	theme    Theme
	keys     classpathKeys
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	state   classpath.State
	focus   classpathPane
	cursors map[classpathPane]int

	mode        classpathMode
	sessionList classpath.List
	inputs      [2]textinput.Model
	inputFocus  int

	status statusLine
}

// NewClasspathModel builds the classpath panel around ctrl.
func NewClasspathModel(opts Options, ctrl *classpath.Controller) ClasspathModel {
	opts = opts.normalize()
	theme := GetTheme(opts.Prefs.Theme)

	path := textinput.New()
	path.Prompt = "path   "
	path.Placeholder = "src/main/java"
	output := textinput.New()
	output.Prompt = "output "
	output.Placeholder = "bin"

	return ClasspathModel{
		ctx:       opts.Context,
		ctrl:      ctrl,
		log:       opts.Logger,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		theme:     theme,
		keys:      defaultClasspathKeys(),
		help:      newHelpModel(theme),
		state:     ctrl.Store().State(),
		focus:     paneSources,
		cursors:   make(map[classpathPane]int),
		inputs:    [2]textinput.Model{path, output},
	}
}

// Init implements tea.Model.
func (m ClasspathModel) Init() tea.Cmd {
	return m.waitForState()
}

func (m ClasspathModel) waitForState() tea.Cmd {
	return waitForUpdate(m.ctx, m.ctrl.Store(), func(s classpath.State) tea.Msg {
		return classpathStateMsg(s)
	})
}

// Update implements tea.Model.
func (m ClasspathModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = footerWidth(msg.Width)
		m.ready = true
		return m, nil

	case classpathStateMsg:
		m.applyState(classpath.State(msg))
		return m, m.waitForState()

	case statusExpiredMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

// applyState adopts a fresh store snapshot and keeps the cursors and the
// draft inputs consistent with it.
func (m *ClasspathModel) applyState(s classpath.State) {
	m.state = s
	for _, pane := range []classpathPane{paneProjects, paneJDK, paneSources, paneLibraries} {
		if n := m.rowCount(pane); m.cursors[pane] >= n {
			m.cursors[pane] = max(n-1, 0)
		}
	}
	if !m.paneVisible(m.focus) {
		m.focus = paneSources
	}

	if m.mode != modeSession {
		return
	}
	sess := s.Session(m.sessionList)
	if sess == nil {
		m.leaveInput()
		return
	}
	if m.inputs[fieldPath].Value() != sess.DraftPath {
		m.inputs[fieldPath].SetValue(sess.DraftPath)
	}
	if m.inputs[fieldOutput].Value() != sess.DraftOutput {
		m.inputs[fieldOutput].SetValue(sess.DraftOutput)
	}
}

func (m ClasspathModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeSession:
		return m.handleSessionKey(msg)
	case modeOutput:
		return m.handleOutputKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.help = newHelpModel(m.theme)
		m.help.Width = footerWidth(m.width)
		m.prefs.Theme = m.theme.Name
		savePrefs(m.prefsPath, m.prefs, m.log)
	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(1)
	case key.Matches(msg, m.keys.ShiftTab):
		m.cycleFocus(-1)
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.Confirm):
		return m.confirm()
	case key.Matches(msg, m.keys.Add):
		return m.add()
	case key.Matches(msg, m.keys.Remove):
		return m.remove()
	case key.Matches(msg, m.keys.EditOutput):
		return m.editOutput()
	case key.Matches(msg, m.keys.Apply):
		return m.report("Settings applied", m.post(m.ctrl.Apply))
	case key.Matches(msg, m.keys.Revert):
		m.ctrl.Rollback()
		m.refresh()
		return m.report("Source edits reverted", nil)
	}
	return m, nil
}

func (m ClasspathModel) confirm() (tea.Model, tea.Cmd) {
	cursor := m.cursors[m.focus]
	switch m.focus {
	case paneProjects:
		err := m.post(func(ctx context.Context) error { return m.ctrl.SelectProject(ctx, cursor) })
		return m.report("Loading project", err)
	case paneJDK:
		if cursor >= len(m.state.VMInstalls) {
			return m, nil
		}
		vm := m.state.VMInstalls[cursor]
		err := m.ctrl.SelectJDK(vm.Path)
		m.refresh()
		return m.report("JDK set to "+vm.Name+", apply to save", err)
	case paneSources:
		return m.startSession(classpath.ListSources, m.ctrl.Edit(classpath.ListSources, cursor))
	case paneLibraries:
		return m.startSession(classpath.ListLibraries, m.ctrl.Edit(classpath.ListLibraries, cursor))
	}
	return m, nil
}

func (m ClasspathModel) add() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneSources:
		if m.state.ProjectType == protocol.ProjectTypeUnmanagedFolder {
			return m.report("Pick a folder in the host", m.post(m.ctrl.AddUnmanagedSource))
		}
		return m.startSession(classpath.ListSources, m.ctrl.Add(classpath.ListSources))
	case paneLibraries:
		return m.startSession(classpath.ListLibraries, m.ctrl.Add(classpath.ListLibraries))
	}
	return m, nil
}

func (m ClasspathModel) remove() (tea.Model, tea.Cmd) {
	cursor := m.cursors[m.focus]
	var err error
	switch m.focus {
	case paneSources:
		if cursor >= len(m.state.Sources) {
			return m, nil
		}
		path := m.state.Sources[cursor].Path
		err = m.post(func(ctx context.Context) error { return m.ctrl.RemoveSource(ctx, path) })
	case paneLibraries:
		if cursor >= len(m.state.ReferencedLibraries) {
			return m, nil
		}
		err = m.ctrl.RemoveLibrary(m.state.ReferencedLibraries[cursor])
	default:
		return m, nil
	}
	m.refresh()
	return m.report("Removed", err)
}

func (m ClasspathModel) editOutput() (tea.Model, tea.Cmd) {
	if !m.state.LibrariesEditable() {
		return m.report("", fmt.Errorf("set output path: %w", classpath.ErrNotUnmanaged))
	}
	m.mode = modeOutput
	m.inputFocus = fieldOutput
	m.inputs[fieldOutput].SetValue(m.state.DefaultOutput)
	m.inputs[fieldPath].Blur()
	cmd := m.inputs[fieldOutput].Focus()
	return m, cmd
}

func (m ClasspathModel) startSession(list classpath.List, err error) (tea.Model, tea.Cmd) {
	if err != nil {
		return m.report("", err)
	}
	m.refresh()
	sess := m.state.Session(list)
	if sess == nil {
		return m, nil
	}
	m.mode = modeSession
	m.sessionList = list
	m.inputFocus = fieldPath
	m.inputs[fieldPath].SetValue(sess.DraftPath)
	m.inputs[fieldOutput].SetValue(sess.DraftOutput)
	m.inputs[fieldOutput].Blur()
	cmd := m.inputs[fieldPath].Focus()
	return m, cmd
}

func (m ClasspathModel) handleSessionKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	list := m.sessionList
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.ctrl.Cancel(list)
		m.leaveInput()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		if err := m.syncDraft(); err != nil {
			return m.report("", err)
		}
		err := m.post(func(ctx context.Context) error { return m.ctrl.Commit(ctx, list) })
		m.leaveInput()
		m.refresh()
		if err != nil {
			return m.report("", err)
		}
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		if list != classpath.ListSources {
			return m, nil
		}
		m.inputs[m.inputFocus].Blur()
		m.inputFocus = 1 - m.inputFocus
		cmd := m.inputs[m.inputFocus].Focus()
		return m, cmd
	case key.Matches(msg, m.keys.BrowseSource):
		return m.report("Pick a source folder in the host", m.post(func(ctx context.Context) error {
			return m.ctrl.Browse(ctx, protocol.BrowseSource)
		}))
	case key.Matches(msg, m.keys.BrowseOutput):
		return m.report("Pick an output folder in the host", m.post(func(ctx context.Context) error {
			return m.ctrl.Browse(ctx, protocol.BrowseOutput)
		}))
	}

	var cmd tea.Cmd
	m.inputs[m.inputFocus], cmd = m.inputs[m.inputFocus].Update(msg)
	if err := m.syncDraft(); err != nil {
		return m.report("", err)
	}
	return m, cmd
}

func (m ClasspathModel) handleOutputKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.leaveInput()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		err := m.ctrl.SetDefaultOutput(strings.TrimSpace(m.inputs[fieldOutput].Value()))
		m.leaveInput()
		m.refresh()
		return m.report("Output path staged, apply to save", err)
	}
	var cmd tea.Cmd
	m.inputs[fieldOutput], cmd = m.inputs[fieldOutput].Update(msg)
	return m, cmd
}

func (m *ClasspathModel) syncDraft() error {
	path := m.inputs[fieldPath].Value()
	output := m.inputs[fieldOutput].Value()
	if m.sessionList != classpath.ListSources {
		return m.ctrl.SetDraft(m.sessionList, &path, nil)
	}
	return m.ctrl.SetDraft(m.sessionList, &path, &output)
}

func (m *ClasspathModel) leaveInput() {
	m.mode = modeBrowse
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
}

func (m *ClasspathModel) refresh() {
	m.applyState(m.ctrl.Store().State())
}

// post runs fn with a bounded context.
func (m ClasspathModel) post(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(m.ctx, PostTimeout)
	defer cancel()
	return fn(ctx)
}

func (m ClasspathModel) report(ok string, err error) (tea.Model, tea.Cmd) {
	m.refresh()
	switch {
	case err != nil:
		m.log.Warn("classpath action failed", "error", err)
		m.status = statusLine{text: describeError(err), isErr: true, at: time.Now()}
	case ok != "":
		m.status = statusLine{text: ok, at: time.Now()}
	default:
		return m, nil
	}
	return m, expireStatusCmd()
}

func describeError(err error) string {
	switch {
	case errors.Is(err, classpath.ErrReadOnly):
		return "This project's classpath is managed elsewhere and cannot be edited here."
	case errors.Is(err, classpath.ErrNotUnmanaged):
		return "Only unmanaged folder projects support this."
	case errors.Is(err, classpath.ErrNoProject):
		return "No project is selected."
	default:
		return err.Error()
	}
}

func (m *ClasspathModel) cycleFocus(step int) {
	panes := m.visiblePanes()
	idx := 0
	for i, p := range panes {
		if p == m.focus {
			idx = i
		}
	}
	idx = (idx + step + len(panes)) % len(panes)
	m.focus = panes[idx]
}

func (m *ClasspathModel) moveCursor(step int) {
	n := m.rowCount(m.focus)
	if n == 0 {
		return
	}
	c := m.cursors[m.focus] + step
	m.cursors[m.focus] = min(max(c, 0), n-1)
}

func (m ClasspathModel) visiblePanes() []classpathPane {
	panes := []classpathPane{paneProjects, paneJDK, paneSources}
	if m.paneVisible(paneLibraries) {
		panes = append(panes, paneLibraries)
	}
	return panes
}

func (m ClasspathModel) paneVisible(p classpathPane) bool {
	if p == paneLibraries {
		return m.state.LibrariesEditable()
	}
	return true
}

func (m ClasspathModel) rowCount(p classpathPane) int {
	switch p {
	case paneProjects:
		return len(m.state.Projects)
	case paneJDK:
		return len(m.state.VMInstalls)
	case paneSources:
		return len(m.state.Sources)
	case paneLibraries:
		return len(m.state.ReferencedLibraries)
	default:
		return 0
	}
}

// View implements tea.Model.
func (m ClasspathModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return renderHelp(m.theme, m.width, m.height, "Classpath Shortcuts", m.keys)
	}

	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")

	switch {
	case m.state.Exception != "":
		b.WriteString(styles.DangerText.Render(m.state.Exception.Message()))
		b.WriteString("\n")
	case len(m.state.Projects) == 0:
		b.WriteString(styles.MutedText.Render("Waiting for the host to list projects..."))
		b.WriteString("\n")
	default:
		b.WriteString(m.renderBody(styles))
		b.WriteString("\n")
	}

	if m.status.visible(time.Now()) {
		st := styles.SuccessText
		if m.status.isErr {
			st = styles.DangerText
		}
		b.WriteString(st.Render(m.status.text))
		b.WriteString("\n")
	}
	b.WriteString(styles.Footer.Width(m.width).Render(m.help.View(m.keys)))
	return b.String()
}

func (m ClasspathModel) renderHeader(styles Styles) string {
	parts := []string{styles.Logo.Render("jconf"), styles.MutedText.Render("Classpath")}
	if project, ok := m.state.Project(); ok {
		parts = append(parts, styles.Text.Bold(true).Render(project.Name))
		if m.state.Loaded {
			parts = append(parts, styles.Badge.Render(string(m.state.ProjectType)))
		}
	}
	if m.state.ReadOnly() && m.state.Loaded {
		parts = append(parts, styles.MutedText.Render("read-only"))
	}
	if m.state.SourcesPending {
		parts = append(parts, styles.PendingBadge.Render("unsaved"))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m ClasspathModel) renderBody(styles Styles) string {
	leftWidth := m.width / 3
	rightWidth := m.width - leftWidth - 4
	if m.width < LayoutCompactWidth {
		leftWidth = m.width - 4
		rightWidth = m.width - 4
	}

	projects := make([]string, 0, len(m.state.Projects))
	for _, p := range m.state.Projects {
		projects = append(projects, p.Name)
	}
	jdks := make([]string, 0, len(m.state.VMInstalls))
	for _, vm := range m.state.VMInstalls {
		label := vm.Name
		if vm.Path == m.state.ActiveVMInstallPath {
			label += " ✓"
		}
		jdks = append(jdks, label)
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderPane(styles, paneProjects, "Projects", projects, "No projects", leftWidth),
		m.renderPane(styles, paneJDK, "JDK", jdks, "No JDKs reported", leftWidth),
	)

	sources := make([]string, 0, len(m.state.Sources))
	for _, root := range m.state.Sources {
		sources = append(sources, root.Path+styles.FaintText.Render("  → "+root.OutputOr(m.state.DefaultOutput)))
	}
	rightParts := []string{m.renderPane(styles, paneSources, "Sources", sources, "No source folders", rightWidth)}
	if m.paneVisible(paneLibraries) {
		rightParts = append(rightParts,
			m.renderPane(styles, paneLibraries, "Referenced Libraries", m.state.ReferencedLibraries, "No libraries", rightWidth),
			styles.MutedText.Render("Default output: ")+styles.Text.Render(m.state.DefaultOutput),
		)
	}
	if form := m.renderForm(styles, rightWidth); form != "" {
		rightParts = append(rightParts, form)
	}
	right := lipgloss.JoinVertical(lipgloss.Left, rightParts...)

	if m.width < LayoutCompactWidth {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (m ClasspathModel) renderPane(styles Styles, pane classpathPane, title string, rows []string, empty string, width int) string {
	focused := m.focus == pane && m.mode == modeBrowse
	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	if len(rows) == 0 {
		b.WriteString("\n")
		b.WriteString(styles.FaintText.Render(empty))
	}
	editing := -2
	if pane == paneSources || pane == paneLibraries {
		list := classpath.ListSources
		if pane == paneLibraries {
			list = classpath.ListLibraries
		}
		if sess := m.state.Session(list); sess != nil {
			editing = sess.Target
		}
	}
	for i, row := range rows {
		b.WriteString("\n")
		switch {
		case focused && i == m.cursors[pane]:
			b.WriteString(styles.Selected.Render("› " + row))
		case i == editing:
			b.WriteString(styles.WarningText.Render("✎ " + row))
		default:
			b.WriteString("  " + row)
		}
	}
	return styles.PaneStyle(focused).Width(max(width, 10)).Render(b.String())
}

func (m ClasspathModel) renderForm(styles Styles, width int) string {
	switch m.mode {
	case modeSession:
		title := "Edit " + m.sessionList.String()
		if sess := m.state.Session(m.sessionList); sess != nil && sess.IsNew() {
			title = "Add " + m.sessionList.String()
		}
		lines := []string{styles.AccentText.Bold(true).Render(title), m.inputs[fieldPath].View()}
		if m.sessionList == classpath.ListSources {
			lines = append(lines, m.inputs[fieldOutput].View())
		}
		lines = append(lines, styles.FaintText.Render("enter OK · esc cancel · ctrl+b/ctrl+o browse"))
		return styles.FocusedPane.Width(max(width, 10)).Render(strings.Join(lines, "\n"))
	case modeOutput:
		lines := []string{
			styles.AccentText.Bold(true).Render("Default output"),
			m.inputs[fieldOutput].View(),
			styles.FaintText.Render("enter OK · esc cancel"),
		}
		return styles.FocusedPane.Width(max(width, 10)).Render(strings.Join(lines, "\n"))
	}
	return ""
}
