package ui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/jconf/internal/formatter"
	"github.com/five82/jconf/internal/prefs"
	"github.com/five82/jconf/internal/protocol"
)

type formatterPane int

const (
	paneCategories formatterPane = iota
	paneSettings
	panePreview
)

// FormatterModel is the Bubble Tea model of the formatter settings panel.
type FormatterModel struct {
	ctx       context.Context
	ctrl      *formatter.Controller
	log       *slog.Logger
	prefs     prefs.Prefs
	prefsPath string

	theme    Theme
	keys     formatterKeys
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool

	state          formatter.State
	focus          formatterPane
	categoryCursor int
	settingCursor  int

	editing   string
	input     textinput.Model
	preview   viewport.Model
	rendered  string
	renderKey string

	status statusLine
}

// NewFormatterModel builds the formatter panel around ctrl.
func NewFormatterModel(opts Options, ctrl *formatter.Controller) FormatterModel {
	opts = opts.normalize()
	theme := GetTheme(opts.Prefs.Theme)

	input := textinput.New()
	input.Prompt = "value "

	m := FormatterModel{
		ctx:       opts.Context,
		ctrl:      ctrl,
		log:       opts.Logger,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		theme:     theme,
		keys:      defaultFormatterKeys(),
		help:      newHelpModel(theme),
		input:     input,
		preview:   viewport.New(0, LayoutMinPreviewHeight),
	}
	m.applyState(ctrl.Store().State())
	return m
}

// Init implements tea.Model. It asks the host for the first rendering.
func (m FormatterModel) Init() tea.Cmd {
	refresh := func() tea.Msg {
		ctx, cancel := context.WithTimeout(m.ctx, PostTimeout)
		defer cancel()
		if err := m.ctrl.Refresh(ctx); err != nil {
			m.log.Warn("initial format request failed", "error", err)
		}
		return nil
	}
	return tea.Batch(refresh, m.waitForState())
}

func (m FormatterModel) waitForState() tea.Cmd {
	return waitForUpdate(m.ctx, m.ctrl.Store(), func(s formatter.State) tea.Msg {
		return formatterStateMsg(s)
	})
}

// Update implements tea.Model.
func (m FormatterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = footerWidth(msg.Width)
		m.ready = true
		m.resizePreview()
		return m, nil

	case formatterStateMsg:
		m.applyState(formatter.State(msg))
		return m, m.waitForState()

	case statusExpiredMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *FormatterModel) applyState(s formatter.State) {
	m.state = s
	for i, c := range formatter.Categories() {
		if c == s.ActiveCategory {
			m.categoryCursor = i
		}
	}
	if n := len(m.settings()); m.settingCursor >= n {
		m.settingCursor = max(n-1, 0)
	}
	m.renderPreview()
}

// renderPreview re-highlights the preview only when its text or style
// changed, keeping the scroll offset otherwise.
func (m *FormatterModel) renderPreview() {
	text := m.state.Preview()
	cacheKey := m.theme.Syntax + "\x00" + text
	if cacheKey == m.renderKey {
		return
	}
	m.renderKey = cacheKey
	m.rendered = highlightJava(text, m.theme.Syntax)
	m.preview.SetContent(m.rendered)
}

func (m *FormatterModel) resizePreview() {
	w := m.width - 4
	if m.width >= LayoutCompactWidth {
		w = m.width - m.width/3 - 4
	}
	m.preview.Width = max(w, 10)
	m.preview.Height = max(m.height-8, LayoutMinPreviewHeight)
}

func (m FormatterModel) settings() []protocol.FormatterSetting {
	return m.state.CategorySettings(m.state.ActiveCategory)
}

func (m FormatterModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if m.editing != "" {
		return m.handleEditKey(msg)
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
		m.renderPreview()
	case key.Matches(msg, m.keys.Tab):
		m.focus = (m.focus + 1) % 3
	case key.Matches(msg, m.keys.ShiftTab):
		m.focus = (m.focus + 2) % 3
	case key.Matches(msg, m.keys.Up):
		m.move(-1)
	case key.Matches(msg, m.keys.Down):
		m.move(1)
	case key.Matches(msg, m.keys.ScrollUp):
		m.preview.HalfViewUp()
	case key.Matches(msg, m.keys.ScrollDown):
		m.preview.HalfViewDown()
	case key.Matches(msg, m.keys.TogglePreview):
		m.ctrl.TogglePreview()
		m.applyState(m.ctrl.Store().State())
	case key.Matches(msg, m.keys.Refresh):
		return m.report("Reformatting preview", m.post(m.ctrl.Refresh))
	case key.Matches(msg, m.keys.Confirm):
		return m.confirm()
	}
	return m, nil
}

func (m *FormatterModel) move(step int) {
	switch m.focus {
	case paneCategories:
		n := len(formatter.Categories())
		m.categoryCursor = min(max(m.categoryCursor+step, 0), n-1)
	case paneSettings:
		if n := len(m.settings()); n > 0 {
			m.settingCursor = min(max(m.settingCursor+step, 0), n-1)
		}
	case panePreview:
		if step < 0 {
			m.preview.LineUp(1)
		} else {
			m.preview.LineDown(1)
		}
	}
}

func (m FormatterModel) confirm() (tea.Model, tea.Cmd) {
	switch m.focus {
	case paneCategories:
		category := formatter.Categories()[m.categoryCursor]
		err := m.post(func(ctx context.Context) error { return m.ctrl.SelectCategory(ctx, category) })
		if err == nil {
			m.settingCursor = 0
			m.prefs.FormatterCategory = string(category)
			savePrefs(m.prefsPath, m.prefs, m.log)
		}
		return m.report("", err)
	case paneSettings:
		settings := m.settings()
		if m.settingCursor >= len(settings) {
			return m, nil
		}
		setting := settings[m.settingCursor]
		if next, ok := toggled(setting.Value); ok {
			return m.report("", m.post(func(ctx context.Context) error {
				return m.ctrl.ChangeSetting(ctx, setting.ID, next)
			}))
		}
		m.editing = setting.ID
		m.input.SetValue(setting.Value)
		m.input.CursorEnd()
		cmd := m.input.Focus()
		return m, cmd
	}
	return m, nil
}

func (m FormatterModel) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape):
		m.stopEditing()
		return m, nil
	case key.Matches(msg, m.keys.Confirm):
		id := m.editing
		value := strings.TrimSpace(m.input.Value())
		m.stopEditing()
		return m.report("", m.post(func(ctx context.Context) error {
			return m.ctrl.ChangeSetting(ctx, id, value)
		}))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *FormatterModel) stopEditing() {
	m.editing = ""
	m.input.Blur()
}

// toggled returns the flipped value of a boolean setting.
func toggled(value string) (string, bool) {
	switch value {
	case "true":
		return "false", true
	case "false":
		return "true", true
	}
	return "", false
}

func (m FormatterModel) post(fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(m.ctx, PostTimeout)
	defer cancel()
	return fn(ctx)
}

func (m FormatterModel) report(ok string, err error) (tea.Model, tea.Cmd) {
	m.applyState(m.ctrl.Store().State())
	switch {
	case err != nil:
		m.log.Warn("formatter action failed", "error", err)
		m.status = statusLine{text: err.Error(), isErr: true, at: time.Now()}
	case ok != "":
		m.status = statusLine{text: ok, at: time.Now()}
	default:
		return m, nil
	}
	return m, expireStatusCmd()
}

// View implements tea.Model.
func (m FormatterModel) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return renderHelp(m.theme, m.width, m.height, "Formatter Shortcuts", m.keys)
	}

	styles := m.theme.Styles()
	var b strings.Builder
	b.WriteString(m.renderHeader(styles))
	b.WriteString("\n")
	b.WriteString(m.renderBody(styles))
	b.WriteString("\n")
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

func (m FormatterModel) renderHeader(styles Styles) string {
	parts := []string{styles.Logo.Render("jconf"), styles.MutedText.Render("Formatter")}
	if m.state.SettingsVersion != "" {
		parts = append(parts, styles.FaintText.Render("profile v"+m.state.SettingsVersion))
	}
	if m.state.DetectIndentation {
		parts = append(parts, styles.InfoText.Render("indentation detected"))
	}
	return styles.Header.Width(m.width).Render(strings.Join(parts, "  "))
}

func (m FormatterModel) renderBody(styles Styles) string {
	leftWidth := m.width / 3
	if m.width < LayoutCompactWidth {
		leftWidth = m.width - 4
	}

	var cats strings.Builder
	cats.WriteString(styles.AccentText.Bold(true).Render("Categories"))
	for i, c := range formatter.Categories() {
		cats.WriteString("\n")
		label := c.Title()
		switch {
		case m.focus == paneCategories && i == m.categoryCursor:
			cats.WriteString(styles.Selected.Render("› " + label))
		case c == m.state.ActiveCategory:
			cats.WriteString(styles.Text.Bold(true).Render("• " + label))
		default:
			cats.WriteString("  " + label)
		}
	}

	var set strings.Builder
	set.WriteString(styles.AccentText.Bold(true).Render(m.state.ActiveCategory.Title() + " Settings"))
	settings := m.settings()
	if len(settings) == 0 {
		set.WriteString("\n")
		set.WriteString(styles.FaintText.Render("Waiting for settings from the host..."))
	}
	for i, s := range settings {
		set.WriteString("\n")
		row := s.Name + ": " + s.Value
		if s.ID == m.editing {
			row = s.Name + ": " + m.input.View()
		}
		if m.focus == paneSettings && i == m.settingCursor && m.editing == "" {
			set.WriteString(styles.Selected.Render("› " + row))
		} else {
			set.WriteString("  " + row)
		}
	}

	left := lipgloss.JoinVertical(lipgloss.Left,
		styles.PaneStyle(m.focus == paneCategories).Width(max(leftWidth, 10)).Render(cats.String()),
		styles.PaneStyle(m.focus == paneSettings).Width(max(leftWidth, 10)).Render(set.String()),
	)

	title := "Preview (original)"
	if m.state.Format {
		title = "Preview (formatted)"
	}
	titleLine := styles.AccentText.Bold(true).Render(title)
	if m.state.Format && !m.state.Trusted() {
		titleLine += "  " + styles.WarningText.Render("updating…")
	}
	right := styles.PaneStyle(m.focus == panePreview).Render(titleLine + "\n" + m.preview.View())

	if m.width < LayoutCompactWidth {
		return lipgloss.JoinVertical(lipgloss.Left, left, right)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
