package ui

import "github.com/charmbracelet/bubbles/key"

// commonKeys are bound in both panels.
type commonKeys struct {
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Tab        key.Binding
	ShiftTab   key.Binding
	Up         key.Binding
	Down       key.Binding
	Confirm    key.Binding
	Escape     key.Binding
}

func defaultCommonKeys() commonKeys {
	return commonKeys{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("T"),
			key.WithHelp("T", "Cycle theme"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "Next pane"),
		),
		ShiftTab: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("shift+tab", "Previous pane"),
		),
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Select / OK"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Cancel"),
		),
	}
}

// classpathKeys defines the classpath panel bindings.
type classpathKeys struct {
	commonKeys

	Add          key.Binding
	Remove       key.Binding
	BrowseSource key.Binding
	BrowseOutput key.Binding
	NextField    key.Binding
	EditOutput   key.Binding
	Apply        key.Binding
	Revert       key.Binding
}

func defaultClasspathKeys() classpathKeys {
	return classpathKeys{
		commonKeys: defaultCommonKeys(),
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "Add row"),
		),
		Remove: key.NewBinding(
			key.WithKeys("d", "delete"),
			key.WithHelp("d", "Remove row"),
		),
		BrowseSource: key.NewBinding(
			key.WithKeys("ctrl+b"),
			key.WithHelp("ctrl+b", "Browse source folder"),
		),
		BrowseOutput: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "Browse output folder"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "Switch draft field"),
		),
		EditOutput: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Edit default output"),
		),
		Apply: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "Apply settings"),
		),
		Revert: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Revert source edits"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k classpathKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Add, k.Remove, k.Apply, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k classpathKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Up, k.Down, k.Confirm},
		{k.Add, k.Remove, k.EditOutput, k.Apply, k.Revert},
		{k.NextField, k.BrowseSource, k.BrowseOutput, k.Escape},
		{k.CycleTheme, k.Help, k.Quit},
	}
}

// formatterKeys defines the formatter panel bindings.
type formatterKeys struct {
	commonKeys

	TogglePreview key.Binding
	Refresh       key.Binding
	ScrollUp      key.Binding
	ScrollDown    key.Binding
}

func defaultFormatterKeys() formatterKeys {
	return formatterKeys{
		commonKeys: defaultCommonKeys(),
		TogglePreview: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "Toggle formatted preview"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reformat preview"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("ctrl+u", "pgup"),
			key.WithHelp("ctrl+u", "Scroll preview up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("ctrl+d", "pgdown"),
			key.WithHelp("ctrl+d", "Scroll preview down"),
		),
	}
}

// ShortHelp returns key bindings for the footer.
func (k formatterKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Tab, k.Confirm, k.TogglePreview, k.Help, k.Quit}
}

// FullHelp returns key bindings for the help overlay.
func (k formatterKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Tab, k.ShiftTab, k.Up, k.Down, k.Confirm, k.Escape},
		{k.TogglePreview, k.Refresh, k.ScrollUp, k.ScrollDown},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
