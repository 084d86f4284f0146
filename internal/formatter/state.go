package formatter

import "github.com/five82/jconf/internal/protocol"

// State is everything the formatter panel displays.
//
// FormattedContent is the host's rendering of Content under the settings the
// host last saw. PendingFormats counts format requests the host has not yet
// answered; while it is non-zero the preview may lag behind the settings.
type State struct {
	ActiveCategory    Category
	Content           string
	Format            bool
	FormattedContent  string
	SettingsVersion   string
	Settings          []protocol.FormatterSetting
	DetectIndentation bool
	PendingFormats    int
}

// NewState returns a state showing category's sample, unformatted.
func NewState(category Category) State {
	if !category.Valid() {
		category = CategoryCommon
	}
	return State{ActiveCategory: category, Content: category.Sample()}
}

// Preview returns the text the preview pane shows.
func (s State) Preview() string {
	if s.Format {
		return s.FormattedContent
	}
	return s.Content
}

// Trusted reports whether the formatted preview reflects the latest
// settings the panel sent.
func (s State) Trusted() bool {
	return s.Format && s.PendingFormats == 0
}

// Setting returns the setting with id.
func (s State) Setting(id string) (protocol.FormatterSetting, bool) {
	for _, setting := range s.Settings {
		if setting.ID == id {
			return setting, true
		}
	}
	return protocol.FormatterSetting{}, false
}

// CategorySettings returns the settings listed under category, in host order.
func (s State) CategorySettings(category Category) []protocol.FormatterSetting {
	var out []protocol.FormatterSetting
	for _, setting := range s.Settings {
		if Category(setting.Category) == category {
			out = append(out, setting)
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	dup := s
	if len(s.Settings) > 0 {
		dup.Settings = make([]protocol.FormatterSetting, len(s.Settings))
		copy(dup.Settings, s.Settings)
	} else {
		dup.Settings = nil
	}
	return dup
}
