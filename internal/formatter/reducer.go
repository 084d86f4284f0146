package formatter

import (
	"reflect"

	"github.com/five82/jconf/internal/protocol"
	"github.com/five82/jconf/internal/state"
)

// Reduce applies a to s and returns the next state without mutating s.
// Malformed actions return s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case ChangeActiveCategory:
		if !a.Category.Valid() {
			return s
		}
		next := s.Clone()
		next.ActiveCategory = a.Category
		return next
	case ApplyFormatResult:
		next := s.Clone()
		next.FormattedContent = a.Content
		next.Format = true
		if next.PendingFormats > 0 {
			next.PendingFormats--
		}
		return next
	case InitSetting:
		for _, setting := range a.Settings {
			if setting.ID == "" {
				return s
			}
		}
		next := s.Clone()
		next.Settings = nil
		if len(a.Settings) > 0 {
			next.Settings = make([]protocol.FormatterSetting, len(a.Settings))
			copy(next.Settings, a.Settings)
		}
		next.DetectIndentation = a.DetectIndentation
		return next
	case InitVersion:
		if a.Version == "" {
			return s
		}
		next := s.Clone()
		next.SettingsVersion = a.Version
		return next
	case ChangeSetting:
		idx := -1
		for i, setting := range s.Settings {
			if setting.ID == a.ID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return s
		}
		next := s.Clone()
		next.Settings[idx].Value = a.Value
		next.PendingFormats++
		return next
	case RequestFormat:
		next := s.Clone()
		next.PendingFormats++
		return next
	case CancelFormat:
		next := s.Clone()
		if next.PendingFormats > 0 {
			next.PendingFormats--
		}
		if a.SettingID != "" {
			for i := range next.Settings {
				if next.Settings[i].ID == a.SettingID {
					next.Settings[i].Value = a.Value
					break
				}
			}
		}
		return next
	case SetPreview:
		next := s.Clone()
		next.Format = a.Formatted
		return next
	case SetContent:
		next := s.Clone()
		next.Content = a.Content
		return next
	default:
		return s
	}
}

// Store holds the formatter panel state.
type Store = state.Store[State, Action]

// NewStore returns a store seeded with initial.
func NewStore(initial State) *Store {
	return state.New(initial, Reduce, State.Clone,
		state.WithEqual[State, Action](func(a, b State) bool { return reflect.DeepEqual(a, b) }))
}
