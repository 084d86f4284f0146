package formatter

import "github.com/five82/jconf/internal/protocol"

// Action is a state transition request understood by Reduce.
type Action interface {
	isAction()
}

// ChangeActiveCategory switches the visible category only.
type ChangeActiveCategory struct {
	Category Category
}

// ApplyFormatResult stores the host's formatted rendering and turns the
// formatted preview on.
type ApplyFormatResult struct {
	Content string
}

// InitSetting hydrates the setting list.
type InitSetting struct {
	Settings          []protocol.FormatterSetting
	DetectIndentation bool
}

// InitVersion records the formatter profile version.
type InitVersion struct {
	Version string
}

// ChangeSetting updates one setting value; the host answers with a new
// formatted rendering.
type ChangeSetting struct {
	ID    string
	Value string
}

// RequestFormat records that a format request was sent.
type RequestFormat struct{}

// CancelFormat takes back a request whose post failed. When SettingID is
// set, that setting returns to Value.
type CancelFormat struct {
	SettingID string
	Value     string
}

// SetPreview chooses between the formatted and the original text.
type SetPreview struct {
	Formatted bool
}

// SetContent replaces the original text.
type SetContent struct {
	Content string
}

func (ChangeActiveCategory) isAction() {}
func (ApplyFormatResult) isAction()    {}
func (InitSetting) isAction()          {}
func (InitVersion) isAction()          {}
func (ChangeSetting) isAction()        {}
func (RequestFormat) isAction()        {}
func (CancelFormat) isAction()         {}
func (SetPreview) isAction()           {}
func (SetContent) isAction()           {}
