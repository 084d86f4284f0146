package protocol

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Inbound command tags.
const (
	CmdDidBrowseFolder         = "onDidBrowseFolder"
	CmdDidUpdateSourceFolder   = "onDidUpdateSourceFolder"
	CmdDidListProjects         = "onDidListProjects"
	CmdDidLoadProjectClasspath = "onDidLoadProjectClasspath"
	CmdDidListVMInstalls       = "onDidListVmInstalls"
	CmdException               = "onException"

	CmdFormattedCode = "VSCodeToWebview.formattedCode"
	CmdInitSetting   = "VSCodeToWebview.initSetting"
	CmdInitVersion   = "VSCodeToWebview.initVersion"
)

// Outbound command tags.
const (
	CmdWillChangeJdk                           = "onWillChangeJdk"
	CmdWillSetOutputPath                       = "onWillSetOutputPath"
	CmdWillUpdateClassPaths                    = "onWillUpdateClassPaths"
	CmdWillUpdateSourcePath                    = "onWillUpdateSourcePath"
	CmdWillUpdateSourcePathsForUnmanagedFolder = "onWillUpdateSourcePathsForUnmanagedFolder"
	CmdWillUpdateUnmanagedFolderLibraries      = "onWillUpdateUnmanagedFolderLibraries"
	CmdWillBrowseFolder                        = "onWillBrowseFolder"
	CmdWillAddSourcePathForUnmanagedFolder     = "onWillAddSourcePathForUnmanagedFolder"
	CmdWillLoadProjectClasspath                = "onWillLoadProjectClasspath"

	CmdChangeSetting = "WebviewToVSCode.changeSetting"
	CmdFormat        = "WebviewToVSCode.format"
)

// ErrMalformed marks a message that is missing its tag or a required field.
var ErrMalformed = errors.New("malformed message")

// Envelope is a parsed message: its command tag plus the full raw object,
// from which payload decoders pick the fields they document.
type Envelope struct {
	Command string
	Raw     json.RawMessage
}

// Parse extracts the command tag from a raw message. The raw bytes are kept
// as-is for payload decoding.
func Parse(data []byte) (Envelope, error) {
	var head struct {
		Command *string `json:"command"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if head.Command == nil || strings.TrimSpace(*head.Command) == "" {
		return Envelope{}, fmt.Errorf("%w: missing command", ErrMalformed)
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	return Envelope{Command: *head.Command, Raw: raw}, nil
}

// Outbound is implemented by every message the panels send to the host.
type Outbound interface {
	OutboundCommand() string
}

// ChangeJdk asks the host to switch the project's JDK.
type ChangeJdk struct {
	Command string `json:"command"`
	Path    string `json:"path"`
}

// SetOutputPath asks the host to change the default output folder.
type SetOutputPath struct {
	Command string `json:"command"`
	Path    string `json:"path"`
}

// UpdateClassPaths asks the host to persist the full source list of a
// build-tool managed project.
type UpdateClassPaths struct {
	Command string       `json:"command"`
	Sources []SourceRoot `json:"sources"`
}

// UpdateSourcePath asks the host to validate and store an edited source list.
// The host answers with onDidUpdateSourceFolder.
type UpdateSourcePath struct {
	Command     string       `json:"command"`
	SourcePaths []SourceRoot `json:"sourcePaths"`
}

// UpdateSourcePathsForUnmanagedFolder persists the source folders of an
// unmanaged folder project.
type UpdateSourcePathsForUnmanagedFolder struct {
	Command string   `json:"command"`
	Paths   []string `json:"paths"`
}

// UpdateUnmanagedFolderLibraries persists referenced libraries.
type UpdateUnmanagedFolderLibraries struct {
	Command   string   `json:"command"`
	Libraries []string `json:"libraries"`
}

// BrowseFolder asks the host to open a folder picker.
type BrowseFolder struct {
	Command string     `json:"command"`
	Type    BrowseType `json:"type"`
}

// AddSourcePathForUnmanagedFolder asks the host to pick and add a source
// folder to an unmanaged folder project.
type AddSourcePathForUnmanagedFolder struct {
	Command string `json:"command"`
}

// LoadProjectClasspath asks the host to send the classpath of a project.
type LoadProjectClasspath struct {
	Command     string      `json:"command"`
	ProjectInfo ProjectInfo `json:"projectInfo"`
}

// ChangeSetting updates one formatter setting on the host.
type ChangeSetting struct {
	Command string `json:"command"`
	ID      string `json:"id"`
	Value   string `json:"value"`
}

// Format asks the host to format code with the current settings. The host
// answers with VSCodeToWebview.formattedCode.
type Format struct {
	Command string `json:"command"`
	Code    string `json:"code"`
}

func (m ChangeJdk) OutboundCommand() string                           { return m.Command }
func (m SetOutputPath) OutboundCommand() string                       { return m.Command }
func (m UpdateClassPaths) OutboundCommand() string                    { return m.Command }
func (m UpdateSourcePath) OutboundCommand() string                    { return m.Command }
func (m UpdateSourcePathsForUnmanagedFolder) OutboundCommand() string { return m.Command }
func (m UpdateUnmanagedFolderLibraries) OutboundCommand() string      { return m.Command }
func (m BrowseFolder) OutboundCommand() string                        { return m.Command }
func (m AddSourcePathForUnmanagedFolder) OutboundCommand() string     { return m.Command }
func (m LoadProjectClasspath) OutboundCommand() string                { return m.Command }
func (m ChangeSetting) OutboundCommand() string                       { return m.Command }
func (m Format) OutboundCommand() string                              { return m.Command }
