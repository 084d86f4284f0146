// Package dispatch turns user intents into outbound host messages.
//
// Each method builds exactly one message and posts it. Nothing is validated
// here beyond argument shape: deciding whether an edit is allowed belongs to
// the panel controllers, and the host remains the authority on the result.
package dispatch

import (
	"context"
	"fmt"

	"github.com/five82/jconf/internal/protocol"
)

// Poster is the outbound half of a host channel.
type Poster interface {
	Post(ctx context.Context, msg protocol.Outbound) error
}

// Dispatcher posts typed commands to the host.
type Dispatcher struct {
	out Poster
}

// New builds a Dispatcher posting through out.
func New(out Poster) *Dispatcher {
	return &Dispatcher{out: out}
}

// ChangeJdk asks the host to switch the active JDK.
func (d *Dispatcher) ChangeJdk(ctx context.Context, path string) error {
	return d.post(ctx, protocol.ChangeJdk{Command: protocol.CmdWillChangeJdk, Path: path})
}

// SetOutputPath asks the host to change the default output folder.
func (d *Dispatcher) SetOutputPath(ctx context.Context, path string) error {
	return d.post(ctx, protocol.SetOutputPath{Command: protocol.CmdWillSetOutputPath, Path: path})
}

// UpdateClassPaths posts the full source list of a managed project.
func (d *Dispatcher) UpdateClassPaths(ctx context.Context, sources []protocol.SourceRoot) error {
	return d.post(ctx, protocol.UpdateClassPaths{
		Command: protocol.CmdWillUpdateClassPaths,
		Sources: roots(sources),
	})
}

// UpdateSourcePath posts an edited source list for host validation.
func (d *Dispatcher) UpdateSourcePath(ctx context.Context, sources []protocol.SourceRoot) error {
	return d.post(ctx, protocol.UpdateSourcePath{
		Command:     protocol.CmdWillUpdateSourcePath,
		SourcePaths: roots(sources),
	})
}

// UpdateSourcePathsForUnmanagedFolder posts the source folders of an
// unmanaged folder project.
func (d *Dispatcher) UpdateSourcePathsForUnmanagedFolder(ctx context.Context, paths []string) error {
	return d.post(ctx, protocol.UpdateSourcePathsForUnmanagedFolder{
		Command: protocol.CmdWillUpdateSourcePathsForUnmanagedFolder,
		Paths:   strs(paths),
	})
}

// UpdateUnmanagedFolderLibraries posts the referenced libraries.
func (d *Dispatcher) UpdateUnmanagedFolderLibraries(ctx context.Context, libraries []string) error {
	return d.post(ctx, protocol.UpdateUnmanagedFolderLibraries{
		Command:   protocol.CmdWillUpdateUnmanagedFolderLibraries,
		Libraries: strs(libraries),
	})
}

// BrowseFolder asks the host to open a folder picker for the given draft field.
func (d *Dispatcher) BrowseFolder(ctx context.Context, kind protocol.BrowseType) error {
	if !kind.Valid() {
		return fmt.Errorf("browse folder: unknown type %q", kind)
	}
	return d.post(ctx, protocol.BrowseFolder{Command: protocol.CmdWillBrowseFolder, Type: kind})
}

// AddSourcePathForUnmanagedFolder asks the host to pick and add a source folder.
func (d *Dispatcher) AddSourcePathForUnmanagedFolder(ctx context.Context) error {
	return d.post(ctx, protocol.AddSourcePathForUnmanagedFolder{Command: protocol.CmdWillAddSourcePathForUnmanagedFolder})
}

// LoadProjectClasspath asks the host for the classpath of project.
func (d *Dispatcher) LoadProjectClasspath(ctx context.Context, project protocol.ProjectInfo) error {
	return d.post(ctx, protocol.LoadProjectClasspath{Command: protocol.CmdWillLoadProjectClasspath, ProjectInfo: project})
}

// ChangeSetting posts one formatter setting change.
func (d *Dispatcher) ChangeSetting(ctx context.Context, id, value string) error {
	if id == "" {
		return fmt.Errorf("change setting: id is empty")
	}
	return d.post(ctx, protocol.ChangeSetting{Command: protocol.CmdChangeSetting, ID: id, Value: value})
}

// Format asks the host to format code with the current settings.
func (d *Dispatcher) Format(ctx context.Context, code string) error {
	return d.post(ctx, protocol.Format{Command: protocol.CmdFormat, Code: code})
}

func (d *Dispatcher) post(ctx context.Context, msg protocol.Outbound) error {
	if d == nil || d.out == nil {
		return fmt.Errorf("dispatcher is nil")
	}
	return d.out.Post(ctx, msg)
}

// roots copies sources so later store edits cannot alias a queued message,
// and encodes an empty list as [] rather than null.
func roots(sources []protocol.SourceRoot) []protocol.SourceRoot {
	dup := make([]protocol.SourceRoot, len(sources))
	copy(dup, sources)
	return dup
}

func strs(values []string) []string {
	dup := make([]string, len(values))
	copy(dup, values)
	return dup
}
