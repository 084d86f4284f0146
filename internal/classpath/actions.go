package classpath

import "github.com/five82/jconf/internal/protocol"

// Action is a state transition request understood by Reduce.
type Action interface {
	isAction()
}

// UpdateSource replaces the source list wholesale. Local updates are staged
// as pending; host updates become the confirmed list.
type UpdateSource struct {
	Sources []protocol.SourceRoot
	Origin  Origin
}

// RollbackSources discards a pending local source list.
type RollbackSources struct{}

// LoadClasspath hydrates the panel with a project's classpath.
type LoadClasspath struct {
	Classpath protocol.ClasspathLoad
}

// ListProjects stores the workspace's projects.
type ListProjects struct {
	Projects []protocol.ProjectInfo
}

// SelectProject marks a project active; its classpath must be reloaded.
type SelectProject struct {
	Index int
}

// ListVMInstalls stores the candidate JDKs.
type ListVMInstalls struct {
	VMInstalls []protocol.VMInstall
}

// SetException records why no project can be shown.
type SetException struct {
	Exception protocol.ClasspathException
}

// SetActiveVM stages a JDK change.
type SetActiveVM struct {
	Path string
}

// SetDefaultOutput stages a default output change.
type SetDefaultOutput struct {
	Path string
}

// UpdateLibraries replaces the referenced libraries.
type UpdateLibraries struct {
	Libraries []string
}

// StartAdd opens a session drafting a new row of List.
type StartAdd struct {
	List List
}

// StartEdit opens a session drafting changes to row Index of List.
type StartEdit struct {
	List  List
	Index int
}

// CancelSession closes List's session without touching the list.
type CancelSession struct {
	List List
}

// SetDraft overwrites the draft fields that are non-nil.
type SetDraft struct {
	List   List
	Path   *string
	Output *string
}

// ApplyBrowse fills a draft field of the source session from a folder pick.
type ApplyBrowse struct {
	Result protocol.BrowseFolderResult
}

// CommitSession folds List's draft into the list and closes the session.
type CommitSession struct {
	List List
}

// RemoveSource drops the source row with Path.
type RemoveSource struct {
	Path string
}

// RemoveLibrary drops a referenced library.
type RemoveLibrary struct {
	Path string
}

func (UpdateSource) isAction()     {}
func (RollbackSources) isAction()  {}
func (LoadClasspath) isAction()    {}
func (ListProjects) isAction()     {}
func (SelectProject) isAction()    {}
func (ListVMInstalls) isAction()   {}
func (SetException) isAction()     {}
func (SetActiveVM) isAction()      {}
func (SetDefaultOutput) isAction() {}
func (UpdateLibraries) isAction()  {}
func (StartAdd) isAction()         {}
func (StartEdit) isAction()        {}
func (CancelSession) isAction()    {}
func (SetDraft) isAction()         {}
func (ApplyBrowse) isAction()      {}
func (CommitSession) isAction()    {}
func (RemoveSource) isAction()     {}
func (RemoveLibrary) isAction()    {}
