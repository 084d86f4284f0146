package classpath

import "github.com/five82/jconf/internal/protocol"

// Origin says who produced a source list: a local edit or the host.
type Origin int

const (
	OriginLocal Origin = iota
	OriginHost
)

// List names an editable list of the panel.
type List int

const (
	ListSources List = iota
	ListLibraries
)

func (l List) String() string {
	switch l {
	case ListSources:
		return "sources"
	case ListLibraries:
		return "libraries"
	default:
		return "unknown"
	}
}

// Append is the EditSession target of a row that does not exist yet.
const Append = -1

// EditSession is the transient draft of one list row.
type EditSession struct {
	Target      int
	DraftPath   string
	DraftOutput string
}

// IsNew reports whether the session drafts a row to append.
func (e EditSession) IsNew() bool {
	return e.Target == Append
}

// Mode is the edit state of one list.
type Mode int

const (
	Idle Mode = iota
	EditingRow
	EditingNewRow
)

func (m Mode) String() string {
	switch m {
	case EditingRow:
		return "editing row"
	case EditingNewRow:
		return "editing new row"
	default:
		return "idle"
	}
}

// State is everything the classpath panel displays.
//
// Sources is the effective list: the last local edit when SourcesPending is
// set, otherwise the host-confirmed ConfirmedSources. SourcesRevision
// increments on every change of Sources.
type State struct {
	Projects      []protocol.ProjectInfo
	ActiveProject int
	VMInstalls    []protocol.VMInstall
	Loaded        bool
	Exception     protocol.ClasspathException

	ProjectType         protocol.ProjectType
	Sources             []protocol.SourceRoot
	ConfirmedSources    []protocol.SourceRoot
	SourcesPending      bool
	SourcesRevision     int
	DefaultOutput       string
	ActiveVMInstallPath string
	ReferencedLibraries []string

	SourceSession  *EditSession
	LibrarySession *EditSession
}

// NewState returns an empty state with no project selected.
func NewState() State {
	return State{ActiveProject: -1}
}

// Session returns the open session of list, or nil.
func (s State) Session(list List) *EditSession {
	switch list {
	case ListSources:
		return s.SourceSession
	case ListLibraries:
		return s.LibrarySession
	default:
		return nil
	}
}

// Mode returns the edit state of list.
func (s State) Mode(list List) Mode {
	sess := s.Session(list)
	switch {
	case sess == nil:
		return Idle
	case sess.IsNew():
		return EditingNewRow
	default:
		return EditingRow
	}
}

// ReadOnly reports whether no edits of any kind are allowed.
func (s State) ReadOnly() bool {
	return s.ProjectType.ReadOnly()
}

// LibrariesEditable reports whether referenced libraries and the default
// output folder may be changed. Only unmanaged folders own either.
func (s State) LibrariesEditable() bool {
	return s.ProjectType == protocol.ProjectTypeUnmanagedFolder
}

// Project returns the selected project, if any.
func (s State) Project() (protocol.ProjectInfo, bool) {
	if s.ActiveProject < 0 || s.ActiveProject >= len(s.Projects) {
		return protocol.ProjectInfo{}, false
	}
	return s.Projects[s.ActiveProject], true
}

// ActiveVM returns the VM install matching ActiveVMInstallPath, if listed.
func (s State) ActiveVM() (protocol.VMInstall, bool) {
	for _, vm := range s.VMInstalls {
		if vm.Path == s.ActiveVMInstallPath {
			return vm, true
		}
	}
	return protocol.VMInstall{}, false
}

// Clone returns a deep copy of s.
func (s State) Clone() State {
	dup := s
	dup.Projects = cloneSlice(s.Projects)
	dup.VMInstalls = cloneSlice(s.VMInstalls)
	dup.Sources = protocol.CloneSourceRoots(s.Sources)
	dup.ConfirmedSources = protocol.CloneSourceRoots(s.ConfirmedSources)
	dup.ReferencedLibraries = cloneSlice(s.ReferencedLibraries)
	dup.SourceSession = cloneSession(s.SourceSession)
	dup.LibrarySession = cloneSession(s.LibrarySession)
	return dup
}

func cloneSession(sess *EditSession) *EditSession {
	if sess == nil {
		return nil
	}
	dup := *sess
	return &dup
}

func cloneSlice[T any](in []T) []T {
	if len(in) == 0 {
		return nil
	}
	dup := make([]T, len(in))
	copy(dup, in)
	return dup
}
