package classpath

import (
	"slices"
	"strings"

	"github.com/five82/jconf/internal/protocol"
)

// Reduce applies a to s and returns the next state. It never mutates s and
// never panics; an action that is malformed or not allowed in the current
// state returns s unchanged.
func Reduce(s State, a Action) State {
	switch a := a.(type) {
	case UpdateSource:
		return reduceUpdateSource(s, a)
	case RollbackSources:
		if !s.SourcesPending {
			return s
		}
		next := s.Clone()
		next.Sources = protocol.CloneSourceRoots(s.ConfirmedSources)
		next.SourcesPending = false
		next.SourcesRevision++
		next.SourceSession = nil
		return next
	case LoadClasspath:
		return reduceLoad(s, a.Classpath)
	case ListProjects:
		next := s.Clone()
		next.Projects = cloneSlice(a.Projects)
		if next.ActiveProject >= len(next.Projects) {
			next.ActiveProject = -1
		}
		if len(next.Projects) > 0 {
			next.Exception = ""
		}
		return next
	case SelectProject:
		if a.Index < 0 || a.Index >= len(s.Projects) {
			return s
		}
		next := s.Clone()
		next.ActiveProject = a.Index
		next.Loaded = false
		next.SourceSession = nil
		next.LibrarySession = nil
		return next
	case ListVMInstalls:
		next := s.Clone()
		next.VMInstalls = cloneSlice(a.VMInstalls)
		return next
	case SetException:
		if a.Exception == "" {
			return s
		}
		next := s.Clone()
		next.Exception = a.Exception
		return next
	case SetActiveVM:
		if s.ReadOnly() || strings.TrimSpace(a.Path) == "" {
			return s
		}
		next := s.Clone()
		next.ActiveVMInstallPath = a.Path
		return next
	case SetDefaultOutput:
		if !s.LibrariesEditable() || strings.TrimSpace(a.Path) == "" {
			return s
		}
		next := s.Clone()
		next.DefaultOutput = a.Path
		return next
	case UpdateLibraries:
		if !s.LibrariesEditable() || hasBlank(a.Libraries) {
			return s
		}
		next := s.Clone()
		next.ReferencedLibraries = cloneSlice(a.Libraries)
		return next
	case StartAdd:
		return reduceStartAdd(s, a.List)
	case StartEdit:
		return reduceStartEdit(s, a.List, a.Index)
	case CancelSession:
		if s.Session(a.List) == nil {
			return s
		}
		next := s.Clone()
		next.setSession(a.List, nil)
		return next
	case SetDraft:
		sess := s.Session(a.List)
		if sess == nil {
			return s
		}
		next := s.Clone()
		draft := next.Session(a.List)
		if a.Path != nil {
			draft.DraftPath = *a.Path
		}
		if a.Output != nil && a.List == ListSources {
			draft.DraftOutput = *a.Output
		}
		return next
	case ApplyBrowse:
		return reduceBrowse(s, a.Result)
	case CommitSession:
		return reduceCommit(s, a.List)
	case RemoveSource:
		return reduceRemoveSource(s, a.Path)
	case RemoveLibrary:
		if !s.LibrariesEditable() {
			return s
		}
		idx := indexOf(s.ReferencedLibraries, a.Path)
		if idx < 0 {
			return s
		}
		next := s.Clone()
		next.ReferencedLibraries = append(next.ReferencedLibraries[:idx], next.ReferencedLibraries[idx+1:]...)
		next.LibrarySession = shiftSession(next.LibrarySession, idx)
		return next
	default:
		return s
	}
}

func reduceUpdateSource(s State, a UpdateSource) State {
	for _, root := range a.Sources {
		if root.Path == "" {
			return s
		}
	}
	switch a.Origin {
	case OriginHost:
		next := s.Clone()
		next.Sources = protocol.CloneSourceRoots(a.Sources)
		next.ConfirmedSources = protocol.CloneSourceRoots(a.Sources)
		next.SourcesPending = false
		next.SourcesRevision++
		if sess := next.SourceSession; sess != nil && !sess.IsNew() && sess.Target >= len(next.Sources) {
			next.SourceSession = nil
		}
		return next
	case OriginLocal:
		if s.ReadOnly() {
			return s
		}
		next := s.Clone()
		next.Sources = protocol.CloneSourceRoots(a.Sources)
		next.SourcesPending = true
		next.SourcesRevision++
		return next
	default:
		return s
	}
}

func reduceLoad(s State, load protocol.ClasspathLoad) State {
	for _, root := range load.Sources {
		if root.Path == "" {
			return s
		}
	}
	next := s.Clone()
	next.Loaded = true
	next.Exception = ""
	next.ProjectType = load.ProjectType
	next.Sources = protocol.CloneSourceRoots(load.Sources)
	next.ConfirmedSources = protocol.CloneSourceRoots(load.Sources)
	next.SourcesPending = false
	next.SourcesRevision++
	next.DefaultOutput = load.Output
	next.ActiveVMInstallPath = load.ActiveVMInstallPath
	next.ReferencedLibraries = cloneSlice(load.ReferencedLibraries)
	next.SourceSession = nil
	next.LibrarySession = nil
	return next
}

func reduceStartAdd(s State, list List) State {
	if !s.listEditable(list) {
		return s
	}
	next := s.Clone()
	sess := &EditSession{Target: Append}
	if list == ListSources {
		sess.DraftOutput = s.DefaultOutput
	}
	next.setSession(list, sess)
	return next
}

func reduceStartEdit(s State, list List, index int) State {
	if !s.listEditable(list) {
		return s
	}
	next := s.Clone()
	switch list {
	case ListSources:
		if index < 0 || index >= len(s.Sources) {
			return s
		}
		row := s.Sources[index]
		next.SourceSession = &EditSession{
			Target:      index,
			DraftPath:   row.Path,
			DraftOutput: row.OutputOr(s.DefaultOutput),
		}
	case ListLibraries:
		if index < 0 || index >= len(s.ReferencedLibraries) {
			return s
		}
		next.LibrarySession = &EditSession{Target: index, DraftPath: s.ReferencedLibraries[index]}
	}
	return next
}

func reduceBrowse(s State, result protocol.BrowseFolderResult) State {
	if s.SourceSession == nil || !result.Type.Valid() {
		return s
	}
	next := s.Clone()
	switch result.Type {
	case protocol.BrowseSource:
		next.SourceSession.DraftPath = result.Path
	case protocol.BrowseOutput:
		next.SourceSession.DraftOutput = result.Path
	}
	return next
}

func reduceCommit(s State, list List) State {
	sess := s.Session(list)
	if sess == nil {
		return s
	}
	next := s.Clone()
	next.setSession(list, nil)

	path := strings.TrimSpace(sess.DraftPath)
	if path == "" || !s.listEditable(list) {
		return next
	}

	switch list {
	case ListSources:
		row := protocol.SourceRoot{Path: path, Output: strings.TrimSpace(sess.DraftOutput)}
		if sess.IsNew() {
			next.Sources = append(next.Sources, row)
		} else {
			if sess.Target >= len(next.Sources) {
				return next
			}
			next.Sources[sess.Target] = row
		}
		next.SourcesPending = true
		next.SourcesRevision++
	case ListLibraries:
		if sess.IsNew() {
			next.ReferencedLibraries = append(next.ReferencedLibraries, path)
		} else {
			if sess.Target >= len(next.ReferencedLibraries) {
				return next
			}
			next.ReferencedLibraries[sess.Target] = path
		}
	}
	return next
}

func reduceRemoveSource(s State, path string) State {
	if s.ReadOnly() {
		return s
	}
	next := s.Clone()
	updated := make([]protocol.SourceRoot, 0, len(s.Sources))
	// Removal walks backwards so session shifts see unshifted indexes.
	for i := len(s.Sources) - 1; i >= 0; i-- {
		if s.Sources[i].Path == path {
			next.SourceSession = shiftSession(next.SourceSession, i)
			continue
		}
		updated = append(updated, s.Sources[i])
	}
	if len(updated) == len(s.Sources) {
		return s
	}
	slices.Reverse(updated)
	next.Sources = updated
	next.SourcesPending = true
	next.SourcesRevision++
	return next
}

// shiftSession keeps a session aligned with its row after row removed was
// deleted. A session on the deleted row itself is closed.
func shiftSession(sess *EditSession, removed int) *EditSession {
	if sess == nil || sess.IsNew() {
		return sess
	}
	switch {
	case sess.Target == removed:
		return nil
	case sess.Target > removed:
		sess.Target--
	}
	return sess
}

func (s State) listEditable(list List) bool {
	switch list {
	case ListSources:
		return !s.ReadOnly()
	case ListLibraries:
		return s.LibrariesEditable()
	default:
		return false
	}
}

func (s *State) setSession(list List, sess *EditSession) {
	switch list {
	case ListSources:
		s.SourceSession = sess
	case ListLibraries:
		s.LibrarySession = sess
	}
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}

func hasBlank(values []string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
