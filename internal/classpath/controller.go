package classpath

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/five82/jconf/internal/dispatch"
	"github.com/five82/jconf/internal/protocol"
	"github.com/five82/jconf/internal/router"
)

var (
	// ErrReadOnly is returned for edits of a project whose classpath the
	// panel may not change.
	ErrReadOnly = errors.New("project configuration is read-only")
	// ErrNoSession is returned when an operation needs an open edit session.
	ErrNoSession = errors.New("no edit session")
	// ErrNotUnmanaged is returned for operations that only unmanaged folder
	// projects support.
	ErrNotUnmanaged = errors.New("only unmanaged folder projects support this")
	// ErrNoRow is returned when an index or path names no row.
	ErrNoRow = errors.New("no such row")
	// ErrNoProject is returned when no project is selected.
	ErrNoProject = errors.New("no project selected")
)

// Controller turns user intents into store actions and outbound messages.
type Controller struct {
	store *Store
	out   *dispatch.Dispatcher
	log   *slog.Logger
}

// NewController wires a controller to its store and dispatcher.
func NewController(store *Store, out *dispatch.Dispatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: store, out: out, log: logger.With("panel", "classpath")}
}

// Store returns the store the controller drives.
func (c *Controller) Store() *Store {
	return c.store
}

// Add opens a session drafting a new row. An open session on the same list
// is discarded.
func (c *Controller) Add(list List) error {
	if err := c.checkEditable(c.store.State(), list); err != nil {
		return fmt.Errorf("add %s: %w", list, err)
	}
	c.store.Dispatch(StartAdd{List: list})
	return nil
}

// Edit opens a session drafting changes to row index.
func (c *Controller) Edit(list List, index int) error {
	s := c.store.State()
	if err := c.checkEditable(s, list); err != nil {
		return fmt.Errorf("edit %s: %w", list, err)
	}
	if index < 0 || index >= rowCount(s, list) {
		return fmt.Errorf("edit %s row %d: %w", list, index, ErrNoRow)
	}
	c.store.Dispatch(StartEdit{List: list, Index: index})
	return nil
}

// Cancel closes the session of list without changing anything.
func (c *Controller) Cancel(list List) {
	c.store.Dispatch(CancelSession{List: list})
}

// SetDraft overwrites the non-nil draft fields of the open session.
func (c *Controller) SetDraft(list List, path, output *string) error {
	if c.store.State().Session(list) == nil {
		return fmt.Errorf("set %s draft: %w", list, ErrNoSession)
	}
	c.store.Dispatch(SetDraft{List: list, Path: path, Output: output})
	return nil
}

// Browse asks the host for a folder to fill the source draft field kind.
func (c *Controller) Browse(ctx context.Context, kind protocol.BrowseType) error {
	if c.store.State().SourceSession == nil {
		return fmt.Errorf("browse %s: %w", kind, ErrNoSession)
	}
	return c.out.BrowseFolder(ctx, kind)
}

// Commit folds the draft of list into the list and closes the session. A
// blank draft closes the session without any change. Source edits of a
// managed project are posted to the host for validation.
func (c *Controller) Commit(ctx context.Context, list List) error {
	prev, next := c.store.Dispatch(CommitSession{List: list})
	if prev.Session(list) == nil {
		return fmt.Errorf("commit %s: %w", list, ErrNoSession)
	}
	if list != ListSources || next.SourcesRevision == prev.SourcesRevision {
		return nil
	}
	return c.postSources(ctx, next)
}

// RemoveSource drops the source row with path.
func (c *Controller) RemoveSource(ctx context.Context, path string) error {
	prev, next := c.store.Dispatch(RemoveSource{Path: path})
	if prev.ReadOnly() {
		return fmt.Errorf("remove source: %w", ErrReadOnly)
	}
	if next.SourcesRevision == prev.SourcesRevision {
		return fmt.Errorf("remove source %q: %w", path, ErrNoRow)
	}
	return c.postSources(ctx, next)
}

// AddUnmanagedSource lets the host pick a folder and add it to an unmanaged
// folder project's sources.
func (c *Controller) AddUnmanagedSource(ctx context.Context) error {
	if !c.store.State().LibrariesEditable() {
		return fmt.Errorf("add source: %w", ErrNotUnmanaged)
	}
	return c.out.AddSourcePathForUnmanagedFolder(ctx)
}

// RemoveLibrary drops a referenced library; the change is staged until Apply.
func (c *Controller) RemoveLibrary(path string) error {
	prev, next := c.store.Dispatch(RemoveLibrary{Path: path})
	if !prev.LibrariesEditable() {
		return fmt.Errorf("remove library: %w", ErrNotUnmanaged)
	}
	if len(next.ReferencedLibraries) == len(prev.ReferencedLibraries) {
		return fmt.Errorf("remove library %q: %w", path, ErrNoRow)
	}
	return nil
}

// SelectJDK stages a JDK change; it is posted on Apply.
func (c *Controller) SelectJDK(path string) error {
	s := c.store.State()
	if s.ReadOnly() {
		return fmt.Errorf("select jdk: %w", ErrReadOnly)
	}
	if path == "" {
		return fmt.Errorf("select jdk: path is empty")
	}
	c.store.Dispatch(SetActiveVM{Path: path})
	return nil
}

// SetDefaultOutput stages a default output folder change.
func (c *Controller) SetDefaultOutput(path string) error {
	if !c.store.State().LibrariesEditable() {
		return fmt.Errorf("set output path: %w", ErrNotUnmanaged)
	}
	if path == "" {
		return fmt.Errorf("set output path: path is empty")
	}
	c.store.Dispatch(SetDefaultOutput{Path: path})
	return nil
}

// SelectProject switches the panel to project index and asks the host for
// its classpath.
func (c *Controller) SelectProject(ctx context.Context, index int) error {
	_, next := c.store.Dispatch(SelectProject{Index: index})
	project, ok := next.Project()
	if !ok || next.ActiveProject != index {
		return fmt.Errorf("select project %d: %w", index, ErrNoRow)
	}
	c.log.Debug("loading project classpath", "project", project.Name)
	return c.out.LoadProjectClasspath(ctx, project)
}

// Apply posts the staged configuration of the active project.
func (c *Controller) Apply(ctx context.Context) error {
	s := c.store.State()
	if _, ok := s.Project(); !ok {
		return fmt.Errorf("apply: %w", ErrNoProject)
	}

	switch s.ProjectType {
	case protocol.ProjectTypeUnmanagedFolder:
		if err := c.out.UpdateSourcePathsForUnmanagedFolder(ctx, protocol.SourcePaths(s.Sources)); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
		if s.DefaultOutput != "" {
			if err := c.out.SetOutputPath(ctx, s.DefaultOutput); err != nil {
				return fmt.Errorf("apply: %w", err)
			}
		}
		if err := c.out.UpdateUnmanagedFolderLibraries(ctx, s.ReferencedLibraries); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
	case protocol.ProjectTypeManagedBuildTool:
		if err := c.out.UpdateClassPaths(ctx, s.Sources); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
	default:
		return fmt.Errorf("apply: %w", ErrReadOnly)
	}

	if s.ActiveVMInstallPath != "" {
		if err := c.out.ChangeJdk(ctx, s.ActiveVMInstallPath); err != nil {
			return fmt.Errorf("apply: %w", err)
		}
	}
	c.log.Info("applied classpath", "type", s.ProjectType, "sources", len(s.Sources))
	return nil
}

// Rollback discards a pending local source list.
func (c *Controller) Rollback() {
	c.store.Dispatch(RollbackSources{})
}

// Routes returns the inbound handlers of the classpath panel. ctx bounds the
// messages handlers post in response.
func (c *Controller) Routes(ctx context.Context) []router.Route {
	return []router.Route{
		{Command: protocol.CmdDidBrowseFolder, Handle: func(env protocol.Envelope) error {
			result, err := protocol.DecodeBrowseFolder(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(ApplyBrowse{Result: result})
			return nil
		}},
		{Command: protocol.CmdDidUpdateSourceFolder, Handle: func(env protocol.Envelope) error {
			update, err := protocol.DecodeSourceFolderUpdate(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(UpdateSource{Sources: update.SourcePaths, Origin: OriginHost})
			return nil
		}},
		{Command: protocol.CmdDidListProjects, Handle: func(env protocol.Envelope) error {
			list, err := protocol.DecodeProjectList(env)
			if err != nil {
				return err
			}
			_, next := c.store.Dispatch(ListProjects{Projects: list.Projects})
			if next.ActiveProject < 0 && len(next.Projects) > 0 {
				return c.SelectProject(ctx, 0)
			}
			return nil
		}},
		{Command: protocol.CmdDidLoadProjectClasspath, Handle: func(env protocol.Envelope) error {
			load, err := protocol.DecodeClasspathLoad(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(LoadClasspath{Classpath: load})
			return nil
		}},
		{Command: protocol.CmdDidListVMInstalls, Handle: func(env protocol.Envelope) error {
			list, err := protocol.DecodeVMInstallList(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(ListVMInstalls{VMInstalls: list.VMInstalls})
			return nil
		}},
		{Command: protocol.CmdException, Handle: func(env protocol.Envelope) error {
			report, err := protocol.DecodeException(env)
			if err != nil {
				return err
			}
			c.log.Warn("host reported exception", "exception", report.Exception)
			c.store.Dispatch(SetException{Exception: report.Exception})
			return nil
		}},
	}
}

func (c *Controller) postSources(ctx context.Context, s State) error {
	if s.ProjectType != protocol.ProjectTypeManagedBuildTool {
		return nil
	}
	if err := c.out.UpdateSourcePath(ctx, s.Sources); err != nil {
		return fmt.Errorf("post sources: %w", err)
	}
	return nil
}

func (c *Controller) checkEditable(s State, list List) error {
	if s.ReadOnly() {
		return ErrReadOnly
	}
	if list == ListLibraries && !s.LibrariesEditable() {
		return ErrNotUnmanaged
	}
	return nil
}

func rowCount(s State, list List) int {
	switch list {
	case ListSources:
		return len(s.Sources)
	case ListLibraries:
		return len(s.ReferencedLibraries)
	default:
		return 0
	}
}
