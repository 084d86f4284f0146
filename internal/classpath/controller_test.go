package classpath

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/dispatch"
	"github.com/five82/jconf/internal/protocol"
	"github.com/five82/jconf/internal/router"
)

type harness struct {
	ctrl   *Controller
	sent   *channel.Recorder
	router *router.Router
}

func newHarness(t *testing.T, initial State) *harness {
	t.Helper()
	rec := &channel.Recorder{}
	ch := channel.New(rec)
	t.Cleanup(ch.Close)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctrl := NewController(NewStore(initial), dispatch.New(ch), logger)
	return &harness{
		ctrl:   ctrl,
		sent:   rec,
		router: router.New("classpath", logger, ctrl.Routes(context.Background())...),
	}
}

func (h *harness) deliver(t *testing.T, msg string) bool {
	t.Helper()
	return h.router.Route([]byte(msg))
}

func TestController_AddRoundTripPostsList(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))

	require.NoError(t, h.ctrl.Add(ListSources))
	require.NoError(t, h.ctrl.SetDraft(ListSources, strPtr("gen"), nil))
	require.NoError(t, h.ctrl.Commit(ctx, ListSources))

	want := []protocol.SourceRoot{{Path: "src"}, {Path: "gen", Output: "bin"}}
	assert.Equal(t, want, h.ctrl.Store().State().Sources)
	assert.Equal(t, []protocol.Outbound{
		protocol.UpdateSourcePath{Command: protocol.CmdWillUpdateSourcePath, SourcePaths: want},
	}, h.sent.Sent())

	// The host answers with the deduplicated list, which becomes confirmed.
	require.True(t, h.deliver(t, `{"command":"onDidUpdateSourceFolder","sourcePaths":["src","gen"]}`))
	s := h.ctrl.Store().State()
	assert.False(t, s.SourcesPending)
	assert.Equal(t, []string{"src", "gen"}, protocol.SourcePaths(s.ConfirmedSources))
}

func TestController_BlankCommitSendsNothing(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))
	before := h.ctrl.Store().State()

	require.NoError(t, h.ctrl.Add(ListSources))
	require.NoError(t, h.ctrl.Commit(context.Background(), ListSources))

	assert.Empty(t, h.sent.Sent())
	assert.Equal(t, before, h.ctrl.Store().State())
}

func TestController_CommitWithoutSession(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))
	err := h.ctrl.Commit(context.Background(), ListSources)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.ErrorIs(t, h.ctrl.SetDraft(ListSources, strPtr("x"), nil), ErrNoSession)
	assert.ErrorIs(t, h.ctrl.Browse(context.Background(), protocol.BrowseSource), ErrNoSession)
}

func TestController_RemovePostsExactList(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "a", "b", "c"))

	require.NoError(t, h.ctrl.RemoveSource(context.Background(), "b"))
	assert.Equal(t, protocol.UpdateSourcePath{
		Command:     protocol.CmdWillUpdateSourcePath,
		SourcePaths: []protocol.SourceRoot{{Path: "a"}, {Path: "c"}},
	}, h.sent.Last())

	err := h.ctrl.RemoveSource(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNoRow)
	assert.Len(t, h.sent.Sent(), 1)
}

func TestController_EditAndBrowse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "a"))

	assert.ErrorIs(t, h.ctrl.Edit(ListSources, 3), ErrNoRow)
	require.NoError(t, h.ctrl.Edit(ListSources, 0))
	require.NoError(t, h.ctrl.Browse(ctx, protocol.BrowseOutput))
	assert.Equal(t, protocol.BrowseFolder{Command: protocol.CmdWillBrowseFolder, Type: protocol.BrowseOutput}, h.sent.Last())

	require.True(t, h.deliver(t, `{"command":"onDidBrowseFolder","path":"/ws/out","type":"output"}`))
	require.NoError(t, h.ctrl.Commit(ctx, ListSources))

	assert.Equal(t, []protocol.SourceRoot{{Path: "a", Output: "/ws/out"}}, h.ctrl.Store().State().Sources)
}

func TestController_ReadOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, loaded(protocol.ProjectTypeOthers, "src"))

	assert.ErrorIs(t, h.ctrl.Add(ListSources), ErrReadOnly)
	assert.ErrorIs(t, h.ctrl.Edit(ListSources, 0), ErrReadOnly)
	assert.ErrorIs(t, h.ctrl.RemoveSource(ctx, "src"), ErrReadOnly)
	assert.ErrorIs(t, h.ctrl.SelectJDK("/jdk/21"), ErrReadOnly)
	assert.ErrorIs(t, h.ctrl.Apply(ctx), ErrReadOnly)
	assert.Empty(t, h.sent.Sent())
}

func TestController_UnmanagedStagesUntilApply(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, loaded(protocol.ProjectTypeUnmanagedFolder, "src", "gen"))

	require.NoError(t, h.ctrl.RemoveSource(ctx, "gen"))
	require.NoError(t, h.ctrl.RemoveLibrary("lib/a.jar"))
	require.NoError(t, h.ctrl.SetDefaultOutput("out"))
	require.NoError(t, h.ctrl.SelectJDK("/jdk/21"))
	assert.Empty(t, h.sent.Sent(), "edits stay local until Apply")

	require.NoError(t, h.ctrl.AddUnmanagedSource(ctx))
	assert.Equal(t, protocol.AddSourcePathForUnmanagedFolder{Command: protocol.CmdWillAddSourcePathForUnmanagedFolder}, h.sent.Last())
	h.sent.Reset()

	require.NoError(t, h.ctrl.Apply(ctx))
	assert.Equal(t, []protocol.Outbound{
		protocol.UpdateSourcePathsForUnmanagedFolder{Command: protocol.CmdWillUpdateSourcePathsForUnmanagedFolder, Paths: []string{"src"}},
		protocol.SetOutputPath{Command: protocol.CmdWillSetOutputPath, Path: "out"},
		protocol.UpdateUnmanagedFolderLibraries{Command: protocol.CmdWillUpdateUnmanagedFolderLibraries, Libraries: []string{}},
		protocol.ChangeJdk{Command: protocol.CmdWillChangeJdk, Path: "/jdk/21"},
	}, h.sent.Sent())
}

func TestController_ManagedApply(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))

	assert.ErrorIs(t, h.ctrl.AddUnmanagedSource(context.Background()), ErrNotUnmanaged)
	assert.ErrorIs(t, h.ctrl.Add(ListLibraries), ErrNotUnmanaged)
	assert.ErrorIs(t, h.ctrl.SetDefaultOutput("out"), ErrNotUnmanaged)

	require.NoError(t, h.ctrl.Apply(context.Background()))
	assert.Equal(t, []protocol.Outbound{
		protocol.UpdateClassPaths{Command: protocol.CmdWillUpdateClassPaths, Sources: []protocol.SourceRoot{{Path: "src"}}},
		protocol.ChangeJdk{Command: protocol.CmdWillChangeJdk, Path: "/jdk/17"},
	}, h.sent.Sent())
}

func TestController_ApplyWithoutProject(t *testing.T) {
	h := newHarness(t, NewState())
	assert.ErrorIs(t, h.ctrl.Apply(context.Background()), ErrNoProject)
}

func TestController_ListProjectsSelectsFirst(t *testing.T) {
	h := newHarness(t, NewState())

	require.True(t, h.deliver(t, `{"command":"onDidListProjects","projectInfo":[{"name":"app","rootPath":"/ws/app"},{"name":"lib","rootPath":"/ws/lib"}]}`))
	assert.Equal(t, protocol.LoadProjectClasspath{
		Command:     protocol.CmdWillLoadProjectClasspath,
		ProjectInfo: protocol.ProjectInfo{Name: "app", RootPath: "/ws/app"},
	}, h.sent.Last())

	require.True(t, h.deliver(t, `{"command":"onDidLoadProjectClasspath","projectType":"Maven","sources":[{"path":"src/main/java","output":"target/classes"}],"output":"target/classes","activeVmInstallPath":"/jdk/17"}`))
	require.True(t, h.deliver(t, `{"command":"onDidListVmInstalls","vmInstalls":[{"name":"JDK 17","path":"/jdk/17","version":"17"}]}`))

	s := h.ctrl.Store().State()
	assert.True(t, s.Loaded)
	assert.Equal(t, protocol.ProjectTypeManagedBuildTool, s.ProjectType)
	vm, ok := s.ActiveVM()
	require.True(t, ok)
	assert.Equal(t, "JDK 17", vm.Name)

	require.NoError(t, h.ctrl.SelectProject(context.Background(), 1))
	assert.Equal(t, "lib", h.sent.Last().(protocol.LoadProjectClasspath).ProjectInfo.Name)
	assert.ErrorIs(t, h.ctrl.SelectProject(context.Background(), 7), ErrNoRow)
}

func TestController_Exception(t *testing.T) {
	h := newHarness(t, NewState())
	require.True(t, h.deliver(t, `{"command":"onException","exception":"javaExtensionNotInstalled"}`))
	assert.Equal(t, protocol.ExceptionJavaExtensionNotInstalled, h.ctrl.Store().State().Exception)
}

func TestController_UnknownAndMalformedLeaveState(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))
	require.NoError(t, h.ctrl.Edit(ListSources, 0))
	before := h.ctrl.Store().Snapshot()

	for _, msg := range []string{
		`{"command":"onDidSomethingNew","sourcePaths":["x"]}`,
		`{"command":"onDidUpdateSourceFolder"}`,
		`{"command":"onDidUpdateSourceFolder","sourcePaths":[1,2]}`,
		`{"command":"onDidBrowseFolder","path":"/x","type":"elsewhere"}`,
		`{"command":"onDidLoadProjectClasspath","sources":[]}`,
		`{"command":42}`,
		`garbage`,
	} {
		assert.False(t, h.deliver(t, msg), msg)
	}

	after := h.ctrl.Store().Snapshot()
	assert.Equal(t, before.State, after.State)
	assert.Equal(t, before.Revision, after.Revision)
	assert.Empty(t, h.sent.Sent())
}

func TestController_CancelPostsNothing(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))
	require.NoError(t, h.ctrl.Edit(ListSources, 0))
	h.ctrl.Cancel(ListSources)
	assert.Equal(t, Idle, h.ctrl.Store().State().Mode(ListSources))
	assert.Empty(t, h.sent.Sent())
}

func TestController_Rollback(t *testing.T) {
	h := newHarness(t, loaded(protocol.ProjectTypeManagedBuildTool, "src"))
	require.NoError(t, h.ctrl.RemoveSource(context.Background(), "src"))
	require.True(t, h.ctrl.Store().State().SourcesPending)

	h.ctrl.Rollback()
	s := h.ctrl.Store().State()
	assert.False(t, s.SourcesPending)
	assert.Equal(t, []string{"src"}, protocol.SourcePaths(s.Sources))
}
