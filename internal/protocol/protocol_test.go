package protocol

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ReadsCommandAndKeepsRaw(t *testing.T) {
	data := []byte(`{"command":"onDidBrowseFolder","path":"/w/src","type":"source","extra":1}`)
	env, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, CmdDidBrowseFolder, env.Command)
	assert.JSONEq(t, string(data), string(env.Raw))

	data[2] = 'X'
	assert.Equal(t, byte('c'), env.Raw[2], "Parse should copy the raw message")
}

func TestParse_RejectsMissingCommand(t *testing.T) {
	for _, in := range []string{`{}`, `{"command":""}`, `{"command":"  "}`, `not json`, `[]`} {
		_, err := Parse([]byte(in))
		assert.Truef(t, errors.Is(err, ErrMalformed), "Parse(%s) error = %v, want ErrMalformed", in, err)
	}
}

func TestDecodeBrowseFolder(t *testing.T) {
	env := mustParse(t, `{"command":"onDidBrowseFolder","path":"/w/out","type":"output"}`)
	got, err := DecodeBrowseFolder(env)
	require.NoError(t, err)
	assert.Equal(t, BrowseFolderResult{Path: "/w/out", Type: BrowseOutput}, got)

	_, err = DecodeBrowseFolder(mustParse(t, `{"command":"onDidBrowseFolder","type":"source"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeBrowseFolder(mustParse(t, `{"command":"onDidBrowseFolder","path":"/x","type":"library"}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeSourceRoots_NormalizesBothShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []SourceRoot
	}{
		{"strings", `["/a","/b"]`, []SourceRoot{{Path: "/a"}, {Path: "/b"}}},
		{"objects", `[{"path":"/a","output":"/o"},{"path":"/b"}]`, []SourceRoot{{Path: "/a", Output: "/o"}, {Path: "/b"}}},
		{"mixed", `["/a",{"path":"/b","output":"/o","ignored":true}]`, []SourceRoot{{Path: "/a"}, {Path: "/b", Output: "/o"}}},
		{"empty", `[]`, []SourceRoot{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSourceRoots(json.RawMessage(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeSourceRoots_RejectsBadElements(t *testing.T) {
	for _, in := range []string{`[""]`, `[{"output":"/o"}]`, `[42]`, `{"path":"/a"}`} {
		_, err := DecodeSourceRoots(json.RawMessage(in))
		assert.ErrorIsf(t, err, ErrMalformed, "input %s", in)
	}
}

func TestDecodeSourceFolderUpdate_RequiresSourcePaths(t *testing.T) {
	got, err := DecodeSourceFolderUpdate(mustParse(t, `{"command":"onDidUpdateSourceFolder","sourcePaths":["/a"]}`))
	require.NoError(t, err)
	assert.Equal(t, []SourceRoot{{Path: "/a"}}, got.SourcePaths)

	_, err = DecodeSourceFolderUpdate(mustParse(t, `{"command":"onDidUpdateSourceFolder"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = DecodeSourceFolderUpdate(mustParse(t, `{"command":"onDidUpdateSourceFolder","sourcePaths":null}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeClasspathLoad(t *testing.T) {
	env := mustParse(t, `{
		"command": "onDidLoadProjectClasspath",
		"projectType": "Maven",
		"sources": [{"path": "/p/src/main/java", "output": "/p/target/classes"}],
		"output": "/p/bin",
		"activeVmInstallPath": "/jdk/17",
		"referencedLibraries": ["lib/a.jar"]
	}`)
	got, err := DecodeClasspathLoad(env)
	require.NoError(t, err)
	assert.Equal(t, ProjectTypeManagedBuildTool, got.ProjectType)
	assert.Equal(t, []SourceRoot{{Path: "/p/src/main/java", Output: "/p/target/classes"}}, got.Sources)
	assert.Equal(t, "/p/bin", got.Output)
	assert.Equal(t, "/jdk/17", got.ActiveVMInstallPath)
	assert.Equal(t, []string{"lib/a.jar"}, got.ReferencedLibraries)

	_, err = DecodeClasspathLoad(mustParse(t, `{"command":"onDidLoadProjectClasspath","sources":[]}`))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeFormatterPayloads(t *testing.T) {
	code, err := DecodeFormattedCode(mustParse(t, `{"command":"VSCodeToWebview.formattedCode","content":"class A {}"}`))
	require.NoError(t, err)
	assert.Equal(t, "class A {}", code.Content)

	_, err = DecodeFormattedCode(mustParse(t, `{"command":"VSCodeToWebview.formattedCode"}`))
	assert.ErrorIs(t, err, ErrMalformed)

	initial, err := DecodeInitSetting(mustParse(t, `{"command":"VSCodeToWebview.initSetting","setting":[{"id":"tabSize","name":"Tab size","value":"4"}],"detectIndentation":true}`))
	require.NoError(t, err)
	assert.True(t, initial.DetectIndentation)
	assert.Equal(t, []FormatterSetting{{ID: "tabSize", Name: "Tab size", Value: "4"}}, initial.Settings)

	_, err = DecodeInitSetting(mustParse(t, `{"command":"VSCodeToWebview.initSetting","setting":[{"name":"no id"}]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	ver, err := DecodeInitVersion(mustParse(t, `{"command":"VSCodeToWebview.initVersion","version":"21"}`))
	require.NoError(t, err)
	assert.Equal(t, "21", ver.Version)
}

func TestParseProjectType(t *testing.T) {
	assert.Equal(t, ProjectTypeUnmanagedFolder, ParseProjectType("UnmanagedFolder"))
	assert.Equal(t, ProjectTypeManagedBuildTool, ParseProjectType("Gradle"))
	assert.Equal(t, ProjectTypeOthers, ParseProjectType("Bazel"))
	assert.True(t, ProjectTypeOthers.ReadOnly())
	assert.False(t, ProjectTypeUnmanagedFolder.ReadOnly())
}

func TestOutbound_FieldNamesMatchContract(t *testing.T) {
	tests := []struct {
		msg  Outbound
		want string
	}{
		{ChangeJdk{Command: CmdWillChangeJdk, Path: "/jdk"}, `{"command":"onWillChangeJdk","path":"/jdk"}`},
		{UpdateClassPaths{Command: CmdWillUpdateClassPaths, Sources: []SourceRoot{{Path: "/a"}}}, `{"command":"onWillUpdateClassPaths","sources":[{"path":"/a"}]}`},
		{UpdateSourcePathsForUnmanagedFolder{Command: CmdWillUpdateSourcePathsForUnmanagedFolder, Paths: []string{"/a"}}, `{"command":"onWillUpdateSourcePathsForUnmanagedFolder","paths":["/a"]}`},
		{UpdateUnmanagedFolderLibraries{Command: CmdWillUpdateUnmanagedFolderLibraries, Libraries: []string{"x.jar"}}, `{"command":"onWillUpdateUnmanagedFolderLibraries","libraries":["x.jar"]}`},
		{BrowseFolder{Command: CmdWillBrowseFolder, Type: BrowseOutput}, `{"command":"onWillBrowseFolder","type":"output"}`},
		{AddSourcePathForUnmanagedFolder{Command: CmdWillAddSourcePathForUnmanagedFolder}, `{"command":"onWillAddSourcePathForUnmanagedFolder"}`},
	}
	for _, tt := range tests {
		t.Run(tt.msg.OutboundCommand(), func(t *testing.T) {
			data, err := json.Marshal(tt.msg)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func mustParse(t *testing.T, raw string) Envelope {
	t.Helper()
	env, err := Parse([]byte(raw))
	require.NoError(t, err)
	return env
}
