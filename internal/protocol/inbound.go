package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// BrowseFolderResult is the payload of onDidBrowseFolder.
type BrowseFolderResult struct {
	Path string
	Type BrowseType
}

// SourceFolderUpdate is the payload of onDidUpdateSourceFolder.
type SourceFolderUpdate struct {
	SourcePaths []SourceRoot
}

// ProjectList is the payload of onDidListProjects.
type ProjectList struct {
	Projects []ProjectInfo
}

// ClasspathLoad is the payload of onDidLoadProjectClasspath.
type ClasspathLoad struct {
	ProjectType         ProjectType
	Sources             []SourceRoot
	Output              string
	ActiveVMInstallPath string
	ReferencedLibraries []string
}

// VMInstallList is the payload of onDidListVmInstalls.
type VMInstallList struct {
	VMInstalls []VMInstall
}

// ExceptionReport is the payload of onException.
type ExceptionReport struct {
	Exception ClasspathException
}

// FormattedCode is the payload of VSCodeToWebview.formattedCode.
type FormattedCode struct {
	Content string
}

// InitSetting is the payload of VSCodeToWebview.initSetting.
type InitSetting struct {
	Settings          []FormatterSetting
	DetectIndentation bool
}

// InitVersion is the payload of VSCodeToWebview.initVersion.
type InitVersion struct {
	Version string
}

// DecodeBrowseFolder reads an onDidBrowseFolder payload.
func DecodeBrowseFolder(env Envelope) (BrowseFolderResult, error) {
	var raw struct {
		Path *string `json:"path"`
		Type string  `json:"type"`
	}
	if err := decode(env, &raw); err != nil {
		return BrowseFolderResult{}, err
	}
	if raw.Path == nil {
		return BrowseFolderResult{}, missing(env, "path")
	}
	kind := BrowseType(strings.TrimSpace(raw.Type))
	if !kind.Valid() {
		return BrowseFolderResult{}, fmt.Errorf("%w: %s: unknown browse type %q", ErrMalformed, env.Command, raw.Type)
	}
	return BrowseFolderResult{Path: *raw.Path, Type: kind}, nil
}

// DecodeSourceFolderUpdate reads an onDidUpdateSourceFolder payload.
func DecodeSourceFolderUpdate(env Envelope) (SourceFolderUpdate, error) {
	var raw struct {
		SourcePaths json.RawMessage `json:"sourcePaths"`
	}
	if err := decode(env, &raw); err != nil {
		return SourceFolderUpdate{}, err
	}
	if isAbsent(raw.SourcePaths) {
		return SourceFolderUpdate{}, missing(env, "sourcePaths")
	}
	roots, err := DecodeSourceRoots(raw.SourcePaths)
	if err != nil {
		return SourceFolderUpdate{}, fmt.Errorf("%s: %w", env.Command, err)
	}
	return SourceFolderUpdate{SourcePaths: roots}, nil
}

// DecodeProjectList reads an onDidListProjects payload.
func DecodeProjectList(env Envelope) (ProjectList, error) {
	var raw struct {
		ProjectInfo *[]ProjectInfo `json:"projectInfo"`
	}
	if err := decode(env, &raw); err != nil {
		return ProjectList{}, err
	}
	if raw.ProjectInfo == nil {
		return ProjectList{}, missing(env, "projectInfo")
	}
	return ProjectList{Projects: *raw.ProjectInfo}, nil
}

// DecodeClasspathLoad reads an onDidLoadProjectClasspath payload.
func DecodeClasspathLoad(env Envelope) (ClasspathLoad, error) {
	var raw struct {
		ProjectType         *string         `json:"projectType"`
		Sources             json.RawMessage `json:"sources"`
		Output              string          `json:"output"`
		ActiveVMInstallPath string          `json:"activeVmInstallPath"`
		ReferencedLibraries []string        `json:"referencedLibraries"`
	}
	if err := decode(env, &raw); err != nil {
		return ClasspathLoad{}, err
	}
	if raw.ProjectType == nil {
		return ClasspathLoad{}, missing(env, "projectType")
	}
	if isAbsent(raw.Sources) {
		return ClasspathLoad{}, missing(env, "sources")
	}
	roots, err := DecodeSourceRoots(raw.Sources)
	if err != nil {
		return ClasspathLoad{}, fmt.Errorf("%s: %w", env.Command, err)
	}
	return ClasspathLoad{
		ProjectType:         ParseProjectType(*raw.ProjectType),
		Sources:             roots,
		Output:              raw.Output,
		ActiveVMInstallPath: raw.ActiveVMInstallPath,
		ReferencedLibraries: raw.ReferencedLibraries,
	}, nil
}

// DecodeVMInstallList reads an onDidListVmInstalls payload.
func DecodeVMInstallList(env Envelope) (VMInstallList, error) {
	var raw struct {
		VMInstalls *[]VMInstall `json:"vmInstalls"`
	}
	if err := decode(env, &raw); err != nil {
		return VMInstallList{}, err
	}
	if raw.VMInstalls == nil {
		return VMInstallList{}, missing(env, "vmInstalls")
	}
	return VMInstallList{VMInstalls: *raw.VMInstalls}, nil
}

// DecodeException reads an onException payload.
func DecodeException(env Envelope) (ExceptionReport, error) {
	var raw struct {
		Exception string `json:"exception"`
	}
	if err := decode(env, &raw); err != nil {
		return ExceptionReport{}, err
	}
	if strings.TrimSpace(raw.Exception) == "" {
		return ExceptionReport{}, missing(env, "exception")
	}
	return ExceptionReport{Exception: ClasspathException(raw.Exception)}, nil
}

// DecodeFormattedCode reads a VSCodeToWebview.formattedCode payload.
func DecodeFormattedCode(env Envelope) (FormattedCode, error) {
	var raw struct {
		Content *string `json:"content"`
	}
	if err := decode(env, &raw); err != nil {
		return FormattedCode{}, err
	}
	if raw.Content == nil {
		return FormattedCode{}, missing(env, "content")
	}
	return FormattedCode{Content: *raw.Content}, nil
}

// DecodeInitSetting reads a VSCodeToWebview.initSetting payload.
func DecodeInitSetting(env Envelope) (InitSetting, error) {
	var raw struct {
		Setting           *[]FormatterSetting `json:"setting"`
		DetectIndentation bool                `json:"detectIndentation"`
	}
	if err := decode(env, &raw); err != nil {
		return InitSetting{}, err
	}
	if raw.Setting == nil {
		return InitSetting{}, missing(env, "setting")
	}
	for i, s := range *raw.Setting {
		if strings.TrimSpace(s.ID) == "" {
			return InitSetting{}, fmt.Errorf("%w: %s: setting %d has no id", ErrMalformed, env.Command, i)
		}
	}
	return InitSetting{Settings: *raw.Setting, DetectIndentation: raw.DetectIndentation}, nil
}

// DecodeInitVersion reads a VSCodeToWebview.initVersion payload.
func DecodeInitVersion(env Envelope) (InitVersion, error) {
	var raw struct {
		Version *string `json:"version"`
	}
	if err := decode(env, &raw); err != nil {
		return InitVersion{}, err
	}
	if raw.Version == nil {
		return InitVersion{}, missing(env, "version")
	}
	return InitVersion{Version: *raw.Version}, nil
}

// DecodeSourceRoots accepts a JSON array whose elements are either path
// strings or SourceRoot objects and returns the canonical form. Any element
// without a path makes the whole list malformed.
func DecodeSourceRoots(raw json.RawMessage) ([]SourceRoot, error) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil {
		return nil, fmt.Errorf("%w: source list: %v", ErrMalformed, err)
	}
	roots := make([]SourceRoot, 0, len(elems))
	for i, elem := range elems {
		root, err := decodeSourceRoot(elem)
		if err != nil {
			return nil, fmt.Errorf("%w: source %d: %v", ErrMalformed, i, err)
		}
		roots = append(roots, root)
	}
	return roots, nil
}

func decodeSourceRoot(elem json.RawMessage) (SourceRoot, error) {
	trimmed := bytes.TrimSpace(elem)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var path string
		if err := json.Unmarshal(trimmed, &path); err != nil {
			return SourceRoot{}, err
		}
		if path == "" {
			return SourceRoot{}, fmt.Errorf("empty path")
		}
		return SourceRoot{Path: path}, nil
	}
	var obj struct {
		Path   *string `json:"path"`
		Output *string `json:"output"`
	}
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return SourceRoot{}, err
	}
	if obj.Path == nil || *obj.Path == "" {
		return SourceRoot{}, fmt.Errorf("missing path")
	}
	root := SourceRoot{Path: *obj.Path}
	if obj.Output != nil {
		root.Output = *obj.Output
	}
	return root, nil
}

func decode(env Envelope, dest any) error {
	if err := json.Unmarshal(env.Raw, dest); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformed, env.Command, err)
	}
	return nil
}

func missing(env Envelope, field string) error {
	return fmt.Errorf("%w: %s: missing %s", ErrMalformed, env.Command, field)
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
