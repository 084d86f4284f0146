package protocol

import "strings"

// ProjectType classifies how a project's classpath is managed.
type ProjectType string

const (
	ProjectTypeUnmanagedFolder  ProjectType = "UnmanagedFolder"
	ProjectTypeManagedBuildTool ProjectType = "ManagedBuildTool"
	ProjectTypeOthers           ProjectType = "Others"
)

// ParseProjectType maps the host's project type label onto the three kinds
// the panels distinguish. Build tool names collapse into ManagedBuildTool and
// anything unrecognized is treated as Others, which is read-only.
func ParseProjectType(raw string) ProjectType {
	switch strings.TrimSpace(raw) {
	case string(ProjectTypeUnmanagedFolder):
		return ProjectTypeUnmanagedFolder
	case string(ProjectTypeManagedBuildTool), "Maven", "Gradle":
		return ProjectTypeManagedBuildTool
	default:
		return ProjectTypeOthers
	}
}

// ReadOnly reports whether the configuration may not be edited at all.
func (p ProjectType) ReadOnly() bool {
	return p != ProjectTypeUnmanagedFolder && p != ProjectTypeManagedBuildTool
}

// ProjectInfo mirrors the host's project descriptor.
type ProjectInfo struct {
	Name     string `json:"name"`
	RootPath string `json:"rootPath"`
}

// VMInstall describes a candidate JDK.
type VMInstall struct {
	TypeName string `json:"typeName"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	Version  string `json:"version"`
}

// SourceRoot is one source folder of a classpath configuration. An empty
// Output means the configuration's default output path applies.
type SourceRoot struct {
	Path   string `json:"path"`
	Output string `json:"output,omitempty"`
}

// OutputOr returns the root's output, or fallback when none is set.
func (s SourceRoot) OutputOr(fallback string) string {
	if s.Output == "" {
		return fallback
	}
	return s.Output
}

// ClasspathException is a host-reported reason the classpath panel cannot
// show a project.
type ClasspathException string

const (
	ExceptionJavaExtensionNotInstalled ClasspathException = "javaExtensionNotInstalled"
	ExceptionStaleJavaExtension        ClasspathException = "staleJavaExtension"
	ExceptionNoJavaProjects            ClasspathException = "noJavaProjects"
)

// Message returns a short human readable explanation.
func (e ClasspathException) Message() string {
	switch e {
	case ExceptionJavaExtensionNotInstalled:
		return "The Java language support extension is not installed."
	case ExceptionStaleJavaExtension:
		return "The Java language support extension is too old for classpath configuration."
	case ExceptionNoJavaProjects:
		return "No Java projects found in the workspace."
	default:
		return string(e)
	}
}

// BrowseType names the draft field a folder picker result fills in.
type BrowseType string

const (
	BrowseSource BrowseType = "source"
	BrowseOutput BrowseType = "output"
)

// Valid reports whether b is one of the known browse targets.
func (b BrowseType) Valid() bool {
	return b == BrowseSource || b == BrowseOutput
}

// FormatterSetting is one entry of the host's formatter setting list.
type FormatterSetting struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Value    string `json:"value"`
	Category string `json:"category,omitempty"`
}

// CloneSourceRoots returns an independent copy of roots.
func CloneSourceRoots(roots []SourceRoot) []SourceRoot {
	if len(roots) == 0 {
		return nil
	}
	dup := make([]SourceRoot, len(roots))
	copy(dup, roots)
	return dup
}

// SourcePaths returns the paths of roots in order.
func SourcePaths(roots []SourceRoot) []string {
	paths := make([]string, 0, len(roots))
	for _, root := range roots {
		paths = append(paths, root.Path)
	}
	return paths
}
