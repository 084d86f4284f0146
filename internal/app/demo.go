package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/protocol"
)

// demoLatency delays every demo reply the way a real host round trip would.
const demoLatency = 20 * time.Millisecond

type demoProject struct {
	info      protocol.ProjectInfo
	kind      string
	sources   []protocol.SourceRoot
	output    string
	vm        string
	libraries []string
}

// demoHost answers panel messages in-process for --offline runs. It keeps
// just enough state for the panels to be explored without an editor.
type demoHost struct {
	ch    *channel.Channel
	log   *slog.Logger
	queue chan []byte

	mu       sync.Mutex
	projects []*demoProject
	active   int
	settings []protocol.FormatterSetting
	lastCode string
}

func newDemoHost(ch *channel.Channel, logger *slog.Logger) *demoHost {
	return &demoHost{
		ch:    ch,
		log:   logger,
		queue: make(chan []byte, 64),
		projects: []*demoProject{
			{
				info:    protocol.ProjectInfo{Name: "demo-service", RootPath: "/workspace/demo-service"},
				kind:    "Maven",
				sources: []protocol.SourceRoot{{Path: "src/main/java", Output: "target/classes"}, {Path: "src/test/java", Output: "target/test-classes"}},
				output:  "target/classes",
				vm:      "/usr/lib/jvm/jdk-21",
			},
			{
				info:      protocol.ProjectInfo{Name: "scratch", RootPath: "/workspace/scratch"},
				kind:      string(protocol.ProjectTypeUnmanagedFolder),
				sources:   []protocol.SourceRoot{{Path: "src"}},
				output:    "bin",
				vm:        "/usr/lib/jvm/jdk-17",
				libraries: []string{"lib/**/*.jar"},
			},
			{
				info: protocol.ProjectInfo{Name: "legacy-plugin", RootPath: "/workspace/legacy-plugin"},
				kind: "Eclipse",
				vm:   "/usr/lib/jvm/jdk-17",
			},
		},
		settings: []protocol.FormatterSetting{
			{ID: "org.eclipse.jdt.core.formatter.tabulation.char", Name: "Indentation character", Value: "space", Category: "Common"},
			{ID: "org.eclipse.jdt.core.formatter.tabulation.size", Name: "Tab size", Value: "4", Category: "Common"},
			{ID: "org.eclipse.jdt.core.formatter.blank_lines_before_field", Name: "Before field declarations", Value: "0", Category: "Blankline"},
			{ID: "org.eclipse.jdt.core.formatter.comment.format_line_comments", Name: "Format line comments", Value: "true", Category: "Comment"},
			{ID: "org.eclipse.jdt.core.formatter.insert_new_line_at_end_of_file_if_missing", Name: "New line at end of file", Value: "true", Category: "Newline"},
			{ID: "org.eclipse.jdt.core.formatter.insert_space_after_comma_in_method_invocation_arguments", Name: "Space after comma", Value: "true", Category: "Whitespace"},
			{ID: "org.eclipse.jdt.core.formatter.lineSplit", Name: "Maximum line width", Value: "120", Category: "Wrapping"},
		},
	}
}

// Run delivers queued replies in order until ctx ends.
func (h *demoHost) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case data := <-h.queue:
			select {
			case <-ctx.Done():
				return
			case <-time.After(demoLatency):
			}
			h.ch.Deliver(data)
		}
	}
}

// Greet posts what a host sends when a panel opens.
func (h *demoHost) Greet(panel string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch panel {
	case PanelClasspath:
		infos := make([]protocol.ProjectInfo, 0, len(h.projects))
		for _, p := range h.projects {
			infos = append(infos, p.info)
		}
		h.send(protocol.CmdDidListVMInstalls, map[string]any{"vmInstalls": []protocol.VMInstall{
			{TypeName: "Standard VM", Name: "JDK 17", Path: "/usr/lib/jvm/jdk-17", Version: "17"},
			{TypeName: "Standard VM", Name: "JDK 21", Path: "/usr/lib/jvm/jdk-21", Version: "21"},
		}})
		h.send(protocol.CmdDidListProjects, map[string]any{"projectInfo": infos})
	case PanelFormatter:
		h.send(protocol.CmdInitSetting, map[string]any{"setting": h.settings, "detectIndentation": false})
		h.send(protocol.CmdInitVersion, map[string]any{"version": "21"})
	}
}

// Reply answers one panel message. It is installed as a Recorder's Reply.
func (h *demoHost) Reply(msg protocol.Outbound) {
	h.mu.Lock()
	defer h.mu.Unlock()

	switch m := msg.(type) {
	case protocol.LoadProjectClasspath:
		for i, p := range h.projects {
			if p.info == m.ProjectInfo {
				h.active = i
				h.sendClasspath(p)
			}
		}
	case protocol.UpdateSourcePath:
		p := h.projects[h.active]
		p.sources = dedupeRoots(m.SourcePaths)
		h.send(protocol.CmdDidUpdateSourceFolder, map[string]any{"sourcePaths": p.sources})
	case protocol.UpdateClassPaths:
		h.projects[h.active].sources = dedupeRoots(m.Sources)
	case protocol.UpdateSourcePathsForUnmanagedFolder:
		roots := make([]protocol.SourceRoot, 0, len(m.Paths))
		for _, path := range m.Paths {
			roots = append(roots, protocol.SourceRoot{Path: path})
		}
		h.projects[h.active].sources = dedupeRoots(roots)
	case protocol.UpdateUnmanagedFolderLibraries:
		h.projects[h.active].libraries = slices.Clone(m.Libraries)
	case protocol.SetOutputPath:
		h.projects[h.active].output = m.Path
	case protocol.ChangeJdk:
		h.projects[h.active].vm = m.Path
	case protocol.BrowseFolder:
		path := "src/generated/java"
		if m.Type == protocol.BrowseOutput {
			path = "build/classes"
		}
		h.send(protocol.CmdDidBrowseFolder, map[string]any{"path": path, "type": m.Type})
	case protocol.AddSourcePathForUnmanagedFolder:
		p := h.projects[h.active]
		p.sources = dedupeRoots(append(slices.Clone(p.sources), protocol.SourceRoot{Path: "src-extra"}))
		h.sendClasspath(p)
	case protocol.ChangeSetting:
		for i := range h.settings {
			if h.settings[i].ID == m.ID {
				h.settings[i].Value = m.Value
			}
		}
		h.send(protocol.CmdFormattedCode, map[string]any{"content": h.format(h.lastCode)})
	case protocol.Format:
		h.lastCode = m.Code
		h.send(protocol.CmdFormattedCode, map[string]any{"content": h.format(m.Code)})
	}
}

func (h *demoHost) sendClasspath(p *demoProject) {
	libs := p.libraries
	if libs == nil {
		libs = []string{}
	}
	sources := p.sources
	if sources == nil {
		sources = []protocol.SourceRoot{}
	}
	h.send(protocol.CmdDidLoadProjectClasspath, map[string]any{
		"projectType":         p.kind,
		"sources":             sources,
		"output":              p.output,
		"activeVmInstallPath": p.vm,
		"referencedLibraries": libs,
	})
}

// format applies the indentation settings, which is enough to make setting
// changes visible in the preview.
func (h *demoHost) format(code string) string {
	indent := "    "
	for _, s := range h.settings {
		if strings.HasSuffix(s.ID, "tabulation.char") && s.Value == "tab" {
			indent = "\t"
		}
	}
	lines := strings.Split(code, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		depth := (len(line) - len(trimmed)) / 4
		if strings.HasPrefix(line, "\t") {
			depth = len(line) - len(strings.TrimLeft(line, "\t"))
		}
		lines[i] = strings.Repeat(indent, depth) + strings.TrimRight(trimmed, " \t")
	}
	return strings.Join(lines, "\n")
}

func (h *demoHost) send(command string, payload map[string]any) {
	payload["command"] = command
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("encode demo reply", "command", command, "error", err)
		return
	}
	select {
	case h.queue <- data:
	default:
		h.log.Warn("demo reply queue full, dropping", "command", command)
	}
}

func dedupeRoots(roots []protocol.SourceRoot) []protocol.SourceRoot {
	out := make([]protocol.SourceRoot, 0, len(roots))
	seen := make(map[string]bool, len(roots))
	for _, r := range roots {
		if r.Path == "" || seen[r.Path] {
			continue
		}
		seen[r.Path] = true
		out = append(out, r)
	}
	return out
}
