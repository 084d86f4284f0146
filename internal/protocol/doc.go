// Package protocol defines the wire contract between the panels and the host.
//
// # Overview
//
// Every message in either direction is a JSON object carrying a "command"
// tag plus command-specific payload fields:
//
//	{"command": "onDidBrowseFolder", "path": "/work/src", "type": "source"}
//
// Parse reads only the tag and keeps the raw bytes; the Decode* functions
// read only the documented fields of each payload. Fields the host adds later
// are ignored rather than rejected, which keeps older panels working against
// newer hosts.
//
// # Inbound Commands
//
//   - onDidBrowseFolder: result of a folder picker (path, type)
//   - onDidUpdateSourceFolder: durable source list after a host update
//   - onDidListProjects, onDidLoadProjectClasspath, onDidListVmInstalls,
//     onException: classpath panel hydration
//   - VSCodeToWebview.formattedCode, VSCodeToWebview.initSetting,
//     VSCodeToWebview.initVersion: formatter panel
//
// # Outbound Commands
//
// Outbound messages are plain structs whose first field is the command tag.
// They are built by the dispatch package and serialized by the transport.
//
// # Shape Normalization
//
// The host has been observed to send source lists both as plain path strings
// and as SourceRoot objects. DecodeSourceRoots accepts either form (or a mix)
// and always yields []SourceRoot, so stores never branch on payload shape.
package protocol
