// Package ui provides the terminal panels of jconf.
//
// # Architecture Overview
//
// Each panel is a Bubble Tea model wrapped around a panel controller. The
// controller owns the store; the model only renders store snapshots and turns
// key presses into controller calls.
//
//	key press -> model -> controller -> store.Dispatch / host message
//	host message -> router -> controller -> store.Dispatch
//	store.Updates() -> waitForUpdate -> model.Update -> View
//
// Controller calls run synchronously inside Update, bounded by PostTimeout.
// Their state changes are picked up right away; changes caused by the host
// arrive through waitForUpdate.
//
// # Package Structure
//
//   - app.go: Options, shared messages and commands, RunClasspath, RunFormatter
//   - classpath.go: classpath panel (projects, JDK, sources, libraries)
//   - formatter.go: formatter panel (categories, settings, preview)
//   - highlight.go: Java syntax highlighting of the preview via chroma
//   - keys.go / help.go: key bindings, footer and help overlay
//   - theme.go: color themes; the active one is persisted in prefs
//
// # Classpath Panel
//
// Enter on a source or library row opens an edit session whose draft is
// shown as text inputs; a opens one for a new row. Enter commits the draft
// and esc cancels it. Folder picker results from the host land in the open
// session's draft. Unmanaged folder edits are staged until ctrl+s applies
// them.
//
// # Formatter Panel
//
// Enter on a category switches the preview sample; enter on a boolean
// setting flips it and other settings open an inline editor. The preview
// header marks a formatted preview as updating until the host has answered
// every outstanding format request.
package ui
