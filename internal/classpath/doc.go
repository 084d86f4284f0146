// Package classpath implements the classpath configuration panel: its state,
// the reducer that evolves it, and the controller that drives edit sessions
// and talks to the host.
//
// The source list has two versions. ConfirmedSources is what the host last
// reported; Sources is what the panel shows, which may carry local edits
// not yet confirmed (SourcesPending). A host update overwrites both.
//
// Each list has at most one edit session. Starting another Add or Edit on a
// list replaces the open session and its draft. Committing a blank draft
// closes the session and changes nothing.
//
// Projects of type Others are read-only. Referenced libraries and the default
// output folder belong to unmanaged folder projects only; their edits, like
// unmanaged source removals, stay local until Apply.
package classpath
