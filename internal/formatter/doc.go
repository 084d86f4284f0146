// Package formatter implements the formatter settings panel.
//
// The panel shows a Java sample per category and a preview of that sample
// as formatted by the host. Changing a setting posts it to the host, which
// answers with a new rendering; until every request is answered the preview
// is marked stale.
package formatter
