package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which panes stack vertically.
	LayoutCompactWidth = 100

	// LayoutMinPreviewHeight is the smallest preview viewport height.
	LayoutMinPreviewHeight = 5
)

// Timing constants.
const (
	// PostTimeout bounds one outbound message to the host.
	PostTimeout = 2 * time.Second

	// StatusTTL is how long a status line message stays visible.
	StatusTTL = 4 * time.Second
)

// footerWidth is the room left for help text inside the padded footer.
func footerWidth(width int) int {
	if width <= 2 {
		return 0
	}
	return width - 2
}
