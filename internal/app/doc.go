// Package app is the composition root of jconf.
//
// # Overview
//
// Run loads configuration, sets up logging, opens the host channel and
// starts one panel. Everything below it (stores, controllers, routers, the
// UI) is constructed here and handed its dependencies explicitly.
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       ├─────> config.Load()        Read ~/.config/jconf/config.toml
//	       ├─────> logging.Setup()      Log file, slog default
//	       ├─────> prefs.Load()         Theme, last formatter category
//	       ├─────> newConnection()      Host link or demo host
//	       ├─────> router.Mount()       Inbound messages -> controller
//	       ├─────> connection.start()   Dial the host / greet the demo
//	       └─────> ui.Run*()            Bubble Tea panel (blocks)
//
// Routers are mounted before the connection starts, so the messages a host
// sends on connect always reach the panel.
//
// # Host Link
//
// The first dial happens in the foreground and a failure is returned from
// Run. After that a background goroutine pumps frames into the channel and
// redials with exponential backoff (1s doubling, capped at 30s) when the
// connection drops. Posts made while disconnected fail immediately; nothing
// is queued or retried.
//
// # Offline Mode
//
// With Offline set, a demo host answers panel messages in-process with a
// few sample projects and formatter settings. Replies are delivered in order
// after a short delay, like a real round trip.
package app
