// Package config loads the jconf configuration file.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/jconf/config.toml (default)
//  3. If the config file doesn't exist, fall back to defaults
//  4. If the file exists but fields are missing or blank, use defaults
//
// # Default Values
//
//   - Config file: ~/.config/jconf/config.toml
//   - Host URL: ws://127.0.0.1:7488/panel
//   - Log file: ~/.local/state/jconf/jconf.log
//   - Log level: info
//
// # TOML Format
//
//	host_url = "ws://127.0.0.1:7488/panel"
//	log_file = "~/.local/state/jconf/jconf.log"
//	log_level = "debug"
//
// Every field is optional. Tilde expansion is applied to log_file. An
// unknown log_level is a parse error.
//
// # Error Handling
//
// Load returns errors for path expansion failures, read errors other than
// os.ErrNotExist, and TOML or log level parse errors. A missing file is not
// an error.
package config
