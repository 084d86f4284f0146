package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/five82/jconf/internal/app"
)

var version = "dev"

// runApp is swapped out in tests.
var runApp = app.Run

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "jconf: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:     "jconf",
		Version: version,
		Short:   "Java project configuration panels for the terminal",
		Long: `jconf edits the classpath and formatter settings of Java projects.

It connects to the editor host over a WebSocket and shows one panel. The host
performs every change; jconf stages edits and displays what the host confirms.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ConfigPath, "config", "", "config file (default ~/.config/jconf/config.toml)")
	flags.StringVar(&opts.HostURL, "host", "", "host WebSocket URL, overrides the config file")
	flags.StringVar(&opts.LogFile, "log-file", "", "log file, overrides the config file")
	flags.BoolVar(&opts.Offline, "offline", false, "run against the built-in demo host")

	for _, panel := range []struct {
		name  string
		short string
	}{
		{app.PanelClasspath, "Edit source folders, output path, libraries and JDK"},
		{app.PanelFormatter, "Edit formatter settings with a live preview"},
	} {
		panel := panel
		root.AddCommand(&cobra.Command{
			Use:   panel.name,
			Short: panel.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				runOpts := opts
				runOpts.Panel = panel.name
				return runApp(cmd.Context(), runOpts)
			},
		})
	}
	return root
}
