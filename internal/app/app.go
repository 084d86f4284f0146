package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/five82/jconf/internal/channel"
	"github.com/five82/jconf/internal/classpath"
	"github.com/five82/jconf/internal/config"
	"github.com/five82/jconf/internal/dispatch"
	"github.com/five82/jconf/internal/formatter"
	"github.com/five82/jconf/internal/logging"
	"github.com/five82/jconf/internal/prefs"
	"github.com/five82/jconf/internal/router"
	"github.com/five82/jconf/internal/ui"
)

// Panel names.
const (
	PanelClasspath = "classpath"
	PanelFormatter = "formatter"
)

// Options configure one jconf run.
type Options struct {
	Panel      string
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/jconf/prefs.toml
	HostURL    string // overrides the config file
	LogFile    string // overrides the config file
	Offline    bool   // answer messages with the built-in demo host
}

// Run boots the requested panel until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Panel != PanelClasspath && opts.Panel != PanelFormatter {
		return fmt.Errorf("unknown panel %q", opts.Panel)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if opts.HostURL != "" {
		cfg.HostURL = opts.HostURL
	}
	if opts.LogFile != "" {
		path, err := config.ExpandPath(opts.LogFile)
		if err != nil {
			return fmt.Errorf("log file: %w", err)
		}
		cfg.LogFile = path
	}

	logger, closer, err := logging.Setup(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = closer.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	ctx, cancel := context.WithCancel(ctx)
	conn := newConnection(opts, cfg, logger)
	defer func() {
		cancel()
		conn.close()
	}()

	out := dispatch.New(conn.ch)
	uiOpts := ui.Options{
		Context:   ctx,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Logger:    logger,
	}
	logger.Info("starting panel", "panel", opts.Panel, "offline", opts.Offline)

	switch opts.Panel {
	case PanelClasspath:
		ctrl := classpath.NewController(classpath.NewStore(classpath.NewState()), out, logger)
		mount := router.New(PanelClasspath, logger, ctrl.Routes(ctx)...).Mount(ctx, conn.ch)
		defer mount.Close()
		if err := conn.start(ctx, opts.Panel); err != nil {
			return err
		}
		return ui.RunClasspath(uiOpts, ctrl)
	default:
		category, _ := formatter.ParseCategory(userPrefs.FormatterCategory)
		ctrl := formatter.NewController(formatter.NewStore(formatter.NewState(category)), out, logger)
		mount := router.New(PanelFormatter, logger, ctrl.Routes()...).Mount(ctx, conn.ch)
		defer mount.Close()
		if err := conn.start(ctx, opts.Panel); err != nil {
			return err
		}
		return ui.RunFormatter(uiOpts, ctrl)
	}
}

// connection is the channel plus whatever feeds it: a host link or the
// demo host.
type connection struct {
	ch   *channel.Channel
	link *hostLink
	demo *demoHost
	log  *slog.Logger
	done <-chan struct{}
}

func newConnection(opts Options, cfg config.Config, logger *slog.Logger) *connection {
	c := &connection{log: logger}
	if opts.Offline {
		rec := &channel.Recorder{}
		c.ch = channel.New(rec)
		c.demo = newDemoHost(c.ch, logger)
		rec.Reply = c.demo.Reply
		return c
	}
	c.link = newHostLink(cfg.HostURL, nil, logger)
	c.ch = channel.New(c.link)
	return c
}

// start begins feeding the channel. Routers must already be mounted so the
// host's first messages are not missed.
func (c *connection) start(ctx context.Context, panel string) error {
	if c.demo != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			c.demo.Run(ctx)
		}()
		c.done = done
		c.demo.Greet(panel)
		return nil
	}
	done, err := c.link.Start(ctx, c.ch)
	if err != nil {
		return fmt.Errorf("connect to host: %w", err)
	}
	c.done = done
	return nil
}

// close waits for the feeder to stop and closes the channel. The context
// passed to start must already be cancelled.
func (c *connection) close() {
	if c.link != nil {
		if err := c.link.Close(); err != nil {
			c.log.Debug("close host link", "error", err)
		}
	}
	if c.done != nil {
		<-c.done
	}
	c.ch.Close()
}
