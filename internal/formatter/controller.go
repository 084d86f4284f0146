package formatter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/five82/jconf/internal/dispatch"
	"github.com/five82/jconf/internal/protocol"
	"github.com/five82/jconf/internal/router"
)

// ErrUnknownSetting is returned for a setting id the host never listed.
var ErrUnknownSetting = errors.New("unknown formatter setting")

// Controller drives the formatter panel.
type Controller struct {
	store *Store
	out   *dispatch.Dispatcher
	log   *slog.Logger
}

// NewController wires a controller to its store and dispatcher.
func NewController(store *Store, out *dispatch.Dispatcher, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{store: store, out: out, log: logger.With("panel", "formatter")}
}

// Store returns the store the controller drives.
func (c *Controller) Store() *Store {
	return c.store
}

// Refresh asks the host to format the current content.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.requestFormat(ctx, c.store.State().Content)
}

// SelectCategory shows category and asks the host to render its sample.
// Content is left as it is.
func (c *Controller) SelectCategory(ctx context.Context, category Category) error {
	if !category.Valid() {
		return fmt.Errorf("select category %q: unknown category", category)
	}
	prev, _ := c.store.Dispatch(ChangeActiveCategory{Category: category})
	if prev.ActiveCategory == category {
		return nil
	}
	return c.requestFormat(ctx, category.Sample())
}

// requestFormat counts the request before posting it, so an answer that
// arrives before Post returns still finds it pending.
func (c *Controller) requestFormat(ctx context.Context, code string) error {
	c.store.Dispatch(RequestFormat{})
	if err := c.out.Format(ctx, code); err != nil {
		c.store.Dispatch(CancelFormat{})
		return err
	}
	return nil
}

// ChangeSetting posts a new value for setting id.
func (c *Controller) ChangeSetting(ctx context.Context, id, value string) error {
	setting, ok := c.store.State().Setting(id)
	if !ok {
		return fmt.Errorf("change setting %q: %w", id, ErrUnknownSetting)
	}
	if setting.Value == value {
		return nil
	}
	c.store.Dispatch(ChangeSetting{ID: id, Value: value})
	if err := c.out.ChangeSetting(ctx, id, value); err != nil {
		c.store.Dispatch(CancelFormat{SettingID: id, Value: setting.Value})
		return err
	}
	c.log.Debug("setting changed", "id", id, "value", value)
	return nil
}

// TogglePreview flips between the formatted and the original text.
func (c *Controller) TogglePreview() {
	s := c.store.State()
	c.store.Dispatch(SetPreview{Formatted: !s.Format})
}

// Routes returns the inbound handlers of the formatter panel.
func (c *Controller) Routes() []router.Route {
	return []router.Route{
		{Command: protocol.CmdFormattedCode, Handle: func(env protocol.Envelope) error {
			result, err := protocol.DecodeFormattedCode(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(ApplyFormatResult{Content: result.Content})
			return nil
		}},
		{Command: protocol.CmdInitSetting, Handle: func(env protocol.Envelope) error {
			hydrate, err := protocol.DecodeInitSetting(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(InitSetting{Settings: hydrate.Settings, DetectIndentation: hydrate.DetectIndentation})
			return nil
		}},
		{Command: protocol.CmdInitVersion, Handle: func(env protocol.Envelope) error {
			version, err := protocol.DecodeInitVersion(env)
			if err != nil {
				return err
			}
			c.store.Dispatch(InitVersion{Version: version.Version})
			return nil
		}},
	}
}
