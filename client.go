package tf2

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Gobot1234/steam-ext-tf2/internal/config"
	"github.com/Gobot1234/steam-ext-tf2/internal/events"
	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/schemacache"
	"github.com/Gobot1234/steam-ext-tf2/internal/util"
)

// helloInterval is how often ClientHello is sent while no session is
// established.
const helloInterval = 5 * time.Second

// Client glues the session engine to a host Steam client. The host
// feeds inbound GC envelopes into HandleMessage and provides the
// transport, inventory and HTTP collaborators; the Client owns the
// keep-alive loop and the event bus.
type Client struct {
	log   zerolog.Logger
	cfg   *config.Config
	bus   *events.Bus
	state *GCState
	cache *schemacache.Store
}

// Options carries the collaborators a Client needs from its host.
type Options struct {
	Transport Transport
	Fetcher   InventoryFetcher
	HTTP      HTTPDoer

	// Overrides, when set, has this client's live backpack view
	// registered for its app id.
	Overrides *FetcherWithOverrides
}

// NewClient builds a Client from configuration. cfg may be nil for
// defaults.
func NewClient(cfg *config.Config, opts Options) (*Client, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if opts.Transport == nil {
		return nil, fmt.Errorf("tf2: a transport is required")
	}

	var cache *schemacache.Store
	if path := cfg.GetGCData().SchemaCachePath; path != "" {
		var err error
		cache, err = schemacache.Open(path)
		if err != nil {
			return nil, fmt.Errorf("tf2: %w", err)
		}
	}

	bus := events.NewBus()
	c := &Client{
		log:   util.ComponentLogger("tf2-client"),
		cfg:   cfg,
		bus:   bus,
		cache: cache,
	}
	c.state = NewGCState(cfg, opts.Transport, opts.Fetcher, opts.HTTP, bus, cache)

	if opts.Overrides != nil {
		appID := cfg.GetGCData().AppID
		opts.Overrides.Register(appID, func(ctx context.Context) (*Inventory, error) {
			return c.inventoryView(ctx)
		})
	}
	return c, nil
}

// Run drives the keep-alive loop until ctx is cancelled: while no GC
// session is established, a ClientHello goes out every few seconds.
func (c *Client) Run(ctx context.Context) error {
	ticker := time.NewTicker(helloInterval)
	defer ticker.Stop()

	c.sayHello()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.sayHello()
		}
	}
}

func (c *Client) sayHello() {
	if c.state.Established() {
		return
	}
	if err := c.state.SendHello(); err != nil {
		c.log.Warn().Err(err).Msg("hello send failed")
	}
}

// HandleMessage decodes one inbound client-to-GC envelope and
// dispatches it.
func (c *Client) HandleMessage(ctx context.Context, envelope []byte) error {
	var env protobufs.GCClient
	if err := env.Unmarshal(envelope); err != nil {
		return fmt.Errorf("tf2: bad GC envelope: %w", err)
	}
	c.state.Handle(ctx, &env)
	return nil
}

// Subscribe registers a named listener for a domain event.
func (c *Client) Subscribe(eventType events.Type, name string, handler events.HandlerFunc) {
	c.bus.Subscribe(eventType, name, handler)
}

// Bus exposes the domain event bus.
func (c *Client) Bus() *events.Bus { return c.bus }

// State exposes the session engine.
func (c *Client) State() *GCState { return c.state }

// Craft crafts items; see GCState.Craft.
func (c *Client) Craft(ctx context.Context, items []*BackPackItem, recipe int16) ([]*BackPackItem, error) {
	return c.state.Craft(ctx, items, recipe)
}

// Backpack returns the live backpack mirror, or nil before the first
// cache merge.
func (c *Client) Backpack() *BackPack { return c.state.Backpack() }

// Schema returns the loaded item schema, or nil.
func (c *Client) Schema() *Schema { return c.state.Schema() }

// BackpackSlots returns the derived backpack capacity.
func (c *Client) BackpackSlots() int { return c.state.BackpackSlots() }

// IsPremium reports whether the account is a full account.
func (c *Client) IsPremium() bool { return c.state.IsPremium() }

// Close releases the schema cache and stops the event bus.
func (c *Client) Close() error {
	c.bus.Stop()
	if c.cache != nil {
		return c.cache.Close()
	}
	return nil
}

// inventoryView renders the live backpack as a REST-shaped inventory
// for the override table.
func (c *Client) inventoryView(ctx context.Context) (*Inventory, error) {
	bp := c.state.Backpack()
	if bp == nil {
		return nil, fmt.Errorf("tf2: backpack not loaded yet")
	}
	inv := &Inventory{AppID: c.cfg.GetGCData().AppID}
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	for _, it := range bp.Items {
		inv.Assets = append(inv.Assets, Asset{
			ID:         it.ID,
			OriginalID: it.OriginalID,
			DefIndex:   it.DefIndex,
			Level:      it.Level,
			Quality:    it.Quality,
			Quantity:   it.Quantity,
			Inventory:  it.Inventory,
			Flags:      it.Flags,
			Origin:     it.Origin,
			Tradable:   it.IsTradable(),
			Name:       it.Name,
		})
	}
	return inv, nil
}
