package tf2

import (
	"context"
	"fmt"
	"sync"
)

// Asset is one entry of a REST-level inventory snapshot. The REST view
// carries trade-relevant economy fields the shared-object deltas do
// not, and vice versa; the reconciler merges the two.
type Asset struct {
	ID         uint64
	OriginalID uint64
	DefIndex   uint32
	Level      uint32
	Quality    uint32
	Quantity   uint32
	Inventory  uint32
	Flags      uint32
	Origin     uint32
	Tradable   bool
	Marketable bool
	Name       string
}

// Inventory is a REST-level inventory snapshot for one app.
type Inventory struct {
	AppID  uint32
	Assets []Asset
}

// InventoryFetcher fetches the authoritative REST inventory snapshot
// for an account. Implemented by the host client. accountID is the
// full SteamID64, the same identity SOC owner fields carry.
type InventoryFetcher interface {
	Inventory(ctx context.Context, accountID uint64, appID uint32) (*Inventory, error)
}

// InventoryProvider is a per-app override source registered with a
// FetcherWithOverrides.
type InventoryProvider func(ctx context.Context) (*Inventory, error)

// FetcherWithOverrides wraps an InventoryFetcher with a per-app
// override table. An engine registers its live backpack view for its
// app id, so host-client code asking for that app's inventory gets the
// richer session-tracked view instead of a fresh REST round trip.
type FetcherWithOverrides struct {
	base InventoryFetcher

	mu        sync.RWMutex
	overrides map[uint32]InventoryProvider
}

// NewFetcherWithOverrides wraps base. base may be nil, in which case
// only overridden apps can be fetched.
func NewFetcherWithOverrides(base InventoryFetcher) *FetcherWithOverrides {
	return &FetcherWithOverrides{
		base:      base,
		overrides: make(map[uint32]InventoryProvider),
	}
}

// Register installs an override for appID, replacing any previous one.
func (f *FetcherWithOverrides) Register(appID uint32, provider InventoryProvider) {
	f.mu.Lock()
	f.overrides[appID] = provider
	f.mu.Unlock()
}

// Unregister removes the override for appID.
func (f *FetcherWithOverrides) Unregister(appID uint32) {
	f.mu.Lock()
	delete(f.overrides, appID)
	f.mu.Unlock()
}

// Inventory consults the override table before falling back to the
// base fetcher.
func (f *FetcherWithOverrides) Inventory(ctx context.Context, accountID uint64, appID uint32) (*Inventory, error) {
	f.mu.RLock()
	provider := f.overrides[appID]
	f.mu.RUnlock()
	if provider != nil {
		return provider(ctx)
	}
	if f.base == nil {
		return nil, fmt.Errorf("inventory: no fetcher for app %d", appID)
	}
	return f.base.Inventory(ctx, accountID, appID)
}
