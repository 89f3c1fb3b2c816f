package tf2

import (
	"context"
	"testing"
)

func TestFetcherWithOverrides(t *testing.T) {
	base := &fakeFetcher{assets: []Asset{{ID: 1}}}
	f := NewFetcherWithOverrides(base)

	inv, err := f.Inventory(context.Background(), 1, 440)
	if err != nil {
		t.Fatalf("base fetch: %v", err)
	}
	if len(inv.Assets) != 1 || inv.Assets[0].ID != 1 {
		t.Fatalf("base fetch returned %+v", inv.Assets)
	}

	f.Register(440, func(ctx context.Context) (*Inventory, error) {
		return &Inventory{AppID: 440, Assets: []Asset{{ID: 2}}}, nil
	})
	inv, err = f.Inventory(context.Background(), 1, 440)
	if err != nil {
		t.Fatalf("override fetch: %v", err)
	}
	if len(inv.Assets) != 1 || inv.Assets[0].ID != 2 {
		t.Fatalf("override not consulted, got %+v", inv.Assets)
	}

	// Other apps keep hitting the base fetcher.
	inv, err = f.Inventory(context.Background(), 1, 570)
	if err != nil {
		t.Fatalf("other-app fetch: %v", err)
	}
	if len(inv.Assets) != 1 || inv.Assets[0].ID != 1 {
		t.Fatalf("other-app fetch returned %+v", inv.Assets)
	}

	f.Unregister(440)
	inv, err = f.Inventory(context.Background(), 1, 440)
	if err != nil {
		t.Fatalf("fetch after unregister: %v", err)
	}
	if inv.Assets[0].ID != 1 {
		t.Fatalf("override survived unregister, got %+v", inv.Assets)
	}
}

func TestFetcherWithOverridesNilBase(t *testing.T) {
	f := NewFetcherWithOverrides(nil)
	if _, err := f.Inventory(context.Background(), 1, 440); err == nil {
		t.Fatal("no base and no override should be an error")
	}

	f.Register(440, func(ctx context.Context) (*Inventory, error) {
		return &Inventory{AppID: 440}, nil
	})
	if _, err := f.Inventory(context.Background(), 1, 440); err != nil {
		t.Fatalf("override with nil base: %v", err)
	}
}
