package tf2

import (
	"context"
	"testing"
	"time"

	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
)

type craftResult struct {
	items []*BackPackItem
	err   error
}

func craftResponseEnvelope(resp *protocol.CraftResponse) *protobufs.GCClient {
	return structEnvelope(LanguageCraftResponse, resp.Marshal())
}

func TestCraftNoItems(t *testing.T) {
	state, _ := newTestState(nil, nil)
	if _, err := state.Craft(context.Background(), nil, WildcardRecipe); err == nil {
		t.Fatal("crafting nothing should fail")
	}
}

func TestCraftSuccessWithTrailingDeltas(t *testing.T) {
	fetcher := &fakeFetcher{assets: []Asset{{ID: 1, DefIndex: 5000}, {ID: 2, DefIndex: 5000}}}
	state, ft := readyState(t, fetcher, nil)
	bp := state.Backpack()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	results := make(chan craftResult, 1)
	go func() {
		items, err := state.Craft(ctx, []*BackPackItem{bp.ItemByID(1), bp.ItemByID(2)}, WildcardRecipe)
		results <- craftResult{items, err}
	}()

	waitFor(t, "craft request on transport", func() bool {
		_, ok := ft.lastOfType(uint32(LanguageCraft))
		return ok
	})
	sent, _ := ft.lastOfType(uint32(LanguageCraft))
	_, body, err := protocol.SplitStruct(sent.body)
	if err != nil {
		t.Fatalf("craft request framing: %v", err)
	}
	var req protocol.CraftRequest
	if err := req.Unmarshal(body); err != nil {
		t.Fatalf("craft request decode: %v", err)
	}
	if req.Recipe != WildcardRecipe {
		t.Errorf("request recipe = %d, want %d", req.Recipe, WildcardRecipe)
	}
	if len(req.ItemIDs) != 2 || req.ItemIDs[0] != 1 || req.ItemIDs[1] != 2 {
		t.Errorf("request item ids = %v, want [1 2]", req.ItemIDs)
	}

	// The response names the produced ids before any delta carrying the
	// items arrives; Craft must wait for the backpack to catch up.
	state.Handle(ctx, craftResponseEnvelope(&protocol.CraftResponse{RecipeID: 3, IDList: []uint64{30, 31}}))

	fetcher.setAssets([]Asset{
		{ID: 1, DefIndex: 5000}, {ID: 2, DefIndex: 5000},
		{ID: 30, DefIndex: 5001}, {ID: 31, DefIndex: 5001},
	})
	for _, id := range []uint64{30, 31} {
		crafted := protobufs.Item{ID: id, DefIndex: 5001, Inventory: 0x40000000}
		obj := &protobufs.SOSingleObject{Owner: testOwner, TypeID: protobufs.SOTypeItem, ObjectData: crafted.Marshal()}
		state.Handle(ctx, protoEnvelope(LanguageSOCreate, obj))
	}

	select {
	case res := <-results:
		if res.err != nil {
			t.Fatalf("craft failed: %v", res.err)
		}
		if len(res.items) != 2 || res.items[0].ID != 30 || res.items[1].ID != 31 {
			t.Fatalf("crafted items = %+v, want ids 30 and 31", res.items)
		}
		if !res.items[0].IsNew() {
			t.Error("crafted item should carry the unplaced flag")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("craft never completed")
	}
}

func TestCraftRejectedReturnsNothing(t *testing.T) {
	fetcher := &fakeFetcher{assets: []Asset{{ID: 1}, {ID: 2}}}
	state, ft := readyState(t, fetcher, nil)
	bp := state.Backpack()
	input := []*BackPackItem{bp.ItemByID(1), bp.ItemByID(2)}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	run := func() craftResult {
		results := make(chan craftResult, 1)
		go func() {
			items, err := state.Craft(ctx, input, WildcardRecipe)
			results <- craftResult{items, err}
		}()
		waitFor(t, "craft request on transport", func() bool {
			_, ok := ft.lastOfType(uint32(LanguageCraft))
			return ok
		})
		state.Handle(ctx, craftResponseEnvelope(&protocol.CraftResponse{RecipeID: -1}))
		select {
		case res := <-results:
			return res
		case <-time.After(5 * time.Second):
			t.Fatal("craft never completed")
			return craftResult{}
		}
	}

	res := run()
	if res.err != nil || res.items != nil {
		t.Fatalf("rejected craft = (%v, %v), want (nil, nil)", res.items, res.err)
	}

	// A rejection must not leave a stale response behind that a later
	// craft could mistake for its own.
	ft.mu.Lock()
	ft.sent = nil
	ft.mu.Unlock()
	res = run()
	if res.err != nil || res.items != nil {
		t.Fatalf("second craft = (%v, %v), want (nil, nil)", res.items, res.err)
	}
}

func TestCraftContextCancelled(t *testing.T) {
	fetcher := &fakeFetcher{assets: []Asset{{ID: 1}}}
	state, _ := readyState(t, fetcher, nil)
	bp := state.Backpack()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	_, err := state.Craft(ctx, []*BackPackItem{bp.ItemByID(1)}, WildcardRecipe)
	if err != context.DeadlineExceeded {
		t.Fatalf("err = %v, want context.DeadlineExceeded", err)
	}
}
