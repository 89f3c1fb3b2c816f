package tf2

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Gobot1234/steam-ext-tf2/internal/events"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
)

// ErrCraftTimeout is returned when no craft response arrives within
// the configured bound.
var ErrCraftTimeout = errors.New("timed out waiting for craft response")

// Craft sends a craft request for the given items and waits for the
// outcome. recipe is usually WildcardRecipe. Craft responses correlate
// to requests only by FIFO order, so calls are serialized: a second
// Craft blocks until the first completes.
//
// A nil, nil return means the GC rejected the combination (no items
// produced). On success the returned items are the freshly created
// ones, fully merged into the backpack.
func (s *GCState) Craft(ctx context.Context, items []*BackPackItem, recipe int16) ([]*BackPackItem, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("craft: no items given")
	}

	s.craftMu.Lock()
	defer s.craftMu.Unlock()

	req := protocol.CraftRequest{Recipe: recipe}
	for _, it := range items {
		req.ItemIDs = append(req.ItemIDs, it.ID)
	}

	s.mu.Lock()
	s.craftResp = nil
	s.mu.Unlock()

	if err := s.sendStruct(LanguageCraft, req.Marshal()); err != nil {
		return nil, err
	}

	resp, err := s.awaitCraftResponse(ctx)
	if err != nil {
		return nil, err
	}
	if len(resp.IDList) == 0 {
		// Incompatible items or recipe; nothing was produced.
		s.log.Debug().Int16("recipe", recipe).Msg("craft rejected")
		return nil, nil
	}

	crafted, err := s.awaitCraftedItems(ctx, resp.IDList)
	if err != nil {
		return nil, err
	}
	s.emit(ctx, events.EventCraftingComplete, crafted)
	return crafted, nil
}

// awaitCraftResponse polls for an unconsumed craft response. The
// consumption guard pairs a response with at most one waiter even when
// other listeners observe the same message.
func (s *GCState) awaitCraftResponse(ctx context.Context) (*protocol.CraftResponse, error) {
	deadline := time.NewTimer(s.cfg.CraftTimeout())
	defer deadline.Stop()
	tick := time.NewTicker(craftPoll)
	defer tick.Stop()

	for {
		s.mu.Lock()
		if resp := s.craftResp; resp != nil && !resp.BeingUsed {
			resp.BeingUsed = true
			s.craftResp = nil
			s.mu.Unlock()
			return resp, nil
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, ErrCraftTimeout
		case <-tick.C:
		}
	}
}

// awaitCraftedItems waits for every produced item id to be merged into
// the backpack. The SOCreate deltas carrying the item data arrive
// asynchronously and may trail the craft response.
func (s *GCState) awaitCraftedItems(ctx context.Context, ids []uint64) ([]*BackPackItem, error) {
	deadline := time.NewTimer(s.cfg.CraftTimeout())
	defer deadline.Stop()
	tick := time.NewTicker(craftPoll)
	defer tick.Stop()

	for {
		if crafted := s.lookupAll(ids); crafted != nil {
			return crafted, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			return nil, fmt.Errorf("craft: %d items were produced but not all surfaced in the backpack", len(ids))
		case <-tick.C:
		}
	}
}

// lookupAll resolves every id against the backpack, or nil if any is
// still missing.
func (s *GCState) lookupAll(ids []uint64) []*BackPackItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backpack == nil {
		return nil
	}
	out := make([]*BackPackItem, 0, len(ids))
	for _, id := range ids {
		it := s.backpack.ItemByID(id)
		if it == nil {
			return nil
		}
		out = append(out, it)
	}
	return out
}
