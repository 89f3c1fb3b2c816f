package tf2

import (
	"context"
	"time"

	"github.com/Gobot1234/steam-ext-tf2/internal/events"
	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
)

// ItemUpdate is the payload of item_update events: the live item after
// the delta plus a value snapshot of its state before the overlay.
type ItemUpdate struct {
	Old  BackPackItem
	Item *BackPackItem
}

// refreshBackoff is the pause before the single REST retry.
const refreshBackoff = 500 * time.Millisecond

// processSnapshot merges a full cache snapshot. Per-item events are
// not emitted for snapshots; one backpack_update covers the load.
func (s *GCState) processSnapshot(ctx context.Context, msg *protobufs.SOCacheSubscribed) {
	var items []protobufs.Item
	for _, group := range msg.Objects {
		switch group.TypeID {
		case protobufs.SOTypeItem:
			for _, blob := range group.ObjectData {
				var it protobufs.Item
				if err := it.Unmarshal(blob); err != nil {
					s.decodeError(LanguageSOCacheSubscribed, blob, err)
					continue
				}
				items = append(items, it)
			}
		case protobufs.SOTypeGameAccountClient:
			for _, blob := range group.ObjectData {
				var acct protobufs.GameAccountClient
				if err := acct.Unmarshal(blob); err != nil {
					s.decodeError(LanguageSOCacheSubscribed, blob, err)
					continue
				}
				s.applyAccountMetadata(ctx, &acct)
			}
		default:
			s.log.Debug().Int32("type_id", group.TypeID).Msg("unhandled shared object type in snapshot")
		}
	}

	s.mergeItems(ctx, items, true)
	s.emit(ctx, events.EventBackpackUpdate, s.backpackRef())
}

// mergeAndEmit merges delta items and emits the given per-item event
// for each one that landed.
func (s *GCState) mergeAndEmit(ctx context.Context, items []protobufs.Item, fromSnapshot bool, event events.Type) {
	merged := s.mergeItems(ctx, items, fromSnapshot)
	for _, m := range merged {
		switch event {
		case events.EventItemReceive:
			s.emit(ctx, events.EventItemReceive, m.item)
		case events.EventItemUpdate:
			s.emit(ctx, events.EventItemUpdate, ItemUpdate{Old: m.old, Item: m.item})
		}
	}
}

type mergedItem struct {
	old  BackPackItem
	item *BackPackItem
}

// mergeItems reconciles incoming item blobs with the backpack mirror.
// The REST inventory view lags item creation, so items missing from
// the mirror trigger a refresh and, failing that, a coalesced game
// session restart. Items still missing after recovery are skipped.
func (s *GCState) mergeItems(ctx context.Context, items []protobufs.Item, fromSnapshot bool) []mergedItem {
	if len(items) == 0 {
		return nil
	}
	if err := s.WaitConnected(ctx); err != nil {
		s.log.Debug().Err(err).Msg("merge abandoned before session established")
		return nil
	}

	if s.backpackRef() == nil {
		s.rebuildBackpack(ctx)
	}

	if !s.allPresent(items) {
		s.rebuildBackpack(ctx)
	}
	// Session-restart recovery is for delta items the REST view has not
	// caught up with. A snapshot merges what exists and skips the rest:
	// restarting from inside the snapshot path would stall the very
	// readiness signal the restart waits on.
	if !s.allPresent(items) && !fromSnapshot {
		if err := s.restartSession(ctx); err != nil {
			s.log.Warn().Err(err).Msg("session restart recovery failed")
		} else {
			s.rebuildBackpack(ctx)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	bp := s.backpack
	if bp == nil {
		return nil
	}

	var merged []mergedItem
	for _, it := range items {
		existing := bp.ItemByID(it.ID)
		if existing == nil {
			s.log.Debug().Uint64("item_id", it.ID).Msg("item never surfaced in inventory, skipping")
			continue
		}
		old := *existing
		existing.applyDelta(it, fromSnapshot)
		merged = append(merged, mergedItem{old: old, item: existing})
	}
	return merged
}

// allPresent reports whether every incoming item id already exists in
// the backpack mirror.
func (s *GCState) allPresent(items []protobufs.Item) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backpack == nil {
		return false
	}
	for _, it := range items {
		if s.backpack.ItemByID(it.ID) == nil {
			return false
		}
	}
	return true
}

// rebuildBackpack fetches the REST inventory (retrying once on a
// transient failure) and folds new assets into the mirror. Existing
// item instances are kept so callers holding references see updates.
func (s *GCState) rebuildBackpack(ctx context.Context) {
	if s.fetcher == nil {
		s.mu.Lock()
		if s.backpack == nil {
			s.backpack = newBackPack(s)
		}
		s.mu.Unlock()
		return
	}

	inv, err := s.fetcher.Inventory(ctx, s.accountID, s.appID)
	if err != nil {
		s.log.Warn().Err(err).Msg("inventory fetch failed, retrying once")
		select {
		case <-ctx.Done():
			return
		case <-time.After(refreshBackoff):
		}
		inv, err = s.fetcher.Inventory(ctx, s.accountID, s.appID)
		if err != nil {
			s.log.Error().Err(err).Msg("inventory fetch failed after retry")
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.backpack == nil {
		s.backpack = newBackPack(s)
	}
	for _, a := range inv.Assets {
		if s.backpack.ItemByID(a.ID) != nil {
			continue
		}
		s.backpack.Items = append(s.backpack.Items, s.itemFromAsset(a))
	}
}

func (s *GCState) itemFromAsset(a Asset) *BackPackItem {
	it := protobufs.Item{
		ID:         a.ID,
		OriginalID: a.OriginalID,
		DefIndex:   a.DefIndex,
		Level:      a.Level,
		Quality:    a.Quality,
		Quantity:   a.Quantity,
		Inventory:  a.Inventory,
		Flags:      a.Flags,
		Origin:     a.Origin,
	}
	b := newBackPackItem(s, it)
	if a.Name != "" {
		b.Name = a.Name
	}
	return b
}

// restartSession is the compensating action for items the REST layer
// has not surfaced yet: drop the GC session, cycle the advertised
// game, and wait for the session to re-establish. Readiness is not
// waited on here, it is produced by the snapshot merge that follows
// the new welcome. Concurrent callers share one restart.
func (s *GCState) restartSession(ctx context.Context) error {
	_, err, _ := s.restart.Do("session-restart", func() (interface{}, error) {
		s.log.Warn().Msg("cycling game session to recover cache consistency")

		if err := s.SendGoodbye(); err != nil {
			s.log.Warn().Err(err).Msg("goodbye send failed during restart")
		}
		s.clearSession(ctx, int64(GoodbyeNoSession))

		if err := s.transport.ChangeGames(ctx, nil); err != nil {
			return nil, err
		}
		if err := s.transport.ChangeGames(ctx, []uint32{s.appID}); err != nil {
			return nil, err
		}

		waitCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		return nil, s.WaitConnected(waitCtx)
	})
	return err
}

// destroyItem handles an SODestroy delta: overlay the final field
// values for consumers inspecting the removed item, drop it from the
// mirror, and announce the removal. Unknown ids are ignored.
func (s *GCState) destroyItem(ctx context.Context, it protobufs.Item) {
	s.mu.Lock()
	bp := s.backpack
	if bp == nil {
		s.mu.Unlock()
		return
	}
	existing := bp.ItemByID(it.ID)
	if existing == nil {
		s.mu.Unlock()
		s.log.Debug().Uint64("item_id", it.ID).Msg("destroy for unknown item, ignoring")
		return
	}
	existing.applyDelta(it, false)
	bp.remove(it.ID)
	s.mu.Unlock()

	s.emit(ctx, events.EventItemRemove, existing)
}
