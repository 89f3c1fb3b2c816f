package tf2

import (
	"fmt"

	"github.com/Gobot1234/steam-ext-tf2/internal/protobufs"
	"github.com/Gobot1234/steam-ext-tf2/internal/protocol"
)

// positionOf derives an item's backpack slot from the packed inventory
// token. The low 16 bits carry the slot; bit 30 marks an unplaced
// (new-drop) item whose slot must read as zero regardless of the low
// bits.
func positionOf(inventory uint32) uint32 {
	if inventory>>30&1 == 1 {
		return 0
	}
	return inventory & 0xFFFF
}

// BackPackItem is a single economy item in the local cache. It carries
// the raw delta fields plus the derived Position, and item operations
// that send requests back through the owning session.
type BackPackItem struct {
	protobufs.Item

	// Position is derived from Inventory, not stored by the GC.
	Position uint32

	// Name and descriptive fields resolved from the schema, when the
	// schema is available at merge time.
	Name string

	state *GCState
}

func newBackPackItem(state *GCState, it protobufs.Item) *BackPackItem {
	b := &BackPackItem{Item: it, state: state}
	b.Position = positionOf(it.Inventory)
	if state != nil {
		b.Name = state.schemaItemName(it.DefIndex)
	}
	return b
}

// applyDelta overlays every field from an incoming blob onto the item.
// Snapshot blobs honour the new-item bit when deriving the position;
// single-item deltas carry a settled inventory token and use its low
// bits directly.
func (b *BackPackItem) applyDelta(it protobufs.Item, fromSnapshot bool) {
	b.Item = it
	if fromSnapshot {
		b.Position = positionOf(it.Inventory)
	} else {
		b.Position = it.Inventory & 0xFFFF
	}
	if b.state != nil {
		if name := b.state.schemaItemName(it.DefIndex); name != "" {
			b.Name = name
		}
	}
}

// IsNew reports whether the item is an unplaced drop.
func (b *BackPackItem) IsNew() bool {
	return b.Item.Inventory>>30&1 == 1
}

// IsTradable reports whether the cannot-trade flag is clear.
func (b *BackPackItem) IsTradable() bool {
	return ItemFlags(b.Item.Flags)&FlagCannotTrade == 0
}

// IsCraftable reports whether the cannot-craft flag is clear.
func (b *BackPackItem) IsCraftable() bool {
	return ItemFlags(b.Item.Flags)&FlagCannotCraft == 0
}

// Use consumes the item (noisemakers, spell books and similar
// consumables).
func (b *BackPackItem) Use() error {
	return b.state.sendProto(LanguageUseItemRequest, &protobufs.UseItem{ItemID: b.ID})
}

// Delete permanently discards the item.
func (b *BackPackItem) Delete() error {
	req := protocol.DeleteItemRequest{ItemID: b.ID}
	return b.state.sendStruct(LanguageDelete, req.Marshal())
}

// Wrap wraps the item using the given wrapping paper, making it
// deliverable as a gift.
func (b *BackPackItem) Wrap(wrappingPaperID uint64) error {
	req := protocol.WrapItemRequest{WrappingPaperID: wrappingPaperID, ItemID: b.ID}
	return b.state.sendStruct(LanguageGiftWrapItem, req.Marshal())
}

// Unwrap opens the item, which must be a wrapped gift.
func (b *BackPackItem) Unwrap() error {
	req := protocol.UnwrapItemRequest{GiftID: b.ID}
	return b.state.sendStruct(LanguageUnwrapGiftRequest, req.Marshal())
}

// SendTo delivers the item, which must be a wrapped gift, to the given
// 64-bit user id.
func (b *BackPackItem) SendTo(userID64 uint64) error {
	req := protocol.DeliverGiftRequest{UserID64: userID64, GiftID: b.ID}
	return b.state.sendStruct(LanguageDeliverGift, req.Marshal())
}

// Open unlocks the item, which must be a crate, using the given key's
// item id.
func (b *BackPackItem) Open(keyID uint64) error {
	req := protocol.OpenCrateRequest{KeyID: keyID, CrateID: b.ID}
	return b.state.sendStruct(LanguageUnlockCrate, req.Marshal())
}

// Equip equips the item on a class in a slot.
func (b *BackPackItem) Equip(mercenary Mercenary, slot ItemSlot) error {
	msg := &protobufs.AdjustItemEquippedState{
		ItemID:   b.ID,
		NewClass: uint32(mercenary),
		NewSlot:  uint32(slot),
	}
	return b.state.sendProto(LanguageAdjustItemEquippedState, msg)
}

// SetPosition moves the item to a backpack slot.
func (b *BackPackItem) SetPosition(position uint32) error {
	bp := b.state.backpackRef()
	if bp == nil {
		return fmt.Errorf("set position: no backpack loaded")
	}
	return bp.SetPositions([]ItemAndPosition{{Item: b, Position: position}})
}

// SetStyle selects a style for the item.
func (b *BackPackItem) SetStyle(style uint32) error {
	req := protocol.SetItemStyleRequest{ItemID: b.ID, Style: style}
	return b.state.sendStruct(LanguageSetItemStyle, req.Marshal())
}

// ItemAndPosition pairs an item with its target slot for a bulk move.
type ItemAndPosition struct {
	Item     *BackPackItem
	Position uint32
}

// BackPack is the local mirror of the account's item cache, kept in
// sync by the shared-object reconciler.
type BackPack struct {
	Items []*BackPackItem

	state *GCState
}

func newBackPack(state *GCState) *BackPack {
	return &BackPack{state: state}
}

// ItemByID returns the item with the given asset id, or nil.
func (bp *BackPack) ItemByID(id uint64) *BackPackItem {
	for _, it := range bp.Items {
		if it.ID == id {
			return it
		}
	}
	return nil
}

// ItemByOriginalID returns the item whose original (pre-rename) asset
// id matches, falling back to the current id.
func (bp *BackPack) ItemByOriginalID(id uint64) *BackPackItem {
	for _, it := range bp.Items {
		if it.OriginalID == id || it.ID == id {
			return it
		}
	}
	return nil
}

// remove drops the item with the given id and returns it, or nil if
// the id is unknown.
func (bp *BackPack) remove(id uint64) *BackPackItem {
	for i, it := range bp.Items {
		if it.ID == id {
			bp.Items = append(bp.Items[:i], bp.Items[i+1:]...)
			return it
		}
	}
	return nil
}

// SetPositions moves multiple items in one request.
func (bp *BackPack) SetPositions(moves []ItemAndPosition) error {
	msg := &protobufs.SetItemPositions{}
	for _, m := range moves {
		msg.ItemPositions = append(msg.ItemPositions, &protobufs.ItemPosition{
			ItemID:   m.Item.ID,
			Position: m.Position,
		})
	}
	return bp.state.sendProto(LanguageSetItemPositions, msg)
}

// Sort asks the GC to sort the backpack server side.
func (bp *BackPack) Sort(sortType BackpackSortType) error {
	return bp.state.sendProto(LanguageSortItems, &protobufs.SortItems{SortType: uint32(sortType)})
}
