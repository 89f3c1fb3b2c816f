package protocol

// Struct message bodies. These are the handful of GC messages that are
// not protobuf encoded; each has a fixed little-endian layout.

// CraftRequest asks the GC to consume a set of items under a recipe.
// Layout: int16 recipe, int16 item count, then item count uint64 ids.
type CraftRequest struct {
	Recipe  int16
	ItemIDs []uint64
}

// Marshal encodes the request body.
func (m *CraftRequest) Marshal() []byte {
	b := NewBuilder()
	b.WriteInt16(m.Recipe).WriteInt16(int16(len(m.ItemIDs)))
	for _, id := range m.ItemIDs {
		b.WriteUint64(id)
	}
	return b.Build()
}

// Unmarshal decodes a request body; used by capture tooling.
func (m *CraftRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.Recipe = r.Int16()
	count := r.Int16()
	if err := r.Err(); err != nil {
		return err
	}
	if count < 0 {
		count = 0
	}
	m.ItemIDs = make([]uint64, 0, count)
	for i := int16(0); i < count; i++ {
		m.ItemIDs = append(m.ItemIDs, r.Uint64())
	}
	if err := r.Err(); err != nil {
		m.ItemIDs = nil
		return err
	}
	return nil
}

// CraftResponse is the GC's answer to a CraftRequest. Layout: int16
// recipe id, uint32 reserved (always observed as 0, read and discarded),
// int16 id count, then id count uint64 ids. An empty IDList signals the
// craft failed.
//
// BeingUsed is not on the wire; it defaults to false after parse and is
// set by the first crafting waiter that consumes the response, so a
// response observed by multiple listeners resolves at most one of them.
type CraftResponse struct {
	RecipeID  int16
	IDList    []uint64
	BeingUsed bool
}

// Unmarshal decodes the response body.
func (m *CraftResponse) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.RecipeID = r.Int16()
	_ = r.Uint32() // reserved
	count := r.Int16()
	if err := r.Err(); err != nil {
		return err
	}
	if count < 0 {
		count = 0
	}
	m.IDList = make([]uint64, 0, count)
	for i := int16(0); i < count; i++ {
		m.IDList = append(m.IDList, r.Uint64())
	}
	if err := r.Err(); err != nil {
		m.IDList = nil
		return err
	}
	m.BeingUsed = false
	return nil
}

// Marshal encodes the response body; used by tests and capture tooling.
func (m *CraftResponse) Marshal() []byte {
	b := NewBuilder()
	b.WriteInt16(m.RecipeID).WriteUint32(0).WriteInt16(int16(len(m.IDList)))
	for _, id := range m.IDList {
		b.WriteUint64(id)
	}
	return b.Build()
}

// SetItemStyleRequest changes an item's style.
// Layout: uint64 item id, uint32 style.
type SetItemStyleRequest struct {
	ItemID uint64
	Style  uint32
}

func (m *SetItemStyleRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.ItemID).WriteUint32(m.Style).Build()
}

func (m *SetItemStyleRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.ItemID = r.Uint64()
	m.Style = r.Uint32()
	return r.Err()
}

// DeleteItemRequest permanently deletes an item. Layout: uint64 item id.
type DeleteItemRequest struct {
	ItemID uint64
}

func (m *DeleteItemRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.ItemID).Build()
}

func (m *DeleteItemRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.ItemID = r.Uint64()
	return r.Err()
}

// WrapItemRequest gift-wraps an item.
// Layout: uint64 wrapping paper id, uint64 item id.
type WrapItemRequest struct {
	WrappingPaperID uint64
	ItemID          uint64
}

func (m *WrapItemRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.WrappingPaperID).WriteUint64(m.ItemID).Build()
}

func (m *WrapItemRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.WrappingPaperID = r.Uint64()
	m.ItemID = r.Uint64()
	return r.Err()
}

// UnwrapItemRequest unwraps a gift. Layout: uint64 gift id.
type UnwrapItemRequest struct {
	GiftID uint64
}

func (m *UnwrapItemRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.GiftID).Build()
}

func (m *UnwrapItemRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.GiftID = r.Uint64()
	return r.Err()
}

// DeliverGiftRequest sends a wrapped gift to another user.
// Layout: uint64 recipient id64, uint64 gift id.
type DeliverGiftRequest struct {
	UserID64 uint64
	GiftID   uint64
}

func (m *DeliverGiftRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.UserID64).WriteUint64(m.GiftID).Build()
}

func (m *DeliverGiftRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.UserID64 = r.Uint64()
	m.GiftID = r.Uint64()
	return r.Err()
}

// OpenCrateRequest opens a crate with a key.
// Layout: uint64 key id, uint64 crate id.
type OpenCrateRequest struct {
	KeyID   uint64
	CrateID uint64
}

func (m *OpenCrateRequest) Marshal() []byte {
	return NewBuilder().WriteUint64(m.KeyID).WriteUint64(m.CrateID).Build()
}

func (m *OpenCrateRequest) Unmarshal(data []byte) error {
	r := NewReader(data)
	m.KeyID = r.Uint64()
	m.CrateID = r.Uint64()
	return r.Err()
}
