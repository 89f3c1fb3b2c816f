package protobufs

// Shared-object blob bodies: the backpack item (type id 1) and the
// account metadata record (type id 7).

// SO type ids carried by CMsgSOSingleObject and friends.
const (
	SOTypeItem              = 1
	SOTypeGameAccountClient = 7
)

// ItemAttribute is one attribute on an econ item.
type ItemAttribute struct {
	DefIndex   uint32
	Value      uint32
	ValueBytes []byte
}

func (m *ItemAttribute) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.DefIndex))
	b = appendVarint(b, 2, uint64(m.Value))
	b = appendBytes(b, 3, m.ValueBytes)
	return b
}

func (m *ItemAttribute) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.DefIndex = uint32(s.varint())
		case 2:
			m.Value = uint32(s.varint())
		case 3:
			m.ValueBytes = append([]byte(nil), s.bytes()...)
		default:
			s.skip()
		}
	}
	return s.err
}

// ItemEquipped records which class slot an item is equipped in.
type ItemEquipped struct {
	NewClass uint32
	NewSlot  uint32
}

func (m *ItemEquipped) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.NewClass))
	b = appendVarint(b, 2, uint64(m.NewSlot))
	return b
}

func (m *ItemEquipped) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.NewClass = uint32(s.varint())
		case 2:
			m.NewSlot = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// Item is the CsoEconItem blob delivered inside shared-object deltas.
// The Inventory field packs the backpack position in its low 16 bits and
// the "is new" flag in bit 30.
type Item struct {
	ID                      uint64
	AccountID               uint32
	Inventory               uint32
	DefIndex                uint32
	Quantity                uint32
	Level                   uint32
	Quality                 uint32
	Flags                   uint32
	Origin                  uint32
	CustomName              string
	CustomDesc              string
	Attribute               []*ItemAttribute
	InteriorItem            *Item
	InUse                   bool
	Style                   uint32
	OriginalID              uint64
	ContainsEquippedState   bool
	EquippedState           []*ItemEquipped
	ContainsEquippedStateV2 bool
}

func (m *Item) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, m.ID)
	b = appendVarint(b, 2, uint64(m.AccountID))
	b = appendVarint(b, 3, uint64(m.Inventory))
	b = appendVarint(b, 4, uint64(m.DefIndex))
	b = appendVarint(b, 5, uint64(m.Quantity))
	b = appendVarint(b, 6, uint64(m.Level))
	b = appendVarint(b, 7, uint64(m.Quality))
	b = appendVarint(b, 8, uint64(m.Flags))
	b = appendVarint(b, 9, uint64(m.Origin))
	b = appendString(b, 10, m.CustomName)
	b = appendString(b, 11, m.CustomDesc)
	for _, a := range m.Attribute {
		b = appendMessage(b, 12, a)
	}
	if m.InteriorItem != nil {
		b = appendMessage(b, 13, m.InteriorItem)
	}
	b = appendBool(b, 14, m.InUse)
	b = appendVarint(b, 15, uint64(m.Style))
	b = appendVarint(b, 16, m.OriginalID)
	b = appendBool(b, 17, m.ContainsEquippedState)
	for _, e := range m.EquippedState {
		b = appendMessage(b, 18, e)
	}
	b = appendBool(b, 19, m.ContainsEquippedStateV2)
	return b
}

func (m *Item) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.ID = s.varint()
		case 2:
			m.AccountID = uint32(s.varint())
		case 3:
			m.Inventory = uint32(s.varint())
		case 4:
			m.DefIndex = uint32(s.varint())
		case 5:
			m.Quantity = uint32(s.varint())
		case 6:
			m.Level = uint32(s.varint())
		case 7:
			m.Quality = uint32(s.varint())
		case 8:
			m.Flags = uint32(s.varint())
		case 9:
			m.Origin = uint32(s.varint())
		case 10:
			m.CustomName = s.string()
		case 11:
			m.CustomDesc = s.string()
		case 12:
			a := new(ItemAttribute)
			if err := a.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.Attribute = append(m.Attribute, a)
		case 13:
			inner := new(Item)
			if err := inner.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.InteriorItem = inner
		case 14:
			m.InUse = s.bool()
		case 15:
			m.Style = uint32(s.varint())
		case 16:
			m.OriginalID = s.varint()
		case 17:
			m.ContainsEquippedState = s.bool()
		case 18:
			e := new(ItemEquipped)
			if err := e.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.EquippedState = append(m.EquippedState, e)
		case 19:
			m.ContainsEquippedStateV2 = s.bool()
		default:
			s.skip()
		}
	}
	return s.err
}

// GameAccountClient is the account metadata blob (SO type id 7). Only
// the fields the session derives state from are decoded; the remainder
// of the schema is skipped.
type GameAccountClient struct {
	AdditionalBackpackSlots uint32
	TrialAccount            bool
	NeedToChooseMostHelpful bool
	InCoachesList           bool
	TradeBanExpiration      uint32
	DuelBanExpiration       uint32
	PreviewItemDef          uint32
	PhoneVerified           bool
	CompetitiveAccess       bool
	PhoneIdentifying        bool
}

func (m *GameAccountClient) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.AdditionalBackpackSlots))
	b = appendBool(b, 2, m.TrialAccount)
	b = appendBool(b, 4, m.NeedToChooseMostHelpful)
	b = appendBool(b, 5, m.InCoachesList)
	b = appendFixed32(b, 6, m.TradeBanExpiration)
	b = appendFixed32(b, 7, m.DuelBanExpiration)
	b = appendVarint(b, 8, uint64(m.PreviewItemDef))
	b = appendBool(b, 19, m.PhoneVerified)
	b = appendBool(b, 23, m.CompetitiveAccess)
	b = appendBool(b, 31, m.PhoneIdentifying)
	return b
}

func (m *GameAccountClient) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.AdditionalBackpackSlots = uint32(s.varint())
		case 2:
			m.TrialAccount = s.bool()
		case 4:
			m.NeedToChooseMostHelpful = s.bool()
		case 5:
			m.InCoachesList = s.bool()
		case 6:
			m.TradeBanExpiration = s.fixed32()
		case 7:
			m.DuelBanExpiration = s.fixed32()
		case 8:
			m.PreviewItemDef = uint32(s.varint())
		case 19:
			m.PhoneVerified = s.bool()
		case 23:
			m.CompetitiveAccess = s.bool()
		case 31:
			m.PhoneIdentifying = s.bool()
		default:
			s.skip()
		}
	}
	return s.err
}
