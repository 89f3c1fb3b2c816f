package protobufs

// Session handshake and notification bodies (base_gcmessages).

// ClientHello is the keep-alive the client sends until welcomed.
type ClientHello struct {
	Version uint32
}

func (m *ClientHello) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.Version))
}

func (m *ClientHello) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Version = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// ClientWelcome establishes the GC session for a client.
type ClientWelcome struct {
	Version        uint32
	GameData       []byte
	TxnCountryCode string
}

func (m *ClientWelcome) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.Version))
	b = appendBytes(b, 2, m.GameData)
	b = appendString(b, 3, m.TxnCountryCode)
	return b
}

func (m *ClientWelcome) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Version = uint32(s.varint())
		case 2:
			m.GameData = append([]byte(nil), s.bytes()...)
		case 3:
			m.TxnCountryCode = s.string()
		default:
			s.skip()
		}
	}
	return s.err
}

// ServerWelcome establishes the GC session for a game server.
type ServerWelcome struct {
	MinAllowedVersion uint32
	ActiveVersion     uint32
}

func (m *ServerWelcome) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.MinAllowedVersion))
	b = appendVarint(b, 2, uint64(m.ActiveVersion))
	return b
}

func (m *ServerWelcome) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.MinAllowedVersion = uint32(s.varint())
		case 2:
			m.ActiveVersion = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// ClientGoodbye tears down the logical GC session.
type ClientGoodbye struct {
	Reason int64
}

func (m *ClientGoodbye) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.Reason))
}

func (m *ClientGoodbye) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Reason = int64(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// ServerGoodbye is the server-side variant of ClientGoodbye.
type ServerGoodbye struct {
	Reason int64
}

func (m *ServerGoodbye) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.Reason))
}

func (m *ServerGoodbye) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Reason = int64(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// SystemBroadcast carries a service-wide announcement.
type SystemBroadcast struct {
	Message string
}

func (m *SystemBroadcast) Marshal() []byte {
	return appendString(nil, 1, m.Message)
}

func (m *SystemBroadcast) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Message = s.string()
		default:
			s.skip()
		}
	}
	return s.err
}

// UpdateItemSchema tells the client where to fetch the current item
// schema document.
type UpdateItemSchema struct {
	ItemsGame         []byte
	ItemSchemaVersion uint32
	ItemsGameURL      string
	Signature         []byte
}

func (m *UpdateItemSchema) Marshal() []byte {
	var b []byte
	b = appendBytes(b, 1, m.ItemsGame)
	b = appendFixed32(b, 2, m.ItemSchemaVersion)
	b = appendString(b, 3, m.ItemsGameURL)
	b = appendBytes(b, 4, m.Signature)
	return b
}

func (m *UpdateItemSchema) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.ItemsGame = append([]byte(nil), s.bytes()...)
		case 2:
			m.ItemSchemaVersion = s.fixed32()
		case 3:
			m.ItemsGameURL = s.string()
		case 4:
			m.Signature = append([]byte(nil), s.bytes()...)
		default:
			s.skip()
		}
	}
	return s.err
}

// ClientDisplayNotification is a localized popup the GC asks the client
// to display. Keys reference the localization file.
type ClientDisplayNotification struct {
	TitleLocalizationKey string
	BodyLocalizationKey  string
	BodySubstringKeys    []string
	BodySubstringValues  []string
}

func (m *ClientDisplayNotification) Marshal() []byte {
	var b []byte
	b = appendString(b, 1, m.TitleLocalizationKey)
	b = appendString(b, 2, m.BodyLocalizationKey)
	for _, k := range m.BodySubstringKeys {
		b = appendString(b, 3, k)
	}
	for _, v := range m.BodySubstringValues {
		b = appendString(b, 4, v)
	}
	return b
}

func (m *ClientDisplayNotification) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.TitleLocalizationKey = s.string()
		case 2:
			m.BodyLocalizationKey = s.string()
		case 3:
			m.BodySubstringKeys = append(m.BodySubstringKeys, s.string())
		case 4:
			m.BodySubstringValues = append(m.BodySubstringValues, s.string())
		default:
			s.skip()
		}
	}
	return s.err
}

// UseItem consumes a usable item.
type UseItem struct {
	ItemID               uint64
	TargetSteamID        uint64
	GiftPotentialTargets []uint32
	DuelClassLock        uint32
	InitiatorSteamID     uint64
}

func (m *UseItem) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, m.ItemID)
	b = appendFixed64(b, 2, m.TargetSteamID)
	for _, t := range m.GiftPotentialTargets {
		b = appendVarint(b, 3, uint64(t))
	}
	b = appendVarint(b, 4, uint64(m.DuelClassLock))
	b = appendFixed64(b, 5, m.InitiatorSteamID)
	return b
}

func (m *UseItem) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.ItemID = s.varint()
		case 2:
			m.TargetSteamID = s.fixed64()
		case 3:
			m.GiftPotentialTargets = append(m.GiftPotentialTargets, uint32(s.varint()))
		case 4:
			m.DuelClassLock = uint32(s.varint())
		case 5:
			m.InitiatorSteamID = s.fixed64()
		default:
			s.skip()
		}
	}
	return s.err
}

// SortItems asks the GC to sort the backpack server-side.
type SortItems struct {
	SortType uint32
}

func (m *SortItems) Marshal() []byte {
	return appendVarint(nil, 1, uint64(m.SortType))
}

func (m *SortItems) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.SortType = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// ItemPosition pairs an item with its target backpack position.
type ItemPosition struct {
	ItemID   uint64
	Position uint32
}

func (m *ItemPosition) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, m.ItemID)
	b = appendVarint(b, 2, uint64(m.Position))
	return b
}

func (m *ItemPosition) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.ItemID = s.varint()
		case 2:
			m.Position = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// SetItemPositions moves a batch of items.
type SetItemPositions struct {
	ItemPositions []*ItemPosition
}

func (m *SetItemPositions) Marshal() []byte {
	var b []byte
	for _, p := range m.ItemPositions {
		b = appendMessage(b, 1, p)
	}
	return b
}

func (m *SetItemPositions) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			p := new(ItemPosition)
			if err := p.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.ItemPositions = append(m.ItemPositions, p)
		default:
			s.skip()
		}
	}
	return s.err
}

// AdjustItemEquippedState equips or unequips an item for a class slot.
type AdjustItemEquippedState struct {
	ItemID   uint64
	NewClass uint32
	NewSlot  uint32
}

func (m *AdjustItemEquippedState) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, m.ItemID)
	b = appendVarint(b, 2, uint64(m.NewClass))
	b = appendVarint(b, 3, uint64(m.NewSlot))
	return b
}

func (m *AdjustItemEquippedState) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.ItemID = s.varint()
		case 2:
			m.NewClass = uint32(s.varint())
		case 3:
			m.NewSlot = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}
