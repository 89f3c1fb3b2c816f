package protobufs

// Shared-object cache framing bodies (gcsdk_gcmessages). Every message
// is scoped to an owner (account id64) and a monotonic cache version.

// SOSingleObject delivers one shared object: a create, update or
// destroy delta depending on the carrying message type.
type SOSingleObject struct {
	Owner      uint64
	TypeID     int32
	ObjectData []byte
	Version    uint64
	ServiceID  uint32
}

func (m *SOSingleObject) Marshal() []byte {
	var b []byte
	b = appendFixed64(b, 1, m.Owner)
	b = appendVarint(b, 2, uint64(uint32(m.TypeID)))
	b = appendBytes(b, 3, m.ObjectData)
	b = appendFixed64(b, 4, m.Version)
	b = appendVarint(b, 6, uint64(m.ServiceID))
	return b
}

func (m *SOSingleObject) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		case 2:
			m.TypeID = int32(s.varint())
		case 3:
			m.ObjectData = append([]byte(nil), s.bytes()...)
		case 4:
			m.Version = s.fixed64()
		case 6:
			m.ServiceID = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// SOMultipleObjectsSingleObject is one object within a batched update.
type SOMultipleObjectsSingleObject struct {
	TypeID     int32
	ObjectData []byte
}

func (m *SOMultipleObjectsSingleObject) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.TypeID)))
	b = appendBytes(b, 2, m.ObjectData)
	return b
}

func (m *SOMultipleObjectsSingleObject) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.TypeID = int32(s.varint())
		case 2:
			m.ObjectData = append([]byte(nil), s.bytes()...)
		default:
			s.skip()
		}
	}
	return s.err
}

// SOMultipleObjects batches several object updates in one delta.
type SOMultipleObjects struct {
	Owner     uint64
	Objects   []*SOMultipleObjectsSingleObject
	Version   uint64
	ServiceID uint32
}

func (m *SOMultipleObjects) Marshal() []byte {
	var b []byte
	b = appendFixed64(b, 1, m.Owner)
	for _, o := range m.Objects {
		b = appendMessage(b, 2, o)
	}
	b = appendFixed64(b, 3, m.Version)
	b = appendVarint(b, 7, uint64(m.ServiceID))
	return b
}

func (m *SOMultipleObjects) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		case 2:
			o := new(SOMultipleObjectsSingleObject)
			if err := o.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.Objects = append(m.Objects, o)
		case 3:
			m.Version = s.fixed64()
		case 7:
			m.ServiceID = uint32(s.varint())
		default:
			s.skip()
		}
	}
	return s.err
}

// SOCacheSubscribedType groups the blobs of one SO type within a full
// cache snapshot.
type SOCacheSubscribedType struct {
	TypeID     int32
	ObjectData [][]byte
}

func (m *SOCacheSubscribedType) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(uint32(m.TypeID)))
	for _, o := range m.ObjectData {
		b = appendBytes(b, 2, o)
	}
	return b
}

func (m *SOCacheSubscribedType) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.TypeID = int32(s.varint())
		case 2:
			m.ObjectData = append(m.ObjectData, append([]byte(nil), s.bytes()...))
		default:
			s.skip()
		}
	}
	return s.err
}

// SOCacheSubscribed is the full cache snapshot sent when a subscription
// is established or refreshed.
type SOCacheSubscribed struct {
	Owner       uint64
	Objects     []*SOCacheSubscribedType
	Version     uint64
	ServiceID   uint32
	ServiceList []uint32
	SyncVersion uint64
}

func (m *SOCacheSubscribed) Marshal() []byte {
	var b []byte
	b = appendFixed64(b, 1, m.Owner)
	for _, o := range m.Objects {
		b = appendMessage(b, 2, o)
	}
	b = appendFixed64(b, 3, m.Version)
	b = appendVarint(b, 5, uint64(m.ServiceID))
	for _, id := range m.ServiceList {
		b = appendVarint(b, 6, uint64(id))
	}
	b = appendFixed64(b, 7, m.SyncVersion)
	return b
}

func (m *SOCacheSubscribed) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		case 2:
			o := new(SOCacheSubscribedType)
			if err := o.Unmarshal(s.bytes()); err != nil {
				return err
			}
			m.Objects = append(m.Objects, o)
		case 3:
			m.Version = s.fixed64()
		case 5:
			m.ServiceID = uint32(s.varint())
		case 6:
			m.ServiceList = append(m.ServiceList, uint32(s.varint()))
		case 7:
			m.SyncVersion = s.fixed64()
		default:
			s.skip()
		}
	}
	return s.err
}

// SOCacheSubscriptionCheck asks the client to verify its cache version.
// The payload observed from the live service is frequently malformed;
// the session treats decode failure of this one type as a signal to run
// the parameterless refresh handler anyway.
type SOCacheSubscriptionCheck struct {
	Owner       uint64
	Version     uint64
	ServiceID   uint32
	ServiceList []uint32
	SyncVersion uint64
}

func (m *SOCacheSubscriptionCheck) Marshal() []byte {
	var b []byte
	b = appendFixed64(b, 1, m.Owner)
	b = appendFixed64(b, 2, m.Version)
	b = appendVarint(b, 4, uint64(m.ServiceID))
	for _, id := range m.ServiceList {
		b = appendVarint(b, 5, uint64(id))
	}
	b = appendFixed64(b, 6, m.SyncVersion)
	return b
}

func (m *SOCacheSubscriptionCheck) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		case 2:
			m.Version = s.fixed64()
		case 4:
			m.ServiceID = uint32(s.varint())
		case 5:
			m.ServiceList = append(m.ServiceList, uint32(s.varint()))
		case 6:
			m.SyncVersion = s.fixed64()
		default:
			s.skip()
		}
	}
	return s.err
}

// SOCacheSubscriptionRefresh requests a fresh cache snapshot for owner.
type SOCacheSubscriptionRefresh struct {
	Owner uint64
}

func (m *SOCacheSubscriptionRefresh) Marshal() []byte {
	return appendFixed64(nil, 1, m.Owner)
}

func (m *SOCacheSubscriptionRefresh) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		default:
			s.skip()
		}
	}
	return s.err
}

// SOCacheUnsubscribed notifies that the cache subscription lapsed.
type SOCacheUnsubscribed struct {
	Owner uint64
}

func (m *SOCacheUnsubscribed) Marshal() []byte {
	return appendFixed64(nil, 1, m.Owner)
}

func (m *SOCacheUnsubscribed) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.Owner = s.fixed64()
		default:
			s.skip()
		}
	}
	return s.err
}

// GCClient is the outer transport envelope the host client exchanges
// with the Steam network: the raw GC payload plus its addressing.
type GCClient struct {
	MsgType uint32
	AppID   uint32
	Payload []byte
}

func (m *GCClient) Marshal() []byte {
	var b []byte
	b = appendVarint(b, 1, uint64(m.MsgType))
	b = appendVarint(b, 2, uint64(m.AppID))
	b = appendBytes(b, 3, m.Payload)
	return b
}

func (m *GCClient) Unmarshal(data []byte) error {
	s := newScanner(data)
	for s.next() {
		switch s.num {
		case 1:
			m.MsgType = uint32(s.varint())
		case 2:
			m.AppID = uint32(s.varint())
		case 3:
			m.Payload = append([]byte(nil), s.bytes()...)
		default:
			s.skip()
		}
	}
	return s.err
}
