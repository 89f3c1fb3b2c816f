package protobufs

import (
	"reflect"
	"testing"
)

func TestSOSingleObjectRoundTrip(t *testing.T) {
	obj := &SOSingleObject{
		Owner:      76561198248053954,
		TypeID:     SOTypeItem,
		ObjectData: []byte{0x08, 0x2A},
		Version:    180,
		ServiceID:  26,
	}
	back := new(SOSingleObject)
	if err := back.Unmarshal(obj.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, obj) {
		t.Errorf("round trip = %+v, want %+v", back, obj)
	}
}

func TestSOCacheSubscribedRoundTrip(t *testing.T) {
	msg := &SOCacheSubscribed{
		Owner: 76561198248053954,
		Objects: []*SOCacheSubscribedType{
			{TypeID: SOTypeItem, ObjectData: [][]byte{{0x08, 0x01}, {0x08, 0x02}}},
			{TypeID: SOTypeGameAccountClient, ObjectData: [][]byte{{0x10, 0x01}}},
		},
		Version:     99,
		ServiceID:   26,
		ServiceList: []uint32{26, 27},
		SyncVersion: 3,
	}
	back := new(SOCacheSubscribed)
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, msg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, msg)
	}
}

func TestSOMultipleObjectsRoundTrip(t *testing.T) {
	msg := &SOMultipleObjects{
		Owner: 123,
		Objects: []*SOMultipleObjectsSingleObject{
			{TypeID: SOTypeItem, ObjectData: []byte{0x08, 0x05}},
			{TypeID: SOTypeGameAccountClient, ObjectData: []byte{0x10, 0x00}},
		},
		Version:   5,
		ServiceID: 26,
	}
	back := new(SOMultipleObjects)
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, msg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, msg)
	}
}

func TestGCClientEnvelope(t *testing.T) {
	env := &GCClient{MsgType: 0x80000FA4, AppID: 440, Payload: []byte{1, 2, 3}}
	back := new(GCClient)
	if err := back.Unmarshal(env.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, env) {
		t.Errorf("round trip = %+v, want %+v", back, env)
	}
}
