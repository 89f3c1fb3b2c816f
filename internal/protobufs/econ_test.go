package protobufs

import (
	"reflect"
	"testing"

	"google.golang.org/protobuf/encoding/protowire"
)

func TestItemRoundTrip(t *testing.T) {
	item := &Item{
		ID:         7968978642,
		AccountID:  846293,
		Inventory:  2147483655,
		DefIndex:   5021,
		Quantity:   1,
		Level:      5,
		Quality:    6,
		Flags:      1,
		Origin:     2,
		CustomName: "my key",
		Attribute: []*ItemAttribute{
			{DefIndex: 142, Value: 8400928},
			{DefIndex: 261, ValueBytes: []byte{0x01, 0x02}},
		},
		InteriorItem: &Item{ID: 111, DefIndex: 5000},
		Style:        1,
		OriginalID:   7968978642,
		EquippedState: []*ItemEquipped{
			{NewClass: 1, NewSlot: 2},
		},
		ContainsEquippedState:   true,
		ContainsEquippedStateV2: true,
	}

	data := item.Marshal()
	back := new(Item)
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, item) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, item)
	}
}

func TestItemSkipsUnknownFields(t *testing.T) {
	item := &Item{ID: 42, DefIndex: 7}
	data := item.Marshal()

	// Append a field number the decoder has never heard of.
	data = protowire.AppendTag(data, 63, protowire.BytesType)
	data = protowire.AppendBytes(data, []byte("future extension"))

	back := new(Item)
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back.ID != 42 || back.DefIndex != 7 {
		t.Errorf("known fields lost around unknown field: %+v", back)
	}
}

func TestGameAccountClientRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		acct GameAccountClient
	}{
		{"trial", GameAccountClient{TrialAccount: true}},
		{"full with extra slots", GameAccountClient{AdditionalBackpackSlots: 100, PhoneVerified: true}},
		{"zero value", GameAccountClient{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			back := new(GameAccountClient)
			if err := back.Unmarshal(tt.acct.Marshal()); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			if *back != tt.acct {
				t.Errorf("round trip = %+v, want %+v", *back, tt.acct)
			}
		})
	}
}

func TestItemTruncatedPayload(t *testing.T) {
	item := &Item{ID: 42, CustomName: "something long enough to cut"}
	data := item.Marshal()

	back := new(Item)
	if err := back.Unmarshal(data[:len(data)-5]); err == nil {
		t.Error("expected error for truncated payload")
	}
}
