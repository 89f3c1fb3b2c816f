package protobufs

import (
	"reflect"
	"testing"
)

func TestSetItemPositionsRoundTrip(t *testing.T) {
	msg := &SetItemPositions{
		ItemPositions: []*ItemPosition{
			{ItemID: 11730664425, Position: 7},
			{ItemID: 11730664426, Position: 250},
			{ItemID: 11730664427},
		},
	}
	back := new(SetItemPositions)
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, msg) {
		t.Errorf("round trip = %+v, want %+v", back, msg)
	}
}

func TestUpdateItemSchemaRoundTrip(t *testing.T) {
	msg := &UpdateItemSchema{
		ItemSchemaVersion: 0x2F94E576,
		ItemsGameURL:      "http://media.steampowered.com/apps/440/scripts/items/items_game.bin",
	}
	back := new(UpdateItemSchema)
	if err := back.Unmarshal(msg.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, msg) {
		t.Errorf("round trip = %+v, want %+v", back, msg)
	}
}
