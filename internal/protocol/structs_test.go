package protocol

import (
	"encoding/binary"
	"reflect"
	"testing"
)

func TestCraftRequestLayout(t *testing.T) {
	req := CraftRequest{Recipe: -2, ItemIDs: []uint64{11, 22}}
	data := req.Marshal()

	want := 2 + 2 + 2*8
	if len(data) != want {
		t.Fatalf("encoded length = %d, want %d", len(data), want)
	}
	if got := int16(binary.LittleEndian.Uint16(data[0:2])); got != -2 {
		t.Errorf("recipe = %d, want -2", got)
	}
	if got := binary.LittleEndian.Uint16(data[2:4]); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}
	if got := binary.LittleEndian.Uint64(data[4:12]); got != 11 {
		t.Errorf("first id = %d, want 11", got)
	}

	var back CraftRequest
	if err := back.Unmarshal(data); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !reflect.DeepEqual(back, req) {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}

func TestCraftResponseDecode(t *testing.T) {
	b := NewBuilder()
	b.WriteInt16(5).WriteUint32(0xCAFEBABE).WriteInt16(2).WriteUint64(100).WriteUint64(200)

	var resp CraftResponse
	if err := resp.Unmarshal(b.Build()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.RecipeID != 5 {
		t.Errorf("recipe = %d, want 5", resp.RecipeID)
	}
	if !reflect.DeepEqual(resp.IDList, []uint64{100, 200}) {
		t.Errorf("ids = %v, want [100 200]", resp.IDList)
	}
	// The reserved word is discarded and the consumption guard starts
	// clear.
	if resp.BeingUsed {
		t.Error("BeingUsed should be false after decode")
	}
}

func TestCraftResponseEmptyIDList(t *testing.T) {
	b := NewBuilder()
	b.WriteInt16(-2).WriteUint32(0).WriteInt16(0)

	var resp CraftResponse
	if err := resp.Unmarshal(b.Build()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(resp.IDList) != 0 {
		t.Errorf("ids = %v, want empty", resp.IDList)
	}
}

func TestCraftResponseTruncated(t *testing.T) {
	b := NewBuilder()
	b.WriteInt16(1).WriteUint32(0).WriteInt16(3).WriteUint64(100) // claims 3, carries 1

	var resp CraftResponse
	if err := resp.Unmarshal(b.Build()); err == nil {
		t.Error("expected error for truncated id list")
	}
}

func TestWrapItemRequestLayout(t *testing.T) {
	req := WrapItemRequest{WrappingPaperID: 555, ItemID: 777}
	data := req.Marshal()

	if len(data) != 16 {
		t.Fatalf("encoded length = %d, want 16", len(data))
	}
	if got := binary.LittleEndian.Uint64(data[0:8]); got != 555 {
		t.Errorf("wrapping paper id = %d, want 555", got)
	}
	if got := binary.LittleEndian.Uint64(data[8:16]); got != 777 {
		t.Errorf("item id = %d, want 777", got)
	}
}

func TestOpenCrateRequestRoundTrip(t *testing.T) {
	req := OpenCrateRequest{KeyID: 1, CrateID: 2}
	var back OpenCrateRequest
	if err := back.Unmarshal(req.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != req {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}

func TestSetItemStyleRequestRoundTrip(t *testing.T) {
	req := SetItemStyleRequest{ItemID: 42, Style: 3}
	var back SetItemStyleRequest
	if err := back.Unmarshal(req.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != req {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}

func TestDeleteItemRequestRoundTrip(t *testing.T) {
	req := DeleteItemRequest{ItemID: 7788990011}
	var back DeleteItemRequest
	if err := back.Unmarshal(req.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != req {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}

func TestUnwrapItemRequestRoundTrip(t *testing.T) {
	req := UnwrapItemRequest{GiftID: 555}
	var back UnwrapItemRequest
	if err := back.Unmarshal(req.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != req {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}

func TestDeliverGiftRequestRoundTrip(t *testing.T) {
	req := DeliverGiftRequest{UserID64: 76561198000000001, GiftID: 9001}
	var back DeliverGiftRequest
	if err := back.Unmarshal(req.Marshal()); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != req {
		t.Errorf("round trip = %+v, want %+v", back, req)
	}
}
