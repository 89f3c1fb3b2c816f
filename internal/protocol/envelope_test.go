package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestProtoMask(t *testing.T) {
	tests := []struct {
		name    string
		msgType uint32
		isProto bool
		cleared uint32
	}{
		{"struct message", 1002, false, 1002},
		{"proto message", 4004 | ProtoMask, true, 4004},
		{"zero", 0, false, 0},
		{"mask only", ProtoMask, true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsProto(tt.msgType); got != tt.isProto {
				t.Errorf("IsProto(%#x) = %t, want %t", tt.msgType, got, tt.isProto)
			}
			if got := ClearProtoMask(tt.msgType); got != tt.cleared {
				t.Errorf("ClearProtoMask(%#x) = %d, want %d", tt.msgType, got, tt.cleared)
			}
		})
	}
}

func TestSetProtoMaskIdempotent(t *testing.T) {
	once := SetProtoMask(4006)
	twice := SetProtoMask(once)
	if once != twice {
		t.Errorf("SetProtoMask not idempotent: %#x vs %#x", once, twice)
	}
	if ClearProtoMask(once) != 4006 {
		t.Errorf("round trip lost the message type: %#x", once)
	}
}

func TestFrameSplitStruct(t *testing.T) {
	body := []byte{0xDE, 0xAD, 0xBE, 0xEF}
	framed := FrameStruct(body)

	if len(framed) != StructHeaderSize+len(body) {
		t.Fatalf("framed length = %d, want %d", len(framed), StructHeaderSize+len(body))
	}

	hdr, got, err := SplitStruct(framed)
	if err != nil {
		t.Fatalf("SplitStruct: %v", err)
	}
	if hdr.Version != 1 {
		t.Errorf("header version = %d, want 1", hdr.Version)
	}
	if hdr.TargetJobID != JobIDNone || hdr.SourceJobID != JobIDNone {
		t.Errorf("job ids = %#x/%#x, want %#x", hdr.TargetJobID, hdr.SourceJobID, JobIDNone)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("body = %x, want %x", got, body)
	}
}

func TestSplitStructTruncated(t *testing.T) {
	if _, _, err := SplitStruct(make([]byte, StructHeaderSize-1)); err == nil {
		t.Error("expected error for truncated struct header")
	}
}

func TestFrameSplitProto(t *testing.T) {
	header := []byte{0x01, 0x02}
	body := []byte{0xAA, 0xBB, 0xCC}
	framed := FrameProto(4004, header, body)

	hdr, got, err := SplitProto(framed)
	if err != nil {
		t.Fatalf("SplitProto: %v", err)
	}
	if !IsProto(hdr.MsgType) {
		t.Error("framed header is missing the proto bit")
	}
	if ClearProtoMask(hdr.MsgType) != 4004 {
		t.Errorf("msg type = %d, want 4004", ClearProtoMask(hdr.MsgType))
	}
	if !bytes.Equal(hdr.Header, header) {
		t.Errorf("extension = %x, want %x", hdr.Header, header)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("body = %x, want %x", got, body)
	}
}

func TestSplitProtoEmptyExtension(t *testing.T) {
	framed := FrameProto(21, nil, []byte{0x10})
	hdr, body, err := SplitProto(framed)
	if err != nil {
		t.Fatalf("SplitProto: %v", err)
	}
	if len(hdr.Header) != 0 {
		t.Errorf("extension = %x, want empty", hdr.Header)
	}
	if !bytes.Equal(body, []byte{0x10}) {
		t.Errorf("body = %x", body)
	}
}

func TestSplitProtoBadLengths(t *testing.T) {
	negative := make([]byte, ProtoHeaderFixedSize)
	binary.LittleEndian.PutUint32(negative[0:4], SetProtoMask(24))
	binary.LittleEndian.PutUint32(negative[4:8], 0xFFFFFFFF) // -1

	overrun := make([]byte, ProtoHeaderFixedSize+2)
	binary.LittleEndian.PutUint32(overrun[0:4], SetProtoMask(24))
	binary.LittleEndian.PutUint32(overrun[4:8], 100)

	tests := []struct {
		name string
		data []byte
	}{
		{"truncated fixed header", make([]byte, ProtoHeaderFixedSize-1)},
		{"negative extension length", negative},
		{"extension overruns payload", overrun},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := SplitProto(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
