package protocol

import (
	"encoding/binary"
	"fmt"
)

// StructHeader is the fixed-size header preceding a struct-framed GC
// message body.
type StructHeader struct {
	Version     uint16
	TargetJobID uint64
	SourceJobID uint64
}

// ProtoHeader is the header preceding a protobuf-framed GC message body.
// MsgType carries the proto bit; Header holds the serialized extension
// block (length-prefixed on the wire).
type ProtoHeader struct {
	MsgType uint32
	Header  []byte
}

// SplitStruct splits a struct-framed GC payload into its header and body.
func SplitStruct(data []byte) (StructHeader, []byte, error) {
	var hdr StructHeader
	if len(data) < StructHeaderSize {
		return hdr, nil, fmt.Errorf("struct header truncated: %d bytes (want %d)", len(data), StructHeaderSize)
	}
	hdr.Version = binary.LittleEndian.Uint16(data[0:2])
	hdr.TargetJobID = binary.LittleEndian.Uint64(data[2:10])
	hdr.SourceJobID = binary.LittleEndian.Uint64(data[10:18])
	return hdr, data[StructHeaderSize:], nil
}

// SplitProto splits a protobuf-framed GC payload into its header and
// body. The header skip is computed before the body is sliced: skip =
// fixed core + declared extension length.
func SplitProto(data []byte) (ProtoHeader, []byte, error) {
	var hdr ProtoHeader
	if len(data) < ProtoHeaderFixedSize {
		return hdr, nil, fmt.Errorf("proto header truncated: %d bytes (want %d)", len(data), ProtoHeaderFixedSize)
	}
	hdr.MsgType = binary.LittleEndian.Uint32(data[0:4])
	headerLength := int(int32(binary.LittleEndian.Uint32(data[4:8])))
	if headerLength < 0 {
		return hdr, nil, fmt.Errorf("proto header declares negative extension length %d", headerLength)
	}
	skip := ProtoHeaderFixedSize + headerLength
	if len(data) < skip {
		return hdr, nil, fmt.Errorf("proto header extension truncated: %d bytes (want %d)", len(data), skip)
	}
	hdr.Header = data[ProtoHeaderFixedSize:skip]
	return hdr, data[skip:], nil
}

// FrameStruct prepends the fixed struct header to a message body.
func FrameStruct(body []byte) []byte {
	out := make([]byte, StructHeaderSize+len(body))
	binary.LittleEndian.PutUint16(out[0:2], structHeaderVersion)
	binary.LittleEndian.PutUint64(out[2:10], JobIDNone)
	binary.LittleEndian.PutUint64(out[10:18], JobIDNone)
	copy(out[StructHeaderSize:], body)
	return out
}

// FrameProto prepends the protobuf header (with the proto bit set on
// msgType) to a message body. header is the serialized extension block
// and may be empty.
func FrameProto(msgType uint32, header, body []byte) []byte {
	out := make([]byte, ProtoHeaderFixedSize+len(header)+len(body))
	binary.LittleEndian.PutUint32(out[0:4], SetProtoMask(msgType))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(header)))
	copy(out[ProtoHeaderFixedSize:], header)
	copy(out[ProtoHeaderFixedSize+len(header):], body)
	return out
}
