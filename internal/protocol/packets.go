// Package protocol implements the wire framing for Game Coordinator
// messages: the two GC header shapes (struct-framed and protobuf-framed)
// carried inside the host client's CMsgGCClient envelope, and the
// hand-rolled little-endian struct message bodies that are not protobuf
// encoded. All multi-byte fields use little-endian byte order.
package protocol

// ProtoMask is the bit set on the envelope msgtype field when the GC
// payload is protobuf-framed. It must be cleared before Language lookup
// and preserved exactly on the wire.
const ProtoMask uint32 = 0x80000000

// IsProto reports whether the proto bit is set on a raw msgtype.
func IsProto(msgType uint32) bool {
	return msgType&ProtoMask != 0
}

// ClearProtoMask strips the proto bit, yielding the logical message code.
func ClearProtoMask(msgType uint32) uint32 {
	return msgType &^ ProtoMask
}

// SetProtoMask sets the proto bit on a logical message code.
func SetProtoMask(msgType uint32) uint32 {
	return msgType | ProtoMask
}

// StructHeaderSize is the fixed size of the struct-framed GC header:
// header version (2) + target job id (8) + source job id (8).
const StructHeaderSize = 2 + 8 + 8

// structHeaderVersion is the only struct header version the GC emits.
const structHeaderVersion uint16 = 1

// ProtoHeaderFixedSize is the fixed core of the protobuf-framed GC
// header: msgtype (4) + header length (4). A variable extension block of
// headerLength bytes follows; total skip = fixed core + extension.
const ProtoHeaderFixedSize = 4 + 4

// JobIDNone marks an unset job id in a struct header.
const JobIDNone uint64 = 0xFFFFFFFFFFFFFFFF

// MaxPayloadSize is the maximum accepted GC payload size.
const MaxPayloadSize = 1 << 20
