// Package protobufs defines the Game Coordinator protobuf message bodies
// and their wire codecs. The messages are hand-coded over
// google.golang.org/protobuf/encoding/protowire rather than generated:
// only a small, stable subset of the GC schema carries behaviour, and
// the explicit field lists keep the merge invariants checkable.
package protobufs

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

// Message is implemented by every GC protobuf body.
type Message interface {
	Marshal() []byte
	Unmarshal(data []byte) error
}

// scanner walks a protobuf wire stream field by field. Parse errors are
// sticky; unknown fields are skipped by the caller via skip.
type scanner struct {
	data []byte
	err  error

	num protowire.Number
	typ protowire.Type
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data}
}

// next advances to the next field tag. It returns false at end of input
// or on a malformed tag.
func (s *scanner) next() bool {
	if s.err != nil || len(s.data) == 0 {
		return false
	}
	num, typ, n := protowire.ConsumeTag(s.data)
	if n < 0 {
		s.err = fmt.Errorf("malformed field tag: %w", protowire.ParseError(n))
		return false
	}
	s.data = s.data[n:]
	s.num, s.typ = num, typ
	return true
}

func (s *scanner) varint() uint64 {
	v, n := protowire.ConsumeVarint(s.data)
	if n < 0 {
		s.err = fmt.Errorf("field %d: malformed varint: %w", s.num, protowire.ParseError(n))
		return 0
	}
	s.data = s.data[n:]
	return v
}

func (s *scanner) fixed32() uint32 {
	v, n := protowire.ConsumeFixed32(s.data)
	if n < 0 {
		s.err = fmt.Errorf("field %d: malformed fixed32: %w", s.num, protowire.ParseError(n))
		return 0
	}
	s.data = s.data[n:]
	return v
}

func (s *scanner) fixed64() uint64 {
	v, n := protowire.ConsumeFixed64(s.data)
	if n < 0 {
		s.err = fmt.Errorf("field %d: malformed fixed64: %w", s.num, protowire.ParseError(n))
		return 0
	}
	s.data = s.data[n:]
	return v
}

// bytes returns the raw contents of a length-delimited field. The slice
// aliases the input; callers that retain it copy first.
func (s *scanner) bytes() []byte {
	v, n := protowire.ConsumeBytes(s.data)
	if n < 0 {
		s.err = fmt.Errorf("field %d: malformed bytes: %w", s.num, protowire.ParseError(n))
		return nil
	}
	s.data = s.data[n:]
	return v
}

func (s *scanner) string() string {
	return string(s.bytes())
}

func (s *scanner) bool() bool {
	return s.varint() != 0
}

// skip discards the current field's value.
func (s *scanner) skip() {
	n := protowire.ConsumeFieldValue(s.num, s.typ, s.data)
	if n < 0 {
		s.err = fmt.Errorf("field %d: cannot skip: %w", s.num, protowire.ParseError(n))
		return
	}
	s.data = s.data[n:]
}

// Append helpers. Zero values are omitted, matching the optional-field
// encoding the GC itself uses.

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendBool(b []byte, num protowire.Number, v bool) []byte {
	if !v {
		return b
	}
	return appendVarint(b, num, 1)
}

func appendFixed32(b []byte, num protowire.Number, v uint32) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed32Type)
	return protowire.AppendFixed32(b, v)
}

func appendFixed64(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.Fixed64Type)
	return protowire.AppendFixed64(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	if len(v) == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	return appendBytes(b, num, []byte(v))
}

func appendMessage(b []byte, num protowire.Number, m Message) []byte {
	if m == nil {
		return b
	}
	return appendBytes(b, num, m.Marshal())
}
