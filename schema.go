package tf2

import (
	"fmt"
	"strconv"
)

// SchemaItem is the slice of an item definition the engine needs for
// naming merged backpack items.
type SchemaItem struct {
	DefIndex uint32
	Name     string
	Class    string
	Slot     string
}

// Schema is a parsed item schema document, announced by the server via
// UpdateItemSchema and downloaded over HTTP.
type Schema struct {
	Version uint32
	URL     string

	items map[uint32]SchemaItem
}

// ItemName returns the definition name for a def index, or "" when the
// index is unknown.
func (s *Schema) ItemName(defIndex uint32) string {
	if s == nil {
		return ""
	}
	return s.items[defIndex].Name
}

// Item returns the definition for a def index.
func (s *Schema) Item(defIndex uint32) (SchemaItem, bool) {
	if s == nil {
		return SchemaItem{}, false
	}
	it, ok := s.items[defIndex]
	return it, ok
}

// Len returns the number of item definitions.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// ParseSchema parses an items_game document (Valve text keyvalues
// format) into a Schema.
func ParseSchema(version uint32, url string, body []byte) (*Schema, error) {
	root, err := parseKeyValues(body)
	if err != nil {
		return nil, fmt.Errorf("schema %d: %w", version, err)
	}

	game, ok := root["items_game"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema %d: missing items_game section", version)
	}
	items, ok := game["items"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("schema %d: missing items section", version)
	}

	s := &Schema{Version: version, URL: url, items: make(map[uint32]SchemaItem, len(items))}
	for key, raw := range items {
		def, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			// The "default" prototype entry is not a definition.
			continue
		}
		fields, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		it := SchemaItem{DefIndex: uint32(def)}
		it.Name, _ = fields["name"].(string)
		it.Class, _ = fields["item_class"].(string)
		it.Slot, _ = fields["item_slot"].(string)
		s.items[uint32(def)] = it
	}
	return s, nil
}

// parseKeyValues parses Valve's text keyvalues format into nested
// maps. Values are either string or map[string]any. Duplicate keys
// keep the last occurrence, which matches how the game client merges
// repeated sections.
func parseKeyValues(data []byte) (map[string]any, error) {
	p := &kvParser{data: data}
	root := make(map[string]any)
	for {
		tok, kind, err := p.next()
		if err != nil {
			return nil, err
		}
		switch kind {
		case kvEOF:
			return root, nil
		case kvString:
			val, err := p.value()
			if err != nil {
				return nil, err
			}
			root[tok] = val
		default:
			return nil, fmt.Errorf("keyvalues: unexpected %q at offset %d", tok, p.pos)
		}
	}
}

const (
	kvString = iota
	kvOpen
	kvClose
	kvEOF
)

type kvParser struct {
	data []byte
	pos  int
}

func (p *kvParser) value() (any, error) {
	tok, kind, err := p.next()
	if err != nil {
		return nil, err
	}
	switch kind {
	case kvString:
		return tok, nil
	case kvOpen:
		m := make(map[string]any)
		for {
			tok, kind, err := p.next()
			if err != nil {
				return nil, err
			}
			switch kind {
			case kvClose:
				return m, nil
			case kvString:
				val, err := p.value()
				if err != nil {
					return nil, err
				}
				m[tok] = val
			default:
				return nil, fmt.Errorf("keyvalues: unexpected end at offset %d", p.pos)
			}
		}
	default:
		return nil, fmt.Errorf("keyvalues: expected value at offset %d", p.pos)
	}
}

func (p *kvParser) next() (string, int, error) {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return "", kvEOF, nil
	}
	switch c := p.data[p.pos]; c {
	case '{':
		p.pos++
		return "{", kvOpen, nil
	case '}':
		p.pos++
		return "}", kvClose, nil
	case '"':
		return p.quoted()
	default:
		return p.bare()
	}
}

func (p *kvParser) quoted() (string, int, error) {
	p.pos++ // opening quote
	var out []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch c {
		case '"':
			p.pos++
			return string(out), kvString, nil
		case '\\':
			if p.pos+1 >= len(p.data) {
				return "", 0, fmt.Errorf("keyvalues: dangling escape at offset %d", p.pos)
			}
			p.pos++
			switch e := p.data[p.pos]; e {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			default:
				out = append(out, e)
			}
			p.pos++
		default:
			out = append(out, c)
			p.pos++
		}
	}
	return "", 0, fmt.Errorf("keyvalues: unterminated string at offset %d", p.pos)
}

func (p *kvParser) bare() (string, int, error) {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '{' || c == '}' || c == '"' {
			break
		}
		p.pos++
	}
	return string(p.data[start:p.pos]), kvString, nil
}

func (p *kvParser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == ' ' || c == '\t' || c == '\r' || c == '\n' {
			p.pos++
			continue
		}
		if c == '/' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '/' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		return
	}
}
