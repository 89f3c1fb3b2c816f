package tf2

import "testing"

const sampleItemsGame = `
// sample items_game excerpt
"items_game"
{
	"game_info"
	{
		"first_valid_item_def"	"0"
	}
	"items"
	{
		"default"
		{
			"name"	"default"
		}
		"5021"
		{
			"name"	"Decoder Ring"
			"item_class"	"tool"
			"item_slot"	"action"
		}
		"264"
		{
			"name"	"Frying Pan"
			"item_class"	"tf_weapon_shovel"
			"item_slot"	"melee"
			"used_by_classes"
			{
				"Scout"	"1"
				"Soldier"	"1"
			}
		}
	}
}
`

func TestParseSchema(t *testing.T) {
	schema, err := ParseSchema(180, "http://example.invalid/items_game.txt", []byte(sampleItemsGame))
	if err != nil {
		t.Fatalf("ParseSchema: %v", err)
	}
	if schema.Version != 180 {
		t.Errorf("version = %d, want 180", schema.Version)
	}
	if schema.Len() != 2 {
		t.Errorf("item count = %d, want 2 (the default prototype is not a definition)", schema.Len())
	}
	if got := schema.ItemName(5021); got != "Decoder Ring" {
		t.Errorf("ItemName(5021) = %q, want %q", got, "Decoder Ring")
	}
	item, ok := schema.Item(264)
	if !ok {
		t.Fatal("Item(264) missing")
	}
	if item.Class != "tf_weapon_shovel" || item.Slot != "melee" {
		t.Errorf("item 264 = %+v", item)
	}
	if got := schema.ItemName(99999); got != "" {
		t.Errorf("ItemName(unknown) = %q, want empty", got)
	}
}

func TestParseSchemaNilReceiver(t *testing.T) {
	var schema *Schema
	if schema.ItemName(1) != "" {
		t.Error("nil schema should resolve to empty names")
	}
	if schema.Len() != 0 {
		t.Error("nil schema should have zero length")
	}
}

func TestParseKeyValuesStrings(t *testing.T) {
	root, err := parseKeyValues([]byte(`"a" "b\"c" bare { "x" "1" }`))
	if err != nil {
		t.Fatalf("parseKeyValues: %v", err)
	}
	if root["a"] != `b"c` {
		t.Errorf("a = %q", root["a"])
	}
	nested, ok := root["bare"].(map[string]any)
	if !ok {
		t.Fatalf("bare = %T, want map", root["bare"])
	}
	if nested["x"] != "1" {
		t.Errorf("bare.x = %v", nested["x"])
	}
}

func TestParseKeyValuesErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unterminated string", `"a" "b`},
		{"missing value", `"a"`},
		{"unbalanced brace", `"a" { "x" "1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseKeyValues([]byte(tt.in)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestParseSchemaMissingSections(t *testing.T) {
	if _, err := ParseSchema(1, "", []byte(`"other" {}`)); err == nil {
		t.Error("expected error for missing items_game section")
	}
	if _, err := ParseSchema(1, "", []byte(`"items_game" {}`)); err == nil {
		t.Error("expected error for missing items section")
	}
}
