package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripAbsentValuesRemovesNilKeysOnly(t *testing.T) {
	in := map[string]any{
		"heading":  "Hi",
		"missing":  nil,
		"count":    float64(0),
		"enabled":  false,
		"caption":  "",
		"nested":   map[string]any{"keep": "x", "drop": nil},
		"listed":   []any{"a", nil, map[string]any{"ok": true, "bad": nil}},
		"untypedN": nil,
	}

	out := StripAbsentValues(in)

	assert.NotContains(t, out, "missing")
	assert.NotContains(t, out, "untypedN")
	// Falsy but defined values survive unchanged.
	assert.Equal(t, float64(0), out["count"])
	assert.Equal(t, false, out["enabled"])
	assert.Equal(t, "", out["caption"])

	nested := out["nested"].(map[string]any)
	assert.Equal(t, map[string]any{"keep": "x"}, nested)

	listed := out["listed"].([]any)
	require.Len(t, listed, 2)
	assert.Equal(t, "a", listed[0])
	assert.Equal(t, map[string]any{"ok": true}, listed[1])

	// Input untouched.
	assert.Contains(t, in, "missing")
}

func TestSanitizedStripsEveryBlock(t *testing.T) {
	page := &PageDocument{
		ID:    "p1",
		Title: "Home",
		Blocks: []*BlockInstance{
			{ID: "b1", TypeID: "hero", Order: 0, Properties: map[string]any{"heading": "x", "gone": nil}},
			{ID: "b2", TypeID: "quote", Order: 1, Properties: map[string]any{"text": "", "attribution": nil}},
		},
	}

	clean := page.Sanitized()

	assert.Equal(t, map[string]any{"heading": "x"}, clean.Blocks[0].Properties)
	assert.Equal(t, map[string]any{"text": ""}, clean.Blocks[1].Properties)
	// Source document keeps its in-memory state.
	assert.Contains(t, page.Blocks[0].Properties, "gone")
}

func TestCloneIsIndependent(t *testing.T) {
	page := &PageDocument{
		ID:     "p1",
		Blocks: []*BlockInstance{{ID: "b1", Order: 0, Properties: map[string]any{"k": "v"}}},
	}

	cp := page.Clone()
	cp.Blocks[0].Properties["k"] = "changed"
	cp.Blocks[0].Order = 9

	assert.Equal(t, "v", page.Blocks[0].Properties["k"])
	assert.Equal(t, 0, page.Blocks[0].Order)
}
