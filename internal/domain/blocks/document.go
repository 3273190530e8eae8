// Package blocks implements the in-memory document model for a page: pure
// operations over the ordered list of block instances. Every operation
// returns a new slice whose order values are exactly {0..n-1}; out-of-range
// input is clamped or ignored, never an error.
package blocks

import (
	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
	"github.com/oklog/ulid/v2"
)

// Direction selects the neighbor for Swap.
type Direction string

const (
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

// NewInstance creates a block instance for typeID with the schema's default
// property bag. An unknown type still yields a placeable instance with an
// empty bag so the editor can degrade gracefully.
func NewInstance(reg *schema.Registry, typeID string) *content.BlockInstance {
	props := map[string]any{}
	if s, ok := reg.Lookup(typeID); ok {
		props = s.DefaultProperties()
	}
	return &content.BlockInstance{
		ID:         typeID + "-" + ulid.Make().String(),
		TypeID:     typeID,
		Properties: props,
	}
}

// Append creates a new instance of typeID and places it at the end.
func Append(reg *schema.Registry, list []*content.BlockInstance, typeID string) []*content.BlockInstance {
	return InsertAt(reg, list, typeID, len(list))
}

// InsertAt creates a new instance of typeID and splices it in at index,
// clamped to [0, len(list)], then reindexes.
func InsertAt(reg *schema.Registry, list []*content.BlockInstance, typeID string, index int) []*content.BlockInstance {
	index = clamp(index, 0, len(list))
	block := NewInstance(reg, typeID)

	out := make([]*content.BlockInstance, 0, len(list)+1)
	out = append(out, list[:index]...)
	out = append(out, block)
	out = append(out, list[index:]...)
	return reindex(out)
}

// UpdateProperties replaces the matching block's property bag wholesale.
// The caller merges field changes into the full bag first.
func UpdateProperties(list []*content.BlockInstance, blockID string, props map[string]any) []*content.BlockInstance {
	idx := IndexOf(list, blockID)
	if idx < 0 {
		return list
	}
	out := make([]*content.BlockInstance, len(list))
	copy(out, list)
	updated := *list[idx]
	updated.Properties = props
	out[idx] = &updated
	return out
}

// DeleteAt removes the block at index and reindexes the remainder. Out of
// range indices leave the list unchanged.
func DeleteAt(list []*content.BlockInstance, index int) []*content.BlockInstance {
	if index < 0 || index >= len(list) {
		return list
	}
	out := make([]*content.BlockInstance, 0, len(list)-1)
	out = append(out, list[:index]...)
	out = append(out, list[index+1:]...)
	return reindex(out)
}

// Swap exchanges the block at index with its neighbor in the given
// direction. A missing neighbor makes this a no-op.
func Swap(list []*content.BlockInstance, index int, direction Direction) []*content.BlockInstance {
	if index < 0 || index >= len(list) {
		return list
	}
	neighbor := index - 1
	if direction == DirectionDown {
		neighbor = index + 1
	}
	if neighbor < 0 || neighbor >= len(list) {
		return list
	}
	out := make([]*content.BlockInstance, len(list))
	copy(out, list)
	out[index], out[neighbor] = out[neighbor], out[index]
	return reindex(out)
}

// MoveTo removes the block at fromIndex and reinserts it before the
// position toIndex held in the original list. The insertion point is
// recomputed against the post-removal list, so moving [A,B,C,D]'s A onto
// C (from 0 to 2) yields [B,A,C,D].
func MoveTo(list []*content.BlockInstance, fromIndex, toIndex int) []*content.BlockInstance {
	if fromIndex < 0 || fromIndex >= len(list) || fromIndex == toIndex {
		return list
	}
	moved := list[fromIndex]
	rest := make([]*content.BlockInstance, 0, len(list)-1)
	rest = append(rest, list[:fromIndex]...)
	rest = append(rest, list[fromIndex+1:]...)

	if fromIndex < toIndex {
		toIndex--
	}
	toIndex = clamp(toIndex, 0, len(rest))
	out := make([]*content.BlockInstance, 0, len(list))
	out = append(out, rest[:toIndex]...)
	out = append(out, moved)
	out = append(out, rest[toIndex:]...)
	return reindex(out)
}

// IndexOf returns the positional index of blockID, or -1.
func IndexOf(list []*content.BlockInstance, blockID string) int {
	for i, b := range list {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

// reindex assigns each block's order to its positional index. Blocks whose
// order already matches are reused; shifted blocks are copied so callers
// holding the input slice never observe mutated instances.
func reindex(list []*content.BlockInstance) []*content.BlockInstance {
	out := make([]*content.BlockInstance, len(list))
	for i, b := range list {
		if b.Order == i {
			out[i] = b
			continue
		}
		shifted := *b
		shifted.Order = i
		out[i] = &shifted
	}
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
