// Package dragdrop translates drag gesture events into block-document
// commands. Two draggable universes (library items, placed blocks) and two
// droppable classes (the page canvas, an existing block slot) are
// disambiguated by explicit tags carried on the events; nothing is inferred
// from id formats.
package dragdrop

import "github.com/commonsforge/pagecraft-go/internal/domain/entities/content"

// ItemType tags the draggable universe of the active item.
type ItemType string

const (
	ItemLibrary ItemType = "library-item"
	ItemPlaced  ItemType = "placed-block"
)

// Item is the payload carried by a drag-start event.
type Item struct {
	Type    ItemType `json:"type"`
	TypeID  string   `json:"typeId,omitempty"`  // set for library items
	BlockID string   `json:"blockId,omitempty"` // set for placed blocks
}

// TargetClass tags the droppable class under the pointer.
type TargetClass string

const (
	TargetNone   TargetClass = "none"
	TargetCanvas TargetClass = "canvas"
	TargetSlot   TargetClass = "block-slot"
)

// Target identifies the drop candidate under the pointer.
type Target struct {
	Class   TargetClass `json:"class"`
	BlockID string      `json:"blockId,omitempty"` // set for block slots
}

// CommandKind discriminates resolved commands.
type CommandKind string

const (
	CommandNoop     CommandKind = "noop"
	CommandInsertAt CommandKind = "insert-at"
	CommandMoveTo   CommandKind = "move-to"
)

// Command is the resolved document mutation for a completed drop.
type Command struct {
	Kind      CommandKind `json:"kind"`
	TypeID    string      `json:"typeId,omitempty"`
	Index     int         `json:"index,omitempty"`
	FromIndex int         `json:"fromIndex,omitempty"`
	ToIndex   int         `json:"toIndex,omitempty"`
}

// IndicatorKind is the visual feedback shown while dragging.
type IndicatorKind string

const (
	IndicatorNone         IndicatorKind = "none"
	IndicatorInsertBefore IndicatorKind = "insert-before"
	IndicatorAppend       IndicatorKind = "append"
)

// Indicator describes where the insertion marker should render.
type Indicator struct {
	Kind    IndicatorKind `json:"kind"`
	BlockID string        `json:"blockId,omitempty"`
}

// Resolver is the drag gesture state machine. Events arrive serially from
// the host UI; exactly one terminal event (end or cancel) follows each start.
type Resolver struct {
	dragging bool
	active   Item
	hover    Target
}

// NewResolver returns a resolver in the idle state.
func NewResolver() *Resolver {
	return &Resolver{hover: Target{Class: TargetNone}}
}

// Dragging reports whether a drag is in progress.
func (r *Resolver) Dragging() bool { return r.dragging }

// Active returns the item being dragged; meaningful only while Dragging.
func (r *Resolver) Active() Item { return r.active }

// Hover returns the current drop candidate; meaningful only while Dragging.
func (r *Resolver) Hover() Target { return r.hover }

// DragStart enters the dragging state with no hover target.
func (r *Resolver) DragStart(item Item) {
	r.dragging = true
	r.active = item
	r.hover = Target{Class: TargetNone}
}

// DragOver updates the hover target. Fired repeatedly while the pointer
// moves; ignored when idle.
func (r *Resolver) DragOver(target Target) {
	if !r.dragging {
		return
	}
	r.hover = target
}

// DragCancel discards the gesture without emitting a command.
func (r *Resolver) DragCancel() {
	r.reset()
}

// DragEnd resolves the drop against the current block list and always
// returns to idle, whether or not a command was produced.
func (r *Resolver) DragEnd(final Target, list []*content.BlockInstance) Command {
	if !r.dragging {
		return Command{Kind: CommandNoop}
	}
	active := r.active
	r.reset()

	switch active.Type {
	case ItemLibrary:
		return resolveLibraryDrop(active, final, list)
	case ItemPlaced:
		return resolvePlacedDrop(active, final, list)
	}
	return Command{Kind: CommandNoop}
}

// Indicator implements the visual feedback contract: an insert marker before
// the hovered slot or an append marker at the list end, library drags only.
func (r *Resolver) Indicator() Indicator {
	if !r.dragging || r.active.Type != ItemLibrary {
		return Indicator{Kind: IndicatorNone}
	}
	switch r.hover.Class {
	case TargetSlot:
		return Indicator{Kind: IndicatorInsertBefore, BlockID: r.hover.BlockID}
	case TargetCanvas:
		return Indicator{Kind: IndicatorAppend}
	}
	return Indicator{Kind: IndicatorNone}
}

func resolveLibraryDrop(active Item, final Target, list []*content.BlockInstance) Command {
	switch final.Class {
	case TargetCanvas:
		return Command{Kind: CommandInsertAt, TypeID: active.TypeID, Index: len(list)}
	case TargetSlot:
		idx := indexOf(list, final.BlockID)
		if idx < 0 {
			return Command{Kind: CommandNoop}
		}
		return Command{Kind: CommandInsertAt, TypeID: active.TypeID, Index: idx}
	}
	return Command{Kind: CommandNoop}
}

func resolvePlacedDrop(active Item, final Target, list []*content.BlockInstance) Command {
	// Reordering never accepts the canvas, the void, or the block itself.
	if final.Class != TargetSlot || final.BlockID == active.BlockID {
		return Command{Kind: CommandNoop}
	}
	from := indexOf(list, active.BlockID)
	to := indexOf(list, final.BlockID)
	if from < 0 || to < 0 {
		return Command{Kind: CommandNoop}
	}
	return Command{Kind: CommandMoveTo, FromIndex: from, ToIndex: to}
}

func indexOf(list []*content.BlockInstance, blockID string) int {
	for i, b := range list {
		if b.ID == blockID {
			return i
		}
	}
	return -1
}

func (r *Resolver) reset() {
	r.dragging = false
	r.active = Item{}
	r.hover = Target{Class: TargetNone}
}
