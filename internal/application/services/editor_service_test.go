package services

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/blocks"
	"github.com/commonsforge/pagecraft-go/internal/domain/dragdrop"
	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/performance"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *logging.ChanneledLogger {
	t.Helper()
	cfg := logging.DefaultLoggerConfig()
	cfg.OutputToFile = false
	cfg.OutputToConsole = false
	cfg.DefaultLevel = slog.Level(12) // above error, silences test output
	logger, err := logging.NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func newTestEditor(t *testing.T, pages *memory.PageRepository) *EditorService {
	t.Helper()
	logger := newTestLogger(t)
	return NewEditorService(
		pages,
		schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger,
		performance.NewTracker(),
		time.Hour,
		10,
	)
}

func seedPage(t *testing.T, pages *memory.PageRepository, typeIDs ...string) *content.PageDocument {
	t.Helper()
	reg := schema.NewRegistry()
	var list []*content.BlockInstance
	for _, typeID := range typeIDs {
		list = blocks.Append(reg, list, typeID)
	}
	page := &content.PageDocument{
		ID:      "page-1",
		Title:   "Welcome",
		Slug:    "welcome",
		Blocks:  list,
		Created: time.Now().UTC(),
	}
	require.NoError(t, pages.Store(context.Background(), page))
	return page
}

// failingPageRepo wraps the in-memory repository and fails selected calls.
type failingPageRepo struct {
	*memory.PageRepository
	failFind   bool
	failUpdate bool
}

func (r *failingPageRepo) FindByID(ctx context.Context, id string) (*content.PageDocument, error) {
	if r.failFind {
		return nil, errors.New("store offline")
	}
	return r.PageRepository.FindByID(ctx, id)
}

func (r *failingPageRepo) Update(ctx context.Context, page *content.PageDocument) error {
	if r.failUpdate {
		return errors.New("store offline")
	}
	return r.PageRepository.Update(ctx, page)
}

func TestOpenMissingPageCreatesNoSession(t *testing.T) {
	pages := memory.NewPageRepository()
	editor := newTestEditor(t, pages)

	_, err := editor.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrPageNotFound)
	assert.Equal(t, 0, editor.SessionCount())
}

func TestOpenLoadFailureCreatesNoSession(t *testing.T) {
	pages := memory.NewPageRepository()
	seedPage(t, pages, "hero")
	logger := newTestLogger(t)
	editor := NewEditorService(
		&failingPageRepo{PageRepository: pages, failFind: true},
		schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger,
		performance.NewTracker(),
		time.Hour,
		10,
	)

	_, err := editor.Open(context.Background(), "page-1")
	assert.Error(t, err)
	assert.Equal(t, 0, editor.SessionCount())
}

func TestSessionLimit(t *testing.T) {
	pages := memory.NewPageRepository()
	seedPage(t, pages, "hero")
	logger := newTestLogger(t)
	editor := NewEditorService(
		pages, schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger, performance.NewTracker(), time.Hour, 1,
	)

	_, err := editor.Open(context.Background(), "page-1")
	require.NoError(t, err)
	_, err = editor.Open(context.Background(), "page-1")
	assert.ErrorIs(t, err, ErrSessionLimitReached)
}

func TestLibraryDragOntoOccupiedSlot(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "textSection", "quote")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	firstID := view.Page.Blocks[0].ID

	_, err = editor.DragStart(view.ID, dragdrop.Item{Type: dragdrop.ItemLibrary, TypeID: "hero"})
	require.NoError(t, err)

	hover, err := editor.DragOver(view.ID, dragdrop.Target{Class: dragdrop.TargetSlot, BlockID: firstID})
	require.NoError(t, err)
	assert.Equal(t, dragdrop.IndicatorInsertBefore, hover.Indicator.Kind)
	assert.Equal(t, firstID, hover.Indicator.BlockID)

	final, err := editor.DragEnd(view.ID, dragdrop.Target{Class: dragdrop.TargetSlot, BlockID: firstID})
	require.NoError(t, err)

	require.Len(t, final.Page.Blocks, 3)
	assert.Equal(t, "hero", final.Page.Blocks[0].TypeID)
	assert.Equal(t, 0, final.Page.Blocks[0].Order)
	assert.Equal(t, firstID, final.Page.Blocks[1].ID)
	assert.True(t, final.Dirty)
	assert.False(t, final.Dragging)
}

func TestPlacedBlockReorderDrag(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero", "textSection", "quote", "spacer")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	first := view.Page.Blocks[0]
	third := view.Page.Blocks[2]

	_, err = editor.DragStart(view.ID, dragdrop.Item{Type: dragdrop.ItemPlaced, BlockID: first.ID})
	require.NoError(t, err)
	final, err := editor.DragEnd(view.ID, dragdrop.Target{Class: dragdrop.TargetSlot, BlockID: third.ID})
	require.NoError(t, err)

	got := make([]string, len(final.Page.Blocks))
	for i, b := range final.Page.Blocks {
		got[i] = b.TypeID
		assert.Equal(t, i, b.Order)
	}
	assert.Equal(t, []string{"textSection", "hero", "quote", "spacer"}, got)
}

func TestCanvasDropWhileReorderingIsNoop(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero", "quote")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	_, err = editor.DragStart(view.ID, dragdrop.Item{Type: dragdrop.ItemPlaced, BlockID: view.Page.Blocks[0].ID})
	require.NoError(t, err)
	final, err := editor.DragEnd(view.ID, dragdrop.Target{Class: dragdrop.TargetCanvas})
	require.NoError(t, err)

	assert.Equal(t, "hero", final.Page.Blocks[0].TypeID)
	assert.False(t, final.Dirty)
	assert.False(t, final.Dragging)
}

func TestDeleteBlockRequiresConfirmation(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero", "quote")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	_, err = editor.DeleteBlock(view.ID, 0, false)
	assert.ErrorIs(t, err, ErrConfirmationRequired)

	state, err := editor.Get(view.ID)
	require.NoError(t, err)
	assert.Len(t, state.Page.Blocks, 2)
	assert.False(t, state.Dirty)

	confirmed, err := editor.DeleteBlock(view.ID, 0, true)
	require.NoError(t, err)
	require.Len(t, confirmed.Page.Blocks, 1)
	assert.Equal(t, "quote", confirmed.Page.Blocks[0].TypeID)
	assert.Equal(t, 0, confirmed.Page.Blocks[0].Order)
	assert.True(t, confirmed.Dirty)
}

func TestChangeBlockFieldCoercesAndSaves(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "spacer")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	blockID := view.Page.Blocks[0].ID

	// "80" arrives as a string from the number input; it stores as float64.
	state, err := editor.ChangeBlockField(view.ID, blockID, "height", "80")
	require.NoError(t, err)
	assert.Equal(t, float64(80), state.Page.Blocks[0].Properties["height"])

	// Undeclared fields are dropped silently.
	state, err = editor.ChangeBlockField(view.ID, blockID, "bogus", "x")
	require.NoError(t, err)
	_, present := state.Page.Blocks[0].Properties["bogus"]
	assert.False(t, present)

	saved, err := editor.Save(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, saved.Dirty)

	stored, err := pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Equal(t, float64(80), stored.Blocks[0].Properties["height"])
	require.NotNil(t, stored.Changed)
}

func TestChangeFieldOnUnknownBlockTypeIsDropped(t *testing.T) {
	pages := memory.NewPageRepository()
	page := &content.PageDocument{
		ID:    "page-1",
		Title: "Legacy",
		Slug:  "legacy",
		Blocks: []*content.BlockInstance{
			{ID: "mystery-1", TypeID: "retiredWidget", Order: 0, Properties: map[string]any{"old": "value"}},
		},
		Created: time.Now().UTC(),
	}
	require.NoError(t, pages.Store(context.Background(), page))
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	state, err := editor.ChangeBlockField(view.ID, "mystery-1", "old", "new")
	require.NoError(t, err)
	assert.Equal(t, "value", state.Page.Blocks[0].Properties["old"])
	assert.False(t, state.Dirty)

	// Unknown types render no form fields.
	fields, err := editor.RenderForm(view.ID, "mystery-1")
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestUnknownTypeBlockStaysDeletableAndReorderable(t *testing.T) {
	pages := memory.NewPageRepository()
	page := &content.PageDocument{
		ID:   "page-1",
		Slug: "mixed",
		Blocks: []*content.BlockInstance{
			{ID: "b0", TypeID: "hero", Order: 0, Properties: map[string]any{}},
			{ID: "b1", TypeID: "retiredWidget", Order: 1, Properties: map[string]any{"legacy": true}},
			{ID: "b2", TypeID: "quote", Order: 2, Properties: map[string]any{}},
		},
		Created: time.Now().UTC(),
	}
	require.NoError(t, pages.Store(context.Background(), page))
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	// The unknown block reorders like any other.
	state, err := editor.MoveBlock(view.ID, 1, blocks.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, "retiredWidget", state.Page.Blocks[0].TypeID)
	assert.Equal(t, map[string]any{"legacy": true}, state.Page.Blocks[0].Properties)

	// And deletes cleanly, leaving the valid neighbors reindexed.
	state, err = editor.DeleteBlock(view.ID, 0, true)
	require.NoError(t, err)
	require.Len(t, state.Page.Blocks, 2)
	assert.Equal(t, "hero", state.Page.Blocks[0].TypeID)
	assert.Equal(t, 0, state.Page.Blocks[0].Order)
	assert.Equal(t, "quote", state.Page.Blocks[1].TypeID)
	assert.Equal(t, 1, state.Page.Blocks[1].Order)
}

func TestSaveStripsAbsentValues(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	blockID := view.Page.Blocks[0].ID

	_, err = editor.UpdateBlockProperties(view.ID, blockID, map[string]any{
		"heading":  "Hi",
		"subtitle": nil,
		"count":    float64(0),
	})
	require.NoError(t, err)

	_, err = editor.Save(context.Background(), view.ID)
	require.NoError(t, err)

	stored, err := pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	props := stored.Blocks[0].Properties
	_, hasSubtitle := props["subtitle"]
	assert.False(t, hasSubtitle, "nil-valued keys must not be persisted")
	assert.Equal(t, float64(0), props["count"], "defined falsy values survive")
	assert.Equal(t, "Hi", props["heading"])
}

func TestSaveFailurePreservesEdits(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	repo := &failingPageRepo{PageRepository: pages, failUpdate: true}
	logger := newTestLogger(t)
	editor := NewEditorService(
		repo, schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger, performance.NewTracker(), time.Hour, 10,
	)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	state, err := editor.AppendBlock(view.ID, "quote")
	require.NoError(t, err)
	require.Len(t, state.Page.Blocks, 2)

	_, err = editor.Save(context.Background(), view.ID)
	assert.Error(t, err)

	after, err := editor.Get(view.ID)
	require.NoError(t, err)
	assert.Len(t, after.Page.Blocks, 2, "working copy keeps the edit")
	assert.True(t, after.Dirty)
	assert.False(t, after.Saving)

	// The retry succeeds once the store recovers.
	repo.failUpdate = false
	saved, err := editor.Save(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, saved.Dirty)
}

func TestTogglePublishRequiresExplicitSave(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	state, err := editor.TogglePublish(view.ID)
	require.NoError(t, err)
	assert.True(t, state.Page.IsPublished)
	assert.True(t, state.Dirty)

	stored, err := pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsPublished, "publish state stays local until save")

	saved, err := editor.Save(context.Background(), view.ID)
	require.NoError(t, err)
	assert.False(t, saved.Dirty)

	stored, err = pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsPublished)
}

func TestMoveBlockSwapsNeighbors(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero", "quote")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	state, err := editor.MoveBlock(view.ID, 1, blocks.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, "quote", state.Page.Blocks[0].TypeID)
	assert.True(t, state.Dirty)

	// Swapping past the edge changes nothing.
	before := state.Page.Blocks[0].ID
	state, err = editor.MoveBlock(view.ID, 0, blocks.DirectionUp)
	require.NoError(t, err)
	assert.Equal(t, before, state.Page.Blocks[0].ID)
}

func TestCompositeListOperations(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "testimonials")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	blockID := view.Page.Blocks[0].ID

	first := map[string]any{"quote": "Great place", "author": "Sam"}
	second := map[string]any{"quote": "Lovely people", "author": "Alex"}
	third := map[string]any{"quote": "Come along", "author": "Jo"}

	for _, item := range []any{first, second, third} {
		_, err = editor.ListFieldAdd(view.ID, blockID, "items", item)
		require.NoError(t, err)
	}

	state, err := editor.Get(view.ID)
	require.NoError(t, err)
	items := state.Page.Blocks[0].Properties["items"].([]any)
	require.Len(t, items, 3)

	// Move the first testimonial onto the third: post-removal insertion.
	state, err = editor.ListFieldMove(view.ID, blockID, "items", 0, 2)
	require.NoError(t, err)
	items = state.Page.Blocks[0].Properties["items"].([]any)
	assert.Equal(t, second, items[0])
	assert.Equal(t, first, items[1])
	assert.Equal(t, third, items[2])

	state, err = editor.ListFieldRemove(view.ID, blockID, "items", 1)
	require.NoError(t, err)
	items = state.Page.Blocks[0].Properties["items"].([]any)
	require.Len(t, items, 2)
	assert.Equal(t, second, items[0])
	assert.Equal(t, third, items[1])

	// Operations on non-composite properties are dropped.
	state, err = editor.ListFieldAdd(view.ID, blockID, "heading", "x")
	require.NoError(t, err)
	assert.IsType(t, "", state.Page.Blocks[0].Properties["heading"])
}

// blockingPageRepo wraps the in-memory repository and parks the first
// Update until released, so tests can observe an in-flight save.
type blockingPageRepo struct {
	*memory.PageRepository
	entered chan struct{}
	release chan struct{}
}

func (r *blockingPageRepo) Update(ctx context.Context, page *content.PageDocument) error {
	r.entered <- struct{}{}
	<-r.release
	return r.PageRepository.Update(ctx, page)
}

func TestSaveLeavesSessionEditableWhileInFlight(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	repo := &blockingPageRepo{
		PageRepository: pages,
		entered:        make(chan struct{}),
		release:        make(chan struct{}),
	}
	logger := newTestLogger(t)
	editor := NewEditorService(
		repo, schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger, performance.NewTracker(), time.Hour, 10,
	)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	_, err = editor.AppendBlock(view.ID, "quote")
	require.NoError(t, err)

	saveErr := make(chan error, 1)
	go func() {
		_, err := editor.Save(context.Background(), view.ID)
		saveErr <- err
	}()
	<-repo.entered // store write is now in flight

	// A second save is rejected, not queued behind the first.
	_, err = editor.Save(context.Background(), view.ID)
	assert.ErrorIs(t, err, ErrSaveInProgress)

	// The document stays editable while the write is in flight.
	state, err := editor.AppendBlock(view.ID, "spacer")
	require.NoError(t, err)
	assert.True(t, state.Saving)
	require.Len(t, state.Page.Blocks, 3)

	close(repo.release)
	require.NoError(t, <-saveErr)

	// The edit made during the save survives and keeps the session dirty;
	// the store holds the snapshot taken when the save started.
	after, err := editor.Get(view.ID)
	require.NoError(t, err)
	assert.False(t, after.Saving)
	assert.True(t, after.Dirty)
	require.Len(t, after.Page.Blocks, 3)

	stored, err := pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Blocks, 2)
}

func TestSweepEvictsIdleSessions(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	logger := newTestLogger(t)
	editor := NewEditorService(
		pages, schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger, performance.NewTracker(), time.Minute, 10,
	)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	editor.mu.RLock()
	session := editor.sessions[view.ID]
	editor.mu.RUnlock()
	session.mu.Lock()
	session.touched = time.Now().Add(-2 * time.Minute)
	session.mu.Unlock()

	editor.sweep()

	_, err = editor.Get(view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Equal(t, 0, editor.SessionCount())
}

func TestSweepSafeAlongsideConcurrentEdits(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			_, _ = editor.TogglePublish(view.ID)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			editor.sweep()
		}
	}()
	wg.Wait()

	// A freshly touched session is never evicted.
	_, err = editor.Get(view.ID)
	assert.NoError(t, err)
}

func TestSessionCapHoldsUnderConcurrentOpens(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	logger := newTestLogger(t)
	editor := NewEditorService(
		pages, schema.NewRegistry(),
		messaging.NewBroadcaster(logger, time.Second),
		logger, performance.NewTracker(), time.Hour, 1,
	)

	var wg sync.WaitGroup
	var opened int32
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := editor.Open(context.Background(), page.ID); err == nil {
				atomic.AddInt32(&opened, 1)
			}
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, opened)
	assert.Equal(t, 1, editor.SessionCount())
}

func TestCloseDiscardsUnsavedEdits(t *testing.T) {
	pages := memory.NewPageRepository()
	page := seedPage(t, pages, "hero")
	editor := newTestEditor(t, pages)

	view, err := editor.Open(context.Background(), page.ID)
	require.NoError(t, err)
	_, err = editor.AppendBlock(view.ID, "quote")
	require.NoError(t, err)

	editor.Close(view.ID)
	_, err = editor.Get(view.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	stored, err := pages.FindByID(context.Background(), page.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Blocks, 1, "unsaved edits never reach the store")
}
