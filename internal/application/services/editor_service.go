package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/blocks"
	"github.com/commonsforge/pagecraft-go/internal/domain/dragdrop"
	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/forms"
	"github.com/commonsforge/pagecraft-go/internal/domain/repositories"
	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/performance"
	"github.com/google/uuid"
)

// Editor service errors surfaced to the presentation layer.
var (
	ErrSessionNotFound      = errors.New("editor session not found")
	ErrPageNotFound         = errors.New("page not found")
	ErrSessionLimitReached  = errors.New("editor session limit reached")
	ErrConfirmationRequired = errors.New("block deletion requires confirmation")
	ErrSaveInProgress       = errors.New("a save is already in progress")
)

// EditorSession is one open editing surface over a single page. All
// mutations go through the service, which serializes them per session.
type EditorSession struct {
	ID       string
	PageID   string
	Document *content.PageDocument
	Dirty    bool
	Saving   bool

	resolver           *dragdrop.Resolver
	touched            time.Time
	persistedPublished bool
	editGen            uint64
	mu                 sync.Mutex
}

// markDirty flags unsaved edits and advances the edit generation so a save
// that raced with this edit does not clear the dirty flag. Callers hold the
// session lock.
func (session *EditorSession) markDirty() {
	session.Dirty = true
	session.editGen++
}

// SessionView is the snapshot handed to the presentation layer.
type SessionView struct {
	ID        string                `json:"id"`
	Page      *content.PageDocument `json:"page"`
	Dirty     bool                  `json:"dirty"`
	Saving    bool                  `json:"saving"`
	Dragging  bool                  `json:"dragging"`
	Indicator dragdrop.Indicator    `json:"indicator"`
}

// EditorService is the page editor controller: it owns editing sessions,
// routes drag gestures through the resolver, applies property-form changes,
// and persists whole-page snapshots.
type EditorService struct {
	pages       repositories.PageRepository
	registry    *schema.Registry
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
	perf        *performance.Tracker

	sessionTTL  time.Duration
	maxSessions int

	mu       sync.RWMutex
	sessions map[string]*EditorSession
}

// NewEditorService creates the editor controller.
func NewEditorService(pages repositories.PageRepository, registry *schema.Registry, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger, perf *performance.Tracker, sessionTTL time.Duration, maxSessions int) *EditorService {
	return &EditorService{
		pages:       pages,
		registry:    registry,
		broadcaster: broadcaster,
		logger:      logger,
		perf:        perf,
		sessionTTL:  sessionTTL,
		maxSessions: maxSessions,
		sessions:    make(map[string]*EditorSession),
	}
}

// Open loads a page and starts an editing session over a working copy. A
// load failure creates no session.
func (s *EditorService) Open(ctx context.Context, pageID string) (*SessionView, error) {
	marker := s.perf.StartOperation("editor_open")
	defer marker.Complete()

	page, err := s.pages.FindByID(ctx, pageID)
	if err != nil {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("failed to load page %s: %w", pageID, err)
	}
	if page == nil {
		marker.SetSuccess(false)
		return nil, ErrPageNotFound
	}

	session := &EditorSession{
		ID:                 uuid.NewString(),
		PageID:             pageID,
		Document:           page.Clone(),
		resolver:           dragdrop.NewResolver(),
		touched:            time.Now(),
		persistedPublished: page.IsPublished,
	}

	// Cap check and insert happen under one lock so concurrent opens
	// cannot overshoot the limit.
	s.mu.Lock()
	if len(s.sessions) >= s.maxSessions {
		s.mu.Unlock()
		marker.SetSuccess(false)
		return nil, ErrSessionLimitReached
	}
	s.sessions[session.ID] = session
	s.mu.Unlock()

	s.logger.Editor().Info("Editor session opened", "sessionId", session.ID, "pageId", pageID)
	return session.view(), nil
}

// Get returns the current snapshot of an open session.
func (s *EditorService) Get(sessionID string) (*SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	return session.view(), nil
}

// Close discards a session; unsaved edits are lost.
func (s *EditorService) Close(sessionID string) {
	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		s.logger.Editor().Info("Editor session closed", "sessionId", sessionID)
	}
	s.mu.Unlock()
}

// SessionCount returns the number of open sessions.
func (s *EditorService) SessionCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// DragStart begins a drag gesture for a library item or placed block.
func (s *EditorService) DragStart(sessionID string, item dragdrop.Item) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		session.resolver.DragStart(item)
	})
}

// DragOver updates the hover target of an in-progress gesture.
func (s *EditorService) DragOver(sessionID string, target dragdrop.Target) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		session.resolver.DragOver(target)
	})
}

// DragCancel abandons the gesture without touching the document.
func (s *EditorService) DragCancel(sessionID string) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		session.resolver.DragCancel()
	})
}

// DragEnd resolves the drop against the current block list and applies the
// resulting command. The resolver returns to idle either way.
func (s *EditorService) DragEnd(sessionID string, final dragdrop.Target) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		cmd := session.resolver.DragEnd(final, session.Document.Blocks)
		session.apply(s.registry, cmd)
	})
}

// AppendBlock places a new instance of typeID at the end of the page, the
// non-drag path from the mod library.
func (s *EditorService) AppendBlock(sessionID, typeID string) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		session.Document.Blocks = blocks.Append(s.registry, session.Document.Blocks, typeID)
		session.markDirty()
	})
}

// MoveBlock swaps the block at index with its up or down neighbor.
func (s *EditorService) MoveBlock(sessionID string, index int, direction blocks.Direction) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		next := blocks.Swap(session.Document.Blocks, index, direction)
		if !sameBlocks(next, session.Document.Blocks) {
			session.Document.Blocks = next
			session.markDirty()
		}
	})
}

// DeleteBlock removes the block at index. The first call without confirm
// performs nothing; the host UI prompts and retries with confirm set.
func (s *EditorService) DeleteBlock(sessionID string, index int, confirm bool) (*SessionView, error) {
	if !confirm {
		return nil, ErrConfirmationRequired
	}
	return s.withSession(sessionID, func(session *EditorSession) {
		next := blocks.DeleteAt(session.Document.Blocks, index)
		if !sameBlocks(next, session.Document.Blocks) {
			session.Document.Blocks = next
			session.markDirty()
		}
	})
}

// UpdateBlockProperties replaces a block's property bag wholesale.
func (s *EditorService) UpdateBlockProperties(sessionID, blockID string, props map[string]any) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		next := blocks.UpdateProperties(session.Document.Blocks, blockID, props)
		if !sameBlocks(next, session.Document.Blocks) {
			session.Document.Blocks = next
			session.markDirty()
		}
	})
}

// ChangeBlockField applies one property-form field change with coercion.
// Changes to unknown block types or undeclared fields are dropped.
func (s *EditorService) ChangeBlockField(sessionID, blockID, name string, raw any) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		idx := blocks.IndexOf(session.Document.Blocks, blockID)
		if idx < 0 {
			return
		}
		block := session.Document.Blocks[idx]
		blockSchema, ok := s.registry.Lookup(block.TypeID)
		if !ok {
			return
		}
		props := forms.ApplyChange(blockSchema, block.Properties, name, raw)
		session.Document.Blocks = blocks.UpdateProperties(session.Document.Blocks, blockID, props)
		session.markDirty()
	})
}

// ListFieldAdd appends a sub-record to a composite list property.
func (s *EditorService) ListFieldAdd(sessionID, blockID, name string, item any) (*SessionView, error) {
	return s.changeList(sessionID, blockID, name, func(list []any) []any {
		return forms.ListAdd(list, item)
	})
}

// ListFieldRemove deletes the sub-record at index from a composite list.
func (s *EditorService) ListFieldRemove(sessionID, blockID, name string, index int) (*SessionView, error) {
	return s.changeList(sessionID, blockID, name, func(list []any) []any {
		return forms.ListRemove(list, index)
	})
}

// ListFieldMove reorders a sub-record within a composite list, using the
// same remove-then-insert convention as whole-block moves.
func (s *EditorService) ListFieldMove(sessionID, blockID, name string, fromIndex, toIndex int) (*SessionView, error) {
	return s.changeList(sessionID, blockID, name, func(list []any) []any {
		return forms.ListMove(list, fromIndex, toIndex)
	})
}

// changeList applies fn to the named composite list property. Non-composite
// or undeclared properties are left untouched.
func (s *EditorService) changeList(sessionID, blockID, name string, fn func([]any) []any) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		idx := blocks.IndexOf(session.Document.Blocks, blockID)
		if idx < 0 {
			return
		}
		block := session.Document.Blocks[idx]
		blockSchema, ok := s.registry.Lookup(block.TypeID)
		if !ok {
			return
		}
		def, ok := blockSchema.Property(name)
		if !ok || !def.Kind.IsComposite() {
			return
		}
		current, _ := block.Properties[name].([]any)
		next := fn(current)
		props := forms.ApplyChange(blockSchema, block.Properties, name, next)
		session.Document.Blocks = blocks.UpdateProperties(session.Document.Blocks, blockID, props)
		session.markDirty()
	})
}

// RenderForm produces the property-form fields for one placed block. A nil
// slice means the block type is unknown and the editor shows a marker.
func (s *EditorService) RenderForm(sessionID, blockID string) ([]forms.Field, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()

	idx := blocks.IndexOf(session.Document.Blocks, blockID)
	if idx < 0 {
		return nil, fmt.Errorf("block %s not found", blockID)
	}
	block := session.Document.Blocks[idx]
	blockSchema, _ := s.registry.Lookup(block.TypeID)
	return forms.Render(blockSchema, block.Properties), nil
}

// UpdatePageSettings edits page-level metadata within the session.
func (s *EditorService) UpdatePageSettings(sessionID string, title, slug string, description, fontFamily, bgColour *string) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		if title != "" {
			session.Document.Title = title
		}
		if slug != "" {
			session.Document.Slug = slug
		}
		if description != nil {
			session.Document.Description = description
		}
		if fontFamily != nil {
			session.Document.FontFamily = fontFamily
		}
		if bgColour != nil {
			session.Document.BgColour = bgColour
		}
		session.markDirty()
	})
}

// TogglePublish flips the publish flag in the working copy. The change only
// reaches the store on an explicit save.
func (s *EditorService) TogglePublish(sessionID string) (*SessionView, error) {
	return s.withSession(sessionID, func(session *EditorSession) {
		session.Document.IsPublished = !session.Document.IsPublished
		session.markDirty()
	})
}

// Save persists the whole working snapshot. On failure the in-memory
// document keeps every edit and stays dirty so the author can retry. A
// second save issued while one is in flight is rejected rather than queued.
func (s *EditorService) Save(ctx context.Context, sessionID string) (*SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, session); err != nil {
		return nil, err
	}

	session.mu.Lock()
	title := session.Document.Title
	published := session.Document.IsPublished
	publishChanged := published != session.persistedPublished
	if publishChanged {
		session.persistedPublished = published
	}
	view := session.view()
	session.mu.Unlock()

	s.broadcaster.Broadcast(messaging.EditorEvent{
		Type:   "page_saved",
		PageID: session.PageID,
		Title:  title,
	})
	if publishChanged {
		eventType := "page_published"
		if !published {
			eventType = "page_unpublished"
		}
		s.broadcaster.Broadcast(messaging.EditorEvent{
			Type:   eventType,
			PageID: session.PageID,
			Title:  title,
		})
	}
	return view, nil
}

// persist snapshots the document under the session lock, then writes with
// the lock released so the author keeps editing while the save is in
// flight. Edits made during the write leave the session dirty afterwards.
func (s *EditorService) persist(ctx context.Context, session *EditorSession) error {
	session.mu.Lock()
	if session.Saving {
		session.mu.Unlock()
		return ErrSaveInProgress
	}
	session.Saving = true
	now := time.Now().UTC()
	snapshot := session.Document.Clone()
	snapshot.Changed = &now
	gen := session.editGen
	session.mu.Unlock()

	marker := s.perf.StartOperation("editor_save")
	defer marker.Complete()

	err := s.pages.Update(ctx, snapshot)

	session.mu.Lock()
	defer session.mu.Unlock()
	session.Saving = false
	if err != nil {
		marker.SetSuccess(false)
		s.logger.Editor().Error("Save failed", "sessionId", session.ID, "pageId", session.PageID, "error", err.Error())
		return fmt.Errorf("failed to save page %s: %w", session.PageID, err)
	}

	session.Document.Changed = &now
	if session.editGen == gen {
		session.Dirty = false
	}
	s.logger.Editor().Info("Page saved", "sessionId", session.ID, "pageId", session.PageID, "blocks", len(snapshot.Blocks))
	return nil
}

// StartSweeper evicts idle sessions on an interval until ctx is done.
func (s *EditorService) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()
}

func (s *EditorService) sweep() {
	cutoff := time.Now().Add(-s.sessionTTL)
	s.mu.Lock()
	for id, session := range s.sessions {
		// touched is guarded by the per-session lock, not s.mu.
		session.mu.Lock()
		idle := session.touched.Before(cutoff)
		session.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			s.logger.Editor().Info("Idle editor session evicted", "sessionId", id, "pageId", session.PageID)
		}
	}
	s.mu.Unlock()
}

func (s *EditorService) session(sessionID string) (*EditorSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// withSession runs fn under the session lock and returns the fresh view.
func (s *EditorService) withSession(sessionID string, fn func(*EditorSession)) (*SessionView, error) {
	session, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	session.mu.Lock()
	defer session.mu.Unlock()
	session.touched = time.Now()
	fn(session)
	return session.view(), nil
}

// apply executes a resolved drop command against the working document.
func (session *EditorSession) apply(reg *schema.Registry, cmd dragdrop.Command) {
	switch cmd.Kind {
	case dragdrop.CommandInsertAt:
		session.Document.Blocks = blocks.InsertAt(reg, session.Document.Blocks, cmd.TypeID, cmd.Index)
		session.markDirty()
	case dragdrop.CommandMoveTo:
		next := blocks.MoveTo(session.Document.Blocks, cmd.FromIndex, cmd.ToIndex)
		if !sameBlocks(next, session.Document.Blocks) {
			session.Document.Blocks = next
			session.markDirty()
		}
	}
}

// view snapshots session state; callers hold the session lock.
func (session *EditorSession) view() *SessionView {
	return &SessionView{
		ID:        session.ID,
		Page:      session.Document.Clone(),
		Dirty:     session.Dirty,
		Saving:    session.Saving,
		Dragging:  session.resolver.Dragging(),
		Indicator: session.resolver.Indicator(),
	}
}

// sameBlocks reports whether two lists are the identical slice contents,
// used to detect no-op document operations.
func sameBlocks(a, b []*content.BlockInstance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
