// Package memory provides in-memory repository implementations used for
// demo mode (no document store configured) and for tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
)

// PageRepository keeps page snapshots in a map. Stored documents are
// cloned on the way in and out so callers never share editable state.
type PageRepository struct {
	mu    sync.RWMutex
	pages map[string]*content.PageDocument
}

func NewPageRepository() *PageRepository {
	return &PageRepository{pages: make(map[string]*content.PageDocument)}
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*content.PageDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, ok := r.pages[id]
	if !ok {
		return nil, nil
	}
	return page.Clone(), nil
}

func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*content.PageDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, page := range r.pages {
		if page.Slug == slug {
			return page.Clone(), nil
		}
	}
	return nil, nil
}

func (r *PageRepository) FindAll(ctx context.Context) ([]*content.PageDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	pages := make([]*content.PageDocument, 0, len(r.pages))
	for _, page := range r.pages {
		pages = append(pages, page.Clone())
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Title < pages[j].Title })
	return pages, nil
}

func (r *PageRepository) Store(ctx context.Context, page *content.PageDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pages[page.ID]; exists {
		return fmt.Errorf("page %s already exists", page.ID)
	}
	r.pages[page.ID] = page.Sanitized().Clone()
	return nil
}

func (r *PageRepository) Update(ctx context.Context, page *content.PageDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.pages[page.ID]; !exists {
		return fmt.Errorf("page %s not found", page.ID)
	}
	r.pages[page.ID] = page.Sanitized().Clone()
	return nil
}

func (r *PageRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
	return nil
}

// ForumRepository keeps threads in memory.
type ForumRepository struct {
	mu      sync.RWMutex
	threads map[string]*content.ForumThread
}

func NewForumRepository() *ForumRepository {
	return &ForumRepository{threads: make(map[string]*content.ForumThread)}
}

func (r *ForumRepository) FindByID(ctx context.Context, id string) (*content.ForumThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	thread, ok := r.threads[id]
	if !ok {
		return nil, nil
	}
	cp := *thread
	return &cp, nil
}

func (r *ForumRepository) FindAll(ctx context.Context) ([]*content.ForumThread, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	threads := make([]*content.ForumThread, 0, len(r.threads))
	for _, thread := range r.threads {
		cp := *thread
		threads = append(threads, &cp)
	}
	sort.Slice(threads, func(i, j int) bool {
		if threads[i].IsPinned != threads[j].IsPinned {
			return threads[i].IsPinned
		}
		return threads[i].Created.After(threads[j].Created)
	})
	return threads, nil
}

func (r *ForumRepository) Store(ctx context.Context, thread *content.ForumThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.threads[thread.ID]; exists {
		return fmt.Errorf("thread %s already exists", thread.ID)
	}
	cp := *thread
	r.threads[thread.ID] = &cp
	return nil
}

func (r *ForumRepository) Update(ctx context.Context, thread *content.ForumThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.threads[thread.ID]; !exists {
		return fmt.Errorf("thread %s not found", thread.ID)
	}
	cp := *thread
	r.threads[thread.ID] = &cp
	return nil
}

func (r *ForumRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.threads, id)
	return nil
}

// EventRepository keeps calendar entries in memory.
type EventRepository struct {
	mu     sync.RWMutex
	events map[string]*content.EventItem
}

func NewEventRepository() *EventRepository {
	return &EventRepository{events: make(map[string]*content.EventItem)}
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*content.EventItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	event, ok := r.events[id]
	if !ok {
		return nil, nil
	}
	cp := *event
	return &cp, nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*content.EventItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	events := make([]*content.EventItem, 0, len(r.events))
	for _, event := range r.events {
		cp := *event
		events = append(events, &cp)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].StartsAt.Before(events[j].StartsAt) })
	return events, nil
}

func (r *EventRepository) Store(ctx context.Context, event *content.EventItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[event.ID]; exists {
		return fmt.Errorf("event %s already exists", event.ID)
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *content.EventItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.events[event.ID]; !exists {
		return fmt.Errorf("event %s not found", event.ID)
	}
	cp := *event
	r.events[event.ID] = &cp
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}
