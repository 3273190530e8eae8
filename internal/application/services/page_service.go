package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/repositories"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/performance"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
)

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// PageService manages page documents outside the editing session: listing,
// creation, lookup, and deletion.
type PageService struct {
	pages       repositories.PageRepository
	broadcaster *messaging.Broadcaster
	logger      *logging.ChanneledLogger
	perf        *performance.Tracker
}

// NewPageService creates the page service.
func NewPageService(pages repositories.PageRepository, broadcaster *messaging.Broadcaster, logger *logging.ChanneledLogger, perf *performance.Tracker) *PageService {
	return &PageService{pages: pages, broadcaster: broadcaster, logger: logger, perf: perf}
}

// List returns the list-view projection of every page, sorted by title.
func (s *PageService) List(ctx context.Context) ([]*content.PageSummary, error) {
	marker := s.perf.StartOperation("page_list")
	defer marker.Complete()

	pages, err := s.pages.FindAll(ctx)
	if err != nil {
		marker.SetSuccess(false)
		return nil, err
	}
	summaries := make([]*content.PageSummary, len(pages))
	for i, page := range pages {
		summaries[i] = page.Summary()
	}
	return summaries, nil
}

// Get returns one page by id; (nil, nil) when it does not exist.
func (s *PageService) Get(ctx context.Context, id string) (*content.PageDocument, error) {
	return s.pages.FindByID(ctx, id)
}

// GetBySlug returns one published or draft page by slug; (nil, nil) when
// absent.
func (s *PageService) GetBySlug(ctx context.Context, slug string) (*content.PageDocument, error) {
	return s.pages.FindBySlug(ctx, slug)
}

// Create stores a new empty page with a unique slug derived from the title.
func (s *PageService) Create(ctx context.Context, title, slug string) (*content.PageDocument, error) {
	marker := s.perf.StartOperation("page_create")
	defer marker.Complete()

	if strings.TrimSpace(title) == "" {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("page title is required")
	}
	if slug == "" {
		slug = Slugify(title)
	}
	existing, err := s.pages.FindBySlug(ctx, slug)
	if err != nil {
		marker.SetSuccess(false)
		return nil, err
	}
	if existing != nil {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("slug %s is already in use", slug)
	}

	page := &content.PageDocument{
		ID:      security.GenerateULID(),
		Title:   title,
		Slug:    slug,
		Blocks:  []*content.BlockInstance{},
		Created: time.Now().UTC(),
	}
	if err := s.pages.Store(ctx, page); err != nil {
		marker.SetSuccess(false)
		return nil, fmt.Errorf("failed to create page: %w", err)
	}
	s.logger.Content().Info("Page created", "pageId", page.ID, "slug", page.Slug)
	return page, nil
}

// Delete removes a page permanently and notifies dashboard clients.
func (s *PageService) Delete(ctx context.Context, id string) error {
	marker := s.perf.StartOperation("page_delete")
	defer marker.Complete()

	page, err := s.pages.FindByID(ctx, id)
	if err != nil {
		marker.SetSuccess(false)
		return err
	}
	if page == nil {
		marker.SetSuccess(false)
		return fmt.Errorf("page %s not found", id)
	}
	if err := s.pages.Delete(ctx, id); err != nil {
		marker.SetSuccess(false)
		return fmt.Errorf("failed to delete page: %w", err)
	}
	s.logger.Content().Info("Page deleted", "pageId", id)
	s.broadcaster.Broadcast(messaging.EditorEvent{
		Type:   "page_deleted",
		PageID: id,
		Title:  page.Title,
	})
	return nil
}

// Slugify lowercases a title and collapses non-alphanumeric runs to hyphens.
func Slugify(title string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(slug, "-")
}
