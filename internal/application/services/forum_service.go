package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/commonsforge/pagecraft-go/internal/domain/repositories"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
)

// ForumService manages the discussion threads shown on the forum dashboard.
type ForumService struct {
	threads repositories.ForumRepository
	logger  *logging.ChanneledLogger
}

// NewForumService creates the forum service.
func NewForumService(threads repositories.ForumRepository, logger *logging.ChanneledLogger) *ForumService {
	return &ForumService{threads: threads, logger: logger}
}

// List returns every thread, pinned first then newest.
func (s *ForumService) List(ctx context.Context) ([]*content.ForumThread, error) {
	return s.threads.FindAll(ctx)
}

// Get returns one thread; (nil, nil) when it does not exist.
func (s *ForumService) Get(ctx context.Context, id string) (*content.ForumThread, error) {
	return s.threads.FindByID(ctx, id)
}

// Create stores a new thread.
func (s *ForumService) Create(ctx context.Context, title, author, body string) (*content.ForumThread, error) {
	if strings.TrimSpace(title) == "" {
		return nil, fmt.Errorf("thread title is required")
	}
	thread := &content.ForumThread{
		ID:      security.GenerateULID(),
		Title:   title,
		Author:  author,
		Body:    body,
		Created: time.Now().UTC(),
	}
	if err := s.threads.Store(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to create thread: %w", err)
	}
	s.logger.Content().Info("Forum thread created", "threadId", thread.ID)
	return thread, nil
}

// Update replaces a thread's editable fields.
func (s *ForumService) Update(ctx context.Context, id, title, body string, pinned, locked bool) (*content.ForumThread, error) {
	thread, err := s.threads.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if thread == nil {
		return nil, fmt.Errorf("thread %s not found", id)
	}
	now := time.Now().UTC()
	if title != "" {
		thread.Title = title
	}
	if body != "" {
		thread.Body = body
	}
	thread.IsPinned = pinned
	thread.IsLocked = locked
	thread.Changed = &now
	if err := s.threads.Update(ctx, thread); err != nil {
		return nil, fmt.Errorf("failed to update thread: %w", err)
	}
	return thread, nil
}

// Delete removes a thread permanently.
func (s *ForumService) Delete(ctx context.Context, id string) error {
	if err := s.threads.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete thread: %w", err)
	}
	s.logger.Content().Info("Forum thread deleted", "threadId", id)
	return nil
}
