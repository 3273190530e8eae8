// Package repositories defines the repository interfaces for content
// entities. These abstract the data persistence details so the application
// core stays decoupled from the document store.
package repositories

import (
	"context"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
)

// PageRepository is the persistence collaborator the page editor depends on.
// FindByID returns (nil, nil) when the document does not exist. Update
// writes the whole snapshot; partial diffs are never sent.
type PageRepository interface {
	FindByID(ctx context.Context, id string) (*content.PageDocument, error)
	FindBySlug(ctx context.Context, slug string) (*content.PageDocument, error)
	FindAll(ctx context.Context) ([]*content.PageDocument, error)
	Store(ctx context.Context, page *content.PageDocument) error
	Update(ctx context.Context, page *content.PageDocument) error
	Delete(ctx context.Context, id string) error
}

type ForumRepository interface {
	FindByID(ctx context.Context, id string) (*content.ForumThread, error)
	FindAll(ctx context.Context) ([]*content.ForumThread, error)
	Store(ctx context.Context, thread *content.ForumThread) error
	Update(ctx context.Context, thread *content.ForumThread) error
	Delete(ctx context.Context, id string) error
}

type EventRepository interface {
	FindByID(ctx context.Context, id string) (*content.EventItem, error)
	FindAll(ctx context.Context) ([]*content.EventItem, error)
	Store(ctx context.Context, event *content.EventItem) error
	Update(ctx context.Context, event *content.EventItem) error
	Delete(ctx context.Context, id string) error
}
