package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// PageRepository persists whole page snapshots in the pages collection.
// Documents are sanitized before write; the store rejects undefined fields.
type PageRepository struct {
	coll *mongo.Collection
}

func NewPageRepository(db *Database) *PageRepository {
	return &PageRepository{coll: db.Collection(CollectionPages)}
}

func (r *PageRepository) FindByID(ctx context.Context, id string) (*content.PageDocument, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var page content.PageDocument
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page %s: %w", id, err)
	}
	return &page, nil
}

func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (*content.PageDocument, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var page content.PageDocument
	err := r.coll.FindOne(ctx, bson.M{"slug": slug}).Decode(&page)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load page by slug %s: %w", slug, err)
	}
	return &page, nil
}

func (r *PageRepository) FindAll(ctx context.Context) ([]*content.PageDocument, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"title": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	var pages []*content.PageDocument
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, fmt.Errorf("failed to decode pages: %w", err)
	}
	return pages, nil
}

func (r *PageRepository) Store(ctx context.Context, page *content.PageDocument) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, page.Sanitized()); err != nil {
		return fmt.Errorf("failed to store page %s: %w", page.ID, err)
	}
	return nil
}

// Update overwrites the whole stored snapshot; there are no partial writes.
func (r *PageRepository) Update(ctx context.Context, page *content.PageDocument) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": page.ID}, page.Sanitized())
	if err != nil {
		return fmt.Errorf("failed to update page %s: %w", page.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("page %s not found", page.ID)
	}
	return nil
}

func (r *PageRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete page %s: %w", id, err)
	}
	return nil
}
