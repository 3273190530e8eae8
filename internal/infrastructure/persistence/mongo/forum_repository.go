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

// ForumRepository persists forum threads.
type ForumRepository struct {
	coll *mongo.Collection
}

func NewForumRepository(db *Database) *ForumRepository {
	return &ForumRepository{coll: db.Collection(CollectionForum)}
}

func (r *ForumRepository) FindByID(ctx context.Context, id string) (*content.ForumThread, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var thread content.ForumThread
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&thread)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load thread %s: %w", id, err)
	}
	return &thread, nil
}

func (r *ForumRepository) FindAll(ctx context.Context) ([]*content.ForumThread, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	// Pinned threads first, newest after.
	cursor, err := r.coll.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "created", Value: -1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}
	var threads []*content.ForumThread
	if err := cursor.All(ctx, &threads); err != nil {
		return nil, fmt.Errorf("failed to decode threads: %w", err)
	}
	return threads, nil
}

func (r *ForumRepository) Store(ctx context.Context, thread *content.ForumThread) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, thread); err != nil {
		return fmt.Errorf("failed to store thread %s: %w", thread.ID, err)
	}
	return nil
}

func (r *ForumRepository) Update(ctx context.Context, thread *content.ForumThread) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": thread.ID}, thread)
	if err != nil {
		return fmt.Errorf("failed to update thread %s: %w", thread.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("thread %s not found", thread.ID)
	}
	return nil
}

func (r *ForumRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete thread %s: %w", id, err)
	}
	return nil
}
