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

// EventRepository persists calendar events.
type EventRepository struct {
	coll *mongo.Collection
}

func NewEventRepository(db *Database) *EventRepository {
	return &EventRepository{coll: db.Collection(CollectionEvents)}
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*content.EventItem, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	var event content.EventItem
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", id, err)
	}
	return &event, nil
}

func (r *EventRepository) FindAll(ctx context.Context) ([]*content.EventItem, error) {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.M{"startsAt": 1}))
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	var events []*content.EventItem
	if err := cursor.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to decode events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Store(ctx context.Context, event *content.EventItem) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		return fmt.Errorf("failed to store event %s: %w", event.ID, err)
	}
	return nil
}

func (r *EventRepository) Update(ctx context.Context, event *content.EventItem) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return fmt.Errorf("failed to update event %s: %w", event.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("event %s not found", event.ID)
	}
	return nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := opCtx(ctx)
	defer cancel()

	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("failed to delete event %s: %w", id, err)
	}
	return nil
}
