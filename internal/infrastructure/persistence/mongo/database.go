// Package mongo implements the content repositories on top of the MongoDB
// document store.
package mongo

import (
	"context"
	"fmt"

	"github.com/commonsforge/pagecraft-go/pkg/config"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// Collection names.
const (
	CollectionPages  = "pages"
	CollectionForum  = "forum_threads"
	CollectionEvents = "events"
)

// Database wraps the mongo client and the configured database handle.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect establishes and verifies a connection to the document store.
func Connect(ctx context.Context, uri, dbName string) (*Database, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to document store: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, config.MongoPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("document store unreachable: %w", err)
	}

	return &Database{
		client: client,
		db:     client.Database(dbName),
	}, nil
}

// Collection returns a handle to a named collection.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Close disconnects from the document store.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// opCtx derives the bounded context every repository call runs under.
func opCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, config.MongoOpTimeout)
}
