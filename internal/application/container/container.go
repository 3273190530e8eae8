// Package container wires the application's dependencies together.
package container

import (
	"context"
	"fmt"

	"github.com/commonsforge/pagecraft-go/internal/application/services"
	"github.com/commonsforge/pagecraft-go/internal/domain/repositories"
	"github.com/commonsforge/pagecraft-go/internal/domain/schema"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/messaging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/logging"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/observability/performance"
	"github.com/commonsforge/pagecraft-go/internal/infrastructure/persistence/memory"
	mongostore "github.com/commonsforge/pagecraft-go/internal/infrastructure/persistence/mongo"
	"github.com/commonsforge/pagecraft-go/pkg/config"
)

// Container holds all application dependencies, built once at startup.
type Container struct {
	Logger      *logging.ChanneledLogger
	PerfTracker *performance.Tracker
	Broadcaster *messaging.Broadcaster

	PageRepo  repositories.PageRepository
	ForumRepo repositories.ForumRepository
	EventRepo repositories.EventRepository

	RegistryService *services.RegistryService
	PageService     *services.PageService
	EditorService   *services.EditorService
	AuthService     *services.AuthService
	ForumService    *services.ForumService
	EventService    *services.EventService

	db *mongostore.Database
}

// NewContainer builds the dependency graph. An empty MONGO_URI selects the
// in-memory repositories so the server runs without a document store.
func NewContainer(ctx context.Context) (*Container, error) {
	loggerConfig := logging.DefaultLoggerConfig()
	loggerConfig.LogDirectory = config.LogDirectory
	logger, err := logging.NewChanneledLogger(loggerConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	c := &Container{
		Logger:      logger,
		PerfTracker: performance.NewTracker(),
		Broadcaster: messaging.NewBroadcaster(logger, config.BroadcastWriteDeadline),
	}

	if config.MongoURI == "" {
		logger.Startup().Info("No document store configured, using in-memory repositories")
		c.PageRepo = memory.NewPageRepository()
		c.ForumRepo = memory.NewForumRepository()
		c.EventRepo = memory.NewEventRepository()
	} else {
		db, err := mongostore.Connect(ctx, config.MongoURI, config.MongoDatabase)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize document store: %w", err)
		}
		c.db = db
		c.PageRepo = mongostore.NewPageRepository(db)
		c.ForumRepo = mongostore.NewForumRepository(db)
		c.EventRepo = mongostore.NewEventRepository(db)
		logger.Startup().Info("Document store connected", "database", config.MongoDatabase)
	}

	registry := schema.NewRegistry()
	c.RegistryService = services.NewRegistryService(registry, logger)
	c.PageService = services.NewPageService(c.PageRepo, c.Broadcaster, logger, c.PerfTracker)
	c.EditorService = services.NewEditorService(c.PageRepo, registry, c.Broadcaster, logger, c.PerfTracker,
		config.EditorSessionTTL, config.MaxEditorSessions)
	c.AuthService = services.NewAuthService(config.JWTSecret, config.AdminPassword, config.EditorPassword,
		config.TokenLifetime, config.AllowDemoLogin, logger)
	c.ForumService = services.NewForumService(c.ForumRepo, logger)
	c.EventService = services.NewEventService(c.EventRepo, logger)

	logger.Startup().Info("Dependency container initialized",
		"blockTypes", len(registry.All()), "demoMode", config.MongoURI == "")
	return c, nil
}

// Close releases held resources in reverse order of acquisition.
func (c *Container) Close(ctx context.Context) {
	c.Broadcaster.CloseAll()
	if c.db != nil {
		if err := c.db.Close(ctx); err != nil {
			c.Logger.Shutdown().Error("Failed to close document store", "error", err.Error())
		}
	}
	c.Logger.Close()
}
