package memory

import (
	"context"
	"testing"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/domain/entities/content"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageRepositoryMissingReturnsNilNil(t *testing.T) {
	repo := NewPageRepository()

	page, err := repo.FindByID(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, page)

	page, err = repo.FindBySlug(context.Background(), "nope")
	require.NoError(t, err)
	assert.Nil(t, page)
}

func TestPageRepositoryIsolatesStoredState(t *testing.T) {
	repo := NewPageRepository()
	page := &content.PageDocument{
		ID:    "p1",
		Title: "Home",
		Slug:  "home",
		Blocks: []*content.BlockInstance{
			{ID: "b1", TypeID: "hero", Order: 0, Properties: map[string]any{"heading": "Hi"}},
		},
		Created: time.Now().UTC(),
	}
	require.NoError(t, repo.Store(context.Background(), page))

	// Mutating the caller's copy must not leak into the store.
	page.Blocks[0].Properties["heading"] = "changed"

	got, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Blocks[0].Properties["heading"])

	// Mutating a returned copy must not leak either.
	got.Title = "changed"
	again, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "Home", again.Title)
}

func TestPageRepositoryStoreStripsNilProperties(t *testing.T) {
	repo := NewPageRepository()
	page := &content.PageDocument{
		ID:   "p1",
		Slug: "home",
		Blocks: []*content.BlockInstance{
			{ID: "b1", TypeID: "hero", Order: 0, Properties: map[string]any{"heading": "Hi", "gone": nil}},
		},
		Created: time.Now().UTC(),
	}
	require.NoError(t, repo.Store(context.Background(), page))

	got, err := repo.FindByID(context.Background(), "p1")
	require.NoError(t, err)
	_, present := got.Blocks[0].Properties["gone"]
	assert.False(t, present)
}

func TestPageRepositoryUpdateUnknownFails(t *testing.T) {
	repo := NewPageRepository()
	err := repo.Update(context.Background(), &content.PageDocument{ID: "ghost"})
	assert.Error(t, err)
}

func TestForumRepositoryOrdering(t *testing.T) {
	repo := NewForumRepository()
	base := time.Now().UTC()
	require.NoError(t, repo.Store(context.Background(), &content.ForumThread{ID: "t1", Title: "old", Created: base.Add(-2 * time.Hour)}))
	require.NoError(t, repo.Store(context.Background(), &content.ForumThread{ID: "t2", Title: "new", Created: base}))
	require.NoError(t, repo.Store(context.Background(), &content.ForumThread{ID: "t3", Title: "pinned", IsPinned: true, Created: base.Add(-24 * time.Hour)}))

	threads, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, threads, 3)
	assert.Equal(t, "t3", threads[0].ID, "pinned threads sort first")
	assert.Equal(t, "t2", threads[1].ID)
	assert.Equal(t, "t1", threads[2].ID)
}

func TestEventRepositorySortsByStart(t *testing.T) {
	repo := NewEventRepository()
	base := time.Now().UTC()
	require.NoError(t, repo.Store(context.Background(), &content.EventItem{ID: "e1", StartsAt: base.Add(48 * time.Hour)}))
	require.NoError(t, repo.Store(context.Background(), &content.EventItem{ID: "e2", StartsAt: base.Add(2 * time.Hour)}))

	events, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "e2", events[0].ID)
}
