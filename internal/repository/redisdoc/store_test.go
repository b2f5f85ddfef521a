package redisdoc

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/layered-crud-samples/internal/repository"
)

type note struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// setupTestRedis cria uma instância do miniredis para os testes
func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *Store[note]) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := New(client, "test:notes",
		func(n note) string { return n.ID },
		func(n note, id string) note { n.ID = id; return n },
	)
	return mr, store
}

func TestStore_InsertAndGet(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()

	created, err := store.Insert(ctx, note{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)

	got, err := store.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestStore_GetMissing(t *testing.T) {
	_, store := setupTestRedis(t)

	_, err := store.Get(context.Background(), "99")

	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_SeedAdvancesSequence(t *testing.T) {
	mr, store := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Seed(ctx, note{ID: "1"}, note{ID: "6"}))
	created, err := store.Insert(ctx, note{ID: "1", Text: "client id is ignored"})

	require.NoError(t, err)
	assert.Equal(t, "7", created.ID)
	assert.True(t, mr.Exists("test:notes:doc:7"))
}

func TestStore_SeedKeepsExistingNamespace(t *testing.T) {
	// Arrange
	_, store := setupTestRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Seed(ctx, note{ID: "1", Text: "first"}, note{ID: "2", Text: "second"}))

	_, err := store.Update(ctx, note{ID: "1", Text: "renamed"})
	require.NoError(t, err)
	require.NoError(t, store.Delete(ctx, "2"))

	// Act
	err = store.Seed(ctx, note{ID: "1", Text: "first"}, note{ID: "2", Text: "second"})

	// Assert
	require.NoError(t, err)
	got, err := store.Get(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Text)
	_, err = store.Get(ctx, "2")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestStore_SeedRejectsNonNumericIdentity(t *testing.T) {
	_, store := setupTestRedis(t)

	err := store.Seed(context.Background(), note{ID: "abc"})

	assert.Error(t, err)
}

func TestStore_UpdateRequiresExisting(t *testing.T) {
	mr, store := setupTestRedis(t)

	_, err := store.Update(context.Background(), note{ID: "5", Text: "ghost"})

	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.False(t, mr.Exists("test:notes:doc:5"))
}

func TestStore_Update(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	created, _ := store.Insert(ctx, note{Text: "old"})

	created.Text = "new"
	_, err := store.Update(ctx, created)
	require.NoError(t, err)

	got, _ := store.Get(ctx, created.ID)
	assert.Equal(t, "new", got.Text)
}

func TestStore_Delete(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	created, _ := store.Insert(ctx, note{})

	require.NoError(t, store.Delete(ctx, created.ID))
	assert.ErrorIs(t, store.Delete(ctx, created.ID), repository.ErrNotFound)

	items, _, err := store.List(ctx, repository.NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestStore_ListPages(t *testing.T) {
	_, store := setupTestRedis(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := store.Insert(ctx, note{})
		require.NoError(t, err)
	}

	first, hasNext, err := store.List(ctx, repository.NewPage(1, 2))
	require.NoError(t, err)
	assert.True(t, hasNext)
	require.Len(t, first, 2)
	assert.Equal(t, "1", first[0].ID)
	assert.Equal(t, "2", first[1].ID)

	second, hasNext, err := store.List(ctx, repository.NewPage(2, 2))
	require.NoError(t, err)
	assert.False(t, hasNext)
	require.Len(t, second, 1)
	assert.Equal(t, "3", second[0].ID)
}
