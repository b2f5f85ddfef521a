package repository

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID   int
	Name string
	Tags []string
}

func newWidgetStore() *Memory[widget, int] {
	return NewMemory(Identity[widget, int]{
		Key:    func(w widget) int { return w.ID },
		Assign: func(w widget, id int) widget { w.ID = id; return w },
		Next:   func(last int) int { return last + 1 },
	}, func(w widget) widget {
		w.Tags = append([]string(nil), w.Tags...)
		return w
	})
}

func TestMemory_InsertAssignsDistinctIdentities(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()

	seen := map[int]bool{}
	for i := 0; i < 5; i++ {
		w, err := store.Insert(ctx, widget{Name: "w"})
		require.NoError(t, err)
		assert.NotZero(t, w.ID)
		assert.False(t, seen[w.ID], "identity %d issued twice", w.ID)
		seen[w.ID] = true
	}
}

func TestMemory_InsertContinuesAfterSeed(t *testing.T) {
	store := newWidgetStore()
	store.Seed(widget{ID: 1}, widget{ID: 2})

	w, err := store.Insert(context.Background(), widget{ID: 1, Name: "ignored id"})

	require.NoError(t, err)
	assert.Equal(t, 3, w.ID)
	assert.Equal(t, 3, store.Len())
}

func TestMemory_GetNotFound(t *testing.T) {
	_, err := newWidgetStore().Get(context.Background(), 42)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemory_UpdateRequiresExisting(t *testing.T) {
	store := newWidgetStore()

	_, err := store.Update(context.Background(), widget{ID: 9, Name: "ghost"})

	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, store.Len())
}

func TestMemory_UpdateReplaces(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()
	w, _ := store.Insert(ctx, widget{Name: "old"})

	w.Name = "new"
	_, err := store.Update(ctx, w)
	require.NoError(t, err)

	got, err := store.Get(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Name)
}

func TestMemory_CloneIsolatesCollections(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()
	w, _ := store.Insert(ctx, widget{Tags: []string{"a"}})

	w.Tags[0] = "mutated"

	got, _ := store.Get(ctx, w.ID)
	assert.Equal(t, []string{"a"}, got.Tags)
}

func TestMemory_Delete(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()
	w, _ := store.Insert(ctx, widget{})

	require.NoError(t, store.Delete(ctx, w.ID))
	assert.ErrorIs(t, store.Delete(ctx, w.ID), ErrNotFound)

	items, hasNext, err := store.List(ctx, NewPage(1, 10))
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.False(t, hasNext)
}

func TestMemory_ListPages(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, _ = store.Insert(ctx, widget{})
	}

	first, hasNext, err := store.List(ctx, NewPage(1, 2))
	require.NoError(t, err)
	assert.True(t, hasNext)
	assert.Equal(t, []int{1, 2}, ids(first))

	last, hasNext, err := store.List(ctx, NewPage(3, 2))
	require.NoError(t, err)
	assert.False(t, hasNext)
	assert.Equal(t, []int{5}, ids(last))

	beyond, hasNext, err := store.List(ctx, NewPage(9, 2))
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.False(t, hasNext)
}

func TestMemory_ConcurrentInserts(t *testing.T) {
	store := newWidgetStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = store.Insert(ctx, widget{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
}

func TestPage(t *testing.T) {
	p := NewPage(0, 0)
	assert.Equal(t, 1, p.Number)
	assert.Equal(t, DefaultPageSize, p.Size)

	p = NewPage(3, 5)
	assert.Equal(t, 10, p.Offset())
	assert.Equal(t, 6, p.Limit())
}

func ids(ws []widget) []int {
	out := make([]int, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.ID)
	}
	return out
}
