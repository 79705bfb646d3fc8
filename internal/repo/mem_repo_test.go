package repo

import (
	"context"
	"testing"
	"time"

	dom "todoweb/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemRepoAssignsSequentialIDs(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	a, err := r.Create(ctx, dom.Todo{Title: "first"})
	require.NoError(t, err)
	b, err := r.Create(ctx, dom.Todo{Title: "second"})
	require.NoError(t, err)

	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.False(t, a.Resolved)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestMemRepoListNewestFirst(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, dom.Todo{Title: "older"})
	require.NoError(t, err)
	_, err = r.Create(ctx, dom.Todo{Title: "newer"})
	require.NoError(t, err)

	list, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "newer", list[0].Title)
	assert.Equal(t, "older", list[1].Title)
}

func TestMemRepoSoftDeleteHidesItem(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, dom.Todo{Title: "gone soon"})
	require.NoError(t, err)

	require.NoError(t, r.SoftDelete(ctx, created.ID))

	_, err = r.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, ErrNoRows)

	list, err := r.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	// Deleting twice is NotFound, not a no-op.
	assert.ErrorIs(t, r.SoftDelete(ctx, created.ID), ErrNoRows)
}

func TestMemRepoToggleResolved(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	created, err := r.Create(ctx, dom.Todo{Title: "toggle me"})
	require.NoError(t, err)

	flipped, err := r.ToggleResolved(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, flipped.Resolved)

	back, err := r.ToggleResolved(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, back.Resolved)

	_, err = r.ToggleResolved(ctx, 999)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestMemRepoSearchIsCaseInsensitive(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	_, err := r.Create(ctx, dom.Todo{Title: "Buy Milk"})
	require.NoError(t, err)
	_, err = r.Create(ctx, dom.Todo{Title: "walk", Description: "the DOG"})
	require.NoError(t, err)

	byTitle, err := r.Search(ctx, "milk")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, "Buy Milk", byTitle[0].Title)

	byDesc, err := r.Search(ctx, "dog")
	require.NoError(t, err)
	require.Len(t, byDesc, 1)
	assert.Equal(t, "walk", byDesc[0].Title)
}

func TestMemRepoOverdue(t *testing.T) {
	r := NewMemTodoRepo()
	ctx := context.Background()

	past := time.Now().UTC().AddDate(0, 0, -2)
	future := time.Now().UTC().AddDate(0, 0, 5)

	late, err := r.Create(ctx, dom.Todo{Title: "late", DueDate: &past})
	require.NoError(t, err)
	_, err = r.Create(ctx, dom.Todo{Title: "on time", DueDate: &future})
	require.NoError(t, err)
	_, err = r.Create(ctx, dom.Todo{Title: "no due date"})
	require.NoError(t, err)

	list, err := r.Overdue(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "late", list[0].Title)

	// A resolved item is never overdue.
	_, err = r.ToggleResolved(ctx, late.ID)
	require.NoError(t, err)
	list, err = r.Overdue(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
