package repo

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	dom "Tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestMemoryTodoRepo_Create(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r := NewMemoryTodoRepo(WithClock(fixedClock(now)))

	todo, err := r.Create(ctx, "  Test Todo  ", dom.StringPtr("  Test Description "))
	require.NoError(t, err)

	assert.NotEmpty(t, todo.ID)
	assert.Equal(t, "Test Todo", todo.Title)
	require.NotNil(t, todo.Description)
	assert.Equal(t, "Test Description", *todo.Description)
	assert.False(t, todo.Completed)
	assert.Equal(t, now, todo.CreatedAt)
	assert.Equal(t, now, todo.UpdatedAt)
}

func TestMemoryTodoRepo_Create_Description(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	absent, err := r.Create(ctx, "a", nil)
	require.NoError(t, err)
	assert.Nil(t, absent.Description)

	empty, err := r.Create(ctx, "b", dom.StringPtr("   "))
	require.NoError(t, err)
	require.NotNil(t, empty.Description)
	assert.Equal(t, "", *empty.Description)
}

func TestMemoryTodoRepo_Create_EmptyTitle(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	for _, title := range []string{"", "   ", "\t\n"} {
		_, err := r.Create(ctx, title, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, dom.ErrValidation))
		assert.Equal(t, dom.MsgTitleEmpty, err.Error())
	}
	assert.Empty(t, r.List(ctx))
}

func TestMemoryTodoRepo_UniqueIDs(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		todo, err := r.Create(ctx, "x", nil)
		require.NoError(t, err)
		require.False(t, seen[todo.ID], "duplicate id %s", todo.ID)
		seen[todo.ID] = true
	}
}

func TestMemoryTodoRepo_GetByID(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	_, ok := r.GetByID(ctx, "missing")
	assert.False(t, ok)

	created, err := r.Create(ctx, "Test", dom.StringPtr("desc"))
	require.NoError(t, err)

	got, ok := r.GetByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, created, got)
}

func TestMemoryTodoRepo_NoAliasing(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	desc := "original"
	created, err := r.Create(ctx, "Test", &desc)
	require.NoError(t, err)
	desc = "changed by caller"

	*created.Description = "mutated copy"
	created.Title = ""

	got, ok := r.GetByID(ctx, created.ID)
	require.True(t, ok)
	assert.Equal(t, "Test", got.Title)
	assert.Equal(t, "original", *got.Description)

	list := r.List(ctx)
	require.Len(t, list, 1)
	*list[0].Description = "mutated list"
	got, _ = r.GetByID(ctx, created.ID)
	assert.Equal(t, "original", *got.Description)
}

func TestMemoryTodoRepo_List(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	assert.Empty(t, r.List(ctx))

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		todo, err := r.Create(ctx, title, nil)
		require.NoError(t, err)
		ids = append(ids, todo.ID)
	}

	first := r.List(ctx)
	second := r.List(ctx)
	assert.Equal(t, first, second)
	require.Len(t, first, 3)
	for i, todo := range first {
		assert.Equal(t, ids[i], todo.ID)
	}
}

func TestMemoryTodoRepo_Update(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	later := created.Add(time.Minute)
	clock := created
	r := NewMemoryTodoRepo(WithClock(func() time.Time { return clock }))

	todo, err := r.Create(ctx, "Title", dom.StringPtr("Desc"))
	require.NoError(t, err)

	clock = later
	updated, err := r.Update(ctx, todo.ID, dom.TodoPatch{Title: dom.StringPtr("  New  ")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "Desc", *updated.Description)
	assert.False(t, updated.Completed)
	assert.Equal(t, created, updated.CreatedAt)
	assert.Equal(t, later, updated.UpdatedAt)

	updated, err = r.Update(ctx, todo.ID, dom.TodoPatch{
		Description: dom.StringPtr(" "),
		Completed:   dom.BoolPtr(true),
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Title)
	assert.Equal(t, "", *updated.Description)
	assert.True(t, updated.Completed)

	got, _ := r.GetByID(ctx, todo.ID)
	assert.Equal(t, updated, got)
}

func TestMemoryTodoRepo_Update_Errors(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	_, err := r.Update(ctx, "missing", dom.TodoPatch{Title: dom.StringPtr("x")})
	assert.True(t, errors.Is(err, dom.ErrNotFound))
	assert.Equal(t, dom.MsgTodoNotFound, err.Error())

	todo, err := r.Create(ctx, "Title", nil)
	require.NoError(t, err)

	_, err = r.Update(ctx, todo.ID, dom.TodoPatch{Title: dom.StringPtr("   ")})
	assert.True(t, errors.Is(err, dom.ErrValidation))

	got, _ := r.GetByID(ctx, todo.ID)
	assert.Equal(t, todo, got)
}

func TestMemoryTodoRepo_UpdatedAtNeverDecreases(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	clock := start
	r := NewMemoryTodoRepo(WithClock(func() time.Time { return clock }))

	todo, err := r.Create(ctx, "Title", nil)
	require.NoError(t, err)

	// Same instant: not strictly later, but not earlier either.
	same, err := r.Update(ctx, todo.ID, dom.TodoPatch{})
	require.NoError(t, err)
	assert.Equal(t, start, same.UpdatedAt)

	// Clock going backwards must not move UpdatedAt back.
	clock = start.Add(-time.Hour)
	back, err := r.Update(ctx, todo.ID, dom.TodoPatch{})
	require.NoError(t, err)
	assert.Equal(t, start, back.UpdatedAt)
	assert.False(t, back.UpdatedAt.Before(back.CreatedAt))
}

func TestMemoryTodoRepo_StrictUpdatedAt(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	r := NewMemoryTodoRepo(WithClock(fixedClock(now)), WithStrictUpdatedAt(true))

	todo, err := r.Create(ctx, "Title", nil)
	require.NoError(t, err)

	prev := todo.UpdatedAt
	for i := 0; i < 3; i++ {
		updated, err := r.Update(ctx, todo.ID, dom.TodoPatch{})
		require.NoError(t, err)
		assert.True(t, updated.UpdatedAt.After(prev))
		prev = updated.UpdatedAt
	}
}

func TestMemoryTodoRepo_UpdateIf_GuardVeto(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	todo, err := r.Create(ctx, "Title", nil)
	require.NoError(t, err)

	veto := errors.New("no")
	_, err = r.UpdateIf(ctx, todo.ID, func(dom.Todo) error { return veto }, dom.TodoPatch{Title: dom.StringPtr("changed")})
	assert.ErrorIs(t, err, veto)

	got, _ := r.GetByID(ctx, todo.ID)
	assert.Equal(t, todo, got)
}

func TestMemoryTodoRepo_UpdateIf_Concurrent(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	todo, err := r.Create(ctx, "Title", nil)
	require.NoError(t, err)

	notCompleted := func(t dom.Todo) error {
		if t.Completed {
			return dom.NewImmutableError(dom.MsgTodoCompleted)
		}
		return nil
	}

	const workers = 32
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := r.UpdateIf(ctx, todo.ID, notCompleted, dom.TodoPatch{Completed: dom.BoolPtr(true)})
			if err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, succeeded)
}

func TestMemoryTodoRepo_Delete(t *testing.T) {
	ctx := context.Background()
	r := NewMemoryTodoRepo()

	err := r.Delete(ctx, "missing")
	assert.True(t, errors.Is(err, dom.ErrNotFound))

	a, _ := r.Create(ctx, "a", nil)
	b, _ := r.Create(ctx, "b", nil)
	c, _ := r.Create(ctx, "c", nil)

	require.NoError(t, r.Delete(ctx, b.ID))
	_, ok := r.GetByID(ctx, b.ID)
	assert.False(t, ok)

	list := r.List(ctx)
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, c.ID, list[1].ID)

	err = r.Delete(ctx, b.ID)
	assert.True(t, errors.Is(err, dom.ErrNotFound))
}
