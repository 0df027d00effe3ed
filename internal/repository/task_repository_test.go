package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/task-tracker/internal/domain"
)

func ptr[T any](v T) *T { return &v }

func TestBuildTaskWhere(t *testing.T) {
	tests := []struct {
		name   string
		filter TaskFilter
		where  string
		args   []any
	}{
		{
			name:   "owner only",
			filter: TaskFilter{OwnerID: "u1"},
			where:  "owner_id=$1",
			args:   []any{"u1"},
		},
		{
			name:   "empty search ignored",
			filter: TaskFilter{OwnerID: "u1", Search: ptr("")},
			where:  "owner_id=$1",
			args:   []any{"u1"},
		},
		{
			name:   "search lowercased and escaped",
			filter: TaskFilter{OwnerID: "u1", Search: ptr(`Milk_100%`)},
			where:  `owner_id=$1 AND LOWER(title) LIKE $2 ESCAPE '\'`,
			args:   []any{"u1", `%milk\_100\%%`},
		},
		{
			name:   "search and completed",
			filter: TaskFilter{OwnerID: "u1", Search: ptr("milk"), Completed: ptr(false)},
			where:  `owner_id=$1 AND LOWER(title) LIKE $2 ESCAPE '\' AND completed=$3`,
			args:   []any{"u1", "%milk%", false},
		},
		{
			name:   "owner clause survives hostile search",
			filter: TaskFilter{OwnerID: "u1", Search: ptr("' OR 1=1 --")},
			where:  `owner_id=$1 AND LOWER(title) LIKE $2 ESCAPE '\'`,
			args:   []any{"u1", "%' or 1=1 --%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := buildTaskWhere(tt.filter)
			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestInMemoryTaskRepository_Scoping(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTaskRepository()
	alice, bob := uuid.NewString(), uuid.NewString()

	task := &domain.Task{OwnerID: alice, Title: "buy milk"}
	require.NoError(t, repo.Create(ctx, task))
	require.NotEmpty(t, task.ID)

	_, err := repo.GetByID(ctx, bob, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = repo.Update(ctx, bob, task.ID, domain.TaskPatch{Completed: ptr(true)})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, bob, task.ID), ErrNotFound)

	bobCount, err := repo.Count(ctx, TaskFilter{OwnerID: bob})
	require.NoError(t, err)
	assert.Zero(t, bobCount)

	got, err := repo.GetByID(ctx, alice, task.ID)
	require.NoError(t, err)
	assert.False(t, got.Completed)

	require.NoError(t, repo.Delete(ctx, alice, task.ID))
	assert.ErrorIs(t, repo.Delete(ctx, alice, task.ID), ErrNotFound)
}

func TestInMemoryTaskRepository_ListOrderAndWindow(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTaskRepository()
	owner := uuid.NewString()

	var ids []string
	for _, title := range []string{"one", "two", "three", "four"} {
		task := &domain.Task{OwnerID: owner, Title: title}
		require.NoError(t, repo.Create(ctx, task))
		ids = append(ids, task.ID)
	}

	page, err := repo.List(ctx, TaskFilter{OwnerID: owner, Limit: 3, Offset: 0})
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, []string{ids[3], ids[2], ids[1]}, []string{page[0].ID, page[1].ID, page[2].ID})

	page, err = repo.List(ctx, TaskFilter{OwnerID: owner, Limit: 3, Offset: 3})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, ids[0], page[0].ID)

	page, err = repo.List(ctx, TaskFilter{OwnerID: owner, Limit: 3, Offset: 9})
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestInMemoryUserRepository_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{Name: "A", Email: "a@x.com", PasswordHash: "h"}))
	err := repo.Create(ctx, &domain.User{Name: "B", Email: "a@x.com", PasswordHash: "h"})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = repo.GetByEmail(ctx, "missing@x.com")
	assert.ErrorIs(t, err, ErrNotFound)
}
