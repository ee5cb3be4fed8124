package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

func TestTaskRepository_SaveCountsAndLoads(t *testing.T) {
	ctx := context.Background()
	repo := NewTaskRepository()

	tasks, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.Zero(t, repo.Saves())

	want := []domain.Task{{ID: 5, Text: "x", Priority: domain.PriorityLow, CreatedAt: time.UnixMilli(5).UTC()}}
	require.NoError(t, repo.Save(ctx, want))
	assert.Equal(t, 1, repo.Saves())

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestTaskRepository_FromBlob(t *testing.T) {
	_, err := NewTaskRepositoryFromBlob([]byte("nope")).Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrMalformedSnapshot)
}
