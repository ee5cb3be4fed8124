package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

func TestTaskRepository_MissingFileIsEmpty(t *testing.T) {
	repo := NewTaskRepository(filepath.Join(t.TempDir(), "nested", "tasks.json"), time.Second)

	tasks, err := repo.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestTaskRepository_SaveLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "tasks.json")
	repo := NewTaskRepository(path, time.Second)

	tasks := []domain.Task{
		{ID: 10, Text: "write report", Description: "q3", Priority: domain.PriorityHigh, CreatedAt: time.UnixMilli(10).UTC()},
		{ID: 11, Text: "water plants", Priority: domain.PriorityMedium, Completed: true, CreatedAt: time.UnixMilli(11).UTC()},
	}
	require.NoError(t, repo.Save(ctx, tasks))

	loaded, err := NewTaskRepository(path, time.Second).Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, tasks, loaded)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	for _, e := range entries {
		assert.NotContains(t, e.Name(), ".tmp.", "temp file left behind")
	}
}

func TestTaskRepository_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	require.NoError(t, os.WriteFile(path, []byte("<<<"), 0o600))

	_, err := NewTaskRepository(path, time.Second).Load(context.Background())
	assert.ErrorIs(t, err, repository.ErrMalformedSnapshot)
}

func TestTaskRepository_LockHeldElsewhere(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.json")
	other := flock.New(path + ".lock")
	locked, err := other.TryLock()
	require.NoError(t, err)
	require.True(t, locked)
	defer func() { _ = other.Unlock() }()

	repo := NewTaskRepository(path, 150*time.Millisecond)
	err = repo.Save(context.Background(), nil)
	assert.Error(t, err)
}

func TestTaskRepository_Ping(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewTaskRepository(filepath.Join(dir, "tasks.json"), 0).Ping(context.Background()))
	assert.Error(t, NewTaskRepository(filepath.Join(dir, "missing", "tasks.json"), 0).Ping(context.Background()))
}
