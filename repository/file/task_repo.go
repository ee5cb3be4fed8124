package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

const retryInterval = 50 * time.Millisecond

// TaskRepository stores the snapshot in a JSON file guarded by a sibling lock file.
type TaskRepository struct {
	path        string
	lock        *flock.Flock
	lockTimeout time.Duration
}

// NewTaskRepository creates a file-backed repository. The file is created on first save.
func NewTaskRepository(path string, lockTimeout time.Duration) *TaskRepository {
	if lockTimeout <= 0 {
		lockTimeout = 3 * time.Second
	}
	return &TaskRepository{
		path:        path,
		lock:        flock.New(path + ".lock"),
		lockTimeout: lockTimeout,
	}
}

func (r *TaskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	unlock, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []domain.Task{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", r.path, err)
	}
	return repository.DecodeSnapshot(data)
}

func (r *TaskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	payload, err := repository.EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	unlock, err := r.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	return writeFileAtomic(r.path, payload, 0o600)
}

// Ping checks that the snapshot directory exists and is a directory.
func (r *TaskRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	info, err := os.Stat(filepath.Dir(r.path))
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", filepath.Dir(r.path))
	}
	return nil
}

func (r *TaskRepository) acquire(ctx context.Context) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return nil, err
	}

	lockCtx, cancel := context.WithTimeout(ctx, r.lockTimeout)
	defer cancel()

	locked, err := r.lock.TryLockContext(lockCtx, retryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire file lock for %s", r.path)
	}
	return func() { _ = r.lock.Unlock() }, nil
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		return err
	}
	committed = true
	return nil
}

var (
	_ repository.TaskRepository = (*TaskRepository)(nil)
	_ repository.Pinger         = (*TaskRepository)(nil)
)
