package memory

import (
	"context"
	"sync"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

// TaskRepository keeps the encoded snapshot in memory. It goes through the same
// codec as the durable repositories so behaviour matches them.
type TaskRepository struct {
	mu    sync.RWMutex
	blob  []byte
	saves int
}

// NewTaskRepository creates an empty in-memory repository.
func NewTaskRepository() *TaskRepository {
	return &TaskRepository{}
}

// NewTaskRepositoryFromBlob seeds the repository with raw stored bytes.
func NewTaskRepositoryFromBlob(blob []byte) *TaskRepository {
	return &TaskRepository{blob: append([]byte(nil), blob...)}
}

func (r *TaskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return repository.DecodeSnapshot(r.blob)
}

func (r *TaskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	payload, err := repository.EncodeSnapshot(tasks)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.blob = payload
	r.saves++
	return nil
}

// Saves returns how many snapshots were written.
func (r *TaskRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// Blob returns a copy of the stored bytes.
func (r *TaskRepository) Blob() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]byte(nil), r.blob...)
}

func (r *TaskRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

var (
	_ repository.TaskRepository = (*TaskRepository)(nil)
	_ repository.Pinger         = (*TaskRepository)(nil)
)
