package repository

import (
	"context"

	"github.com/fastygo/tasklist/domain"
)

// TaskRepository persists the ordered task collection as one snapshot.
type TaskRepository interface {
	Load(ctx context.Context) ([]domain.Task, error)
	Save(ctx context.Context, tasks []domain.Task) error
}

// Pinger is implemented by repositories that can report their health.
type Pinger interface {
	Ping(ctx context.Context) error
}
