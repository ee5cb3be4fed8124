package bolt

import (
	"context"
	"errors"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/repository"
)

const (
	// Bucket holds the task snapshot.
	Bucket      = "tasks"
	snapshotKey = "todos"
)

var errBucketMissing = errors.New("tasks bucket missing")

type taskRepository struct {
	db *bolt.DB
}

// NewTaskRepository returns a BoltDB-backed implementation of TaskRepository.
// The db must have been opened with Bucket created.
func NewTaskRepository(db *bolt.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Load(ctx context.Context) ([]domain.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	var blob []byte
	err := r.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(Bucket))
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(snapshotKey)); v != nil {
			blob = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repository.DecodeSnapshot(blob)
}

func (r *taskRepository) Save(ctx context.Context, tasks []domain.Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}

	payload, err := repository.EncodeSnapshot(tasks)
	if err != nil {
		return err
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(Bucket))
		if err != nil {
			return err
		}
		return b.Put([]byte(snapshotKey), payload)
	})
}

// Ping verifies the database is open and the bucket is reachable.
func (r *taskRepository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	return r.db.View(func(tx *bolt.Tx) error {
		if tx.Bucket([]byte(Bucket)) == nil {
			return errBucketMissing
		}
		return nil
	})
}

var _ repository.Pinger = (*taskRepository)(nil)
