package storage

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/internal/config"
	"github.com/fastygo/tasklist/internal/infrastructure/boltdb"
	"github.com/fastygo/tasklist/repository"
	boltRepo "github.com/fastygo/tasklist/repository/bolt"
	fileRepo "github.com/fastygo/tasklist/repository/file"
	"github.com/fastygo/tasklist/repository/memory"
)

// Handle is an opened task repository plus the resources behind it.
type Handle struct {
	Driver     string
	Location   string
	Repository repository.TaskRepository
	closeFn    func() error
}

// Close releases the underlying resources.
func (h *Handle) Close() error {
	if h == nil || h.closeFn == nil {
		return nil
	}
	return h.closeFn()
}

// Open builds the repository selected by cfg.Driver.
func Open(cfg config.StorageConfig, logger *zap.Logger) (*Handle, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Driver {
	case config.DriverBolt, "":
		db, err := boltdb.Open(cfg.BoltPath, cfg.LockTimeout, logger, boltRepo.Bucket)
		if err != nil {
			return nil, err
		}
		return &Handle{
			Driver:     config.DriverBolt,
			Location:   cfg.BoltPath,
			Repository: boltRepo.NewTaskRepository(db),
			closeFn:    db.Close,
		}, nil

	case config.DriverFile:
		logger.Info("using file storage", zap.String("path", cfg.FilePath))
		return &Handle{
			Driver:     config.DriverFile,
			Location:   cfg.FilePath,
			Repository: fileRepo.NewTaskRepository(cfg.FilePath, cfg.LockTimeout),
		}, nil

	case config.DriverMemory:
		logger.Warn("using in-memory storage, tasks will not survive a restart")
		return &Handle{
			Driver:     config.DriverMemory,
			Repository: memory.NewTaskRepository(),
		}, nil

	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
