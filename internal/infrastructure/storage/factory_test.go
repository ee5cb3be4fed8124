package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasklist/domain"
	"github.com/fastygo/tasklist/internal/config"
)

func TestOpenDrivers(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		driver string
		want   string
	}{
		{driver: "", want: config.DriverBolt},
		{driver: config.DriverBolt, want: config.DriverBolt},
		{driver: config.DriverFile, want: config.DriverFile},
		{driver: config.DriverMemory, want: config.DriverMemory},
	}
	for i, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			cfg := config.StorageConfig{
				Driver:      tt.driver,
				BoltPath:    filepath.Join(dir, "bolt", string(rune('a'+i)), "tasks.db"),
				FilePath:    filepath.Join(dir, "file", string(rune('a'+i)), "tasks.json"),
				LockTimeout: time.Second,
			}
			h, err := Open(cfg, nil)
			require.NoError(t, err)
			defer func() { assert.NoError(t, h.Close()) }()
			assert.Equal(t, tt.want, h.Driver)
			switch tt.want {
			case config.DriverBolt:
				assert.Equal(t, cfg.BoltPath, h.Location)
			case config.DriverFile:
				assert.Equal(t, cfg.FilePath, h.Location)
			default:
				assert.Empty(t, h.Location)
			}

			ctx := context.Background()
			want := []domain.Task{{ID: 1, Text: "x", Priority: domain.PriorityMedium, CreatedAt: time.UnixMilli(1).UTC()}}
			require.NoError(t, h.Repository.Save(ctx, want))
			got, err := h.Repository.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestOpenUnknownDriver(t *testing.T) {
	_, err := Open(config.StorageConfig{Driver: "redis"}, nil)
	assert.ErrorContains(t, err, "unsupported storage driver")
}

func TestHandleCloseNil(t *testing.T) {
	var h *Handle
	assert.NoError(t, h.Close())
}
