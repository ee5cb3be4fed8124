package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/tasklist/repository"
)

// Monitor periodically checks that task storage is reachable.
type Monitor struct {
	storage repository.Pinger
	driver  string

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New creates a monitor. storage may be nil when the repository cannot report health,
// in which case storage is assumed healthy.
func New(storage repository.Pinger, driver string, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		storage:  storage,
		driver:   driver,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	m.refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	status := Status{
		Storage:   true,
		Driver:    m.driver,
		LastCheck: time.Now(),
	}
	if err := m.checkStorage(); err != nil {
		status.Storage = false
		status.Error = err.Error()
	}

	m.mu.Lock()
	wasOnline := m.status.Storage || m.status.LastCheck.IsZero()
	m.status = status
	m.mu.Unlock()

	switch {
	case wasOnline && !status.Storage:
		m.logger.Warn("task storage unhealthy", zap.String("driver", m.driver), zap.String("error", status.Error))
	case !wasOnline && status.Storage:
		m.logger.Info("task storage recovered", zap.String("driver", m.driver))
	}
}

func (m *Monitor) checkStorage() error {
	if m.storage == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return m.storage.Ping(ctx)
}
