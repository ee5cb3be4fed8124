package lifecycle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestManager_ReverseOrderAndOnce(t *testing.T) {
	m := New(time.Second, zaptest.NewLogger(t))
	var order []string
	m.Register("storage", func(context.Context) error {
		order = append(order, "storage")
		return nil
	})
	m.Register("flush", func(context.Context) error {
		order = append(order, "flush")
		return nil
	})
	m.Register("http_server", func(context.Context) error {
		order = append(order, "http_server")
		return nil
	})
	m.Register("ignored", nil)

	require.NoError(t, m.Shutdown(context.Background()))
	require.NoError(t, m.Shutdown(context.Background()))
	assert.Equal(t, []string{"http_server", "flush", "storage"}, order)
}

func TestManager_JoinsErrorsAndContinues(t *testing.T) {
	m := New(time.Second, nil)
	errA := errors.New("a failed")
	errB := errors.New("b failed")
	ran := false
	m.Register("last", func(context.Context) error {
		ran = true
		return nil
	})
	m.Register("b", func(context.Context) error { return errB })
	m.Register("a", func(context.Context) error { return errA })

	err := m.Shutdown(context.Background())
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.True(t, ran)
}

func TestManager_HooksSeeDeadline(t *testing.T) {
	m := New(50*time.Millisecond, nil)
	m.Register("slow", func(ctx context.Context) error {
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, m.Shutdown(context.Background()), context.DeadlineExceeded)
}

func TestManager_ListenStop(t *testing.T) {
	m := New(0, nil)
	called := false
	stop := m.Listen(func() { called = true })
	stop()
	stop()
	assert.False(t, called)
	m.Listen(nil)()
}
