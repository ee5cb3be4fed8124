package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_RoutesByName(t *testing.T) {
	d := NewDispatcher()
	d.RegisterCommand("double", func(_ context.Context, payload interface{}) (interface{}, error) {
		return payload.(int) * 2, nil
	})
	d.RegisterQuery("echo", func(_ context.Context, params interface{}) (interface{}, error) {
		return params, nil
	})

	out, err := d.ExecuteCommand(context.Background(), "double", 21)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	out, err = d.ExecuteQuery(context.Background(), "echo", "hi")
	require.NoError(t, err)
	assert.Equal(t, "hi", out)
}

func TestDispatcher_UnknownHandler(t *testing.T) {
	d := NewDispatcher()
	_, err := d.ExecuteCommand(context.Background(), "missing", nil)
	assert.ErrorContains(t, err, "command handler missing not registered")

	_, err = d.ExecuteQuery(context.Background(), "missing", nil)
	assert.ErrorContains(t, err, "query handler missing not registered")
}

func TestDispatcher_CanceledContext(t *testing.T) {
	d := NewDispatcher()
	called := false
	d.RegisterCommand("noop", func(context.Context, interface{}) (interface{}, error) {
		called = true
		return nil, nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := d.ExecuteCommand(ctx, "noop", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestDispatcher_SerializesHandlers(t *testing.T) {
	d := NewDispatcher()
	counter := 0
	d.RegisterCommand("inc", func(context.Context, interface{}) (interface{}, error) {
		v := counter
		v++
		counter = v
		return nil, nil
	})
	d.RegisterQuery("read", func(context.Context, interface{}) (interface{}, error) {
		return counter, nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 200; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, _ = d.ExecuteCommand(context.Background(), "inc", nil)
		}()
		go func() {
			defer wg.Done()
			_, _ = d.ExecuteQuery(context.Background(), "read", nil)
		}()
	}
	wg.Wait()

	out, err := d.ExecuteQuery(context.Background(), "read", nil)
	require.NoError(t, err)
	assert.Equal(t, 200, out)
}
