package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/tasklist/pkg/logger"
)

func TestAttachGeneratesRequestID(t *testing.T) {
	a := NewAdapter(context.Background(), time.Second)
	var rc fasthttp.RequestCtx

	ctx, cancel := a.Attach(&rc)
	defer cancel()

	id := appLogger.RequestID(ctx)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, string(rc.Response.Header.Peek(HeaderRequestID)))

	_, ok := ctx.Deadline()
	assert.True(t, ok)
}

func TestAttachKeepsIncomingRequestID(t *testing.T) {
	a := NewAdapter(nil, 0)
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set(HeaderRequestID, "abc-123")
	rc.Request.Header.SetUserAgent("tests")

	ctx, cancel := a.Attach(&rc)
	defer cancel()

	assert.Equal(t, "abc-123", appLogger.RequestID(ctx))
	assert.Equal(t, "tests", ctx.Value(KeyUserAgent))
}

func TestAttachFollowsBaseCancellation(t *testing.T) {
	base, cancelBase := context.WithCancel(context.Background())
	a := NewAdapter(base, time.Hour)

	ctx, cancel := a.Attach(nil)
	defer cancel()
	cancelBase()

	<-ctx.Done()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}
