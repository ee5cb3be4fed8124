package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

func okHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetStatusCode(fasthttp.StatusOK)
}

func run(h fasthttp.RequestHandler, authorization string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	h(&ctx)
	return &ctx
}

func TestJWTAuth_DisabledWithoutSecret(t *testing.T) {
	h := JWTAuth("", "tasklist", nil)(okHandler)
	assert.Equal(t, fasthttp.StatusOK, run(h, "").Response.StatusCode())
}

func TestJWTAuth(t *testing.T) {
	const secret = "s3cret"
	now := time.Now()
	h := JWTAuth(secret, "tasklist", nil)(okHandler)

	valid, err := IssueToken(secret, "tasklist", time.Hour, now)
	require.NoError(t, err)
	expired, err := IssueToken(secret, "tasklist", time.Minute, now.Add(-time.Hour))
	require.NoError(t, err)
	wrongKey, err := IssueToken("other", "tasklist", time.Hour, now)
	require.NoError(t, err)
	wrongIssuer, err := IssueToken(secret, "someone-else", time.Hour, now)
	require.NoError(t, err)
	noExpiry, err := IssueToken(secret, "tasklist", 0, now)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing", header: "", want: fasthttp.StatusUnauthorized},
		{name: "valid bearer", header: "Bearer " + valid, want: fasthttp.StatusOK},
		{name: "valid raw", header: valid, want: fasthttp.StatusOK},
		{name: "no expiry", header: "Bearer " + noExpiry, want: fasthttp.StatusOK},
		{name: "expired", header: "Bearer " + expired, want: fasthttp.StatusUnauthorized},
		{name: "wrong key", header: "Bearer " + wrongKey, want: fasthttp.StatusUnauthorized},
		{name: "wrong issuer", header: "Bearer " + wrongIssuer, want: fasthttp.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", want: fasthttp.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := run(h, tt.header)
			assert.Equal(t, tt.want, ctx.Response.StatusCode())
			if tt.want == fasthttp.StatusUnauthorized {
				assert.Contains(t, string(ctx.Response.Body()), `"code":"UNAUTHORIZED"`)
			}
		})
	}
}

func TestIssueTokenNeedsSecret(t *testing.T) {
	_, err := IssueToken("", "x", time.Hour, time.Now())
	assert.Error(t, err)
}
