package contentsync

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"contentgw/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const retryUnit = 20 * time.Millisecond

func testSyncConfig(url string) config.SyncConfig {
	return config.SyncConfig{
		GatewayURL:     url,
		GatewaySecret:  "s3cret",
		BatchSize:      10,
		MaxAttempts:    3,
		RetryWait:      retryUnit,
		RequestTimeout: time.Second,
		ListLimit:      500,
	}
}

const postJSON = `{"slug":"fed","title":"The Fed","description":"d","pubDate":"2024-03-01","sortDate":"2024-03-01T00:00:00.000Z","tags":["macro"],"draft":false,"body":"**hi**"}`

func TestClient_RetriesUntilSuccess(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "s3cret", r.Header.Get(SecretHeader))
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(postJSON))
	}))
	defer srv.Close()

	c := NewClient(testSyncConfig(srv.URL), zap.NewNop())
	start := time.Now()
	post, err := c.GetPost(context.Background(), "fed")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, "The Fed", post.Title)
	assert.Equal(t, "**hi**", post.Body)
	assert.Equal(t, int32(3), calls.Load())
	// Linear backoff: 1 unit before the second attempt, 2 before the third.
	assert.GreaterOrEqual(t, elapsed, 3*retryUnit)
}

func TestClient_ClientErrorIsNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Post not found"}`))
	}))
	defer srv.Close()

	_, err := NewClient(testSyncConfig(srv.URL), zap.NewNop()).GetPost(context.Background(), "gone")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.Code)
	assert.Contains(t, statusErr.Body, "Post not found")
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient(testSyncConfig(srv.URL), zap.NewNop()).GetPost(context.Background(), "x")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.Code)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClient_TimeoutIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			time.Sleep(200 * time.Millisecond)
		}
		_, _ = w.Write([]byte(postJSON))
	}))
	defer srv.Close()

	cfg := testSyncConfig(srv.URL)
	cfg.RequestTimeout = 50 * time.Millisecond
	post, err := NewClient(cfg, zap.NewNop()).GetPost(context.Background(), "fed")

	require.NoError(t, err)
	assert.Equal(t, "fed", post.Slug)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_ListSlugs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)
		assert.Equal(t, "500", r.URL.Query().Get("limit"))
		_, _ = w.Write([]byte(`{"total":2,"offset":0,"limit":500,"posts":[{"slug":"b"},{"slug":"a"}]}`))
	}))
	defer srv.Close()

	slugs, err := NewClient(testSyncConfig(srv.URL), zap.NewNop()).ListSlugs(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, slugs)
}

func TestClient_NoSecretHeaderWhenUnset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header[SecretHeader]
		assert.False(t, present)
		_, _ = w.Write([]byte(`{"posts":[]}`))
	}))
	defer srv.Close()

	cfg := testSyncConfig(srv.URL)
	cfg.GatewaySecret = ""
	slugs, err := NewClient(cfg, zap.NewNop()).ListSlugs(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, slugs)
}

func TestLinearBackoff(t *testing.T) {
	assert.Equal(t, 500*time.Millisecond, linearBackoff(500*time.Millisecond, 0, 0, nil))
	assert.Equal(t, time.Second, linearBackoff(500*time.Millisecond, 0, 1, nil))
	assert.Equal(t, 1500*time.Millisecond, linearBackoff(500*time.Millisecond, 0, 2, nil))
}

func TestClient_Revalidate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/revalidate", r.URL.Path)
		if r.Header.Get(SecretHeader) != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
			return
		}
		_, _ = w.Write([]byte(`{"ok":true,"message":"Revalidation triggered","timestamp":"2024-03-01T00:00:00Z"}`))
	}))
	defer srv.Close()

	msg, err := NewClient(testSyncConfig(srv.URL), zap.NewNop()).Revalidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Revalidation triggered", msg)

	cfg := testSyncConfig(srv.URL)
	cfg.GatewaySecret = "wrong"
	_, err = NewClient(cfg, zap.NewNop()).Revalidate(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnauthorized, statusErr.Code)
}

func TestClient_ListSlugsRetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":"Internal server error"}`))
			return
		}
		_, _ = w.Write([]byte(`{"posts":[{"slug":"a"}]}`))
	}))
	defer srv.Close()

	slugs, err := NewClient(testSyncConfig(srv.URL), zap.NewNop()).ListSlugs(context.Background(), 500)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, slugs)
	assert.Equal(t, int32(2), calls.Load())
}
