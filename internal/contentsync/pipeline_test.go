package contentsync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contentgw/internal/config"
	"contentgw/internal/contentstore"
	"contentgw/internal/markdown"
	"contentgw/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeFetcher struct {
	slugs   []string
	listErr error
	fail    map[string]error
	delay   time.Duration

	mu       sync.Mutex
	inFlight int
	peak     int
	order    []string
	calls    atomic.Int32
}

func (f *fakeFetcher) ListSlugs(ctx context.Context, limit int) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.slugs[:min(limit, len(f.slugs))], nil
}

func (f *fakeFetcher) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.inFlight++
	f.peak = max(f.peak, f.inFlight)
	f.order = append(f.order, slug)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	time.Sleep(f.delay)
	if err := f.fail[slug]; err != nil {
		return nil, err
	}
	return &model.Post{
		PostMeta: model.PostMeta{Slug: slug, Title: "T " + slug, Description: "d", PubDate: "2024-01-01", Tags: []string{}},
		Body:     "# " + slug,
	}, nil
}

func slugList(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("p%02d", i)
	}
	return out
}

func newTestPipeline(f Fetcher, store *contentstore.Store) *Pipeline {
	return NewPipeline(f, markdown.New(), store, config.SyncConfig{BatchSize: 10, ListLimit: 500}, zap.NewNop())
}

func TestPipeline_AllLoaded(t *testing.T) {
	f := &fakeFetcher{slugs: slugList(25)}
	store := contentstore.New()

	report, err := newTestPipeline(f, store).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 25, report.Listed)
	assert.Equal(t, 25, report.Loaded)
	assert.Equal(t, 25, store.Len())

	e, ok := store.Get("p07")
	require.True(t, ok)
	assert.Equal(t, "# p07", e.Body)
	assert.Contains(t, e.Rendered.HTML, "<h1")
	assert.Equal(t, "T p07", e.Data.Title)

	entries := store.Entries()
	for i, e := range entries {
		assert.Equal(t, f.slugs[i], e.ID, "store keeps listing order")
	}
}

func TestPipeline_PartialFailure(t *testing.T) {
	const n, k = 40, 2
	f := &fakeFetcher{
		slugs: slugList(n),
		fail: map[string]error{
			"p03": &StatusError{Code: 404},
			"p31": &StatusError{Code: 500},
		},
	}
	store := contentstore.New()
	store.Replace([]contentstore.Entry{{ID: "stale"}})

	report, err := newTestPipeline(f, store).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDegraded, report.State)
	assert.Equal(t, n, report.Listed)
	assert.Equal(t, n-k, report.Loaded)
	assert.Equal(t, n-k, store.Len())
	require.Len(t, report.Failures, k)
	assert.Equal(t, "p03", report.Failures[0].Slug)
	assert.Equal(t, "p31", report.Failures[1].Slug)
	_, ok := store.Get("stale")
	assert.False(t, ok)
	_, ok = store.Get("p03")
	assert.False(t, ok)
}

func TestPipeline_BatchesAreSequential(t *testing.T) {
	f := &fakeFetcher{slugs: slugList(23), delay: 5 * time.Millisecond}
	p := NewPipeline(f, markdown.New(), contentstore.New(), config.SyncConfig{BatchSize: 5}, zap.NewNop())

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.LessOrEqual(t, f.peak, 5)
	assert.Greater(t, f.peak, 1, "requests within a batch run concurrently")
	// Every batch finishes before the next starts, so the call order only
	// permutes slugs within their own batch.
	for i, slug := range f.order {
		var idx int
		fmt.Sscanf(slug, "p%d", &idx)
		assert.Equal(t, i/5, idx/5, "slug %s fetched outside its batch", slug)
	}
}

func TestPipeline_ListingFailureIsFatal(t *testing.T) {
	f := &fakeFetcher{listErr: errors.New("connection refused")}
	store := contentstore.New()
	store.Replace([]contentstore.Entry{{ID: "kept"}})

	report, err := newTestPipeline(f, store).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrListing))
	assert.Equal(t, StateFailed, report.State)
	assert.Equal(t, int32(0), f.calls.Load())
	_, ok := store.Get("kept")
	assert.True(t, ok, "a failed run leaves the previous snapshot in place")
}

func TestPipeline_UnconfiguredGateway(t *testing.T) {
	store := contentstore.New()
	store.Replace([]contentstore.Entry{{ID: "old"}})

	report, err := newTestPipeline(nil, store).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDegraded, report.State)
	assert.Equal(t, 0, store.Len())
}

func TestPipeline_EmptyListing(t *testing.T) {
	report, err := newTestPipeline(&fakeFetcher{}, contentstore.New()).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, StateDone, report.State)
	assert.Equal(t, 0, report.Loaded)
}

func TestPipeline_InvalidDateDropped(t *testing.T) {
	f := &badDateFetcher{fakeFetcher: fakeFetcher{slugs: []string{"ok", "bad"}}}
	store := contentstore.New()

	report, err := newTestPipeline(f, store).Run(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, store.Len())
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad", report.Failures[0].Slug)
}

type badDateFetcher struct {
	fakeFetcher
}

func (f *badDateFetcher) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	p, err := f.fakeFetcher.GetPost(ctx, slug)
	if err == nil && slug == "bad" {
		p.PubDate = "not a date"
	}
	return p, err
}

func TestPipeline_CancelledBetweenBatches(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := newTestPipeline(&fakeFetcher{slugs: slugList(3)}, contentstore.New()).Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateFailed, report.State)
}
