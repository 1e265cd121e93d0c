package contentsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"contentgw/internal/config"
	"contentgw/internal/contentstore"
	"contentgw/internal/model"
)

// State is a stage of a synchronization run.
type State string

const (
	StateIdle          State = "idle"
	StateListing       State = "listing"
	StateFetching      State = "fetching"
	StateMaterializing State = "materializing"
	StateDone          State = "done"
	StateDegraded      State = "degraded"
	StateFailed        State = "failed"
)

const (
	defaultBatchSize = 10
	defaultListLimit = 500
)

// ErrListing marks a run that could not obtain the initial listing.
var ErrListing = errors.New("listing failed")

// Fetcher is the gateway as seen by the pipeline. *Client implements it.
type Fetcher interface {
	ListSlugs(ctx context.Context, limit int) ([]string, error)
	GetPost(ctx context.Context, slug string) (*model.Post, error)
}

// Renderer turns a raw body into HTML.
type Renderer interface {
	Render(body string) (string, error)
}

// Failure is an item dropped from a run.
type Failure struct {
	Slug string
	Err  error
}

// Report summarizes a run. State is Done when every listed item was loaded,
// Degraded when the store holds partial or no data, Failed when the run aborted.
type Report struct {
	State    State
	Listed   int
	Loaded   int
	Failures []Failure
	Elapsed  time.Duration
}

// Pipeline runs Listing, Fetching and Materializing against one store.
// Runs must not overlap; callers serialize them with contentstore.Lock.
type Pipeline struct {
	fetcher   Fetcher
	renderer  Renderer
	store     *contentstore.Store
	log       *zap.Logger
	batchSize int
	listLimit int
}

// NewPipeline wires a pipeline. A nil fetcher means no gateway is configured
// and every run degrades to an empty store.
func NewPipeline(fetcher Fetcher, renderer Renderer, store *contentstore.Store, cfg config.SyncConfig, log *zap.Logger) *Pipeline {
	p := &Pipeline{
		fetcher:   fetcher,
		renderer:  renderer,
		store:     store,
		log:       log.Named("sync"),
		batchSize: cfg.BatchSize,
		listLimit: cfg.ListLimit,
	}
	if p.batchSize <= 0 {
		p.batchSize = defaultBatchSize
	}
	if p.listLimit <= 0 {
		p.listLimit = defaultListLimit
	}
	return p
}

// Run rebuilds the store from the gateway. Only a listing failure returns an
// error; individual fetch failures are logged and dropped.
func (p *Pipeline) Run(ctx context.Context) (*Report, error) {
	start := time.Now()
	report := &Report{State: StateIdle}
	defer func() {
		report.Elapsed = time.Since(start)
		p.log.Info("sync finished",
			zap.String("state", string(report.State)),
			zap.Int("listed", report.Listed),
			zap.Int("loaded", report.Loaded),
			zap.Int("failed", len(report.Failures)),
			zap.Duration("elapsed", report.Elapsed),
		)
	}()

	if p.fetcher == nil {
		p.log.Warn("gateway URL not configured, materializing an empty content set")
		p.store.Replace(nil)
		report.State = StateDegraded
		return report, nil
	}

	report.State = StateListing
	slugs, err := p.fetcher.ListSlugs(ctx, p.listLimit)
	if err != nil {
		report.State = StateFailed
		return report, fmt.Errorf("%w: %w", ErrListing, err)
	}
	report.Listed = len(slugs)
	p.log.Info("listed posts", zap.Int("count", len(slugs)))

	report.State = StateFetching
	posts, err := p.fetch(ctx, slugs, report)
	if err != nil {
		report.State = StateFailed
		return report, err
	}

	report.State = StateMaterializing
	entries := p.materialize(posts, report)
	p.store.Replace(entries)
	report.Loaded = len(entries)

	report.State = StateDone
	if len(report.Failures) > 0 {
		report.State = StateDegraded
	}
	return report, nil
}

// fetch loads slugs in sequential batches. Requests inside a batch run
// concurrently and the batch completes only when all of them settle. The
// result keeps listing order with failed slots removed.
func (p *Pipeline) fetch(ctx context.Context, slugs []string, report *Report) ([]*model.Post, error) {
	out := make([]*model.Post, 0, len(slugs))
	for start := 0; start < len(slugs); start += p.batchSize {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("sync cancelled: %w", err)
		}
		batch := slugs[start:min(start+p.batchSize, len(slugs))]
		results := make([]*model.Post, len(batch))
		errs := make([]error, len(batch))

		var g errgroup.Group
		g.SetLimit(p.batchSize)
		for i, slug := range batch {
			g.Go(func() error {
				results[i], errs[i] = p.fetcher.GetPost(ctx, slug)
				return nil
			})
		}
		_ = g.Wait()

		for i, slug := range batch {
			if errs[i] != nil {
				p.drop(report, slug, errs[i])
				continue
			}
			out = append(out, results[i])
		}
	}
	return out, nil
}

func (p *Pipeline) materialize(posts []*model.Post, report *Report) []contentstore.Entry {
	entries := make([]contentstore.Entry, 0, len(posts))
	for _, post := range posts {
		data, err := post.Data()
		if err != nil {
			p.drop(report, post.Slug, err)
			continue
		}
		html, err := p.renderer.Render(post.Body)
		if err != nil {
			p.drop(report, post.Slug, err)
			continue
		}
		entries = append(entries, contentstore.Entry{
			ID:       post.Slug,
			Data:     data,
			Body:     post.Body,
			Rendered: contentstore.Rendered{HTML: html},
		})
	}
	return entries
}

func (p *Pipeline) drop(report *Report, slug string, err error) {
	p.log.Warn("dropping post", zap.String("slug", slug), zap.Error(err))
	report.Failures = append(report.Failures, Failure{Slug: slug, Err: err})
}
