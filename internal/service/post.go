package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"contentgw/internal/config"
	"contentgw/internal/frontmatter"
	"contentgw/internal/model"
	"contentgw/internal/storage"
)

const (
	// MaxListKeys caps how many keys a single listing enumerates.
	MaxListKeys     = 500
	MaxListLimit    = 500
	DefaultPageSize = 50

	defaultListConcurrency = 16
)

// ListQuery selects a window over the published posts.
type ListQuery struct {
	Tag    string
	Limit  int
	Offset int
}

// PostListResult is the paginated listing returned to clients.
type PostListResult struct {
	Total  int              `json:"total"`
	Offset int              `json:"offset"`
	Limit  int              `json:"limit"`
	Posts  []model.PostMeta `json:"posts"`
}

// PostService exposes published articles.
type PostService interface {
	// List returns published posts, newest first, optionally filtered by tag.
	// Drafts and posts with invalid frontmatter are never listed.
	List(ctx context.Context, q ListQuery) (*PostListResult, error)

	// Get returns a single published post with its body. Missing and draft posts
	// yield ErrNotFound; invalid frontmatter yields ErrUnprocessable.
	Get(ctx context.Context, slug string) (*model.Post, error)
}

type decoded struct {
	md   frontmatter.Metadata
	body string
}

type postService struct {
	store       storage.Storage
	cache       *lru.Cache[string, decoded]
	concurrency int
}

// NewPostService constructs a PostService. Decoded objects are cached by key
// and ETag, so unchanged objects are not downloaded again.
func NewPostService(store storage.Storage, cfg config.ContentConfig) (PostService, error) {
	size := cfg.DecodeCacheSize
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, decoded](size)
	if err != nil {
		return nil, fmt.Errorf("create decode cache: %w", err)
	}
	concurrency := cfg.ListConcurrency
	if concurrency <= 0 {
		concurrency = defaultListConcurrency
	}
	return &postService{store: store, cache: cache, concurrency: concurrency}, nil
}

func (s *postService) List(ctx context.Context, q ListQuery) (*PostListResult, error) {
	q = normalize(q)

	objs, err := s.store.List(ctx, storage.PostPrefix, MaxListKeys)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	// Each slot keeps its enumeration index so the sort below is stable
	// with respect to store order.
	slots := make([]*model.PostMeta, len(objs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, obj := range objs {
		slug, ok := storage.SlugFromKey(obj.Key)
		if !ok {
			continue
		}
		g.Go(func() error {
			d, err := s.load(gctx, obj.Key, obj.ETag)
			if errors.Is(err, storage.ErrNotFound) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("load %s: %w", obj.Key, err)
			}
			meta, err := model.NewPostMeta(slug, d.md)
			if err != nil || meta.Draft {
				return nil
			}
			slots[i] = &meta
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	posts := make([]model.PostMeta, 0, len(slots))
	for _, m := range slots {
		if m != nil {
			posts = append(posts, *m)
		}
	}
	sort.SliceStable(posts, func(a, b int) bool {
		return posts[a].Published().After(posts[b].Published())
	})
	if q.Tag != "" {
		filtered := posts[:0]
		for _, p := range posts {
			if p.HasTag(q.Tag) {
				filtered = append(filtered, p)
			}
		}
		posts = filtered
	}

	total := len(posts)
	start := min(q.Offset, total)
	end := min(start+q.Limit, total)
	return &PostListResult{
		Total:  total,
		Offset: q.Offset,
		Limit:  q.Limit,
		Posts:  posts[start:end],
	}, nil
}

func (s *postService) Get(ctx context.Context, slug string) (*model.Post, error) {
	if slug == "" {
		return nil, ErrNotFound
	}
	d, err := s.load(ctx, storage.PostKey(slug), "")
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	meta, err := model.NewPostMeta(slug, d.md)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnprocessable, err)
	}
	if meta.Draft {
		return nil, ErrNotFound
	}
	return &model.Post{PostMeta: meta, Body: d.body}, nil
}

// load returns the decoded object, serving from cache when etag is known and
// unchanged.
func (s *postService) load(ctx context.Context, key, etag string) (decoded, error) {
	if etag != "" {
		if d, ok := s.cache.Get(cacheKey(key, etag)); ok {
			return d, nil
		}
	}

	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		return decoded{}, err
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return decoded{}, fmt.Errorf("read %s: %w", key, err)
	}
	md, body := frontmatter.Decode(string(raw))
	d := decoded{md: md, body: body}
	if info.ETag != "" {
		s.cache.Add(cacheKey(key, info.ETag), d)
	}
	return d, nil
}

func cacheKey(key, etag string) string {
	return key + "\x00" + etag
}

func normalize(q ListQuery) ListQuery {
	switch {
	case q.Limit < 0:
		q.Limit = 0
	case q.Limit > MaxListLimit:
		q.Limit = MaxListLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	return q
}
