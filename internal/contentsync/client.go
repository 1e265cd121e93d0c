// Package contentsync pulls every published article from the gateway into a
// local content store.
package contentsync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"contentgw/internal/config"
	"contentgw/internal/model"
)

// SecretHeader authenticates sync requests when a gateway secret is configured.
const SecretHeader = "X-Revalidate-Secret"

const maxErrorBody = 512

// StatusError is a non-2xx gateway response that survived the retry policy.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway responded %d: %s", e.Code, e.Body)
}

// Client talks to the gateway with per-request retries. Transport failures,
// timeouts and 5xx responses are retried with linear backoff; 4xx fail at once.
type Client struct {
	base   string
	secret string
	http   *retryablehttp.Client
}

// NewClient configures the retrying client from cfg.
func NewClient(cfg config.SyncConfig, log *zap.Logger) *Client {
	httpClient := retryablehttp.NewClient()
	httpClient.HTTPClient = &http.Client{
		Timeout:   cfg.RequestTimeout,
		Transport: otelhttp.NewTransport(cleanhttp.DefaultPooledTransport()),
	}
	httpClient.RetryMax = max(cfg.MaxAttempts-1, 0)
	httpClient.RetryWaitMin = cfg.RetryWait
	httpClient.RetryWaitMax = cfg.RetryWait * time.Duration(max(cfg.MaxAttempts, 1))
	httpClient.Backoff = linearBackoff
	httpClient.CheckRetry = checkRetry
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient.Logger = newLeveledLogger(log.Named("sync.http"))

	return &Client{base: cfg.GatewayURL, secret: cfg.GatewaySecret, http: httpClient}
}

// linearBackoff waits (n+1) x min before retry n, so the first retry waits
// min and the second twice that.
func linearBackoff(min, _ time.Duration, attemptNum int, _ *http.Response) time.Duration {
	return time.Duration(attemptNum+1) * min
}

func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}
	return resp.StatusCode >= http.StatusInternalServerError, nil
}

type listResponse struct {
	Posts []struct {
		Slug string `json:"slug"`
	} `json:"posts"`
}

// ListSlugs returns up to limit published slugs in gateway order.
func (c *Client) ListSlugs(ctx context.Context, limit int) ([]string, error) {
	var res listResponse
	if err := c.getJSON(ctx, "/posts?limit="+strconv.Itoa(limit), &res); err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	slugs := make([]string, 0, len(res.Posts))
	for _, p := range res.Posts {
		slugs = append(slugs, p.Slug)
	}
	return slugs, nil
}

// GetPost fetches one article with its body.
func (c *Client) GetPost(ctx context.Context, slug string) (*model.Post, error) {
	var p model.Post
	if err := c.getJSON(ctx, "/posts/"+url.PathEscape(slug), &p); err != nil {
		return nil, fmt.Errorf("get post %s: %w", slug, err)
	}
	return &p, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create a new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.secret != "" {
		req.Header.Set(SecretHeader, c.secret)
	}

	return c.do(req, out)
}

func (c *Client) do(req *retryablehttp.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

type revalidateResponse struct {
	Message string `json:"message"`
}

// Revalidate asks the gateway to fire its deploy hook and returns the
// acknowledgement message. A hook failure (502) is retried like any 5xx.
func (c *Client) Revalidate(ctx context.Context) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, c.base+"/revalidate", nil)
	if err != nil {
		return "", fmt.Errorf("failed to create a new request: %w", err)
	}
	req.Header.Set(SecretHeader, c.secret)

	var res revalidateResponse
	if err := c.do(req, &res); err != nil {
		return "", fmt.Errorf("revalidate: %w", err)
	}
	return res.Message, nil
}
