package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"contentgw/internal/config"
)

// RevalidateResult acknowledges a triggered rebuild.
type RevalidateResult struct {
	OK        bool      `json:"ok"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// RevalidateService authenticates rebuild requests and fires the deploy hook.
type RevalidateService interface {
	// Trigger fires the deploy hook once. A wrong or unconfigured secret yields
	// ErrUnauthorized; a failing hook yields *HookError. There is no retry.
	Trigger(ctx context.Context, secret string) (*RevalidateResult, error)
}

type revalidateService struct {
	secret string
	hook   string
	client *http.Client
	now    func() time.Time
}

// NewRevalidateService constructs a RevalidateService. A nil client gets a
// traced client bounded by cfg.Timeout.
func NewRevalidateService(cfg config.RevalidateConfig, client *http.Client) RevalidateService {
	if client == nil {
		client = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	return &revalidateService{
		secret: cfg.Secret,
		hook:   cfg.DeployHookURL,
		client: client,
		now:    time.Now,
	}
}

func (s *revalidateService) Trigger(ctx context.Context, secret string) (*RevalidateResult, error) {
	if s.secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(s.secret)) != 1 {
		return nil, ErrUnauthorized
	}

	if s.hook != "" {
		if err := s.fire(ctx); err != nil {
			return nil, err
		}
	}

	return &RevalidateResult{
		OK:        true,
		Message:   "Revalidation triggered",
		Timestamp: s.now().UTC(),
	}, nil
}

func (s *revalidateService) fire(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.hook, nil)
	if err != nil {
		return &HookError{Err: fmt.Errorf("build request: %w", err)}
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return &HookError{Err: err}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HookError{Status: resp.StatusCode}
	}
	return nil
}
