package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"contentgw/internal/config"
	"contentgw/internal/storage"
	"contentgw/internal/transform"
)

// Object is a binary payload streamed back to the client. The caller owns Body.
type Object struct {
	Body        io.ReadCloser
	Info        storage.ObjectInfo
	ContentType string
	// Filename is set for downloads and carried in Content-Disposition.
	Filename string
}

// AssetService serves binary objects from the image, file and asset namespaces.
type AssetService interface {
	// ImageURL checks that the image exists and returns where the client should be redirected.
	ImageURL(ctx context.Context, path string, req transform.Request) (string, error)
	// File opens a downloadable file.
	File(ctx context.Context, path string) (*Object, error)
	// Asset opens a site asset.
	Asset(ctx context.Context, path string) (*Object, error)
}

type assetService struct {
	store         storage.Storage
	publicBase    string
	transformBase string
}

// NewAssetService constructs an AssetService.
func NewAssetService(store storage.Storage, cfg config.ContentConfig) AssetService {
	return &assetService{
		store:         store,
		publicBase:    cfg.PublicBaseURL,
		transformBase: cfg.ImageTransformBaseURL,
	}
}

func (s *assetService) ImageURL(ctx context.Context, path string, req transform.Request) (string, error) {
	if path == "" {
		return "", ErrNotFound
	}
	key := storage.ImageKey(path)
	// A metadata probe is enough; the bytes are fetched by the edge service.
	if _, err := s.store.Head(ctx, key); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("head %s: %w", key, err)
	}
	return req.URL(s.transformBase, s.publicBase+"/"+key), nil
}

func (s *assetService) File(ctx context.Context, path string) (*Object, error) {
	obj, err := s.open(ctx, storage.FileKey(path), path)
	if err != nil {
		return nil, err
	}
	obj.Filename = storage.BaseName(path)
	return obj, nil
}

func (s *assetService) Asset(ctx context.Context, path string) (*Object, error) {
	return s.open(ctx, storage.AssetKey(path), path)
}

func (s *assetService) open(ctx context.Context, key, path string) (*Object, error) {
	if path == "" {
		return nil, ErrNotFound
	}
	rc, info, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return &Object{Body: rc, Info: info, ContentType: storage.ContentType(path)}, nil
}
