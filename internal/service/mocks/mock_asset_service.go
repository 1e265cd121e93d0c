package mocks

import (
	"context"

	"contentgw/internal/service"
	"contentgw/internal/transform"
	"github.com/stretchr/testify/mock"
)

type MockAssetService struct {
	mock.Mock
}

func (m *MockAssetService) ImageURL(ctx context.Context, path string, req transform.Request) (string, error) {
	args := m.Called(ctx, path, req)
	return args.String(0), args.Error(1)
}

func (m *MockAssetService) File(ctx context.Context, path string) (*service.Object, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Object), args.Error(1)
}

func (m *MockAssetService) Asset(ctx context.Context, path string) (*service.Object, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.Object), args.Error(1)
}
