package mocks

import (
	"context"

	"contentgw/internal/service"
	"github.com/stretchr/testify/mock"
)

type MockRevalidateService struct {
	mock.Mock
}

func (m *MockRevalidateService) Trigger(ctx context.Context, secret string) (*service.RevalidateResult, error) {
	args := m.Called(ctx, secret)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RevalidateResult), args.Error(1)
}
