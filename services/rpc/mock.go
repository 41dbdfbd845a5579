package rpc

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/florin-chain/florind/util"
)

// MockFeeSource implements FeeSource for tests.
type MockFeeSource struct {
	mock.Mock
}

func NewMockFeeSource() *MockFeeSource {
	return &MockFeeSource{}
}

func (m *MockFeeSource) FeeStats(ctx context.Context, height int32) ([]util.WeightedValue, int64, error) {
	args := m.Called(ctx, height)

	samples, _ := args.Get(0).([]util.WeightedValue)

	return samples, args.Get(1).(int64), args.Error(2)
}
