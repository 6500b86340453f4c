package server

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/valoruf/valoruf/internal/rates"
)

// --- RateService Mock ---

type mockRateService struct {
	mock.Mock
}

func (m *mockRateService) Value(ctx context.Context, date string) (rates.Result, error) {
	args := m.Called(ctx, date)
	return args.Get(0).(rates.Result), args.Error(1)
}

func (m *mockRateService) Range(ctx context.Context, start, end string) ([]rates.Result, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rates.Result), args.Error(1)
}

func (m *mockRateService) Cached(ctx context.Context) ([]rates.Result, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]rates.Result), args.Error(1)
}

func (m *mockRateService) CacheSize(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockRateService) Stats() rates.Stats {
	args := m.Called()
	return args.Get(0).(rates.Stats)
}

// --- Ensure interface compliance ---
var _ RateService = (*mockRateService)(nil)
