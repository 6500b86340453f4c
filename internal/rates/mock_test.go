package rates

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/valoruf/valoruf/internal/cmf"
	"github.com/valoruf/valoruf/internal/store"
)

// --- Store Mock ---

type mockStore struct {
	mock.Mock
}

func (m *mockStore) Get(ctx context.Context, date string) (*store.Entry, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*store.Entry), args.Error(1)
}

func (m *mockStore) Put(ctx context.Context, e store.Entry) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *mockStore) PutBatch(ctx context.Context, entries []store.Entry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *mockStore) All(ctx context.Context) ([]store.Entry, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.Entry), args.Error(1)
}

func (m *mockStore) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockStore) Migrate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- CMF Mock ---

type mockCMF struct {
	mock.Mock
}

func (m *mockCMF) Value(ctx context.Context, day time.Time) (float64, error) {
	args := m.Called(ctx, day)
	return args.Get(0).(float64), args.Error(1)
}

// --- Ensure interface compliance ---
var (
	_ store.Store = (*mockStore)(nil)
	_ cmf.Client  = (*mockCMF)(nil)
)
