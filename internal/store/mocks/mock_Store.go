// Package mocks provides test doubles for the store.
package mocks

import (
	"context"

	db "github.com/sells-group/taco-index/internal/db"
	model "github.com/sells-group/taco-index/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockStore is a mock type for the Store interface.
type MockStore struct {
	mock.Mock
}

// InsertIgnore provides a mock function with given fields: ctx, table, row
func (_m *MockStore) InsertIgnore(ctx context.Context, table string, row *db.Row) (bool, error) {
	ret := _m.Called(ctx, table, row)

	if len(ret) == 0 {
		panic("no return value specified for InsertIgnore")
	}

	if rf, ok := ret.Get(0).(func(context.Context, string, *db.Row) (bool, error)); ok {
		return rf(ctx, table, row)
	}
	return ret.Bool(0), ret.Error(1)
}

// EnsureColumns provides a mock function with given fields: ctx, table, cols
func (_m *MockStore) EnsureColumns(ctx context.Context, table string, cols []db.Column) error {
	ret := _m.Called(ctx, table, cols)

	if len(ret) == 0 {
		panic("no return value specified for EnsureColumns")
	}
	return ret.Error(0)
}

// LoadDataset provides a mock function with given fields: ctx
func (_m *MockStore) LoadDataset(ctx context.Context) (*model.Dataset, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for LoadDataset")
	}

	var r0 *model.Dataset
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Dataset)
	}
	return r0, ret.Error(1)
}

// Migrate provides a mock function with given fields: ctx
func (_m *MockStore) Migrate(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Migrate")
	}
	return ret.Error(0)
}

// Reset provides a mock function with given fields: ctx
func (_m *MockStore) Reset(ctx context.Context) error {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Reset")
	}
	return ret.Error(0)
}

// Close provides a mock function with no fields
func (_m *MockStore) Close() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Close")
	}
	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore. It also registers a testing
// interface on the mock and a cleanup function to assert the mocks expectations.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
