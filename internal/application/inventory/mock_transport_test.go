package inventory

import (
	"context"

	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// MockMaterialTransport is a mock implementation of inventory.MaterialTransport
type MockMaterialTransport struct {
	mock.Mock
}

var _ inventory.MaterialTransport = (*MockMaterialTransport)(nil)

func (m *MockMaterialTransport) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]inventory.Material, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) Get(ctx context.Context, id string, opts shared.ListOptions) (inventory.Material, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) Create(ctx context.Context, draft inventory.Material, w shared.WriteOptions) (inventory.Material, error) {
	args := m.Called(ctx, draft, w)
	return args.Get(0).(inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) Update(ctx context.Context, id string, patch inventory.MaterialPatch, w shared.WriteOptions) (inventory.Material, error) {
	args := m.Called(ctx, id, patch, w)
	return args.Get(0).(inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	args := m.Called(ctx, id, w)
	return args.Error(0)
}

func (m *MockMaterialTransport) Search(ctx context.Context, term string, limit int) ([]inventory.Material, error) {
	args := m.Called(ctx, term, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) LowStock(ctx context.Context) ([]inventory.Material, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Material), args.Error(1)
}

func (m *MockMaterialTransport) Statistics(ctx context.Context) (inventory.Statistics, error) {
	args := m.Called(ctx)
	return args.Get(0).(inventory.Statistics), args.Error(1)
}

// MockCategoryTransport is a mock implementation of inventory.CategoryTransport
type MockCategoryTransport struct {
	mock.Mock
}

var _ inventory.CategoryTransport = (*MockCategoryTransport)(nil)

func (m *MockCategoryTransport) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]inventory.Category, error) {
	args := m.Called(ctx, filter, opts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]inventory.Category), args.Error(1)
}

func (m *MockCategoryTransport) Get(ctx context.Context, id string, opts shared.ListOptions) (inventory.Category, error) {
	args := m.Called(ctx, id, opts)
	return args.Get(0).(inventory.Category), args.Error(1)
}

func (m *MockCategoryTransport) Create(ctx context.Context, draft inventory.Category, w shared.WriteOptions) (inventory.Category, error) {
	args := m.Called(ctx, draft, w)
	return args.Get(0).(inventory.Category), args.Error(1)
}

func (m *MockCategoryTransport) Update(ctx context.Context, id string, patch inventory.CategoryPatch, w shared.WriteOptions) (inventory.Category, error) {
	args := m.Called(ctx, id, patch, w)
	return args.Get(0).(inventory.Category), args.Error(1)
}

func (m *MockCategoryTransport) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	args := m.Called(ctx, id, w)
	return args.Error(0)
}
