package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFacade_Lifecycle(t *testing.T) {
	materials := new(MockMaterialTransport)
	categories := new(MockCategoryTransport)
	materials.On("List", mock.Anything, noFilter, active).Return([]inventory.Material{cement()}, nil).Once()
	categories.On("List", mock.Anything, noFilter, active).Return([]inventory.Category{{ID: "c-1", Name: "Binders", Active: true}}, nil).Once()

	store := cache.NewStore()
	f := NewFacade(Transports{Materials: materials, Categories: categories}, Deps{
		Store:  store,
		Logger: zap.NewNop(),
	}, Settings{SweepInterval: time.Hour})
	f.Start()

	ctx := context.Background()
	_, err := f.Materials.List(ctx, noFilter, active)
	require.NoError(t, err)
	_, err = f.Categories.List(ctx, noFilter, active)
	require.NoError(t, err)
	_, err = f.Materials.List(ctx, noFilter, active)
	require.NoError(t, err)

	stats := f.CacheStats()
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
	assert.False(t, f.HasPending())

	// collections keep separate key spaces
	assert.Equal(t, MaterialsCollection, f.Materials.Name())
	assert.Equal(t, CategoriesCollection, f.Categories.Name())

	require.NoError(t, f.Close())
	require.NoError(t, f.Close())
}

func TestFacade_ValidatesByDefault(t *testing.T) {
	f := NewFacade(Transports{Materials: new(MockMaterialTransport)}, Deps{}, Settings{})
	defer f.Close()

	_, err := f.Materials.Create(context.Background(), inventory.Material{}, noWrite)
	assert.Error(t, err)
}
