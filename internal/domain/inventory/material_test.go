package inventory

import (
	"errors"
	"testing"

	"github.com/erp/inventory/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func decPtr(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func TestNewMaterial(t *testing.T) {
	t.Run("creates active draft with zero stock", func(t *testing.T) {
		m, err := NewMaterial(" cem-01 ", "Cement", "kg")
		require.NoError(t, err)

		assert.Equal(t, "CEM-01", m.Code)
		assert.Equal(t, "Cement", m.Name)
		assert.Equal(t, "kg", m.Unit)
		assert.True(t, m.Active)
		assert.True(t, m.Stock.IsZero())
		assert.Empty(t, m.ID)
	})

	t.Run("fails with empty code", func(t *testing.T) {
		_, err := NewMaterial("", "Cement", "kg")
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "code", domainErr.Field)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewMaterial("CEM", "  ", "kg")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})
}

func TestMaterial_Validate(t *testing.T) {
	m := Material{Code: "SAND", Name: "Sand", Unit: "m3", Stock: decimal.NewFromInt(-1)}
	err := m.Validate()
	require.Error(t, err)

	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr))
	assert.Equal(t, "stock", domainErr.Field)
	assert.Equal(t, shared.ErrNegativeStock.Code, domainErr.Code)
}

func TestMaterial_StockQueries(t *testing.T) {
	tests := []struct {
		name     string
		stock    int64
		minStock int64
		low      bool
		hasStock bool
	}{
		{"no minimum configured", 0, 0, false, false},
		{"below minimum", 3, 10, true, true},
		{"at minimum", 10, 10, true, true},
		{"above minimum", 11, 10, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Material{Stock: decimal.NewFromInt(tt.stock), MinStock: decimal.NewFromInt(tt.minStock)}
			assert.Equal(t, tt.low, m.IsLowStock())
			assert.Equal(t, tt.hasStock, m.HasStock())
		})
	}
}

func TestMaterial_MatchesFilter(t *testing.T) {
	m := Material{ID: "m1", Code: "PNT-01", Name: "White paint", CategoryID: "c1", Active: true}

	assert.True(t, m.MatchesFilter(shared.Filter{}, shared.ListOptions{}))
	assert.True(t, m.MatchesFilter(shared.Filter{Search: "paint"}, shared.ListOptions{}))
	assert.True(t, m.MatchesFilter(shared.Filter{Search: "pnt"}, shared.ListOptions{}))
	assert.False(t, m.MatchesFilter(shared.Filter{Search: "cement"}, shared.ListOptions{}))
	assert.True(t, m.MatchesFilter(shared.Filter{}.With(FilterCategoryID, "c1"), shared.ListOptions{}))
	assert.False(t, m.MatchesFilter(shared.Filter{}.With(FilterCategoryID, "c2"), shared.ListOptions{}))

	inactive := m
	inactive.Active = false
	assert.False(t, inactive.MatchesFilter(shared.Filter{}, shared.ListOptions{}))
	assert.True(t, inactive.MatchesFilter(shared.Filter{}, shared.ListOptions{IncludeInactive: true}))
}

func TestMaterialPatch_Apply(t *testing.T) {
	original := Material{ID: "m1", Code: "A", Name: "Old", Unit: "kg", Stock: decimal.NewFromInt(5), Active: true}

	t.Run("writes only non-nil fields", func(t *testing.T) {
		patch := MaterialPatch{Name: strPtr("New"), Stock: decPtr(9)}
		merged := patch.Apply(original)

		assert.Equal(t, "New", merged.Name)
		assert.True(t, decimal.NewFromInt(9).Equal(merged.Stock))
		assert.Equal(t, "A", merged.Code)
		assert.Equal(t, "kg", merged.Unit)
		assert.Equal(t, "m1", merged.ID)
	})

	t.Run("does not mutate the original", func(t *testing.T) {
		_ = MergeMaterial(original, MaterialPatch{Name: strPtr("Changed")})
		assert.Equal(t, "Old", original.Name)
	})

	t.Run("uppercases code", func(t *testing.T) {
		merged := MaterialPatch{Code: strPtr("abc")}.Apply(original)
		assert.Equal(t, "ABC", merged.Code)
	})

	t.Run("empty patch", func(t *testing.T) {
		assert.True(t, MaterialPatch{}.IsEmpty())
		assert.False(t, MaterialPatch{Unit: strPtr("l")}.IsEmpty())
	})

	t.Run("rejects negative min stock", func(t *testing.T) {
		err := MaterialPatch{MinStock: decPtr(-2)}.Validate()
		require.Error(t, err)
	})
}

func TestComputeStatistics(t *testing.T) {
	materials := []Material{
		{ID: "1", Active: true, Stock: decimal.NewFromInt(10), MinStock: decimal.NewFromInt(5), CategoryID: "c1"},
		{ID: "2", Active: true, Stock: decimal.NewFromInt(2), MinStock: decimal.NewFromInt(5), CategoryID: "c1"},
		{ID: "3", Active: false, Stock: decimal.Zero, CategoryID: "c2"},
	}

	stats := ComputeStatistics(materials)

	assert.Equal(t, int64(3), stats.TotalMaterials)
	assert.Equal(t, int64(2), stats.ActiveMaterials)
	assert.Equal(t, int64(1), stats.InactiveMaterials)
	assert.Equal(t, int64(1), stats.LowStockCount)
	assert.Equal(t, int64(1), stats.OutOfStockCount)
	assert.True(t, decimal.NewFromInt(12).Equal(stats.TotalStock))
	assert.Equal(t, int64(2), stats.ByCategory["c1"])
}

func TestCatalogPatches(t *testing.T) {
	c := Category{ID: "c1", Name: "Paints", Active: true}
	inactive := false
	merged := MergeCategory(c, CategoryPatch{Active: &inactive})
	assert.False(t, merged.Active)
	assert.True(t, c.Active)

	p, err := NewPresentation("Bag", "bg")
	require.NoError(t, err)
	assert.Equal(t, "BG", p.Abbreviation)
	p = MergePresentation(p.WithID("p1"), PresentationPatch{Name: strPtr("Sack")})
	assert.Equal(t, "Sack", p.Name)
	assert.Equal(t, "p1", p.GetID())

	_, err = NewCategory("", "")
	require.Error(t, err)
}
