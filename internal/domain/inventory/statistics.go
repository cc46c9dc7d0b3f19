package inventory

import "github.com/shopspring/decimal"

// Statistics summarizes the material inventory for the dashboard
type Statistics struct {
	TotalMaterials    int64            `json:"total_materials"`
	ActiveMaterials   int64            `json:"active_materials"`
	InactiveMaterials int64            `json:"inactive_materials"`
	LowStockCount     int64            `json:"low_stock_count"`
	OutOfStockCount   int64            `json:"out_of_stock_count"`
	TotalStock        decimal.Decimal  `json:"total_stock"`
	ByCategory        map[string]int64 `json:"by_category,omitempty"`
}

// ComputeStatistics aggregates statistics over a set of materials
func ComputeStatistics(materials []Material) Statistics {
	stats := Statistics{
		TotalStock: decimal.Zero,
		ByCategory: make(map[string]int64),
	}
	for _, m := range materials {
		stats.TotalMaterials++
		if m.Active {
			stats.ActiveMaterials++
		} else {
			stats.InactiveMaterials++
		}
		if m.IsLowStock() {
			stats.LowStockCount++
		}
		if !m.HasStock() {
			stats.OutOfStockCount++
		}
		stats.TotalStock = stats.TotalStock.Add(m.Stock)
		if m.CategoryID != "" {
			stats.ByCategory[m.CategoryID]++
		}
	}
	return stats
}
