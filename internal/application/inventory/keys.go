package inventory

import (
	"encoding/json"
	"strconv"

	"github.com/erp/inventory/internal/domain/shared"
)

// Cache key families. Every key of a collection starts with "<collection>:".
const (
	keyList       = "list_"
	keyDetail     = "detail_"
	keySearch     = "search_"
	keyLowStock   = "low_stock"
	keyStatistics = "statistics"
)

func listKey(collection string, filter shared.Filter, opts shared.ListOptions) string {
	// map keys are marshalled in sorted order, so equal filters give equal keys
	b, err := json.Marshal(filter)
	if err != nil {
		b = []byte(filter.Search)
	}
	return collection + ":" + keyList + string(b) + "_" + opts.Scope()
}

func detailKey(collection, id string, opts shared.ListOptions) string {
	return collection + ":" + keyDetail + id + "_" + opts.Scope()
}

func searchKey(collection, term string, limit int) string {
	return collection + ":" + keySearch + term + "_" + strconv.Itoa(limit)
}

func lowStockKey(collection string) string {
	return collection + ":" + keyLowStock
}

func statisticsKey(collection string) string {
	return collection + ":" + keyStatistics
}

// viewPrefixes returns every prefix that may hold a view containing id.
// An empty id skips the detail family.
func viewPrefixes(collection, id string) []string {
	prefixes := []string{
		collection + ":" + keyList,
		collection + ":" + keySearch,
		collection + ":" + keyLowStock,
		collection + ":" + keyStatistics,
	}
	if id != "" {
		prefixes = append(prefixes, collection+":"+keyDetail+id+"_")
	}
	return prefixes
}
