package inventory

import (
	"context"

	"github.com/erp/inventory/internal/domain/shared"
)

// Transport is the request/response bridge to the backend for one entity collection.
// Implementations report failures as plain errors carrying only a human-readable
// message; callers must not rely on structured codes.
type Transport[T shared.Entity, P any] interface {
	List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]T, error)
	Get(ctx context.Context, id string, opts shared.ListOptions) (T, error)
	Create(ctx context.Context, draft T, w shared.WriteOptions) (T, error)
	Update(ctx context.Context, id string, patch P, w shared.WriteOptions) (T, error)
	Delete(ctx context.Context, id string, w shared.WriteOptions) error
}

// MaterialTransport adds the material-specific reads
type MaterialTransport interface {
	Transport[Material, MaterialPatch]
	Search(ctx context.Context, term string, limit int) ([]Material, error)
	LowStock(ctx context.Context) ([]Material, error)
	Statistics(ctx context.Context) (Statistics, error)
}

// CategoryTransport is the bridge for categories
type CategoryTransport interface {
	Transport[Category, CategoryPatch]
}

// PresentationTransport is the bridge for presentations
type PresentationTransport interface {
	Transport[Presentation, PresentationPatch]
}
