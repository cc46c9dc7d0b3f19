package shared

// Entity is the base interface for all business records handled by the client core
type Entity interface {
	GetID() string
}

// Identifiable is an entity that can produce a copy of itself under a different ID.
// The optimistic create path uses it to stamp temporary IDs onto drafts.
type Identifiable[T any] interface {
	Entity
	WithID(id string) T
}

// IndexByID returns the position of the entity with the given ID, or -1
func IndexByID[T Entity](items []T, id string) int {
	for i, item := range items {
		if item.GetID() == id {
			return i
		}
	}
	return -1
}
