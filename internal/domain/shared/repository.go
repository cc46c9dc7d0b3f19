package shared

// Filter represents query filter options passed through to the backend
type Filter struct {
	Page     int               `json:"page,omitempty"`
	PageSize int               `json:"page_size,omitempty"`
	OrderBy  string            `json:"order_by,omitempty"`
	OrderDir string            `json:"order_dir,omitempty"`
	Search   string            `json:"search,omitempty"`
	Filters  map[string]string `json:"filters,omitempty"`
}

// Value returns a named filter value, or "" when unset
func (f Filter) Value(name string) string {
	if f.Filters == nil {
		return ""
	}
	return f.Filters[name]
}

// With returns a copy of the filter with the named value set
func (f Filter) With(name, value string) Filter {
	filters := make(map[string]string, len(f.Filters)+1)
	for k, v := range f.Filters {
		filters[k] = v
	}
	filters[name] = value
	f.Filters = filters
	return f
}

// ListOptions controls which records a read returns
type ListOptions struct {
	// IncludeInactive includes soft-excluded records in list/get results
	IncludeInactive bool `json:"include_inactive"`
}

// Scope returns the cache key scope for the options
func (o ListOptions) Scope() string {
	if o.IncludeInactive {
		return "all"
	}
	return "active"
}

// WriteOptions carries audit data threaded through mutations.
// The core never inspects ActorID; it is handed to the transport unchanged.
type WriteOptions struct {
	ActorID string `json:"actor_id,omitempty"`
}
