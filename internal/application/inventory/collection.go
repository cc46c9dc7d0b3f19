package inventory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/erp/inventory/internal/application/optimistic"
	"github.com/erp/inventory/internal/domain/failure"
	"github.com/erp/inventory/internal/domain/inventory"
	"github.com/erp/inventory/internal/domain/shared"
	"github.com/erp/inventory/internal/infrastructure/cache"
	"github.com/erp/inventory/internal/infrastructure/logger"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TempIDPrefix marks IDs assigned to optimistic creates before the backend answers
const TempIDPrefix = "temp_"

// Deps are the shared collaborators of every collection
type Deps struct {
	Store       *cache.Store
	Snapshots   cache.SnapshotStore
	Classifier  *failure.Classifier
	Validator   *validator.Validate
	Logger      *zap.Logger
	GraceWindow time.Duration
	Clock       func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Store == nil {
		d.Store = cache.NewStore()
	}
	if d.Snapshots == nil {
		d.Snapshots = cache.NewInMemorySnapshotStore(0, 0)
	}
	if d.Classifier == nil {
		d.Classifier = failure.NewClassifier()
	}
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Clock == nil {
		d.Clock = time.Now
	}
	return d
}

// DeleteGuard inspects the current record before a delete and returns a typed
// error to refuse it without calling the backend
type DeleteGuard[T any] func(current T) error

// Matcher reports whether a record belongs to a list view
type Matcher[T any] func(item T, filter shared.Filter, opts shared.ListOptions) bool

// CollectionOption is a functional option for configuring a collection
type CollectionOption[T shared.Identifiable[T], P any] func(*Collection[T, P])

// WithTTL overrides the cache TTL for the collection's reads
func WithTTL[T shared.Identifiable[T], P any](ttl time.Duration) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.ttl = ttl
	}
}

// WithIDGenerator sets the generator for temporary create IDs
func WithIDGenerator[T shared.Identifiable[T], P any](gen func() string) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.newID = gen
	}
}

// WithDescribe sets how a record is named in error messages
func WithDescribe[T shared.Identifiable[T], P any](describe func(T) string) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.describe = describe
	}
}

// WithDeleteGuard sets the check run before every delete
func WithDeleteGuard[T shared.Identifiable[T], P any](guard DeleteGuard[T]) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.guard = guard
	}
}

// WithMatcher sets the list view predicate applied after the optimistic overlay
func WithMatcher[T shared.Identifiable[T], P any](match Matcher[T]) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.match = match
	}
}

// WithDraftCheck sets an extra check run on create drafts after tag validation
func WithDraftCheck[T shared.Identifiable[T], P any](check func(T) error) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.checkDraft = check
	}
}

// WithPatchCheck sets an extra check run on update patches after tag validation
func WithPatchCheck[T shared.Identifiable[T], P any](check func(P) error) CollectionOption[T, P] {
	return func(c *Collection[T, P]) {
		c.checkPatch = check
	}
}

// Collection is the data access surface of one entity type. Reads go through
// the cache and are overlaid with in-flight mutations; writes are applied
// optimistically and every failure is returned as a failure.Error.
type Collection[T shared.Identifiable[T], P any] struct {
	name       string
	transport  inventory.Transport[T, P]
	ledger     *optimistic.Ledger[T, P]
	store      *cache.Store
	snapshots  cache.SnapshotStore
	classifier *failure.Classifier
	validate   *validator.Validate
	logger     *zap.Logger

	ttl        time.Duration
	newID      func() string
	describe   func(T) string
	guard      DeleteGuard[T]
	match      Matcher[T]
	checkDraft func(T) error
	checkPatch func(P) error

	mu        sync.Mutex
	rollbacks map[string]T
}

// NewCollection creates a collection named name over transport
func NewCollection[T shared.Identifiable[T], P any](
	name string,
	transport inventory.Transport[T, P],
	merge optimistic.MergeFunc[T, P],
	deps Deps,
	opts ...CollectionOption[T, P],
) *Collection[T, P] {
	deps = deps.withDefaults()
	log := deps.Logger.With(zap.String(logger.FieldCollection, name))

	c := &Collection[T, P]{
		name:      name,
		transport: transport,
		ledger: optimistic.NewLedger(merge,
			optimistic.WithGraceWindow(graceOrDefault(deps.GraceWindow)),
			optimistic.WithClock(deps.Clock),
			optimistic.WithLogger(deps.Logger),
			optimistic.WithName(name),
		),
		store:      deps.Store,
		snapshots:  deps.Snapshots,
		classifier: deps.Classifier,
		validate:   deps.Validator,
		logger:     log,
		newID:      func() string { return TempIDPrefix + uuid.NewString() },
		rollbacks:  make(map[string]T),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func graceOrDefault(d time.Duration) time.Duration {
	if d == 0 {
		return optimistic.DefaultGraceWindow
	}
	return d
}

// Name returns the collection name used as cache key prefix
func (c *Collection[T, P]) Name() string {
	return c.name
}

// Classifier returns the classifier that types this collection's failures
func (c *Collection[T, P]) Classifier() *failure.Classifier {
	return c.classifier
}

// List returns the records matching filter with in-flight mutations applied
func (c *Collection[T, P]) List(ctx context.Context, filter shared.Filter, opts shared.ListOptions) ([]T, error) {
	return read(ctx, c, listKey(c.name, filter, opts), c.ttl,
		func(ctx context.Context) ([]T, error) {
			return c.transport.List(ctx, filter, opts)
		},
		func(items []T) ([]T, error) {
			return c.filter(c.ledger.ApplyTo(items), filter, opts), nil
		},
		failure.Context{Operation: "list"},
	)
}

// ListActive lists active records only. It shares cache keys with List.
func (c *Collection[T, P]) ListActive(ctx context.Context, filter shared.Filter) ([]T, error) {
	return c.List(ctx, filter, shared.ListOptions{IncludeInactive: false})
}

// Get returns one record with in-flight mutations applied
func (c *Collection[T, P]) Get(ctx context.Context, id string, opts shared.ListOptions) (T, error) {
	// a pending create is only known locally
	if u, ok := c.ledger.Get(id); ok && u.Operation == optimistic.OperationCreate && u.Pending && u.Data != nil {
		return *u.Data, nil
	}

	return read(ctx, c, detailKey(c.name, id, opts), c.ttl,
		func(ctx context.Context) (T, error) {
			return c.transport.Get(ctx, id, opts)
		},
		func(item T) (T, error) {
			overlaid := c.ledger.ApplyTo([]T{item})
			// a pending patch may have moved the record out of the requested scope
			if i := shared.IndexByID(overlaid, id); i >= 0 && c.inScope(overlaid[i], opts) {
				return overlaid[i], nil
			}
			var zero T
			return zero, failure.NewEntityNotFound(id, nil)
		},
		failure.Context{EntityID: id, Operation: "get"},
	)
}

// Create stores draft. The draft is visible under a temporary ID until the backend returns the stored record.
func (c *Collection[T, P]) Create(ctx context.Context, draft T, w shared.WriteOptions) (T, error) {
	var zero T
	if err := c.validateDraft(draft); err != nil {
		return zero, c.fail(ctx, err, failure.Context{EntityName: c.label(draft), Operation: "create"})
	}

	tempID := c.newID()
	u := c.ledger.BeginCreate(tempID, draft.WithID(tempID))
	c.invalidate("")

	created, err := c.transport.Create(ctx, draft, w)
	if err != nil {
		c.ledger.FailVersion(tempID, u.Version, err.Error())
		return zero, c.fail(ctx, err, failure.Context{EntityName: c.label(draft), Operation: "create"})
	}

	realID := created.GetID()
	c.ledger.Rekey(tempID, realID, created)
	if _, ok := c.ledger.CommitVersion(realID, u.Version); !ok {
		c.logger.Debug("Discarding late create confirmation", zap.String(logger.FieldEntityID, realID))
	}
	c.forget(ctx, realID)
	return created, nil
}

// Update applies patch to the record with the given id
func (c *Collection[T, P]) Update(ctx context.Context, id string, patch P, w shared.WriteOptions) (T, error) {
	var zero T
	fctx := failure.Context{EntityID: id, Operation: "update"}
	if err := c.validatePatch(patch); err != nil {
		return zero, c.fail(ctx, err, fctx)
	}

	previous := c.peek(id)
	if previous != nil {
		fctx.EntityName = c.label(*previous)
	}
	u := c.ledger.BeginUpdate(id, patch, previous)
	c.invalidate(id)

	updated, err := c.transport.Update(ctx, id, patch, w)
	if err != nil {
		c.rollback(id, u.Version, err)
		return zero, c.fail(ctx, err, fctx)
	}

	if _, ok := c.ledger.CommitVersion(id, u.Version); !ok {
		c.logger.Debug("Discarding late update confirmation", zap.String(logger.FieldEntityID, id))
	}
	c.forget(ctx, id)
	return updated, nil
}

// Delete removes the record with the given id. A delete guard refusing it
// returns its error without calling the backend.
func (c *Collection[T, P]) Delete(ctx context.Context, id string, w shared.WriteOptions) error {
	fctx := failure.Context{EntityID: id, Operation: "delete"}
	previous := c.peek(id)

	if c.guard != nil {
		current, err := c.Get(ctx, id, shared.ListOptions{IncludeInactive: true})
		switch {
		case failure.IsType(err, failure.TypeEntityNotFound):
			return err
		case err != nil:
			logger.L(ctx).Warn("Could not load record for delete check, deferring to backend",
				append(logger.ErrorFields(err), zap.String(logger.FieldEntityID, id))...)
		default:
			previous = &current
			if guardErr := c.guard(current); guardErr != nil {
				return c.fail(ctx, guardErr, fctx)
			}
		}
	}
	if previous != nil {
		fctx.EntityName = c.label(*previous)
	}

	u := c.ledger.BeginDelete(id, previous)
	c.invalidate(id)

	if err := c.transport.Delete(ctx, id, w); err != nil {
		c.rollback(id, u.Version, err)
		return c.fail(ctx, err, fctx)
	}

	if _, ok := c.ledger.CommitVersion(id, u.Version); !ok {
		c.logger.Debug("Discarding late delete confirmation", zap.String(logger.FieldEntityID, id))
	}
	c.forget(ctx, id)
	return nil
}

// HasPending reports whether a mutation of this collection is awaiting the backend
func (c *Collection[T, P]) HasPending() bool {
	return c.ledger.HasPending()
}

// Pending returns the in-flight mutation for id, if any
func (c *Collection[T, P]) Pending(id string) (optimistic.Update[T, P], bool) {
	return c.ledger.Get(id)
}

// TakeRollback returns the record as it was before a failed update or delete.
// Each rollback can be taken once.
func (c *Collection[T, P]) TakeRollback(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev, ok := c.rollbacks[id]
	if ok {
		delete(c.rollbacks, id)
	}
	return prev, ok
}

// Close stops the ledger timers
func (c *Collection[T, P]) Close() {
	c.ledger.Close()
}

func (c *Collection[T, P]) rollback(id string, version uint64, cause error) {
	failed, ok := c.ledger.FailVersion(id, version, cause.Error())
	if !ok {
		c.logger.Debug("Mutation already superseded, nothing to roll back", zap.String(logger.FieldEntityID, id))
		return
	}
	if failed.Previous == nil {
		return
	}
	c.mu.Lock()
	c.rollbacks[id] = *failed.Previous
	c.mu.Unlock()
}

// peek returns the last known state of id without calling the backend
func (c *Collection[T, P]) peek(id string) *T {
	for _, opts := range []shared.ListOptions{{IncludeInactive: true}, {IncludeInactive: false}} {
		if item, ok := cache.Lookup[T](c.store, detailKey(c.name, id, opts), 0); ok {
			return &item
		}
	}
	if u, ok := c.ledger.Get(id); ok && u.Previous != nil {
		prev := *u.Previous
		return &prev
	}
	return nil
}

// invalidate drops the cached views a mutation of id can change
func (c *Collection[T, P]) invalidate(id string) {
	removed := 0
	for _, prefix := range viewPrefixes(c.name, id) {
		removed += c.store.Invalidate(prefix)
	}
	if removed > 0 {
		c.logger.Debug("Invalidated collection views",
			zap.String(logger.FieldEntityID, id),
			zap.Int("removed", removed))
	}
}

// forget runs after the backend confirmed a mutation of id. Saved snapshots of
// the affected views are dropped too, so offline reads cannot serve the state
// from before the mutation.
func (c *Collection[T, P]) forget(ctx context.Context, id string) {
	c.invalidate(id)
	for _, prefix := range viewPrefixes(c.name, id) {
		if _, err := c.snapshots.Invalidate(ctx, prefix); err != nil {
			c.logger.Debug("Could not drop snapshots", zap.String("prefix", prefix), zap.Error(err))
		}
	}
}

// inScope reports whether item is visible under opts, ignoring list filters
func (c *Collection[T, P]) inScope(item T, opts shared.ListOptions) bool {
	return c.match == nil || c.match(item, shared.Filter{}, opts)
}

func (c *Collection[T, P]) filter(items []T, filter shared.Filter, opts shared.ListOptions) []T {
	if c.match == nil {
		return items
	}
	out := items[:0]
	for _, item := range items {
		if c.match(item, filter, opts) {
			out = append(out, item)
		}
	}
	return out
}

func (c *Collection[T, P]) validateDraft(draft T) error {
	if err := checkStruct(c.validate, draft); err != nil {
		return toValidationFailure(err)
	}
	if c.checkDraft != nil {
		if err := c.checkDraft(draft); err != nil {
			return toValidationFailure(err)
		}
	}
	return nil
}

func (c *Collection[T, P]) validatePatch(patch P) error {
	if err := checkStruct(c.validate, patch); err != nil {
		return toValidationFailure(err)
	}
	if c.checkPatch != nil {
		if err := c.checkPatch(patch); err != nil {
			return toValidationFailure(err)
		}
	}
	return nil
}

// label returns the display name of a record for error context
func (c *Collection[T, P]) label(item T) string {
	if c.describe == nil {
		return ""
	}
	return c.describe(item)
}

// fail classifies err, logs it and returns the typed error
func (c *Collection[T, P]) fail(ctx context.Context, err error, fctx failure.Context) error {
	typed := c.classifier.Classify(err, fctx, failure.LayerService)
	l := logger.L(ctx).With(zap.String(logger.FieldCollection, c.name), zap.String("operation", fctx.Operation))
	logger.LogError(l, "Inventory operation failed", typed)
	return typed
}

// read implements the cached read path shared by every query.
// While any mutation is pending the cache is bypassed. Unreachable or
// unrecognised backend failures fall back to the cache and then to the last
// saved snapshot. A definite answer such as not found is surfaced as is.
func read[T shared.Identifiable[T], P any, R any](
	ctx context.Context,
	c *Collection[T, P],
	key string,
	ttl time.Duration,
	fetch func(context.Context) (R, error),
	overlay func(R) (R, error),
	fctx failure.Context,
) (R, error) {
	var zero R

	if !c.ledger.HasPending() {
		if cached, ok := cache.Lookup[R](c.store, key, ttl); ok {
			return overlayResult(ctx, c, overlay, cached, fctx)
		}
	}

	fresh, err := fetch(ctx)
	if err == nil {
		c.store.Set(key, fresh, ttl)
		c.saveSnapshot(ctx, key, fresh)
		return overlayResult(ctx, c, overlay, fresh, fctx)
	}

	typed := c.classifier.Classify(err, fctx, failure.LayerService)
	if !servesStale(typed) {
		return zero, c.fail(ctx, typed, fctx)
	}

	if cached, ok := cache.Lookup[R](c.store, key, ttl); ok {
		logger.L(ctx).Warn("Backend read failed, serving cached value",
			zap.String(logger.FieldCollection, c.name), zap.String("key", key), zap.Error(err))
		return overlayResult(ctx, c, overlay, cached, fctx)
	}
	if snap, ok := loadSnapshot[R](ctx, c, key); ok {
		logger.L(ctx).Warn("Backend read failed, serving last snapshot",
			zap.String(logger.FieldCollection, c.name), zap.String("key", key), zap.Error(err))
		return overlayResult(ctx, c, overlay, snap, fctx)
	}

	return zero, c.fail(ctx, typed, fctx)
}

// servesStale reports whether a read failure may be answered from stale data
func servesStale(err failure.Error) bool {
	switch err.Kind() {
	case failure.TypeConnectionFailure, failure.TypeGeneric:
		return true
	default:
		return false
	}
}

func overlayResult[T shared.Identifiable[T], P any, R any](ctx context.Context, c *Collection[T, P], overlay func(R) (R, error), v R, fctx failure.Context) (R, error) {
	out, err := overlay(v)
	if err != nil {
		var zero R
		return zero, c.fail(ctx, err, fctx)
	}
	return out, nil
}

func (c *Collection[T, P]) saveSnapshot(ctx context.Context, key string, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.logger.Debug("Could not encode snapshot", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.snapshots.Save(ctx, key, b); err != nil {
		c.logger.Debug("Could not save snapshot", zap.String("key", key), zap.Error(err))
	}
}

func loadSnapshot[R any, T shared.Identifiable[T], P any](ctx context.Context, c *Collection[T, P], key string) (R, bool) {
	var out R
	snap, ok, err := c.snapshots.Load(ctx, key)
	if err != nil {
		c.logger.Debug("Could not load snapshot", zap.String("key", key), zap.Error(err))
		return out, false
	}
	if !ok {
		return out, false
	}
	if err := json.Unmarshal(snap.Payload, &out); err != nil {
		c.logger.Debug("Could not decode snapshot", zap.String("key", key), zap.Error(err))
		return out, false
	}
	return out, true
}
