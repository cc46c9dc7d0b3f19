// Package optimistic tracks in-flight mutations so reads can show their effect
// before the backend confirms them.
package optimistic

import (
	"sort"
	"sync"
	"time"

	"github.com/erp/inventory/internal/domain/shared"
	"go.uber.org/zap"
)

// Operation is the kind of mutation an update represents
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// DefaultGraceWindow is how long a settled entry stays visible
const DefaultGraceWindow = 3 * time.Second

// Update is a snapshot of one ledger entry. The pointed-to values are shared and must be treated as read-only.
type Update[T shared.Entity, P any] struct {
	ID        string
	Operation Operation
	// Data is the optimistic record of a create
	Data *T
	// Patch is the change carried by an update
	Patch *P
	// Previous is the record as it was before the mutation, if known
	Previous  *T
	Timestamp time.Time
	Pending   bool
	Error     string
	Version   uint64

	settledAt time.Time
}

// Failed reports whether the mutation was rejected
func (u Update[T, P]) Failed() bool {
	return !u.Pending && u.Error != ""
}

// MergeFunc applies a patch to a record and returns the result
type MergeFunc[T any, P any] func(item T, patch P) T

// Option is a functional option for configuring the ledger
type Option func(*options)

type options struct {
	grace  time.Duration
	clock  func() time.Time
	logger *zap.Logger
	name   string
}

// WithGraceWindow sets how long committed and failed entries remain before removal
func WithGraceWindow(d time.Duration) Option {
	return func(o *options) {
		o.grace = d
	}
}

// WithClock sets the time source
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithName labels log lines with the collection the ledger belongs to
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// Ledger holds one entry per entity ID. A newer Begin for the same ID replaces the older entry.
type Ledger[T shared.Entity, P any] struct {
	mu      sync.Mutex
	entries map[string]*Update[T, P]
	timers  map[string]*time.Timer
	version uint64
	merge   MergeFunc[T, P]
	opts    options
	closed  bool
}

// NewLedger creates a ledger that applies patches with merge
func NewLedger[T shared.Entity, P any](merge MergeFunc[T, P], opts ...Option) *Ledger[T, P] {
	o := options{
		grace:  DefaultGraceWindow,
		clock:  time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.name != "" {
		o.logger = o.logger.With(zap.String("collection", o.name))
	}
	return &Ledger[T, P]{
		entries: make(map[string]*Update[T, P]),
		timers:  make(map[string]*time.Timer),
		merge:   merge,
		opts:    o,
	}
}

// BeginCreate registers a pending create of data under a temporary id
func (l *Ledger[T, P]) BeginCreate(id string, data T) Update[T, P] {
	return l.begin(&Update[T, P]{ID: id, Operation: OperationCreate, Data: &data})
}

// BeginUpdate registers a pending update. previous may be nil when the current record is unknown.
func (l *Ledger[T, P]) BeginUpdate(id string, patch P, previous *T) Update[T, P] {
	return l.begin(&Update[T, P]{ID: id, Operation: OperationUpdate, Patch: &patch, Previous: clonePtr(previous)})
}

// BeginDelete registers a pending delete
func (l *Ledger[T, P]) BeginDelete(id string, previous *T) Update[T, P] {
	return l.begin(&Update[T, P]{ID: id, Operation: OperationDelete, Previous: clonePtr(previous)})
}

func (l *Ledger[T, P]) begin(u *Update[T, P]) Update[T, P] {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopTimerLocked(u.ID)
	l.version++
	u.Version = l.version
	u.Timestamp = l.opts.clock()
	u.Pending = true
	l.entries[u.ID] = u

	l.opts.logger.Debug("Optimistic update started",
		zap.String("entity_id", u.ID),
		zap.String("operation", string(u.Operation)),
		zap.Uint64("version", u.Version))
	return *u
}

// Commit settles the current entry for id successfully
func (l *Ledger[T, P]) Commit(id string) (Update[T, P], bool) {
	return l.settle(id, 0, "", false)
}

// CommitVersion settles the entry only if it is still at version.
// A superseded or already settled entry is left alone and false is returned.
func (l *Ledger[T, P]) CommitVersion(id string, version uint64) (Update[T, P], bool) {
	return l.settle(id, version, "", true)
}

// Fail settles the current entry for id as rejected
func (l *Ledger[T, P]) Fail(id, message string) (Update[T, P], bool) {
	return l.settle(id, 0, message, false)
}

// FailVersion rejects the entry only if it is still at version.
// A failed create is dropped at once; the returned copy keeps Previous for rollback.
func (l *Ledger[T, P]) FailVersion(id string, version uint64, message string) (Update[T, P], bool) {
	return l.settle(id, version, message, true)
}

func (l *Ledger[T, P]) settle(id string, version uint64, message string, checkVersion bool) (Update[T, P], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.entries[id]
	if !ok || !u.Pending || (checkVersion && u.Version != version) {
		l.opts.logger.Debug("Discarding stale optimistic settlement",
			zap.String("entity_id", id),
			zap.Uint64("version", version))
		return Update[T, P]{}, false
	}

	u.Pending = false
	u.settledAt = l.opts.clock()

	if message == "" {
		l.opts.logger.Debug("Optimistic update committed", zap.String("entity_id", id))
		l.scheduleRemovalLocked(id, u.Version)
		return *u, true
	}

	u.Error = message
	l.opts.logger.Debug("Optimistic update failed",
		zap.String("entity_id", id),
		zap.String("operation", string(u.Operation)),
		zap.String("error", message))

	if u.Operation == OperationCreate {
		delete(l.entries, id)
		return *u, true
	}
	l.scheduleRemovalLocked(id, u.Version)
	return *u, true
}

// Rekey moves the entry for tempID to realID and replaces its data with the stored record
func (l *Ledger[T, P]) Rekey(tempID, realID string, data T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	u, ok := l.entries[tempID]
	if !ok {
		return false
	}
	if tempID == realID {
		u.Data = &data
		return true
	}
	l.stopTimerLocked(tempID)
	l.stopTimerLocked(realID)
	delete(l.entries, tempID)
	u.ID = realID
	u.Data = &data
	l.entries[realID] = u

	l.opts.logger.Debug("Optimistic create re-keyed",
		zap.String("temp_id", tempID),
		zap.String("entity_id", realID))
	return true
}

// Get returns a copy of the entry for id
func (l *Ledger[T, P]) Get(id string) (Update[T, P], bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.entries[id]
	if !ok {
		return Update[T, P]{}, false
	}
	return *u, true
}

// HasPending reports whether any mutation is still awaiting the backend
func (l *Ledger[T, P]) HasPending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, u := range l.entries {
		if u.Pending {
			return true
		}
	}
	return false
}

// Len returns the number of entries, settled ones included
func (l *Ledger[T, P]) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// ApplyTo overlays the ledger onto items and returns a new slice; items is not modified.
// Pending creates are appended when missing, then updates that have not failed
// are merged, then pending deletes are removed.
func (l *Ledger[T, P]) ApplyTo(items []T) []T {
	entries := l.visible()

	out := make([]T, len(items))
	copy(out, items)

	for _, u := range entries {
		if u.Operation == OperationCreate && u.Pending && u.Data != nil {
			if shared.IndexByID(out, u.ID) < 0 {
				out = append(out, *u.Data)
			}
		}
	}

	for _, u := range entries {
		if u.Operation != OperationUpdate || u.Failed() || u.Patch == nil || l.merge == nil {
			continue
		}
		if i := shared.IndexByID(out, u.ID); i >= 0 {
			out[i] = l.merge(out[i], *u.Patch)
		}
	}

	for _, u := range entries {
		if u.Operation != OperationDelete || !u.Pending {
			continue
		}
		if i := shared.IndexByID(out, u.ID); i >= 0 {
			out = append(out[:i], out[i+1:]...)
		}
	}

	return out
}

// visible returns copies of the entries still inside their grace window, oldest first
func (l *Ledger[T, P]) visible() []Update[T, P] {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.opts.clock()
	out := make([]Update[T, P], 0, len(l.entries))
	for _, u := range l.entries {
		if !u.Pending && now.Sub(u.settledAt) >= l.opts.grace {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out
}

// Close stops every pending removal timer and clears the ledger
func (l *Ledger[T, P]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	for id := range l.timers {
		l.stopTimerLocked(id)
	}
	l.entries = make(map[string]*Update[T, P])
	l.closed = true
}

func (l *Ledger[T, P]) scheduleRemovalLocked(id string, version uint64) {
	l.stopTimerLocked(id)
	if l.closed {
		return
	}
	if l.opts.grace <= 0 {
		delete(l.entries, id)
		return
	}
	l.timers[id] = time.AfterFunc(l.opts.grace, func() {
		l.remove(id, version)
	})
}

// remove drops a settled entry unless a newer mutation replaced it
func (l *Ledger[T, P]) remove(id string, version uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	u, ok := l.entries[id]
	if !ok || u.Version != version || u.Pending {
		return
	}
	delete(l.entries, id)
	delete(l.timers, id)
}

func (l *Ledger[T, P]) stopTimerLocked(id string) {
	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
