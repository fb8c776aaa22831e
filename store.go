package annogo

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/annogo/index"
	"github.com/hupe1980/annogo/record"
	"github.com/hupe1980/annogo/typesystem"
)

// InitialViewName is the name of the view every store starts with.
const InitialViewName = "initial"

// Store is an in-memory collection of typed records organized into named
// views. All views share one type system and one record identity space; each
// view has its own index repository.
//
// A store assumes a single writer. Concurrent readers are safe while no
// writer runs.
type Store struct {
	id      uuid.UUID
	ts      *typesystem.TypeSystem
	logger  *Logger
	metrics MetricsCollector
	opts    options

	mu        sync.RWMutex
	views     map[string]*View
	viewOrder []*View

	nextID atomic.Uint64
}

// New creates a store with a fresh type system containing only the built-in
// types.
func New(opts ...Option) *Store {
	return NewWithTypeSystem(typesystem.New(), opts...)
}

// NewWithTypeSystem creates a store over an existing type system. The type
// system must not gain types while the store is in use by readers.
func NewWithTypeSystem(ts *typesystem.TypeSystem, opts ...Option) *Store {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		id:      uuid.New(),
		ts:      ts,
		metrics: o.metrics,
		opts:    o,
		views:   make(map[string]*View),
	}
	s.logger = o.logger.WithStore(s.id)

	// The initial view always exists.
	s.View(o.initialViewName)
	return s
}

// ID returns the store instance identity, used in log output.
func (s *Store) ID() uuid.UUID { return s.id }

// TypeSystem returns the shared type system.
func (s *Store) TypeSystem() *typesystem.TypeSystem { return s.ts }

// NextID allocates a record identity. Applications constructing their own
// record values use this to keep identities unique within the store.
func (s *Store) NextID() uint64 { return s.nextID.Add(1) }

// View returns the named view, creating it on first use. New views start
// with the built-in indexes plus any definitions from the store's index
// descriptor.
func (s *Store) View(name string) *View {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v, ok := s.views[name]; ok {
		return v
	}
	v := &View{
		name:   name,
		store:  s,
		repo:   index.NewRepository(s.ts, name),
		logger: s.logger.WithView(name),
	}
	if d := s.opts.descriptor; d != nil {
		for _, def := range d.Indexes {
			if err := v.repo.Install(def); err != nil {
				v.logger.Error("install index from descriptor failed",
					"index", def.Name, "error", err)
			}
		}
	}
	s.views[name] = v
	s.viewOrder = append(s.viewOrder, v)
	return v
}

// InitialView returns the view the store started with.
func (s *Store) InitialView() *View { return s.View(s.opts.initialViewName) }

// Views returns all views in creation order.
func (s *Store) Views() []*View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*View, len(s.viewOrder))
	copy(out, s.viewOrder)
	return out
}

// View is one named index space of a store. Records added to a view are
// visible to selects on that view, and to all-views selects on any view.
type View struct {
	name   string
	store  *Store
	repo   *index.Repository
	logger *Logger
}

// Name returns the view name.
func (v *View) Name() string { return v.name }

// Store returns the owning store.
func (v *View) Store() *Store { return v.store }

// Repository exposes the view's index repository for installing additional
// indexes and for direct index access.
func (v *View) Repository() *index.Repository { return v.repo }

// Add indexes rec in this view. The record keeps its identity; adding the
// same record to several views is allowed.
func (v *View) Add(rec record.Record) error {
	start := time.Now()
	err := v.repo.Add(rec)
	v.store.metrics.RecordAdd(time.Since(start), err)
	if rec != nil {
		v.logger.LogAdd(rec.Type(), rec.ID(), err)
	}
	return err
}

// Annotate creates a span record of type t over [begin, end) and adds it to
// this view. t must be an annotation type and begin <= end.
func (v *View) Annotate(t *typesystem.Type, begin, end int) (record.Span, error) {
	if !v.store.ts.IsAnnotationType(t) {
		return record.Span{}, fmt.Errorf("type %q is not an annotation type", t)
	}
	if begin > end {
		return record.Span{}, &InvalidSpanError{Begin: begin, End: end}
	}
	sp := record.NewSpan(v.store.NextID(), t, begin, end)
	if err := v.Add(sp); err != nil {
		return record.Span{}, err
	}
	return sp, nil
}
