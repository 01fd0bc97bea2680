// Package session owns the single live storefront state: the catalog view,
// the filter state, and the cart. The original UI kept these as module-level
// globals mutated by event handlers; here they are one explicit object whose
// methods are the only state transitions.
//
// Concurrency model: one mutex serializes every transition, restoring the
// single-logical-writer semantics of the reference system under a concurrent
// HTTP surface. The debounce timer's commit path takes the same mutex.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/cart"
	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/store"
	"github.com/xenking/storefront/pkg/debounce"
)

// DefaultDebounceDelay is the reference settle time for search input.
const DefaultDebounceDelay = 300 * time.Millisecond

// Config holds the session dependencies and settings.
type Config struct {
	// Store persists cart snapshots after every cart change.
	Store store.Store
	// Key is the session key the snapshot is stored under.
	Key string
	// DebounceDelay overrides DefaultDebounceDelay when positive.
	DebounceDelay time.Duration
	// Logger receives persistence warnings. Nil means zap.NewNop.
	Logger *zap.Logger
}

// Session is the live storefront state for one single-writer session.
type Session struct {
	lg    *zap.Logger
	store store.Store
	key   string

	mu        sync.Mutex
	view      *catalog.View
	available bool
	filter    catalog.FilterState
	cart      cart.Cart

	search *debounce.Debouncer[string]
}

// New creates a Session with an empty cart and no catalog. Call Restore to
// load the persisted snapshot and SetCatalog once the fetch completes.
func New(cfg Config) *Session {
	lg := cfg.Logger
	if lg == nil {
		lg = zap.NewNop()
	}
	delay := cfg.DebounceDelay
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}

	s := &Session{
		lg:    lg,
		store: cfg.Store,
		key:   cfg.Key,
		view:  catalog.NewView(nil),
	}
	s.search = debounce.New(delay, s.commitSearch)
	return s
}

// Close cancels any pending debounced search delivery.
func (s *Session) Close() {
	s.search.Stop()
}

// Restore loads the persisted cart snapshot. A missing snapshot is an empty
// cart; a corrupt one is logged and treated as empty. Restore never fails
// the session.
func (s *Session) Restore(ctx context.Context) {
	loaded, err := s.store.Load(ctx, s.key)
	if err != nil {
		if errors.Is(err, store.ErrCorrupt) {
			s.lg.Warn("Discarding corrupt cart snapshot", zap.String("key", s.key), zap.Error(err))
		} else {
			s.lg.Error("Loading cart snapshot failed, starting empty", zap.String("key", s.key), zap.Error(err))
		}
		loaded = cart.Cart{}
	}

	s.mu.Lock()
	s.cart = loaded
	s.mu.Unlock()
}

// SetCatalog installs the fetched catalog and marks the session available.
// Called at most once per session, after a successful fetch.
func (s *Session) SetCatalog(products []catalog.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.view = catalog.NewView(products)
	s.available = true
}

// CatalogAvailable reports whether the catalog fetch succeeded.
func (s *Session) CatalogAvailable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Categories returns the category selector values.
func (s *Session) Categories() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Categories()
}

// VisibleProducts returns the catalog subset admitted by the current filter
// state, in display order.
func (s *Session) VisibleProducts() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view.Visible(s.filter)
}

// Filter returns the current filter state.
func (s *Session) Filter() catalog.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// SetSearchInput feeds raw search text through the debouncer. Only the value
// that settles for the configured delay reaches the filter state; superseded
// keystrokes are never applied.
func (s *Session) SetSearchInput(raw string) {
	s.search.Trigger(raw)
}

// FlushSearch applies any pending search input immediately. Used by tests
// and shutdown paths; regular input flows through the timer.
func (s *Session) FlushSearch() {
	s.search.Flush()
}

func (s *Session) commitSearch(v string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Search = v
}

// SetCategory applies a category selection immediately.
func (s *Session) SetCategory(category string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Category = category
}

// SetSort applies a sort order immediately.
func (s *Session) SetSort(order catalog.SortOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter.Sort = order
}

// AddToCart applies an add intent for the given product id and returns the
// resulting cart. Unknown ids and adds past the stock ceiling are silent
// no-ops: the ledger enforces the ceiling regardless of what the caller
// allowed.
func (s *Session) AddToCart(ctx context.Context, productID int64) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.view.Lookup(productID)
	if !ok {
		return s.cart
	}
	s.applyCart(ctx, s.cart.Add(p))
	return s.cart
}

// RemoveFromCart applies a remove intent and returns the resulting cart.
func (s *Session) RemoveFromCart(ctx context.Context, productID int64) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyCart(ctx, s.cart.Remove(productID))
	return s.cart
}

// SetQuantity applies a set-quantity intent and returns the resulting cart.
// Out-of-range quantities are silent no-ops.
func (s *Session) SetQuantity(ctx context.Context, productID int64, quantity int) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.applyCart(ctx, s.cart.SetQuantity(productID, quantity))
	return s.cart
}

// Cart returns the current cart value.
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// Totals returns the current cart aggregates.
func (s *Session) Totals() cart.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// applyCart installs the cart produced by an operation and persists it when
// it actually changed. Rejected intents produce an equal cart and skip the
// write. Persistence failures are logged, never surfaced: the worst outcome
// is a stale snapshot. Caller holds s.mu.
func (s *Session) applyCart(ctx context.Context, next cart.Cart) {
	if next.Equal(s.cart) {
		return
	}
	s.cart = next

	if err := s.store.Save(ctx, s.key, next); err != nil {
		s.lg.Error("Persisting cart snapshot failed", zap.String("key", s.key), zap.Error(err))
	}
}
