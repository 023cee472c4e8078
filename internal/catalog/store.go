package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrNotFound is returned when a mutation targets an id that is not in the
// collection anymore.
var ErrNotFound = errors.New("record not found")

// defaultUndoWindow is how long a deleted record can be restored.
const defaultUndoWindow = 5 * time.Second

// Store keeps every collection in memory and rewrites the owning
// collection's JSON snapshot on each mutation. Each operation is atomic
// from the caller's perspective; a single mutex serializes mutations since
// HTTP handlers run concurrently.
type Store struct {
	mu sync.Mutex
	db *sql.DB

	materials  []Material
	fixedCosts []FixedCost
	products   []Product
	customers  []Customer
	orders     []Order
	settings   Settings

	pendingMaterial  *undoSlot[Material]
	pendingFixedCost *undoSlot[FixedCost]
	undoWindow       time.Duration

	version   uint64
	listeners []func()
}

// Open loads all collection snapshots from the database and returns a ready
// store. Unknown or corrupt snapshot shapes are resolved by the load-time
// migrations in snapshot.go.
func Open(db *sql.DB) (*Store, error) {
	s := &Store{
		db:         db,
		settings:   DefaultSettings(),
		undoWindow: defaultUndoWindow,
	}

	if err := s.loadAll(); err != nil {
		return nil, fmt.Errorf("load catalog snapshots: %w", err)
	}

	return s, nil
}

// Subscribe registers fn to run after every committed mutation. Listeners
// are invoked synchronously with the store lock held and must not call back
// into the store.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Version returns a counter that increases on every committed mutation.
// Readers can pair derived values with the version they were computed from.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// committed bumps the version and notifies listeners. Called with the lock
// held after a successful snapshot write.
func (s *Store) committed() {
	s.version++
	for _, fn := range s.listeners {
		fn()
	}
}

// Materials returns a copy of the materials collection.
func (s *Store) Materials() []Material {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Material, len(s.materials))
	copy(out, s.materials)
	return out
}

// MaterialByID looks a material up by id, tolerating misses.
func (s *Store) MaterialByID(id string) (Material, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.materialByIDLocked(id)
}

func (s *Store) materialByIDLocked(id string) (Material, bool) {
	for _, m := range s.materials {
		if m.ID == id {
			return m, true
		}
	}
	return Material{}, false
}

// FixedCosts returns a copy of the fixed costs collection.
func (s *Store) FixedCosts() []FixedCost {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]FixedCost, len(s.fixedCosts))
	copy(out, s.fixedCosts)
	return out
}

// Products returns a copy of the products collection, newest first.
func (s *Store) Products() []Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

// ProductByID looks a product up by id, tolerating misses.
func (s *Store) ProductByID(id string) (Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.productByIDLocked(id)
}

func (s *Store) productByIDLocked(id string) (Product, bool) {
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return Product{}, false
}

// Customers returns a copy of the customers collection.
func (s *Store) Customers() []Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Customer, len(s.customers))
	copy(out, s.customers)
	return out
}

// CustomerByID looks a customer up by id, tolerating misses.
func (s *Store) CustomerByID(id string) (Customer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return c, true
		}
	}
	return Customer{}, false
}

// Orders returns a copy of the orders collection, newest first.
func (s *Store) Orders() []Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Order, len(s.orders))
	copy(out, s.orders)
	return out
}

// Settings returns the current working capacity configuration.
func (s *Store) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings persists a new working capacity configuration.
func (s *Store) UpdateSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = settings
	return s.saveSettingsLocked()
}
