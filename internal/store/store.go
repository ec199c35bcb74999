package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// Field names the store manages on documents.
const (
	FieldID        = "id"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

// Store holds all mock data for a process, keyed by tenant then collection.
// Construct one per server (or per test) with New; there is no package-level
// shared instance.
type Store struct {
	mu      sync.RWMutex
	tenants map[string]*tenant

	now   func() time.Time
	newID func() string
}

type tenant struct {
	collections map[string]*Collection
}

// Collection is a named, insertion-ordered sequence of documents.
type Collection struct {
	mu    sync.RWMutex
	name  string
	items []*entity.Object
	byID  map[string]int // id → position in items
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source. Used by tests for
// deterministic createdAt/updatedAt values.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDFunc overrides generated-id production. Used by tests for
// predictable ids.
func WithIDFunc(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		tenants: make(map[string]*tenant),
		now:     time.Now,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tenants returns the known tenant names.
func (s *Store) Tenants() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.tenants))
	for name := range s.tenants {
		names = append(names, name)
	}
	return names
}

// Collections returns the collection names of a tenant.
// Unknown tenants yield an empty slice.
func (s *Store) Collections(tenantName string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[tenantName]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(t.collections))
	for name := range t.collections {
		names = append(names, name)
	}
	return names
}

// Collection returns the named collection, creating tenant and collection
// lazily on first access.
func (s *Store) Collection(tenantName, collectionName string) *Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[tenantName]
	if !ok {
		t = &tenant{collections: make(map[string]*Collection)}
		s.tenants[tenantName] = t
	}
	c, ok := t.collections[collectionName]
	if !ok {
		c = &Collection{
			name: collectionName,
			byID: make(map[string]int),
		}
		t.collections[collectionName] = c
	}
	return c
}

// lookup returns the collection without creating it.
func (s *Store) lookup(tenantName, collectionName string) (*Collection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[tenantName]
	if !ok {
		return nil, false
	}
	c, ok := t.collections[collectionName]
	return c, ok
}

// Exists reports whether a collection has been created for the tenant.
func (s *Store) Exists(tenantName, collectionName string) bool {
	_, ok := s.lookup(tenantName, collectionName)
	return ok
}

// Reset drops all documents of a collection. Unknown collections are a
// no-op. The collection itself stays registered.
func (s *Store) Reset(tenantName, collectionName string) {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.byID = make(map[string]int)
}

// Len returns the number of documents in a collection.
func (s *Store) Len(tenantName, collectionName string) int {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}
