package store

import (
	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// List returns a snapshot of the collection in insertion order. When
// equalityFilter is non-empty, only documents whose top-level fields
// deep-equal every filter entry are returned. Unknown collections yield
// an empty slice, never nil.
func (s *Store) List(tenantName, collectionName string, equalityFilter map[string]entity.Value) []*entity.Object {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return []*entity.Object{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*entity.Object, 0, len(c.items))
	for _, item := range c.items {
		if matchesEquality(item, equalityFilter) {
			out = append(out, item)
		}
	}
	return out
}

// GetByID returns the document with the given id, or nil when absent.
func (s *Store) GetByID(tenantName, collectionName, id string) *entity.Object {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	pos, exists := c.byID[id]
	if !exists {
		return nil
	}
	return c.items[pos]
}

func matchesEquality(item *entity.Object, filter map[string]entity.Value) bool {
	for key, want := range filter {
		got, ok := item.Get(key)
		if !ok || !entity.Equal(got, want) {
			return false
		}
	}
	return true
}
