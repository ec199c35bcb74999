package store

import (
	"time"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/entity"
)

// InsertOptions controls document insertion.
type InsertOptions struct {
	// Timestamps stamps createdAt/updatedAt on the stored document.
	Timestamps bool
}

// Insert stores doc in the collection, creating it if needed, and returns
// the stored document. A missing or empty "id" gets a generated one.
// Inserting an id that already exists replaces the existing document in
// place, keeping its position - ids stay unique per collection.
func (s *Store) Insert(tenantName, collectionName string, doc *entity.Object, opts InsertOptions) *entity.Object {
	c := s.Collection(tenantName, collectionName)

	stored := doc.Clone()
	id := stored.StringField(FieldID)
	if id == "" {
		id = s.newID()
		stored.Set(FieldID, entity.String(id))
	}
	if opts.Timestamps {
		now := entity.String(s.timestamp())
		stored.Set(FieldCreatedAt, now)
		stored.Set(FieldUpdatedAt, now)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if pos, exists := c.byID[id]; exists {
		c.items[pos] = stored
		return stored
	}
	c.byID[id] = len(c.items)
	c.items = append(c.items, stored)
	return stored
}

// Replace swaps out the document with the given id wholesale. The stored
// result keeps the original id and createdAt; updatedAt is restamped when
// the original carried timestamps. Returns nil if the id is absent.
func (s *Store) Replace(tenantName, collectionName, id string, doc *entity.Object) *entity.Object {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, exists := c.byID[id]
	if !exists {
		return nil
	}
	previous := c.items[pos]

	stored := doc.Clone()
	stored.Set(FieldID, entity.String(id))
	if createdAt, had := previous.Get(FieldCreatedAt); had {
		stored.Set(FieldCreatedAt, createdAt)
		stored.Set(FieldUpdatedAt, entity.String(s.timestamp()))
	}
	c.items[pos] = stored
	return stored
}

// Merge shallow-merges partial into the document with the given id: every
// top-level key of partial overwrites the stored key. The id is preserved
// and updatedAt restamped when timestamps are present. Returns nil if the
// id is absent.
func (s *Store) Merge(tenantName, collectionName, id string, partial *entity.Object) *entity.Object {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, exists := c.byID[id]
	if !exists {
		return nil
	}

	stored := c.items[pos].Clone()
	for _, key := range partial.Keys() {
		if key == FieldID {
			continue
		}
		v, _ := partial.Get(key)
		stored.Set(key, entity.Clone(v))
	}
	if _, had := stored.Get(FieldCreatedAt); had {
		stored.Set(FieldUpdatedAt, entity.String(s.timestamp()))
	}
	c.items[pos] = stored
	return stored
}

// Remove deletes the document with the given id and reports whether it
// existed.
func (s *Store) Remove(tenantName, collectionName, id string) bool {
	c, ok := s.lookup(tenantName, collectionName)
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	pos, exists := c.byID[id]
	if !exists {
		return false
	}
	c.items = append(c.items[:pos], c.items[pos+1:]...)
	delete(c.byID, id)
	// Reindex everything after the removed slot.
	for i := pos; i < len(c.items); i++ {
		c.byID[c.items[i].StringField(FieldID)] = i
	}
	return true
}

func (s *Store) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
