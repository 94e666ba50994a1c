package store

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. It backs the test suite
// and the standalone (single node, no external services) deployment mode.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
	subs        map[string][]*memorySubscription
}

// NewMemoryStore creates an empty in-memory document store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]Document),
		subs:        make(map[string][]*memorySubscription),
	}
}

type memorySubscription struct {
	mu        sync.Mutex
	cancelled bool
	filter    *Filter
	onUpdate  func([]Snapshot)
}

func (s *memorySubscription) Cancel() {
	s.mu.Lock()
	s.cancelled = true
	s.mu.Unlock()
}

// deliver invokes the update callback unless the subscription has been
// cancelled. Late deliveries racing with Cancel are dropped here.
func (s *memorySubscription) deliver(snaps []Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancelled {
		return
	}
	s.onUpdate(snaps)
}

func (m *MemoryStore) Get(ctx context.Context, collection, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(doc), nil
}

func (m *MemoryStore) Set(ctx context.Context, collection, id string, doc Document) error {
	m.mu.Lock()
	col, ok := m.collections[collection]
	if !ok {
		col = make(map[string]Document)
		m.collections[collection] = col
	}
	col[id] = cloneDocument(doc)
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemoryStore) Update(ctx context.Context, collection, id string, fields Document) error {
	m.mu.Lock()
	doc, ok := m.collections[collection][id]
	if !ok {
		m.mu.Unlock()
		return ErrNotFound
	}
	for k, v := range fields {
		doc[k] = v
	}
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	if col, ok := m.collections[collection]; ok {
		delete(col, id)
	}
	m.mu.Unlock()

	m.notify(collection)
	return nil
}

func (m *MemoryStore) GetAll(ctx context.Context, collection string, filter *Filter) ([]Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked(collection, filter), nil
}

func (m *MemoryStore) Listen(collection string, filter *Filter, onUpdate func([]Snapshot), onError func(error)) Subscription {
	sub := &memorySubscription{filter: filter, onUpdate: onUpdate}

	m.mu.Lock()
	m.subs[collection] = append(m.subs[collection], sub)
	initial := m.snapshotLocked(collection, filter)
	m.mu.Unlock()

	sub.deliver(initial)
	return sub
}

func (m *MemoryStore) NewID() string {
	return uuid.New().String()
}

// notify pushes the current result set of the collection to every live
// subscriber. Callbacks run outside the store lock.
func (m *MemoryStore) notify(collection string) {
	m.mu.RLock()
	subs := make([]*memorySubscription, len(m.subs[collection]))
	copy(subs, m.subs[collection])
	snapsBySub := make([][]Snapshot, len(subs))
	for i, sub := range subs {
		snapsBySub[i] = m.snapshotLocked(collection, sub.filter)
	}
	m.mu.RUnlock()

	for i, sub := range subs {
		sub.deliver(snapsBySub[i])
	}
}

func (m *MemoryStore) snapshotLocked(collection string, filter *Filter) []Snapshot {
	snaps := make([]Snapshot, 0, len(m.collections[collection]))
	for id, doc := range m.collections[collection] {
		if !filter.Matches(doc) {
			continue
		}
		snaps = append(snaps, Snapshot{ID: id, Data: cloneDocument(doc)})
	}
	return snaps
}

// cloneDocument deep-copies a document so callers never alias stored state.
func cloneDocument(doc Document) Document {
	out := make(Document, len(doc))
	for k, v := range doc {
		if nested, ok := v.([]Document); ok {
			copied := make([]Document, len(nested))
			for i, d := range nested {
				copied[i] = cloneDocument(d)
			}
			out[k] = copied
			continue
		}
		out[k] = v
	}
	return out
}
