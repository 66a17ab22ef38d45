package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore keeps documents in process. Documents are normalized through
// JSON on write so reads see the same value shapes as the SQL backend.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]map[string]any
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: map[string]map[string]map[string]any{}}
}

func (s *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.data[name][id]
	if !ok {
		return Document{}, fmt.Errorf("%s/%s: %w", name, id, ErrNotFound)
	}
	return Document{ID: id, Data: clone(doc)}, nil
}

func (s *MemoryStore) Create(_ context.Context, collection string, data map[string]any) (Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return Document{}, err
	}
	normalized, err := normalize(data)
	if err != nil {
		return Document{}, err
	}
	id := uuid.NewString()
	normalized["id"] = id

	s.mu.Lock()
	defer s.mu.Unlock()
	s.bucket(name)[id] = normalized
	return Document{ID: id, Data: clone(normalized)}, nil
}

func (s *MemoryStore) Set(_ context.Context, collection, id string, data map[string]any, opts SetOptions) error {
	name, err := Resolve(collection)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidDocument)
	}
	normalized, err := normalize(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucket(name)
	if opts.Merge {
		b[id] = mergeInto(b[id], normalized)
		return nil
	}
	b[id] = normalized
	return nil
}

func (s *MemoryStore) Query(_ context.Context, collection string, filters ...Filter) ([]Document, error) {
	name, err := Resolve(collection)
	if err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0)
	for id, doc := range s.data[name] {
		if matches(doc, filters) {
			out = append(out, Document{ID: id, Data: clone(doc)})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) bucket(name string) map[string]map[string]any {
	b, ok := s.data[name]
	if !ok {
		b = map[string]map[string]any{}
		s.data[name] = b
	}
	return b
}

func normalize(data map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return out, nil
}

func clone(data map[string]any) map[string]any {
	out, err := normalize(data)
	if err != nil {
		return map[string]any{}
	}
	return out
}
