// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"context"
	"encoding/json"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/leoFagundes/breakfast-budget-club/pkg/uuidv7"
)

// UniqueField declares a field that must be unique within a collection.
type UniqueField struct {
	Collection string
	Field      string
}

type memoryRecord struct {
	object   map[string]any
	sequence int64
}

// MemoryStore keeps documents in process memory.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]map[string]*memoryRecord
	sequence    int64
	unique      []UniqueField
}

// NewMemoryStore creates an empty store enforcing the given unique fields.
func NewMemoryStore(unique ...UniqueField) *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]map[string]*memoryRecord),
		unique:      unique,
	}
}

// Query implements [Store].
func (store *MemoryStore) Query(_ context.Context, collection string, query Query) ([]Document, error) {
	normalized, err := normalizeFilters(query.Filters)
	if err != nil {
		return nil, err
	}

	store.mu.RLock()
	defer store.mu.RUnlock()

	var records []*memoryRecord
	for _, record := range store.collections[collection] {
		if matches(record.object, normalized) {
			records = append(records, record)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return less(records[i], records[j], query.OrderBy, query.Descending)
	})

	if query.Limit > 0 && len(records) > query.Limit {
		records = records[:query.Limit]
	}

	documents := make([]Document, 0, len(records))
	for _, record := range records {
		document, err := toDocument(record.object)
		if err != nil {
			return nil, err
		}
		documents = append(documents, document)
	}
	return documents, nil
}

// Get implements [Store].
func (store *MemoryStore) Get(_ context.Context, collection, id string) (Document, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	record, ok := store.collections[collection][id]
	if !ok {
		return Document{}, ErrNotFound
	}
	return toDocument(record.object)
}

// Create implements [Store].
func (store *MemoryStore) Create(ctx context.Context, collection string, data any) (string, error) {
	id := uuidv7.New()
	if err := store.Put(ctx, collection, id, data); err != nil {
		return "", err
	}
	return id, nil
}

// Put implements [Store].
func (store *MemoryStore) Put(_ context.Context, collection, id string, data any) error {
	object, err := toObject(id, data)
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	if store.violatesUnique(collection, id, object) {
		return ErrConflict
	}

	documents := store.collection(collection)
	if existing, ok := documents[id]; ok {
		existing.object = object
		return nil
	}

	store.sequence++
	documents[id] = &memoryRecord{object: object, sequence: store.sequence}
	return nil
}

// Update implements [Store].
func (store *MemoryStore) Update(_ context.Context, collection, id string, patch map[string]any) error {
	clean, err := normalizeObject(sanitizePatch(patch))
	if err != nil {
		return err
	}

	store.mu.Lock()
	defer store.mu.Unlock()

	record, ok := store.collections[collection][id]
	if !ok {
		return ErrNotFound
	}

	merged := make(map[string]any, len(record.object)+len(clean))
	for key, value := range record.object {
		merged[key] = value
	}
	for key, value := range clean {
		merged[key] = value
	}

	if store.violatesUnique(collection, id, merged) {
		return ErrConflict
	}

	record.object = merged
	return nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, collection, id string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(store.collections[collection], id)
	return nil
}

func (store *MemoryStore) collection(name string) map[string]*memoryRecord {
	documents, ok := store.collections[name]
	if !ok {
		documents = make(map[string]*memoryRecord)
		store.collections[name] = documents
	}
	return documents
}

func (store *MemoryStore) violatesUnique(collection, id string, object map[string]any) bool {
	for _, rule := range store.unique {
		if rule.Collection != collection {
			continue
		}
		value, ok := object[rule.Field]
		if !ok {
			continue
		}
		for otherID, record := range store.collections[collection] {
			if otherID != id && reflect.DeepEqual(record.object[rule.Field], value) {
				return true
			}
		}
	}
	return false
}

// # Helpers

func toDocument(object map[string]any) (Document, error) {
	raw, err := json.Marshal(object)
	if err != nil {
		return Document{}, err
	}
	id, _ := object[idField].(string)
	return Document{ID: id, Data: raw}, nil
}

// normalizeObject round-trips values through JSON so they compare like stored ones.
func normalizeObject(object map[string]any) (map[string]any, error) {
	raw, err := json.Marshal(object)
	if err != nil {
		return nil, err
	}
	normalized := map[string]any{}
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return nil, err
	}
	return normalized, nil
}

func normalizeFilters(filters []Filter) ([]Filter, error) {
	normalized := make([]Filter, 0, len(filters))
	for _, filter := range filters {
		raw, err := json.Marshal(filter.Value)
		if err != nil {
			return nil, err
		}
		var value any
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, err
		}
		normalized = append(normalized, Filter{Field: filter.Field, Value: value})
	}
	return normalized, nil
}

func matches(object map[string]any, filters []Filter) bool {
	for _, filter := range filters {
		value, ok := object[filter.Field]
		if !ok || !reflect.DeepEqual(value, filter.Value) {
			return false
		}
	}
	return true
}

func less(left, right *memoryRecord, field string, descending bool) bool {
	if field != "" {
		leftValue, leftOK := left.object[field]
		rightValue, rightOK := right.object[field]

		switch {
		case leftOK && !rightOK:
			return true
		case !leftOK && rightOK:
			return false
		case leftOK && rightOK:
			if cmp := compareValues(leftValue, rightValue); cmp != 0 {
				if descending {
					return cmp > 0
				}
				return cmp < 0
			}
		}
	}
	return left.sequence < right.sequence
}

func compareValues(left, right any) int {
	switch leftValue := left.(type) {
	case float64:
		if rightValue, ok := right.(float64); ok {
			switch {
			case leftValue < rightValue:
				return -1
			case leftValue > rightValue:
				return 1
			}
			return 0
		}
	case string:
		if rightValue, ok := right.(string); ok {
			return strings.Compare(leftValue, rightValue)
		}
	}
	return 0
}
