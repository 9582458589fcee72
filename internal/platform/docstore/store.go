// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore is the document database abstraction every portal collection
is stored behind.

A document is a JSON object addressed by (collection, id). The store keeps the
id inside the object under "id", so decoding a document yields a complete
entity. Two implementations exist:

  - [PostgresStore]: JSONB rows in portal.document (pgx).
  - [MemoryStore]: process-local maps, used for tests and DOCUMENT_STORE=memory.
*/
package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("docstore: document not found")

	// ErrConflict is returned when a write breaks a uniqueness rule.
	ErrConflict = errors.New("docstore: document conflicts with an existing one")
)

// idField is the JSON key holding the document id.
const idField = "id"

// Filter matches documents whose top-level Field equals Value.
type Filter struct {
	Field string
	Value any
}

// Query selects documents within a collection.
type Query struct {
	// Filters are combined with AND.
	Filters []Filter
	// OrderBy is a top-level field; documents lacking it sort last.
	// Ties and an empty OrderBy fall back to creation order.
	OrderBy    string
	Descending bool
	// Limit caps the result size when positive.
	Limit int
}

// Where returns a query with a single equality filter.
func Where(field string, value any) Query {
	return Query{Filters: []Filter{{Field: field, Value: value}}}
}

// Document is a stored JSON object.
type Document struct {
	ID   string
	Data json.RawMessage
}

// Decode unmarshals the document into target.
func (document Document) Decode(target any) error {
	if err := json.Unmarshal(document.Data, target); err != nil {
		return fmt.Errorf("docstore: decode %s: %w", document.ID, err)
	}
	return nil
}

// Store is the collaborator contract for document persistence.
type Store interface {
	// Query lists the documents of a collection matching query.
	Query(ctx context.Context, collection string, query Query) ([]Document, error)

	// Get returns one document or [ErrNotFound].
	Get(ctx context.Context, collection, id string) (Document, error)

	// Create stores data under a new time-ordered id and returns the id.
	Create(ctx context.Context, collection string, data any) (string, error)

	// Put creates or replaces the document stored under id.
	Put(ctx context.Context, collection, id string, data any) error

	// Update merges patch into an existing document or returns [ErrNotFound].
	Update(ctx context.Context, collection, id string, patch map[string]any) error

	// Delete removes a document or returns [ErrNotFound].
	Delete(ctx context.Context, collection, id string) error
}

// DecodeAll decodes every document into a slice of T.
func DecodeAll[T any](documents []Document) ([]T, error) {
	items := make([]T, 0, len(documents))
	for _, document := range documents {
		var item T
		if err := document.Decode(&item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// toObject marshals data into a JSON object carrying id.
func toObject(id string, data any) (map[string]any, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode: %w", err)
	}

	object := map[string]any{}
	if err := json.Unmarshal(raw, &object); err != nil {
		return nil, fmt.Errorf("docstore: document must be a JSON object: %w", err)
	}

	object[idField] = id
	return object, nil
}

// sanitizePatch drops keys that a merge must never touch.
func sanitizePatch(patch map[string]any) map[string]any {
	clean := make(map[string]any, len(patch))
	for key, value := range patch {
		if key == idField {
			continue
		}
		clean[key] = value
	}
	return clean
}
