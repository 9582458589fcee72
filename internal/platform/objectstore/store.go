// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package objectstore stores uploaded card files.

Objects are addressed by a slash separated path ("card-files/<card>/<name>").
[S3Store] talks to any S3-compatible bucket; [MemoryStore] keeps bytes in
process for tests and local runs without a bucket.
*/
package objectstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
)

// ErrNotFound is returned when deleting an object that does not exist.
var ErrNotFound = errors.New("objectstore: object not found")

// Store is the collaborator contract for binary objects.
type Store interface {
	// Put uploads body under path and returns its public URL.
	Put(ctx context.Context, path string, body io.Reader, contentType string) (string, error)

	// Delete removes the object stored under path.
	Delete(ctx context.Context, path string) error
}

// PublicURL joins a base URL and an object path, escaping each segment.
func PublicURL(baseURL, path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for index, segment := range segments {
		segments[index] = url.PathEscape(segment)
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.Join(segments, "/")
}

// # In-memory Store

// Object is a stored blob.
type Object struct {
	Body        []byte
	ContentType string
}

// MemoryStore is a process-local [Store].
type MemoryStore struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]Object
}

// NewMemoryStore creates an empty store whose URLs start with baseURL.
func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: baseURL, objects: make(map[string]Object)}
}

// Put implements [Store].
func (store *MemoryStore) Put(_ context.Context, path string, body io.Reader, contentType string) (string, error) {
	var buffer bytes.Buffer
	if _, err := io.Copy(&buffer, body); err != nil {
		return "", fmt.Errorf("objectstore: read body: %w", err)
	}

	store.mu.Lock()
	store.objects[path] = Object{Body: buffer.Bytes(), ContentType: contentType}
	store.mu.Unlock()

	return PublicURL(store.baseURL, path), nil
}

// Delete implements [Store].
func (store *MemoryStore) Delete(_ context.Context, path string) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, ok := store.objects[path]; !ok {
		return ErrNotFound
	}
	delete(store.objects, path)
	return nil
}

// Get returns a stored object.
func (store *MemoryStore) Get(path string) (Object, bool) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	object, ok := store.objects[path]
	return object, ok
}
