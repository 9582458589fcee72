// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
)

// DocumentRepository implements [Repository] over the "categories" collection.
type DocumentRepository struct {
	store docstore.Store
}

// NewRepository creates a document-backed [Repository].
func NewRepository(store docstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// List implements [Repository].
func (repository *DocumentRepository) List(context context.Context) ([]*Category, error) {
	documents, err := repository.store.Query(context, constants.CollectionCategories, docstore.Query{OrderBy: FieldOrder})
	if err != nil {
		return nil, fmt.Errorf("document_category_list_failed: %w", err)
	}

	categories, err := docstore.DecodeAll[*Category](documents)
	if err != nil {
		return nil, fmt.Errorf("document_category_decode_failed: %w", err)
	}
	return categories, nil
}

// FindByID implements [Repository].
func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Category, error) {
	document, err := repository.store.Get(context, constants.CollectionCategories, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("Category")
		}
		return nil, fmt.Errorf("document_category_find_failed: %w", err)
	}

	var category Category
	if err := document.Decode(&category); err != nil {
		return nil, fmt.Errorf("document_category_decode_failed: %w", err)
	}
	return &category, nil
}

// Create implements [Repository].
func (repository *DocumentRepository) Create(context context.Context, category *Category) error {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now().UTC()
	}

	id, err := repository.store.Create(context, constants.CollectionCategories, category)
	if err != nil {
		return fmt.Errorf("document_category_create_failed: %w", err)
	}

	category.ID = id
	return nil
}

// UpdateDetails implements [Repository].
func (repository *DocumentRepository) UpdateDetails(context context.Context, id string, input Input, at time.Time) error {
	return repository.update(context, id, map[string]any{
		FieldName:      input.Name,
		FieldIconName:  input.IconName,
		FieldUpdatedAt: at.UTC(),
	})
}

// UpdateOrder implements [Repository].
func (repository *DocumentRepository) UpdateOrder(context context.Context, id string, order int, at time.Time) error {
	return repository.update(context, id, map[string]any{FieldOrder: order, FieldUpdatedAt: at.UTC()})
}

// Delete implements [Repository].
func (repository *DocumentRepository) Delete(context context.Context, id string) error {
	if err := repository.store.Delete(context, constants.CollectionCategories, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("Category")
		}
		return fmt.Errorf("document_category_delete_failed: %w", err)
	}
	return nil
}

func (repository *DocumentRepository) update(context context.Context, id string, patch map[string]any) error {
	if err := repository.store.Update(context, constants.CollectionCategories, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("Category")
		}
		return fmt.Errorf("document_category_update_failed: %w", err)
	}
	return nil
}
