// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package card

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
)

// # Card Repository

// DocumentRepository implements [Repository] over the "cards" collection.
type DocumentRepository struct {
	store docstore.Store
}

// NewRepository creates a document-backed [Repository].
func NewRepository(store docstore.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

// List implements [Repository].
func (repository *DocumentRepository) List(context context.Context) ([]*Card, error) {
	documents, err := repository.store.Query(context, constants.CollectionCards, docstore.Query{OrderBy: FieldOrder})
	if err != nil {
		return nil, fmt.Errorf("document_card_list_failed: %w", err)
	}

	cards, err := docstore.DecodeAll[*Card](documents)
	if err != nil {
		return nil, fmt.Errorf("document_card_decode_failed: %w", err)
	}
	return cards, nil
}

// FindByID implements [Repository].
func (repository *DocumentRepository) FindByID(context context.Context, id string) (*Card, error) {
	document, err := repository.store.Get(context, constants.CollectionCards, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("Card")
		}
		return nil, fmt.Errorf("document_card_find_failed: %w", err)
	}

	var card Card
	if err := document.Decode(&card); err != nil {
		return nil, fmt.Errorf("document_card_decode_failed: %w", err)
	}
	return &card, nil
}

// Create implements [Repository].
func (repository *DocumentRepository) Create(context context.Context, card *Card) error {
	if card.CreatedAt.IsZero() {
		card.CreatedAt = time.Now().UTC()
	}

	id, err := repository.store.Create(context, constants.CollectionCards, card)
	if err != nil {
		return fmt.Errorf("document_card_create_failed: %w", err)
	}

	card.ID = id
	return nil
}

// Update implements [Repository].
func (repository *DocumentRepository) Update(context context.Context, id string, input Input, at time.Time) error {
	return repository.update(context, id, map[string]any{
		FieldCategoryID:   input.CategoryID,
		FieldTitle:        input.Title,
		FieldActionLabel:  input.ActionLabel,
		FieldActionURL:    input.ActionURL,
		FieldInternalPage: input.InternalPage,
		FieldOrder:        input.Order,
		FieldUpdatedAt:    at.UTC(),
	})
}

// Delete implements [Repository].
func (repository *DocumentRepository) Delete(context context.Context, id string) error {
	if err := repository.store.Delete(context, constants.CollectionCards, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("Card")
		}
		return fmt.Errorf("document_card_delete_failed: %w", err)
	}
	return nil
}

// CardIDsByCategory implements [Repository] and [category.CardLinks].
func (repository *DocumentRepository) CardIDsByCategory(context context.Context, categoryID string) ([]string, error) {
	documents, err := repository.store.Query(context, constants.CollectionCards, docstore.Where(FieldCategoryID, categoryID))
	if err != nil {
		return nil, fmt.Errorf("document_card_list_by_category_failed: %w", err)
	}

	ids := make([]string, 0, len(documents))
	for _, document := range documents {
		ids = append(ids, document.ID)
	}
	return ids, nil
}

// DetachCategory implements [Repository] and [category.CardLinks].
func (repository *DocumentRepository) DetachCategory(context context.Context, cardID string, at time.Time) error {
	return repository.update(context, cardID, map[string]any{FieldCategoryID: Unassigned, FieldUpdatedAt: at.UTC()})
}

func (repository *DocumentRepository) update(context context.Context, id string, patch map[string]any) error {
	if err := repository.store.Update(context, constants.CollectionCards, id, patch); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("Card")
		}
		return fmt.Errorf("document_card_update_failed: %w", err)
	}
	return nil
}

// # File Repository

// DocumentFileRepository implements [FileRepository] over "card_files".
type DocumentFileRepository struct {
	store docstore.Store
}

// NewFileRepository creates a document-backed [FileRepository].
func NewFileRepository(store docstore.Store) *DocumentFileRepository {
	return &DocumentFileRepository{store: store}
}

// ListByCard implements [FileRepository].
func (repository *DocumentFileRepository) ListByCard(context context.Context, cardID string) ([]*File, error) {
	documents, err := repository.store.Query(context, constants.CollectionCardFiles, docstore.Where(FieldCardID, cardID))
	if err != nil {
		return nil, fmt.Errorf("document_card_file_list_failed: %w", err)
	}

	files, err := docstore.DecodeAll[*File](documents)
	if err != nil {
		return nil, fmt.Errorf("document_card_file_decode_failed: %w", err)
	}
	return files, nil
}

// FindByID implements [FileRepository].
func (repository *DocumentFileRepository) FindByID(context context.Context, id string) (*File, error) {
	document, err := repository.store.Get(context, constants.CollectionCardFiles, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("File")
		}
		return nil, fmt.Errorf("document_card_file_find_failed: %w", err)
	}

	var file File
	if err := document.Decode(&file); err != nil {
		return nil, fmt.Errorf("document_card_file_decode_failed: %w", err)
	}
	return &file, nil
}

// Create implements [FileRepository].
func (repository *DocumentFileRepository) Create(context context.Context, file *File) error {
	if file.CreatedAt.IsZero() {
		file.CreatedAt = time.Now().UTC()
	}

	id, err := repository.store.Create(context, constants.CollectionCardFiles, file)
	if err != nil {
		return fmt.Errorf("document_card_file_create_failed: %w", err)
	}

	file.ID = id
	return nil
}

// Delete implements [FileRepository].
func (repository *DocumentFileRepository) Delete(context context.Context, id string) error {
	if err := repository.store.Delete(context, constants.CollectionCardFiles, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("File")
		}
		return fmt.Errorf("document_card_file_delete_failed: %w", err)
	}
	return nil
}
