// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package card

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/objectstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
	"github.com/leoFagundes/breakfast-budget-club/pkg/slice"
	"github.com/leoFagundes/breakfast-budget-club/pkg/slug"
)

// # Service Layer

// Service runs the card and card file workflows.
type Service struct {
	cardRepository Repository
	fileRepository FileRepository
	categories     Categories
	objects        objectstore.Store
	now            func() time.Time
}

// NewService constructs a card [Service]. objects may be nil, which
// disables uploads.
func NewService(cards Repository, files FileRepository, categories Categories, objects objectstore.Store) *Service {
	return &Service{
		cardRepository: cards,
		fileRepository: files,
		categories:     categories,
		objects:        objects,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

// # Reads

// List returns every card sorted by order.
func (service *Service) List(context context.Context) ([]*Card, error) {
	return service.cardRepository.List(context)
}

// Get returns a single card.
func (service *Service) Get(context context.Context, id string) (*Card, error) {
	return service.cardRepository.FindByID(context, id)
}

// Page returns a card together with its files.
func (service *Service) Page(context context.Context, id string) (*Page, error) {
	card, err := service.cardRepository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	files, err := service.fileRepository.ListByCard(context, id)
	if err != nil {
		return nil, err
	}

	return &Page{Card: card, Files: files}, nil
}

/*
Grouped builds the public page: one [Group] per category in category order,
each holding its cards in card order.

Unassigned cards, cards of a missing category and empty categories are
left out.
*/
func (service *Service) Grouped(context context.Context) ([]Group, error) {
	categories, err := service.categories.List(context)
	if err != nil {
		return nil, err
	}

	cards, err := service.cardRepository.List(context)
	if err != nil {
		return nil, err
	}

	assigned := slice.Filter(cards, func(card *Card) bool { return card.CategoryID != Unassigned })

	byCategory := make(map[string][]*Card, len(categories))
	for _, card := range assigned {
		byCategory[card.CategoryID] = append(byCategory[card.CategoryID], card)
	}

	groups := make([]Group, 0, len(categories))
	for _, category := range categories {
		if items := byCategory[category.ID]; len(items) > 0 {
			groups = append(groups, Group{Category: category, Cards: items})
		}
	}
	return groups, nil
}

// # Card Writes

/*
Create stores a new card and returns the reloaded card list.

An order of zero appends the card after the current last position.
*/
func (service *Service) Create(context context.Context, input Input) ([]*Card, error) {
	input, err := service.checkInput(context, input)
	if err != nil {
		return nil, err
	}

	if input.Order == 0 {
		current, err := service.cardRepository.List(context)
		if err != nil {
			return nil, err
		}
		input.Order = len(current) + 1
	}

	card := &Card{
		CategoryID:   input.CategoryID,
		Title:        input.Title,
		ActionLabel:  input.ActionLabel,
		ActionURL:    input.ActionURL,
		InternalPage: input.InternalPage,
		Order:        input.Order,
		CreatedAt:    service.now(),
	}
	if err := service.cardRepository.Create(context, card); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("card_created",
		slog.String("card_id", card.ID),
		slog.String("category_id", card.CategoryID),
	)

	return service.cardRepository.List(context)
}

// Update rewrites a card and returns the reloaded card list.
func (service *Service) Update(context context.Context, id string, input Input) ([]*Card, error) {
	input, err := service.checkInput(context, input)
	if err != nil {
		return nil, err
	}

	if err := service.cardRepository.Update(context, id, input, service.now()); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("card_updated", slog.String("card_id", id))

	return service.cardRepository.List(context)
}

/*
Delete removes a card and its files.

Every file is tried (object first, then document) before the card document
is deleted. Files that could not be removed are reported as PARTIAL_FAILURE.
*/
func (service *Service) Delete(context context.Context, id string) ([]*Card, error) {
	if _, err := service.cardRepository.FindByID(context, id); err != nil {
		return nil, err
	}

	files, err := service.fileRepository.ListByCard(context, id)
	if err != nil {
		return nil, err
	}

	var failures []error
	for _, file := range files {
		if err := service.removeFile(context, file); err != nil {
			failures = append(failures, fmt.Errorf("file %s: %w", file.ID, err))
		}
	}

	if err := service.cardRepository.Delete(context, id); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context).With(slog.String("card_id", id))
	if len(failures) > 0 {
		logger.Warn("card_files_partial_failure", slog.Int("failed", len(failures)))
		return nil, apperr.PartialFailure(MessageFilesCleanupFailed, errors.Join(failures...))
	}

	logger.Info("card_deleted", slog.Int("files", len(files)))

	return service.cardRepository.List(context)
}

// # Card Files

// Files lists the files of a card.
func (service *Service) Files(context context.Context, cardID string) ([]*File, error) {
	if _, err := service.cardRepository.FindByID(context, cardID); err != nil {
		return nil, err
	}
	return service.fileRepository.ListByCard(context, cardID)
}

/*
Upload stores body under card-files/<card id>/<name> and records it.

# Flow
 1. The card must exist and object storage must be configured.
 2. The name is reduced to a safe object name. A name already used on the
    card is rejected.
 3. The object is written, then the metadata document. If the document
    cannot be written the object is removed again.
*/
func (service *Service) Upload(context context.Context, cardID string, upload Upload, body io.Reader) (*File, error) {
	if service.objects == nil {
		return nil, apperr.ServiceUnavailable("File storage is not configured")
	}

	displayName := strings.TrimSpace(path.Base(strings.ReplaceAll(upload.Name, "\\", "/")))
	if displayName == "." || displayName == "/" {
		displayName = ""
	}

	validator := &validate.Validator{}
	validator.Required(FieldFile, displayName).
		Custom(FieldFile, upload.Size > constants.MaxUploadBytes,
			fmt.Sprintf("Files are limited to %d MiB", constants.MaxUploadBytes>>20))

	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.cardRepository.FindByID(context, cardID); err != nil {
		return nil, err
	}

	objectPath := ObjectPath(cardID, displayName)

	existing, err := service.fileRepository.ListByCard(context, cardID)
	if err != nil {
		return nil, err
	}
	for _, file := range existing {
		if file.Path == objectPath {
			return nil, apperr.Conflict("A file with this name already exists on this card")
		}
	}

	url, err := service.objects.Put(context, objectPath, body, upload.ContentType)
	if err != nil {
		return nil, fmt.Errorf("card_file_put_failed: %w", err)
	}

	file := &File{
		CardID:      cardID,
		Name:        displayName,
		URL:         url,
		Path:        objectPath,
		ContentType: upload.ContentType,
		Size:        upload.Size,
		CreatedAt:   service.now(),
	}

	logger := ctxutil.GetLogger(context).With(slog.String("card_id", cardID), slog.String("path", objectPath))

	if err := service.fileRepository.Create(context, file); err != nil {
		if cleanupErr := service.objects.Delete(context, objectPath); cleanupErr != nil {
			logger.Warn("card_file_orphaned", slog.String("error", cleanupErr.Error()))
		}
		return nil, err
	}

	logger.Info("card_file_uploaded", slog.String("file_id", file.ID), slog.Int64("size", file.Size))

	return file, nil
}

// DeleteFile removes a card file, object first and document second.
func (service *Service) DeleteFile(context context.Context, cardID, fileID string) ([]*File, error) {
	if service.objects == nil {
		return nil, apperr.ServiceUnavailable("File storage is not configured")
	}

	file, err := service.fileRepository.FindByID(context, fileID)
	if err != nil {
		return nil, err
	}
	if file.CardID != cardID {
		return nil, apperr.NotFound("File")
	}

	if err := service.removeFile(context, file); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("card_file_deleted",
		slog.String("card_id", cardID),
		slog.String("file_id", fileID),
	)

	return service.fileRepository.ListByCard(context, cardID)
}

// removeFile deletes the object and then its document. An object that is
// already gone does not block the document delete.
func (service *Service) removeFile(context context.Context, file *File) error {
	if service.objects != nil {
		if err := service.objects.Delete(context, file.Path); err != nil && !errors.Is(err, objectstore.ErrNotFound) {
			return fmt.Errorf("card_file_object_delete_failed: %w", err)
		}
	}
	return service.fileRepository.Delete(context, file.ID)
}

// # Helpers

// ObjectPath returns the object key of a card file.
//
//	ObjectPath("c1", "Menu Café.PDF") == "card-files/c1/menu-cafe.pdf"
func ObjectPath(cardID, name string) string {
	extension := path.Ext(name)
	stem := slug.From(strings.TrimSuffix(name, extension))
	if stem == "" {
		stem = "file"
	}

	if extension = slug.From(extension); extension != "" {
		stem += "." + extension
	}

	return path.Join(constants.CardFilesPrefix, cardID, stem)
}

// checkInput trims and validates card fields, then checks the category.
func (service *Service) checkInput(context context.Context, input Input) (Input, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.ActionLabel = strings.TrimSpace(input.ActionLabel)
	input.ActionURL = strings.TrimSpace(input.ActionURL)
	input.CategoryID = strings.TrimSpace(input.CategoryID)
	if input.InternalPage {
		input.ActionURL = ""
	}

	validator := &validate.Validator{}
	validator.Required(FieldTitle, input.Title).
		MaxLen(FieldTitle, input.Title, MaxTitleLength).
		Required(FieldActionLabel, input.ActionLabel).
		MaxLen(FieldActionLabel, input.ActionLabel, MaxActionLabelLength).
		Custom(FieldOrder, input.Order < 0, "Must be zero or greater")

	if !input.InternalPage {
		validator.Required(FieldActionURL, input.ActionURL).URL(FieldActionURL, input.ActionURL)
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	if input.CategoryID != Unassigned {
		exists, err := service.categories.Exists(context, input.CategoryID)
		if err != nil {
			return Input{}, err
		}
		if !exists {
			return Input{}, validate.RequiredError(FieldCategoryID, "Unknown category")
		}
	}

	return input, nil
}
