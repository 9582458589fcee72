// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
)

// # Service Layer

// Service runs the category workflows. Every mutation returns the reloaded
// category list.
type Service struct {
	repository Repository
	cards      CardLinks
	recorder   WorkflowRecorder
	now        func() time.Time
}

// NewService constructs a category [Service]. recorder may be nil.
func NewService(repository Repository, cards CardLinks, recorder WorkflowRecorder) *Service {
	return &Service{
		repository: repository,
		cards:      cards,
		recorder:   recorder,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// List returns every category sorted by order.
func (service *Service) List(context context.Context) ([]*Category, error) {
	return service.repository.List(context)
}

// Get returns a single category.
func (service *Service) Get(context context.Context, id string) (*Category, error) {
	return service.repository.FindByID(context, id)
}

// Exists reports whether a category with id is stored.
func (service *Service) Exists(context context.Context, id string) (bool, error) {
	if _, err := service.repository.FindByID(context, id); err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// # Name & Icon

/*
Create appends a new category with order = count+1.

The name is required and the icon, when given, must be registered. Both are
checked before any store access.
*/
func (service *Service) Create(context context.Context, input Input) ([]*Category, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	current, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	category := &Category{
		Name:      input.Name,
		IconName:  input.IconName,
		Order:     len(current) + 1,
		CreatedAt: service.now(),
	}
	if err := service.repository.Create(context, category); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("category_created",
		slog.String("category_id", category.ID),
		slog.Int("order", category.Order),
	)

	return service.repository.List(context)
}

// Update rewrites the name and icon of a category. Ordering is untouched.
func (service *Service) Update(context context.Context, id string, input Input) ([]*Category, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	if err := service.repository.UpdateDetails(context, id, input, service.now()); err != nil {
		return nil, err
	}

	ctxutil.GetLogger(context).Info("category_updated", slog.String("category_id", id))

	return service.repository.List(context)
}

// # Ordering

/*
SaveOrder persists the sequence named by ids.

# Flow
 1. ids must be a permutation of the stored category ids.
 2. order = index+1 is written for every category, one at a time, in sequence.
 3. All writes are attempted. Any failure yields a single PARTIAL_FAILURE and
    the writes that succeeded are kept.
 4. The list is reloaded, and on failure it travels with the error.
*/
func (service *Service) SaveOrder(context context.Context, ids []string) ([]*Category, error) {
	current, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	sequence, err := Arrange(current, ids)
	if err != nil {
		return nil, err
	}

	return service.persist(context, sequence)
}

// Move relocates one category and persists the resulting sequence.
func (service *Service) Move(context context.Context, movedID string, position int) ([]*Category, error) {
	current, err := service.repository.List(context)
	if err != nil {
		return nil, err
	}

	sequence, err := Reorder(current, movedID, position)
	if err != nil {
		return nil, err
	}

	return service.persist(context, sequence)
}

func (service *Service) persist(context context.Context, sequence []*Category) ([]*Category, error) {
	logger := ctxutil.GetLogger(context)
	at := service.now()

	var failures []error
	for _, category := range Renumber(sequence) {
		if err := service.repository.UpdateOrder(context, category.ID, category.Order, at); err != nil {
			failures = append(failures, fmt.Errorf("category %s: %w", category.ID, err))
		}
	}

	if len(failures) > 0 {
		logger.Warn("category_order_partial_failure",
			slog.Int("failed", len(failures)),
			slog.Int("total", len(sequence)),
		)
		service.record(WorkflowSaveOrder, "partial_failure")
		return nil, service.withReload(context, apperr.PartialFailure(MessageOrderSaveFailed, errors.Join(failures...)))
	}

	logger.Info("category_order_saved", slog.Int("count", len(sequence)))
	service.record(WorkflowSaveOrder, "ok")

	return service.repository.List(context)
}

// # Deletion

/*
Delete removes a category after detaching its cards.

# Flow
 1. The category must exist.
 2. Every card referencing it is rewritten to category_id = "". All are tried.
 3. Only then is the category document deleted.
 4. A failed detach is reported as PARTIAL_FAILURE after the delete, carrying
    the reloaded list.
*/
func (service *Service) Delete(context context.Context, id string) ([]*Category, error) {
	if _, err := service.repository.FindByID(context, id); err != nil {
		return nil, err
	}

	logger := ctxutil.GetLogger(context).With(slog.String("category_id", id))

	cardIDs, err := service.cards.CardIDsByCategory(context, id)
	if err != nil {
		service.record(WorkflowDeleteCategory, "error")
		return nil, err
	}

	at := service.now()
	var failures []error
	for _, cardID := range cardIDs {
		if err := service.cards.DetachCategory(context, cardID, at); err != nil {
			failures = append(failures, fmt.Errorf("card %s: %w", cardID, err))
		}
	}

	if err := service.repository.Delete(context, id); err != nil {
		service.record(WorkflowDeleteCategory, "error")
		if len(failures) > 0 {
			return nil, service.withReload(context, apperr.PartialFailure(MessageDetachFailed, errors.Join(append(failures, err)...)))
		}
		return nil, err
	}

	if len(failures) > 0 {
		logger.Warn("category_detach_partial_failure",
			slog.Int("failed", len(failures)),
			slog.Int("cards", len(cardIDs)),
		)
		service.record(WorkflowDeleteCategory, "partial_failure")
		return nil, service.withReload(context, apperr.PartialFailure(MessageDetachFailed, errors.Join(failures...)))
	}

	logger.Info("category_deleted", slog.Int("detached_cards", len(cardIDs)))
	service.record(WorkflowDeleteCategory, "ok")

	return service.repository.List(context)
}

// withReload attaches the current list to a partial failure. A failed reload
// leaves the error as it is.
func (service *Service) withReload(context context.Context, failure *apperr.AppError) error {
	categories, err := service.repository.List(context)
	if err != nil {
		ctxutil.GetLogger(context).Warn("category_reload_failed", slog.Any("error", err))
		return failure
	}
	return failure.WithData(categories)
}

// normalizeInput trims the name and maps the icon onto its registry name.
func normalizeInput(input Input) (Input, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.IconName = strings.TrimSpace(input.IconName)

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).MaxLen(FieldName, input.Name, MaxNameLength)
	if input.IconName != "" {
		validator.Custom(FieldIconName, !IsKnownIcon(input.IconName),
			fmt.Sprintf("Icon %q is not in the lucide registry", input.IconName))
	}

	if err := validator.Err(); err != nil {
		return Input{}, err
	}

	if input.IconName != "" {
		input.IconName = NormalizeIcon(input.IconName)
	}
	return input, nil
}

func (service *Service) record(workflow, outcome string) {
	if service.recorder != nil {
		service.recorder.WorkflowOutcome(workflow, outcome)
	}
}
