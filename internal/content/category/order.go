// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"fmt"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
)

// # Pure Ordering

/*
Reorder moves the category movedID to targetPosition.

It is a stable list move, not a swap: the element is removed and inserted
again at targetPosition, and every other element keeps its relative order.
The input slice is left untouched.

Returns:
  - []*Category: the new sequence
  - error: VALIDATION_ERROR for an unknown id or a position outside [0, N-1]
*/
func Reorder(categories []*Category, movedID string, targetPosition int) ([]*Category, error) {
	from := indexOf(categories, movedID)
	if from < 0 {
		return nil, validate.RequiredError(FieldID, "Unknown category")
	}

	if targetPosition < 0 || targetPosition >= len(categories) {
		return nil, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   FieldPosition,
			Message: fmt.Sprintf("Must be between 0 and %d", len(categories)-1),
		})
	}

	moved := categories[from]
	rest := make([]*Category, 0, len(categories)-1)
	rest = append(rest, categories[:from]...)
	rest = append(rest, categories[from+1:]...)

	result := make([]*Category, 0, len(categories))
	result = append(result, rest[:targetPosition]...)
	result = append(result, moved)
	result = append(result, rest[targetPosition:]...)
	return result, nil
}

// Renumber returns copies of sequence with order = index+1.
func Renumber(sequence []*Category) []*Category {
	result := make([]*Category, len(sequence))
	for index, category := range sequence {
		renumbered := *category
		renumbered.Order = index + 1
		result[index] = &renumbered
	}
	return result
}

/*
Arrange orders current by ids.

ids must name every category in current exactly once.
*/
func Arrange(current []*Category, ids []string) ([]*Category, error) {
	if len(ids) != len(current) {
		return nil, validate.RequiredError(FieldIDs, fmt.Sprintf("Must list all %d categories", len(current)))
	}

	byID := make(map[string]*Category, len(current))
	for _, category := range current {
		byID[category.ID] = category
	}

	sequence := make([]*Category, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		category, ok := byID[id]
		if !ok {
			return nil, validate.RequiredError(FieldIDs, fmt.Sprintf("Unknown category %q", id))
		}
		if seen[id] {
			return nil, validate.RequiredError(FieldIDs, fmt.Sprintf("Category %q listed twice", id))
		}
		seen[id] = true
		sequence = append(sequence, category)
	}

	return sequence, nil
}

func indexOf(categories []*Category, id string) int {
	for index, category := range categories {
		if category.ID == id {
			return index
		}
	}
	return -1
}
