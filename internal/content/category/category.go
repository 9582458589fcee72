// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package category implements the Category Ordering Engine and category CRUD.

Display order is the relative order of the "order" field. Every save writes
order = index+1 for the whole sequence, one document at a time, and then
reloads the collection. Writes that succeed before a failure stay applied.

Deleting a category detaches its cards (category_id = "") before the
category document itself is removed.
*/
package category

import (
	"context"
	"time"
)

// # Domain Models

// Category groups cards on the public page.
type Category struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Order     int        `json:"order"`
	IconName  string     `json:"icon_name,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// Input carries the editable fields of a category.
type Input struct {
	Name     string `json:"name"`
	IconName string `json:"icon_name"`
}

// # Collaborators

// CardLinks is the view of the card collection needed to detach cards from
// a category being deleted.
type CardLinks interface {
	// CardIDsByCategory lists the ids of cards referencing categoryID.
	CardIDsByCategory(ctx context.Context, categoryID string) ([]string, error)

	// DetachCategory rewrites a card's category_id to the unassigned sentinel.
	DetachCategory(ctx context.Context, cardID string, at time.Time) error
}

// WorkflowRecorder counts workflow outcomes.
type WorkflowRecorder interface {
	WorkflowOutcome(workflow, outcome string)
}

// # Constants

// JSON field names, also used as validation field keys.
const (
	FieldID        = "id"
	FieldIDs       = "ids"
	FieldName      = "name"
	FieldOrder     = "order"
	FieldIconName  = "icon_name"
	FieldPosition  = "position"
	FieldUpdatedAt = "updated_at"
)

const (
	MaxNameLength = 80

	MessageOrderSaveFailed = "Failed to save category order"
	MessageDetachFailed    = "Category deleted, but some cards could not be detached"
)

// Workflow names reported to the [WorkflowRecorder].
const (
	WorkflowSaveOrder      = "save_order"
	WorkflowDeleteCategory = "delete_category"
)
