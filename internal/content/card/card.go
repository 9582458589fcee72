// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package card manages the public cards, their grouped display and card files.

A card either links out (action_url) or opens its internal page, which lists
the files uploaded for it. Cards with category_id "" are unassigned and, like
cards whose category no longer exists, are left out of the grouped display.
*/
package card

import (
	"context"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/content/category"
)

// # Domain Models

// Card is a single entry on the public page.
type Card struct {
	ID           string     `json:"id"`
	CategoryID   string     `json:"category_id"`
	Title        string     `json:"title"`
	ActionLabel  string     `json:"action_label"`
	ActionURL    string     `json:"action_url,omitempty"`
	InternalPage bool       `json:"internal_page,omitempty"`
	Order        int        `json:"order"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
}

// Input carries the editable fields of a card.
type Input struct {
	CategoryID   string `json:"category_id"`
	Title        string `json:"title"`
	ActionLabel  string `json:"action_label"`
	ActionURL    string `json:"action_url"`
	InternalPage bool   `json:"internal_page"`
	Order        int    `json:"order"`
}

// File is an uploaded attachment shown on a card's internal page.
type File struct {
	ID          string    `json:"id"`
	CardID      string    `json:"card_id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type,omitempty"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Group is one category section of the public page.
type Group struct {
	Category *category.Category `json:"category"`
	Cards    []*Card            `json:"cards"`
}

// Page is a card's internal page.
type Page struct {
	Card  *Card   `json:"card"`
	Files []*File `json:"files"`
}

// Upload describes an incoming file.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
}

// # Collaborators

// Categories is the view of the category collection cards depend on.
type Categories interface {
	List(ctx context.Context) ([]*category.Category, error)
	Exists(ctx context.Context, id string) (bool, error)
}

// # Constants

// JSON field names, also used as validation field keys.
const (
	FieldID           = "id"
	FieldCardID       = "card_id"
	FieldCategoryID   = "category_id"
	FieldTitle        = "title"
	FieldActionLabel  = "action_label"
	FieldActionURL    = "action_url"
	FieldInternalPage = "internal_page"
	FieldOrder        = "order"
	FieldFile         = "file"
	FieldUpdatedAt    = "updated_at"
)

// Unassigned is the category_id of a card outside every category.
const Unassigned = ""

const (
	MaxTitleLength       = 160
	MaxActionLabelLength = 60

	MessageFilesCleanupFailed = "Some files of this card could not be removed"
)
