// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package card

import (
	"context"
	"time"
)

// # Card Data Access

// Repository defines the data access contract for cards.
type Repository interface {
	// List returns every card sorted by order.
	List(context context.Context) ([]*Card, error)

	// FindByID returns one card or NOT_FOUND.
	FindByID(context context.Context, id string) (*Card, error)

	// Create stores a new card and assigns its ID.
	Create(context context.Context, card *Card) error

	// Update rewrites the editable fields of a card.
	Update(context context.Context, id string, input Input, at time.Time) error

	// Delete removes a card document.
	Delete(context context.Context, id string) error

	// CardIDsByCategory lists the cards referencing categoryID.
	CardIDsByCategory(context context.Context, categoryID string) ([]string, error)

	// DetachCategory moves a card to the unassigned sentinel.
	DetachCategory(context context.Context, cardID string, at time.Time) error
}

// # File Data Access

// FileRepository defines the data access contract for card file metadata.
type FileRepository interface {
	// ListByCard returns the files of a card in upload order.
	ListByCard(context context.Context, cardID string) ([]*File, error)

	// FindByID returns one file or NOT_FOUND.
	FindByID(context context.Context, id string) (*File, error)

	// Create stores file metadata and assigns its ID.
	Create(context context.Context, file *File) error

	// Delete removes file metadata.
	Delete(context context.Context, id string) error
}
