// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"time"
)

// # Category Data Access

// Repository defines the data access contract for categories.
type Repository interface {
	// List returns every category sorted by order.
	List(context context.Context) ([]*Category, error)

	// FindByID returns one category or NOT_FOUND.
	FindByID(context context.Context, id string) (*Category, error)

	// Create stores a new category and assigns its ID.
	Create(context context.Context, category *Category) error

	// UpdateDetails rewrites the name and icon of a category.
	UpdateDetails(context context.Context, id string, input Input, at time.Time) error

	// UpdateOrder rewrites the order key of a single category.
	UpdateOrder(context context.Context, id string, order int, at time.Time) error

	// Delete removes a category document.
	Delete(context context.Context, id string) error
}
