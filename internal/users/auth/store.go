// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
)

// # User Data Access

// UserRepository defines the data access contract for member profiles.
//
// Lookups of absent members return apperr.NotFound.
type UserRepository interface {
	FindByID(context context.Context, id string) (*User, error)
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns every member in creation order.
	List(context context.Context) ([]*User, error)

	/*
		Create persists a new profile under user.ID.

		Returns:
		  - error: apperr.Conflict when the email is taken
	*/
	Create(context context.Context, user *User) error

	UpdateRole(context context.Context, id string, role sec.UserRole, at time.Time) error
	UpdateEmail(context context.Context, id, email string, at time.Time) error
	Delete(context context.Context, id string) error
}

// # Credential Data Access

// CredentialRepository stores sign-in secrets.
type CredentialRepository interface {
	FindByID(context context.Context, id string) (*Credential, error)
	FindByEmail(context context.Context, email string) (*Credential, error)
	Create(context context.Context, credential *Credential) error
	UpdatePassword(context context.Context, id, passwordHash string, at time.Time) error
	UpdateEmail(context context.Context, id, email string, at time.Time) error
	Delete(context context.Context, id string) error
}

// # Reset Token Data Access

// ResetTokenRepository keeps password reset tokens with a TTL.
type ResetTokenRepository interface {
	Set(context context.Context, token string, userID string, ttl time.Duration) error

	/*
		Get retrieves the member id for token.

		Returns:
		  - error: apperr.NotFound if the token is absent or expired
	*/
	Get(context context.Context, token string) (string, error)

	Delete(context context.Context, token string) error
}
