// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements portal identity: member profiles, credentials,
sign-in and the Identity Resolver that turns a session token into a member.

# Architecture

  - [User]: the member profile in the "users" collection. Its role is the
    only authority the permission matrix reads.
  - [Credential]: email + bcrypt hash in the "credentials" collection, keyed
    by the same id. Never serialized to clients.
  - [Service]: sign up, sign in, password and email flows.
  - [Resolver]: session cookie / bearer token → member, once per request.
*/
package auth

import (
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// # Domain Entities

// User is a portal member profile.
type User struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	Email     string       `json:"email"`
	Role      sec.UserRole `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at,omitempty"`
}

// Principal converts the profile into the session principal.
func (user *User) Principal() *session.Principal {
	if user == nil {
		return nil
	}
	return &session.Principal{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Role:  user.Role,
	}
}

// Credential is the sign-in secret for a member.
type Credential struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// # Field Identifiers

const (
	FieldName            = "name"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldToken           = "token"
	FieldCurrentPassword = "current_password"
	FieldNewPassword     = "new_password"
	FieldNewEmail        = "new_email"
	FieldRole            = "role"
	FieldPasswordHash    = "password_hash"
	FieldUpdatedAt       = "updated_at"
)
