// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/docstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
)

// # User Repository

// DocumentUserRepository implements [UserRepository] over the "users" collection.
type DocumentUserRepository struct {
	store docstore.Store
}

// NewUserRepository creates a document-backed [UserRepository].
func NewUserRepository(store docstore.Store) *DocumentUserRepository {
	return &DocumentUserRepository{store: store}
}

// FindByID implements [UserRepository].
func (repository *DocumentUserRepository) FindByID(context context.Context, id string) (*User, error) {
	document, err := repository.store.Get(context, constants.CollectionUsers, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("User")
		}
		return nil, fmt.Errorf("document_user_find_by_id_failed: %w", err)
	}

	var user User
	if err := document.Decode(&user); err != nil {
		return nil, fmt.Errorf("document_user_decode_failed: %w", err)
	}
	return &user, nil
}

// FindByEmail implements [UserRepository].
func (repository *DocumentUserRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := docstore.Where(FieldEmail, NormalizeEmail(email))
	query.Limit = 1

	documents, err := repository.store.Query(context, constants.CollectionUsers, query)
	if err != nil {
		return nil, fmt.Errorf("document_user_find_by_email_failed: %w", err)
	}
	if len(documents) == 0 {
		return nil, apperr.NotFound("User")
	}

	var user User
	if err := documents[0].Decode(&user); err != nil {
		return nil, fmt.Errorf("document_user_decode_failed: %w", err)
	}
	return &user, nil
}

// List implements [UserRepository].
func (repository *DocumentUserRepository) List(context context.Context) ([]*User, error) {
	documents, err := repository.store.Query(context, constants.CollectionUsers, docstore.Query{})
	if err != nil {
		return nil, fmt.Errorf("document_user_list_failed: %w", err)
	}

	users, err := docstore.DecodeAll[*User](documents)
	if err != nil {
		return nil, fmt.Errorf("document_user_decode_failed: %w", err)
	}
	return users, nil
}

// Create implements [UserRepository].
func (repository *DocumentUserRepository) Create(context context.Context, user *User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	if !user.Role.Valid() {
		user.Role = sec.RoleGuest
	}

	if err := repository.store.Put(context, constants.CollectionUsers, user.ID, user); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return apperr.Conflict(MessageEmailTaken)
		}
		return fmt.Errorf("document_user_create_failed: %w", err)
	}
	return nil
}

// UpdateRole implements [UserRepository].
func (repository *DocumentUserRepository) UpdateRole(context context.Context, id string, role sec.UserRole, at time.Time) error {
	return repository.update(context, id, map[string]any{FieldRole: role, FieldUpdatedAt: at.UTC()})
}

// UpdateEmail implements [UserRepository].
func (repository *DocumentUserRepository) UpdateEmail(context context.Context, id, email string, at time.Time) error {
	return repository.update(context, id, map[string]any{FieldEmail: NormalizeEmail(email), FieldUpdatedAt: at.UTC()})
}

// Delete implements [UserRepository].
func (repository *DocumentUserRepository) Delete(context context.Context, id string) error {
	if err := repository.store.Delete(context, constants.CollectionUsers, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("User")
		}
		return fmt.Errorf("document_user_delete_failed: %w", err)
	}
	return nil
}

func (repository *DocumentUserRepository) update(context context.Context, id string, patch map[string]any) error {
	if err := repository.store.Update(context, constants.CollectionUsers, id, patch); err != nil {
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			return apperr.NotFound("User")
		case errors.Is(err, docstore.ErrConflict):
			return apperr.Conflict(MessageEmailTaken)
		}
		return fmt.Errorf("document_user_update_failed: %w", err)
	}
	return nil
}

// # Credential Repository

// DocumentCredentialRepository implements [CredentialRepository] over the
// "credentials" collection.
type DocumentCredentialRepository struct {
	store docstore.Store
}

// NewCredentialRepository creates a document-backed [CredentialRepository].
func NewCredentialRepository(store docstore.Store) *DocumentCredentialRepository {
	return &DocumentCredentialRepository{store: store}
}

// FindByID implements [CredentialRepository].
func (repository *DocumentCredentialRepository) FindByID(context context.Context, id string) (*Credential, error) {
	document, err := repository.store.Get(context, constants.CollectionCredentials, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, apperr.NotFound("Credential")
		}
		return nil, fmt.Errorf("document_credential_find_by_id_failed: %w", err)
	}

	var credential Credential
	if err := document.Decode(&credential); err != nil {
		return nil, fmt.Errorf("document_credential_decode_failed: %w", err)
	}
	return &credential, nil
}

// FindByEmail implements [CredentialRepository].
func (repository *DocumentCredentialRepository) FindByEmail(context context.Context, email string) (*Credential, error) {
	query := docstore.Where(FieldEmail, NormalizeEmail(email))
	query.Limit = 1

	documents, err := repository.store.Query(context, constants.CollectionCredentials, query)
	if err != nil {
		return nil, fmt.Errorf("document_credential_find_by_email_failed: %w", err)
	}
	if len(documents) == 0 {
		return nil, apperr.NotFound("Credential")
	}

	var credential Credential
	if err := documents[0].Decode(&credential); err != nil {
		return nil, fmt.Errorf("document_credential_decode_failed: %w", err)
	}
	return &credential, nil
}

// Create implements [CredentialRepository].
func (repository *DocumentCredentialRepository) Create(context context.Context, credential *Credential) error {
	now := time.Now().UTC()
	if credential.CreatedAt.IsZero() {
		credential.CreatedAt = now
	}
	credential.UpdatedAt = now
	credential.Email = NormalizeEmail(credential.Email)

	if err := repository.store.Put(context, constants.CollectionCredentials, credential.ID, credential); err != nil {
		if errors.Is(err, docstore.ErrConflict) {
			return apperr.Conflict(MessageEmailTaken)
		}
		return fmt.Errorf("document_credential_create_failed: %w", err)
	}
	return nil
}

// UpdatePassword implements [CredentialRepository].
func (repository *DocumentCredentialRepository) UpdatePassword(context context.Context, id, passwordHash string, at time.Time) error {
	return repository.update(context, id, map[string]any{FieldPasswordHash: passwordHash, FieldUpdatedAt: at.UTC()})
}

// UpdateEmail implements [CredentialRepository].
func (repository *DocumentCredentialRepository) UpdateEmail(context context.Context, id, email string, at time.Time) error {
	return repository.update(context, id, map[string]any{FieldEmail: NormalizeEmail(email), FieldUpdatedAt: at.UTC()})
}

// Delete implements [CredentialRepository].
func (repository *DocumentCredentialRepository) Delete(context context.Context, id string) error {
	if err := repository.store.Delete(context, constants.CollectionCredentials, id); err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return apperr.NotFound("Credential")
		}
		return fmt.Errorf("document_credential_delete_failed: %w", err)
	}
	return nil
}

func (repository *DocumentCredentialRepository) update(context context.Context, id string, patch map[string]any) error {
	if err := repository.store.Update(context, constants.CollectionCredentials, id, patch); err != nil {
		switch {
		case errors.Is(err, docstore.ErrNotFound):
			return apperr.NotFound("Credential")
		case errors.Is(err, docstore.ErrConflict):
			return apperr.Conflict(MessageEmailTaken)
		}
		return fmt.Errorf("document_credential_update_failed: %w", err)
	}
	return nil
}

// UniqueFields lists the uniqueness rules the in-memory store must enforce
// to mirror the Postgres partial indexes.
func UniqueFields() []docstore.UniqueField {
	return []docstore.UniqueField{
		{Collection: constants.CollectionUsers, Field: FieldEmail},
		{Collection: constants.CollectionCredentials, Field: FieldEmail},
	}
}
