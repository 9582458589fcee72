// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/pkg/uuidv7"
)

// # Contracts & Types

// TokenProvider issues bearer access tokens.
type TokenProvider interface {
	GenerateAccessToken(userID, name string, timeToLive time.Duration) (string, error)
}

// Service is the portal's identity provider.
type Service struct {
	userRepository       UserRepository
	credentialRepository CredentialRepository
	resetTokenRepository ResetTokenRepository
	tokenProvider        TokenProvider
	now                  func() time.Time
}

// NewService constructs a [Service]. tokenProvider may be nil, in which case
// sign-in only establishes the cookie session.
func NewService(
	userRepo UserRepository,
	credentialRepo CredentialRepository,
	resetRepo ResetTokenRepository,
	tokenProv TokenProvider,
) *Service {
	return &Service{
		userRepository:       userRepo,
		credentialRepository: credentialRepo,
		resetTokenRepository: resetRepo,
		tokenProvider:        tokenProv,
		now:                  func() time.Time { return time.Now().UTC() },
	}
}

// NormalizeEmail trims and case-folds an email address.
func NormalizeEmail(email string) string {
	return cases.Fold().String(strings.TrimSpace(email))
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

/*
Register creates the credential and the member profile.

New members always start as guests. Promotion goes through the role editor.

Returns:
  - *User: Created profile
  - err: Conflict if the email is taken, or storage errors
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*User, error) {
	email := NormalizeEmail(input.Email)

	if _, err := service.credentialRepository.FindByEmail(context, email); err == nil {
		return nil, apperr.Conflict(MessageEmailTaken)
	} else if !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	now := service.now()
	id := uuidv7.New()

	credential := &Credential{ID: id, Email: email, PasswordHash: hashedPassword, CreatedAt: now}
	if err := service.credentialRepository.Create(context, credential); err != nil {
		return nil, err
	}

	user := &User{
		ID:        id,
		Name:      strings.TrimSpace(input.Name),
		Email:     email,
		Role:      sec.RoleGuest,
		CreatedAt: now,
	}
	if err := service.userRepository.Create(context, user); err != nil {
		// A credential without a profile would block the email for good.
		if cleanupErr := service.credentialRepository.Delete(context, id); cleanupErr != nil {
			ctxutil.GetLogger(context).Error("register_credential_orphaned",
				slog.String("user_id", id),
				slog.Any("error", cleanupErr),
			)
		}
		return nil, fmt.Errorf("auth_service_register_failed: %w", err)
	}

	return user, nil
}

// # Authentication Flow

// LoginResult is a successful sign-in.
type LoginResult struct {
	User *User
	// AccessToken is empty when bearer tokens are disabled.
	AccessToken string
}

/*
Login checks the credential and loads the member profile.

A valid credential without a profile is rejected: the account exists in the
identity provider but not in the portal.
*/
func (service *Service) Login(context context.Context, email, password string) (*LoginResult, error) {
	credential, err := service.credentialRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.Unauthorized(MessageInvalidCredentials)
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(password, credential.PasswordHash) {
		return nil, apperr.Unauthorized(MessageInvalidCredentials)
	}

	user, err := service.userRepository.FindByID(context, credential.ID)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return nil, apperr.ForbiddenCode(CodeNotRegistered, MessageNotRegistered)
		}
		return nil, err
	}

	result := &LoginResult{User: user}
	if service.tokenProvider != nil {
		result.AccessToken, err = service.tokenProvider.GenerateAccessToken(user.ID, user.Name, AccessTokenTTL)
		if err != nil {
			return nil, fmt.Errorf("auth_service_token_generation_failed: %w", err)
		}
	}

	return result, nil
}

// CodeNotRegistered marks a credential without a portal profile.
const CodeNotRegistered = "NOT_REGISTERED"

// # Password Recovery

/*
RequestPasswordReset stores a one-hour reset token for the member.

Unknown emails return an empty token and no error, so the endpoint cannot be
used to probe for accounts.
*/
func (service *Service) RequestPasswordReset(context context.Context, email string) (string, error) {
	credential, err := service.credentialRepository.FindByEmail(context, email)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return "", nil
		}
		return "", err
	}

	token, err := sec.GenerateSecureToken(ResetTokenLength)
	if err != nil {
		return "", fmt.Errorf("auth_service_generate_reset_token_failed: %w", err)
	}

	if err := service.resetTokenRepository.Set(context, token, credential.ID, ResetTokenTTL); err != nil {
		return "", err
	}

	return token, nil
}

// ResetPassword consumes a reset token and sets a new password.
func (service *Service) ResetPassword(context context.Context, token, newPassword string) error {
	userID, err := service.resetTokenRepository.Get(context, token)
	if err != nil {
		if apperr.HasCode(err, apperr.CodeNotFound) {
			return apperr.ValidationError(MessageResetTokenInvalid, apperr.FieldError{
				Field:   FieldToken,
				Message: "is invalid or expired",
			})
		}
		return err
	}

	if err := service.setPassword(context, userID, newPassword); err != nil {
		return err
	}

	// The token is single use. A failed delete still leaves it to expire.
	_ = service.resetTokenRepository.Delete(context, token)

	return nil
}

// # Account Settings

// ChangePassword verifies the current password and replaces it.
func (service *Service) ChangePassword(context context.Context, userID, currentPassword, newPassword string) error {
	credential, err := service.credentialRepository.FindByID(context, userID)
	if err != nil {
		return err
	}

	if !sec.CheckPasswordHash(currentPassword, credential.PasswordHash) {
		return apperr.Unauthorized(MessageWrongPassword)
	}

	return service.setPassword(context, userID, newPassword)
}

/*
ChangeEmail moves the sign-in email and the profile email together.

Returns:
  - *User: The reloaded profile
  - err: Unauthorized on a wrong password, Conflict when the email is taken
*/
func (service *Service) ChangeEmail(context context.Context, userID, password, newEmail string) (*User, error) {
	email := NormalizeEmail(newEmail)

	credential, err := service.credentialRepository.FindByID(context, userID)
	if err != nil {
		return nil, err
	}

	if !sec.CheckPasswordHash(password, credential.PasswordHash) {
		return nil, apperr.Unauthorized(MessageWrongPassword)
	}

	if credential.Email == email {
		return service.userRepository.FindByID(context, userID)
	}

	if other, err := service.credentialRepository.FindByEmail(context, email); err == nil && other.ID != userID {
		return nil, apperr.Conflict(MessageEmailTaken)
	} else if err != nil && !apperr.HasCode(err, apperr.CodeNotFound) {
		return nil, err
	}

	now := service.now()
	if err := service.credentialRepository.UpdateEmail(context, userID, email, now); err != nil {
		return nil, err
	}
	if err := service.userRepository.UpdateEmail(context, userID, email, now); err != nil {
		return nil, fmt.Errorf("auth_service_change_email_profile_failed: %w", err)
	}

	return service.userRepository.FindByID(context, userID)
}

// Me returns the current profile.
func (service *Service) Me(context context.Context, userID string) (*User, error) {
	return service.userRepository.FindByID(context, userID)
}

func (service *Service) setPassword(context context.Context, userID, password string) error {
	hashedPassword, err := sec.HashPassword(password)
	if err != nil {
		return fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	if err := service.credentialRepository.UpdatePassword(context, userID, hashedPassword, service.now()); err != nil {
		return err
	}
	return nil
}
