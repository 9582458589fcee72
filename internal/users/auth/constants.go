// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// AccessTokenTTL is the lifetime of a bearer token, matching the cookie.
	AccessTokenTTL = 24 * time.Hour

	// ResetTokenTTL is how long a password reset token stays valid.
	ResetTokenTTL = 1 * time.Hour

	// ResetTokenLength is the byte length of the random password reset token.
	ResetTokenLength = 32

	// MinPasswordLength is the shortest password the provider accepts.
	MinPasswordLength = 6

	// MaxNameLength caps display names.
	MaxNameLength = 120
)

// # Client Messages

const (
	MessageInvalidCredentials = "Invalid email or password"
	MessageNotRegistered      = "Account is not registered in the portal"
	MessageEmailTaken         = "Email is already registered"
	MessageWrongPassword      = "Current password is incorrect"
	MessageResetTokenInvalid  = "Reset token is invalid or expired"
)
