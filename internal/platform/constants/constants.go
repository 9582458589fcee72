// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire portal.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Session: cookie names, lifetimes and gate paths.
  - Storage: document collections and redis key prefixes.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "bbc-portal"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	// Card file uploads need more headroom than a JSON request.
	DefaultReadTimeout = 30 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 30 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	DefaultRateLimitRPS      = 50.0
	DefaultRateLimitBurst    = 100
	RateLimitCleanupInterval = 1 * time.Minute
	RateLimitClientTTL       = 3 * time.Minute
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # Session & Gate

const (
	// AuthIssuer is the standard 'iss' claim in bearer tokens.
	AuthIssuer = "breakfastbudget.club"

	// SessionCookieName holds the JSON session token {"id": "<principal id>"}.
	SessionCookieName = "admin_user"

	// SessionCookieMaxAge is the cookie lifetime in seconds (24 hours).
	SessionCookieMaxAge = 86400

	// NoticeCookieName carries a one-shot notice shown on the next page view.
	NoticeCookieName = "portal_notice"

	// AdminPathPrefix marks every route guarded by the coarse gate.
	AdminPathPrefix = "/admin"

	// LoginPath is the sign-in page.
	LoginPath = "/login"

	// AdminHomePath is where signed-in visitors of the login page are sent.
	AdminHomePath = "/admin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldApp     = "app"
	FieldVersion = "version"
	FieldChecks  = "checks"
)

// # Document Collections

const (
	CollectionUsers       = "users"
	CollectionCredentials = "credentials"
	CollectionCategories  = "categories"
	CollectionCards       = "cards"
	CollectionCardFiles   = "card_files"
)

// # Object Storage

const (
	// CardFilesPrefix is the object key prefix for uploaded card files.
	CardFilesPrefix = "card-files"

	// MaxUploadBytes caps a single card file upload (50 MiB).
	MaxUploadBytes = 50 << 20
)

// # Redis Prefixes

const (
	RedisPrefixResetToken = "auth:reset_token:"
)
