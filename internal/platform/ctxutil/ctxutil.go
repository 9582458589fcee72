// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxkey"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok || logger == nil {
		return slog.Default()
	}
	return logger
}

// # Session

// WithSession returns a new context carrying the request's session view.
func WithSession(ctx context.Context, sessionContext *session.Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, sessionContext)
}

// GetSession retrieves the session view. It never returns nil: requests that
// skipped session loading are treated as anonymous without a cookie.
func GetSession(ctx context.Context) *session.Context {
	sessionContext, ok := ctx.Value(ctxkey.KeySession).(*session.Context)
	if !ok || sessionContext == nil {
		return &session.Context{}
	}
	return sessionContext
}

// GetPrincipal returns the resolved principal, or nil.
func GetPrincipal(ctx context.Context) *session.Principal {
	return GetSession(ctx).User
}
