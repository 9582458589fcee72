// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// TokenVerifier validates bearer access tokens.
type TokenVerifier interface {
	VerifyToken(token string) (*sec.AuthClaims, error)
}

// Resolver is the Identity Resolver: session credentials in, stored member out.
//
// Nothing is cached. Every call reads the users collection, so role changes
// and deletions are visible on the next request.
type Resolver struct {
	users  UserRepository
	tokens TokenVerifier
}

// NewResolver builds a resolver. tokens may be nil when bearer tokens are disabled.
func NewResolver(users UserRepository, tokens TokenVerifier) *Resolver {
	return &Resolver{users: users, tokens: tokens}
}

/*
Resolve maps a session cookie value to the stored member.

Returns nil when the value is malformed, carries no id, names an unknown
member, or the lookup fails. A failing lookup is logged, never raised.
*/
func (resolver *Resolver) Resolve(context context.Context, cookieValue string) *User {
	token, ok := session.Decode(cookieValue)
	if !ok {
		return nil
	}
	return resolver.lookup(context, token.ID, "cookie")
}

// ResolveCookie implements middleware.SessionResolver.
func (resolver *Resolver) ResolveCookie(context context.Context, cookieValue string) *session.Principal {
	return resolver.Resolve(context, cookieValue).Principal()
}

// ResolveBearer implements middleware.SessionResolver.
//
// The token only proves the member id. The role comes from the store.
func (resolver *Resolver) ResolveBearer(context context.Context, bearer string) *session.Principal {
	if resolver.tokens == nil {
		return nil
	}

	claims, err := resolver.tokens.VerifyToken(bearer)
	if err != nil {
		ctxutil.GetLogger(context).Debug("bearer_token_rejected", slog.String("reason", err.Error()))
		return nil
	}

	return resolver.lookup(context, claims.UserID, "bearer").Principal()
}

func (resolver *Resolver) lookup(context context.Context, id, source string) *User {
	user, err := resolver.users.FindByID(context, id)
	if err != nil {
		if !apperr.HasCode(err, apperr.CodeNotFound) {
			ctxutil.GetLogger(context).Warn("identity_resolve_failed",
				slog.String("source", source),
				slog.Any("error", err),
			)
		}
		return nil
	}
	return user
}
