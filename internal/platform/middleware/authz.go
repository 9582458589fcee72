// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/gate"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// LoginRequiredMessage is the notice shown after a denied page view.
const LoginRequiredMessage = "You need to be logged in to access this page"

// SessionResolver turns request credentials into a principal.
//
// Both methods return nil for anything that does not resolve to a stored
// member. They never fail the request.
type SessionResolver interface {
	ResolveCookie(ctx context.Context, cookieValue string) *session.Principal
	ResolveBearer(ctx context.Context, token string) *session.Principal
}

// GateRecorder counts gate outcomes.
type GateRecorder interface {
	GateOutcome(gate, outcome string)
}

// # Session Loading

// LoadSession builds the request's single [session.Context].
//
// # Flow
//  1. The session cookie, when present, is resolved first.
//  2. Otherwise an 'Authorization: Bearer <token>' header is tried.
//  3. The result (possibly anonymous) is stored in the context.
func LoadSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			sessionContext := &session.Context{HasCookie: session.HasCookie(request)}

			if sessionContext.HasCookie {
				sessionContext.User = resolver.ResolveCookie(ctx, session.CookieValue(request))
			} else if token, ok := bearerToken(request); ok {
				sessionContext.User = resolver.ResolveBearer(ctx, token)
			}

			ctx = ctxutil.WithSession(ctx, sessionContext)
			if sessionContext.User != nil {
				logger := ctxutil.GetLogger(ctx).With(slog.String("user_id", sessionContext.User.ID))
				ctx = ctxutil.WithLogger(ctx, logger)
			}

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

func bearerToken(request *http.Request) (string, bool) {
	header := request.Header.Get(constants.HeaderAuthorization)
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

// # Coarse Gate

// CoarseGate redirects on cookie presence only.
//
//   - a path under /admin without the session cookie goes to /login;
//   - /login with the session cookie goes to /admin.
//
// It never inspects the cookie value. The fine gate must still run.
func CoarseGate(recorder GateRecorder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			path := request.URL.Path
			hasCookie := session.HasCookie(request)

			switch {
			case strings.HasPrefix(path, constants.AdminPathPrefix) && !hasCookie:
				recorder.GateOutcome("coarse", "redirect_login")
				http.Redirect(writer, request, constants.LoginPath, http.StatusFound)
				return
			case strings.HasPrefix(path, constants.LoginPath) && hasCookie:
				recorder.GateOutcome("coarse", "redirect_admin")
				http.Redirect(writer, request, constants.AdminHomePath, http.StatusFound)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Fine Gate

// RestrictedView is rendered with 403 when a signed-in member lacks access.
type RestrictedView struct {
	Gate    gate.State `json:"gate"`
	Title   string     `json:"title"`
	Message string     `json:"message"`
}

// FineGate resolves a [gate.Guard] against the loaded session for page routes.
//
//   - Denied: redirect to /login with a one-shot warning notice. A stale
//     session cookie is cleared so the coarse gate does not bounce back.
//   - Restricted: 403 with the restricted-access placeholder, no redirect.
//   - Allowed: the page is served.
func FineGate(name string, action sec.Action, recorder GateRecorder, secureCookies bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			sessionContext := ctxutil.GetSession(request.Context())

			guard := gate.NewGuard(action)
			state := guard.Resolve(sessionContext.User)
			recorder.GateOutcome(name, state.String())

			switch state {
			case gate.Denied:
				if sessionContext.HasCookie {
					http.SetCookie(writer, session.ClearCookie(secureCookies))
				}
				http.SetCookie(writer, session.NoticeCookie(session.Notice{
					Level:   session.NoticeWarning,
					Message: LoginRequiredMessage,
				}, secureCookies))
				http.Redirect(writer, request, constants.LoginPath, http.StatusSeeOther)
				return
			case gate.Restricted:
				respond.Status(writer, http.StatusForbidden, RestrictedView{
					Gate:    state,
					Title:   "Restricted access",
					Message: "This area is exclusive to administrators.",
				})
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # API Guards

// RequireSession blocks API requests without a resolved principal (401).
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequirePermission blocks API requests whose principal lacks action.
//
//   - no principal: 401
//   - matrix denial: 403 with the reason-specific code
func RequirePermission(action sec.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())
			if principal == nil {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if decision := sec.Check(principal.Role, action, sec.Target{}); !decision.Allowed {
				respond.Error(writer, request, decision.Err())
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
