// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/ctxutil"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/metrics"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
)

// fakeResolver resolves cookie and bearer values from a fixed member table.
type fakeResolver struct {
	members map[string]*session.Principal
	calls   int
}

func (resolver *fakeResolver) ResolveCookie(_ context.Context, value string) *session.Principal {
	resolver.calls++
	token, ok := session.Decode(value)
	if !ok {
		return nil
	}
	return resolver.members[token.ID]
}

func (resolver *fakeResolver) ResolveBearer(_ context.Context, token string) *session.Principal {
	resolver.calls++
	return resolver.members[token]
}

func newResolver() *fakeResolver {
	return &fakeResolver{members: map[string]*session.Principal{
		"owner-1": {ID: "owner-1", Role: sec.RoleOwner},
		"admin-1": {ID: "admin-1", Role: sec.RoleAdmin},
		"guest-1": {ID: "guest-1", Role: sec.RoleGuest},
	}}
}

func withCookie(request *http.Request, value string) *http.Request {
	request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: value})
	return request
}

var okHandler = http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
	writer.WriteHeader(http.StatusOK)
})

// adminPage composes the page chain used by the server.
func adminPage(resolver middleware.SessionResolver) http.Handler {
	recorder := metrics.New()
	return middleware.CoarseGate(recorder)(
		middleware.LoadSession(resolver)(
			middleware.FineGate("admin", sec.ActionViewAdminArea, recorder, false)(okHandler),
		),
	)
}

/*
TestCoarseGate covers both presence-only redirects.
*/
func TestCoarseGate(t *testing.T) {
	handler := middleware.CoarseGate(metrics.New())(okHandler)

	tests := []struct {
		name     string
		path     string
		cookie   string
		status   int
		location string
	}{
		{"admin_without_cookie", "/admin/cards", "", http.StatusFound, "/login"},
		{"admin_with_any_cookie", "/admin", "garbage", http.StatusOK, ""},
		{"login_with_cookie", "/login", "garbage", http.StatusFound, "/admin"},
		{"login_subpath_with_cookie", "/login/", "garbage", http.StatusFound, "/admin"},
		{"login_without_cookie", "/login", "", http.StatusOK, ""},
		{"public_route", "/api/v1/content", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				withCookie(request, tt.cookie)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.status, recorder.Code)
			assert.Equal(t, tt.location, recorder.Header().Get("Location"))
		})
	}
}

/*
TestFineGate_GuestIsRestricted keeps a guest with a valid cookie on the page
but serves the restricted placeholder instead of redirecting.
*/
func TestFineGate_GuestIsRestricted(t *testing.T) {
	request := withCookie(httptest.NewRequest(http.MethodGet, "/admin/cards", nil), session.Encode("guest-1"))
	recorder := httptest.NewRecorder()

	adminPage(newResolver()).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Empty(t, recorder.Header().Get("Location"))

	var body struct {
		Data middleware.RestrictedView `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, "Restricted access", body.Data.Title)
}

/*
TestFineGate_MalformedCookieIsDenied sends a non-JSON cookie past the coarse
gate. The fine gate must redirect to /login with a notice and clear the cookie.
*/
func TestFineGate_MalformedCookieIsDenied(t *testing.T) {
	request := withCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), "not json")
	recorder := httptest.NewRecorder()

	adminPage(newResolver()).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))

	names := map[string]*http.Cookie{}
	for _, cookie := range recorder.Result().Cookies() {
		names[cookie.Name] = cookie
	}
	require.Contains(t, names, constants.NoticeCookieName)
	require.Contains(t, names, constants.SessionCookieName)
	assert.Equal(t, -1, names[constants.SessionCookieName].MaxAge)
}

/*
TestFineGate_UnknownMemberIsDenied treats a well-formed cookie for a missing
member exactly like no session.
*/
func TestFineGate_UnknownMemberIsDenied(t *testing.T) {
	request := withCookie(httptest.NewRequest(http.MethodGet, "/admin", nil), session.Encode("ghost"))
	recorder := httptest.NewRecorder()

	adminPage(newResolver()).ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusSeeOther, recorder.Code)
	assert.Equal(t, "/login", recorder.Header().Get("Location"))
}

/*
TestFineGate_AdminAllowed serves the page for admins and owners.
*/
func TestFineGate_AdminAllowed(t *testing.T) {
	for _, id := range []string{"admin-1", "owner-1"} {
		request := withCookie(httptest.NewRequest(http.MethodGet, "/admin/users", nil), session.Encode(id))
		recorder := httptest.NewRecorder()

		adminPage(newResolver()).ServeHTTP(recorder, request)
		assert.Equal(t, http.StatusOK, recorder.Code, id)
	}
}

/*
TestLoadSession resolves once per request and prefers the cookie over a bearer.
*/
func TestLoadSession(t *testing.T) {
	resolver := newResolver()

	var seen *session.Context
	handler := middleware.LoadSession(resolver)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetSession(request.Context())
	}))

	request := withCookie(httptest.NewRequest(http.MethodGet, "/", nil), session.Encode("admin-1"))
	request.Header.Set("Authorization", "Bearer owner-1")
	handler.ServeHTTP(httptest.NewRecorder(), request)

	require.NotNil(t, seen)
	assert.True(t, seen.HasCookie)
	assert.Equal(t, "admin-1", seen.UserID())
	assert.Equal(t, 1, resolver.calls)

	bearerOnly := httptest.NewRequest(http.MethodGet, "/", nil)
	bearerOnly.Header.Set("Authorization", "Bearer owner-1")
	handler.ServeHTTP(httptest.NewRecorder(), bearerOnly)
	assert.False(t, seen.HasCookie)
	assert.Equal(t, sec.RoleOwner, seen.Role())

	malformed := httptest.NewRequest(http.MethodGet, "/", nil)
	malformed.Header.Set("Authorization", "Token abc")
	handler.ServeHTTP(httptest.NewRecorder(), malformed)
	assert.False(t, seen.Authenticated())
}

/*
TestRequirePermission maps anonymous and denied requests to 401 and 403.
*/
func TestRequirePermission(t *testing.T) {
	handler := middleware.LoadSession(newResolver())(
		middleware.RequirePermission(sec.ActionManageContent)(okHandler),
	)

	tests := []struct {
		name   string
		member string
		status int
	}{
		{"anonymous", "", http.StatusUnauthorized},
		{"guest", "guest-1", http.StatusForbidden},
		{"admin", "admin-1", http.StatusOK},
		{"owner", "owner-1", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodPost, "/api/v1/cards", nil)
			if tt.member != "" {
				withCookie(request, session.Encode(tt.member))
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)
			assert.Equal(t, tt.status, recorder.Code)
		})
	}
}
