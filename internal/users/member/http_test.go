// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/member"
)

func newMemberHandler(f *fixture) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.LoadSession(auth.NewResolver(f.users, nil)))
	router.Mount("/users", member.NewHandler(f.service).Routes())
	return router
}

func do(handler http.Handler, method, path, actorID, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	if actorID != "" {
		request.AddCookie(&http.Cookie{Name: constants.SessionCookieName, Value: session.Encode(actorID)})
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func decodeSnapshot(t *testing.T, recorder *httptest.ResponseRecorder) member.Snapshot {
	t.Helper()
	var envelope struct {
		Data member.Snapshot `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	return envelope.Data
}

/*
TestHandler_List guards the list behind the admin area.
*/
func TestHandler_List(t *testing.T) {
	f := newFixture(t)
	handler := newMemberHandler(f)

	assert.Equal(t, http.StatusUnauthorized, do(handler, http.MethodGet, "/users/", "", "").Code)
	assert.Equal(t, http.StatusForbidden, do(handler, http.MethodGet, "/users/", "guest", "").Code)

	recorder := do(handler, http.MethodGet, "/users/", "owner", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	snapshot := decodeSnapshot(t, recorder)
	assert.Equal(t, "owner", snapshot.ActorID)
	assert.Len(t, snapshot.Users, 4)
}

/*
TestHandler_ChangeRole maps workflow outcomes onto status codes.
*/
func TestHandler_ChangeRole(t *testing.T) {
	f := newFixture(t)
	handler := newMemberHandler(f)

	tests := []struct {
		name   string
		actor  string
		target string
		body   string
		status int
		code   string
	}{
		{"signed out", "", "guest", `{"role":"admin"}`, http.StatusUnauthorized, ""},
		{"unknown role", "owner", "guest", `{"role":"root"}`, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"admin on admin", "admin", "admin2", `{"role":"guest"}`, http.StatusForbidden, "ROLE_GUESTS_ONLY"},
		{"admin grants owner", "admin", "guest", `{"role":"owner"}`, http.StatusForbidden, "ROLE_OWNER_PROMOTION"},
		{"missing target", "owner", "ghost", `{"role":"admin"}`, http.StatusNotFound, ""},
		{"admin promotes guest", "admin", "guest", `{"role":"admin"}`, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := do(handler, http.MethodPatch, "/users/"+tt.target+"/role", tt.actor, tt.body)
			assert.Equal(t, tt.status, recorder.Code)
			if tt.code != "" {
				assert.Contains(t, recorder.Body.String(), `"code":"`+tt.code+`"`)
			}
		})
	}

	assert.Equal(t, "admin", f.role(t, "guest").String())
}

/*
TestHandler_Delete is owner-only and returns the reloaded list.
*/
func TestHandler_Delete(t *testing.T) {
	f := newFixture(t)
	handler := newMemberHandler(f)

	recorder := do(handler, http.MethodDelete, "/users/guest", "admin", "")
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"code":"OWNER_ONLY"`)

	recorder = do(handler, http.MethodDelete, "/users/guest", "owner", "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Len(t, decodeSnapshot(t, recorder).Users, 3)
}
