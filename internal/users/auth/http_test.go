// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/auth"
)

func newAuthHandler(f *fixture, exposeResetToken bool) http.Handler {
	handler := auth.NewHandler(f.service, false, exposeResetToken)
	return middleware.LoadSession(auth.NewResolver(f.users, f.tokens))(handler.Routes())
}

func post(handler http.Handler, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func sessionCookie(t *testing.T, recorder *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == constants.SessionCookieName {
			return cookie
		}
	}
	t.Fatalf("no session cookie in response")
	return nil
}

/*
TestHandler_RegisterValidation rejects bad input before touching the store.
*/
func TestHandler_RegisterValidation(t *testing.T) {
	f := newFixture(t)
	handler := newAuthHandler(f, false)

	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing name", `{"email":"a@example.com","password":"secret1"}`, auth.FieldName},
		{"bad email", `{"name":"A","email":"nope","password":"secret1"}`, auth.FieldEmail},
		{"short password", `{"name":"A","email":"a@example.com","password":"12345"}`, auth.FieldPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := post(handler, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
			assert.Contains(t, recorder.Body.String(), `"field":"`+tt.field+`"`)
		})
	}

	recorder := post(handler, "/register", `{`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	_, err := f.credentials.FindByEmail(t.Context(), "a@example.com")
	assert.Error(t, err)
}

/*
TestHandler_SessionLifecycle registers, reads /me, logs out and in again.
*/
func TestHandler_SessionLifecycle(t *testing.T) {
	f := newFixture(t)
	handler := newAuthHandler(f, false)

	recorder := post(handler, "/register", `{"name":"Ana","email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, recorder.Code)
	cookie := sessionCookie(t, recorder)
	assert.Equal(t, constants.SessionCookieMaxAge, cookie.MaxAge)
	assert.True(t, cookie.HttpOnly)

	request := httptest.NewRequest(http.MethodGet, "/me", nil)
	request.AddCookie(cookie)
	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	require.Equal(t, http.StatusOK, recorder.Code)

	var envelope struct {
		Data auth.User `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	assert.Equal(t, "ana@example.com", envelope.Data.Email)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/me", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = post(handler, "/logout", "")
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Equal(t, -1, sessionCookie(t, recorder).MaxAge)

	recorder = post(handler, "/login", `{"email":"ana@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"token_type":"Bearer"`)
	assert.Contains(t, recorder.Body.String(), `"expires_in":86400`)
	sessionCookie(t, recorder)

	recorder = post(handler, "/login", `{"email":"ana@example.com","password":"nope!!"}`)
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestHandler_ForgotPassword answers the same for known and unknown emails.
*/
func TestHandler_ForgotPassword(t *testing.T) {
	f := newFixture(t)
	f.register(t, "Ana", "ana@example.com", "secret1")

	quiet := newAuthHandler(f, false)
	known := post(quiet, "/forgot-password", `{"email":"ana@example.com"}`)
	unknown := post(quiet, "/forgot-password", `{"email":"ghost@example.com"}`)
	require.Equal(t, http.StatusOK, known.Code)
	require.Equal(t, http.StatusOK, unknown.Code)
	assert.Equal(t, known.Body.String(), unknown.Body.String())

	verbose := newAuthHandler(f, true)
	recorder := post(verbose, "/forgot-password", `{"email":"ana@example.com"}`)
	var envelope struct {
		Data struct {
			ResetToken string `json:"reset_token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.ResetToken)

	recorder = post(verbose, "/reset-password", `{"token":"`+envelope.Data.ResetToken+`","password":"fresh-pass"}`)
	assert.Equal(t, http.StatusOK, recorder.Code)
}
