// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session owns the session cookie format and the per-request [Context].

The cookie value is the JSON text {"id":"<principal id>"}, percent-encoded the
way browsers' encodeURIComponent does, so cookies written by either side read
back the same. Presence of the cookie is a hint for the
coarse gate only; authorization always goes through the resolved [Principal].
*/
package session

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
)

// # Token

// Token is the decoded session cookie.
type Token struct {
	ID string `json:"id"`
}

// Encode serializes a principal id into a cookie value.
func Encode(principalID string) string {
	raw, _ := json.Marshal(Token{ID: principalID})
	return url.QueryEscape(string(raw))
}

// Decode parses a cookie value. It reports false for anything that is not a
// JSON object with a non-empty string id.
func Decode(value string) (Token, bool) {
	raw := value
	if unescaped, err := url.PathUnescape(value); err == nil {
		raw = unescaped
	}

	var token Token
	if err := json.Unmarshal([]byte(raw), &token); err != nil {
		return Token{}, false
	}

	if strings.TrimSpace(token.ID) == "" {
		return Token{}, false
	}

	return token, true
}

// # Cookies

// NewCookie builds the session cookie for a signed-in principal.
func NewCookie(principalID string, secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    Encode(principalID),
		Path:     "/",
		MaxAge:   constants.SessionCookieMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds a cookie that removes the session.
func ClearCookie(secure bool) *http.Cookie {
	return &http.Cookie{
		Name:     constants.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// HasCookie reports whether the request carries a non-empty session cookie.
func HasCookie(request *http.Request) bool {
	cookie, err := request.Cookie(constants.SessionCookieName)
	return err == nil && cookie.Value != ""
}

// CookieValue returns the raw session cookie value, or "".
func CookieValue(request *http.Request) string {
	cookie, err := request.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// # Request Session

// Principal is the resolved member behind a session.
type Principal struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Email string       `json:"email"`
	Role  sec.UserRole `json:"role"`
}

// Context is the single session view built once per request.
type Context struct {
	// HasCookie is true when the session cookie was sent, valid or not.
	HasCookie bool
	// User is the resolved principal, nil when anonymous or unresolvable.
	User *Principal
}

// Authenticated reports whether a principal was resolved.
func (c *Context) Authenticated() bool {
	return c != nil && c.User != nil
}

// Role returns the principal's role, or "" for anonymous requests.
func (c *Context) Role() sec.UserRole {
	if !c.Authenticated() {
		return ""
	}
	return c.User.Role
}

// UserID returns the principal id, or "".
func (c *Context) UserID() string {
	if !c.Authenticated() {
		return ""
	}
	return c.User.ID
}
