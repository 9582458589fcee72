// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
)

// Notice levels.
const (
	NoticeWarning = "warning"
	NoticeInfo    = "info"
)

// Notice is a one-shot message carried across a redirect.
type Notice struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// NoticeCookie stores a notice for the next page view.
func NoticeCookie(notice Notice, secure bool) *http.Cookie {
	raw, _ := json.Marshal(notice)
	return &http.Cookie{
		Name:     constants.NoticeCookieName,
		Value:    url.PathEscape(string(raw)),
		Path:     "/",
		MaxAge:   60,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// PopNotice reads the pending notice and expires its cookie.
func PopNotice(writer http.ResponseWriter, request *http.Request) *Notice {
	cookie, err := request.Cookie(constants.NoticeCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(writer, &http.Cookie{
		Name:   constants.NoticeCookieName,
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	raw, err := url.PathUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	var notice Notice
	if err := json.Unmarshal([]byte(raw), &notice); err != nil || notice.Message == "" {
		return nil
	}
	return &notice
}
