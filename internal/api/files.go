// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/apperr"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/objectstore"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
)

// LocalFilesPath is where card files are served when no bucket is configured.
const LocalFilesPath = "/files"

// NewLocalFiles serves objects held by an in-memory store.
//
// GET /files/*
func NewLocalFiles(objects *objectstore.MemoryStore) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		path, err := url.PathUnescape(chi.URLParam(request, "*"))
		if err != nil {
			respond.Error(writer, request, apperr.NotFound("File"))
			return
		}

		object, ok := objects.Get(path)
		if !ok {
			respond.Error(writer, request, apperr.NotFound("File"))
			return
		}

		contentType := object.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		writer.Header().Set("Content-Type", contentType)
		writer.Header().Set("Content-Length", strconv.Itoa(len(object.Body)))
		writer.Header().Set("X-Content-Type-Options", "nosniff")
		writer.WriteHeader(http.StatusOK)
		_, _ = writer.Write(object.Body)
	}
}
