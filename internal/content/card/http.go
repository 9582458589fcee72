// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package card

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	requestutil "github.com/leoFagundes/breakfast-budget-club/internal/platform/request"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
)

// multipartOverhead is the slack allowed on top of the file for form framing.
const multipartOverhead = 1 << 20

// multipartMemory is how much of an upload is buffered in memory.
const multipartMemory = 8 << 20

// Handler implements the /api/v1/cards and /api/v1/content endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the card routes.
//
// # Endpoints
//   - GET    /                       public
//   - GET    /{id}                   public card page (card + files)
//   - GET    /{id}/files             public
//   - POST   /                       manage_content
//   - PUT    /{id}                   manage_content
//   - DELETE /{id}                   manage_content
//   - POST   /{id}/files             upload_file (multipart, field "file")
//   - DELETE /{id}/files/{fileID}    delete_file
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.page)
	router.Get("/{id}/files", handler.files)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionManageContent))
		r.Post("/", handler.create)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	router.With(middleware.RequirePermission(sec.ActionUploadFile)).Post("/{id}/files", handler.upload)
	router.With(middleware.RequirePermission(sec.ActionDeleteFile)).Delete("/{id}/files/{fileID}", handler.deleteFile)

	return router
}

/*
Content returns the grouped public page.

GET /api/v1/content
*/
func (handler *Handler) Content(writer http.ResponseWriter, request *http.Request) {
	groups, err := handler.service.Grouped(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, groups)
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	cards, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, cards)
}

func (handler *Handler) page(writer http.ResponseWriter, request *http.Request) {
	page, err := handler.service.Page(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, page)
}

func (handler *Handler) files(writer http.ResponseWriter, request *http.Request) {
	files, err := handler.service.Files(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, files)
}

/*
create stores a card.

POST /api/v1/cards

Response:
  - 201: the reloaded card list
  - 400: missing fields, bad URL or unknown category
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cards, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, cards)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	cards, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, cards)
}

func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	cards, err := handler.service.Delete(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, cards)
}

/*
upload stores one multipart file on a card.

POST /api/v1/cards/{id}/files

Response:
  - 201: File
  - 400: missing file or over the size limit
  - 409: a file with the same name exists
  - 503: object storage not configured
*/
func (handler *Handler) upload(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxUploadBytes+multipartOverhead)

	if err := request.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(writer, request, validate.RequiredError(FieldFile,
				fmt.Sprintf("Files are limited to %d MiB", constants.MaxUploadBytes>>20)))
			return
		}
		respond.Error(writer, request, validate.RequiredError(FieldFile, "Expected a multipart form upload"))
		return
	}
	defer func() { _ = request.MultipartForm.RemoveAll() }()

	part, header, err := request.FormFile(FieldFile)
	if err != nil {
		respond.Error(writer, request, validate.RequiredError(FieldFile, "This field is required"))
		return
	}
	defer part.Close()

	file, err := handler.service.Upload(request.Context(), requestutil.ID(request, "id"), Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, part)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, file)
}

// deleteFile removes a card file. DELETE /api/v1/cards/{id}/files/{fileID}
func (handler *Handler) deleteFile(writer http.ResponseWriter, request *http.Request) {
	files, err := handler.service.DeleteFile(request.Context(), requestutil.ID(request, "id"), requestutil.ID(request, "fileID"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, files)
}
