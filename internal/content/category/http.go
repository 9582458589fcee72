// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	requestutil "github.com/leoFagundes/breakfast-budget-club/internal/platform/request"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
	"github.com/leoFagundes/breakfast-budget-club/pkg/pointer"
)

// Handler implements the /api/v1/categories endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the category routes.
//
// # Endpoints
//   - GET    /            public, sorted by order
//   - GET    /{id}        public
//   - POST   /            manage_content
//   - PUT    /order       manage_content, body {"ids": [...]}
//   - POST   /move        manage_content, body {"id", "position"}
//   - PUT    /{id}        manage_content
//   - DELETE /{id}        manage_content
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequirePermission(sec.ActionManageContent))
		r.Post("/", handler.create)
		r.Put("/order", handler.saveOrder)
		r.Post("/move", handler.move)
		r.Put("/{id}", handler.update)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type saveOrderRequest struct {
	IDs []string `json:"ids"`
}

type moveRequest struct {
	ID       string `json:"id"`
	Position *int   `json:"position"`
}

func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	category, err := handler.service.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, category)
}

/*
create appends a category.

POST /api/v1/categories

Response:
  - 201: the reloaded category list
  - 400: missing name or unknown icon
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.service.Create(request.Context(), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.Created(writer, categories)
}

func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input Input
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.service.Update(request.Context(), requestutil.ID(request, "id"), input)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

/*
saveOrder persists a full display sequence.

PUT /api/v1/categories/order

Response:
  - 200: the reloaded category list
  - 400: ids is not a permutation of the stored categories
  - 500: PARTIAL_FAILURE, some order writes failed
*/
func (handler *Handler) saveOrder(writer http.ResponseWriter, request *http.Request) {
	var input saveOrderRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.service.SaveOrder(request.Context(), input.IDs)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

// move relocates one category. POST /api/v1/categories/move
func (handler *Handler) move(writer http.ResponseWriter, request *http.Request) {
	var input moveRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldID, input.ID).
		Custom(FieldPosition, input.Position == nil, "This field is required")

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.service.Move(request.Context(), input.ID, pointer.Val(input.Position))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}

/*
delete detaches the category's cards and removes it.

DELETE /api/v1/categories/{id}

Response:
  - 200: the reloaded category list
  - 404: category not found
  - 500: PARTIAL_FAILURE, some cards kept the old reference
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.service.Delete(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, categories)
}
