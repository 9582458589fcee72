// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package member

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	requestutil "github.com/leoFagundes/breakfast-budget-club/internal/platform/request"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
)

// Handler implements the /api/v1/users endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the member administration routes.
//
// Role changes and deletions only require a session: the workflow itself
// evaluates the matrix against the target, which a route guard cannot see.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.With(middleware.RequirePermission(sec.ActionViewAdminArea)).Get("/", handler.list)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Patch("/{id}/role", handler.changeRole)
		r.Delete("/{id}", handler.delete)
	})

	return router
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

/*
list returns the member list with capabilities.

GET /api/v1/users
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.service.List(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}

/*
changeRole runs the Role Editor Workflow.

PATCH /api/v1/users/{id}/role

Response:
  - 200: Snapshot, reloaded after the write
  - 400: unknown role
  - 403: ROLE_GUESTS_ONLY, ROLE_OWNER_PROMOTION or ROLE_NOT_PERMITTED
  - 404: target not found
*/
func (handler *Handler) changeRole(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.service.ChangeRole(request.Context(), actorID, requestutil.ID(request, "id"), input.Role)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}

/*
delete removes a member profile.

DELETE /api/v1/users/{id}

Response:
  - 200: Snapshot, reloaded after the delete
  - 403: OWNER_ONLY
*/
func (handler *Handler) delete(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.service.Delete(request.Context(), actorID, requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, snapshot)
}
