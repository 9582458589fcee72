// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/content/card"
	"github.com/leoFagundes/breakfast-budget-club/internal/content/category"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/constants"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/gate"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	requestutil "github.com/leoFagundes/breakfast-budget-club/internal/platform/request"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/sec"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
	"github.com/leoFagundes/breakfast-budget-club/internal/users/member"
)

// # View Models

// PageView is the common part of every page view model.
type PageView struct {
	Page   string             `json:"page"`
	Gate   gate.State         `json:"gate"`
	User   *session.Principal `json:"user,omitempty"`
	Notice *session.Notice    `json:"notice,omitempty"`
}

// LoginView is the sign-in page.
type LoginView struct {
	Page   string          `json:"page"`
	Notice *session.Notice `json:"notice,omitempty"`
}

// Section is a link on the admin dashboard.
type Section struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

// AdminView is the admin dashboard.
type AdminView struct {
	PageView
	Sections []Section `json:"sections"`
}

// CardsView is the card manager.
type CardsView struct {
	PageView
	Cards      []*card.Card         `json:"cards"`
	Categories []*category.Category `json:"categories"`
}

// UsersView is the member manager.
type UsersView struct {
	PageView
	Members *member.Snapshot `json:"members"`
}

// CategoriesView is the category manager.
type CategoriesView struct {
	PageView
	Categories []*category.Category `json:"categories"`
	Icons      []string             `json:"icons"`
}

// adminSections are listed on the dashboard in this order.
var adminSections = []Section{
	{Name: "Cards", Path: constants.AdminPathPrefix + "/cards"},
	{Name: "Categories", Path: constants.AdminPathPrefix + "/categories"},
	{Name: "Users", Path: constants.AdminPathPrefix + "/users"},
}

// # Page Handler

// PageHandler serves the page view models.
type PageHandler struct {
	members       *member.Service
	categories    *category.Service
	cards         *card.Service
	recorder      middleware.GateRecorder
	secureCookies bool
}

// NewPageHandler constructs a new [PageHandler].
func NewPageHandler(members *member.Service, categories *category.Service, cards *card.Service, recorder middleware.GateRecorder, secureCookies bool) *PageHandler {
	return &PageHandler{
		members:       members,
		categories:    categories,
		cards:         cards,
		recorder:      recorder,
		secureCookies: secureCookies,
	}
}

// AdminRoutes returns the /admin pages. Each page runs its own fine gate
// on top of the coarse gate applied by the server.
func (handler *PageHandler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	guard := func(name string) func(http.Handler) http.Handler {
		return middleware.FineGate(name, sec.ActionViewAdminArea, handler.recorder, handler.secureCookies)
	}

	router.With(guard("admin_home")).Get("/", handler.home)
	router.With(guard("admin_cards")).Get("/cards", handler.cardsPage)
	router.With(guard("admin_users")).Get("/users", handler.usersPage)
	router.With(guard("admin_categories")).Get("/categories", handler.categoriesPage)

	return router
}

/*
Login renders the sign-in page with any pending notice.

GET /login
*/
func (handler *PageHandler) Login(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, LoginView{Page: "login", Notice: session.PopNotice(writer, request)})
}

func (handler *PageHandler) home(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, AdminView{
		PageView: handler.view(writer, request, "admin"),
		Sections: adminSections,
	})
}

func (handler *PageHandler) cardsPage(writer http.ResponseWriter, request *http.Request) {
	cards, err := handler.cards.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	categories, err := handler.categories.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, CardsView{
		PageView:   handler.view(writer, request, "admin_cards"),
		Cards:      cards,
		Categories: categories,
	})
}

func (handler *PageHandler) usersPage(writer http.ResponseWriter, request *http.Request) {
	actorID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	snapshot, err := handler.members.List(request.Context(), actorID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, UsersView{
		PageView: handler.view(writer, request, "admin_users"),
		Members:  snapshot,
	})
}

func (handler *PageHandler) categoriesPage(writer http.ResponseWriter, request *http.Request) {
	categories, err := handler.categories.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, CategoriesView{
		PageView:   handler.view(writer, request, "admin_categories"),
		Categories: categories,
		Icons:      category.Icons(),
	})
}

// view fills the common page fields. Only pages past the fine gate call it.
func (handler *PageHandler) view(writer http.ResponseWriter, request *http.Request, page string) PageView {
	principal := requestutil.Principal(request)
	return PageView{
		Page:   page,
		Gate:   gate.Evaluate(sec.ActionViewAdminArea, principal),
		User:   principal,
		Notice: session.PopNotice(writer, request),
	}
}
