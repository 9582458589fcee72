// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leoFagundes/breakfast-budget-club/internal/platform/middleware"
	requestutil "github.com/leoFagundes/breakfast-budget-club/internal/platform/request"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/respond"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/session"
	"github.com/leoFagundes/breakfast-budget-club/internal/platform/validate"
)

// # Definitions & Constructors

// Handler implements the /api/v1/auth endpoints.
type Handler struct {
	authService   *Service
	secureCookies bool
	// exposeResetToken returns the reset token in the response body. Only
	// development builds enable it, since nothing delivers reset emails.
	exposeResetToken bool
}

// NewHandler constructs a new [Handler].
func NewHandler(service *Service, secureCookies, exposeResetToken bool) *Handler {
	return &Handler{authService: service, secureCookies: secureCookies, exposeResetToken: exposeResetToken}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /register, /login, /logout, /forgot-password, /reset-password
//   - POST /change-password, /change-email (session)
//   - GET  /me (session)
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/register", handler.register)
	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)

	router.Group(func(r chi.Router) {
		r.Use(middleware.RequireSession)
		r.Post("/change-password", handler.changePassword)
		r.Post("/change-email", handler.changeEmail)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type changeEmailRequest struct {
	Password string `json:"password"`
	NewEmail string `json:"new_email"`
}

// # Responses

type loginResponse struct {
	User        *User  `json:"user"`
	AccessToken string `json:"access_token,omitempty"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

type messageResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"reset_token,omitempty"`
}

/*
Register creates an account and signs it in.

POST /api/v1/auth/register

Response:
  - 201: User, with the session cookie set
  - 400: validation failure
  - 409: email already registered
*/
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, MaxNameLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, session.NewCookie(user.ID, handler.secureCookies))
	respond.Created(writer, user)
}

/*
Login authenticates a member and establishes the cookie session.

POST /api/v1/auth/login

Response:
  - 200: loginResponse (bearer token included when signing keys are configured)
  - 401: invalid credentials
  - 403: NOT_REGISTERED, the credential has no portal profile
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	result, err := handler.authService.Login(request.Context(), input.Email, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	http.SetCookie(writer, session.NewCookie(result.User.ID, handler.secureCookies))

	response := loginResponse{User: result.User}
	if result.AccessToken != "" {
		response.AccessToken = result.AccessToken
		response.TokenType = "Bearer"
		response.ExpiresIn = int(AccessTokenTTL.Seconds())
	}
	respond.OK(writer, response)
}

/*
Logout clears the session cookie.

POST /api/v1/auth/logout

Response:
  - 204: No Content
*/
func (handler *Handler) logout(writer http.ResponseWriter, _ *http.Request) {
	http.SetCookie(writer, session.ClearCookie(handler.secureCookies))
	respond.NoContent(writer)
}

/*
ForgotPassword starts password recovery.

POST /api/v1/auth/forgot-password

Response:
  - 200: generic message, whether or not the email is registered
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	token, err := handler.authService.RequestPasswordReset(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	response := messageResponse{Message: "If this email is registered, a reset link has been sent."}
	if handler.exposeResetToken {
		response.ResetToken = token
	}
	respond.OK(writer, response)
}

/*
ResetPassword completes password recovery.

POST /api/v1/auth/reset-password

Response:
  - 200: password updated
  - 400: invalid token or weak password
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: "Password updated successfully"})
}

/*
ChangePassword updates the signed-in member's password.

POST /api/v1/auth/change-password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldNewPassword, input.NewPassword).
		MinLen(FieldNewPassword, input.NewPassword, MinPasswordLength)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ChangePassword(request.Context(), userID, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, messageResponse{Message: "Password changed successfully"})
}

/*
ChangeEmail moves the signed-in member to a new email.

POST /api/v1/auth/change-email
*/
func (handler *Handler) changeEmail(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeEmailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldPassword, input.Password).
		Required(FieldNewEmail, input.NewEmail).
		Email(FieldNewEmail, input.NewEmail)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.ChangeEmail(request.Context(), userID, input.Password, input.NewEmail)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// me returns the signed-in member's profile. GET /api/v1/auth/me
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.authService.Me(request.Context(), userID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
