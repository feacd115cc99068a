package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/becbilldesk-api/shared/auth"
	"github.com/vasapolrittideah/becbilldesk-api/shared/middleware"
	"github.com/vasapolrittideah/becbilldesk-api/shared/validator"
)

type authHTTPHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	sessions             *auth.SessionManager
	validator            *validator.Validator
}

// NewRouter builds the HTTP router of the auth service.
func NewRouter(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	sessions *auth.SessionManager,
	requestValidator *validator.Validator,
	pinger Pinger,
	logger *zerolog.Logger,
) http.Handler {
	h := &authHTTPHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		sessions:             sessions,
		validator:            requestValidator,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", healthHandler(pinger))

	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.Signup)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password/{token}", h.ResetPassword)

		r.With(middleware.RequireSession(sessions)).Get("/check-auth", h.CheckAuth)
	})

	return r
}
