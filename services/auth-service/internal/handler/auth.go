package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/becbilldesk-api/shared/middleware"
	"github.com/vasapolrittideah/becbilldesk-api/shared/validator"
)

func (h *authHTTPHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req payload.SignupRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		var validationErr *validator.ValidationError
		if errors.As(err, &validationErr) && validationErr.HasTag("required") {
			writeFailure(w, http.StatusBadRequest, "All fields are required")
			return
		}

		writeRequestError(w, err)
		return
	}

	user, err := h.authUsecase.Signup(r.Context(), usecase.SignupParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserAlreadyExists) {
			writeFailure(w, http.StatusBadRequest, "User already exists")
			return
		}

		writeInternalError(w, r, err, "failed to sign up")
		return
	}

	if _, err := h.sessions.Issue(w, user.ID.Hex()); err != nil {
		writeInternalError(w, r, err, "failed to issue session")
		return
	}

	writeSuccess(w, http.StatusCreated, "User created successfully", payload.NewUser(user))
}

func (h *authHTTPHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	user, err := h.authUsecase.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidVerificationCode) {
			writeFailure(w, http.StatusBadRequest, "Invalid or expired verification code")
			return
		}

		writeInternalError(w, r, err, "failed to verify email")
		return
	}

	writeSuccess(w, http.StatusOK, "Email verified successfully", payload.NewUser(user))
}

func (h *authHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	user, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			writeFailure(w, http.StatusBadRequest, "Invalid credentials")
			return
		}

		writeInternalError(w, r, err, "failed to log in")
		return
	}

	if _, err := h.sessions.Issue(w, user.ID.Hex()); err != nil {
		writeInternalError(w, r, err, "failed to issue session")
		return
	}

	hlog.FromRequest(r).Info().Str("user_id", user.ID.Hex()).Msg("login successful")

	writeSuccess(w, http.StatusOK, "Logged in successfully", payload.NewUser(user))
}

func (h *authHTTPHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.sessions.Clear(w)
	writeSuccess(w, http.StatusOK, "Logged out successfully", nil)
}

func (h *authHTTPHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		writeFailure(w, http.StatusUnauthorized, "Unauthorized - no token provided")
		return
	}

	user, err := h.authUsecase.CheckAuth(r.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeFailure(w, http.StatusBadRequest, "User not found")
			return
		}

		writeInternalError(w, r, err, "failed to check auth")
		return
	}

	writeJSON(w, http.StatusOK, payload.Response{Success: true, User: payload.NewUser(user)})
}
