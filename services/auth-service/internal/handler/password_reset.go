package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/usecase"
)

func (h *authHTTPHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	if err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email); err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			writeFailure(w, http.StatusBadRequest, "User not found")
			return
		}

		writeInternalError(w, r, err, "failed to request password reset")
		return
	}

	writeSuccess(w, http.StatusOK, "Password reset link sent to your email", nil)
}

func (h *authHTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := h.decodeRequest(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	token := chi.URLParam(r, "token")

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), token, req.Password); err != nil {
		if errors.Is(err, usecase.ErrInvalidResetToken) {
			writeFailure(w, http.StatusBadRequest, "Invalid or expired reset token")
			return
		}

		writeInternalError(w, r, err, "failed to reset password")
		return
	}

	writeSuccess(w, http.StatusOK, "Password reset successful", nil)
}
