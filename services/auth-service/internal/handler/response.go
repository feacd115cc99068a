package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/becbilldesk-api/shared/validator"
)

const (
	msgInvalidRequestBody  = "Invalid request body"
	msgRequestBodyTooLarge = "Request body too large"
	msgSomethingWentWrong  = "something went wrong"
)

// maxRequestBodyBytes caps every JSON body, passwords included, before it
// reaches the decoder or the password hasher.
const maxRequestBodyBytes = 64 << 10

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeSuccess(w http.ResponseWriter, status int, message string, user *payload.User) {
	writeJSON(w, status, payload.Response{Success: true, Message: message, User: user})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, payload.Response{Success: false, Message: message})
}

func writeInternalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	hlog.FromRequest(r).Error().Err(err).Msg(msg)
	writeFailure(w, http.StatusInternalServerError, msgSomethingWentWrong)
}

// decodeRequest decodes the JSON body into dst, normalizes it and validates
// it. An empty body decodes as an empty object so required fields are reported.
func (h *authHTTPHandler) decodeRequest(w http.ResponseWriter, r *http.Request, dst any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %w", errInvalidBody, err)
	}

	if n, ok := dst.(payload.Normalizer); ok {
		n.Normalize()
	}

	return h.validator.Struct(dst)
}

var errInvalidBody = errors.New("invalid request body")

// writeRequestError answers a decodeRequest failure with 400, or 413 when
// the body exceeds maxRequestBodyBytes.
func writeRequestError(w http.ResponseWriter, err error) {
	var validationErr *validator.ValidationError
	if errors.As(err, &validationErr) {
		writeFailure(w, http.StatusBadRequest, validationErr.Error())
		return
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeFailure(w, http.StatusRequestEntityTooLarge, msgRequestBodyTooLarge)
		return
	}

	writeFailure(w, http.StatusBadRequest, msgInvalidRequestBody)
}
