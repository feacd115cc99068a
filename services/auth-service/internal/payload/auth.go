package payload

import (
	"strings"
	"time"

	"github.com/vasapolrittideah/becbilldesk-api/services/auth-service/internal/model"
)

type SignupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
}

type VerifyEmailRequest struct {
	Code string `json:"code" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required"`
}

// Normalizer is implemented by requests that clean their fields before
// validation. Passwords are never altered.
type Normalizer interface {
	Normalize()
}

func (r *SignupRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Name = strings.TrimSpace(r.Name)
}

func (r *VerifyEmailRequest) Normalize() {
	r.Code = strings.TrimSpace(r.Code)
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

func (r *ForgotPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Response is the envelope of every auth endpoint.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// User is the client view of a user. It has no password field and never
// carries the password reset token.
type User struct {
	ID                         string     `json:"_id"`
	Email                      string     `json:"email"`
	Name                       string     `json:"name"`
	IsVerified                 bool       `json:"isVerified"`
	LastLogin                  time.Time  `json:"lastLogin"`
	VerificationToken          string     `json:"verificationToken,omitempty"`
	VerificationTokenExpiresAt *time.Time `json:"verificationTokenExpiresAt,omitempty"`
	CreatedAt                  time.Time  `json:"createdAt"`
	UpdatedAt                  time.Time  `json:"updatedAt"`
}

// NewUser converts a stored user to its client view.
func NewUser(u *model.User) *User {
	return &User{
		ID:                         u.ID.Hex(),
		Email:                      u.Email,
		Name:                       u.Name,
		IsVerified:                 u.Verified,
		LastLogin:                  u.LastLoginAt,
		VerificationToken:          u.VerificationToken,
		VerificationTokenExpiresAt: u.VerificationTokenExpiresAt,
		CreatedAt:                  u.CreatedAt,
		UpdatedAt:                  u.UpdatedAt,
	}
}
