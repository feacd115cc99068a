package model

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a user in the authentication system.
// Token fields are removed from the document once consumed.
type User struct {
	ID                         bson.ObjectID `bson:"_id,omitempty"`
	Email                      string        `bson:"email"`
	PasswordHash               string        `bson:"password_hash"`
	Name                       string        `bson:"name"`
	Verified                   bool          `bson:"verified"`
	VerificationToken          string        `bson:"verification_token,omitempty"`
	VerificationTokenExpiresAt *time.Time    `bson:"verification_token_expires_at,omitempty"`
	ResetPasswordToken         string        `bson:"reset_password_token,omitempty"`
	ResetPasswordExpiresAt     *time.Time    `bson:"reset_password_expires_at,omitempty"`
	LastLoginAt                time.Time     `bson:"last_login_at"`
	CreatedAt                  time.Time     `bson:"created_at"`
	UpdatedAt                  time.Time     `bson:"updated_at"`
}
