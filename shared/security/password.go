package security

import (
	"errors"

	"github.com/matthewhartstonge/argon2"
)

// ErrEmptyPassword is returned when an empty password is hashed.
var ErrEmptyPassword = errors.New("password cannot be empty")

// HashPassword hashes the password with argon2id and returns the encoded
// hash, which carries its own salt and parameters.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	argon := argon2.DefaultConfig()

	encoded, err := argon.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

// VerifyPassword reports whether the password matches the encoded hash.
// A malformed hash is returned as an error rather than a mismatch.
func VerifyPassword(password, encodedHash string) (bool, error) {
	return argon2.VerifyEncoded([]byte(password), []byte(encodedHash))
}
