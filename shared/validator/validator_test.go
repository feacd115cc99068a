package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name"     validate:"required"`
}

func TestValidator_Struct(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		err := v.Struct(signupRequest{Email: "a@x.com", Password: "pw123456", Name: "Ann"})
		assert.NoError(t, err)
	})

	t.Run("missing fields use json names", func(t *testing.T) {
		err := v.Struct(signupRequest{Email: "a@x.com"})

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Len(t, validationErr.Fields, 2)
		assert.Equal(t, "password", validationErr.Fields[0].Field)
		assert.Equal(t, "password is a required field", validationErr.Fields[0].Message)
		assert.Equal(t, "name", validationErr.Fields[1].Field)
		assert.True(t, validationErr.HasTag("required"))
	})

	t.Run("bad email", func(t *testing.T) {
		err := v.Struct(signupRequest{Email: "nope", Password: "pw123456", Name: "Ann"})

		var validationErr *ValidationError
		require.True(t, errors.As(err, &validationErr))
		assert.False(t, validationErr.HasTag("required"))
		assert.Equal(t, "email must be a valid email address", validationErr.Error())
	})
}
