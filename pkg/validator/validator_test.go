package validator_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/drive/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all rules pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("name", "Jane"),
			validator.MinLen("name", "Jane", 2),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.ValidEmail("email", "nope"),
			validator.MinLen("password", "short", 8),
			validator.MinLen("password", "short", 10),
		)
		require.Error(t, err)
		errs := validator.ExtractValidationErrors(err)
		require.NotNil(t, errs)
		assert.Len(t, errs, 3)
		assert.True(t, errs.Has("email"))
		assert.Len(t, errs.Get("password"), 2)
		assert.Equal(t, "must be at least 8 characters long", errs.First("password"))
		assert.Equal(t, map[string]string{
			"email":    "must be a valid email address",
			"password": "must be at least 8 characters long",
		}, errs.Map())
	})

	t.Run("wrapped errors are still extracted", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("form: %w", validator.Apply(validator.Required("x", " ")))
		assert.True(t, validator.ExtractValidationErrors(err).Has("x"))
		assert.Nil(t, validator.ExtractValidationErrors(nil))
	})

	t.Run("custom message", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(validator.Equal("confirmPassword", "a", "b").WithMessage("Passwords don't match"))
		assert.Equal(t, "Passwords don't match", validator.ExtractValidationErrors(err).First("confirmPassword"))
	})
}

func TestValidEmail(t *testing.T) {
	t.Parallel()

	tests := []struct {
		email string
		valid bool
	}{
		{"jane@x.com", true},
		{"Jane.Doe+tag@sub.example.org", true},
		{"", false},
		{"jane", false},
		{"jane@localhost", false},
		{"@x.com", false},
		{"jane@x..com", false},
		{" jane@x.com", false},
		{"Jane <jane@x.com>", false},
	}
	for _, tt := range tests {
		err := validator.Apply(validator.ValidEmail("email", tt.email))
		assert.Equal(t, tt.valid, err == nil, tt.email)
	}
}

func TestMinMaxLen_CountsRunes(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.MinLen("n", "Żó", 2)))
	assert.Error(t, validator.Apply(validator.MaxLen("n", "Żół", 2)))
}

func TestValidOTP(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(validator.ValidOTP("code", "012345", 6)))
	assert.Error(t, validator.Apply(validator.ValidOTP("code", "12345", 6)))
	assert.Error(t, validator.Apply(validator.ValidOTP("code", "12a456", 6)))
	assert.Error(t, validator.Apply(validator.ValidOTP("code", "", 0)))
}
