package validator

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccountValidator_ValidateRegister_OK(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateRegister(context.Background(), "Taro", "taro", "taro@example.com", "password123")

	assert.NoError(t, err)
}

func TestAccountValidator_ValidateRegister_ShortPassword(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateRegister(context.Background(), "Taro", "taro", "taro@example.com", "short")

	assert.ErrorIs(t, err, ErrPasswordTooShort)
}

func TestAccountValidator_ValidateProfile_EmptyName(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateProfile(context.Background(), "   ", "taro", "taro@example.com")

	assert.ErrorIs(t, err, ErrNameRequired)
}

func TestAccountValidator_ValidateProfile_UsernameTooLong(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateProfile(context.Background(), "Taro", strings.Repeat("a", 17), "taro@example.com")

	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestAccountValidator_ValidateProfile_UsernameWithSpace(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateProfile(context.Background(), "Taro", "ta ro", "taro@example.com")

	assert.ErrorIs(t, err, ErrInvalidUsername)
}

func TestAccountValidator_ValidateProfile_BadEmail(t *testing.T) {
	v := NewAccountValidator()

	err := v.ValidateProfile(context.Background(), "Taro", "taro", "not-an-email")

	assert.ErrorIs(t, err, ErrInvalidEmailFormat)
}
