package validator

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"grocerystore/internal/usecase"
)

var (
	ErrNameRequired       = errors.New("name required")
	ErrInvalidUsername    = errors.New("invalid username")
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
)

type accountValidator struct{}

// Usecaseは interface を依存注入
func NewAccountValidator() usecase.AccountValidator {
	return &accountValidator{}
}

// 会員登録の入力を検証
func (v *accountValidator) ValidateRegister(ctx context.Context, name, username, email, password string) error {
	if err := v.ValidateProfile(ctx, name, username, email); err != nil {
		return err
	}

	// パスワード最低文字数（8）
	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	return nil
}

// プロフィール共通の検証
func (v *accountValidator) ValidateProfile(ctx context.Context, name, username, email string) error {
	if strings.TrimSpace(name) == "" {
		return ErrNameRequired
	}

	username = strings.TrimSpace(username)
	if username == "" || len(username) > 16 || strings.ContainsAny(username, " \t") {
		return ErrInvalidUsername
	}

	if !isEmailLike(email) {
		return ErrInvalidEmailFormat
	}

	return nil
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	_, err := mail.ParseAddress(trimmed)
	return err == nil
}
