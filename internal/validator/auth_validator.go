package validator

import (
	"context"
	"regexp"
	"strings"

	"app/internal/usecase"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// usernameは英数と._-のみ（3〜30文字）
var usernameRe = regexp.MustCompile(`^[a-z0-9._-]{3,30}$`)

type authValidator struct{}

// Usecaseはinterfaceを依存注入
func NewAuthValidator() usecase.AuthValidator {
	return &authValidator{}
}

// サインアップの入力を検証
func (v *authValidator) ValidateRegister(ctx context.Context, username string, email string, password string) error {
	username = strings.ToLower(strings.TrimSpace(username))
	email = strings.TrimSpace(email)

	// 必須チェック
	if username == "" || email == "" || password == "" {
		return usecase.ErrValidation
	}

	if !usernameRe.MatchString(username) {
		return usecase.ErrValidation
	}

	// email形式
	if !isEmailLike(email) {
		return usecase.ErrValidation
	}

	// パスワード最低文字数（MVP: 8）
	if len(password) < 8 {
		return usecase.ErrValidation
	}

	return nil
}

func (v *authValidator) ValidateLogin(ctx context.Context, identifier string, password string) error {
	if strings.TrimSpace(identifier) == "" || password == "" {
		return usecase.ErrValidation
	}
	return nil
}

func (v *authValidator) ValidateChangePassword(ctx context.Context, oldPassword string, newPassword string) error {
	if oldPassword == "" || newPassword == "" {
		return usecase.ErrValidation
	}
	if len(newPassword) < 8 {
		return usecase.ErrValidation
	}
	return nil
}

func isEmailLike(email string) bool {
	return emailRe.MatchString(email)
}
