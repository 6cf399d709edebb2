package service

import (
	"fmt"
	"unicode"

	"github.com/storefront-next/internal/config"
)

// bcrypt 只接受 72 字节以内的密码
const passwordMaxBytes = 72

type passwordPolicyError struct {
	rule  string
	limit int
}

func (e passwordPolicyError) Error() string {
	switch e.rule {
	case "min_length":
		return fmt.Sprintf("password must be at least %d characters", e.limit)
	case "max_length":
		return fmt.Sprintf("password must be at most %d bytes", e.limit)
	}
	return "password must contain " + e.rule
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

// Rule 未满足的规则名
func (e passwordPolicyError) Rule() string {
	return e.rule
}

func validatePassword(policy config.PasswordPolicyConfig, password string) error {
	if password == "" {
		return passwordPolicyError{rule: "min_length", limit: 1}
	}
	if len(password) > passwordMaxBytes {
		return passwordPolicyError{rule: "max_length", limit: passwordMaxBytes}
	}
	if policy.MinLength <= 0 &&
		!policy.RequireUpper &&
		!policy.RequireLower &&
		!policy.RequireNumber &&
		!policy.RequireSpecial {
		return nil
	}

	if policy.MinLength > 0 {
		if len([]rune(password)) < policy.MinLength {
			return passwordPolicyError{rule: "min_length", limit: policy.MinLength}
		}
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		return passwordPolicyError{rule: "an upper-case letter"}
	}
	if policy.RequireLower && !hasLower {
		return passwordPolicyError{rule: "a lower-case letter"}
	}
	if policy.RequireNumber && !hasNumber {
		return passwordPolicyError{rule: "a digit"}
	}
	if policy.RequireSpecial && !hasSpecial {
		return passwordPolicyError{rule: "a special character"}
	}

	return nil
}
