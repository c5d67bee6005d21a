package app

import (
	"github.com/techreo/onboarding-service/internal/domain"
)

// ValidationError reports the first signup field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateSignupRequest checks the signup payload shape. Fields are checked in
// declaration order (email, phoneNumber, password) and validation stops at the
// first failure.
func ValidateSignupRequest(req domain.SignupRequest) *ValidationError {
	if req.Email == "" {
		return &ValidationError{Field: "email", Message: `"email" is required`}
	}
	if !isTenDigits(req.PhoneNumber) {
		return &ValidationError{Field: "phoneNumber", Message: `"phoneNumber" must be a string of 10 digits`}
	}
	if len(req.Password) < 8 {
		return &ValidationError{Field: "password", Message: `"password" length must be at least 8 characters long`}
	}
	return nil
}

func isTenDigits(s string) bool {
	if len(s) != 10 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
