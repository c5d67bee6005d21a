package app

import (
	"testing"

	"github.com/techreo/onboarding-service/internal/domain"
)

func TestValidateSignupRequest(t *testing.T) {
	tests := []struct {
		name      string
		req       domain.SignupRequest
		wantField string
	}{
		{
			name: "valid payload",
			req:  domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "5512345678", Password: "supersecret"},
		},
		{
			name:      "missing email",
			req:       domain.SignupRequest{PhoneNumber: "5512345678", Password: "supersecret"},
			wantField: "email",
		},
		{
			name:      "phone too short",
			req:       domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "551234567", Password: "supersecret"},
			wantField: "phoneNumber",
		},
		{
			name:      "phone too long",
			req:       domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "55123456789", Password: "supersecret"},
			wantField: "phoneNumber",
		},
		{
			name:      "phone with letters",
			req:       domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "551234567a", Password: "supersecret"},
			wantField: "phoneNumber",
		},
		{
			name:      "password too short",
			req:       domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "5512345678", Password: "short"},
			wantField: "password",
		},
		{
			name:      "email checked before phone",
			req:       domain.SignupRequest{PhoneNumber: "bad", Password: "x"},
			wantField: "email",
		},
		{
			name:      "phone checked before password",
			req:       domain.SignupRequest{Email: "a@b.mx", PhoneNumber: "bad", Password: "x"},
			wantField: "phoneNumber",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateSignupRequest(tt.req)
			if tt.wantField == "" {
				if verr != nil {
					t.Fatalf("expected valid payload, got error %q", verr.Message)
				}
				return
			}
			if verr == nil {
				t.Fatalf("expected validation error on field %q, got nil", tt.wantField)
			}
			if verr.Field != tt.wantField {
				t.Fatalf("expected failing field %q, got %q (%q)", tt.wantField, verr.Field, verr.Message)
			}
			if verr.Message == "" {
				t.Fatal("expected a human-readable message")
			}
		})
	}
}
