package auth

import (
	"errors"
	"testing"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatal(err)
	}
	if !CheckPassword("secret123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("secret124", hash) {
		t.Error("wrong password accepted")
	}
}

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"owner@example.com", "owner@example.com", false},
		{"  Owner@Example.COM ", "owner@example.com", false},
		{"", "", true},
		{"no-at-sign", "", true},
		{"Name <owner@example.com>", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeEmail(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidEmail) {
					t.Errorf("error = %v, want ErrInvalidEmail", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("NormalizeEmail(%q) = %q, %v", tt.in, got, err)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("12345"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("short password error = %v", err)
	}
	if err := ValidatePassword("123456"); err != nil {
		t.Errorf("six characters should be accepted: %v", err)
	}
}
