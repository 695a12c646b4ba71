package util

import (
	"testing"
)

func TestNormalizeEmail(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com  ", "bob@example.com"},
		{"plain@example.com", "plain@example.com"},
	}
	for _, tc := range tests {
		if got := NormalizeEmail(tc.in); got != tc.want {
			t.Errorf("NormalizeEmail(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestValidateEmail_Valid(t *testing.T) {
	for _, email := range []string{"a@b.co", "first.last@example.com", "x+tag@example.org"} {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) error = %v, want nil", email, err)
		}
	}
}

func TestValidateEmail_Invalid(t *testing.T) {
	for _, email := range []string{"", "not-an-email", "@example.com", "spaces in@example.com"} {
		if err := ValidateEmail(email); err == nil {
			t.Errorf("ValidateEmail(%q) error = nil, want error", email)
		}
	}
}

func TestValidateURL_Valid(t *testing.T) {
	for _, u := range []string{"https://prowler.example.com", "http://10.0.0.5:8080", "https://host/path"} {
		if err := ValidateURL(u); err != nil {
			t.Errorf("ValidateURL(%q) error = %v, want nil", u, err)
		}
	}
}

func TestValidateURL_Invalid(t *testing.T) {
	for _, u := range []string{"", "prowler.example.com", "ftp://example.com", "https://", "://bad"} {
		if err := ValidateURL(u); err == nil {
			t.Errorf("ValidateURL(%q) error = nil, want error", u)
		}
	}
}
