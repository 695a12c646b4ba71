package util

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"
)

// NormalizeEmail trims surrounding whitespace and lowercases the address.
// All stored emails go through this before the uniqueness check.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail verifies the address is syntactically valid.
func ValidateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}
	return nil
}

// ValidateURL verifies s is a well-formed absolute http(s) URL.
func ValidateURL(s string) error {
	if s == "" {
		return fmt.Errorf("url is empty")
	}
	u, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url must be absolute http or https, got %q", s)
	}
	if u.Host == "" {
		return fmt.Errorf("url is missing a host")
	}
	return nil
}
