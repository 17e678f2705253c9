package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var emailRx = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// Username must be at least 3 characters.
func Username(v string) error {
	if len(strings.TrimSpace(v)) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}
	return nil
}

func Email(v string) error {
	if v == "" {
		return fmt.Errorf("email is required")
	}
	if len(v) > 320 || !emailRx.MatchString(v) {
		return fmt.Errorf("invalid email")
	}
	return nil
}

// Password must be at least 6 characters.
func Password(v string) error {
	if len(v) < 6 {
		return fmt.Errorf("password must be at least 6 characters")
	}
	return nil
}

// Registration validates input for creating a new account. The first
// violated rule wins; policy is strict server-side checking, the store's
// unique index on email is only a backstop.
func Registration(username, email, password string) error {
	if err := Username(username); err != nil {
		return err
	}
	if err := Email(email); err != nil {
		return err
	}
	return Password(password)
}

// Login validates credential presence only; anything beyond presence is
// deliberately indistinguishable from a bad password.
func Login(email, password string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if password == "" {
		return fmt.Errorf("password is required")
	}
	return nil
}
