package validate

import "testing"

func TestUsername(t *testing.T) {
	if err := Username("al"); err == nil {
		t.Error("expected error for 2-char username")
	}
	if err := Username("  a  "); err == nil {
		t.Error("expected error for whitespace-padded short username")
	}
	if err := Username("alice"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestEmail(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"", false},
		{"missing-at.example.com", false},
		{"two@@x.com", false},
		{"alice@x.com", true},
		{"a.b+tag@sub.example.org", true},
	}
	for _, tc := range cases {
		err := Email(tc.in)
		if tc.ok && err != nil {
			t.Errorf("Email(%q): unexpected error %v", tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("Email(%q): expected error", tc.in)
		}
	}
}

func TestPassword(t *testing.T) {
	if err := Password("12345"); err == nil {
		t.Error("expected error for 5-char password")
	}
	if err := Password("123456"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestRegistration_FirstViolationWins(t *testing.T) {
	err := Registration("al", "bad-email", "123")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "username must be at least 3 characters" {
		t.Errorf("expected the username error first, got %q", err.Error())
	}
}

func TestLogin(t *testing.T) {
	if err := Login("", "secret"); err == nil {
		t.Error("expected error for empty email")
	}
	if err := Login("alice@x.com", ""); err == nil {
		t.Error("expected error for empty password")
	}
	if err := Login("alice@x.com", "secret"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
