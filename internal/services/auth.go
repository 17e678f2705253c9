package services

import (
	"context"
	"errors"

	"github.com/inkwell-app/inkwell-diary/internal/api/validate"
	"github.com/inkwell-app/inkwell-diary/internal/auth"
	"github.com/inkwell-app/inkwell-diary/internal/model"
	"github.com/inkwell-app/inkwell-diary/internal/store"
)

// AuthResult is what both register and login hand back to the HTTP layer.
type AuthResult struct {
	User  *model.User
	Token string
}

// AuthService handles registration and login.
type AuthService struct {
	store store.Store
	jwt   *auth.JWTManager
}

func NewAuthService(s store.Store, jwt *auth.JWTManager) *AuthService {
	return &AuthService{store: s, jwt: jwt}
}

// Register validates the input, rejects duplicate emails, hashes the
// password and creates the account with a fresh token.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	if err := validate.Registration(username, email, password); err != nil {
		return nil, model.NewValidation(err.Error())
	}

	if _, err := s.store.Users().GetByEmail(ctx, email); err == nil {
		return nil, model.NewConflict("User already exists")
	} else if !errors.Is(err, model.ErrNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}

	user, err := s.store.Users().Create(ctx, &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	})
	if err != nil {
		// The unique index catches the race where two registrations
		// pass the lookup above concurrently.
		if errors.Is(err, model.ErrConflict) {
			return nil, model.NewConflict("User already exists")
		}
		return nil, err
	}

	token, _, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}

// Login authenticates by email and password. An unknown email and a
// wrong password produce the same error so accounts cannot be
// enumerated.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validate.Login(email, password); err != nil {
		return nil, model.NewAuthentication("Invalid credentials")
	}

	user, err := s.store.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.NewAuthentication("Invalid credentials")
		}
		return nil, err
	}

	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, model.NewAuthentication("Invalid credentials")
	}

	token, _, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token}, nil
}
