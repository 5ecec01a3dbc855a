package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Shivanand-hulikatti/flight-booking/internal/model"
)

const (
	demoEmail    = "test@example.com"
	demoPassword = "password"
	demoAvatar   = "https://images.unsplash.com/photo-1633332755192-727a05c4013d?auto=format&fit=crop&w=100&h=100"
)

// AuthService accepts a single demo account and registers anyone.
type AuthService struct {
	delay time.Duration
}

// NewAuthService constructs an AuthService.
func NewAuthService(delay time.Duration) *AuthService {
	return &AuthService{delay: delay}
}

// Login returns the demo user for the demo credentials and
// ErrInvalidCredentials for anything else.
func (s *AuthService) Login(ctx context.Context, email, password string) (model.User, error) {
	if err := wait(ctx, s.delay); err != nil {
		return model.User{}, err
	}
	if email != demoEmail || password != demoPassword {
		return model.User{}, ErrInvalidCredentials
	}
	return model.User{ID: "1", Email: demoEmail, Name: "Test User", Avatar: demoAvatar}, nil
}

// Register creates a user with a fresh id. Every field must be non-empty.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (model.User, error) {
	if err := wait(ctx, s.delay); err != nil {
		return model.User{}, err
	}
	if name == "" || email == "" || password == "" {
		return model.User{}, ErrRegistrationFailed
	}
	return model.User{ID: uuid.NewString(), Email: email, Name: name, Avatar: demoAvatar}, nil
}
