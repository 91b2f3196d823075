package services

import (
	"context"
	"time"

	"github.com/yalapay/yala_backend/internal/core/domain"
	"github.com/yalapay/yala_backend/internal/dto"
)

// TokenSvc issues signed access tokens for authenticated users.
type TokenSvc interface {
	// GenerateAccessToken creates a signed JWT for the user.
	GenerateAccessToken(ctx context.Context, user *domain.User) (token string, expiresAt time.Time, err error)
}

// AuthSvcFacade groups the authentication entrypoints used by the handlers.
type AuthSvcFacade interface {
	TokenSvc

	// Register creates a new user and returns a fresh access token.
	Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.AuthResponse, error)

	// Login authenticates a user by email and password.
	Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error)

	// GoogleLogin verifies a Google ID token and signs the user in,
	// creating the account on first sign-in.
	GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*dto.AuthResponse, error)

	// ExchangeGoogleCode trades an OAuth authorization code for Google
	// tokens and signs the user in with the embedded ID token.
	ExchangeGoogleCode(ctx context.Context, req dto.GoogleExchangeCodeRequest) (*dto.AuthResponse, error)
}
