package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/yalapay/yala_backend/internal/apperrors"
	"github.com/yalapay/yala_backend/internal/core/domain"
	portssvc "github.com/yalapay/yala_backend/internal/core/ports/services"
	"github.com/yalapay/yala_backend/internal/dto"
	"github.com/yalapay/yala_backend/internal/middleware"
	"github.com/yalapay/yala_backend/internal/utils"
	"github.com/yalapay/yala_backend/pkg/config"
)

// googleTokenVerifier validates a Google ID token and returns its payload.
// Indirection over idtoken.Validate so tests can stub the upstream call.
type googleTokenVerifier func(ctx context.Context, idToken string, audience string) (*idtoken.Payload, error)

// oauthCodeExchanger trades an authorization code for Google tokens.
// Indirection over oauth2.Config.Exchange so tests can stub the upstream call.
type oauthCodeExchanger func(ctx context.Context, code string) (*oauth2.Token, error)

type authService struct {
	cfg      *config.Config
	userSvc  portssvc.UserSvcFacade
	notifier portssvc.NotifierSvc

	verifyGoogleToken googleTokenVerifier
	exchangeOAuthCode oauthCodeExchanger
}

// NewAuthService creates a new instance of authService.
func NewAuthService(cfg *config.Config, userSvc portssvc.UserSvcFacade, notifier portssvc.NotifierSvc) portssvc.AuthSvcFacade {
	oauthConfig := &oauth2.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
		Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
		Endpoint:     google.Endpoint,
	}
	return &authService{
		cfg:               cfg,
		userSvc:           userSvc,
		notifier:          notifier,
		verifyGoogleToken: idtoken.Validate,
		exchangeOAuthCode: func(ctx context.Context, code string) (*oauth2.Token, error) {
			return oauthConfig.Exchange(ctx, code)
		},
	}
}

// GenerateAccessToken creates a new JWT access token for the given user.
func (s *authService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)

	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

func (s *authService) Register(ctx context.Context, req dto.RegisterUserRequest) (*dto.AuthResponse, error) {
	user, err := s.userSvc.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyWelcome(*user)

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) Login(ctx context.Context, req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userSvc.AuthenticateUser(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	return s.buildAuthResponse(ctx, user)
}

func (s *authService) GoogleLogin(ctx context.Context, req dto.GoogleLoginRequest) (*dto.AuthResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	payload, err := s.verifyGoogleToken(ctx, req.IDToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("%w: google ID token validation failed: %v", apperrors.ErrUnauthorized, err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: google ID token carries no email claim", apperrors.ErrUnauthorized)
	}
	fullName, _ := payload.Claims["name"].(string)

	user, err := s.userSvc.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
		// First sign-in: provision the user with an unguessable password so
		// the account is reachable only through Google until a reset.
		user, err = s.userSvc.CreateUser(ctx, dto.RegisterUserRequest{
			Username: email,
			Email:    email,
			FullName: fullName,
			Password: randomPassword(),
		})
		if err != nil {
			return nil, err
		}
		s.notifier.NotifyWelcome(*user)
		logger.Info("User provisioned via Google sign-in", slog.String("user_id", user.UserID))
	}

	return s.buildAuthResponse(ctx, user)
}

func (s *authService) ExchangeGoogleCode(ctx context.Context, req dto.GoogleExchangeCodeRequest) (*dto.AuthResponse, error) {
	token, err := s.exchangeOAuthCode(ctx, req.Code)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to exchange authorization code: %v", apperrors.ErrUnauthorized, err)
	}

	idToken, ok := token.Extra("id_token").(string)
	if !ok || idToken == "" {
		return nil, fmt.Errorf("%w: google token response carries no ID token", apperrors.ErrUnauthorized)
	}

	return s.GoogleLogin(ctx, dto.GoogleLoginRequest{IDToken: idToken})
}

func (s *authService) buildAuthResponse(ctx context.Context, user *domain.User) (*dto.AuthResponse, error) {
	token, expiresAt, err := s.GenerateAccessToken(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      dto.ToUserResponse(user),
	}, nil
}

func randomPassword() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}
