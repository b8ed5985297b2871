package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"go-employee-console/pkg/apiclient"
)

var (
	ErrCredentialsRequired = errors.New("Email and password are required")
	ErrInvalidCredentials  = errors.New("Invalid email or password!")
	ErrLoginUnavailable    = errors.New("Something went wrong. Please try again later.")
)

type AuthService struct {
	accounts  Accounts
	dashboard *DashboardService
	log       *zap.Logger
}

func NewAuthService(accounts Accounts, dashboard *DashboardService, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{accounts: accounts, dashboard: dashboard, log: log}
}

// Login returns the session token for the credentials. The returned error
// text is shown on the login page.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return "", ErrCredentialsRequired
	}

	token, err := s.accounts.Login(ctx, email, password)
	if err != nil {
		s.log.Info("login failed", zap.String("email", email), zap.Error(err))
		var apiErr *apiclient.Error
		if errors.As(err, &apiErr) {
			if apiErr.Status == 0 {
				return "", ErrLoginUnavailable
			}
			if apiErr.Remote {
				return "", apiErr
			}
		}
		return "", ErrInvalidCredentials
	}
	return token, nil
}

// Logout drops what the console kept for owner.
func (s *AuthService) Logout(ctx context.Context, owner string) {
	if s.dashboard == nil {
		return
	}
	if err := s.dashboard.Forget(ctx, owner); err != nil {
		s.log.Warn("drop employee snapshot failed", zap.Error(err))
	}
}
