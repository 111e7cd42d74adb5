package service

import (
	"context"
	"fmt"

	"github.com/locvowork/employee_admin_console/internal/domain"
	"github.com/locvowork/employee_admin_console/internal/gateway"
	"github.com/locvowork/employee_admin_console/internal/logger"
	"github.com/locvowork/employee_admin_console/internal/session"
)

// AuthService wraps the login endpoint and owns the session lifecycle: it is
// the only component allowed to mutate the session store.
type AuthService struct {
	api   *gateway.Client
	store *session.Store
}

// NewAuthService returns the auth wrapper bound to a session store.
func NewAuthService(api *gateway.Client, store *session.Store) *AuthService {
	return &AuthService{api: api, store: store}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates and persists the session before returning, so callers
// may open the notification channel as soon as Login succeeds.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	var sess domain.Session
	if err := s.api.Post(ctx, "/auth/login", loginRequest{Email: email, Password: password}, &sess); err != nil {
		logger.ErrorLog(ctx, "Login failed", err)
		if apiErr, ok := err.(*gateway.APIError); ok {
			return nil, fmt.Errorf("%s", apiErr.Message)
		}
		return nil, fmt.Errorf("Login failed. Please try again.")
	}

	if err := s.store.Login(sess); err != nil {
		return nil, fmt.Errorf("failed to persist session: %w", err)
	}
	return &sess, nil
}

// Logout clears the stored session.
func (s *AuthService) Logout() {
	s.store.Logout()
}
