package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/mentor-backend/internal/domain"
	"github.com/yungbote/mentor-backend/internal/platform/apierr"
	"github.com/yungbote/mentor-backend/internal/platform/firebaseauth"
	"github.com/yungbote/mentor-backend/internal/platform/logger"
	"github.com/yungbote/mentor-backend/internal/repos"
)

// AuthService turns a bearer credential into an authenticated principal.
// Errors are *apierr.Error values carrying 401, 403 or 500.
type AuthService interface {
	Authenticate(ctx context.Context, idToken string) (*domain.Principal, error)
}

type authService struct {
	log      *logger.Logger
	verifier firebaseauth.TokenVerifier
	users    repos.UserRepo
}

func NewAuthService(log *logger.Logger, verifier firebaseauth.TokenVerifier, users repos.UserRepo) AuthService {
	return &authService{log: log.With("service", "AuthService"), verifier: verifier, users: users}
}

func (as *authService) Authenticate(ctx context.Context, idToken string) (*domain.Principal, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apierr.Unauthorized("missing Authorization header")
	}
	tok, err := as.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		as.log.Debug("ID token rejected", "error", err)
		return nil, apierr.Unauthorized("invalid or expired ID token")
	}
	if strings.TrimSpace(tok.UID) == "" {
		return nil, apierr.Unauthorized("token missing uid claim")
	}

	user, err := as.users.GetByID(ctx, tok.UID)
	if repos.IsNotFound(err) {
		return nil, apierr.Forbidden("user record not provisioned")
	}
	if err != nil {
		as.log.Error("User lookup failed", "user_id", tok.UID, "error", err)
		return nil, apierr.Internal("user_lookup_failed", fmt.Errorf("load user: %w", err))
	}
	if !user.Role.Valid() {
		return nil, apierr.Forbidden("user role missing or unsupported")
	}

	email := user.Email
	if email == "" {
		email = tok.Email
	}
	return &domain.Principal{
		ID:     tok.UID,
		Email:  email,
		Role:   user.Role,
		Claims: tok.Claims,
	}, nil
}
