package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casa80eventos/casa80-backend/internal/users"
	pkgauth "github.com/casa80eventos/casa80-backend/pkg/auth"
	"github.com/casa80eventos/casa80-backend/pkg/auth/session"
	"github.com/casa80eventos/casa80-backend/pkg/config"
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Service defines the authentication operations.
type Service interface {
	Login(ctx context.Context, input LoginInput) (*LoginResult, error)
	Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

type service struct {
	repo     users.Repository
	sessions sessionManager
	jwtCfg   config.JWTConfig
	now      func() time.Time
}

// NewService builds the auth service on top of the users repository and the
// redis-backed session manager.
func NewService(repo users.Repository, sessions sessionManager, jwtCfg config.JWTConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session manager required")
	}
	return &service{
		repo:     repo,
		sessions: sessions,
		jwtCfg:   jwtCfg,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, invalidCredentials()
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidCredentials()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al iniciar sesión")
	}
	if !user.IsActive {
		return nil, invalidCredentials()
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil || !ok {
		return nil, invalidCredentials()
	}

	now := s.now()
	if err := s.repo.UpdateUser(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al iniciar sesión")
	}
	user.LastLoginAt = &now

	return s.issueTokens(ctx, user, session.NewAccessID())
}

func (s *service) Refresh(ctx context.Context, accessToken, refreshToken string) (*LoginResult, error) {
	// The access token may be expired; only its signature and jti matter here.
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return nil, invalidSession()
	}

	newAccessID, newRefreshToken, err := s.sessions.Rotate(ctx, claims.ID, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, invalidSession()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al renovar la sesión")
	}

	user, err := s.repo.FindUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidSession()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al renovar la sesión")
	}
	if !user.IsActive {
		_ = s.sessions.Revoke(ctx, newAccessID)
		return nil, invalidSession()
	}

	return s.mintResult(user, newAccessID, newRefreshToken)
}

func (s *service) Logout(ctx context.Context, accessToken string) error {
	claims, err := pkgauth.ParseAccessTokenAllowExpired(s.jwtCfg, accessToken)
	if err != nil {
		return invalidSession()
	}
	if err := s.sessions.Revoke(ctx, claims.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al cerrar sesión")
	}
	return nil
}

func (s *service) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, invalidSession()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el usuario")
	}
	return user, nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User, accessID string) (*LoginResult, error) {
	refreshToken, err := s.sessions.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al iniciar sesión")
	}
	return s.mintResult(user, accessID, refreshToken)
}

func (s *service) mintResult(user *models.User, accessID, refreshToken string) (*LoginResult, error) {
	now := s.now()
	accessToken, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		JTI:    accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al emitir el token")
	}

	return &LoginResult{
		User: user,
		Tokens: TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		},
	}, nil
}

func invalidCredentials() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "Credenciales inválidas")
}

func invalidSession() error {
	return pkgerrors.New(pkgerrors.CodeUnauthorized, "Sesión inválida")
}
