package auth

import (
	"context"
	"fmt"
	"testing"

	"github.com/casa80eventos/casa80-backend/internal/users"
	pkgauth "github.com/casa80eventos/casa80-backend/pkg/auth"
	"github.com/casa80eventos/casa80-backend/pkg/auth/session"
	"github.com/casa80eventos/casa80-backend/pkg/config"
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type fakeSessions struct {
	tokens  map[string]string
	revoked []string
	nextTok int
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{tokens: map[string]string{}}
}

func (f *fakeSessions) Generate(_ context.Context, accessID string) (string, error) {
	f.nextTok++
	token := fmt.Sprintf("refresh-%d", f.nextTok)
	f.tokens[accessID] = token
	return token, nil
}

func (f *fakeSessions) Rotate(_ context.Context, oldAccessID, provided string) (string, string, error) {
	stored, ok := f.tokens[oldAccessID]
	if !ok || stored != provided {
		return "", "", session.ErrInvalidRefreshToken
	}
	delete(f.tokens, oldAccessID)
	newAccessID := session.NewAccessID()
	f.nextTok++
	token := fmt.Sprintf("refresh-%d", f.nextTok)
	f.tokens[newAccessID] = token
	return newAccessID, token, nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	delete(f.tokens, accessID)
	f.revoked = append(f.revoked, accessID)
	return nil
}

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:                 "secreto-de-prueba",
		Issuer:                 "casa80-test",
		ExpirationMinutes:      60,
		RefreshTokenTTLMinutes: 1440,
	}
}

func testPasswordConfig() config.PasswordConfig {
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) (Service, *gorm.DB, *fakeSessions) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	sessions := newFakeSessions()
	svc, err := NewService(users.NewRepository(conn), sessions, testJWTConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn, sessions
}

func mustCreateUser(t *testing.T, conn *gorm.DB, email, password string, active bool) *models.User {
	t.Helper()
	hash, err := security.HashPassword(password, testPasswordConfig())
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         "Usuario Prueba",
		Role:         enums.UserRoleAdmin,
		IsActive:     active,
	}
	if err := conn.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestLoginIssuesTokensAndRecordsLogin(t *testing.T) {
	svc, conn, _ := newTestService(t)
	user := mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "Admin@Casa80.com",
		Password: "secreto-123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Fatalf("expected token pair, got %+v", result.Tokens)
	}

	claims, err := pkgauth.ParseAccessToken(testJWTConfig(), result.Tokens.AccessToken)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}

	var stored models.User
	if err := conn.First(&stored, "id = ?", user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if stored.LastLoginAt == nil {
		t.Fatal("expected last_login_at recorded")
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	svc, conn, _ := newTestService(t)
	mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@casa80.com",
		Password: "incorrecta",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	svc, conn, _ := newTestService(t)
	mustCreateUser(t, conn, "inactivo@casa80.com", "secreto-123", false)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "inactivo@casa80.com",
		Password: "secreto-123",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), LoginInput{
		Email:    "nadie@casa80.com",
		Password: "lo-que-sea",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, conn, sessions := newTestService(t)
	mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	first, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@casa80.com",
		Password: "secreto-123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	second, err := svc.Refresh(context.Background(), first.Tokens.AccessToken, first.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}
	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("expected a rotated refresh token")
	}

	// The old pair is single use.
	_, err = svc.Refresh(context.Background(), first.Tokens.AccessToken, first.Tokens.RefreshToken)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized reuse, got %v", err)
	}
	if len(sessions.tokens) != 1 {
		t.Fatalf("expected exactly one live session, got %d", len(sessions.tokens))
	}
}

func TestRefreshRejectsDeactivatedUser(t *testing.T) {
	svc, conn, sessions := newTestService(t)
	user := mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@casa80.com",
		Password: "secreto-123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := conn.Model(&models.User{}).Where("id = ?", user.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate user: %v", err)
	}

	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected session revoked, got %d live", len(sessions.tokens))
	}
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, conn, sessions := newTestService(t)
	mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "admin@casa80.com",
		Password: "secreto-123",
	})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}

	if err := svc.Logout(context.Background(), result.Tokens.AccessToken); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(sessions.tokens) != 0 {
		t.Fatalf("expected no live sessions, got %d", len(sessions.tokens))
	}

	_, err = svc.Refresh(context.Background(), result.Tokens.AccessToken, result.Tokens.RefreshToken)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized after logout, got %v", err)
	}
}

func TestMe(t *testing.T) {
	svc, conn, _ := newTestService(t)
	user := mustCreateUser(t, conn, "admin@casa80.com", "secreto-123", true)

	me, err := svc.Me(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if me.Email != "admin@casa80.com" {
		t.Fatalf("unexpected user %+v", me)
	}

	if _, err := svc.Me(context.Background(), uuid.New()); pkgerrors.As(err) == nil {
		t.Fatal("expected unauthorized for unknown user")
	}
}
