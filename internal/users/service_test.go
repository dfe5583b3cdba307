package users

import (
	"context"
	"fmt"
	"testing"

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

func testPasswordConfig() config.PasswordConfig {
	// Light parameters keep hashing fast in tests.
	return config.PasswordConfig{
		ArgonMemoryKB:    1024,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
}

func newTestService(t *testing.T) Service {
	t.Helper()
	dsn := fmt.Sprintf("file:users_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn), testPasswordConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func mustCreateUser(t *testing.T, svc Service, email string, role enums.UserRole) *models.User {
	t.Helper()
	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    email,
		Password: "secreto-123",
		Name:     "Usuario Prueba",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestCreateHashesPassword(t *testing.T) {
	svc := newTestService(t)
	user := mustCreateUser(t, svc, "admin@casa80.com", enums.UserRoleAdmin)

	if user.PasswordHash == "secreto-123" {
		t.Fatal("password stored in plain text")
	}
	ok, err := security.VerifyPassword("secreto-123", user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected hash to verify, ok=%v err=%v", ok, err)
	}
	if !user.IsActive {
		t.Fatal("expected new user active")
	}
}

func TestCreateNormalizesEmail(t *testing.T) {
	svc := newTestService(t)
	user := mustCreateUser(t, svc, "  Admin@Casa80.COM ", enums.UserRoleAdmin)
	if user.Email != "admin@casa80.com" {
		t.Fatalf("unexpected email %q", user.Email)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := newTestService(t)
	mustCreateUser(t, svc, "admin@casa80.com", enums.UserRoleAdmin)

	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "admin@casa80.com",
		Password: "otro-secreto",
		Name:     "Otro",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateRejectsShortPassword(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "corto@casa80.com",
		Password: "abc",
		Name:     "Corto",
	})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateDefaultsToViewer(t *testing.T) {
	svc := newTestService(t)
	user, err := svc.Create(context.Background(), CreateUserInput{
		Email:    "viewer@casa80.com",
		Password: "secreto-123",
		Name:     "Viewer",
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if user.Role != enums.UserRoleViewer {
		t.Fatalf("expected VIEWER default, got %s", user.Role)
	}
}

func TestUpdateRoleAndPassword(t *testing.T) {
	svc := newTestService(t)
	admin := mustCreateUser(t, svc, "admin@casa80.com", enums.UserRoleAdmin)
	user := mustCreateUser(t, svc, "viewer@casa80.com", enums.UserRoleViewer)

	role := enums.UserRoleAdmin
	password := "nuevo-secreto"
	updated, err := svc.Update(context.Background(), user.ID, UpdateUserInput{
		Role:     &role,
		Password: &password,
	}, admin.ID)
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Role != enums.UserRoleAdmin {
		t.Fatalf("expected ADMIN, got %s", updated.Role)
	}
	ok, err := security.VerifyPassword(password, updated.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected new password to verify, ok=%v err=%v", ok, err)
	}
}

func TestCannotDeactivateSelf(t *testing.T) {
	svc := newTestService(t)
	admin := mustCreateUser(t, svc, "admin@casa80.com", enums.UserRoleAdmin)

	_, err := svc.Deactivate(context.Background(), admin.ID, admin.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeactivateOtherUser(t *testing.T) {
	svc := newTestService(t)
	admin := mustCreateUser(t, svc, "admin@casa80.com", enums.UserRoleAdmin)
	other := mustCreateUser(t, svc, "viewer@casa80.com", enums.UserRoleViewer)

	updated, err := svc.Deactivate(context.Background(), other.ID, admin.ID)
	if err != nil {
		t.Fatalf("Deactivate returned error: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected user deactivated")
	}
}
