package seed

import (
	"context"
	"fmt"
	"testing"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(conn)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func TestRunSeedsEmptyDatabase(t *testing.T) {
	svc, conn := newTestService(t)

	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Seeded {
		t.Fatalf("expected seeding, got %+v", result)
	}
	if result.Message != "Datos de semilla creados" {
		t.Fatalf("unexpected message %q", result.Message)
	}

	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 sample products, got %d", count)
	}
}

func TestRunIsNoOpWithExistingProducts(t *testing.T) {
	svc, conn := newTestService(t)

	if _, err := svc.Run(context.Background()); err != nil {
		t.Fatalf("first run: %v", err)
	}
	result, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if result.Seeded {
		t.Fatal("expected no-op on populated database")
	}
	if result.Message != "La base de datos ya tiene productos" {
		t.Fatalf("unexpected message %q", result.Message)
	}

	var count int64
	if err := conn.Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count products: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected products unchanged, got %d", count)
	}
}
