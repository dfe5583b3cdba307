package db

import (
	"context"
	"errors"
	"testing"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openSQLite(t *testing.T) *Client {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return FromGorm(conn)
}

func TestWithTxCommits(t *testing.T) {
	client := openSQLite(t)

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		return tx.Create(&models.Product{Name: "Silla Tiffany"}).Error
	})
	if err != nil {
		t.Fatalf("WithTx returned error: %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Product{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product, got %d", count)
	}
}

func TestWithTxRollsBackOnError(t *testing.T) {
	client := openSQLite(t)
	boom := errors.New("boom")

	err := client.WithTx(context.Background(), func(tx *gorm.DB) error {
		if err := tx.Create(&models.Product{Name: "Mesa Redonda"}).Error; err != nil {
			return err
		}
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	var count int64
	if err := client.DB().Model(&models.Product{}).Where("name = ?", "Mesa Redonda").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected rollback, found %d rows", count)
	}
}

func TestIsUniqueViolation(t *testing.T) {
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is not a violation")
	}
	err := errors.New(`duplicate key value violates unique constraint "idx_products_name"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected duplicate key detection")
	}
	if !IsUniqueViolation(err, "idx_products_name") {
		t.Fatal("expected constraint name detection")
	}
	if IsUniqueViolation(err, "idx_other") {
		t.Fatal("mismatched constraint should not match")
	}
}

func TestIsSerializationFailure(t *testing.T) {
	err := errors.New("ERROR: could not serialize access due to concurrent update (SQLSTATE 40001)")
	if !IsSerializationFailure(err) {
		t.Fatal("expected serialization failure detection")
	}
	if IsSerializationFailure(errors.New("some other error")) {
		t.Fatal("unrelated error misclassified")
	}
}
