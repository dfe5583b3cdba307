package inventory

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for products and their audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, int64, error)
	FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductByName(ctx context.Context, name string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	CountHoldingReferences(ctx context.Context, productID uuid.UUID) (int64, error)
	HoldingQuantities(ctx context.Context) (map[uuid.UUID]int, error)
	AppendLog(ctx context.Context, log *models.InventoryLog) error
	ListLogs(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error)
	ListDamagedItems(ctx context.Context) ([]models.EventItem, error)
}
