package inventory

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListProducts(ctx context.Context, params pagination.Params) ([]models.Product, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Offset(params.Offset()).
		Limit(p.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

func (r *repository) FindProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindProductByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *repository) UpdateProduct(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Product{}).Error
}

// CountHoldingReferences counts event items tying the product to events whose
// status still holds inventory.
func (r *repository) CountHoldingReferences(ctx context.Context, productID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.EventItem{}).
		Joins("JOIN events ON events.id = event_items.event_id").
		Where("event_items.product_id = ?", productID).
		Where("events.status IN ?", holdingStatusStrings()).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// HoldingQuantities sums reserved quantities per product across all events in
// a holding status.
func (r *repository) HoldingQuantities(ctx context.Context) (map[uuid.UUID]int, error) {
	type row struct {
		ProductID uuid.UUID
		Total     int
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.EventItem{}).
		Select("event_items.product_id AS product_id, SUM(event_items.quantity) AS total").
		Joins("JOIN events ON events.id = event_items.event_id").
		Where("events.status IN ?", holdingStatusStrings()).
		Group("event_items.product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	quantities := make(map[uuid.UUID]int, len(rows))
	for _, r := range rows {
		quantities[r.ProductID] = r.Total
	}
	return quantities, nil
}

func (r *repository) AppendLog(ctx context.Context, log *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) ListLogs(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error) {
	var logs []models.InventoryLog
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, err
	}
	return logs, nil
}

func (r *repository) ListDamagedItems(ctx context.Context) ([]models.EventItem, error) {
	var items []models.EventItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Event.Client").
		Joins("JOIN events ON events.id = event_items.event_id").
		Where("event_items.returned_damaged > 0").
		Order("events.start_date DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func holdingStatusStrings() []string {
	holding := enums.HoldingStatuses()
	statuses := make([]string, len(holding))
	for i, s := range holding {
		statuses[i] = s.String()
	}
	return statuses
}
