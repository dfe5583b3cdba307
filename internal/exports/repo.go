package exports

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an exports repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items.Product").
		Order("start_date DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

// HoldingQuantities sums item quantities across events still holding stock,
// keyed by product.
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

func (r *repository) ListClients(ctx context.Context) ([]models.Client, error) {
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Preload("Events").
		Order("name ASC").
		Find(&clients).Error
	if err != nil {
		return nil, err
	}
	return clients, nil
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
