package events

import (
	"context"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an events repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListEvents(ctx context.Context, params pagination.Params) ([]models.Event, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Event{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items").
		Order("start_date DESC").
		Offset(params.Offset()).
		Limit(p.Limit).
		Find(&events).Error
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *repository) FindEvent(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	var event models.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Items.Product").
		Where("id = ?", id).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// FindOverlappingHolding returns events in an inventory-holding status whose
// date range intersects the requested one. Boundaries are inclusive: an event
// ending the day another starts still counts.
func (r *repository) FindOverlappingHolding(ctx context.Context, start, end time.Time, excludeID *uuid.UUID) ([]models.Event, error) {
	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("status IN ?", holdingStatusStrings()).
		Where("start_date <= ? AND end_date >= ?", end, start)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
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

func (r *repository) CreateEvent(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *repository) UpdateEvent(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) UpdateEventStatus(ctx context.Context, id uuid.UUID, status enums.EventStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) ReplaceItems(ctx context.Context, eventID uuid.UUID, items []models.EventItem) error {
	if err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&models.EventItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].EventID = eventID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

func (r *repository) FindItem(ctx context.Context, eventID, productID uuid.UUID) (*models.EventItem, error) {
	var item models.EventItem
	err := r.db.WithContext(ctx).
		Preload("Product").
		Where("event_id = ? AND product_id = ?", eventID, productID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateItem(ctx context.Context, itemID uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.EventItem{}).
		Where("id = ?", itemID).
		Updates(updates).Error
}

func (r *repository) AppendInventoryLog(ctx context.Context, log *models.InventoryLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func holdingStatusStrings() []string {
	holding := enums.HoldingStatuses()
	statuses := make([]string, len(holding))
	for i, s := range holding {
		statuses[i] = s.String()
	}
	return statuses
}
