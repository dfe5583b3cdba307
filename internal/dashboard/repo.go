package dashboard

import (
	"context"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListEventsBetween returns events whose start date falls inside [start, end).
// Nil bounds are open.
func (r *repository) ListEventsBetween(ctx context.Context, start, end *time.Time) ([]models.Event, error) {
	query := r.db.WithContext(ctx).
		Preload("Items.Product").
		Order("start_date ASC")
	if start != nil {
		query = query.Where("start_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("start_date < ?", *end)
	}

	var events []models.Event
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListUpcomingEvents(ctx context.Context, after time.Time, limit int) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("start_date >= ?", after).
		Where("status IN ?", holdingStatusStrings()).
		Order("start_date ASC").
		Limit(limit).
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

func (r *repository) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (r *repository) CountActiveReservations(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status IN ?", holdingStatusStrings()).
		Count(&total).Error
	return total, err
}

func (r *repository) CountPendingReturns(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("status = ?", enums.EventStatusDespachado.String()).
		Count(&total).Error
	return total, err
}

func holdingStatusStrings() []string {
	holding := enums.HoldingStatuses()
	statuses := make([]string, len(holding))
	for i, s := range holding {
		statuses[i] = s.String()
	}
	return statuses
}
