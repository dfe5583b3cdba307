package clients

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a clients repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListClients(ctx context.Context, params pagination.Params) ([]models.Client, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Client{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	p := params.Normalize()
	var clients []models.Client
	err := r.db.WithContext(ctx).
		Preload("Events.Items.Product").
		Order("name ASC").
		Offset(params.Offset()).
		Limit(p.Limit).
		Find(&clients).Error
	if err != nil {
		return nil, 0, err
	}
	return clients, total, nil
}

func (r *repository) FindClient(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	var client models.Client
	err := r.db.WithContext(ctx).
		Preload("Events.Items.Product").
		Where("id = ?", id).
		First(&client).Error
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *repository) CreateClient(ctx context.Context, client *models.Client) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *repository) UpdateClient(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Client{}).
		Where("id = ?", id).
		Updates(updates).Error
}

// DetachEvents clears the client reference on the client's events so history
// survives the client's removal.
func (r *repository) DetachEvents(ctx context.Context, clientID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Event{}).
		Where("client_id = ?", clientID).
		Update("client_id", nil).Error
}

func (r *repository) DeleteClient(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Client{}).Error
}
