package users

import (
	"context"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines persistence operations for application users.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListUsers(ctx context.Context) ([]models.User, error)
	FindUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
