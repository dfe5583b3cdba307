// Package seed loads sample inventory into an empty database. It backs the
// non-production debug endpoint.
package seed

import (
	"context"
	"fmt"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Result reports what the seeding run did.
type Result struct {
	Seeded  bool   `json:"seeded"`
	Message string `json:"message"`
}

// Service seeds sample data.
type Service interface {
	Run(ctx context.Context) (*Result, error)
}

type service struct {
	db *gorm.DB
}

// NewService builds the seed service.
func NewService(db *gorm.DB) (Service, error) {
	if db == nil {
		return nil, fmt.Errorf("db connection required")
	}
	return &service{db: db}, nil
}

// Run inserts the sample products. Existing inventory makes it a no-op so the
// endpoint can be called repeatedly.
func (s *service) Run(ctx context.Context) (*Result, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&models.Product{}).Count(&existing).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al crear datos de semilla")
	}
	if existing > 0 {
		return &Result{Seeded: false, Message: "La base de datos ya tiene productos"}, nil
	}

	if err := s.db.WithContext(ctx).Create(sampleProducts()).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al crear datos de semilla")
	}
	return &Result{Seeded: true, Message: "Datos de semilla creados"}, nil
}

func sampleProducts() *[]models.Product {
	return &[]models.Product{
		{
			Name:             "Silla Tiffany Dorada",
			Description:      strPtr("Silla elegante para eventos formales, color dorado"),
			TotalQuantity:    100,
			PriceUnit:        decimal.NewFromInt(25),
			PriceReplacement: decimal.RequireFromString("150.00"),
			ImageURL:         strPtr("/images/silla-tiffany.jpg"),
		},
		{
			Name:             "Mesa Redonda 10 personas",
			Description:      strPtr("Mesa plegable de madera, 1.5m de diámetro"),
			TotalQuantity:    20,
			PriceUnit:        decimal.NewFromInt(120),
			PriceReplacement: decimal.RequireFromString("800.00"),
			ImageURL:         strPtr("/images/mesa-redonda.jpg"),
		},
		{
			Name:             "Mantel Blanco Premium",
			Description:      strPtr("Mantel de tela gruesa, resistente a manchas"),
			TotalQuantity:    50,
			PriceUnit:        decimal.NewFromInt(30),
			PriceReplacement: decimal.RequireFromString("200.00"),
			ImageURL:         strPtr("/images/mantel-blanco.jpg"),
		},
	}
}

func strPtr(s string) *string { return &s }
