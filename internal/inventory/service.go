package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/casa80eventos/casa80-backend/pkg/db"
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/excel"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the inventory operations exposed to controllers.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ProductList, error)
	Get(ctx context.Context, id uuid.UUID) (*ProductView, error)
	Create(ctx context.Context, input CreateProductInput) (*models.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	History(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error)
	Damages(ctx context.Context) ([]DamagedItemView, error)
	Import(ctx context.Context, products []excel.ImportedProduct, actorUserID *uuid.UUID) (*ImportSummary, error)
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*ProductList, error) {
	products, total, err := s.repo.ListProducts(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener productos")
	}
	inUse, err := s.repo.HoldingQuantities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener productos")
	}

	views := make([]ProductView, len(products))
	for i, product := range products {
		used := inUse[product.ID]
		views[i] = ProductView{
			Product:   product,
			InUse:     used,
			Available: product.TotalQuantity - used,
		}
	}
	return &ProductList{
		Products: views,
		Meta:     pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*ProductView, error) {
	product, err := s.repo.FindProduct(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el producto")
	}

	inUse, err := s.repo.HoldingQuantities(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el producto")
	}
	used := inUse[product.ID]
	return &ProductView{
		Product:   *product,
		InUse:     used,
		Available: product.TotalQuantity - used,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del producto es obligatorio")
	}
	if input.TotalQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "La cantidad total no puede ser negativa")
	}
	if input.PriceUnit.IsNegative() || input.PriceReplacement.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Los precios no pueden ser negativos")
	}

	product := &models.Product{
		Name:             name,
		Category:         input.Category,
		Description:      input.Description,
		ImageURL:         input.ImageURL,
		TotalQuantity:    input.TotalQuantity,
		PriceUnit:        input.PriceUnit,
		PriceReplacement: input.PriceReplacement,
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.CreateProduct(ctx, product); err != nil {
			return err
		}
		return s.appendLog(ctx, repo, logEntry{
			productID: product.ID,
			previous:  0,
			next:      product.TotalQuantity,
			reason:    enums.InventoryReasonCreate,
			userID:    input.ActorUserID,
		})
	})
	if err != nil {
		if isDuplicateName(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("Ya existe un producto con el nombre %q", name))
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al crear el producto")
	}
	return product, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del producto es obligatorio")
		}
		updates["name"] = name
	}
	if input.Category != nil {
		updates["category"] = *input.Category
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.ImageURL != nil {
		updates["image_url"] = *input.ImageURL
	}
	if input.PriceUnit != nil {
		if input.PriceUnit.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Los precios no pueden ser negativos")
		}
		updates["price_unit"] = *input.PriceUnit
	}
	if input.PriceReplacement != nil {
		if input.PriceReplacement.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Los precios no pueden ser negativos")
		}
		updates["price_replacement"] = *input.PriceReplacement
	}
	if input.TotalQuantity != nil && *input.TotalQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "La cantidad total no puede ser negativa")
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
			}
			return err
		}

		if input.TotalQuantity != nil && *input.TotalQuantity != product.TotalQuantity {
			updates["total_quantity"] = *input.TotalQuantity
			if err := s.appendLog(ctx, repo, logEntry{
				productID: product.ID,
				previous:  product.TotalQuantity,
				next:      *input.TotalQuantity,
				reason:    enums.InventoryReasonAdjust,
				userID:    input.ActorUserID,
			}); err != nil {
				return err
			}
		}

		if len(updates) > 0 {
			if err := repo.UpdateProduct(ctx, product.ID, updates); err != nil {
				return err
			}
		}

		updated, err = repo.FindProduct(ctx, id)
		return err
	})
	if err != nil {
		if isDuplicateName(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un producto con ese nombre")
		}
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al actualizar producto")
	}
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindProduct(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
			}
			return err
		}

		refs, err := repo.CountHoldingReferences(ctx, id)
		if err != nil {
			return err
		}
		if refs > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "No se puede eliminar el producto porque tiene reservas activas")
		}
		return repo.DeleteProduct(ctx, id)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return typed
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al eliminar el producto")
	}
	return nil
}

func (s *service) History(ctx context.Context, productID uuid.UUID) ([]models.InventoryLog, error) {
	if _, err := s.repo.FindProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Producto no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el historial")
	}
	logs, err := s.repo.ListLogs(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el historial")
	}
	return logs, nil
}

func (s *service) Damages(ctx context.Context) ([]DamagedItemView, error) {
	items, err := s.repo.ListDamagedItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener los daños")
	}

	views := make([]DamagedItemView, 0, len(items))
	for _, item := range items {
		view := DamagedItemView{
			EventID:         item.EventID,
			ProductID:       item.ProductID,
			ReturnedDamaged: item.ReturnedDamaged,
			DamageRestored:  item.DamageRestored,
			RestoredAt:      item.RestoredAt,
		}
		if item.Event != nil {
			view.EventName = item.Event.Name
			view.EventDate = item.Event.StartDate
			if item.Event.Client != nil {
				name := item.Event.Client.Name
				view.ClientName = &name
			}
		}
		if item.Product != nil {
			view.ProductName = item.Product.Name
			view.PriceReplacement = item.Product.PriceReplacement
			view.ReplacementCost = item.Product.PriceReplacement.Mul(decimal.NewFromInt(int64(item.ReturnedDamaged)))
		}
		views = append(views, view)
	}
	return views, nil
}

// Import applies validated rows from an uploaded workbook. A product whose
// name already exists is updated in place, otherwise it is created.
func (s *service) Import(ctx context.Context, products []excel.ImportedProduct, actorUserID *uuid.UUID) (*ImportSummary, error) {
	if len(products) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No se encontraron productos válidos en el archivo")
	}

	summary := &ImportSummary{}
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, row := range products {
			existing, err := repo.FindProductByName(ctx, row.Name)
			switch {
			case err == nil:
				updates := map[string]any{
					"total_quantity":    row.TotalQuantity,
					"price_unit":        row.PriceUnit,
					"price_replacement": row.PriceReplacement,
				}
				if row.Category != nil {
					updates["category"] = *row.Category
				}
				if row.Description != nil {
					updates["description"] = *row.Description
				}
				if err := repo.UpdateProduct(ctx, existing.ID, updates); err != nil {
					return err
				}
				if row.TotalQuantity != existing.TotalQuantity {
					if err := s.appendLog(ctx, repo, logEntry{
						productID: existing.ID,
						previous:  existing.TotalQuantity,
						next:      row.TotalQuantity,
						reason:    enums.InventoryReasonImport,
						userID:    actorUserID,
					}); err != nil {
						return err
					}
				}
				summary.Updated++

			case errors.Is(err, gorm.ErrRecordNotFound):
				product := &models.Product{
					Name:             row.Name,
					Category:         row.Category,
					Description:      row.Description,
					TotalQuantity:    row.TotalQuantity,
					PriceUnit:        row.PriceUnit,
					PriceReplacement: row.PriceReplacement,
				}
				if err := repo.CreateProduct(ctx, product); err != nil {
					return err
				}
				if err := s.appendLog(ctx, repo, logEntry{
					productID: product.ID,
					previous:  0,
					next:      product.TotalQuantity,
					reason:    enums.InventoryReasonImport,
					userID:    actorUserID,
				}); err != nil {
					return err
				}
				summary.Created++

			default:
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al importar el inventario")
	}
	return summary, nil
}

func (s *service) appendLog(ctx context.Context, repo Repository, entry logEntry) error {
	return repo.AppendLog(ctx, &models.InventoryLog{
		ProductID:        entry.productID,
		Change:           entry.next - entry.previous,
		PreviousQuantity: entry.previous,
		NewQuantity:      entry.next,
		Reason:           entry.reason,
		UserID:           entry.userID,
	})
}

func isDuplicateName(err error) bool {
	return pkgdb.IsUniqueViolation(err, "")
}
