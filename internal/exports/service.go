package exports

import (
	"context"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/excel"
	"github.com/casa80eventos/casa80-backend/pkg/masking"
	"github.com/xuri/excelize/v2"
)

// Service produces the downloadable Excel workbooks. Each method returns the
// workbook together with its suggested filename.
type Service interface {
	Events(ctx context.Context) (*excelize.File, string, error)
	Inventory(ctx context.Context) (*excelize.File, string, error)
	Clients(ctx context.Context, role enums.UserRole) (*excelize.File, string, error)
	Damages(ctx context.Context) (*excelize.File, string, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the exports service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "exports service requires a repository")
	}
	return &service{repo: repo, now: time.Now}, nil
}

func (s *service) Events(ctx context.Context) (*excelize.File, string, error) {
	events, err := s.repo.ListEvents(ctx)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al exportar los eventos")
	}

	var rows []excel.EventRow
	for _, event := range events {
		clientName := ""
		if event.Client != nil {
			clientName = event.Client.Name
		}
		for _, item := range event.Items {
			row := excel.EventRow{
				EventName:    event.Name,
				ClientName:   clientName,
				StartDate:    event.StartDate,
				EndDate:      event.EndDate,
				Status:       event.Status.Label(),
				Quantity:     item.Quantity,
				ReturnedGood: item.ReturnedGood,
				Damaged:      item.ReturnedDamaged,
			}
			if item.Product != nil {
				row.ProductName = item.Product.Name
				row.PriceUnit = item.Product.PriceUnit
			}
			rows = append(rows, row)
		}
	}

	file, err := excel.BuildEventsWorkbook(rows)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al exportar los eventos")
	}
	return file, excel.Filename("eventos", s.now()), nil
}

func (s *service) Inventory(ctx context.Context) (*excelize.File, string, error) {
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al exportar el inventario")
	}
	inUse, err := s.repo.HoldingQuantities(ctx)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al exportar el inventario")
	}

	rows := make([]excel.InventoryRow, 0, len(products))
	for _, product := range products {
		category := ""
		if product.Category != nil {
			category = *product.Category
		}
		rows = append(rows, excel.InventoryRow{
			ProductName:      product.Name,
			Category:         category,
			TotalQuantity:    product.TotalQuantity,
			InUse:            inUse[product.ID],
			PriceUnit:        product.PriceUnit,
			PriceReplacement: product.PriceReplacement,
		})
	}

	file, err := excel.BuildInventoryWorkbook(rows)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al exportar el inventario")
	}
	return file, excel.Filename("inventario", s.now()), nil
}

func (s *service) Clients(ctx context.Context, role enums.UserRole) (*excelize.File, string, error) {
	clients, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al exportar los clientes")
	}

	rows := make([]excel.ClientRow, 0, len(clients))
	for _, client := range clients {
		var lastBooking *time.Time
		for _, event := range client.Events {
			if lastBooking == nil || event.StartDate.After(*lastBooking) {
				start := event.StartDate
				lastBooking = &start
			}
		}
		rows = append(rows, excel.ClientRow{
			Name:         client.Name,
			Document:     masking.Document(client.Document, role),
			Email:        masking.Email(client.Email, role),
			Phone:        masking.Phone(client.Phone, role),
			Department:   deref(client.Department),
			City:         deref(client.City),
			Neighborhood: deref(client.Neighborhood),
			Address:      masking.Address(client.Address, role),
			Notes:        deref(client.Notes),
			EventCount:   len(client.Events),
			LastBooking:  lastBooking,
		})
	}

	file, err := excel.BuildClientsWorkbook(rows)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al exportar los clientes")
	}
	return file, excel.Filename("clientes", s.now()), nil
}

func (s *service) Damages(ctx context.Context) (*excelize.File, string, error) {
	items, err := s.repo.ListDamagedItems(ctx)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al exportar los productos dañados")
	}

	rows := make([]excel.DamageRow, 0, len(items))
	for _, item := range items {
		row := excel.DamageRow{
			Damaged:        item.ReturnedDamaged,
			DamageRestored: item.DamageRestored,
			RestoredAt:     item.RestoredAt,
		}
		if item.Event != nil {
			row.EventDate = item.Event.StartDate
			row.EventName = item.Event.Name
			if item.Event.Client != nil {
				row.ClientName = item.Event.Client.Name
			}
		}
		if item.Product != nil {
			row.ProductName = item.Product.Name
			row.PriceReplacement = item.Product.PriceReplacement
		}
		rows = append(rows, row)
	}

	file, err := excel.BuildDamagesWorkbook(rows)
	if err != nil {
		return nil, "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al exportar los productos dañados")
	}
	return file, excel.Filename("productos_danados", s.now()), nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
