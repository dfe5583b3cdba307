package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	upcomingEventsLimit = 5
	topProductsLimit    = 5
	uncategorized       = "Sin categoría"
)

// Service computes the dashboard aggregates.
type Service interface {
	Stats(ctx context.Context, filter StatsFilter) (*Stats, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

// NewService builds the dashboard service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{
		repo: repo,
		now:  func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) Stats(ctx context.Context, filter StatsFilter) (*Stats, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	start, end := windowBounds(filter)

	events, err := s.repo.ListEventsBetween(ctx, start, end)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al calcular estadísticas")
	}
	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al calcular estadísticas")
	}
	active, err := s.repo.CountActiveReservations(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al calcular estadísticas")
	}
	pending, err := s.repo.CountPendingReturns(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al calcular estadísticas")
	}
	upcoming, err := s.repo.ListUpcomingEvents(ctx, s.now(), upcomingEventsLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al calcular estadísticas")
	}

	stats := &Stats{
		ActiveReservations: active,
		PendingReturns:     pending,
		StatusCounts:       map[enums.EventStatus]int{},
		TotalRevenue:       decimal.Zero,
		DamageCost:         decimal.Zero,
		InventoryValue:     decimal.Zero,
		UpcomingEvents:     upcoming,
	}

	for _, product := range products {
		stats.TotalInventory += product.TotalQuantity
		value := product.PriceUnit.Mul(decimal.NewFromInt(int64(product.TotalQuantity)))
		stats.InventoryValue = stats.InventoryValue.Add(value)
	}
	stats.CategoryStats = buildCategoryStats(products)

	topByProduct := map[uuid.UUID]*TopProduct{}
	monthly := map[int]*MonthlyStat{}

	for _, event := range events {
		stats.StatusCounts[event.Status]++

		month := int(event.StartDate.Month())
		entry, ok := monthly[month]
		if !ok {
			entry = &MonthlyStat{Month: month, Revenue: decimal.Zero}
			monthly[month] = entry
		}
		entry.Events++

		for _, item := range event.Items {
			if item.Product == nil {
				continue
			}
			if item.ReturnedDamaged > 0 {
				cost := item.Product.PriceReplacement.Mul(decimal.NewFromInt(int64(item.ReturnedDamaged)))
				stats.DamageCost = stats.DamageCost.Add(cost)
			}
			if event.Status == enums.EventStatusCancelado {
				continue
			}

			revenue := item.Product.PriceUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
			stats.TotalRevenue = stats.TotalRevenue.Add(revenue)
			entry.Revenue = entry.Revenue.Add(revenue)

			top, ok := topByProduct[item.ProductID]
			if !ok {
				top = &TopProduct{
					ProductID: item.ProductID.String(),
					Name:      item.Product.Name,
					Revenue:   decimal.Zero,
				}
				topByProduct[item.ProductID] = top
			}
			top.Quantity += item.Quantity
			top.Revenue = top.Revenue.Add(revenue)
		}
	}

	stats.TopProducts = rankTopProducts(topByProduct)
	stats.MonthlyStats = sortMonthly(monthly)
	return stats, nil
}

func validateFilter(filter StatsFilter) error {
	if filter.Month != nil {
		if *filter.Month < 1 || *filter.Month > 12 {
			return pkgerrors.New(pkgerrors.CodeValidation, "El mes debe estar entre 1 y 12")
		}
		if filter.Year == nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "El mes requiere un año")
		}
	}
	return nil
}

func windowBounds(filter StatsFilter) (*time.Time, *time.Time) {
	if filter.Year == nil {
		return nil, nil
	}
	if filter.Month == nil {
		start := time.Date(*filter.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
		end := start.AddDate(1, 0, 0)
		return &start, &end
	}
	start := time.Date(*filter.Year, time.Month(*filter.Month), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return &start, &end
}

func buildCategoryStats(products []models.Product) []CategoryStat {
	byCategory := map[string]*CategoryStat{}
	for _, product := range products {
		category := uncategorized
		if product.Category != nil && *product.Category != "" {
			category = *product.Category
		}
		entry, ok := byCategory[category]
		if !ok {
			entry = &CategoryStat{Category: category}
			byCategory[category] = entry
		}
		entry.Products++
		entry.TotalQuantity += product.TotalQuantity
	}

	out := make([]CategoryStat, 0, len(byCategory))
	for _, entry := range byCategory {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalQuantity != out[j].TotalQuantity {
			return out[i].TotalQuantity > out[j].TotalQuantity
		}
		return out[i].Category < out[j].Category
	})
	return out
}

func rankTopProducts(byProduct map[uuid.UUID]*TopProduct) []TopProduct {
	out := make([]TopProduct, 0, len(byProduct))
	for _, entry := range byProduct {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > topProductsLimit {
		out = out[:topProductsLimit]
	}
	return out
}

func sortMonthly(monthly map[int]*MonthlyStat) []MonthlyStat {
	out := make([]MonthlyStat, 0, len(monthly))
	for _, entry := range monthly {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
