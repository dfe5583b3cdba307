package dashboard

import (
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

// StatsFilter restricts the aggregation window. A nil Month covers the whole
// year; a nil Year covers all time.
type StatsFilter struct {
	Year  *int
	Month *int
}

// TopProduct is one entry of the most-reserved ranking.
type TopProduct struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Revenue   decimal.Decimal `json:"revenue"`
}

// CategoryStat aggregates inventory by category.
type CategoryStat struct {
	Category      string `json:"category"`
	Products      int    `json:"products"`
	TotalQuantity int    `json:"total_quantity"`
}

// MonthlyStat is one month of booking activity inside the window.
type MonthlyStat struct {
	Month   int             `json:"month"`
	Events  int             `json:"events"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Stats is the dashboard payload.
type Stats struct {
	ActiveReservations int64                     `json:"active_reservations"`
	TotalInventory     int                       `json:"total_inventory"`
	InventoryValue     decimal.Decimal           `json:"inventory_value"`
	PendingReturns     int64                     `json:"pending_returns"`
	StatusCounts       map[enums.EventStatus]int `json:"status_counts"`
	TotalRevenue       decimal.Decimal           `json:"total_revenue"`
	DamageCost         decimal.Decimal           `json:"damage_cost"`
	UpcomingEvents     []models.Event            `json:"upcoming_events"`
	TopProducts        []TopProduct              `json:"top_products"`
	CategoryStats      []CategoryStat            `json:"category_stats"`
	MonthlyStats       []MonthlyStat             `json:"monthly_stats"`
}
