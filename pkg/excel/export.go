// Package excel builds the spreadsheet exports and parses inventory imports.
package excel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// EventRow is one exported line, one per reserved item.
type EventRow struct {
	EventName    string
	ClientName   string
	StartDate    time.Time
	EndDate      time.Time
	Status       string
	ProductName  string
	Quantity     int
	ReturnedGood int
	Damaged      int
	PriceUnit    decimal.Decimal
}

// InventoryRow is one exported product with usage figures.
type InventoryRow struct {
	ProductName      string
	Category         string
	TotalQuantity    int
	InUse            int
	PriceUnit        decimal.Decimal
	PriceReplacement decimal.Decimal
}

// ClientRow is one exported client with reservation stats.
type ClientRow struct {
	Name         string
	Document     string
	Email        string
	Phone        string
	Department   string
	City         string
	Neighborhood string
	Address      string
	Notes        string
	EventCount   int
	LastBooking  *time.Time
}

// DamageRow is one exported damaged item.
type DamageRow struct {
	EventDate        time.Time
	ClientName       string
	EventName        string
	ProductName      string
	Damaged          int
	PriceReplacement decimal.Decimal
	DamageRestored   bool
	RestoredAt       *time.Time
}

// Filename builds the download name, e.g. "eventos_2025-06-14.xlsx".
func Filename(prefix string, now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", prefix, now.UTC().Format("2006-01-02"))
}

// BuildEventsWorkbook renders the events export, one row per reserved item.
func BuildEventsWorkbook(rows []EventRow) (*excelize.File, error) {
	headers := []string{
		"Evento", "Cliente", "Fecha Inicio", "Fecha Fin", "Estado",
		"Producto", "Cantidad", "Devuelto (Bien)", "Dañado",
		"Precio Unitario", "Valor Total",
	}
	widths := []float64{30, 25, 20, 20, 15, 30, 10, 15, 10, 15, 15}

	return buildWorkbook("Eventos", headers, widths, len(rows), func(i int) []any {
		row := rows[i]
		client := row.ClientName
		if client == "" {
			client = "Sin cliente"
		}
		total := row.PriceUnit.Mul(decimal.NewFromInt(int64(row.Quantity)))
		return []any{
			row.EventName,
			client,
			formatDate(row.StartDate),
			formatDate(row.EndDate),
			row.Status,
			row.ProductName,
			row.Quantity,
			row.ReturnedGood,
			row.Damaged,
			formatCurrency(row.PriceUnit),
			formatCurrency(total),
		}
	})
}

// BuildInventoryWorkbook renders the inventory export with availability figures.
func BuildInventoryWorkbook(rows []InventoryRow) (*excelize.File, error) {
	headers := []string{
		"Producto", "Categoría", "Cantidad Total", "En Uso", "Disponible",
		"Precio Unitario", "Precio Reemplazo", "Valor Total",
	}
	widths := []float64{30, 20, 15, 10, 12, 18, 18, 18}

	return buildWorkbook("Inventario", headers, widths, len(rows), func(i int) []any {
		row := rows[i]
		category := row.Category
		if category == "" {
			category = "Sin categoría"
		}
		total := row.PriceReplacement.Mul(decimal.NewFromInt(int64(row.TotalQuantity)))
		return []any{
			row.ProductName,
			category,
			row.TotalQuantity,
			row.InUse,
			row.TotalQuantity - row.InUse,
			formatCurrency(row.PriceUnit),
			formatCurrency(row.PriceReplacement),
			formatCurrency(total),
		}
	})
}

// BuildClientsWorkbook renders the clients export.
func BuildClientsWorkbook(rows []ClientRow) (*excelize.File, error) {
	headers := []string{
		"Nombre", "Documento", "Email", "Teléfono", "Departamento",
		"Ciudad", "Barrio", "Dirección", "Notas", "Número de Eventos",
		"Última Reserva",
	}
	widths := []float64{25, 15, 30, 15, 15, 15, 20, 30, 30, 18, 20}

	return buildWorkbook("Clientes", headers, widths, len(rows), func(i int) []any {
		row := rows[i]
		lastBooking := "Sin eventos"
		if row.LastBooking != nil {
			lastBooking = formatDate(*row.LastBooking)
		}
		return []any{
			row.Name,
			row.Document,
			row.Email,
			row.Phone,
			row.Department,
			row.City,
			row.Neighborhood,
			row.Address,
			row.Notes,
			row.EventCount,
			lastBooking,
		}
	})
}

// BuildDamagesWorkbook renders the damaged items export.
func BuildDamagesWorkbook(rows []DamageRow) (*excelize.File, error) {
	headers := []string{
		"Fecha Evento", "Cliente", "Evento", "Producto", "Cantidad Dañada",
		"Costo Reemplazo", "Estado", "Fecha Restauración",
	}
	widths := []float64{20, 25, 30, 30, 15, 18, 12, 20}

	return buildWorkbook("Productos Dañados", headers, widths, len(rows), func(i int) []any {
		row := rows[i]
		client := row.ClientName
		if client == "" {
			client = "Sin cliente"
		}
		status := "Pendiente"
		if row.DamageRestored {
			status = "Restaurado"
		}
		restoredAt := "N/A"
		if row.RestoredAt != nil {
			restoredAt = formatDate(*row.RestoredAt)
		}
		cost := row.PriceReplacement.Mul(decimal.NewFromInt(int64(row.Damaged)))
		return []any{
			formatDate(row.EventDate),
			client,
			row.EventName,
			row.ProductName,
			row.Damaged,
			formatCurrency(cost),
			status,
			restoredAt,
		}
	})
}

func buildWorkbook(sheet string, headers []string, widths []float64, rowCount int, rowAt func(int) []any) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("renaming sheet: %w", err)
	}

	headerCells := make([]any, len(headers))
	for i, h := range headers {
		headerCells[i] = h
	}
	if err := setRow(f, sheet, 1, headerCells); err != nil {
		return nil, err
	}

	for i := 0; i < rowCount; i++ {
		if err := setRow(f, sheet, i+2, rowAt(i)); err != nil {
			return nil, err
		}
	}

	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return nil, fmt.Errorf("column width: %w", err)
		}
	}

	return f, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("writing row %d: %w", rowNum, err)
	}
	return nil
}

func formatDate(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}

func formatCurrency(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}
