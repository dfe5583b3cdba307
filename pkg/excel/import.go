package excel

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/multierr"
)

// ImportedProduct is one validated row of an inventory import file.
type ImportedProduct struct {
	Name             string
	Category         *string
	Description      *string
	TotalQuantity    int
	PriceUnit        decimal.Decimal
	PriceReplacement decimal.Decimal
}

// Header synonyms accepted per field. Matching is accent and case sensitive
// on purpose so files produced by the template always round-trip.
var importColumns = map[string][]string{
	"name":             {"Nombre del Producto", "Producto", "Nombre"},
	"category":         {"Categoría", "Categoria"},
	"description":      {"Descripción", "Descripcion"},
	"totalQuantity":    {"Cantidad Total", "Cantidad"},
	"priceUnit":        {"Precio Unitario"},
	"priceReplacement": {"Precio de Daño", "Precio Reemplazo", "Precio de Reemplazo"},
}

// ParseInventory reads an uploaded workbook and returns the validated rows.
// Row-level problems are aggregated into a single error mentioning each
// offending row by number.
func ParseInventory(r io.Reader) ([]ImportedProduct, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("Error al leer el archivo. Asegúrate de que sea un archivo Excel válido.")
	}
	defer f.Close()

	sheet := pickSheet(f.GetSheetList())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("Error al leer el archivo. Asegúrate de que sea un archivo Excel válido.")
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("No se encontraron productos válidos en el archivo")
	}

	columns := mapColumns(rows[0])
	if _, ok := columns["name"]; !ok {
		return nil, fmt.Errorf("No se encontró la columna \"Nombre del Producto\"")
	}

	var products []ImportedProduct
	var rowErrs error

	for i, row := range rows[1:] {
		rowNum := i + 2
		if isEmptyRow(row) {
			continue
		}

		name := strings.TrimSpace(fieldCell(row, columns, "name"))
		if name == "" {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("Fila %d: Falta el nombre del producto", rowNum))
			continue
		}

		quantity, err := strconv.Atoi(strings.TrimSpace(fieldCell(row, columns, "totalQuantity")))
		if err != nil || quantity <= 0 {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("Fila %d: Cantidad Total debe ser un número mayor a 0", rowNum))
			continue
		}

		priceUnit, err := parsePrice(fieldCell(row, columns, "priceUnit"))
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("Fila %d: Precio Unitario debe ser un número válido", rowNum))
			continue
		}

		priceReplacement, err := parsePrice(fieldCell(row, columns, "priceReplacement"))
		if err != nil {
			rowErrs = multierr.Append(rowErrs, fmt.Errorf("Fila %d: Precio de Daño debe ser un número válido", rowNum))
			continue
		}

		products = append(products, ImportedProduct{
			Name:             name,
			Category:         optionalCell(row, columns, "category"),
			Description:      optionalCell(row, columns, "description"),
			TotalQuantity:    quantity,
			PriceUnit:        priceUnit,
			PriceReplacement: priceReplacement,
		})
	}

	if rowErrs != nil {
		return nil, rowErrs
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("No se encontraron productos válidos en el archivo")
	}
	return products, nil
}

func pickSheet(sheets []string) string {
	for _, name := range sheets {
		if strings.Contains(name, "Plantilla") || strings.Contains(name, "Inventario") {
			return name
		}
	}
	if len(sheets) > 0 {
		return sheets[0]
	}
	return "Sheet1"
}

func mapColumns(header []string) map[string]int {
	columns := map[string]int{}
	for field, names := range importColumns {
		for idx, cell := range header {
			if matchesHeader(cell, names) {
				columns[field] = idx
				break
			}
		}
	}
	return columns
}

func matchesHeader(cell string, names []string) bool {
	trimmed := strings.TrimSpace(cell)
	for _, name := range names {
		if strings.EqualFold(trimmed, name) {
			return true
		}
	}
	return false
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func fieldCell(row []string, columns map[string]int, field string) string {
	idx, ok := columns[field]
	if !ok {
		return ""
	}
	return cellAt(row, idx)
}

func optionalCell(row []string, columns map[string]int, field string) *string {
	idx, ok := columns[field]
	if !ok {
		return nil
	}
	value := strings.TrimSpace(cellAt(row, idx))
	if value == "" {
		return nil
	}
	return &value
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func parsePrice(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "$"))
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, err
	}
	if value.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative price")
	}
	return value, nil
}
