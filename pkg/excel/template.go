package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Plantilla Inventario"

// BuildInventoryTemplate renders the fillable import template with example
// rows plus an instructions sheet.
func BuildInventoryTemplate() (*excelize.File, error) {
	headers := []string{
		"Nombre del Producto", "Categoría", "Descripción",
		"Cantidad Total", "Precio Unitario", "Precio de Daño",
	}
	widths := []float64{35, 20, 40, 15, 18, 18}

	examples := [][]any{
		{"Silla Tiffany Blanca", "Mobiliario", "Silla elegante para eventos formales", 50, 25.00, 150.00},
		{"Mesa Rectangular 8 personas", "Mobiliario", "Mesa plegable de madera, 2m x 0.8m", 15, 50.00, 800.00},
		{"", "", "", "", "", ""},
	}

	f, err := buildWorkbook(templateSheet, headers, widths, len(examples), func(i int) []any {
		return examples[i]
	})
	if err != nil {
		return nil, err
	}

	if err := addInstructionsSheet(f); err != nil {
		return nil, err
	}
	return f, nil
}

func addInstructionsSheet(f *excelize.File) error {
	const sheet = "Instrucciones"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("creating instructions sheet: %w", err)
	}

	lines := []string{
		"INSTRUCCIONES PARA IMPORTAR INVENTARIO",
		"",
		"1. Llena la hoja \"Plantilla Inventario\" con tus productos",
		"2. NO modifiques los nombres de las columnas",
		"3. Campos OBLIGATORIOS:",
		"   - Nombre del Producto",
		"   - Cantidad Total (número entero mayor a 0)",
		"   - Precio Unitario (número decimal)",
		"   - Precio de Daño (número decimal)",
		"",
		"4. Campos OPCIONALES:",
		"   - Categoría",
		"   - Descripción",
		"",
		"5. Elimina las filas de ejemplo antes de importar",
		"6. Guarda el archivo y súbelo en la opción \"Importar\"",
		"",
		"NOTA: Si un producto ya existe (mismo nombre), se actualizará",
	}

	for i, line := range lines {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetCellStr(sheet, cell, line); err != nil {
			return fmt.Errorf("writing instructions: %w", err)
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 60); err != nil {
		return fmt.Errorf("column width: %w", err)
	}
	return nil
}
