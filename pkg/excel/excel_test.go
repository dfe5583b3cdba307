package excel

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

func TestFilename(t *testing.T) {
	now := time.Date(2025, 6, 14, 18, 30, 0, 0, time.UTC)
	if got := Filename("inventario", now); got != "inventario_2025-06-14.xlsx" {
		t.Fatalf("unexpected filename %q", got)
	}
}

func TestBuildInventoryWorkbook(t *testing.T) {
	f, err := BuildInventoryWorkbook([]InventoryRow{
		{
			ProductName:      "Silla Tiffany",
			Category:         "Mobiliario",
			TotalQuantity:    50,
			InUse:            12,
			PriceUnit:        decimal.NewFromInt(25),
			PriceReplacement: decimal.NewFromInt(150),
		},
		{
			ProductName:      "Carpa 6x6",
			TotalQuantity:    3,
			PriceUnit:        decimal.NewFromInt(500),
			PriceReplacement: decimal.NewFromInt(4000),
		},
	})
	if err != nil {
		t.Fatalf("BuildInventoryWorkbook returned error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Inventario")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "Producto" || rows[0][4] != "Disponible" {
		t.Fatalf("unexpected headers %v", rows[0])
	}
	if rows[1][4] != "38" {
		t.Fatalf("expected available 38, got %q", rows[1][4])
	}
	if rows[2][1] != "Sin categoría" {
		t.Fatalf("expected category fallback, got %q", rows[2][1])
	}
	if rows[1][7] != "$7500.00" {
		t.Fatalf("unexpected total value %q", rows[1][7])
	}
}

func TestBuildEventsWorkbook(t *testing.T) {
	f, err := BuildEventsWorkbook([]EventRow{
		{
			EventName:   "Boda Jardín",
			StartDate:   time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC),
			EndDate:     time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC),
			Status:      "RESERVADO",
			ProductName: "Silla Tiffany",
			Quantity:    120,
			PriceUnit:   decimal.NewFromInt(25),
		},
	})
	if err != nil {
		t.Fatalf("BuildEventsWorkbook returned error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Eventos")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if rows[1][1] != "Sin cliente" {
		t.Fatalf("expected client fallback, got %q", rows[1][1])
	}
	if rows[1][2] != "14/06/2025 10:00" {
		t.Fatalf("unexpected start date %q", rows[1][2])
	}
	if rows[1][10] != "$3000.00" {
		t.Fatalf("unexpected total %q", rows[1][10])
	}
}

func TestBuildDamagesWorkbook(t *testing.T) {
	restored := time.Date(2025, 7, 1, 9, 0, 0, 0, time.UTC)
	f, err := BuildDamagesWorkbook([]DamageRow{
		{
			EventDate:        time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
			EventName:        "Boda Jardín",
			ProductName:      "Copa Cristal",
			Damaged:          2,
			PriceReplacement: decimal.NewFromInt(150),
			DamageRestored:   true,
			RestoredAt:       &restored,
		},
		{
			EventDate:        time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC),
			ClientName:       "María Pérez",
			EventName:        "Quinceañera",
			ProductName:      "Mantel Blanco",
			Damaged:          1,
			PriceReplacement: decimal.NewFromInt(80),
		},
	})
	if err != nil {
		t.Fatalf("BuildDamagesWorkbook returned error: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Productos Dañados")
	if err != nil {
		t.Fatalf("GetRows returned error: %v", err)
	}
	if rows[1][5] != "$300.00" {
		t.Fatalf("unexpected replacement cost %q", rows[1][5])
	}
	if rows[1][6] != "Restaurado" {
		t.Fatalf("unexpected status %q", rows[1][6])
	}
	if rows[2][6] != "Pendiente" || rows[2][7] != "N/A" {
		t.Fatalf("unexpected pending row %v", rows[2])
	}
}

func TestTemplateRoundTrip(t *testing.T) {
	f, err := BuildInventoryTemplate()
	if err != nil {
		t.Fatalf("BuildInventoryTemplate returned error: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing template: %v", err)
	}

	// The trailing blank example row is skipped on import.
	products, err := ParseInventory(&buf)
	if err != nil {
		t.Fatalf("ParseInventory returned error: %v", err)
	}
	if len(products) != 2 {
		t.Fatalf("expected 2 example products, got %d", len(products))
	}
	if products[0].Name != "Silla Tiffany Blanca" {
		t.Fatalf("unexpected product %q", products[0].Name)
	}
	if products[0].TotalQuantity != 50 {
		t.Fatalf("unexpected quantity %d", products[0].TotalQuantity)
	}
	if !products[0].PriceReplacement.Equal(decimal.NewFromInt(150)) {
		t.Fatalf("unexpected replacement price %s", products[0].PriceReplacement)
	}
	if products[1].Category == nil || *products[1].Category != "Mobiliario" {
		t.Fatal("expected category to survive the round trip")
	}
}

func TestParseInventoryRowErrors(t *testing.T) {
	f, err := buildWorkbook(templateSheet,
		[]string{"Nombre del Producto", "Cantidad Total", "Precio Unitario", "Precio de Daño"},
		[]float64{35, 15, 18, 18},
		3,
		func(i int) []any {
			switch i {
			case 0:
				return []any{"", 10, 5.0, 20.0}
			case 1:
				return []any{"Mesa Redonda", "muchas", 5.0, 20.0}
			default:
				return []any{"Silla Rimax", 10, 5.0, -3.0}
			}
		})
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	_, err = ParseInventory(&buf)
	if err == nil {
		t.Fatal("expected row errors")
	}

	errs := multierr.Errors(err)
	if len(errs) != 3 {
		t.Fatalf("expected 3 row errors, got %d: %v", len(errs), errs)
	}
	for _, want := range []string{
		"Fila 2: Falta el nombre del producto",
		"Fila 3: Cantidad Total debe ser un número mayor a 0",
		"Fila 4: Precio de Daño debe ser un número válido",
	} {
		found := false
		for _, e := range errs {
			if e.Error() == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing error %q in %v", want, errs)
		}
	}
}

func TestParseInventoryHeaderSynonyms(t *testing.T) {
	f, err := buildWorkbook("Hoja1",
		[]string{"Producto", "Cantidad", "Precio Unitario", "Precio Reemplazo"},
		[]float64{35, 15, 18, 18},
		1,
		func(int) []any { return []any{"Vajilla x12", 8, 30.0, 120.0} })
	if err != nil {
		t.Fatalf("building fixture: %v", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	products, err := ParseInventory(&buf)
	if err != nil {
		t.Fatalf("ParseInventory returned error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Vajilla x12" {
		t.Fatalf("unexpected products %+v", products)
	}
}

func TestParseInventoryRejectsGarbage(t *testing.T) {
	_, err := ParseInventory(strings.NewReader("this is not a spreadsheet"))
	if err == nil {
		t.Fatal("expected error for invalid file")
	}
	if !strings.Contains(err.Error(), "archivo Excel válido") {
		t.Fatalf("unexpected error message %q", err.Error())
	}
}
