package exports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:exports_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(
		&models.Product{},
		&models.Client{},
		&models.Event{},
		&models.EventItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, conn
}

func strPtr(v string) *string { return &v }

func sheetRows(t *testing.T, f *excelize.File, sheet string) [][]string {
	t.Helper()
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("reading sheet %s: %v", sheet, err)
	}
	return rows
}

func cellAt(t *testing.T, row []string, col int) string {
	t.Helper()
	if col >= len(row) {
		return ""
	}
	return row[col]
}

func TestEventsExportOneRowPerItem(t *testing.T) {
	svc, conn := newTestService(t)

	chair := &models.Product{Name: "Silla Tiffany", TotalQuantity: 100, PriceUnit: decimal.NewFromInt(25), PriceReplacement: decimal.NewFromInt(150)}
	table := &models.Product{Name: "Mesa Redonda", TotalQuantity: 20, PriceUnit: decimal.NewFromInt(80), PriceReplacement: decimal.NewFromInt(400)}
	if err := conn.Create(chair).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	if err := conn.Create(table).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	client := &models.Client{Name: "María García"}
	if err := conn.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	start := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	event := &models.Event{
		Name:      "Boda Jardín",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 2),
		Status:    enums.EventStatusReservado,
		ClientID:  &client.ID,
		Items: []models.EventItem{
			{ProductID: chair.ID, Quantity: 40},
			{ProductID: table.ID, Quantity: 4},
		},
	}
	if err := conn.Create(event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	file, filename, err := svc.Events(context.Background())
	if err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	if filename != "eventos_"+time.Now().UTC().Format("2006-01-02")+".xlsx" {
		t.Fatalf("unexpected filename %q", filename)
	}

	rows := sheetRows(t, file, "Eventos")
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 item rows, got %d", len(rows))
	}
	for _, row := range rows[1:] {
		if cellAt(t, row, 0) != "Boda Jardín" {
			t.Fatalf("unexpected event name in row %v", row)
		}
		if cellAt(t, row, 1) != "María García" {
			t.Fatalf("unexpected client name in row %v", row)
		}
		if cellAt(t, row, 4) != "Reservado" {
			t.Fatalf("expected status label Reservado, got %v", row)
		}
	}
}

func TestEventsExportWithoutClient(t *testing.T) {
	svc, conn := newTestService(t)

	chair := &models.Product{Name: "Silla Tiffany", TotalQuantity: 10, PriceUnit: decimal.NewFromInt(25), PriceReplacement: decimal.NewFromInt(150)}
	if err := conn.Create(chair).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	start := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	event := &models.Event{
		Name:      "Evento Interno",
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 1),
		Status:    enums.EventStatusSinConfirmar,
		Items:     []models.EventItem{{ProductID: chair.ID, Quantity: 5}},
	}
	if err := conn.Create(event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	file, _, err := svc.Events(context.Background())
	if err != nil {
		t.Fatalf("Events returned error: %v", err)
	}
	rows := sheetRows(t, file, "Eventos")
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	if cellAt(t, rows[1], 1) != "Sin cliente" {
		t.Fatalf("expected Sin cliente placeholder, got %v", rows[1])
	}
}

func TestInventoryExportComputesAvailability(t *testing.T) {
	svc, conn := newTestService(t)

	chair := &models.Product{Name: "Silla Tiffany", Category: strPtr("Mobiliario"), TotalQuantity: 100, PriceUnit: decimal.NewFromInt(25), PriceReplacement: decimal.NewFromInt(150)}
	if err := conn.Create(chair).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}

	start := time.Date(2025, 7, 10, 0, 0, 0, 0, time.UTC)
	holding := &models.Event{
		Name: "Reservado", StartDate: start, EndDate: start.AddDate(0, 0, 1),
		Status: enums.EventStatusReservado,
		Items:  []models.EventItem{{ProductID: chair.ID, Quantity: 30}},
	}
	completed := &models.Event{
		Name: "Completado", StartDate: start, EndDate: start.AddDate(0, 0, 1),
		Status: enums.EventStatusCompletado,
		Items:  []models.EventItem{{ProductID: chair.ID, Quantity: 50}},
	}
	if err := conn.Create(holding).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	if err := conn.Create(completed).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	file, filename, err := svc.Inventory(context.Background())
	if err != nil {
		t.Fatalf("Inventory returned error: %v", err)
	}
	if filename == "" {
		t.Fatal("expected a filename")
	}

	rows := sheetRows(t, file, "Inventario")
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	row := rows[1]
	if cellAt(t, row, 2) != "100" {
		t.Fatalf("expected total 100, got %v", row)
	}
	// Only the holding event counts toward in-use.
	if cellAt(t, row, 3) != "30" {
		t.Fatalf("expected in use 30, got %v", row)
	}
	if cellAt(t, row, 4) != "70" {
		t.Fatalf("expected available 70, got %v", row)
	}
}

func TestClientsExportMasksForViewer(t *testing.T) {
	svc, conn := newTestService(t)

	client := &models.Client{
		Name:     "María García",
		Document: strPtr("1234567890"),
		Email:    strPtr("maria@example.com"),
		Phone:    strPtr("3001234567"),
		Address:  strPtr("Calle 45 #12-34 Apto 502"),
	}
	if err := conn.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}

	file, _, err := svc.Clients(context.Background(), enums.UserRoleViewer)
	if err != nil {
		t.Fatalf("Clients returned error: %v", err)
	}
	rows := sheetRows(t, file, "Clientes")
	if len(rows) != 2 {
		t.Fatalf("expected header plus 1 row, got %d", len(rows))
	}
	row := rows[1]
	if cellAt(t, row, 1) != "12******90" {
		t.Fatalf("expected masked document, got %v", row)
	}
	if cellAt(t, row, 2) != "ma***@example.com" {
		t.Fatalf("expected masked email, got %v", row)
	}
	if cellAt(t, row, 3) != "3*******67" {
		t.Fatalf("expected masked phone, got %v", row)
	}
	if cellAt(t, row, 7) != "Calle 45 #..." {
		t.Fatalf("expected truncated address, got %v", row)
	}
	if cellAt(t, row, 10) != "Sin eventos" {
		t.Fatalf("expected Sin eventos placeholder, got %v", row)
	}
}

func TestClientsExportFullForAdmin(t *testing.T) {
	svc, conn := newTestService(t)

	client := &models.Client{
		Name:  "María García",
		Phone: strPtr("3001234567"),
	}
	if err := conn.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	start := time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC)
	later := time.Date(2025, 8, 2, 0, 0, 0, 0, time.UTC)
	for _, date := range []time.Time{start, later} {
		event := &models.Event{
			Name: "Evento", StartDate: date, EndDate: date.AddDate(0, 0, 1),
			Status: enums.EventStatusCompletado, ClientID: &client.ID,
		}
		if err := conn.Create(event).Error; err != nil {
			t.Fatalf("create event: %v", err)
		}
	}

	file, _, err := svc.Clients(context.Background(), enums.UserRoleAdmin)
	if err != nil {
		t.Fatalf("Clients returned error: %v", err)
	}
	rows := sheetRows(t, file, "Clientes")
	row := rows[1]
	if cellAt(t, row, 3) != "3001234567" {
		t.Fatalf("expected full phone for admin, got %v", row)
	}
	if cellAt(t, row, 9) != "2" {
		t.Fatalf("expected event count 2, got %v", row)
	}
	if cellAt(t, row, 10) != "02/08/2025 00:00" {
		t.Fatalf("expected last booking from latest event, got %v", row)
	}
}

func TestDamagesExport(t *testing.T) {
	svc, conn := newTestService(t)

	glass := &models.Product{Name: "Copa Cristal", TotalQuantity: 200, PriceUnit: decimal.NewFromInt(3), PriceReplacement: decimal.NewFromInt(150)}
	if err := conn.Create(glass).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	client := &models.Client{Name: "María García"}
	if err := conn.Create(client).Error; err != nil {
		t.Fatalf("create client: %v", err)
	}
	start := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)
	event := &models.Event{
		Name: "Gala", StartDate: start, EndDate: start.AddDate(0, 0, 1),
		Status: enums.EventStatusCompletado, ClientID: &client.ID,
		Items: []models.EventItem{
			{ProductID: glass.ID, Quantity: 30, ReturnedGood: 28, ReturnedDamaged: 2},
		},
	}
	if err := conn.Create(event).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}
	intact := &models.Event{
		Name: "Sin daños", StartDate: start, EndDate: start.AddDate(0, 0, 1),
		Status: enums.EventStatusCompletado,
		Items: []models.EventItem{
			{ProductID: glass.ID, Quantity: 10, ReturnedGood: 10},
		},
	}
	if err := conn.Create(intact).Error; err != nil {
		t.Fatalf("create event: %v", err)
	}

	file, _, err := svc.Damages(context.Background())
	if err != nil {
		t.Fatalf("Damages returned error: %v", err)
	}
	rows := sheetRows(t, file, "Productos Dañados")
	if len(rows) != 2 {
		t.Fatalf("expected only the damaged item exported, got %d rows", len(rows))
	}
	row := rows[1]
	if cellAt(t, row, 1) != "María García" || cellAt(t, row, 2) != "Gala" {
		t.Fatalf("unexpected event columns %v", row)
	}
	if cellAt(t, row, 4) != "2" {
		t.Fatalf("expected 2 damaged, got %v", row)
	}
	// 2 damaged at a replacement price of 150
	if cellAt(t, row, 5) != "$300.00" {
		t.Fatalf("expected replacement cost 300, got %v", row)
	}
	if cellAt(t, row, 6) != "Pendiente" {
		t.Fatalf("expected pending status, got %v", row)
	}
}
