package mail

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/config"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
	gomail "gopkg.in/gomail.v2"
)

type fakeSender struct {
	calls    int
	failures int
	messages []*gomail.Message
}

func (f *fakeSender) DialAndSend(messages ...*gomail.Message) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("smtp unavailable")
	}
	f.messages = append(f.messages, messages...)
	return nil
}

func testMailer(send sender) *Mailer {
	logg := logger.New(logger.Options{ServiceName: "mail-test", Output: io.Discard})
	m := NewMailer(config.SMTPConfig{}, config.CompanyConfig{
		Name:    "Casa80 Eventos",
		Address: "Calle 72 58 - 45, Barranquilla",
		Phone:   "123456789",
		Email:   "contacto@casa80.com",
	}, logg)
	m.send = send
	return m
}

func sampleEmail() ReservationEmail {
	return ReservationEmail{
		To:         "cliente@ejemplo.com",
		ClientName: "María Pérez",
		EventID:    "6f2c1f9e",
		EventName:  "Boda Jardín",
		StartDate:  time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		Items: []ReservationItem{
			{ProductName: "Silla Tiffany", Quantity: 120},
			{ProductName: "Mesa Redonda", Quantity: 12},
		},
	}
}

func TestSendReservationConfirmation(t *testing.T) {
	send := &fakeSender{}
	m := testMailer(send)

	if err := m.SendReservationConfirmation(context.Background(), sampleEmail()); err != nil {
		t.Fatalf("SendReservationConfirmation returned error: %v", err)
	}
	if len(send.messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(send.messages))
	}
}

func TestSendSkipsInvalidRecipient(t *testing.T) {
	send := &fakeSender{}
	m := testMailer(send)

	email := sampleEmail()
	email.To = "sin-arroba"
	if err := m.SendReservationConfirmation(context.Background(), email); err != nil {
		t.Fatalf("invalid recipient should be skipped, got error: %v", err)
	}
	if send.calls != 0 {
		t.Fatal("expected no send attempts for invalid recipient")
	}
}

func TestSendRetriesTransientFailure(t *testing.T) {
	send := &fakeSender{failures: 1}
	m := testMailer(send)

	if err := m.SendReservationConfirmation(context.Background(), sampleEmail()); err != nil {
		t.Fatalf("expected retry to succeed, got error: %v", err)
	}
	if send.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", send.calls)
	}
}

func TestRenderBodyIncludesEventDetails(t *testing.T) {
	m := testMailer(&fakeSender{})

	body, err := m.renderBody(sampleEmail())
	if err != nil {
		t.Fatalf("renderBody returned error: %v", err)
	}
	for _, want := range []string{
		"Confirmación de Reserva",
		"Boda Jardín",
		"Silla Tiffany",
		"14/06/2025",
		"Calle 72 58 - 45, Barranquilla",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("rendered body missing %q", want)
		}
	}
}

func TestDisabledMailerIsNoOp(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "mail-test", Output: io.Discard})
	m := NewMailer(config.SMTPConfig{}, config.CompanyConfig{}, logg)

	if err := m.SendReservationConfirmation(context.Background(), sampleEmail()); err != nil {
		t.Fatalf("disabled mailer should be a no-op, got error: %v", err)
	}
}
