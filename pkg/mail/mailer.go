// Package mail sends the reservation confirmation email to clients.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/casa80eventos/casa80-backend/pkg/config"
	"github.com/casa80eventos/casa80-backend/pkg/logger"
	"github.com/sethvargo/go-retry"
	gomail "gopkg.in/gomail.v2"
)

const (
	sendAttempts  = 3
	retryBaseWait = 2 * time.Second
)

// ReservationItem is one line of the reserved items table.
type ReservationItem struct {
	ProductName string
	Quantity    int
}

// ReservationEmail carries everything the confirmation template needs.
type ReservationEmail struct {
	To         string
	ClientName string
	EventID    string
	EventName  string
	StartDate  time.Time
	EndDate    time.Time
	Items      []ReservationItem
}

type sender interface {
	DialAndSend(messages ...*gomail.Message) error
}

// Mailer renders and sends transactional mail over SMTP.
type Mailer struct {
	cfg     config.SMTPConfig
	company config.CompanyConfig
	logg    *logger.Logger
	send    sender
	tmpl    *template.Template
}

// NewMailer builds a Mailer from SMTP config. When SMTP is not configured the
// mailer is returned disabled and SendReservationConfirmation becomes a no-op.
func NewMailer(cfg config.SMTPConfig, company config.CompanyConfig, logg *logger.Logger) *Mailer {
	m := &Mailer{
		cfg:     cfg,
		company: company,
		logg:    logg,
		tmpl:    template.Must(template.New("reservation").Parse(reservationTemplate)),
	}
	if cfg.Enabled() {
		m.send = gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	}
	return m
}

// SendReservationConfirmation renders the Spanish confirmation email and sends
// it with retries. Invalid recipients are skipped rather than treated as errors.
func (m *Mailer) SendReservationConfirmation(ctx context.Context, email ReservationEmail) error {
	if m.send == nil {
		m.logg.Debug(ctx, "smtp not configured, skipping reservation email")
		return nil
	}
	if !strings.Contains(email.To, "@") {
		m.logg.Warn(ctx, fmt.Sprintf("skipping reservation email: invalid recipient %q", email.To))
		return nil
	}

	body, err := m.renderBody(email)
	if err != nil {
		return fmt.Errorf("rendering reservation email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", fmt.Sprintf("Confirmación Reserva: %s", email.EventName))
	msg.SetBody("text/html", body)

	backoff := retry.WithMaxRetries(sendAttempts-1, retry.NewExponential(retryBaseWait))
	err = retry.Do(ctx, backoff, func(ctx context.Context) error {
		if sendErr := m.send.DialAndSend(msg); sendErr != nil {
			return retry.RetryableError(sendErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("sending reservation email: %w", err)
	}

	m.logg.Info(m.logg.WithField(ctx, "recipient", email.To), "reservation email sent")
	return nil
}

// SendReservationConfirmationAsync fires the confirmation in a goroutine so
// booking responses never wait on SMTP.
func (m *Mailer) SendReservationConfirmationAsync(ctx context.Context, email ReservationEmail) {
	if m.send == nil {
		return
	}
	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), time.Minute)
		defer cancel()
		if err := m.SendReservationConfirmation(sendCtx, email); err != nil {
			m.logg.Error(sendCtx, "reservation email failed", err)
		}
	}()
}

func (m *Mailer) renderBody(email ReservationEmail) (string, error) {
	data := struct {
		ReservationEmail
		StartDateFmt string
		EndDateFmt   string
		Company      config.CompanyConfig
	}{
		ReservationEmail: email,
		StartDateFmt:     email.StartDate.Format("02/01/2006"),
		EndDateFmt:       email.EndDate.Format("02/01/2006"),
		Company:          m.company,
	}

	var buf bytes.Buffer
	if err := m.tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const reservationTemplate = `
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; color: #333;">
    <div style="background-color: #000; color: #fff; padding: 20px; text-align: center;">
        <h1>{{.Company.Name}}</h1>
        <p>Confirmación de Reserva</p>
    </div>

    <div style="padding: 20px;">
        <p>Hola <strong>{{.ClientName}}</strong>,</p>
        <p>Gracias por tu reserva. Aquí están los detalles de tu evento en Casa80.</p>

        <div style="background-color: #f9f9f9; padding: 15px; border-radius: 5px; margin: 20px 0;">
            <p><strong>Evento:</strong> {{.EventName}}</p>
            <p><strong>ID Reserva:</strong> {{.EventID}}</p>
            <p><strong>Desde:</strong> {{.StartDateFmt}}</p>
            <p><strong>Hasta:</strong> {{.EndDateFmt}}</p>
        </div>

        <h3>Artículos Reservados</h3>
        <table style="width: 100%; border-collapse: collapse; margin-bottom: 20px;">
            <thead>
                <tr style="border-bottom: 2px solid #ddd; text-align: left;">
                    <th style="padding: 10px;">Producto</th>
                    <th style="padding: 10px; text-align: right;">Cantidad</th>
                </tr>
            </thead>
            <tbody>
                {{range .Items}}
                <tr style="border-bottom: 1px solid #eee;">
                    <td style="padding: 10px;">{{.ProductName}}</td>
                    <td style="padding: 10px; text-align: right;">{{.Quantity}}</td>
                </tr>
                {{end}}
            </tbody>
        </table>

        <div style="margin-top: 30px; border-top: 1px solid #ddd; padding-top: 20px; font-size: 12px; color: #777;">
            <p><strong>{{.Company.Name}}</strong></p>
            <p>{{.Company.Address}}</p>
            <p>Tel: {{.Company.Phone}}</p>
            <p>Email: {{.Company.Email}}</p>
        </div>
    </div>
</div>
`
