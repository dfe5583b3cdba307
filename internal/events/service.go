package events

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgdb "github.com/casa80eventos/casa80-backend/pkg/db"
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/mail"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
	WithSerializableTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type confirmationMailer interface {
	SendReservationConfirmationAsync(ctx context.Context, email mail.ReservationEmail)
}

// Service defines the reservation operations exposed to controllers.
type Service interface {
	List(ctx context.Context, params pagination.Params) (*EventList, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Event, error)
	Create(ctx context.Context, input CreateEventInput) (*models.Event, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, next enums.EventStatus) (*models.Event, error)
	RegisterReturn(ctx context.Context, id uuid.UUID, items []ReturnItemInput) (*ReturnResult, error)
	RestoreDamage(ctx context.Context, eventID, productID uuid.UUID, actorUserID *uuid.UUID) (*models.EventItem, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	mailer confirmationMailer
}

// NewService builds the events service. The mailer may be nil when SMTP is
// not configured.
func NewService(repo Repository, tx txRunner, mailer confirmationMailer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("events repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, mailer: mailer}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params) (*EventList, error) {
	events, total, err := s.repo.ListEvents(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener eventos")
	}

	views := make([]EventView, len(events))
	for i, event := range events {
		views[i] = EventView{Event: event, ItemCount: len(event.Items)}
	}
	return &EventList{
		Events: views,
		Meta:   pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Event, error) {
	event, err := s.repo.FindEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Evento no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el evento")
	}
	return event, nil
}

func (s *service) Create(ctx context.Context, input CreateEventInput) (*models.Event, error) {
	if err := validateEventBasics(input.Name, input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if err := validateItems(input.Items); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:      strings.TrimSpace(input.Name),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
		Status:    enums.EventStatusSinConfirmar,
		ClientID:  input.ClientID,
		Notes:     input.Notes,
		Items:     buildItems(input.Items),
	}

	// Availability check and write share one serializable transaction so two
	// concurrent bookings cannot both pass the check and overcommit stock.
	err := s.tx.WithSerializableTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := s.checkAvailability(ctx, repo, input.StartDate, input.EndDate, input.Items, nil); err != nil {
			return err
		}
		return repo.CreateEvent(ctx, event)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "Error al crear el evento")
	}

	created, err := s.repo.FindEvent(ctx, event.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el evento")
	}

	s.sendConfirmation(ctx, created)
	return created, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*models.Event, error) {
	if input.Items != nil {
		if err := validateItems(*input.Items); err != nil {
			return nil, err
		}
	}

	err := s.tx.WithSerializableTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		event, err := repo.FindEvent(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Evento no encontrado")
			}
			return err
		}

		start := event.StartDate
		end := event.EndDate
		if input.StartDate != nil {
			start = *input.StartDate
		}
		if input.EndDate != nil {
			end = *input.EndDate
		}
		if end.Before(start) {
			return pkgerrors.New(pkgerrors.CodeValidation, "La fecha de fin debe ser posterior o igual a la fecha de inicio")
		}

		datesChanged := !start.Equal(event.StartDate) || !end.Equal(event.EndDate)
		if (input.Items != nil || datesChanged) && !event.Status.ItemsEditable() {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("No se pueden modificar los artículos de un evento en estado %s", event.Status.Label()))
		}

		items := currentItemInputs(event.Items)
		if input.Items != nil {
			items = *input.Items
		}

		if input.Items != nil || datesChanged {
			if err := s.checkAvailability(ctx, repo, start, end, items, &event.ID); err != nil {
				return err
			}
		}

		updates := map[string]any{}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "El nombre del evento es obligatorio")
			}
			updates["name"] = name
		}
		if datesChanged {
			updates["start_date"] = start
			updates["end_date"] = end
		}
		if input.ClientID != nil {
			updates["client_id"] = *input.ClientID
		}
		if input.Notes != nil {
			updates["notes"] = *input.Notes
		}
		if len(updates) > 0 {
			if err := repo.UpdateEvent(ctx, event.ID, updates); err != nil {
				return err
			}
		}

		if input.Items != nil {
			if err := repo.ReplaceItems(ctx, event.ID, buildItems(*input.Items)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err, "Error al actualizar el evento")
	}

	return s.Get(ctx, id)
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, next enums.EventStatus) (*models.Event, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("estado de evento inválido %q", next.String()))
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		event, err := repo.FindEvent(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Evento no encontrado")
			}
			return err
		}

		// The proposed state always revalidates against the stored one.
		if !enums.CanTransition(event.Status, next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("No se puede cambiar el estado de %s a %s", event.Status.Label(), next.Label()))
		}
		return repo.UpdateEventStatus(ctx, event.ID, next)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "Error al actualizar el estado del evento")
	}

	return s.Get(ctx, id)
}

func (s *service) RegisterReturn(ctx context.Context, id uuid.UUID, items []ReturnItemInput) (*ReturnResult, error) {
	if len(items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "No se registraron artículos en la devolución")
	}

	totalDamageCost := decimal.Zero
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		event, err := repo.FindEvent(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Evento no encontrado")
			}
			return err
		}

		byProduct := make(map[uuid.UUID]*models.EventItem, len(event.Items))
		for i := range event.Items {
			byProduct[event.Items[i].ProductID] = &event.Items[i]
		}

		for _, input := range items {
			item, ok := byProduct[input.ProductID]
			if !ok {
				return pkgerrors.New(pkgerrors.CodeValidation, "El producto no pertenece al evento")
			}
			if input.ReturnedGood < 0 || input.ReturnedDamaged < 0 {
				return pkgerrors.New(pkgerrors.CodeValidation, "Las cantidades devueltas no pueden ser negativas")
			}
			if input.ReturnedGood+input.ReturnedDamaged > item.Quantity {
				name := input.ProductID.String()
				if item.Product != nil {
					name = item.Product.Name
				}
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Las cantidades devueltas superan la cantidad reservada para %q", name))
			}

			if input.ReturnedDamaged > 0 && item.Product != nil {
				cost := item.Product.PriceReplacement.Mul(decimal.NewFromInt(int64(input.ReturnedDamaged)))
				totalDamageCost = totalDamageCost.Add(cost)
			}

			if err := repo.UpdateItem(ctx, item.ID, map[string]any{
				"returned_good":    input.ReturnedGood,
				"returned_damaged": input.ReturnedDamaged,
			}); err != nil {
				return err
			}
		}

		// Processing a return closes the event no matter which state it was
		// in; the transition table is intentionally bypassed here.
		return repo.UpdateEventStatus(ctx, event.ID, enums.EventStatusCompletado)
	})
	if err != nil {
		return nil, s.mapWriteError(err, "Error al registrar la devolución")
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ReturnResult{Event: event, TotalDamageCost: totalDamageCost}, nil
}

func (s *service) RestoreDamage(ctx context.Context, eventID, productID uuid.UUID, actorUserID *uuid.UUID) (*models.EventItem, error) {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindItem(ctx, eventID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "Artículo no encontrado")
			}
			return err
		}
		if item.ReturnedDamaged == 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "No hay unidades dañadas para restaurar")
		}
		if item.DamageRestored {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "El daño ya fue restaurado")
		}

		now := time.Now().UTC()
		if err := repo.UpdateItem(ctx, item.ID, map[string]any{
			"damage_restored": true,
			"restored_at":     now,
		}); err != nil {
			return err
		}

		// Stock counts are untouched; the log row records that the damaged
		// units were recovered.
		if item.Product != nil {
			return repo.AppendInventoryLog(ctx, &models.InventoryLog{
				ProductID:        item.ProductID,
				Change:           0,
				PreviousQuantity: item.Product.TotalQuantity,
				NewQuantity:      item.Product.TotalQuantity,
				Reason:           enums.InventoryReasonRestore,
				UserID:           actorUserID,
			})
		}
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err, "Error al restaurar el daño")
	}

	item, err := s.repo.FindItem(ctx, eventID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el artículo")
	}
	return item, nil
}

// checkAvailability verifies every requested product has enough free stock in
// the date window, counting quantities committed to overlapping events that
// still hold inventory.
func (s *service) checkAvailability(ctx context.Context, repo Repository, start, end time.Time, items []ItemInput, excludeID *uuid.UUID) error {
	overlapping, err := repo.FindOverlappingHolding(ctx, start, end, excludeID)
	if err != nil {
		return err
	}

	for _, item := range items {
		product, err := repo.FindProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("Producto no encontrado: %s", item.ProductID))
			}
			return err
		}

		used := 0
		for _, event := range overlapping {
			for _, eventItem := range event.Items {
				if eventItem.ProductID == item.ProductID {
					used += eventItem.Quantity
				}
			}
		}

		if used+item.Quantity > product.TotalQuantity {
			return pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("No hay suficiente stock para %q. Disponible: %d, Solicitado: %d",
					product.Name, product.TotalQuantity-used, item.Quantity))
		}
	}
	return nil
}

func (s *service) sendConfirmation(ctx context.Context, event *models.Event) {
	if s.mailer == nil || event.Client == nil || event.Client.Email == nil {
		return
	}

	items := make([]mail.ReservationItem, 0, len(event.Items))
	for _, item := range event.Items {
		name := item.ProductID.String()
		if item.Product != nil {
			name = item.Product.Name
		}
		items = append(items, mail.ReservationItem{ProductName: name, Quantity: item.Quantity})
	}

	s.mailer.SendReservationConfirmationAsync(ctx, mail.ReservationEmail{
		To:         *event.Client.Email,
		ClientName: event.Client.Name,
		EventID:    event.ID.String(),
		EventName:  event.Name,
		StartDate:  event.StartDate,
		EndDate:    event.EndDate,
		Items:      items,
	})
}

func (s *service) mapWriteError(err error, fallback string) error {
	if err == nil {
		return nil
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	if pkgdb.IsSerializationFailure(err) {
		return pkgerrors.New(pkgerrors.CodeConflict,
			"La disponibilidad cambió mientras se procesaba la reserva. Intenta de nuevo.")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fallback)
}

func validateEventBasics(name string, start, end time.Time) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "El nombre del evento es obligatorio")
	}
	if start.IsZero() || end.IsZero() {
		return pkgerrors.New(pkgerrors.CodeValidation, "Las fechas del evento son obligatorias")
	}
	if end.Before(start) {
		return pkgerrors.New(pkgerrors.CodeValidation, "La fecha de fin debe ser posterior o igual a la fecha de inicio")
	}
	return nil
}

func validateItems(items []ItemInput) error {
	if len(items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "No se seleccionaron productos")
	}
	seen := make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		if item.ProductID == uuid.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "El producto es obligatorio")
		}
		if item.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "La cantidad debe ser mayor a 0")
		}
		if _, dup := seen[item.ProductID]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, "Producto duplicado en la reserva")
		}
		seen[item.ProductID] = struct{}{}
	}
	return nil
}

func buildItems(items []ItemInput) []models.EventItem {
	built := make([]models.EventItem, len(items))
	for i, item := range items {
		built[i] = models.EventItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return built
}

func currentItemInputs(items []models.EventItem) []ItemInput {
	inputs := make([]ItemInput, len(items))
	for i, item := range items {
		inputs[i] = ItemInput{ProductID: item.ProductID, Quantity: item.Quantity}
	}
	return inputs
}
