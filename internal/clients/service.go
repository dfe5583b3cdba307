package clients

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/masking"
	"github.com/casa80eventos/casa80-backend/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service defines the client operations exposed to controllers. Read
// operations take the caller's role so contact data can be masked for
// read-only users.
type Service interface {
	List(ctx context.Context, params pagination.Params, role enums.UserRole) (*ClientList, error)
	Get(ctx context.Context, id uuid.UUID, role enums.UserRole) (*ClientView, error)
	Create(ctx context.Context, input CreateClientInput) (*models.Client, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the clients service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("clients repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, role enums.UserRole) (*ClientList, error) {
	clients, total, err := s.repo.ListClients(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener clientes")
	}

	views := make([]ClientView, len(clients))
	for i := range clients {
		views[i] = buildView(&clients[i], role)
	}
	return &ClientList{
		Clients: views,
		Meta:    pagination.BuildMeta(params, total),
	}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, role enums.UserRole) (*ClientView, error) {
	client, err := s.repo.FindClient(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cliente no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener cliente")
	}
	view := buildView(client, role)
	return &view, nil
}

func (s *service) Create(ctx context.Context, input CreateClientInput) (*models.Client, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del cliente es obligatorio")
	}
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	client := &models.Client{
		Name:         name,
		Document:     input.Document,
		Email:        input.Email,
		Phone:        input.Phone,
		Department:   input.Department,
		City:         input.City,
		Neighborhood: input.Neighborhood,
		Address:      input.Address,
		Notes:        input.Notes,
	}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al crear el cliente")
	}
	return client, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateClientInput) (*models.Client, error) {
	if err := validateEmail(input.Email); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre del cliente es obligatorio")
		}
		updates["name"] = name
	}
	if input.Document != nil {
		updates["document"] = *input.Document
	}
	if input.Email != nil {
		updates["email"] = *input.Email
	}
	if input.Phone != nil {
		updates["phone"] = *input.Phone
	}
	if input.Department != nil {
		updates["department"] = *input.Department
	}
	if input.City != nil {
		updates["city"] = *input.City
	}
	if input.Neighborhood != nil {
		updates["neighborhood"] = *input.Neighborhood
	}
	if input.Address != nil {
		updates["address"] = *input.Address
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	if len(updates) > 0 {
		if _, err := s.mustFind(ctx, id); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateClient(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al actualizar el cliente")
		}
	}
	return s.mustFind(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.mustFind(ctx, id); err != nil {
		return err
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.DetachEvents(ctx, id); err != nil {
			return err
		}
		return repo.DeleteClient(ctx, id)
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al eliminar el cliente")
	}
	return nil
}

func (s *service) mustFind(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client, err := s.repo.FindClient(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cliente no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener cliente")
	}
	return client, nil
}

func buildView(client *models.Client, role enums.UserRole) ClientView {
	return ClientView{
		ID:           client.ID,
		Name:         client.Name,
		Document:     masking.Document(client.Document, role),
		Email:        masking.Email(client.Email, role),
		Phone:        masking.Phone(client.Phone, role),
		Department:   client.Department,
		City:         client.City,
		Neighborhood: client.Neighborhood,
		Address:      masking.Address(client.Address, role),
		Notes:        client.Notes,
		Stats:        buildStats(client.Events),
		CreatedAt:    client.CreatedAt,
		UpdatedAt:    client.UpdatedAt,
	}
}

func buildStats(events []models.Event) ClientStats {
	stats := ClientStats{
		TotalEvents: len(events),
		TotalSpent:  decimal.Zero,
	}
	for _, event := range events {
		if event.Status.HoldsInventory() {
			stats.ActiveEvents++
		}
		if event.Status == enums.EventStatusCompletado {
			stats.CompletedEvents++
		}
		for _, item := range event.Items {
			if item.Product == nil {
				continue
			}
			spent := item.Product.PriceUnit.Mul(decimal.NewFromInt(int64(item.Quantity)))
			stats.TotalSpent = stats.TotalSpent.Add(spent)
		}
	}
	return stats
}

func validateEmail(email *string) error {
	if email == nil || *email == "" {
		return nil
	}
	if !strings.Contains(*email, "@") {
		return pkgerrors.New(pkgerrors.CodeValidation, "El correo electrónico no es válido")
	}
	return nil
}
