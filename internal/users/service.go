package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/casa80eventos/casa80-backend/pkg/config"
	pkgdb "github.com/casa80eventos/casa80-backend/pkg/db"
	"github.com/casa80eventos/casa80-backend/pkg/db/models"
	"github.com/casa80eventos/casa80-backend/pkg/enums"
	pkgerrors "github.com/casa80eventos/casa80-backend/pkg/errors"
	"github.com/casa80eventos/casa80-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const minPasswordLength = 8

// Service defines the administrative user-management operations.
type Service interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id uuid.UUID) (*models.User, error)
	Create(ctx context.Context, input CreateUserInput) (*models.User, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateUserInput, actorID uuid.UUID) (*models.User, error)
	Deactivate(ctx context.Context, id, actorID uuid.UUID) (*models.User, error)
}

type service struct {
	repo        Repository
	passwordCfg config.PasswordConfig
}

// NewService builds the users service.
func NewService(repo Repository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener usuarios")
	}
	return users, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindUser(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Usuario no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al obtener el usuario")
	}
	return user, nil
}

func (s *service) Create(ctx context.Context, input CreateUserInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El correo electrónico no es válido")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre es obligatorio")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength))
	}
	role := input.Role
	if role == "" {
		role = enums.UserRoleViewer
	}
	if !role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rol inválido %q", role))
	}

	hash, err := security.HashPassword(input.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al crear el usuario")
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Name:         strings.TrimSpace(input.Name),
		Role:         role,
		IsActive:     true,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		if pkgdb.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Ya existe un usuario con ese correo")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al crear el usuario")
	}
	return user, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput, actorID uuid.UUID) (*models.User, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "El nombre es obligatorio")
		}
		updates["name"] = name
	}
	if input.Role != nil {
		if !input.Role.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("rol inválido %q", *input.Role))
		}
		updates["role"] = *input.Role
	}
	if input.Password != nil {
		if len(*input.Password) < minPasswordLength {
			return nil, pkgerrors.New(pkgerrors.CodeValidation,
				fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLength))
		}
		hash, err := security.HashPassword(*input.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Error al actualizar el usuario")
		}
		updates["password_hash"] = hash
	}
	if input.IsActive != nil {
		if !*input.IsActive && id == actorID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "No puedes desactivar tu propio usuario")
		}
		updates["is_active"] = *input.IsActive
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Error al actualizar el usuario")
		}
	}
	return s.Get(ctx, id)
}

func (s *service) Deactivate(ctx context.Context, id, actorID uuid.UUID) (*models.User, error) {
	inactive := false
	return s.Update(ctx, id, UpdateUserInput{IsActive: &inactive}, actorID)
}
