package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"

	"github.com/greenriver-post/almacen-api/internal/application/dto"
	"github.com/greenriver-post/almacen-api/internal/domain"
	"github.com/greenriver-post/almacen-api/internal/domain/entity"
	"github.com/greenriver-post/almacen-api/internal/domain/repository"
)

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidEmail valida el formato del email.
func ValidEmail(email string) bool { return emailRe.MatchString(email) }

// ClientUseCase casos de uso CRUD para clientes.
type ClientUseCase struct {
	repo repository.ClientRepository
}

// NewClientUseCase construye el caso de uso.
func NewClientUseCase(repo repository.ClientRepository) *ClientUseCase {
	return &ClientUseCase{repo: repo}
}

// Create crea un cliente. El email, si viene, debe ser válido y no repetido.
func (uc *ClientUseCase) Create(ctx context.Context, in dto.CreateClientRequest) (*entity.Client, error) {
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.Email != "" {
		if !ValidEmail(in.Email) {
			return nil, domain.ErrInvalidInput
		}
		existing, err := uc.repo.GetByEmail(in.Email)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrEmailAlreadyExists
		}
	}
	now := time.Now()
	client := &entity.Client{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		RucDNI:    in.RucDNI,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(client); err != nil {
		return nil, err
	}
	return client, nil
}

// GetByID obtiene un cliente por ID.
func (uc *ClientUseCase) GetByID(ctx context.Context, id string) (*entity.Client, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	return client, nil
}

// List lista clientes paginados.
func (uc *ClientUseCase) List(ctx context.Context, page dto.PageRequest) ([]*entity.Client, dto.Pagination, error) {
	page.Normalize()
	items, total, err := uc.repo.List(page.PerPage, page.Offset())
	if err != nil {
		return nil, dto.Pagination{}, err
	}
	return items, dto.NewPagination(page, total), nil
}

// Update actualiza un cliente existente.
func (uc *ClientUseCase) Update(ctx context.Context, id string, in dto.UpdateClientRequest) (*entity.Client, error) {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		client.Name = *in.Name
	}
	if in.Email != nil {
		if *in.Email != "" && !ValidEmail(*in.Email) {
			return nil, domain.ErrInvalidInput
		}
		client.Email = *in.Email
	}
	if in.Phone != nil {
		client.Phone = *in.Phone
	}
	if in.Address != nil {
		client.Address = *in.Address
	}
	if in.RucDNI != nil {
		client.RucDNI = *in.RucDNI
	}
	client.UpdatedAt = time.Now()
	if err := uc.repo.Update(client); err != nil {
		return nil, err
	}
	return client, nil
}

// Delete elimina un cliente.
func (uc *ClientUseCase) Delete(ctx context.Context, id string) error {
	client, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if client == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}
