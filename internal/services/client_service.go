package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gigpro/internal/common"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
)

type ClientService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *CreateClientInput) (*models.Client, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Client, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Client, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateClientInput) (*models.Client, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type CreateClientInput struct {
	Name  string
	Email *string
	Phone *string
	Type  *string
	Notes *string
	Tags  []string
}

type UpdateClientInput struct {
	Name  *string
	Email *string
	Phone *string
	Type  *string
	Notes *string
	Tags  []string
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

// NewClientService creates a new client service.
func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func (s *clientService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.UserID != ownerID {
		return nil, common.ErrForbidden
	}
	return client, nil
}

func (s *clientService) Create(ctx context.Context, ownerID uuid.UUID, input *CreateClientInput) (*models.Client, error) {
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateOptionalString(input.Notes, "notes", 2000); err != nil {
		return nil, err
	}

	client := &models.Client{
		ID:     uuid.New(),
		UserID: ownerID,
		Name:   input.Name,
		Email:  input.Email,
		Phone:  input.Phone,
		Type:   input.Type,
		Notes:  input.Notes,
		Tags:   input.Tags,
	}

	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Client, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *clientService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Client, error) {
	return s.clientRepo.ListByUser(ctx, ownerID)
}

func (s *clientService) Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateClientInput) (*models.Client, error) {
	client, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := common.ValidateRequiredString(*input.Name, "name"); err != nil {
			return nil, err
		}
		client.Name = *input.Name
	}
	if input.Email != nil {
		client.Email = input.Email
	}
	if input.Phone != nil {
		client.Phone = input.Phone
	}
	if input.Type != nil {
		client.Type = input.Type
	}
	if input.Notes != nil {
		if err := common.ValidateOptionalString(input.Notes, "notes", 2000); err != nil {
			return nil, err
		}
		client.Notes = input.Notes
	}
	if input.Tags != nil {
		client.Tags = input.Tags
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, fmt.Errorf("update client: %w", err)
	}
	return client, nil
}

func (s *clientService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}
