package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gigpro/internal/common"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
)

const defaultUpcomingLimit = 5

type GigService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *CreateGigInput) (*models.Gig, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Gig, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Gig, error)
	// ListByMonth takes the 0-indexed month used internally; handlers
	// convert from the 1-indexed URL segment.
	ListByMonth(ctx context.Context, ownerID uuid.UUID, year, month int) ([]*models.Gig, error)
	ListUpcoming(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Gig, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateGigInput) (*models.Gig, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type CreateGigInput struct {
	ClientID    *uuid.UUID
	Title       string
	Date        time.Time
	StartTime   *string
	EndTime     *string
	Location    *string
	Fee         *float64
	Notes       *string
	ReminderSet *bool
}

type UpdateGigInput struct {
	ClientID    *uuid.UUID
	Title       *string
	Date        *time.Time
	StartTime   *string
	EndTime     *string
	Location    *string
	Fee         *float64
	Notes       *string
	ReminderSet *bool
}

type gigService struct {
	gigRepo    repositories.GigRepository
	clientRepo repositories.ClientRepository
	now        func() time.Time
}

// NewGigService creates a new gig service.
func NewGigService(gigRepo repositories.GigRepository, clientRepo repositories.ClientRepository) GigService {
	return &gigService{
		gigRepo:    gigRepo,
		clientRepo: clientRepo,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

func (s *gigService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if gig.UserID != ownerID {
		return nil, common.ErrForbidden
	}
	return gig, nil
}

func (s *gigService) checkClient(ctx context.Context, ownerID, clientID uuid.UUID) error {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return err
	}
	if client.UserID != ownerID {
		return common.ErrForbidden
	}
	return nil
}

func (s *gigService) Create(ctx context.Context, ownerID uuid.UUID, input *CreateGigInput) (*models.Gig, error) {
	if err := common.ValidateRequiredString(input.Title, "title"); err != nil {
		return nil, err
	}
	if input.Date.IsZero() {
		return nil, common.NewValidationError("date", "is required")
	}
	if input.Fee != nil {
		if err := common.ValidateAmount(*input.Fee, "fee"); err != nil {
			return nil, err
		}
	}
	if input.ClientID != nil {
		if err := s.checkClient(ctx, ownerID, *input.ClientID); err != nil {
			return nil, err
		}
	}

	reminder := true
	if input.ReminderSet != nil {
		reminder = *input.ReminderSet
	}

	gig := &models.Gig{
		ID:          uuid.New(),
		UserID:      ownerID,
		ClientID:    input.ClientID,
		Title:       input.Title,
		Date:        input.Date.UTC(),
		StartTime:   input.StartTime,
		EndTime:     input.EndTime,
		Location:    input.Location,
		Fee:         input.Fee,
		Notes:       input.Notes,
		ReminderSet: reminder,
	}

	if err := s.gigRepo.Create(ctx, gig); err != nil {
		return nil, fmt.Errorf("create gig: %w", err)
	}
	return gig, nil
}

func (s *gigService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Gig, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *gigService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Gig, error) {
	return s.gigRepo.ListByUser(ctx, ownerID)
}

func (s *gigService) ListByMonth(ctx context.Context, ownerID uuid.UUID, year, month int) ([]*models.Gig, error) {
	if month < 0 || month > 11 {
		return nil, common.NewValidationError("month", "must be between 1 and 12")
	}
	start := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)
	return s.gigRepo.ListByDateRange(ctx, ownerID, start, end)
}

func (s *gigService) ListUpcoming(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Gig, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	return s.gigRepo.ListUpcoming(ctx, ownerID, s.now(), limit)
}

func (s *gigService) Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateGigInput) (*models.Gig, error) {
	gig, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil {
		if err := s.checkClient(ctx, ownerID, *input.ClientID); err != nil {
			return nil, err
		}
		gig.ClientID = input.ClientID
	}
	if input.Title != nil {
		if err := common.ValidateRequiredString(*input.Title, "title"); err != nil {
			return nil, err
		}
		gig.Title = *input.Title
	}
	if input.Date != nil {
		gig.Date = input.Date.UTC()
	}
	if input.StartTime != nil {
		gig.StartTime = input.StartTime
	}
	if input.EndTime != nil {
		gig.EndTime = input.EndTime
	}
	if input.Location != nil {
		gig.Location = input.Location
	}
	if input.Fee != nil {
		if err := common.ValidateAmount(*input.Fee, "fee"); err != nil {
			return nil, err
		}
		gig.Fee = input.Fee
	}
	if input.Notes != nil {
		gig.Notes = input.Notes
	}
	if input.ReminderSet != nil {
		gig.ReminderSet = *input.ReminderSet
	}

	if err := s.gigRepo.Update(ctx, gig); err != nil {
		return nil, fmt.Errorf("update gig: %w", err)
	}
	return gig, nil
}

func (s *gigService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.gigRepo.Delete(ctx, id)
}
