package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"gigpro/internal/common"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
)

// InvoiceService owns the invoice status state machine, the overdue
// derivation and the financial aggregations. Every operation that touches a
// single invoice verifies the caller owns it before anything else.
type InvoiceService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input *CreateInvoiceInput) (*models.Invoice, error)
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error)
	List(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error)
	ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*models.Invoice, error)
	ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Invoice, error)
	Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateInvoiceInput) (*models.Invoice, error)
	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, newStatus string) (*models.Invoice, error)
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
	AggregateTotals(ctx context.Context, ownerID uuid.UUID) (*models.InvoiceTotals, error)
	ClientTotals(ctx context.Context, ownerID, clientID uuid.UUID) (*models.ClientTotals, error)
}

// CreateInvoiceInput carries a validated create request. Amount may be omitted
// when Items are present (their sum wins) or when a gig with a fee is
// referenced (the fee pre-fills both amount and the first line item).
type CreateInvoiceInput struct {
	ClientID   uuid.UUID
	GigID      *uuid.UUID
	IssuedDate *time.Time
	DueDate    time.Time
	Amount     *float64
	Items      []models.InvoiceItem
	Notes      *string
}

// UpdateInvoiceInput carries a partial edit. Items replace the whole stored
// sequence when present; there are no per-item edits.
type UpdateInvoiceInput struct {
	ClientID   *uuid.UUID
	GigID      *uuid.UUID
	IssuedDate *time.Time
	DueDate    *time.Time
	Amount     *float64
	Items      []models.InvoiceItem
	Notes      *string
}

// Stored status edges. Overdue appears as a source only so that imported rows
// carrying it can still be marked paid; nothing ever writes it.
var statusTransitions = map[string][]string{
	models.StatusDraft:   {models.StatusSent, models.StatusPaid},
	models.StatusSent:    {models.StatusPaid},
	models.StatusOverdue: {models.StatusPaid},
	models.StatusPaid:    {},
}

type invoiceService struct {
	invoiceRepo repositories.InvoiceRepository
	clientRepo  repositories.ClientRepository
	gigRepo     repositories.GigRepository
	now         func() time.Time
}

// NewInvoiceService creates a new invoice service.
func NewInvoiceService(invoiceRepo repositories.InvoiceRepository, clientRepo repositories.ClientRepository, gigRepo repositories.GigRepository) InvoiceService {
	return &invoiceService{
		invoiceRepo: invoiceRepo,
		clientRepo:  clientRepo,
		gigRepo:     gigRepo,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// getOwned loads an invoice and enforces ownership before any other logic.
func (s *invoiceService) getOwned(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.UserID != ownerID {
		return nil, common.ErrForbidden
	}
	return invoice, nil
}

// resolveClient checks the referenced client exists and belongs to the owner.
func (s *invoiceService) resolveClient(ctx context.Context, ownerID, clientID uuid.UUID) (*models.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if client.UserID != ownerID {
		return nil, common.ErrForbidden
	}
	return client, nil
}

func (s *invoiceService) resolveGig(ctx context.Context, ownerID, gigID uuid.UUID) (*models.Gig, error) {
	gig, err := s.gigRepo.GetByID(ctx, gigID)
	if err != nil {
		return nil, err
	}
	if gig.UserID != ownerID {
		return nil, common.ErrForbidden
	}
	return gig, nil
}

// normalizeItems recomputes each item amount from quantity and rate and
// returns the sum, enforcing the amount == sum(items) invariant at the source.
func normalizeItems(items []models.InvoiceItem) ([]models.InvoiceItem, float64, error) {
	normalized := make([]models.InvoiceItem, 0, len(items))
	var total float64
	for i, it := range items {
		if err := common.ValidateRequiredString(it.Description, fmt.Sprintf("items[%d].description", i)); err != nil {
			return nil, 0, err
		}
		if it.Quantity <= 0 {
			return nil, 0, common.NewValidationError(fmt.Sprintf("items[%d].quantity", i), "must be positive")
		}
		if it.Rate < 0 {
			return nil, 0, common.NewValidationError(fmt.Sprintf("items[%d].rate", i), "cannot be negative")
		}
		it.Amount = it.Quantity * it.Rate
		total += it.Amount
		normalized = append(normalized, it)
	}
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return nil, 0, common.NewValidationError("items", "total is not a finite number")
	}
	return normalized, total, nil
}

// generateInvoiceNumber formats INV-{year}-{MMDD}-{NN} with a per-user
// per-day sequence suffix so same-day invoices never collide.
func (s *invoiceService) generateInvoiceNumber(ctx context.Context, ownerID uuid.UUID, issued time.Time) (string, error) {
	seq, err := s.invoiceRepo.NextInvoiceSequence(ctx, ownerID, issued)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%d-%02d%02d-%02d", issued.Year(), int(issued.Month()), issued.Day(), seq), nil
}

func (s *invoiceService) Create(ctx context.Context, ownerID uuid.UUID, input *CreateInvoiceInput) (*models.Invoice, error) {
	if input.ClientID == uuid.Nil {
		return nil, common.NewValidationError("client_id", "is required")
	}
	if input.DueDate.IsZero() {
		return nil, common.NewValidationError("due_date", "is required")
	}
	if _, err := s.resolveClient(ctx, ownerID, input.ClientID); err != nil {
		return nil, err
	}

	var gig *models.Gig
	if input.GigID != nil {
		var err error
		gig, err = s.resolveGig(ctx, ownerID, *input.GigID)
		if err != nil {
			return nil, err
		}
	}

	items := input.Items
	amount := common.SafeFloat64(input.Amount)

	// A referenced gig's fee pre-fills the amount and first line item unless
	// the caller supplied either explicitly.
	if len(items) == 0 && input.Amount == nil && gig != nil && gig.Fee != nil {
		fee := *gig.Fee
		amount = fee
		items = []models.InvoiceItem{{
			Description: "DJ Services: " + gig.Title,
			Quantity:    1,
			Rate:        fee,
			Amount:      fee,
		}}
	}

	if len(items) > 0 {
		normalized, total, err := normalizeItems(items)
		if err != nil {
			return nil, err
		}
		if input.Amount != nil && math.Abs(*input.Amount-total) > 0.005 {
			return nil, common.NewValidationError("amount", "does not match the sum of line items")
		}
		items = normalized
		amount = total
	} else if input.Amount == nil && amount == 0 {
		return nil, common.NewValidationError("amount", "amount or items are required")
	}
	if err := common.ValidateAmount(amount, "amount"); err != nil {
		return nil, err
	}

	issued := s.now()
	if input.IssuedDate != nil && !input.IssuedDate.IsZero() {
		issued = input.IssuedDate.UTC()
	}

	number, err := s.generateInvoiceNumber(ctx, ownerID, issued)
	if err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		ID:            uuid.New(),
		UserID:        ownerID,
		ClientID:      &input.ClientID,
		GigID:         input.GigID,
		InvoiceNumber: number,
		IssuedDate:    issued,
		DueDate:       input.DueDate.UTC(),
		Amount:        amount,
		Status:        models.StatusDraft,
		Items:         items,
		Notes:         input.Notes,
	}

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	return s.getOwned(ctx, ownerID, id)
}

func (s *invoiceService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	return s.invoiceRepo.ListByUser(ctx, ownerID)
}

// ListByStatus filters on the stored status only. Callers wanting effective
// overdue combine status != paid with a due-date check via EffectiveStatus.
func (s *invoiceService) ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*models.Invoice, error) {
	if !models.ValidInvoiceStatus(status) {
		return nil, common.NewValidationError("status", "must be one of: draft, sent, paid, overdue")
	}
	return s.invoiceRepo.ListByStatus(ctx, ownerID, status)
}

func (s *invoiceService) ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Invoice, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.invoiceRepo.ListRecent(ctx, ownerID, limit)
}

func (s *invoiceService) Update(ctx context.Context, ownerID, id uuid.UUID, input *UpdateInvoiceInput) (*models.Invoice, error) {
	invoice, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.ClientID != nil {
		if _, err := s.resolveClient(ctx, ownerID, *input.ClientID); err != nil {
			return nil, err
		}
		invoice.ClientID = input.ClientID
	}
	if input.GigID != nil {
		if _, err := s.resolveGig(ctx, ownerID, *input.GigID); err != nil {
			return nil, err
		}
		invoice.GigID = input.GigID
	}
	if input.IssuedDate != nil {
		invoice.IssuedDate = input.IssuedDate.UTC()
	}
	if input.DueDate != nil {
		invoice.DueDate = input.DueDate.UTC()
	}
	if input.Notes != nil {
		invoice.Notes = input.Notes
	}

	// Line items are replaced as a whole sequence; amount always tracks their
	// sum when any are present.
	if input.Items != nil {
		normalized, total, err := normalizeItems(input.Items)
		if err != nil {
			return nil, err
		}
		if input.Amount != nil && math.Abs(*input.Amount-total) > 0.005 {
			return nil, common.NewValidationError("amount", "does not match the sum of line items")
		}
		invoice.Items = normalized
		invoice.Amount = total
	} else if input.Amount != nil {
		if len(invoice.Items) > 0 && math.Abs(*input.Amount-models.ItemsTotal(invoice.Items)) > 0.005 {
			return nil, common.NewValidationError("amount", "does not match the sum of line items")
		}
		if err := common.ValidateAmount(*input.Amount, "amount"); err != nil {
			return nil, err
		}
		invoice.Amount = *input.Amount
	}

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("update invoice: %w", err)
	}
	return invoice, nil
}

func (s *invoiceService) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, newStatus string) (*models.Invoice, error) {
	if !models.ValidInvoiceStatus(newStatus) {
		return nil, common.NewValidationError("status", "must be one of: draft, sent, paid, overdue")
	}

	// Ownership is checked before the state machine is consulted.
	invoice, err := s.getOwned(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if !allowedTransition(invoice.Status, newStatus) {
		return nil, &common.InvalidTransitionError{From: invoice.Status, To: newStatus}
	}

	// Sending requires someone to bill and something to bill for.
	if newStatus == models.StatusSent {
		if invoice.ClientID == nil {
			return nil, common.NewValidationError("client_id", "invoice needs a client before it can be sent")
		}
		if invoice.Amount <= 0 {
			return nil, common.NewValidationError("amount", "invoice needs a non-zero amount before it can be sent")
		}
	}

	var paidDate *time.Time
	if newStatus == models.StatusPaid {
		t := s.now()
		paidDate = &t
	}

	if err := s.invoiceRepo.UpdateStatus(ctx, id, newStatus, paidDate); err != nil {
		return nil, fmt.Errorf("update invoice status: %w", err)
	}

	invoice.Status = newStatus
	invoice.PaidDate = paidDate
	return invoice, nil
}

func allowedTransition(from, to string) bool {
	for _, s := range statusTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

func (s *invoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, id); err != nil {
		return err
	}
	return s.invoiceRepo.Delete(ctx, id)
}

// AggregateTotals recomputes the dashboard numbers from the full invoice list
// on every call. PendingTotal counts stored-sent invoices and OverdueTotal
// counts the derived overdue condition, so a sent invoice past its due date
// lands in both buckets; the dashboard presents them as independent figures.
func (s *invoiceService) AggregateTotals(ctx context.Context, ownerID uuid.UUID) (*models.InvoiceTotals, error) {
	invoices, err := s.invoiceRepo.ListByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	totals := &models.InvoiceTotals{}
	for _, inv := range invoices {
		switch inv.Status {
		case models.StatusDraft:
			totals.DraftCount++
		case models.StatusSent:
			totals.SentCount++
			totals.PendingTotal += inv.Amount
		case models.StatusPaid:
			totals.PaidCount++
			totals.PaidTotal += inv.Amount
		}
		if inv.IsOverdue(now) {
			totals.OverdueCount++
			totals.OverdueTotal += inv.Amount
		}
	}
	return totals, nil
}

// ClientTotals sums the client's paid invoices and counts their gigs.
func (s *invoiceService) ClientTotals(ctx context.Context, ownerID, clientID uuid.UUID) (*models.ClientTotals, error) {
	if _, err := s.resolveClient(ctx, ownerID, clientID); err != nil {
		return nil, err
	}

	gigCount, err := s.gigRepo.CountByClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	invoices, err := s.invoiceRepo.ListByClient(ctx, ownerID, clientID)
	if err != nil {
		return nil, err
	}

	totals := &models.ClientTotals{GigCount: gigCount}
	for _, inv := range invoices {
		if inv.Status == models.StatusPaid {
			totals.TotalPaid += inv.Amount
		}
	}
	return totals, nil
}
