package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gigpro/internal/models"
)

type InvoiceRepository interface {
	Create(ctx context.Context, invoice *models.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error)
	ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*models.Invoice, error)
	ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Invoice, error)
	ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]*models.Invoice, error)
	Update(ctx context.Context, invoice *models.Invoice) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
	NextInvoiceSequence(ctx context.Context, userID uuid.UUID, day time.Time) (int, error)
}

type invoiceRepo struct {
	db Database
}

func NewInvoiceRepo(db Database) InvoiceRepository {
	return &invoiceRepo{db: db}
}

const invoiceColumns = `id, user_id, client_id, gig_id, invoice_number, issued_date, due_date, amount, status, items, notes, paid_date, created_at, updated_at`

func (r *invoiceRepo) Create(ctx context.Context, invoice *models.Invoice) error {
	query := `
		INSERT INTO invoices (id, user_id, client_id, gig_id, invoice_number, issued_date, due_date, amount, status, items, notes, paid_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, invoice.ID, invoice.UserID, invoice.ClientID, invoice.GigID, invoice.InvoiceNumber, invoice.IssuedDate, invoice.DueDate, invoice.Amount, invoice.Status, invoice.Items, invoice.Notes, invoice.PaidDate)
	return err
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Invoice, error) {
	invoice := &models.Invoice{}
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`
	err := r.db.QueryRow(ctx, query, id).Scan(&invoice.ID, &invoice.UserID, &invoice.ClientID, &invoice.GigID, &invoice.InvoiceNumber, &invoice.IssuedDate, &invoice.DueDate, &invoice.Amount, &invoice.Status, &invoice.Items, &invoice.Notes, &invoice.PaidDate, &invoice.CreatedAt, &invoice.UpdatedAt)
	if err != nil {
		return nil, translateNotFound(err)
	}
	return invoice, nil
}

func (r *invoiceRepo) queryInvoices(ctx context.Context, query string, args ...any) ([]*models.Invoice, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []*models.Invoice
	for rows.Next() {
		invoice := &models.Invoice{}
		if err := rows.Scan(&invoice.ID, &invoice.UserID, &invoice.ClientID, &invoice.GigID, &invoice.InvoiceNumber, &invoice.IssuedDate, &invoice.DueDate, &invoice.Amount, &invoice.Status, &invoice.Items, &invoice.Notes, &invoice.PaidDate, &invoice.CreatedAt, &invoice.UpdatedAt); err != nil {
			return nil, err
		}
		invoices = append(invoices, invoice)
	}
	return invoices, rows.Err()
}

func (r *invoiceRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE user_id = $1 ORDER BY issued_date DESC`
	return r.queryInvoices(ctx, query, userID)
}

func (r *invoiceRepo) ListByStatus(ctx context.Context, userID uuid.UUID, status string) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND status = $2
		ORDER BY issued_date DESC
	`
	return r.queryInvoices(ctx, query, userID, status)
}

func (r *invoiceRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1
		ORDER BY issued_date DESC
		LIMIT $2
	`
	return r.queryInvoices(ctx, query, userID, limit)
}

func (r *invoiceRepo) ListByClient(ctx context.Context, userID, clientID uuid.UUID) ([]*models.Invoice, error) {
	query := `
		SELECT ` + invoiceColumns + `
		FROM invoices
		WHERE user_id = $1 AND client_id = $2
		ORDER BY issued_date DESC
	`
	return r.queryInvoices(ctx, query, userID, clientID)
}

func (r *invoiceRepo) Update(ctx context.Context, invoice *models.Invoice) error {
	query := `
		UPDATE invoices
		SET client_id = $1, gig_id = $2, invoice_number = $3, issued_date = $4, due_date = $5, amount = $6, status = $7, items = $8, notes = $9, paid_date = $10, updated_at = NOW()
		WHERE id = $11
	`
	_, err := r.db.Exec(ctx, query, invoice.ClientID, invoice.GigID, invoice.InvoiceNumber, invoice.IssuedDate, invoice.DueDate, invoice.Amount, invoice.Status, invoice.Items, invoice.Notes, invoice.PaidDate, invoice.ID)
	return err
}

func (r *invoiceRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string, paidDate *time.Time) error {
	query := `
		UPDATE invoices
		SET status = $1, paid_date = $2, updated_at = NOW()
		WHERE id = $3
	`
	_, err := r.db.Exec(ctx, query, status, paidDate, id)
	return err
}

func (r *invoiceRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM invoices WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// NextInvoiceSequence returns the next per-user counter for the given calendar
// day. The upsert keeps concurrent creates from colliding on the same number.
func (r *invoiceRepo) NextInvoiceSequence(ctx context.Context, userID uuid.UUID, day time.Time) (int, error) {
	query := `
		WITH upsert AS (
			INSERT INTO invoice_sequences (user_id, day, last_number)
			VALUES ($1, $2, 1)
			ON CONFLICT (user_id, day)
			DO UPDATE SET
				last_number = invoice_sequences.last_number + 1,
				updated_at = NOW()
			RETURNING last_number
		)
		SELECT last_number FROM upsert;
	`
	var sequenceNum int
	err := r.db.QueryRow(ctx, query, userID, day.UTC().Format("2006-01-02")).Scan(&sequenceNum)
	if err != nil {
		return 0, fmt.Errorf("failed to generate invoice sequence: %w", err)
	}
	return sequenceNum, nil
}
