package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"gigpro/internal/common"
	"gigpro/internal/models"
)

type InvoiceRepoTestSuite struct {
	suite.Suite
	mock    pgxmock.PgxPoolIface
	repo    InvoiceRepository
	userID  uuid.UUID
	context context.Context
}

func (suite *InvoiceRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewInvoiceRepo(mock)
	suite.userID = uuid.New()
	suite.context = context.Background()
}

func (suite *InvoiceRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestInvoiceRepoTestSuite(t *testing.T) {
	suite.Run(t, new(InvoiceRepoTestSuite))
}

func (suite *InvoiceRepoTestSuite) sampleInvoice() *models.Invoice {
	clientID := uuid.New()
	return &models.Invoice{
		ID:            uuid.New(),
		UserID:        suite.userID,
		ClientID:      &clientID,
		InvoiceNumber: "INV-2025-0315-01",
		IssuedDate:    time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
		DueDate:       time.Date(2025, 3, 29, 0, 0, 0, 0, time.UTC),
		Amount:        800,
		Status:        models.StatusDraft,
		Items: []models.InvoiceItem{
			{Description: "DJ set", Quantity: 4, Rate: 200, Amount: 800},
		},
	}
}

func (suite *InvoiceRepoTestSuite) TestCreate_Success() {
	invoice := suite.sampleInvoice()

	suite.mock.ExpectExec(`INSERT INTO invoices`).
		WithArgs(invoice.ID, invoice.UserID, invoice.ClientID, invoice.GigID, invoice.InvoiceNumber,
			invoice.IssuedDate, invoice.DueDate, invoice.Amount, invoice.Status, invoice.Items,
			invoice.Notes, invoice.PaidDate).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, invoice)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestGetByID_Success() {
	invoice := suite.sampleInvoice()
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "client_id", "gig_id", "invoice_number", "issued_date", "due_date",
		"amount", "status", "items", "notes", "paid_date", "created_at", "updated_at",
	}).AddRow(invoice.ID, invoice.UserID, invoice.ClientID, invoice.GigID, invoice.InvoiceNumber,
		invoice.IssuedDate, invoice.DueDate, invoice.Amount, invoice.Status, invoice.Items,
		invoice.Notes, invoice.PaidDate, now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(invoice.ID).
		WillReturnRows(rows)

	got, err := suite.repo.GetByID(suite.context, invoice.ID)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), invoice.InvoiceNumber, got.InvoiceNumber)
	assert.Equal(suite.T(), invoice.Amount, got.Amount)
	assert.Len(suite.T(), got.Items, 1)
}

func (suite *InvoiceRepoTestSuite) TestGetByID_NotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(`SELECT .+ FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := suite.repo.GetByID(suite.context, id)
	assert.ErrorIs(suite.T(), err, common.ErrNotFound)
}

func (suite *InvoiceRepoTestSuite) TestUpdateStatus_SetsPaidDate() {
	id := uuid.New()
	paidDate := time.Date(2025, 3, 20, 12, 0, 0, 0, time.UTC)

	suite.mock.ExpectExec(`UPDATE invoices`).
		WithArgs(models.StatusPaid, &paidDate, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateStatus(suite.context, id, models.StatusPaid, &paidDate)
	assert.NoError(suite.T(), err)
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
}

func (suite *InvoiceRepoTestSuite) TestListByStatus_FiltersStoredStatus() {
	invoice := suite.sampleInvoice()
	invoice.Status = models.StatusSent
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "client_id", "gig_id", "invoice_number", "issued_date", "due_date",
		"amount", "status", "items", "notes", "paid_date", "created_at", "updated_at",
	}).AddRow(invoice.ID, invoice.UserID, invoice.ClientID, invoice.GigID, invoice.InvoiceNumber,
		invoice.IssuedDate, invoice.DueDate, invoice.Amount, invoice.Status, invoice.Items,
		invoice.Notes, invoice.PaidDate, now, now)

	suite.mock.ExpectQuery(`SELECT .+ FROM invoices\s+WHERE user_id = \$1 AND status = \$2`).
		WithArgs(suite.userID, models.StatusSent).
		WillReturnRows(rows)

	invoices, err := suite.repo.ListByStatus(suite.context, suite.userID, models.StatusSent)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), invoices, 1)
	assert.Equal(suite.T(), models.StatusSent, invoices[0].Status)
}

func (suite *InvoiceRepoTestSuite) TestNextInvoiceSequence_Increments() {
	day := time.Date(2025, 3, 15, 23, 30, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"last_number"}).AddRow(4)
	suite.mock.ExpectQuery(`WITH upsert AS`).
		WithArgs(suite.userID, "2025-03-15").
		WillReturnRows(rows)

	seq, err := suite.repo.NextInvoiceSequence(suite.context, suite.userID, day)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 4, seq)
}

func (suite *InvoiceRepoTestSuite) TestDelete_Success() {
	id := uuid.New()
	suite.mock.ExpectExec(`DELETE FROM invoices WHERE id = \$1`).
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	err := suite.repo.Delete(suite.context, id)
	assert.NoError(suite.T(), err)
}
