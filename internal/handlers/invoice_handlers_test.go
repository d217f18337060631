package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gigpro/internal/common"
	"gigpro/internal/models"
	"gigpro/internal/services"
)

type MockInvoiceService struct {
	mock.Mock
}

func (m *MockInvoiceService) Create(ctx context.Context, ownerID uuid.UUID, input *services.CreateInvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) List(ctx context.Context, ownerID uuid.UUID) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListByStatus(ctx context.Context, ownerID uuid.UUID, status string) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID, status)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*models.Invoice, error) {
	args := m.Called(ctx, ownerID, limit)
	return args.Get(0).([]*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Update(ctx context.Context, ownerID, id uuid.UUID, input *services.UpdateInvoiceInput) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, newStatus string) (*models.Invoice, error) {
	args := m.Called(ctx, ownerID, id, newStatus)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Invoice), args.Error(1)
}

func (m *MockInvoiceService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockInvoiceService) AggregateTotals(ctx context.Context, ownerID uuid.UUID) (*models.InvoiceTotals, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InvoiceTotals), args.Error(1)
}

func (m *MockInvoiceService) ClientTotals(ctx context.Context, ownerID, clientID uuid.UUID) (*models.ClientTotals, error) {
	args := m.Called(ctx, ownerID, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ClientTotals), args.Error(1)
}

// newTestContext builds an echo context carrying the authenticated user, the
// way the JWT middleware does in production.
func newTestContext(method, target string, body string, userID uuid.UUID) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(common.WithUserID(req.Context(), userID))
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestGetInvoice_ForbiddenWhenNotOwner(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	userID := uuid.New()
	invoiceID := uuid.New()
	svc.On("GetByID", mock.Anything, userID, invoiceID).Return(nil, common.ErrForbidden)

	c, rec := newTestContext(http.MethodGet, "/api/invoices/"+invoiceID.String(), "", userID)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	assert.NoError(t, h.GetInvoice(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetInvoice_NotFound(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	userID := uuid.New()
	invoiceID := uuid.New()
	svc.On("GetByID", mock.Anything, userID, invoiceID).Return(nil, common.ErrNotFound)

	c, rec := newTestContext(http.MethodGet, "/api/invoices/"+invoiceID.String(), "", userID)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	assert.NoError(t, h.GetInvoice(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetInvoice_PresentsDerivedOverdue(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	userID := uuid.New()
	invoiceID := uuid.New()
	invoice := &models.Invoice{
		ID:      invoiceID,
		UserID:  userID,
		Status:  models.StatusSent,
		DueDate: time.Now().UTC().AddDate(0, 0, -3),
		Amount:  500,
	}
	svc.On("GetByID", mock.Anything, userID, invoiceID).Return(invoice, nil)

	c, rec := newTestContext(http.MethodGet, "/api/invoices/"+invoiceID.String(), "", userID)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	assert.NoError(t, h.GetInvoice(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.Invoice
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, models.StatusOverdue, got.Status)
	// The stored record was not mutated by presentation.
	assert.Equal(t, models.StatusSent, invoice.Status)
}

func TestUpdateInvoiceStatus_InvalidTransitionIs400(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	userID := uuid.New()
	invoiceID := uuid.New()
	svc.On("UpdateStatus", mock.Anything, userID, invoiceID, models.StatusDraft).
		Return(nil, &common.InvalidTransitionError{From: models.StatusPaid, To: models.StatusDraft})

	c, rec := newTestContext(http.MethodPut, "/api/invoices/"+invoiceID.String()+"/status",
		`{"status":"draft"}`, userID)
	c.SetParamNames("id")
	c.SetParamValues(invoiceID.String())

	assert.NoError(t, h.UpdateInvoiceStatus(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_TRANSITION")
}

func TestCreateInvoice_RequiresClient(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	c, rec := newTestContext(http.MethodPost, "/api/invoices",
		`{"due_date":"2025-04-01","amount":500}`, uuid.New())

	assert.NoError(t, h.CreateInvoice(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetInvoiceTotals(t *testing.T) {
	svc := new(MockInvoiceService)
	h := NewInvoiceHandlers(svc, nil, nil, nil, nil, "invoices")

	userID := uuid.New()
	svc.On("AggregateTotals", mock.Anything, userID).Return(&models.InvoiceTotals{
		PaidTotal:    400,
		PendingTotal: 500,
		OverdueTotal: 300,
		SentCount:    2,
		PaidCount:    1,
		OverdueCount: 1,
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/invoices/totals", "", userID)

	assert.NoError(t, h.GetInvoiceTotals(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var got models.InvoiceTotals
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 500.0, got.PendingTotal)
	assert.Equal(t, 300.0, got.OverdueTotal)
}
