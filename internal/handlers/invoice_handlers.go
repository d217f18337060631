package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gigpro/internal/common"
	"gigpro/internal/document"
	"gigpro/internal/models"
	"gigpro/internal/repositories"
	"gigpro/internal/services"
)

const pdfURLValidity = 24 * time.Hour

// InvoiceHandlers handles HTTP requests for invoices.
type InvoiceHandlers struct {
	invoiceService services.InvoiceService
	clientService  services.ClientService
	gigService     services.GigService
	userRepo       repositories.UserRepository
	storageSvc     services.StorageService
	invoiceBucket  string
}

// NewInvoiceHandlers creates a new invoice handlers instance.
func NewInvoiceHandlers(invoiceService services.InvoiceService, clientService services.ClientService, gigService services.GigService, userRepo repositories.UserRepository, storageSvc services.StorageService, invoiceBucket string) *InvoiceHandlers {
	return &InvoiceHandlers{
		invoiceService: invoiceService,
		clientService:  clientService,
		gigService:     gigService,
		userRepo:       userRepo,
		storageSvc:     storageSvc,
		invoiceBucket:  invoiceBucket,
	}
}

type invoiceRequest struct {
	ClientID   *string              `json:"client_id"`
	GigID      *string              `json:"gig_id"`
	IssuedDate *string              `json:"issued_date"`
	DueDate    *string              `json:"due_date"`
	Amount     *float64             `json:"amount"`
	Items      []models.InvoiceItem `json:"items"`
	Notes      *string              `json:"notes"`
}

func parseOptionalUUID(raw *string, field string) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(*raw, field)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseOptionalDate(raw *string, field string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := common.ParseDate(*raw, field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// presentInvoice returns a copy whose status is the effective status at
// response time, so past-due invoices read as overdue without ever being
// written that way.
func presentInvoice(inv *models.Invoice) *models.Invoice {
	out := *inv
	out.Status = inv.EffectiveStatus(time.Now().UTC())
	return &out
}

func presentInvoices(invoices []*models.Invoice) []*models.Invoice {
	out := make([]*models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		out = append(out, presentInvoice(inv))
	}
	return out
}

// CreateInvoice handles POST /invoices
func (h *InvoiceHandlers) CreateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.ClientID == nil || *req.ClientID == "" {
		return common.SendValidationError(c, "client_id", "is required")
	}
	if req.DueDate == nil || *req.DueDate == "" {
		return common.SendValidationError(c, "due_date", "is required")
	}

	clientID, err := common.ValidateUUID(*req.ClientID, "client_id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	gigID, err := parseOptionalUUID(req.GigID, "gig_id")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	issuedDate, err := parseOptionalDate(req.IssuedDate, "issued_date")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	dueDate, err := common.ParseDate(*req.DueDate, "due_date")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}

	invoice, err := h.invoiceService.Create(ctx, userID, &services.CreateInvoiceInput{
		ClientID:   clientID,
		GigID:      gigID,
		IssuedDate: issuedDate,
		DueDate:    dueDate,
		Amount:     req.Amount,
		Items:      req.Items,
		Notes:      req.Notes,
	})
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusCreated, presentInvoice(invoice))
}

// GetInvoice handles GET /invoices/:id
func (h *InvoiceHandlers) GetInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoice(invoice))
}

// ListInvoices handles GET /invoices
func (h *InvoiceHandlers) ListInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoices, err := h.invoiceService.List(ctx, userID)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoices(invoices))
}

// ListInvoicesByStatus handles GET /invoices/status/:status
// Filters on the stored status; the response still presents effective
// statuses, so a past-due sent invoice shows as overdue in the sent list.
func (h *InvoiceHandlers) ListInvoicesByStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoices, err := h.invoiceService.ListByStatus(ctx, userID, c.Param("status"))
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoices(invoices))
}

// ListRecentInvoices handles GET /invoices/recent?limit=N
func (h *InvoiceHandlers) ListRecentInvoices(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			return common.SendValidationError(c, "limit", "must be between 1 and 100")
		}
		limit = n
	}

	invoices, err := h.invoiceService.ListRecent(ctx, userID, limit)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoices(invoices))
}

// GetInvoiceTotals handles GET /invoices/totals
func (h *InvoiceHandlers) GetInvoiceTotals(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	totals, err := h.invoiceService.AggregateTotals(ctx, userID)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, totals)
}

// UpdateInvoice handles PUT /invoices/:id
func (h *InvoiceHandlers) UpdateInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req invoiceRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	clientID, err := parseOptionalUUID(req.ClientID, "client_id")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	gigID, err := parseOptionalUUID(req.GigID, "gig_id")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	issuedDate, err := parseOptionalDate(req.IssuedDate, "issued_date")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	dueDate, err := parseOptionalDate(req.DueDate, "due_date")
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}

	invoice, err := h.invoiceService.Update(ctx, userID, invoiceID, &services.UpdateInvoiceInput{
		ClientID:   clientID,
		GigID:      gigID,
		IssuedDate: issuedDate,
		DueDate:    dueDate,
		Amount:     req.Amount,
		Items:      req.Items,
		Notes:      req.Notes,
	})
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoice(invoice))
}

// UpdateInvoiceStatus handles PUT /invoices/:id/status
func (h *InvoiceHandlers) UpdateInvoiceStatus(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	invoice, err := h.invoiceService.UpdateStatus(ctx, userID, invoiceID, req.Status)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.JSON(http.StatusOK, presentInvoice(invoice))
}

// DeleteInvoice handles DELETE /invoices/:id
func (h *InvoiceHandlers) DeleteInvoice(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.invoiceService.Delete(ctx, userID, invoiceID); err != nil {
		return common.WriteError(c, "invoice", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GenerateInvoicePDF handles POST /invoices/:id/pdf
// Builds the invoice document, renders it and stores the PDF in object
// storage, returning a presigned download URL.
func (h *InvoiceHandlers) GenerateInvoicePDF(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	invoiceID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	invoice, err := h.invoiceService.GetByID(ctx, userID, invoiceID)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.WriteError(c, "user", err)
	}

	var client *models.Client
	if invoice.ClientID != nil {
		client, err = h.clientService.GetByID(ctx, userID, *invoice.ClientID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return common.WriteError(c, "client", err)
		}
	}

	var gig *models.Gig
	if invoice.GigID != nil {
		gig, err = h.gigService.GetByID(ctx, userID, *invoice.GigID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return common.WriteError(c, "gig", err)
		}
	}

	doc, err := document.Build(invoice, user, client, gig)
	if err != nil {
		return common.WriteError(c, "invoice", err)
	}

	pdfBytes, err := document.RenderPDF(doc)
	if err != nil {
		log.Printf("generate invoice pdf: %v", err)
		return common.SendServerError(c, "Failed to render PDF")
	}

	objectName := fmt.Sprintf("invoices/%s/%s.pdf", userID.String(), invoice.InvoiceNumber)
	if err := h.storageSvc.Upload(ctx, h.invoiceBucket, objectName, bytes.NewReader(pdfBytes), int64(len(pdfBytes)), "application/pdf"); err != nil {
		log.Printf("store invoice pdf: %v", err)
		return common.SendServerError(c, "Failed to store PDF")
	}

	url, err := h.storageSvc.GetPresignedURL(h.invoiceBucket, objectName, pdfURLValidity)
	if err != nil {
		return common.SendServerError(c, "Failed to generate download URL")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"invoice_number": invoice.InvoiceNumber,
		"pdf_url":        url,
	})
}
