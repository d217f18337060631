package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"gigpro/internal/common"
	"gigpro/internal/services"
)

// ClientHandlers handles HTTP requests for clients.
type ClientHandlers struct {
	clientService  services.ClientService
	invoiceService services.InvoiceService
}

// NewClientHandlers creates a new client handlers instance.
func NewClientHandlers(clientService services.ClientService, invoiceService services.InvoiceService) *ClientHandlers {
	return &ClientHandlers{
		clientService:  clientService,
		invoiceService: invoiceService,
	}
}

type clientRequest struct {
	Name  *string  `json:"name"`
	Email *string  `json:"email"`
	Phone *string  `json:"phone"`
	Type  *string  `json:"type"`
	Notes *string  `json:"notes"`
	Tags  []string `json:"tags"`
}

// CreateClient handles POST /clients
func (h *ClientHandlers) CreateClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Name == nil {
		return common.SendValidationError(c, "name", "is required")
	}

	client, err := h.clientService.Create(ctx, userID, &services.CreateClientInput{
		Name:  *req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Type:  req.Type,
		Notes: req.Notes,
		Tags:  req.Tags,
	})
	if err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.JSON(http.StatusCreated, client)
}

// GetClient handles GET /clients/:id
func (h *ClientHandlers) GetClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	client, err := h.clientService.GetByID(ctx, userID, clientID)
	if err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.JSON(http.StatusOK, client)
}

// ListClients handles GET /clients
func (h *ClientHandlers) ListClients(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clients, err := h.clientService.List(ctx, userID)
	if err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.JSON(http.StatusOK, clients)
}

// UpdateClient handles PUT /clients/:id
func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req clientRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	client, err := h.clientService.Update(ctx, userID, clientID, &services.UpdateClientInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Type:  req.Type,
		Notes: req.Notes,
		Tags:  req.Tags,
	})
	if err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.JSON(http.StatusOK, client)
}

// DeleteClient handles DELETE /clients/:id
func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.clientService.Delete(ctx, userID, clientID); err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// GetClientTotals handles GET /clients/:id/totals
// Returns the gig count and summed paid invoices for a single client.
func (h *ClientHandlers) GetClientTotals(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	clientID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	totals, err := h.invoiceService.ClientTotals(ctx, userID, clientID)
	if err != nil {
		return common.WriteError(c, "client", err)
	}
	return c.JSON(http.StatusOK, totals)
}
