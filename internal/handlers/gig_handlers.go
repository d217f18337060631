package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"gigpro/internal/common"
	"gigpro/internal/services"
)

// GigHandlers handles HTTP requests for gigs.
type GigHandlers struct {
	gigService services.GigService
}

// NewGigHandlers creates a new gig handlers instance.
func NewGigHandlers(gigService services.GigService) *GigHandlers {
	return &GigHandlers{gigService: gigService}
}

type gigRequest struct {
	ClientID    *string  `json:"client_id"`
	Title       *string  `json:"title"`
	Date        *string  `json:"date"`
	StartTime   *string  `json:"start_time"`
	EndTime     *string  `json:"end_time"`
	Location    *string  `json:"location"`
	Fee         *float64 `json:"fee"`
	Notes       *string  `json:"notes"`
	ReminderSet *bool    `json:"reminder_set"`
}

func (r *gigRequest) clientID() (*uuid.UUID, error) {
	if r.ClientID == nil || *r.ClientID == "" {
		return nil, nil
	}
	id, err := common.ValidateUUID(*r.ClientID, "client_id")
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func (r *gigRequest) date() (*time.Time, error) {
	if r.Date == nil || *r.Date == "" {
		return nil, nil
	}
	d, err := common.ParseDate(*r.Date, "date")
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateGig handles POST /gigs
func (h *GigHandlers) CreateGig(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req gigRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if req.Title == nil {
		return common.SendValidationError(c, "title", "is required")
	}

	clientID, err := req.clientID()
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	date, err := req.date()
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	if date == nil {
		return common.SendValidationError(c, "date", "is required")
	}

	gig, err := h.gigService.Create(ctx, userID, &services.CreateGigInput{
		ClientID:    clientID,
		Title:       *req.Title,
		Date:        *date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Fee:         req.Fee,
		Notes:       req.Notes,
		ReminderSet: req.ReminderSet,
	})
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusCreated, gig)
}

// GetGig handles GET /gigs/:id
func (h *GigHandlers) GetGig(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	gigID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	gig, err := h.gigService.GetByID(ctx, userID, gigID)
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusOK, gig)
}

// ListGigs handles GET /gigs
func (h *GigHandlers) ListGigs(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	gigs, err := h.gigService.List(ctx, userID)
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusOK, gigs)
}

// ListGigsByMonth handles GET /gigs/month/:year/:month
// The month path segment is 1-indexed; the service works 0-indexed.
func (h *GigHandlers) ListGigsByMonth(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	year, err := strconv.Atoi(c.Param("year"))
	if err != nil || year < 1970 || year > 9999 {
		return common.SendValidationError(c, "year", "must be a four digit year")
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil || month < 1 || month > 12 {
		return common.SendValidationError(c, "month", "must be between 1 and 12")
	}

	gigs, err := h.gigService.ListByMonth(ctx, userID, year, month-1)
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusOK, gigs)
}

// ListUpcomingGigs handles GET /gigs/upcoming?limit=N
func (h *GigHandlers) ListUpcomingGigs(c echo.Context) error {
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

	gigs, err := h.gigService.ListUpcoming(ctx, userID, limit)
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusOK, gigs)
}

// UpdateGig handles PUT /gigs/:id
func (h *GigHandlers) UpdateGig(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	gigID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	var req gigRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	clientID, err := req.clientID()
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	date, err := req.date()
	if err != nil {
		return common.WriteError(c, "gig", err)
	}

	gig, err := h.gigService.Update(ctx, userID, gigID, &services.UpdateGigInput{
		ClientID:    clientID,
		Title:       req.Title,
		Date:        date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Location:    req.Location,
		Fee:         req.Fee,
		Notes:       req.Notes,
		ReminderSet: req.ReminderSet,
	})
	if err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.JSON(http.StatusOK, gig)
}

// DeleteGig handles DELETE /gigs/:id
func (h *GigHandlers) DeleteGig(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	gigID, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	if err := h.gigService.Delete(ctx, userID, gigID); err != nil {
		return common.WriteError(c, "gig", err)
	}
	return c.NoContent(http.StatusNoContent)
}
