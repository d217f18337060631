package handlers

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"gigpro/internal/common"
	"gigpro/internal/repositories"
	"gigpro/internal/services"
)

const (
	maxLogoSize     = 5 * 1024 * 1024
	logoURLValidity = 7 * 24 * time.Hour
)

// UserHandlers handles the business profile endpoints.
type UserHandlers struct {
	userRepo   repositories.UserRepository
	storageSvc services.StorageService
	logoBucket string
}

// NewUserHandlers creates a new user handlers instance.
func NewUserHandlers(userRepo repositories.UserRepository, storageSvc services.StorageService, logoBucket string) *UserHandlers {
	return &UserHandlers{
		userRepo:   userRepo,
		storageSvc: storageSvc,
		logoBucket: logoBucket,
	}
}

// GetProfile handles GET /user
func (h *UserHandlers) GetProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.WriteError(c, "user", err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile handles PUT /user
// Absent fields keep their stored values; present fields replace them.
func (h *UserHandlers) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	var req struct {
		StageName           *string `json:"stage_name"`
		Phone               *string `json:"phone"`
		Location            *string `json:"location"`
		BusinessName        *string `json:"business_name"`
		TaxID               *string `json:"tax_id"`
		BusinessAddress     *string `json:"business_address"`
		Website             *string `json:"website"`
		PaymentTerms        *string `json:"payment_terms"`
		PaymentMethod       *string `json:"payment_method"`
		PaymentInstructions *string `json:"payment_instructions"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.WriteError(c, "user", err)
	}

	fields := []struct {
		name string
		src  *string
		dst  **string
	}{
		{"stage_name", req.StageName, &user.StageName},
		{"phone", req.Phone, &user.Phone},
		{"location", req.Location, &user.Location},
		{"business_name", req.BusinessName, &user.BusinessName},
		{"tax_id", req.TaxID, &user.TaxID},
		{"business_address", req.BusinessAddress, &user.BusinessAddress},
		{"website", req.Website, &user.Website},
		{"payment_terms", req.PaymentTerms, &user.PaymentTerms},
		{"payment_method", req.PaymentMethod, &user.PaymentMethod},
		{"payment_instructions", req.PaymentInstructions, &user.PaymentInstructions},
	}
	for _, f := range fields {
		if f.src == nil {
			continue
		}
		if err := common.ValidateOptionalString(f.src, f.name, 2000); err != nil {
			return common.WriteError(c, "user", err)
		}
		*f.dst = f.src
	}

	if err := h.userRepo.Update(ctx, user); err != nil {
		log.Printf("update profile: %v", err)
		return common.SendServerError(c, "Failed to update profile")
	}
	return c.JSON(http.StatusOK, user)
}

// UploadLogo handles POST /user/logo
// Stores the image in object storage and records a presigned URL on the
// profile for the invoice document header.
func (h *UserHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return common.SendValidationError(c, "logo", "file is required")
	}
	if fileHeader.Size > maxLogoSize {
		return common.SendValidationError(c, "logo", "file exceeds the 5MB limit")
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	contentType := ""
	switch ext {
	case ".png":
		contentType = "image/png"
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	default:
		return common.SendValidationError(c, "logo", "only PNG and JPEG images are accepted")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	objectName := fmt.Sprintf("logos/%s%s", userID.String(), ext)
	if err := h.storageSvc.Upload(ctx, h.logoBucket, objectName, src, fileHeader.Size, contentType); err != nil {
		log.Printf("upload logo: %v", err)
		return common.SendServerError(c, "Failed to store logo")
	}

	url, err := h.storageSvc.GetPresignedURL(h.logoBucket, objectName, logoURLValidity)
	if err != nil {
		return common.SendServerError(c, "Failed to generate logo URL")
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.WriteError(c, "user", err)
	}
	user.LogoURL = &url
	if err := h.userRepo.Update(ctx, user); err != nil {
		return common.SendServerError(c, "Failed to save logo URL")
	}

	return c.JSON(http.StatusOK, map[string]string{"logo_url": url})
}
