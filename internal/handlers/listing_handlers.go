package handlers

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"pgpathfinder/internal/common"
	"pgpathfinder/internal/models"
	"pgpathfinder/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// ImageFormField is the multipart field carrying listing images
const ImageFormField = "images"

// ListingHandlers handles browse, owner and admin listing endpoints
type ListingHandlers struct {
	listingService services.ListingService
	imageService   services.ImageService
	contactService services.ContactService
}

func NewListingHandlers(listingService services.ListingService, imageService services.ImageService, contactService services.ContactService) *ListingHandlers {
	return &ListingHandlers{
		listingService: listingService,
		imageService:   imageService,
		contactService: contactService,
	}
}

func parseSearchFilter(c echo.Context) (*models.ListingSearchFilter, error) {
	filter := &models.ListingSearchFilter{
		City:     strings.TrimSpace(c.QueryParam("city")),
		FoodType: strings.TrimSpace(c.QueryParam("food_type")),
		Search:   common.TrimSearchQuery(c.QueryParam("q")),
	}

	var err error
	if filter.MinBeds, err = common.QueryInt(c, "min_beds", 0); err != nil {
		return nil, &services.ValidationError{Field: "min_beds", Message: err.Error()}
	}

	floats := []struct {
		name string
		dst  *float64
	}{
		{"min_rent", &filter.MinRent},
		{"max_rent", &filter.MaxRent},
	}
	for _, f := range floats {
		v, err := common.QueryFloat(c, f.name)
		if err != nil {
			return nil, &services.ValidationError{Field: f.name, Message: err.Error()}
		}
		if v != nil {
			*f.dst = *v
		}
	}

	bools := []struct {
		name string
		dst  **bool
	}{
		{"has_ac", &filter.HasAC},
		{"has_wifi", &filter.HasWifi},
		{"has_washing_machine", &filter.HasWashingMachine},
	}
	for _, b := range bools {
		v, err := common.QueryBool(c, b.name)
		if err != nil {
			return nil, &services.ValidationError{Field: b.name, Message: err.Error()}
		}
		if v != nil && *v {
			*b.dst = v
		}
	}

	return filter, nil
}

// Browse godoc
// @Summary Browse approved, active listings
// @Tags listings
// @Produce json
// @Param city query string false "City (case-insensitive substring)"
// @Param min_beds query int false "Minimum beds"
// @Param min_rent query number false "Minimum rent"
// @Param max_rent query number false "Maximum rent"
// @Param has_ac query bool false "Has AC"
// @Param has_wifi query bool false "Has WiFi"
// @Param has_washing_machine query bool false "Has washing machine"
// @Param food_type query string false "veg, non_veg or both"
// @Param q query string false "Search title, address or city"
// @Success 200 {object} models.BrowseResult
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/listings [get]
func (h *ListingHandlers) Browse(c echo.Context) error {
	filter, err := parseSearchFilter(c)
	if err != nil {
		return respondError(c, err)
	}

	result, err := h.listingService.Browse(c.Request().Context(), filter)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

// GetListing godoc
// @Summary Get a listing
// @Description Tenants receive the public view. Owners and admins may see hidden listings.
// @Tags listings
// @Param id path string true "Listing ID"
// @Success 200 {object} models.PublicListing
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/listings/{id} [get]
func (h *ListingHandlers) GetListing(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	viewer := optionalActor(c)
	listing, err := h.listingService.Get(c.Request().Context(), viewer, id)
	if err != nil {
		return respondError(c, err)
	}

	if viewer != nil && (viewer.ID == listing.OwnerID || viewer.IsAdmin()) {
		return c.JSON(http.StatusOK, listing)
	}
	return c.JSON(http.StatusOK, listing.Public())
}

// GetContact godoc
// @Summary Owner contact details for a listing
// @Description Requires sign in. The database decides whether details are disclosed.
// @Tags listings
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} models.ContactInfo
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/listings/{id}/contact [get]
func (h *ListingHandlers) GetContact(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	info, err := h.contactService.GetContactInfo(c.Request().Context(), actorID(optionalActor(c)), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, info)
}

// MyListings godoc
// @Summary Listings owned by the caller
// @Tags owner
// @Security BearerAuth
// @Success 200 {array} models.Listing
// @Router /v1/owner/listings [get]
func (h *ListingHandlers) MyListings(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	listings, err := h.listingService.ListByOwner(c.Request().Context(), actor)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listings)
}

// CreateListing godoc
// @Summary Submit a listing for approval
// @Tags owner
// @Security BearerAuth
// @Accept json
// @Param body body models.ListingInput true "Listing"
// @Success 201 {object} models.Listing
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/owner/listings [post]
func (h *ListingHandlers) CreateListing(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	var input models.ListingInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	listing, err := h.listingService.Create(c.Request().Context(), actor, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, listing)
}

// UpdateListing godoc
// @Summary Edit a listing
// @Tags owner
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Param body body models.ListingInput true "Listing"
// @Success 200 {object} models.Listing
// @Router /v1/owner/listings/{id} [put]
func (h *ListingHandlers) UpdateListing(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	var input models.ListingInput
	if err := c.Bind(&input); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}

	listing, err := h.listingService.Update(c.Request().Context(), actor, id, &input)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

type setActiveRequest struct {
	IsActive *bool `json:"is_active"`
}

// SetActive godoc
// @Summary Show or hide an owned listing
// @Tags owner
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Router /v1/owner/listings/{id}/active [patch]
func (h *ListingHandlers) SetActive(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	var req setActiveRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request body")
	}
	if req.IsActive == nil {
		return common.SendValidationError(c, "is_active", "is required")
	}

	listing, err := h.listingService.SetActive(c.Request().Context(), actor, id, *req.IsActive)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

// DeleteListing godoc
// @Summary Delete a listing and its images
// @Tags owner, admin
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 204
// @Router /v1/owner/listings/{id} [delete]
// @Router /v1/admin/listings/{id} [delete]
func (h *ListingHandlers) DeleteListing(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	if err := h.listingService.Delete(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UploadImages godoc
// @Summary Upload listing images
// @Description Up to 10 images per listing, 10MB each. The batch is all or nothing.
// @Tags owner
// @Security BearerAuth
// @Accept multipart/form-data
// @Param id path string true "Listing ID"
// @Param images formData file true "Image files"
// @Success 201 {array} models.ListingImage
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/owner/listings/{id}/images [post]
func (h *ListingHandlers) UploadImages(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return common.SendClientError(c, "Expected a multipart form")
	}
	headers := form.File[ImageFormField]
	if len(headers) == 0 {
		return common.SendValidationError(c, ImageFormField, "at least one image is required")
	}

	files := make([]services.ImageFile, 0, len(headers))
	var opened []multipart.File
	defer func() {
		for _, f := range opened {
			f.Close()
		}
	}()

	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return common.SendClientError(c, fmt.Sprintf("Unable to read %s", fh.Filename))
		}
		opened = append(opened, f)

		contentType, err := sniffContentType(f)
		if err != nil {
			return common.SendClientError(c, fmt.Sprintf("Unable to read %s", fh.Filename))
		}
		files = append(files, services.ImageFile{
			Name:        fh.Filename,
			Size:        fh.Size,
			ContentType: contentType,
			Reader:      f,
		})
	}

	images, err := h.imageService.Upload(c.Request().Context(), actor, id, files)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, images)
}

// sniffContentType detects the type from the leading bytes and rewinds
func sniffContentType(f multipart.File) (string, error) {
	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return "", err
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(buf[:n]), nil
}

// DeleteImage godoc
// @Summary Delete one listing image
// @Tags owner
// @Security BearerAuth
// @Param id path string true "Image ID"
// @Success 204
// @Router /v1/owner/images/{id} [delete]
func (h *ListingHandlers) DeleteImage(c echo.Context) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	if err := h.imageService.Delete(c.Request().Context(), actor, id); err != nil {
		return respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// AdminListings godoc
// @Summary All listings
// @Tags admin
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} models.Listing
// @Router /v1/admin/listings [get]
func (h *ListingHandlers) AdminListings(c echo.Context) error {
	var status *string
	if s := strings.TrimSpace(c.QueryParam("status")); s != "" {
		status = &s
	}
	return h.adminList(c, status)
}

// PendingListings godoc
// @Summary Listings awaiting review
// @Tags admin
// @Security BearerAuth
// @Success 200 {array} models.Listing
// @Router /v1/admin/listings/pending [get]
func (h *ListingHandlers) PendingListings(c echo.Context) error {
	status := models.StatusPending
	return h.adminList(c, &status)
}

func (h *ListingHandlers) adminList(c echo.Context, status *string) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}

	listings, err := h.listingService.ListAll(c.Request().Context(), actor, status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listings)
}

// ApproveListing godoc
// @Summary Approve a pending listing
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/admin/listings/{id}/approve [post]
func (h *ListingHandlers) ApproveListing(c echo.Context) error {
	return h.review(c, h.listingService.Approve)
}

// RejectListing godoc
// @Summary Reject a pending listing
// @Tags admin
// @Security BearerAuth
// @Param id path string true "Listing ID"
// @Success 200 {object} models.Listing
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/admin/listings/{id}/reject [post]
func (h *ListingHandlers) RejectListing(c echo.Context) error {
	return h.review(c, h.listingService.Reject)
}

type reviewFunc func(ctx context.Context, actor models.Actor, id uuid.UUID) (*models.Listing, error)

func (h *ListingHandlers) review(c echo.Context, fn reviewFunc) error {
	actor, err := currentActor(c)
	if err != nil {
		return respondError(c, err)
	}
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return invalidParam(c, "id", err)
	}

	listing, err := fn(c.Request().Context(), actor, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, listing)
}

func actorID(a *models.Actor) *uuid.UUID {
	if a == nil {
		return nil
	}
	return &a.ID
}
