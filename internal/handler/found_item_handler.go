package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/iccthub/portal-api/internal/models"
	"github.com/iccthub/portal-api/internal/service"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
	"github.com/iccthub/portal-api/pkg/response"
	"github.com/iccthub/portal-api/pkg/storage"
)

// FoundItemHandler handles found item endpoints.
type FoundItemHandler struct {
	service *service.FoundItemService
	images  *storage.ImageStore
}

// NewFoundItemHandler creates a new found item handler.
func NewFoundItemHandler(svc *service.FoundItemService, images *storage.ImageStore) *FoundItemHandler {
	return &FoundItemHandler{service: svc, images: images}
}

// List godoc
// @Summary List active found items
// @Tags FoundItems
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /found-items [get]
func (h *FoundItemHandler) List(c *gin.Context) {
	filter := models.ItemFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
	}
	items, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get a found item
// @Tags FoundItems
// @Produce json
// @Security BearerAuth
// @Param id path string true "Found item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /found-items/{id} [get]
func (h *FoundItemHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Post a found item
// @Tags FoundItems
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body models.FoundItemRequest true "Found item payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /found-items [post]
func (h *FoundItemHandler) Create(c *gin.Context) {
	req, uploaded, err := h.bindFoundItemRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.service.Create(c.Request.Context(), userFromContext(c), *req)
	if err != nil {
		rollbackUploads(h.images, uploaded)
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update a found item
// @Description Only the poster or an admin may update.
// @Tags FoundItems
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Found item ID"
// @Param payload body models.FoundItemRequest true "Found item payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /found-items/{id} [put]
func (h *FoundItemHandler) Update(c *gin.Context) {
	req, uploaded, err := h.bindFoundItemRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	item, err := h.service.Update(c.Request.Context(), userFromContext(c), c.Param("id"), *req)
	if err != nil {
		rollbackUploads(h.images, uploaded)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Archive godoc
// @Summary Archive a found item
// @Description Only the poster or an admin may archive.
// @Tags FoundItems
// @Produce json
// @Security BearerAuth
// @Param id path string true "Found item ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Router /found-items/{id} [delete]
func (h *FoundItemHandler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// bindFoundItemRequest decodes a JSON or multipart payload. The second return
// value lists freshly stored image URLs so callers can roll them back when
// the request is rejected later.
func (h *FoundItemHandler) bindFoundItemRequest(c *gin.Context) (*models.FoundItemRequest, []string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req models.FoundItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
		}
		return &req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}

	req := models.FoundItemRequest{
		Description:   c.PostForm("description"),
		LocationFound: c.PostForm("locationFound"),
		Category:      c.PostForm("category"),
		FinderName:    c.PostForm("finderName"),
		FinderContact: c.PostForm("finderContact"),
		Status:        c.PostForm("status"),
	}
	if req.Images, err = parseListField("existingImages", c.PostForm("existingImages")); err != nil {
		return nil, nil, err
	}
	if raw := c.PostForm("dateFound"); raw != "" {
		ts, err := parseFormDate(raw)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date found")
		}
		req.DateFound = ts
	}

	urls, err := storeUploadedImages(h.images, form.File["images"], "found-items")
	if err != nil {
		return nil, nil, err
	}
	req.Images = append(req.Images, urls...)
	return &req, urls, nil
}
