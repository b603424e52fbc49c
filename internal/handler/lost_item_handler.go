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

// LostItemHandler handles lost item endpoints.
type LostItemHandler struct {
	service *service.LostItemService
	images  *storage.ImageStore
}

// NewLostItemHandler creates a new lost item handler.
func NewLostItemHandler(svc *service.LostItemService, images *storage.ImageStore) *LostItemHandler {
	return &LostItemHandler{service: svc, images: images}
}

// List godoc
// @Summary List active lost items
// @Tags LostItems
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status filter"
// @Param category query string false "Category filter"
// @Success 200 {object} response.Envelope
// @Router /lost-items [get]
func (h *LostItemHandler) List(c *gin.Context) {
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
// @Summary Get a lost item
// @Tags LostItems
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lost item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /lost-items/{id} [get]
func (h *LostItemHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Post a lost item
// @Tags LostItems
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body models.LostItemRequest true "Lost item payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /lost-items [post]
func (h *LostItemHandler) Create(c *gin.Context) {
	req, uploaded, err := h.bindLostItemRequest(c)
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
// @Summary Update a lost item
// @Description Only the poster or an admin may update.
// @Tags LostItems
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lost item ID"
// @Param payload body models.LostItemRequest true "Lost item payload"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /lost-items/{id} [put]
func (h *LostItemHandler) Update(c *gin.Context) {
	req, uploaded, err := h.bindLostItemRequest(c)
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
// @Summary Archive a lost item
// @Description Only the poster or an admin may archive.
// @Tags LostItems
// @Produce json
// @Security BearerAuth
// @Param id path string true "Lost item ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Router /lost-items/{id} [delete]
func (h *LostItemHandler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// bindLostItemRequest decodes a JSON or multipart payload. The second return
// value lists freshly stored image URLs so callers can roll them back when
// the request is rejected later.
func (h *LostItemHandler) bindLostItemRequest(c *gin.Context) (*models.LostItemRequest, []string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req models.LostItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
		}
		return &req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}

	req := models.LostItemRequest{
		Description:  c.PostForm("description"),
		LocationLost: c.PostForm("locationLost"),
		Category:     c.PostForm("category"),
		OwnerName:    c.PostForm("ownerName"),
		OwnerContact: c.PostForm("ownerContact"),
		Status:       c.PostForm("status"),
	}
	if req.Images, err = parseListField("existingImages", c.PostForm("existingImages")); err != nil {
		return nil, nil, err
	}
	if raw := c.PostForm("dateLost"); raw != "" {
		ts, err := parseFormDate(raw)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid date lost")
		}
		req.DateLost = ts
	}

	urls, err := storeUploadedImages(h.images, form.File["images"], "lost-items")
	if err != nil {
		return nil, nil, err
	}
	req.Images = append(req.Images, urls...)
	return &req, urls, nil
}
