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

// EventHandler handles event and announcement endpoints.
type EventHandler struct {
	service *service.EventService
	images  *storage.ImageStore
}

// NewEventHandler creates a new event handler.
func NewEventHandler(svc *service.EventService, images *storage.ImageStore) *EventHandler {
	return &EventHandler{service: svc, images: images}
}

// PublicFeed godoc
// @Summary Landing page event feed
// @Description Up to six upcoming or ongoing events, soonest first. No authentication required.
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/public [get]
func (h *EventHandler) PublicFeed(c *gin.Context) {
	events, err := h.service.PublicFeed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// List godoc
// @Summary List events visible to the signed-in user
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status" Enums(Upcoming, Ongoing, Finished)
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.service.List(c.Request.Context(), userFromContext(c), models.EventStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Get godoc
// @Summary Get an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Create godoc
// @Summary Create an event
// @Description Accepts JSON or multipart/form-data with up to five image files.
// @Tags Events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param payload body models.EventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /events [post]
func (h *EventHandler) Create(c *gin.Context) {
	req, uploaded, err := h.bindEventRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.service.Create(c.Request.Context(), userFromContext(c), *req)
	if err != nil {
		rollbackUploads(h.images, uploaded)
		response.Error(c, err)
		return
	}
	response.Created(c, event)
}

// Update godoc
// @Summary Update an event
// @Tags Events
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param payload body models.EventRequest true "Event payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [put]
func (h *EventHandler) Update(c *gin.Context) {
	req, uploaded, err := h.bindEventRequest(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	event, err := h.service.Update(c.Request.Context(), c.Param("id"), *req)
	if err != nil {
		rollbackUploads(h.images, uploaded)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}

// Archive godoc
// @Summary Archive an event
// @Tags Events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /events/{id} [delete]
func (h *EventHandler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// bindEventRequest decodes a JSON or multipart payload. For multipart, the
// form fields are parsed and validated before any file is stored; the second
// return value lists freshly stored image URLs so callers can roll them back
// when the request is rejected later.
func (h *EventHandler) bindEventRequest(c *gin.Context) (*models.EventRequest, []string, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		var req models.EventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload")
		}
		return &req, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid multipart payload")
	}

	req := models.EventRequest{
		Title:          c.PostForm("title"),
		Content:        c.PostForm("content"),
		TargetAudience: models.EventAudience(c.PostForm("targetAudience")),
		Location:       c.PostForm("location"),
		Status:         models.EventStatus(c.PostForm("status")),
	}
	if req.TargetCourses, err = parseListField("targetCourses", c.PostForm("targetCourses")); err != nil {
		return nil, nil, err
	}
	if req.TargetYears, err = parseListField("targetYears", c.PostForm("targetYears")); err != nil {
		return nil, nil, err
	}
	if req.TargetSections, err = parseListField("targetSections", c.PostForm("targetSections")); err != nil {
		return nil, nil, err
	}
	if req.Images, err = parseListField("existingImages", c.PostForm("existingImages")); err != nil {
		return nil, nil, err
	}
	if raw := c.PostForm("eventDate"); raw != "" {
		ts, err := parseFormDate(raw)
		if err != nil {
			return nil, nil, appErrors.Clone(appErrors.ErrValidation, "invalid event date")
		}
		req.EventDate = ts
	}

	urls, err := storeUploadedImages(h.images, form.File["images"], "events")
	if err != nil {
		return nil, nil, err
	}
	req.Images = append(req.Images, urls...)
	return &req, urls, nil
}
