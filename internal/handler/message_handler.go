package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iccthub/portal-api/internal/models"
	"github.com/iccthub/portal-api/internal/service"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
	"github.com/iccthub/portal-api/pkg/response"
)

// MessageHandler handles internal mail endpoints.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new message handler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// Inbox godoc
// @Summary List received messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param label query string false "Label filter"
// @Param search query string false "Subject/body search"
// @Success 200 {object} response.Envelope
// @Router /messages/inbox [get]
func (h *MessageHandler) Inbox(c *gin.Context) {
	filter := models.MessageFilter{Label: c.Query("label"), Search: c.Query("search")}
	messages, err := h.service.Inbox(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// Sent godoc
// @Summary List sent messages
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param label query string false "Label filter"
// @Param search query string false "Subject/body search"
// @Success 200 {object} response.Envelope
// @Router /messages/sent [get]
func (h *MessageHandler) Sent(c *gin.Context) {
	filter := models.MessageFilter{Label: c.Query("label"), Search: c.Query("search")}
	messages, err := h.service.Sent(c.Request.Context(), userFromContext(c), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, messages, nil)
}

// Get godoc
// @Summary Read a message
// @Description Opening a received message marks it read.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages/{id} [get]
func (h *MessageHandler) Get(c *gin.Context) {
	message, err := h.service.Get(c.Request.Context(), userFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, message, nil)
}

// Send godoc
// @Summary Send a message
// @Description Addresses the recipient by email or student ID.
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.SendMessageRequest true "Message payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	var req models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	message, err := h.service.Send(c.Request.Context(), userFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, message)
}

// MarkRead godoc
// @Summary Mark a received message as read
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204 "No Content"
// @Failure 403 {object} response.Envelope
// @Router /messages/{id}/read [patch]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	if err := h.service.MarkRead(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// SetLabels godoc
// @Summary Replace the labels of a message
// @Tags Messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param payload body models.MessageLabelsRequest true "Labels payload"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /messages/{id}/labels [put]
func (h *MessageHandler) SetLabels(c *gin.Context) {
	var req models.MessageLabelsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SetLabels(c.Request.Context(), userFromContext(c), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Archive godoc
// @Summary Archive your copy of a message
// @Description Hides the message from your listings only; the other party keeps theirs.
// @Tags Messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /messages/{id} [delete]
func (h *MessageHandler) Archive(c *gin.Context) {
	if err := h.service.Archive(c.Request.Context(), userFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
