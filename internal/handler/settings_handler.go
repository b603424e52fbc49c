package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iccthub/portal-api/internal/models"
	"github.com/iccthub/portal-api/internal/service"
	appErrors "github.com/iccthub/portal-api/pkg/errors"
	"github.com/iccthub/portal-api/pkg/response"
)

// SettingsHandler handles the settings page endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// SetDarkMode godoc
// @Summary Toggle dark mode
// @Tags Settings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body models.DarkModeRequest true "Preference payload"
// @Success 200 {object} response.Envelope
// @Router /settings/dark-mode [put]
func (h *SettingsHandler) SetDarkMode(c *gin.Context) {
	var req models.DarkModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	user, err := h.service.SetDarkMode(c.Request.Context(), userFromContext(c), req.Enabled)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user, nil)
}

// FAQs godoc
// @Summary List help page entries
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/faqs [get]
func (h *SettingsHandler) FAQs(c *gin.Context) {
	faqs, err := h.service.FAQs(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, faqs, nil)
}
