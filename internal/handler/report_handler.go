package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/iccthub/portal-api/internal/service"
	"github.com/iccthub/portal-api/pkg/response"
)

// ReportHandler exposes admin report downloads.
type ReportHandler struct {
	service *service.ReportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{service: svc}
}

// Download godoc
// @Summary Download a report
// @Description Renders the full history of the chosen resource, archived records included.
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param kind path string true "Report kind" Enums(users, events, lost-items, found-items)
// @Param format query string false "Output format" Enums(pdf, csv) default(pdf)
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /reports/{kind} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	format := c.DefaultQuery("format", service.FormatPDF)

	report, err := h.service.Generate(c.Request.Context(), c.Param("kind"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+report.FileName+`"`)
	c.Data(200, report.ContentType, report.Content)
}
