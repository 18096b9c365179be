package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	reportapp "github.com/fleetops/backend/internal/application/report"
)

// ReportHandler handles reporting endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// SummaryRequest is the report period query
type SummaryRequest struct {
	From *time.Time `form:"from" time_format:"2006-01-02"`
	To   *time.Time `form:"to" time_format:"2006-01-02"`
}

// Summary returns the financial and fleet summary for a period
func (h *ReportHandler) Summary(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid report parameters")
		return
	}

	summary, err := h.reportService.Summary(c.Request.Context(), actor, reportapp.SummaryRequest{
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// SummaryPDF renders the summary as a downloadable PDF
func (h *ReportHandler) SummaryPDF(c *gin.Context) {
	actor, ok := h.actor(c)
	if !ok {
		return
	}
	var req SummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, "Invalid report parameters")
		return
	}

	pdf, err := h.reportService.SummaryPDF(c.Request.Context(), actor, reportapp.SummaryRequest{
		From: req.From,
		To:   req.To,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("summary-%s.pdf", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
