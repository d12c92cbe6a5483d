package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	reportapp "github.com/feedoffice/backend/internal/application/report"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SnapshotRunner regenerates the snapshots of one day
type SnapshotRunner interface {
	RunDaily(ctx context.Context, day time.Time) (reportapp.RunResult, error)
}

// ReportHandler serves reports and manual snapshot runs
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
	snapshots     SnapshotRunner
	loc           *time.Location
	now           func() time.Time
}

// NewReportHandler creates a new ReportHandler. Report dates are calendar
// days in loc.
func NewReportHandler(reportService *reportapp.ReportService, snapshots SnapshotRunner, loc *time.Location) *ReportHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportHandler{reportService: reportService, snapshots: snapshots, loc: loc, now: time.Now}
}

// reportDate reads ?date=YYYY-MM-DD, defaulting to today
func (h *ReportHandler) reportDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		now := h.now().In(h.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.loc), true
	}
	day, err := time.ParseInLocation(time.DateOnly, raw, h.loc)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(getRequestID(c),
			[]dto.ValidationDetail{{Field: "date", Message: "Must be a date in YYYY-MM-DD format"}}))
		return time.Time{}, false
	}
	return day, true
}

// Daily returns the stock and cash report of one day
func (h *ReportHandler) Daily(c *gin.Context) {
	day, ok := h.reportDate(c)
	if !ok {
		return
	}
	resp, err := h.reportService.DailyReport(c.Request.Context(), day)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ExportDaily streams the daily report as an XLSX workbook
func (h *ReportHandler) ExportDaily(c *gin.Context) {
	day, ok := h.reportDate(c)
	if !ok {
		return
	}
	var buf bytes.Buffer
	if err := h.reportService.ExportDailyReport(c.Request.Context(), day, &buf); err != nil {
		h.HandleError(c, err)
		return
	}
	filename := fmt.Sprintf("daily-report-%s.xlsx", day.Format(time.DateOnly))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// Dashboard returns the office overview
func (h *ReportHandler) Dashboard(c *gin.Context) {
	resp, err := h.reportService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RunSnapshots regenerates the snapshots of ?date=, defaulting to yesterday.
// Per-entity failures are reported in the result rather than failing the call.
func (h *ReportHandler) RunSnapshots(c *gin.Context) {
	day, ok := h.reportDate(c)
	if !ok {
		return
	}
	if c.Query("date") == "" {
		day = day.AddDate(0, 0, -1)
	}
	result, err := h.snapshots.RunDaily(c.Request.Context(), day)
	if err != nil && result.Failed == 0 {
		h.HandleError(c, err)
		return
	}
	if err != nil {
		logger.FromContext(c.Request.Context()).Warn("snapshot run finished with failures",
			zap.Int("failed", result.Failed), zap.Error(err))
		h.SuccessMessage(c, fmt.Sprintf("Snapshot run finished with %d failure(s)", result.Failed), result)
		return
	}
	h.SuccessMessage(c, "Snapshot run finished", result)
}
