package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sma-attendance-monitor/internal/dto"
	"github.com/noah-isme/sma-attendance-monitor/internal/middleware"
	appErrors "github.com/noah-isme/sma-attendance-monitor/pkg/errors"
	"github.com/noah-isme/sma-attendance-monitor/pkg/response"
)

type attendanceMonitor interface {
	Monitor(ctx context.Context, institutionID string, q dto.MonitorQuery) (*dto.MonitorResponse, error)
	Export(ctx context.Context, institutionID string, q dto.MonitorExportQuery) (*dto.ExportFile, error)
	InvalidateReference(ctx context.Context, institutionID string) error
}

// AttendanceMonitorHandler exposes the roll-call monitor.
type AttendanceMonitorHandler struct {
	service attendanceMonitor
}

// NewAttendanceMonitorHandler constructs the handler.
func NewAttendanceMonitorHandler(service attendanceMonitor) *AttendanceMonitorHandler {
	return &AttendanceMonitorHandler{service: service}
}

// Monitor godoc
// @Summary Roll-call monitor
// @Description Classifies every scheduled slot of the caller's institution as missing, late or ok.
// @Tags Attendance
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param status query string false "Only return rows with this status" Enums(missing, late, ok)
// @Param debug query string false "Set to 1 to include diagnostics"
// @Success 200 {object} dto.MonitorResponse
// @Failure 400 {object} response.ErrorBody
// @Failure 401 {object} response.ErrorBody
// @Failure 403 {object} response.ErrorBody
// @Security BearerAuth
// @Router /api/v1/admin/attendance/monitor [get]
func (h *AttendanceMonitorHandler) Monitor(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var q dto.MonitorQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	result, err := h.service.Monitor(c.Request.Context(), principal.InstitutionID, q)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Export godoc
// @Summary Export roll-call monitor
// @Tags Attendance
// @Produce text/csv
// @Produce application/pdf
// @Param from query string false "Start date (YYYY-MM-DD)"
// @Param to query string false "End date (YYYY-MM-DD), defaults to today"
// @Param status query string false "Only export rows with this status" Enums(missing, late, ok)
// @Param format query string false "Export format" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} response.ErrorBody
// @Security BearerAuth
// @Router /api/v1/admin/attendance/monitor/export [get]
func (h *AttendanceMonitorHandler) Export(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var q dto.MonitorExportQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query parameters"))
		return
	}
	file, err := h.service.Export(c.Request.Context(), principal.InstitutionID, q)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// InvalidateCache godoc
// @Summary Drop cached reference tables
// @Description Forces the next monitor call to reload periods, timetable and labels.
// @Tags Attendance
// @Success 204
// @Security BearerAuth
// @Router /api/v1/admin/attendance/monitor/cache [delete]
func (h *AttendanceMonitorHandler) InvalidateCache(c *gin.Context) {
	principal, ok := middleware.PrincipalFromContext(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.service.InvalidateReference(c.Request.Context(), principal.InstitutionID); err != nil {
		_ = c.Error(err)
		response.Error(c, appErrors.Upstream(err))
		return
	}
	c.Status(http.StatusNoContent)
}
