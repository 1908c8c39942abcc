package report

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gorodok-inc/gorodok/internal/application/report/usecases"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
	"github.com/gorodok-inc/gorodok/internal/shared/utils"
)

type ReportHandler struct {
	ingestUC    usecases.IngestReportExecutor
	listUC      usecases.ListReportsExecutor
	setStatusUC usecases.SetReportStatusExecutor
	statsUC     usecases.GetReportStatsExecutor
	exportUC    usecases.ExportReportsExecutor
	logger      logger.Interface
}

func NewReportHandler(
	ingestUC usecases.IngestReportExecutor,
	listUC usecases.ListReportsExecutor,
	setStatusUC usecases.SetReportStatusExecutor,
	statsUC usecases.GetReportStatsExecutor,
	exportUC usecases.ExportReportsExecutor,
	logger logger.Interface,
) *ReportHandler {
	return &ReportHandler{
		ingestUC:    ingestUC,
		listUC:      listUC,
		setStatusUC: setStatusUC,
		statsUC:     statsUC,
		exportUC:    exportUC,
		logger:      logger,
	}
}

// Ingest stores a report submitted by a client
// @Summary Ingest report
// @Description Idempotent insert keyed by the client-generated id. A repeated id succeeds without changing the stored row.
// @Tags Reports
// @Accept json
// @Produce json
// @Param request body report.Snapshot true "Report, bare or wrapped as {\"report\": {...}}"
// @Success 200 {object} IngestResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 500 {object} utils.ErrorBody
// @Router /api/reports [post]
func (h *ReportHandler) Ingest(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxIngestBody+1))
	if err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("failed to read request body"))
		return
	}
	if len(body) > maxIngestBody {
		utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "request body too large")
		return
	}

	var req IngestRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.logger.Warnw("invalid request body for ingest report", "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid JSON body"))
		return
	}

	result, err := h.ingestUC.Execute(c.Request.Context(), req.ToCommand())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, IngestResponse{OK: true, ID: result.ID})
}

// List returns stored reports, newest first
// @Summary List reports
// @Tags Reports
// @Produce json
// @Security AdminToken
// @Param type query string false "Report type" Enums(security, wifi_problem, wifi_suggestion, graffiti)
// @Param status query string false "Report status" Enums(new, in_progress, resolved, rejected)
// @Param limit query int false "Page size (default 200, max 500)"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /api/reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	result, err := h.listUC.Execute(c.Request.Context(), parseListQuery(c))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListResponse{OK: true, List: result.Reports})
}

// SetStatus changes the status of a report
// @Summary Set report status
// @Description Always stamps updatedAt. changed is 0 for an unknown id.
// @Tags Reports
// @Accept json
// @Produce json
// @Security AdminToken
// @Param id path string true "Report ID"
// @Param request body SetStatusRequest true "New status"
// @Success 200 {object} SetStatusResponse
// @Failure 400 {object} utils.ErrorBody
// @Failure 401 {object} utils.ErrorBody
// @Router /api/reports/{id}/status [patch]
func (h *ReportHandler) SetStatus(c *gin.Context) {
	reportID, err := parseReportID(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for set status", "report_id", reportID, "error", err)
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid JSON body"))
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.setStatusUC.Execute(c.Request.Context(), usecases.SetReportStatusCommand{
		ReportID: reportID,
		Status:   req.Status,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, SetStatusResponse{
		OK:        true,
		Changed:   result.Changed,
		UpdatedAt: result.UpdatedAt,
	})
}

// Stats returns the dashboard rollup
// @Summary Report statistics
// @Tags Reports
// @Produce json
// @Security AdminToken
// @Success 200 {object} StatsResponse
// @Failure 401 {object} utils.ErrorBody
// @Router /api/reports/stats [get]
func (h *ReportHandler) Stats(c *gin.Context) {
	result, err := h.statsUC.Execute(c.Request.Context(), usecases.GetReportStatsQuery{})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{OK: true, Stats: result})
}

// Export downloads the filtered reports
// @Summary Export reports
// @Tags Reports
// @Produce text/csv
// @Produce application/geo+json
// @Security AdminToken
// @Param format query string false "Export format" Enums(csv, geojson)
// @Param type query string false "Report type"
// @Param category query string false "Report category" Enums(security, wifi, graffiti, suggestions)
// @Param status query string false "Report status"
// @Success 200 {file} file
// @Failure 400 {object} utils.ErrorBody
// @Router /api/reports/export [get]
func (h *ReportHandler) Export(c *gin.Context) {
	result, err := h.exportUC.Execute(c.Request.Context(), usecases.ExportReportsQuery{
		Format:   c.Query("format"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Body)
}
