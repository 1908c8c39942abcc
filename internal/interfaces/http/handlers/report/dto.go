package report

import (
	"bytes"
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/gorodok-inc/gorodok/internal/application/report/usecases"
	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/utils"
)

// maxIngestBody bounds POST /api/reports bodies. Photo bytes are never
// part of the JSON form, so reports are small.
const maxIngestBody = 1 << 20

// IngestRequest accepts either {"report": {...}} or the report object itself.
type IngestRequest struct {
	Report report.Snapshot
}

func (r *IngestRequest) UnmarshalJSON(data []byte) error {
	var wrapper struct {
		Report json.RawMessage `json:"report"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return err
	}

	inner := data
	if trimmed := bytes.TrimSpace(wrapper.Report); len(trimmed) > 0 && trimmed[0] == '{' {
		inner = trimmed
	}
	return json.Unmarshal(inner, &r.Report)
}

func (r *IngestRequest) ToCommand() usecases.IngestReportCommand {
	return usecases.IngestReportCommand{Report: r.Report}
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// IngestResponse is the body of a successful POST /api/reports.
type IngestResponse struct {
	OK bool   `json:"ok"`
	ID string `json:"id"`
}

type ListResponse struct {
	OK   bool              `json:"ok"`
	List []report.Snapshot `json:"list"`
}

type SetStatusResponse struct {
	OK        bool   `json:"ok"`
	Changed   int64  `json:"changed"`
	UpdatedAt string `json:"updatedAt"`
}

type StatsResponse struct {
	OK    bool                           `json:"ok"`
	Stats *usecases.GetReportStatsResult `json:"stats"`
}

func parseListQuery(c *gin.Context) usecases.ListReportsQuery {
	window := utils.ParseWindow(c)
	return usecases.ListReportsQuery{
		Type:   c.Query("type"),
		Status: c.Query("status"),
		Limit:  window.Limit,
		Offset: window.Offset,
	}
}

func parseReportID(c *gin.Context) (string, error) {
	reportID := c.Param("id")
	if reportID == "" {
		return "", errors.NewValidationError("report id is required")
	}
	return reportID, nil
}
