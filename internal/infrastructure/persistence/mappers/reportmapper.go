package mappers

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/persistence/models"
)

// ReportMapper converts between report entities and persistence models.
type ReportMapper interface {
	ToModel(r *report.Report) (*models.ReportModel, error)
	ToDomain(model *models.ReportModel) (*report.Report, error)
	ToDomainList(list []models.ReportModel) ([]*report.Report, error)
}

type ReportMapperImpl struct{}

func NewReportMapper() ReportMapper {
	return &ReportMapperImpl{}
}

func (m *ReportMapperImpl) ToModel(r *report.Report) (*models.ReportModel, error) {
	model := &models.ReportModel{
		ID:         r.ID(),
		Type:       r.Type().String(),
		Subtype:    r.Subtype(),
		Status:     r.Status().String(),
		ReportedAt: r.Timestamp().UnixMilli(),
		ModifiedAt: r.UpdatedAt().UnixMilli(),
	}

	if user := r.User(); user != nil {
		raw, err := json.Marshal(user)
		if err != nil {
			return nil, fmt.Errorf("failed to encode user snapshot: %w", err)
		}
		model.User = datatypes.JSON(raw)
	}

	if payload := r.Payload(); len(payload) > 0 {
		model.Payload = datatypes.JSON(payload)
	}

	return model, nil
}

func (m *ReportMapperImpl) ToDomain(model *models.ReportModel) (*report.Report, error) {
	if model == nil {
		return nil, nil
	}

	var user *report.UserSnapshot
	if len(model.User) > 0 && string(model.User) != "null" {
		user = &report.UserSnapshot{}
		if err := json.Unmarshal(model.User, user); err != nil {
			return nil, fmt.Errorf("failed to decode user snapshot of report %s: %w", model.ID, err)
		}
	}

	var payload json.RawMessage
	if len(model.Payload) > 0 {
		payload = json.RawMessage(model.Payload)
	}

	r, err := report.ReconstructReport(
		model.ID,
		vo.ReportType(model.Type),
		model.Subtype,
		vo.ReportStatus(model.Status),
		time.UnixMilli(model.ReportedAt).UTC(),
		time.UnixMilli(model.ModifiedAt).UTC(),
		user,
		payload,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to reconstruct report: %w", err)
	}
	return r, nil
}

func (m *ReportMapperImpl) ToDomainList(list []models.ReportModel) ([]*report.Report, error) {
	reports := make([]*report.Report, 0, len(list))
	for i := range list {
		r, err := m.ToDomain(&list[i])
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, nil
}
