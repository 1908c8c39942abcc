package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/persistence/mappers"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/persistence/models"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type ReportRepository struct {
	db     *gorm.DB
	mapper mappers.ReportMapper
	logger logger.Interface
}

func NewReportRepository(db *gorm.DB, log logger.Interface) *ReportRepository {
	return &ReportRepository{
		db:     db,
		mapper: mappers.NewReportMapper(),
		logger: log,
	}
}

var _ report.Repository = (*ReportRepository)(nil)

// Insert stores the report once. A second insert with the same id matches
// the primary key and is ignored by the database.
func (r *ReportRepository) Insert(ctx context.Context, rep *report.Report) (bool, error) {
	model, err := r.mapper.ToModel(rep)
	if err != nil {
		return false, err
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(model)
	if result.Error != nil {
		r.logger.Errorw("failed to insert report", "report_id", rep.ID(), "error", result.Error)
		return false, fmt.Errorf("failed to insert report: %w", result.Error)
	}

	inserted := result.RowsAffected > 0
	if !inserted {
		r.logger.Debugw("report already stored", "report_id", rep.ID())
	}
	return inserted, nil
}

func (r *ReportRepository) GetByID(ctx context.Context, reportID string) (*report.Report, error) {
	var model models.ReportModel
	err := r.db.WithContext(ctx).Where("id = ?", reportID).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ReportRepository) List(ctx context.Context, filter report.Filter) ([]*report.Report, error) {
	var list []models.ReportModel

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReportModel{}), filter).
		Order("reported_at DESC").
		Order("id DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	if err := query.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	return r.mapper.ToDomainList(list)
}

func (r *ReportRepository) Count(ctx context.Context, filter report.Filter) (int64, error) {
	var total int64
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReportModel{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return total, nil
}

// SetStatus is a single UPDATE; the matched row count is the result. The
// stored updated_at never drops below reported_at or its previous value.
func (r *ReportRepository) SetStatus(
	ctx context.Context,
	reportID string,
	status vo.ReportStatus,
	from []vo.ReportStatus,
	updatedAt time.Time,
) (int64, error) {
	stamp := updatedAt.UnixMilli()

	query := r.db.WithContext(ctx).
		Model(&models.ReportModel{}).
		Where("id = ?", reportID)
	if len(from) > 0 {
		query = query.Where("status IN ?", statusStrings(from))
	}

	result := query.Updates(map[string]interface{}{
		"status":     status.String(),
		"updated_at": gorm.Expr(
			"CASE WHEN updated_at >= reported_at AND updated_at > ? THEN updated_at "+
				"WHEN reported_at > ? THEN reported_at ELSE ? END",
			stamp, stamp, stamp,
		),
	})
	if result.Error != nil {
		r.logger.Errorw("failed to update report status",
			"report_id", reportID,
			"status", status,
			"error", result.Error,
		)
		return 0, fmt.Errorf("failed to update report status: %w", result.Error)
	}

	return result.RowsAffected, nil
}

func (r *ReportRepository) applyFilter(query *gorm.DB, filter report.Filter) *gorm.DB {
	if filter.Type != nil {
		query = query.Where("type = ?", filter.Type.String())
	}
	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	return query
}

func statusStrings(list []vo.ReportStatus) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, s.String())
	}
	return out
}
