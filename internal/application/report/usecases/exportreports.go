package usecases

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/gorodok-inc/gorodok/internal/application/admin"
	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type ExportReportsQuery struct {
	Format   string
	Type     string
	Category string
	Status   string
}

type ExportReportsResult struct {
	ContentType string
	Filename    string
	Count       int
	Body        []byte
}

type ExportReportsUseCase struct {
	reportRepo report.Repository
	logger     logger.Interface
	now        func() time.Time
}

func NewExportReportsUseCase(
	reportRepo report.Repository,
	logger logger.Interface,
) *ExportReportsUseCase {
	return &ExportReportsUseCase{
		reportRepo: reportRepo,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *ExportReportsUseCase) Execute(ctx context.Context, query ExportReportsQuery) (*ExportReportsResult, error) {
	format, err := admin.ParseFormat(query.Format)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	filter, err := buildFilter(query.Type, query.Status)
	if err != nil {
		return nil, err
	}

	var selection admin.Filter
	if query.Category != "" {
		c, err := vo.NewCategory(query.Category)
		if err != nil {
			return nil, errors.NewValidationError(err.Error())
		}
		selection.Category = &c
	}

	reports, err := uc.reportRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to load reports for export", "error", err)
		return nil, errors.NewStorageError("failed to load reports")
	}
	reports = admin.Select(reports, selection)

	var buf bytes.Buffer
	if err := admin.Export(&buf, format, reports); err != nil {
		uc.logger.Errorw("failed to export reports", "format", format, "error", err)
		return nil, errors.NewInternalError("failed to export reports")
	}

	uc.logger.Infow("reports exported", "format", format, "count", len(reports))

	return &ExportReportsResult{
		ContentType: format.ContentType(),
		Filename:    fmt.Sprintf("reports-%s.%s", uc.now().Format("20060102-150405"), format.Extension()),
		Count:       len(reports),
		Body:        buf.Bytes(),
	}, nil
}
