package usecases

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/gorodok-inc/gorodok/internal/application/admin"
	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type GetReportStatsQuery struct{}

type GetReportStatsResult struct {
	admin.Stats
	GeneratedAt string `json:"generatedAt"`
}

// GetReportStatsUseCase computes the dashboard rollup over every stored
// report. Concurrent callers share a single table scan.
type GetReportStatsUseCase struct {
	reportRepo report.Repository
	logger     logger.Interface
	group      singleflight.Group
	now        func() time.Time
}

func NewGetReportStatsUseCase(
	reportRepo report.Repository,
	logger logger.Interface,
) *GetReportStatsUseCase {
	return &GetReportStatsUseCase{
		reportRepo: reportRepo,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *GetReportStatsUseCase) Execute(ctx context.Context, _ GetReportStatsQuery) (*GetReportStatsResult, error) {
	// the scan is shared, so one caller's cancellation must not fail the rest
	scanCtx := context.WithoutCancel(ctx)
	v, err, shared := uc.group.Do("stats", func() (any, error) {
		reports, err := uc.reportRepo.List(scanCtx, report.Filter{})
		if err != nil {
			return nil, err
		}
		now := uc.now()
		return &GetReportStatsResult{
			Stats:       admin.Aggregate(reports, now),
			GeneratedAt: biztime.FormatISO(now),
		}, nil
	})
	if err != nil {
		uc.logger.Errorw("failed to compute report stats", "error", err)
		return nil, errors.NewStorageError("failed to compute report stats")
	}

	result := v.(*GetReportStatsResult)
	uc.logger.Debugw("report stats computed", "total", result.Total, "shared", shared)

	return result, nil
}
