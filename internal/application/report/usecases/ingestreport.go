package usecases

import (
	"context"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type IngestReportCommand struct {
	Report report.Snapshot
}

type IngestReportResult struct {
	ID string
	// Inserted is false when a report with the same id was already stored.
	Inserted bool
}

// IngestReportUseCase stores a client-submitted report at most once per id.
type IngestReportUseCase struct {
	reportRepo report.Repository
	logger     logger.Interface
}

func NewIngestReportUseCase(
	reportRepo report.Repository,
	logger logger.Interface,
) *IngestReportUseCase {
	return &IngestReportUseCase{
		reportRepo: reportRepo,
		logger:     logger,
	}
}

func (uc *IngestReportUseCase) Execute(ctx context.Context, cmd IngestReportCommand) (*IngestReportResult, error) {
	r, err := report.FromSnapshot(cmd.Report)
	if err != nil {
		uc.logger.Warnw("rejected report", "report_id", cmd.Report.ID, "error", err)
		return nil, errors.NewValidationError(err.Error())
	}

	inserted, err := uc.reportRepo.Insert(ctx, r)
	if err != nil {
		uc.logger.Errorw("failed to insert report", "report_id", r.ID(), "error", err)
		return nil, errors.NewStorageError("failed to store report")
	}

	if inserted {
		uc.logger.Infow("report ingested", "report_id", r.ID(), "type", r.Type())
	} else {
		uc.logger.Debugw("duplicate report ignored", "report_id", r.ID())
	}

	return &IngestReportResult{
		ID:       r.ID(),
		Inserted: inserted,
	}, nil
}
