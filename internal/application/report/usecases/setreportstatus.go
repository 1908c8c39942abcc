package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type SetReportStatusCommand struct {
	ReportID string
	Status   string
}

type SetReportStatusResult struct {
	ReportID string
	// Changed is 1 when a row was matched and 0 for an unknown id or a
	// transition the policy does not allow.
	Changed   int64
	UpdatedAt string
}

type SetReportStatusUseCase struct {
	reportRepo report.Repository
	policy     vo.TransitionPolicy
	logger     logger.Interface
	now        func() time.Time
}

func NewSetReportStatusUseCase(
	reportRepo report.Repository,
	policy vo.TransitionPolicy,
	logger logger.Interface,
) *SetReportStatusUseCase {
	if policy == nil {
		policy = vo.PermissivePolicy{}
	}
	return &SetReportStatusUseCase{
		reportRepo: reportRepo,
		policy:     policy,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *SetReportStatusUseCase) Execute(ctx context.Context, cmd SetReportStatusCommand) (*SetReportStatusResult, error) {
	reportID := strings.TrimSpace(cmd.ReportID)
	if reportID == "" {
		return nil, errors.NewValidationError("report id is required")
	}
	if strings.TrimSpace(cmd.Status) == "" {
		return nil, errors.NewValidationError("status is required")
	}
	status, err := vo.NewReportStatus(cmd.Status)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	from := uc.policy.AllowedFrom(status)
	if len(from) == len(vo.AllStatuses) {
		from = nil
	}

	updatedAt := uc.now()
	changed, err := uc.reportRepo.SetStatus(ctx, reportID, status, from, updatedAt)
	if err != nil {
		uc.logger.Errorw("failed to set report status", "report_id", reportID, "status", status, "error", err)
		return nil, errors.NewStorageError("failed to update report status")
	}

	// the stored value may be clamped to the report timestamp
	if changed > 0 {
		stored, err := uc.reportRepo.GetByID(ctx, reportID)
		if err != nil {
			uc.logger.Warnw("failed to read back report after status change", "report_id", reportID, "error", err)
		} else if stored != nil {
			updatedAt = stored.UpdatedAt()
		}
	}

	uc.logger.Infow("report status set",
		"report_id", reportID,
		"status", status,
		"policy", uc.policy.Name(),
		"changed", changed,
	)

	return &SetReportStatusResult{
		ReportID:  reportID,
		Changed:   changed,
		UpdatedAt: biztime.FormatISO(updatedAt),
	}, nil
}
