package usecases

import "context"

type IngestReportExecutor interface {
	Execute(ctx context.Context, cmd IngestReportCommand) (*IngestReportResult, error)
}

type ListReportsExecutor interface {
	Execute(ctx context.Context, query ListReportsQuery) (*ListReportsResult, error)
}

type SetReportStatusExecutor interface {
	Execute(ctx context.Context, cmd SetReportStatusCommand) (*SetReportStatusResult, error)
}

type GetReportStatsExecutor interface {
	Execute(ctx context.Context, query GetReportStatsQuery) (*GetReportStatsResult, error)
}

type ExportReportsExecutor interface {
	Execute(ctx context.Context, query ExportReportsQuery) (*ExportReportsResult, error)
}
