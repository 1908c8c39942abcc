package report

import (
	"context"
	"time"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
)

const (
	DefaultListLimit = 200
	MaxListLimit     = 500
)

// Repository is the server-side report table.
type Repository interface {
	// Insert stores r unless a row with the same id exists. inserted is
	// false for a duplicate, which is not an error.
	Insert(ctx context.Context, r *Report) (inserted bool, err error)
	GetByID(ctx context.Context, reportID string) (*Report, error)
	// List returns reports ordered by timestamp descending. A zero Limit
	// means no limit.
	List(ctx context.Context, filter Filter) ([]*Report, error)
	// SetStatus updates status and updatedAt of the row with the given id
	// whose current status is in from (any status when from is empty) and
	// returns the number of rows matched.
	SetStatus(ctx context.Context, reportID string, status vo.ReportStatus, from []vo.ReportStatus, updatedAt time.Time) (int64, error)
	Count(ctx context.Context, filter Filter) (int64, error)
}

type Filter struct {
	Type   *vo.ReportType
	Status *vo.ReportStatus
	Limit  int
	Offset int
}

// ClampListWindow applies the default and maximum page size and a
// non-negative offset.
func ClampListWindow(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
