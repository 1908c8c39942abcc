package submission

import (
	"context"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/email"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/tasks"
)

// ReportStore is the local, category-partitioned report store.
type ReportStore interface {
	Append(ctx context.Context, payload report.Payload, user *report.UserSnapshot) (*report.Report, error)
	Update(ctx context.Context, category vo.Category, reportID string, status vo.ReportStatus) (bool, error)
	List(ctx context.Context, category vo.Category) ([]*report.Report, error)
	All(ctx context.Context) ([]*report.Report, error)
	AdminEmails(ctx context.Context) (map[vo.Category]string, error)
}

// Ingester mirrors a stored report to the server.
type Ingester interface {
	Submit(ctx context.Context, snap report.Snapshot) (string, error)
}

type NotificationComposer interface {
	Compose(r *report.Report, to string) (*email.Notification, error)
}

type TaskQueue interface {
	Enqueue(task tasks.Task) error
}

// PointDirectory answers whether a Wi-Fi point exists.
type PointDirectory interface {
	Has(id string) bool
}
