// Package submission runs the citizen-side report flow: validate, store
// locally, then hand server ingestion and the admin email to background
// tasks whose failures never reach the submitter.
package submission

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"time"

	"github.com/gorodok-inc/gorodok/internal/application/admin"
	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/email"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/tasks"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/errors"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

type Service struct {
	store     ReportStore
	queue     TaskQueue
	ingester  Ingester
	composer  NotificationComposer
	sender    email.Sender
	points    PointDirectory
	defaultTo string
	logger    logger.Interface
	now       func() time.Time
}

type Option func(*Service)

// WithIngester enables mirroring of new reports to the server.
func WithIngester(i Ingester) Option {
	return func(s *Service) { s.ingester = i }
}

// WithNotifier enables the admin email. defaultTo is used for categories
// without an override.
func WithNotifier(composer NotificationComposer, sender email.Sender, defaultTo string) Option {
	return func(s *Service) {
		s.composer = composer
		s.sender = sender
		s.defaultTo = defaultTo
	}
}

// WithPointDirectory rejects Wi-Fi problem reports for unknown points.
func WithPointDirectory(d PointDirectory) Option {
	return func(s *Service) { s.points = d }
}

func NewService(store ReportStore, queue TaskQueue, log logger.Interface, opts ...Option) *Service {
	s := &Service{
		store:  store,
		queue:  queue,
		logger: log,
		now:    biztime.NowUTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates and stores a report and schedules its side effects. The
// returned report is committed even if every side effect later fails.
func (s *Service) Submit(ctx context.Context, payload report.Payload, user *report.UserSnapshot) (*report.Report, error) {
	if payload == nil {
		return nil, errors.NewValidationError("report payload is required")
	}
	if err := s.validate(payload); err != nil {
		return nil, err
	}

	r, err := s.store.Append(ctx, payload, user)
	if err != nil {
		if ve, ok := report.AsValidationError(err); ok {
			return nil, errors.NewValidationError(ve.Message, ve.Field)
		}
		s.logger.Errorw("failed to store report", "type", payload.Type(), "error", err)
		return nil, errors.NewStorageError("failed to save report, please try again")
	}

	s.scheduleIngestion(r)
	s.scheduleNotification(ctx, r)

	return r, nil
}

func (s *Service) validate(payload report.Payload) error {
	if err := payload.Validate(); err != nil {
		if ve, ok := report.AsValidationError(err); ok {
			return errors.NewValidationError(ve.Message, ve.Field)
		}
		return errors.NewValidationError(err.Error())
	}

	if wp, ok := payload.(report.WifiProblemPayload); ok && s.points != nil && !s.points.Has(wp.PointID) {
		return errors.NewValidationError("select an existing Wi-Fi point", "pointId")
	}
	return nil
}

func (s *Service) scheduleIngestion(r *report.Report) {
	if s.ingester == nil {
		return
	}
	snap := r.Snapshot()
	s.enqueue(tasks.Task{
		Name: "ingest:" + r.ID(),
		Run: func(ctx context.Context) error {
			_, err := s.ingester.Submit(ctx, snap)
			return err
		},
	})
}

func (s *Service) scheduleNotification(ctx context.Context, r *report.Report) {
	if s.sender == nil || s.composer == nil {
		return
	}

	to, err := s.recipient(ctx, r.Category())
	if err != nil {
		s.logger.Warnw("failed to read admin email overrides", "error", err)
		to = s.defaultTo
	}
	if to == "" {
		s.logger.Debugw("no notification recipient configured", "category", r.Category())
		return
	}

	n, err := s.composer.Compose(r, to)
	if err != nil {
		s.logger.Warnw("failed to compose notification", "report_id", r.ID(), "error", err)
		return
	}

	s.enqueue(tasks.Task{
		Name: "notify:" + r.ID(),
		Run: func(ctx context.Context) error {
			return s.sender.Send(ctx, n)
		},
	})
}

func (s *Service) recipient(ctx context.Context, category vo.Category) (string, error) {
	overrides, err := s.store.AdminEmails(ctx)
	if err != nil {
		return "", err
	}
	if to, ok := overrides[category]; ok && to != "" {
		return to, nil
	}
	return s.defaultTo, nil
}

func (s *Service) enqueue(task tasks.Task) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(task); err != nil {
		s.logger.Warnw("background task not scheduled", "task", task.Name, "error", err)
	}
}

// UpdateStatus changes the status of a locally stored report. An unknown
// id or an unchanged status returns false without error.
func (s *Service) UpdateStatus(ctx context.Context, category, reportID, status string) (bool, error) {
	c, err := vo.NewCategory(category)
	if err != nil {
		return false, errors.NewValidationError(err.Error())
	}
	st, err := vo.NewReportStatus(status)
	if err != nil {
		return false, errors.NewValidationError(err.Error())
	}

	changed, err := s.store.Update(ctx, c, reportID, st)
	if err != nil {
		if stderrors.Is(err, report.ErrTransitionNotAllowed) {
			return false, errors.NewValidationError(err.Error())
		}
		s.logger.Errorw("failed to update local report", "report_id", reportID, "error", err)
		return false, errors.NewStorageError("failed to update report")
	}
	return changed, nil
}

// List returns reports of one category in insertion order, or all
// categories when category is empty.
func (s *Service) List(ctx context.Context, category string) ([]*report.Report, error) {
	if category == "" {
		return s.all(ctx)
	}
	c, err := vo.NewCategory(category)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	list, err := s.store.List(ctx, c)
	if err != nil {
		s.logger.Errorw("failed to list local reports", "category", c, "error", err)
		return nil, errors.NewStorageError("failed to read reports")
	}
	return list, nil
}

// Review returns the filtered reports, newest first.
func (s *Service) Review(ctx context.Context, filter admin.Filter) ([]*report.Report, error) {
	all, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	return admin.Select(all, filter), nil
}

func (s *Service) Stats(ctx context.Context) (admin.Stats, error) {
	all, err := s.all(ctx)
	if err != nil {
		return admin.Stats{}, err
	}
	return admin.Aggregate(all, s.now()), nil
}

// Export writes the filtered reports, newest first, and returns how many
// were written.
func (s *Service) Export(ctx context.Context, w io.Writer, format admin.Format, filter admin.Filter) (int, error) {
	reports, err := s.Review(ctx, filter)
	if err != nil {
		return 0, err
	}
	if err := admin.Export(w, format, reports); err != nil {
		return 0, fmt.Errorf("failed to export reports: %w", err)
	}
	return len(reports), nil
}

func (s *Service) all(ctx context.Context) ([]*report.Report, error) {
	all, err := s.store.All(ctx)
	if err != nil {
		s.logger.Errorw("failed to read local reports", "error", err)
		return nil, errors.NewStorageError("failed to read reports")
	}
	return all, nil
}
