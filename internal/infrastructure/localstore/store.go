// Package localstore is the citizen-side report store. Every category
// partition is an append-only log in a kvstore; an in-memory index is
// replayed from the log on first access and updated only after a log write
// succeeded, so a change is visible to List as soon as the call returns.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/infrastructure/kvstore"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/logger"
)

const (
	opAppend = "append"
	opStatus = "status"

	// attempts to draw a report id not yet used in the partition
	maxIDAttempts = 3
)

type logRecord struct {
	Op        string           `json:"op"`
	Report    *report.Snapshot `json:"report,omitempty"`
	ID        string           `json:"id,omitempty"`
	Status    string           `json:"status,omitempty"`
	UpdatedAt string           `json:"updatedAt,omitempty"`
}

type partition struct {
	order []string
	byID  map[string]*report.Report
}

// Store is safe for concurrent use; mutations are serialised.
type Store struct {
	kv     kvstore.Store
	policy vo.TransitionPolicy
	logger logger.Interface
	now    func() time.Time

	mu         sync.Mutex
	partitions map[vo.Category]*partition
}

func New(kv kvstore.Store, policy vo.TransitionPolicy, log logger.Interface) *Store {
	if policy == nil {
		policy = vo.PermissivePolicy{}
	}
	return &Store{
		kv:         kv,
		policy:     policy,
		logger:     log,
		now:        biztime.NowUTC,
		partitions: make(map[vo.Category]*partition),
	}
}

// Append validates the payload, creates the report with a fresh id and
// status new, and persists it at the end of its category list. Validation
// failures leave the store untouched.
func (s *Store) Append(ctx context.Context, payload report.Payload, user *report.UserSnapshot) (*report.Report, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	category := payload.Type().Category()
	p, err := s.load(ctx, category)
	if err != nil {
		return nil, err
	}

	var r *report.Report
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		r, err = report.NewReport(payload, user, s.now())
		if err != nil {
			return nil, err
		}
		if _, taken := p.byID[r.ID()]; !taken {
			break
		}
		r = nil
	}
	if r == nil {
		return nil, fmt.Errorf("failed to allocate a unique report id in %s", category)
	}

	snap := r.Snapshot()
	if err := s.write(ctx, category, logRecord{Op: opAppend, Report: &snap}); err != nil {
		return nil, err
	}

	p.order = append(p.order, r.ID())
	p.byID[r.ID()] = r

	s.logger.Infow("report stored locally",
		"report_id", r.ID(),
		"type", r.Type(),
		"category", category,
	)
	return r, nil
}

// Import stores an already built report, e.g. one pulled from the server.
// A report whose id is present is skipped and false is returned.
func (s *Store) Import(ctx context.Context, r *report.Report) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	category := r.Category()
	p, err := s.load(ctx, category)
	if err != nil {
		return false, err
	}
	if _, exists := p.byID[r.ID()]; exists {
		return false, nil
	}

	snap := r.Snapshot()
	if err := s.write(ctx, category, logRecord{Op: opAppend, Report: &snap}); err != nil {
		return false, err
	}
	p.order = append(p.order, r.ID())
	p.byID[r.ID()] = r
	return true, nil
}

// List returns the category's reports in insertion order.
func (s *Store) List(ctx context.Context, category vo.Category) ([]*report.Report, error) {
	if !category.IsValid() {
		return nil, fmt.Errorf("invalid report category: %s", category)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, category)
	if err != nil {
		return nil, err
	}

	out := make([]*report.Report, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.byID[id])
	}
	return out, nil
}

// All returns every report, partitions in display order.
func (s *Store) All(ctx context.Context) ([]*report.Report, error) {
	var all []*report.Report
	for _, c := range vo.AllCategories {
		list, err := s.List(ctx, c)
		if err != nil {
			return nil, err
		}
		all = append(all, list...)
	}
	return all, nil
}

// Get finds a report by id within a category.
func (s *Store) Get(ctx context.Context, category vo.Category, reportID string) (*report.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, category)
	if err != nil {
		return nil, err
	}
	return p.byID[reportID], nil
}

// Update sets the status of a report. A missing report or an unchanged
// status is a no-op reported as changed == false.
func (s *Store) Update(ctx context.Context, category vo.Category, reportID string, status vo.ReportStatus) (bool, error) {
	if !category.IsValid() {
		return false, fmt.Errorf("invalid report category: %s", category)
	}
	if !status.IsValid() {
		return false, fmt.Errorf("invalid report status: %s", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.load(ctx, category)
	if err != nil {
		return false, err
	}

	current, ok := p.byID[reportID]
	if !ok || current.Status() == status {
		return false, nil
	}

	// mutate a copy so a failed write leaves the index untouched
	next, err := cloneReport(current)
	if err != nil {
		return false, err
	}
	changed, err := next.ChangeStatus(status, s.policy, s.now())
	if err != nil || !changed {
		return false, err
	}

	rec := logRecord{
		Op:        opStatus,
		ID:        reportID,
		Status:    status.String(),
		UpdatedAt: biztime.FormatISO(next.UpdatedAt()),
	}
	if err := s.write(ctx, category, rec); err != nil {
		return false, err
	}

	p.byID[reportID] = next
	s.logger.Infow("local report status updated",
		"report_id", reportID,
		"status", status,
	)
	return true, nil
}

func (s *Store) write(ctx context.Context, category vo.Category, rec logRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode log record: %w", err)
	}
	if err := s.kv.Append(ctx, category.StorageKey(), raw); err != nil {
		s.logger.Errorw("failed to persist report log record",
			"category", category,
			"op", rec.Op,
			"error", err,
		)
		return fmt.Errorf("failed to persist %s record: %w", rec.Op, err)
	}
	return nil
}

// load must be called with s.mu held.
func (s *Store) load(ctx context.Context, category vo.Category) (*partition, error) {
	if p, ok := s.partitions[category]; ok {
		return p, nil
	}

	records, err := s.kv.Records(ctx, category.StorageKey())
	if err != nil {
		return nil, fmt.Errorf("failed to load %s reports: %w", category, err)
	}

	p := &partition{byID: make(map[string]*report.Report)}
	for i, raw := range records {
		if err := s.replay(p, raw); err != nil {
			s.logger.Warnw("skipping unreadable log record",
				"category", category,
				"index", i,
				"error", err,
			)
		}
	}

	s.partitions[category] = p
	return p, nil
}

func (s *Store) replay(p *partition, raw []byte) error {
	var rec logRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return err
	}

	switch rec.Op {
	case opAppend:
		if rec.Report == nil {
			return fmt.Errorf("append record without report")
		}
		r, err := report.FromSnapshot(*rec.Report)
		if err != nil {
			return err
		}
		if _, exists := p.byID[r.ID()]; exists {
			return nil
		}
		p.order = append(p.order, r.ID())
		p.byID[r.ID()] = r
	case opStatus:
		r, ok := p.byID[rec.ID]
		if !ok {
			return fmt.Errorf("status record for unknown report %s", rec.ID)
		}
		status, err := vo.NewReportStatus(rec.Status)
		if err != nil {
			return err
		}
		at, err := biztime.ParseISO(rec.UpdatedAt)
		if err != nil {
			return err
		}
		// the log is the source of truth; replay ignores the current policy
		if _, err := r.ChangeStatus(status, vo.PermissivePolicy{}, at); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown op %q", rec.Op)
	}
	return nil
}

func cloneReport(r *report.Report) (*report.Report, error) {
	return report.ReconstructReport(
		r.ID(),
		r.Type(),
		r.Subtype(),
		r.Status(),
		r.Timestamp(),
		r.UpdatedAt(),
		r.User(),
		r.Payload(),
	)
}
