package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
	"github.com/gorodok-inc/gorodok/internal/shared/id"
)

// Report is a single citizen submission. Only the status and updatedAt ever
// change after creation, and a report is never deleted.
type Report struct {
	id         string
	reportType vo.ReportType
	subtype    string
	status     vo.ReportStatus
	timestamp  time.Time
	updatedAt  time.Time
	user       *UserSnapshot
	payload    json.RawMessage
}

// NewReport validates the payload and creates a report with a freshly
// generated id, status new and timestamp == updatedAt == now.
func NewReport(payload Payload, user *UserSnapshot, now time.Time) (*Report, error) {
	if payload == nil {
		return nil, fmt.Errorf("payload is required")
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	reportID, err := id.NewReportID(now)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report id: %w", err)
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	now = now.UTC()
	return &Report{
		id:         reportID,
		reportType: payload.Type(),
		subtype:    payload.Subtype(),
		status:     vo.StatusNew,
		timestamp:  now,
		updatedAt:  now,
		user:       copyUser(user),
		payload:    raw,
	}, nil
}

// ReconstructReport rebuilds a report from storage.
func ReconstructReport(
	reportID string,
	reportType vo.ReportType,
	subtype string,
	status vo.ReportStatus,
	timestamp, updatedAt time.Time,
	user *UserSnapshot,
	payload json.RawMessage,
) (*Report, error) {
	if strings.TrimSpace(reportID) == "" {
		return nil, fmt.Errorf("report id is required")
	}
	if !reportType.IsValid() {
		return nil, fmt.Errorf("invalid report type: %s", reportType)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid report status: %s", status)
	}
	if timestamp.IsZero() {
		return nil, fmt.Errorf("report timestamp is required")
	}
	if updatedAt.Before(timestamp) {
		return nil, fmt.Errorf("updatedAt precedes timestamp for report %s", reportID)
	}
	if payload != nil && !json.Valid(payload) {
		return nil, fmt.Errorf("payload of report %s is not valid JSON", reportID)
	}

	return &Report{
		id:         reportID,
		reportType: reportType,
		subtype:    subtype,
		status:     status,
		timestamp:  timestamp.UTC(),
		updatedAt:  updatedAt.UTC(),
		user:       copyUser(user),
		payload:    append(json.RawMessage(nil), payload...),
	}, nil
}

func (r *Report) ID() string {
	return r.id
}

func (r *Report) Type() vo.ReportType {
	return r.reportType
}

// Category returns the storage partition the report belongs to.
func (r *Report) Category() vo.Category {
	return r.reportType.Category()
}

func (r *Report) Subtype() string {
	return r.subtype
}

func (r *Report) Status() vo.ReportStatus {
	return r.status
}

func (r *Report) Timestamp() time.Time {
	return r.timestamp
}

func (r *Report) UpdatedAt() time.Time {
	return r.updatedAt
}

func (r *Report) User() *UserSnapshot {
	return copyUser(r.user)
}

func (r *Report) Payload() json.RawMessage {
	return append(json.RawMessage(nil), r.payload...)
}

// TypedPayload decodes the stored payload into its variant.
func (r *Report) TypedPayload() (Payload, error) {
	return DecodePayload(r.reportType, r.payload)
}

// ChangeStatus moves the report to status to. It returns false without error
// when the status is already equal. updatedAt never moves before timestamp
// or backwards.
func (r *Report) ChangeStatus(to vo.ReportStatus, policy vo.TransitionPolicy, now time.Time) (bool, error) {
	if !to.IsValid() {
		return false, fmt.Errorf("invalid report status: %s", to)
	}
	if r.status == to {
		return false, nil
	}
	if policy == nil {
		policy = vo.PermissivePolicy{}
	}
	if !policy.CanTransition(r.status, to) {
		return false, fmt.Errorf("%w: %s -> %s", ErrTransitionNotAllowed, r.status, to)
	}

	r.status = to
	r.updatedAt = clampAfter(clampAfter(now.UTC(), r.timestamp), r.updatedAt)
	return true, nil
}

// Snapshot is the JSON wire and storage form of a report.
type Snapshot struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Subtype   string          `json:"subtype,omitempty"`
	Status    string          `json:"status,omitempty"`
	Timestamp string          `json:"timestamp"`
	UpdatedAt string          `json:"updatedAt,omitempty"`
	User      *UserSnapshot   `json:"user,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

func (r *Report) Snapshot() Snapshot {
	return Snapshot{
		ID:        r.id,
		Type:      r.reportType.String(),
		Subtype:   r.subtype,
		Status:    r.status.String(),
		Timestamp: biztime.FormatISO(r.timestamp),
		UpdatedAt: biztime.FormatISO(r.updatedAt),
		User:      copyUser(r.user),
		Payload:   r.Payload(),
	}
}

// FromSnapshot builds a report from its wire form. id, type and timestamp
// are required; status defaults to new and updatedAt to timestamp. An
// updatedAt earlier than timestamp is raised to timestamp.
func FromSnapshot(s Snapshot) (*Report, error) {
	if strings.TrimSpace(s.ID) == "" {
		return nil, invalid("id", "id is required")
	}
	if strings.TrimSpace(s.Type) == "" {
		return nil, invalid("type", "type is required")
	}
	if strings.TrimSpace(s.Timestamp) == "" {
		return nil, invalid("timestamp", "timestamp is required")
	}

	reportType, err := vo.NewReportType(s.Type)
	if err != nil {
		return nil, invalid("type", err.Error())
	}

	status := vo.StatusNew
	if s.Status != "" {
		if status, err = vo.NewReportStatus(s.Status); err != nil {
			return nil, invalid("status", err.Error())
		}
	}

	timestamp, err := biztime.ParseISO(s.Timestamp)
	if err != nil {
		return nil, invalid("timestamp", err.Error())
	}

	updatedAt := timestamp
	if s.UpdatedAt != "" {
		if updatedAt, err = biztime.ParseISO(s.UpdatedAt); err != nil {
			return nil, invalid("updatedAt", err.Error())
		}
	}

	return ReconstructReport(
		s.ID,
		reportType,
		s.Subtype,
		status,
		timestamp,
		clampAfter(updatedAt, timestamp),
		s.User,
		s.Payload,
	)
}

// FieldNames lists the snapshot fields present on this report, in wire order.
func (r *Report) FieldNames() []string {
	names := []string{"id", "type"}
	if r.subtype != "" {
		names = append(names, "subtype")
	}
	names = append(names, "status", "timestamp", "updatedAt")
	if r.user != nil {
		names = append(names, "user")
	}
	if len(r.payload) > 0 {
		names = append(names, "payload")
	}
	return names
}

// Field returns the value of a snapshot field. Object-valued fields are
// returned as their JSON encoding; the bool reports whether the value is an
// object.
func (r *Report) Field(name string) (string, bool) {
	switch name {
	case "id":
		return r.id, false
	case "type":
		return r.reportType.String(), false
	case "subtype":
		return r.subtype, false
	case "status":
		return r.status.String(), false
	case "timestamp":
		return biztime.FormatISO(r.timestamp), false
	case "updatedAt":
		return biztime.FormatISO(r.updatedAt), false
	case "user":
		if r.user == nil {
			return "", true
		}
		raw, _ := json.Marshal(r.user)
		return string(raw), true
	case "payload":
		return string(r.payload), true
	}
	return "", false
}

func clampAfter(t, floor time.Time) time.Time {
	if t.Before(floor) {
		return floor
	}
	return t
}

func copyUser(u *UserSnapshot) *UserSnapshot {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
