package valueobjects

import "fmt"

// ReportStatus is the admin-controlled lifecycle flag of a report.
type ReportStatus string

const (
	StatusNew        ReportStatus = "new"
	StatusInProgress ReportStatus = "in_progress"
	StatusResolved   ReportStatus = "resolved"
	StatusRejected   ReportStatus = "rejected"
)

// AllStatuses lists every status in lifecycle order.
var AllStatuses = []ReportStatus{StatusNew, StatusInProgress, StatusResolved, StatusRejected}

func (s ReportStatus) String() string {
	return string(s)
}

func (s ReportStatus) IsValid() bool {
	switch s {
	case StatusNew, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// IsTerminal reports whether the status ends the review workflow.
func (s ReportStatus) IsTerminal() bool {
	return s == StatusResolved || s == StatusRejected
}

func NewReportStatus(s string) (ReportStatus, error) {
	st := ReportStatus(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid report status: %s", s)
	}
	return st, nil
}

// TransitionPolicy decides which status changes an admin may perform.
type TransitionPolicy interface {
	Name() string
	CanTransition(from, to ReportStatus) bool
	// AllowedFrom lists the statuses from which to is reachable.
	AllowedFrom(to ReportStatus) []ReportStatus
}

// PermissivePolicy allows every status to move to every other status.
type PermissivePolicy struct{}

func (PermissivePolicy) Name() string { return "permissive" }

func (PermissivePolicy) CanTransition(from, to ReportStatus) bool {
	return from.IsValid() && to.IsValid()
}

func (PermissivePolicy) AllowedFrom(to ReportStatus) []ReportStatus {
	if !to.IsValid() {
		return nil
	}
	return append([]ReportStatus(nil), AllStatuses...)
}

var workflowTransitions = map[ReportStatus][]ReportStatus{
	StatusNew: {
		StatusInProgress,
		StatusRejected,
	},
	StatusInProgress: {
		StatusResolved,
		StatusRejected,
	},
	StatusResolved: {},
	StatusRejected: {},
}

// WorkflowPolicy enforces new -> in_progress -> {resolved, rejected}, with
// new -> rejected for spam. Re-applying the current status is allowed.
type WorkflowPolicy struct{}

func (WorkflowPolicy) Name() string { return "workflow" }

func (WorkflowPolicy) CanTransition(from, to ReportStatus) bool {
	if !from.IsValid() || !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, allowed := range workflowTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func (p WorkflowPolicy) AllowedFrom(to ReportStatus) []ReportStatus {
	var out []ReportStatus
	for _, from := range AllStatuses {
		if p.CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// PolicyFor returns the workflow policy when strict is set, else the permissive one.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return WorkflowPolicy{}
	}
	return PermissivePolicy{}
}
