// Package admin holds the read-side operations of the admin review panel:
// statistics, filtering, ordering and export over a set of reports.
package admin

import (
	"sort"
	"time"

	"github.com/gorodok-inc/gorodok/internal/domain/report"
	vo "github.com/gorodok-inc/gorodok/internal/domain/report/valueobjects"
	"github.com/gorodok-inc/gorodok/internal/shared/biztime"
)

// Stats is the dashboard rollup.
type Stats struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"byCategory"`
	ByStatus   map[string]int `json:"byStatus"`
	Today      int            `json:"today"`
	Week       int            `json:"week"`
	Month      int            `json:"month"`
}

// Aggregate counts reports by category and status and by age. Age is the
// number of calendar days in the business timezone between the report
// timestamp and now: 0 is today, up to 7 is this week, up to 30 is this month.
func Aggregate(reports []*report.Report, now time.Time) Stats {
	stats := Stats{
		ByCategory: make(map[string]int, len(vo.AllCategories)),
		ByStatus:   make(map[string]int, len(vo.AllStatuses)),
	}
	for _, c := range vo.AllCategories {
		stats.ByCategory[c.String()] = 0
	}
	for _, s := range vo.AllStatuses {
		stats.ByStatus[s.String()] = 0
	}

	for _, r := range reports {
		stats.Total++
		stats.ByCategory[r.Category().String()]++
		stats.ByStatus[r.Status().String()]++

		days := biztime.CalendarDaysSince(r.Timestamp(), now)
		if days <= 0 {
			stats.Today++
		}
		if days <= 7 {
			stats.Week++
		}
		if days <= 30 {
			stats.Month++
		}
	}

	return stats
}

// Filter narrows a report set. Nil fields match everything; set fields are
// combined with AND.
type Filter struct {
	Status   *vo.ReportStatus
	Category *vo.Category
}

func (f Filter) Match(r *report.Report) bool {
	if f.Status != nil && r.Status() != *f.Status {
		return false
	}
	if f.Category != nil && r.Category() != *f.Category {
		return false
	}
	return true
}

// Apply returns the reports matching f, preserving order.
func (f Filter) Apply(reports []*report.Report) []*report.Report {
	out := make([]*report.Report, 0, len(reports))
	for _, r := range reports {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// SortDesc orders reports newest first in place. Reports with equal
// timestamps keep their relative order.
func SortDesc(reports []*report.Report) {
	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].Timestamp().After(reports[j].Timestamp())
	})
}

// Select filters and then sorts newest first, returning a new slice.
func Select(reports []*report.Report, f Filter) []*report.Report {
	out := f.Apply(reports)
	SortDesc(out)
	return out
}
