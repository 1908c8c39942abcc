package valueobjects

import "fmt"

// ReportType is the functional bucket of a report. It never changes after creation.
type ReportType string

const (
	TypeSecurity       ReportType = "security"
	TypeWifiProblem    ReportType = "wifi_problem"
	TypeWifiSuggestion ReportType = "wifi_suggestion"
	TypeGraffiti       ReportType = "graffiti"
)

// AllTypes lists every report type in display order.
var AllTypes = []ReportType{TypeSecurity, TypeWifiProblem, TypeWifiSuggestion, TypeGraffiti}

func (t ReportType) String() string {
	return string(t)
}

func (t ReportType) IsValid() bool {
	switch t {
	case TypeSecurity, TypeWifiProblem, TypeWifiSuggestion, TypeGraffiti:
		return true
	}
	return false
}

// Category returns the storage partition owning reports of this type.
func (t ReportType) Category() Category {
	switch t {
	case TypeSecurity:
		return CategorySecurity
	case TypeWifiProblem:
		return CategoryWifi
	case TypeWifiSuggestion:
		return CategorySuggestions
	case TypeGraffiti:
		return CategoryGraffiti
	}
	return ""
}

func NewReportType(s string) (ReportType, error) {
	t := ReportType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("invalid report type: %s", s)
	}
	return t, nil
}

// Category is a storage partition. Each partition owns its own list and has
// a stable storage key.
type Category string

const (
	CategorySecurity    Category = "security"
	CategoryWifi        Category = "wifi"
	CategoryGraffiti    Category = "graffiti"
	CategorySuggestions Category = "suggestions"
)

// AllCategories lists the partitions in display order.
var AllCategories = []Category{CategorySecurity, CategoryWifi, CategoryGraffiti, CategorySuggestions}

var categoryKeys = map[Category]string{
	CategorySecurity:    "security_reports",
	CategoryWifi:        "wifi_reports",
	CategoryGraffiti:    "graffiti_reports",
	CategorySuggestions: "wifi_suggestions",
}

func (c Category) String() string {
	return string(c)
}

func (c Category) IsValid() bool {
	_, ok := categoryKeys[c]
	return ok
}

// StorageKey is the stable key under which the partition's list is persisted.
func (c Category) StorageKey() string {
	return categoryKeys[c]
}

// Owns reports whether reports of type t belong to this partition.
func (c Category) Owns(t ReportType) bool {
	return t.Category() == c
}

func NewCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid report category: %s", s)
	}
	return c, nil
}
