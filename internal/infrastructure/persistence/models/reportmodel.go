package models

import "gorm.io/datatypes"

// ReportModel is the server-side copy of a citizen report. Times are unix
// milliseconds. ReportedAt is the client creation time, ReceivedAt the
// server ingestion time.
type ReportModel struct {
	ID         string         `gorm:"primaryKey;size:64"`
	Type       string         `gorm:"size:32;not null;index:idx_reports_type_reported,priority:1"`
	Subtype    string         `gorm:"size:128;not null;default:''"`
	Status     string         `gorm:"size:16;not null;default:new;index"`
	ReportedAt int64          `gorm:"column:reported_at;not null;index:idx_reports_type_reported,priority:2;index:idx_reports_reported"`
	ModifiedAt int64          `gorm:"column:updated_at;not null"`
	User       datatypes.JSON `gorm:"column:user_json"`
	Payload    datatypes.JSON `gorm:"column:payload_json"`
	ReceivedAt int64          `gorm:"column:received_at;autoCreateTime:milli;not null"`
}

func (ReportModel) TableName() string {
	return "reports"
}
