package models

import (
	"time"

	"gorm.io/datatypes"
)

// LabourItem is one worker's role and hours within a docket
type LabourItem struct {
	WorkerName  string  `bson:"workerName" json:"workerName"`
	Role        string  `bson:"role" json:"role"`
	HoursWorked float64 `bson:"hoursWorked" json:"hoursWorked"`
}

// Docket is a dated record of labour performed against a job.
// Dockets are immutable once created.
type Docket struct {
	ID             string                           `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	JobID          string                           `gorm:"type:varchar(24);not null;index" bson:"jobId" json:"jobId"`
	SupervisorName string                           `gorm:"not null" bson:"supervisorName" json:"supervisorName"`
	Date           time.Time                        `gorm:"not null;index" bson:"date" json:"date"`
	LabourItems    datatypes.JSONSlice[LabourItem] `gorm:"type:jsonb;not null" bson:"labourItems" json:"labourItems"`
	Notes          string                           `gorm:"type:text" bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time                        `gorm:"not null;autoCreateTime:false" bson:"createdAt" json:"createdAt"`

	Job *Job `gorm:"foreignKey:JobID" bson:"-" json:"-"`
}

// TableName specifies the table name for Docket model
func (Docket) TableName() string {
	return "dockets"
}

// TotalHours sums hours over all labour items
func (d *Docket) TotalHours() float64 {
	var total float64
	for _, item := range d.LabourItems {
		total += item.HoursWorked
	}
	return total
}

// DocketSummary is the global aggregate over all dockets
type DocketSummary struct {
	TotalDockets     int64              `json:"totalDockets"`
	TotalHoursByRole map[string]float64 `json:"totalHoursByRole"`
}

// HoursByRole groups hours of the given dockets by role
func HoursByRole(dockets []Docket) map[string]float64 {
	out := make(map[string]float64)
	for _, d := range dockets {
		for _, item := range d.LabourItems {
			out[item.Role] += item.HoursWorked
		}
	}
	return out
}
