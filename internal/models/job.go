package models

import (
	"time"
)

// JobStatus defines the lifecycle state of a job
type JobStatus string

const (
	JobStatusOpen   JobStatus = "open"   // Accepting dockets
	JobStatusClosed JobStatus = "closed" // Terminal, no reopen
)

// Valid reports whether s is a known status
func (s JobStatus) Valid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

// Job is a billable unit of work at a client site
type Job struct {
	ID           string    `gorm:"primaryKey;type:varchar(24)" bson:"_id" json:"id"`
	JobNumber    string    `gorm:"uniqueIndex;not null" bson:"jobNumber" json:"jobNumber"`
	ClientName   string    `gorm:"not null" bson:"clientName" json:"clientName"`
	SiteLocation string    `gorm:"not null" bson:"siteLocation" json:"siteLocation"`
	Status       JobStatus `gorm:"type:varchar(16);default:open;not null;index" bson:"status" json:"status"`
	CreatedAt    time.Time `gorm:"not null;index;autoCreateTime:false" bson:"createdAt" json:"createdAt"`
}

// TableName specifies the table name for Job model
func (Job) TableName() string {
	return "jobs"
}

// IsClosed returns true once the job no longer accepts dockets
func (j *Job) IsClosed() bool {
	return j.Status == JobStatusClosed
}

// JobWithDockets is the detail view of a job
type JobWithDockets struct {
	Job     *Job     `json:"job"`
	Dockets []Docket `json:"dockets"`
}
