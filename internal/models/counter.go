package models

import "time"

// Counter holds the persisted state of a named sequence
type Counter struct {
	Name      string    `gorm:"primaryKey;type:varchar(64)" bson:"name" json:"name"`
	Seq       int64     `gorm:"not null;default:0" bson:"seq" json:"seq"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// TableName specifies the table name for Counter model
func (Counter) TableName() string {
	return "counters"
}
