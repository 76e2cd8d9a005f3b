package models

import "time"

// SchemaMigration records a migration file that has been applied.
// Rows are keyed by file name; Batch groups files applied by the same run.
type SchemaMigration struct {
	Filename  string    `gorm:"primaryKey;type:varchar(255)" json:"filename"`
	Batch     string    `gorm:"type:varchar(36);not null" json:"batch"`
	AppliedAt time.Time `gorm:"not null" json:"applied_at"`
}
