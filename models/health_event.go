package models

import "time"

// HealthEvent records each fired health watch for auditing.
type HealthEvent struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Kind    string `gorm:"size:32;index;not null"` // "stale" or "failures"
	Message string `gorm:"size:512"`
}
