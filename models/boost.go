package models

import "time"

// BoostRecord is one unique boost as detected by the pipeline, one row per
// new-boost transition.
type BoostRecord struct {
	ID        uint `gorm:"primaryKey"`
	CreatedAt time.Time

	Percentage    float64 `gorm:"not null"`
	WasOdds       *int    // American odds; nil when the odds crop was unreadable
	NowOdds       *int
	CalculatedPct *float64 // implied by the odds pair, when both sides parsed
	Discrepancy   *float64
	Significant   bool

	RawBoostText string `gorm:"size:512"`
	RawOddsText  string `gorm:"size:512"`
	FrameFile    string `gorm:"size:255"`
	ObservedAt   time.Time
}
