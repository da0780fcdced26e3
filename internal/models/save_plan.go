package models

import "time"

// SaveFrequency represents how often an automatic deposit is taken
type SaveFrequency string

const (
	SaveFrequencyManual  SaveFrequency = "MANUAL"
	SaveFrequencyDaily   SaveFrequency = "DAILY"
	SaveFrequencyWeekly  SaveFrequency = "WEEKLY"
	SaveFrequencyMonthly SaveFrequency = "MONTHLY"
)

// IsValid reports whether f is a known frequency.
func (f SaveFrequency) IsValid() bool {
	switch f {
	case SaveFrequencyManual, SaveFrequencyDaily, SaveFrequencyWeekly, SaveFrequencyMonthly:
		return true
	}
	return false
}

// IsAutomatic reports whether plans with this frequency take scheduled deposits.
func (f SaveFrequency) IsAutomatic() bool {
	return f.IsValid() && f != SaveFrequencyManual
}

// Next returns the deduction date one period after from. MONTHLY clamps to the
// last day of a shorter month, so Jan 31 is followed by Feb 28 (then Mar 28).
// The second value is false for MANUAL and unknown frequencies.
func (f SaveFrequency) Next(from time.Time) (time.Time, bool) {
	switch f {
	case SaveFrequencyDaily:
		return from.AddDate(0, 0, 1), true
	case SaveFrequencyWeekly:
		return from.AddDate(0, 0, 7), true
	case SaveFrequencyMonthly:
		return addMonth(from), true
	}
	return time.Time{}, false
}

func addMonth(from time.Time) time.Time {
	y, m, d := from.Date()
	// Day 0 of the month after next is the last day of next month.
	last := time.Date(y, m+2, 0, 0, 0, 0, 0, from.Location()).Day()
	if d > last {
		d = last
	}
	return time.Date(y, m+1, d, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

// SavePlanStatus represents the lifecycle state of a savings plan
type SavePlanStatus string

const (
	SavePlanStatusActive    SavePlanStatus = "ACTIVE"
	SavePlanStatusCompleted SavePlanStatus = "COMPLETED"
	SavePlanStatusCancelled SavePlanStatus = "CANCELLED"
)

// SavePlan is a goal-based savings pot funded from the owner's wallet.
type SavePlan struct {
	Base
	UserID            string         `gorm:"type:uuid;not null;index" json:"user_id"`
	Title             string         `gorm:"not null" json:"title"`
	Description       string         `json:"description,omitempty"`
	TargetAmount      int64          `gorm:"type:bigint;not null" json:"target_amount"`
	CurrentAmount     int64          `gorm:"type:bigint;not null;default:0" json:"current_amount"`
	Frequency         SaveFrequency  `gorm:"size:16;not null" json:"frequency"`
	AutoSaveAmount    *int64         `gorm:"type:bigint" json:"auto_save_amount,omitempty"`
	TargetDate        time.Time      `gorm:"not null" json:"target_date"`
	Status            SavePlanStatus `gorm:"size:16;not null;default:ACTIVE;index" json:"status"`
	NextDeductionDate *time.Time     `gorm:"index" json:"next_deduction_date,omitempty"`
}

// IsActive reports whether the plan still accepts deposits.
func (p *SavePlan) IsActive() bool {
	return p.Status == SavePlanStatusActive
}

// TargetReached reports whether the saved amount meets the target.
func (p *SavePlan) TargetReached() bool {
	return p.CurrentAmount >= p.TargetAmount
}
