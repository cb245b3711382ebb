package models

import "time"

// Settings is the singleton configuration row. The resolver falls back to a
// hardcoded 20 percent when the row is missing, so absence is not an error.
type Settings struct {
	ID              int       `gorm:"column:id;primaryKey"`
	DiscountPercent float64   `gorm:"column:discount_percent;type:numeric(5,2);not null;default:20"`
	DefaultDueDays  int       `gorm:"column:default_due_days;not null;default:30"`
	UpdatedAt       time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// SettingsRowID is the fixed primary key of the singleton row.
const SettingsRowID = 1
