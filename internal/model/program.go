package model

import "github.com/Nixie-Tech-LLC/boreas/internal/week"

// ProgramRow is one persisted day of a ventilation program.
// A row ending at week.EndOfDay continues onto the next day's row starting at week.Midnight.
type ProgramRow struct {
	ID       int64      `db:"id"         json:"id"`
	Day      week.Day   `db:"day"        json:"day"`
	Start    week.Clock `db:"start_time" json:"start_time"`
	End      week.Clock `db:"end_time"   json:"end_time"`
	Action   string     `db:"action"     json:"action"`
	Name     string     `db:"name"       json:"name"`
	IsActive bool       `db:"is_active"  json:"is_active"`
}
