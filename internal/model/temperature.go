package model

import "time"

// Temperature is a single sensor reading; Value is in tenths of a degree Celsius.
type Temperature struct {
	ID         int64     `db:"id"          json:"id"`
	SensorName string    `db:"sensor_name" json:"sensor_name"`
	Value      int       `db:"value"       json:"value"`
	Timestamp  time.Time `db:"recorded_at" json:"timestamp"`
}

// Celsius converts the stored tenths into degrees.
func (t Temperature) Celsius() float64 {
	return float64(t.Value) / 10
}
