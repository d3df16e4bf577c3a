// Package week holds the canonical day order and wall-clock time helpers
// shared by the schedule model and the store.
package week

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDay is returned for any token outside the canonical week.
var ErrInvalidDay = errors.New("invalid day")

// Day is one of the seven canonical weekday names.
type Day string

const (
	Monday    Day = "monday"
	Tuesday   Day = "tuesday"
	Wednesday Day = "wednesday"
	Thursday  Day = "thursday"
	Friday    Day = "friday"
	Saturday  Day = "saturday"
	Sunday    Day = "sunday"
)

// Order is the canonical week, used for comparison and wraparound arithmetic.
var Order = [7]Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

// legacy rows written by the first dashboard used French names
var aliases = map[string]Day{
	"lundi":    Monday,
	"mardi":    Tuesday,
	"mercredi": Wednesday,
	"jeudi":    Thursday,
	"vendredi": Friday,
	"samedi":   Saturday,
	"dimanche": Sunday,
}

// ParseDay resolves a day token case-insensitively.
func ParseDay(s string) (Day, error) {
	token := strings.ToLower(strings.TrimSpace(s))
	for _, d := range Order {
		if string(d) == token {
			return d, nil
		}
	}
	if d, ok := aliases[token]; ok {
		return d, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// IndexOf returns the 0..6 position of a day token in the canonical week.
func IndexOf(s string) (int, error) {
	d, err := ParseDay(s)
	if err != nil {
		return -1, err
	}
	return d.Index(), nil
}

// Index returns the position of d in Order, or -1 when d is not canonical.
func (d Day) Index() int {
	for i, o := range Order {
		if o == d {
			return i
		}
	}
	return -1
}

// Valid reports whether d is one of the canonical days.
func (d Day) Valid() bool { return d.Index() >= 0 }

// Next returns the following day, wrapping sunday to monday.
func (d Day) Next() Day {
	i := d.Index()
	if i < 0 {
		return ""
	}
	return Order[(i+1)%len(Order)]
}

// Prev returns the preceding day, wrapping monday to sunday.
func (d Day) Prev() Day {
	i := d.Index()
	if i < 0 {
		return ""
	}
	return Order[(i+len(Order)-1)%len(Order)]
}

// Weekday converts d to the time package weekday.
func (d Day) Weekday() time.Weekday {
	return time.Weekday((d.Index() + 1) % 7)
}

func (d Day) String() string { return string(d) }

// FromTime returns the canonical day t falls on in its own location.
func FromTime(t time.Time) Day {
	// time.Weekday starts on sunday
	return Order[(int(t.Weekday())+6)%7]
}

// DaysBetween walks forward from start to end inclusive, wrapping past sunday.
// friday -> monday yields [friday saturday sunday monday].
func DaysBetween(start, end Day) ([]Day, error) {
	si, ei := start.Index(), end.Index()
	if si < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, start)
	}
	if ei < 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, end)
	}

	n := (ei-si+len(Order))%len(Order) + 1
	out := make([]Day, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Order[(si+i)%len(Order)])
	}
	return out, nil
}

// Scan implements sql.Scanner so legacy French values are canonicalized on read.
func (d *Day) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("week: cannot scan %T into Day", src)
	}
	parsed, err := ParseDay(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d Day) Value() (driver.Value, error) {
	if !d.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDay, string(d))
	}
	return string(d), nil
}
