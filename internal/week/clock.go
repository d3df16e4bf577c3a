package week

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// ErrInvalidClock is returned by ParseClock for anything but HH:MM or HH:MM:SS.
var ErrInvalidClock = errors.New("invalid time of day")

// Clock is a wall-clock time of day in whole seconds since midnight.
type Clock int

const (
	// Midnight opens a row that continues the previous day's program.
	Midnight Clock = 0
	// EndOfDay closes a row whose program carries on into the next day.
	EndOfDay Clock = 23*3600 + 59*60 + 59
)

var clockPattern = regexp.MustCompile(`^(\d{2}):(\d{2})(?::(\d{2}))?$`)

// NewClock builds a Clock from its components.
func NewClock(h, m, s int) Clock {
	return Clock(h*3600 + m*60 + s)
}

// ParseClock accepts HH:MM (seconds default to zero) or HH:MM:SS.
func ParseClock(s string) (Clock, error) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, _ := strconv.Atoi(m[1])
	min, _ := strconv.Atoi(m[2])
	sec := 0
	if m[3] != "" {
		sec, _ = strconv.Atoi(m[3])
	}
	if h > 23 || min > 59 || sec > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return NewClock(h, min, sec), nil
}

// NormalizeClock is the lenient form of ParseClock: malformed input yields fallback.
func NormalizeClock(s string, fallback Clock) Clock {
	c, err := ParseClock(s)
	if err != nil {
		return fallback
	}
	return c
}

func (c Clock) Hour() int   { return int(c) / 3600 }
func (c Clock) Minute() int { return int(c) % 3600 / 60 }
func (c Clock) Second() int { return int(c) % 60 }

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", c.Hour(), c.Minute(), c.Second())
}

// On returns the instant at which c occurs on the calendar date of day in loc.
func (c Clock) On(day time.Time, loc *time.Location) time.Time {
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, c.Hour(), c.Minute(), c.Second(), 0, loc)
}

// Scan implements sql.Scanner; TIME columns arrive as text.
func (c *Clock) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case time.Time:
		*c = NewClock(v.Hour(), v.Minute(), v.Second())
		return nil
	default:
		return fmt.Errorf("week: cannot scan %T into Clock", src)
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Value implements driver.Valuer.
func (c Clock) Value() (driver.Value, error) {
	return c.String(), nil
}

func (c Clock) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Clock) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseClock(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
