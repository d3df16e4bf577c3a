package schedule

import (
	"fmt"
	"strings"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

type Mode string

const (
	ModeSingleDay Mode = "single_day"
	ModeMultiDay  Mode = "multi_day"
	ModeRepeated  Mode = "repeated"
)

// Request describes a program to create or the replacement of an existing one.
// StartDay/EndDay, when both set, bound a multi-day range explicitly; otherwise
// the range is derived from Days.
type Request struct {
	Name     string
	Action   string
	Mode     Mode
	Day      string
	Days     []string
	StartDay string
	EndDay   string
	Start    string
	End      string
}

// Expander turns a Request into the rows to persist.
// With Strict unset, malformed times silently become 00:00:00 (start) or 23:59:59 (end).
type Expander struct {
	Strict bool
}

// Expand runs the lenient expander.
func Expand(req Request) ([]model.ProgramRow, error) {
	return Expander{}.Expand(req)
}

func (e Expander) Expand(req Request) ([]model.ProgramRow, error) {
	action := strings.TrimSpace(req.Action)
	name := strings.TrimSpace(req.Name)
	if action == "" {
		return nil, fmt.Errorf("%w: action", ErrMissingField)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}

	start, err := e.clock(req.Start, week.Midnight)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	end, err := e.clock(req.End, week.EndOfDay)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}

	row := func(d week.Day, s, en week.Clock) model.ProgramRow {
		return model.ProgramRow{Day: d, Start: s, End: en, Action: action, Name: name}
	}

	switch req.Mode {
	case ModeSingleDay, "":
		if strings.TrimSpace(req.Day) == "" {
			return nil, fmt.Errorf("%w: day", ErrMissingField)
		}
		day, err := week.ParseDay(req.Day)
		if err != nil {
			return nil, err
		}
		return []model.ProgramRow{row(day, start, end)}, nil

	case ModeRepeated:
		rows := make([]model.ProgramRow, 0, len(week.Order))
		for _, d := range week.Order {
			rows = append(rows, row(d, start, end))
		}
		return rows, nil

	case ModeMultiDay:
		days, err := rangeOf(req)
		if err != nil {
			return nil, err
		}
		rows := make([]model.ProgramRow, 0, len(days))
		last := len(days) - 1
		for i, d := range days {
			s, en := week.Midnight, week.EndOfDay
			if i == 0 {
				s = start
			}
			if i == last {
				en = end
			}
			rows = append(rows, row(d, s, en))
		}
		return rows, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrInvalidMode, req.Mode)
}

func (e Expander) clock(raw string, fallback week.Clock) (week.Clock, error) {
	raw = strings.TrimSpace(raw)
	if !e.Strict || raw == "" {
		return week.NormalizeClock(raw, fallback), nil
	}
	c, err := week.ParseClock(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTime, raw)
	}
	return c, nil
}

// rangeOf resolves the contiguous run of days a multi-day request covers.
func rangeOf(req Request) ([]week.Day, error) {
	if req.StartDay != "" || req.EndDay != "" {
		if req.StartDay == "" || req.EndDay == "" {
			return nil, fmt.Errorf("%w: start_day and end_day go together", ErrMissingField)
		}
		first, err := week.ParseDay(req.StartDay)
		if err != nil {
			return nil, err
		}
		last, err := week.ParseDay(req.EndDay)
		if err != nil {
			return nil, err
		}
		days, err := week.DaysBetween(first, last)
		if err != nil {
			return nil, err
		}
		if len(days) < 2 {
			return nil, fmt.Errorf("%w: a multi-day program needs at least two days", ErrInvalidRange)
		}
		return days, nil
	}

	var selected [7]bool
	count := 0
	for _, raw := range req.Days {
		d, err := week.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		if !selected[d.Index()] {
			selected[d.Index()] = true
			count++
		}
	}
	if count < 2 {
		return nil, fmt.Errorf("%w: a multi-day program needs at least two days", ErrInvalidRange)
	}

	first, last := bounds(selected)
	return week.DaysBetween(first, last)
}

// bounds picks the range ends for a day selection. A selection forming one
// run on the circular week (friday, saturday, sunday, monday) keeps that run;
// anything else spans from the first to the last selected day in week order.
func bounds(selected [7]bool) (week.Day, week.Day) {
	n := len(week.Order)
	runStart, runs := -1, 0
	for i := 0; i < n; i++ {
		if selected[i] && !selected[(i+n-1)%n] {
			runStart = i
			runs++
		}
	}

	if runs == 1 {
		end := runStart
		for selected[(end+1)%n] {
			end = (end + 1) % n
		}
		return week.Order[runStart], week.Order[end]
	}

	first, last := -1, -1
	for i := 0; i < n; i++ {
		if selected[i] {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	return week.Order[first], week.Order[last]
}

// Repeat copies a stored row onto other days, keeping its window, action, name and flag.
// The row's own day is skipped.
func Repeat(src model.ProgramRow, days []string) ([]model.ProgramRow, error) {
	if len(days) == 0 {
		return nil, fmt.Errorf("%w: days", ErrMissingField)
	}

	var seen [7]bool
	if src.Day.Valid() {
		seen[src.Day.Index()] = true
	}
	rows := make([]model.ProgramRow, 0, len(days))
	for _, raw := range days {
		d, err := week.ParseDay(raw)
		if err != nil {
			return nil, err
		}
		if seen[d.Index()] {
			continue
		}
		seen[d.Index()] = true
		rows = append(rows, model.ProgramRow{
			Day:      d,
			Start:    src.Start,
			End:      src.End,
			Action:   src.Action,
			Name:     src.Name,
			IsActive: src.IsActive,
		})
	}
	return rows, nil
}
