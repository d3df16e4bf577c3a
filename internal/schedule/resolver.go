package schedule

import (
	"time"

	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

// Resolver finds the enabled program whose window contains a given instant.
// Day names are evaluated in Location (UTC when nil).
type Resolver struct {
	Location *time.Location
}

// Active is a resolved program together with the concrete window it is running in.
type Active struct {
	Program Program
	Start   time.Time
	End     time.Time
}

// Progress returns how far now is through the window, as a percentage in [0, 100].
func (a Active) Progress(now time.Time) float64 {
	total := a.End.Sub(a.Start)
	if total <= 0 {
		return 0
	}
	frac := float64(now.Sub(a.Start)) / float64(total)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	return frac * 100
}

// Resolve returns the program running at now. When enabled programs overlap,
// the one with the shortest window wins; equal windows keep input order.
func (r Resolver) Resolve(programs []Program, now time.Time) (Active, bool) {
	loc := r.Location
	if loc == nil {
		loc = time.UTC
	}
	now = now.In(loc)

	var best Active
	found := false
	for _, p := range programs {
		if !p.Common().IsActive {
			continue
		}
		start, end, ok := windowAt(p, now, loc)
		if !ok {
			continue
		}
		if !found || end.Sub(start) < best.End.Sub(best.Start) {
			best = Active{Program: p, Start: start, End: end}
			found = true
		}
	}
	return best, found
}

func windowAt(p Program, now time.Time, loc *time.Location) (time.Time, time.Time, bool) {
	switch v := p.(type) {
	case SingleDay:
		return weeklyWindow(now, loc, v.Day, v.Start, spill(v.Start, v.End), v.End)
	case MultiDay:
		if v.Daily {
			return dailyWindow(now, loc, v.Start, v.End)
		}
		return weeklyWindow(now, loc, v.StartDay, v.Start, len(v.Days)-1, v.End)
	}
	return time.Time{}, time.Time{}, false
}

// spill is 1 when a same-row window wraps past midnight.
func spill(start, end week.Clock) int {
	if end <= start {
		return 1
	}
	return 0
}

// weeklyWindow checks the two most recent occurrences of a window opening on
// day at start and closing span days later at end.
func weeklyWindow(now time.Time, loc *time.Location, day week.Day, start week.Clock, span int, end week.Clock) (time.Time, time.Time, bool) {
	if !day.Valid() {
		return time.Time{}, time.Time{}, false
	}
	back := (week.FromTime(now).Index() - day.Index() + 7) % 7
	for _, weeks := range []int{0, 1} {
		anchor := dateOf(now, loc, -back-7*weeks)
		ws, we := instants(anchor, loc, start, span, end)
		if !now.Before(ws) && now.Before(we) {
			return ws, we, true
		}
	}
	return time.Time{}, time.Time{}, false
}

// dailyWindow checks the window opening today and the one that opened yesterday.
func dailyWindow(now time.Time, loc *time.Location, start, end week.Clock) (time.Time, time.Time, bool) {
	for _, offset := range []int{0, -1} {
		anchor := dateOf(now, loc, offset)
		ws, we := instants(anchor, loc, start, spill(start, end), end)
		if !now.Before(ws) && now.Before(we) {
			return ws, we, true
		}
	}
	return time.Time{}, time.Time{}, false
}

func dateOf(now time.Time, loc *time.Location, offsetDays int) time.Time {
	y, m, d := now.Date()
	return time.Date(y, m, d+offsetDays, 0, 0, 0, 0, loc)
}

// instants turns clock times into instants; an end of 23:59:59 closes at the following midnight.
func instants(anchor time.Time, loc *time.Location, start week.Clock, span int, end week.Clock) (time.Time, time.Time) {
	y, m, d := anchor.Date()
	ws := time.Date(y, m, d, start.Hour(), start.Minute(), start.Second(), 0, loc)
	if end == week.EndOfDay {
		return ws, time.Date(y, m, d+span+1, 0, 0, 0, 0, loc)
	}
	return ws, time.Date(y, m, d+span, end.Hour(), end.Minute(), end.Second(), 0, loc)
}
