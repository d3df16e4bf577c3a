package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

// 2024-01-01 is a monday.
func at(day, hour, minute int) time.Time {
	return time.Date(2024, 1, day, hour, minute, 0, 0, time.UTC)
}

func single(t *testing.T, id int64, day week.Day, start, end string) SingleDay {
	return SingleDay{
		Base:  Base{IDs: []int64{id}, Action: "ventilation", Name: "p", IsActive: true},
		Day:   day,
		Start: clk(t, start),
		End:   clk(t, end),
	}
}

func TestResolveAcrossMidnight(t *testing.T) {
	night := single(t, 1, week.Tuesday, "23:00:00", "02:00:00")
	r := Resolver{}

	active, ok := r.Resolve([]Program{night}, at(3, 1, 0))
	require.True(t, ok)
	assert.Equal(t, "1", active.Program.ID())
	assert.Equal(t, at(2, 23, 0), active.Start)
	assert.Equal(t, at(3, 2, 0), active.End)

	_, ok = r.Resolve([]Program{night}, at(3, 3, 0))
	assert.False(t, ok)

	_, ok = r.Resolve([]Program{night}, at(2, 22, 59))
	assert.False(t, ok)
}

func TestResolveBetweenDisjointWindows(t *testing.T) {
	programs := []Program{
		single(t, 1, week.Monday, "08:00:00", "10:00:00"),
		single(t, 2, week.Monday, "14:00:00", "16:00:00"),
	}
	_, ok := Resolver{}.Resolve(programs, at(1, 12, 0))
	assert.False(t, ok)

	active, ok := Resolver{}.Resolve(programs, at(1, 15, 0))
	require.True(t, ok)
	assert.Equal(t, "2", active.Program.ID())
}

func TestResolveWindowEndIsExclusive(t *testing.T) {
	p := single(t, 1, week.Monday, "08:00:00", "10:00:00")
	_, ok := Resolver{}.Resolve([]Program{p}, at(1, 10, 0))
	assert.False(t, ok)
	_, ok = Resolver{}.Resolve([]Program{p}, at(1, 8, 0))
	assert.True(t, ok)
}

func TestResolveMultiDay(t *testing.T) {
	rows := stored(mustExpand(t, Request{Mode: ModeMultiDay, StartDay: "friday", EndDay: "monday", Start: "08:00", End: "18:00", Action: "ventilation", Name: "Weekend"}), 1)
	for i := range rows {
		rows[i].IsActive = true
	}
	programs := Group(rows)

	active, ok := Resolver{}.Resolve(programs, at(7, 3, 0))
	require.True(t, ok)
	assert.Equal(t, at(5, 8, 0), active.Start)
	assert.Equal(t, at(8, 18, 0), active.End)

	_, ok = Resolver{}.Resolve(programs, at(8, 18, 0))
	assert.False(t, ok)
	_, ok = Resolver{}.Resolve(programs, at(5, 7, 59))
	assert.False(t, ok)
	_, ok = Resolver{}.Resolve(programs, at(3, 12, 0))
	assert.False(t, ok)
}

func TestResolveDailyOvernight(t *testing.T) {
	rows := stored(mustExpand(t, Request{Mode: ModeRepeated, Start: "22:00", End: "06:00", Action: "ventilation", Name: "Night"}), 1)
	for i := range rows {
		rows[i].IsActive = true
	}
	programs := Group(rows)
	require.Len(t, programs, 1)

	active, ok := Resolver{}.Resolve(programs, at(4, 3, 0))
	require.True(t, ok)
	assert.Equal(t, at(3, 22, 0), active.Start)
	assert.Equal(t, at(4, 6, 0), active.End)

	_, ok = Resolver{}.Resolve(programs, at(4, 12, 0))
	assert.False(t, ok)
}

func TestResolveIgnoresDisabled(t *testing.T) {
	p := single(t, 1, week.Monday, "00:00:00", "23:59:59")
	p.IsActive = false
	_, ok := Resolver{}.Resolve([]Program{p}, at(1, 12, 0))
	assert.False(t, ok)
}

func TestResolvePrefersShortestWindow(t *testing.T) {
	programs := []Program{
		single(t, 1, week.Monday, "00:00:00", "23:59:59"),
		single(t, 2, week.Monday, "11:00:00", "13:00:00"),
		single(t, 3, week.Monday, "11:00:00", "13:00:00"),
	}
	active, ok := Resolver{}.Resolve(programs, at(1, 12, 0))
	require.True(t, ok)
	assert.Equal(t, "2", active.Program.ID())
}

func TestResolveInLocation(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	p := single(t, 1, week.Tuesday, "00:00:00", "01:00:00")

	// 23:30 UTC monday is 00:30 tuesday in CET
	now := time.Date(2024, 1, 1, 23, 30, 0, 0, time.UTC)
	_, ok := Resolver{}.Resolve([]Program{p}, now)
	assert.False(t, ok)
	_, ok = Resolver{Location: loc}.Resolve([]Program{p}, now)
	assert.True(t, ok)
}

func TestProgress(t *testing.T) {
	a := Active{Start: at(1, 10, 0), End: at(1, 12, 0)}
	assert.InDelta(t, 50.0, a.Progress(at(1, 11, 0)), 0.001)
	assert.InDelta(t, 0.0, a.Progress(at(1, 9, 0)), 0.001)
	assert.InDelta(t, 100.0, a.Progress(at(1, 13, 0)), 0.001)
	assert.Zero(t, Active{}.Progress(at(1, 0, 0)))
}
