package schedule

import (
	"sort"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

// SortRows orders rows by canonical day, then start time, then id.
func SortRows(rows []model.ProgramRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Day.Index() != b.Day.Index() {
			return a.Day.Index() < b.Day.Index()
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.ID < b.ID
	})
}

// continues reports whether next picks up where prev leaves off at midnight.
func continues(prev, next model.ProgramRow) bool {
	return prev.End == week.EndOfDay &&
		next.Start == week.Midnight &&
		next.Day == prev.Day.Next() &&
		next.Action == prev.Action &&
		next.Name == prev.Name
}

type slot struct {
	head    int
	program Program
	drop    bool
}

// Group rebuilds the logical programs from stored rows. Every row ends up in
// exactly one program; broken chains come back as separate fragments.
func Group(rows []model.ProgramRow) []Program {
	sorted := make([]model.ProgramRow, len(rows))
	copy(sorted, rows)
	SortRows(sorted)

	n := len(sorted)
	succ := make([]int, n)
	hasPred := make([]bool, n)
	for i := range succ {
		succ[i] = -1
	}

	// link each day-closing row to the first free continuation after it,
	// scanning past the end of the week back to monday
	for i := 0; i < n; i++ {
		if sorted[i].End != week.EndOfDay {
			continue
		}
		for k := 1; k < n; k++ {
			j := (i + k) % n
			if !hasPred[j] && continues(sorted[i], sorted[j]) {
				succ[i] = j
				hasPred[j] = true
				break
			}
		}
	}

	claimed := make([]bool, n)
	var slots []slot
	walk := func(head int) {
		chain := []int{head}
		claimed[head] = true
		for cur := head; succ[cur] >= 0 && !claimed[succ[cur]]; {
			cur = succ[cur]
			claimed[cur] = true
			chain = append(chain, cur)
		}
		slots = append(slots, slot{head: head, program: build(sorted, chain)})
	}

	for i := 0; i < n; i++ {
		if !claimed[i] && !hasPred[i] {
			walk(i)
		}
	}
	// only closed cycles are left; cut each at its first row
	for i := 0; i < n; i++ {
		if !claimed[i] {
			walk(i)
		}
	}

	slots = foldDaily(slots)
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].head < slots[j].head })

	out := make([]Program, 0, len(slots))
	for _, s := range slots {
		if !s.drop {
			out = append(out, s.program)
		}
	}
	return out
}

func build(rows []model.ProgramRow, chain []int) Program {
	first := rows[chain[0]]
	if len(chain) == 1 {
		return SingleDay{
			Base:  Base{IDs: []int64{first.ID}, Action: first.Action, Name: first.Name, IsActive: first.IsActive},
			Day:   first.Day,
			Start: first.Start,
			End:   first.End,
		}
	}

	last := rows[chain[len(chain)-1]]
	p := MultiDay{
		Base:     Base{Action: first.Action, Name: first.Name},
		StartDay: first.Day,
		EndDay:   last.Day,
		Start:    first.Start,
		End:      last.End,
	}
	distinct := map[week.Day]bool{}
	for _, idx := range chain {
		r := rows[idx]
		p.IDs = append(p.IDs, r.ID)
		p.Days = append(p.Days, r.Day)
		p.IsActive = p.IsActive || r.IsActive
		distinct[r.Day] = true
	}
	p.Repeated = len(distinct) == len(week.Order)
	return p
}

type windowKey struct {
	action, name string
	start, end   week.Clock
}

// foldDaily merges seven single-day programs sharing one window, one per day,
// into a daily Repeated program.
func foldDaily(slots []slot) []slot {
	perKey := map[windowKey]*[7]int{}
	var keys []windowKey
	for i, s := range slots {
		sd, ok := s.program.(SingleDay)
		if !ok || !sd.Day.Valid() {
			continue
		}
		k := windowKey{sd.Action, sd.Name, sd.Start, sd.End}
		members, ok := perKey[k]
		if !ok {
			members = &[7]int{-1, -1, -1, -1, -1, -1, -1}
			perKey[k] = members
			keys = append(keys, k)
		}
		if members[sd.Day.Index()] < 0 {
			members[sd.Day.Index()] = i
		}
	}

	for _, k := range keys {
		members := perKey[k]
		complete := true
		for _, idx := range members {
			if idx < 0 {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}

		p := MultiDay{
			Base:     Base{Action: k.action, Name: k.name},
			StartDay: week.Monday,
			EndDay:   week.Sunday,
			Start:    k.start,
			End:      k.end,
			Days:     append([]week.Day(nil), week.Order[:]...),
			Repeated: true,
			Daily:    true,
		}
		head := -1
		for _, idx := range members {
			sd := slots[idx].program.(SingleDay)
			p.IDs = append(p.IDs, sd.IDs...)
			p.IsActive = p.IsActive || sd.IsActive
			slots[idx].drop = true
			if head < 0 || slots[idx].head < head {
				head = slots[idx].head
			}
		}
		slots = append(slots, slot{head: head, program: p})
	}
	return slots
}
