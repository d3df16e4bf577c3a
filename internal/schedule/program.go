// Package schedule turns ventilation program requests into per-day rows,
// rebuilds the logical programs a user sees from those rows, and resolves
// which program is running at a given instant.
package schedule

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

var (
	ErrInvalidDay   = week.ErrInvalidDay
	ErrMissingField = errors.New("missing field")
	ErrInvalidRange = errors.New("invalid day range")
	ErrInvalidTime  = errors.New("invalid time")
	ErrInvalidMode  = errors.New("invalid program mode")
)

type Kind string

const (
	KindSingleDay Kind = "single_day"
	KindMultiDay  Kind = "multi_day"
	KindRepeated  Kind = "repeated"
)

// Program is a logical program: a SingleDay or a MultiDay.
type Program interface {
	Kind() Kind
	ID() string
	Common() Base
	sealed()
}

// Base carries the fields every program variant shares.
type Base struct {
	IDs      []int64
	Action   string
	Name     string
	IsActive bool
}

// ID joins the row ids with "-", the identifier clients send back for updates.
func (b Base) ID() string {
	parts := make([]string, len(b.IDs))
	for i, id := range b.IDs {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

func (b Base) Common() Base { return b }

func (Base) sealed() {}

// SingleDay is a program stored as one row. When End <= Start it runs past midnight.
type SingleDay struct {
	Base
	Day   week.Day
	Start week.Clock
	End   week.Clock
}

func (SingleDay) Kind() Kind { return KindSingleDay }

// CrossesMidnight reports whether the window ends on the following day.
func (p SingleDay) CrossesMidnight() bool { return p.End <= p.Start }

// MultiDay is either a chain of rows running continuously from StartDay/Start
// to EndDay/End, or (Daily) the same window repeated on every day of the week.
type MultiDay struct {
	Base
	StartDay week.Day
	EndDay   week.Day
	Start    week.Clock
	End      week.Clock
	Days     []week.Day
	Repeated bool
	Daily    bool
}

func (p MultiDay) Kind() Kind {
	if p.Repeated {
		return KindRepeated
	}
	return KindMultiDay
}

// Grouped is the outbound shape: single-day programs apart from multi-day and repeated ones.
type Grouped struct {
	SingleDay []SingleDay
	MultiDay  []MultiDay
}

// Split partitions programs by variant, preserving order.
func Split(programs []Program) Grouped {
	g := Grouped{SingleDay: []SingleDay{}, MultiDay: []MultiDay{}}
	for _, p := range programs {
		switch v := p.(type) {
		case SingleDay:
			g.SingleDay = append(g.SingleDay, v)
		case MultiDay:
			g.MultiDay = append(g.MultiDay, v)
		}
	}
	return g
}

// ParseID splits a logical program id ("12", "12-13-14") into row ids.
// A trailing "group" token, as older dashboards sent, is ignored.
func ParseID(raw string) ([]int64, error) {
	tokens := strings.Split(strings.TrimSpace(raw), "-")
	ids := make([]int64, 0, len(tokens))
	seen := make(map[int64]bool, len(tokens))
	for i, tok := range tokens {
		if tok == "group" && i == len(tokens)-1 && i > 0 {
			break
		}
		id, err := strconv.ParseInt(tok, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid program id %q", raw)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}
