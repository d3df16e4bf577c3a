// Package export renders temperature readings as downloadable reports.
package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

var ErrUnknownFormat = errors.New("unknown export format")

type Format string

const (
	CSV Format = "csv"
	PDF Format = "pdf"
)

func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case CSV, "":
		return CSV, nil
	case PDF:
		return PDF, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

func (f Format) ContentType() string {
	if f == PDF {
		return "application/pdf"
	}
	return "text/csv; charset=utf-8"
}

// Report is a rendered export ready to download or archive.
type Report struct {
	Name        string
	ContentType string
	Data        []byte
}

// Range is the reporting window; a zero bound is open and printed as "début"/"fin".
type Range struct {
	From time.Time
	To   time.Time
}

var header = []string{"Date", "Heure", "Sonde", "Temperature"}

// Render sorts readings by time and renders them in format, with dates in loc.
func Render(format Format, readings []model.Temperature, r Range, loc *time.Location) (Report, error) {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]model.Temperature, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Timestamp.Before(sorted[j].Timestamp) })

	var (
		data []byte
		err  error
	)
	switch format {
	case CSV:
		data, err = renderCSV(sorted, loc)
	case PDF:
		data, err = renderPDF(sorted, r, loc)
	default:
		return Report{}, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return Report{}, err
	}
	return Report{
		Name:        fmt.Sprintf("temperatures_%s_%s.%s", label(r.From, loc, "debut"), label(r.To, loc, "fin"), format),
		ContentType: format.ContentType(),
		Data:        data,
	}, nil
}

func renderCSV(readings []model.Temperature, loc *time.Location) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'

	if err := w.Write(header); err != nil {
		return nil, err
	}
	for _, t := range readings {
		if err := w.Write(cells(t, loc)); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func cells(t model.Temperature, loc *time.Location) []string {
	ts := t.Timestamp.In(loc)
	return []string{
		ts.Format("02/01/2006"),
		ts.Format("15:04"),
		t.SensorName,
		fmt.Sprintf("%.1f", t.Celsius()),
	}
}

func label(t time.Time, loc *time.Location, open string) string {
	if t.IsZero() {
		return open
	}
	return t.In(loc).Format("02-01-2006")
}
