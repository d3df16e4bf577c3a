package packets

import (
	"time"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

type ProgramResponse struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Day        string   `json:"day,omitempty"`
	StartDay   string   `json:"start_day,omitempty"`
	EndDay     string   `json:"end_day,omitempty"`
	Days       []string `json:"days,omitempty"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Action     string   `json:"action"`
	Name       string   `json:"name"`
	IsActive   bool     `json:"is_active"`
	IsMultiDay bool     `json:"isMultiDay"`
	IsRepeated bool     `json:"isRepeated"`
	Daily      bool     `json:"daily,omitempty"`
}

// grouped listing, single-day programs apart from the rest
type ProgramListResponse struct {
	SingleDay []ProgramResponse `json:"single_day"`
	MultiDay  []ProgramResponse `json:"multi_day"`
}

type ProgramCreatedResponse struct {
	ID     string  `json:"id"`
	RowIDs []int64 `json:"row_ids"`
}

type ActiveProgramResponse struct {
	Active   bool             `json:"active"`
	Program  *ProgramResponse `json:"program,omitempty"`
	Start    string           `json:"start,omitempty"`
	End      string           `json:"end,omitempty"`
	Progress float64          `json:"progress"`
}

type TemperatureResponse struct {
	ID         int64   `json:"id"`
	SensorName string  `json:"sensor_name"`
	Value      int     `json:"value"`
	Celsius    float64 `json:"celsius"`
	Timestamp  string  `json:"timestamp"`
}

type SensorGroupResponse struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Sensors   []string `json:"sensors"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

type ExportResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type VentilationStatusResponse struct {
	Action    string `json:"action"`
	Known     bool   `json:"known"`
	On        bool   `json:"on"`
	ProgramID string `json:"program_id,omitempty"`
	Until     string `json:"until,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

func NewProgramResponse(p schedule.Program) ProgramResponse {
	b := p.Common()
	out := ProgramResponse{
		ID:       p.ID(),
		Kind:     string(p.Kind()),
		Action:   b.Action,
		Name:     b.Name,
		IsActive: b.IsActive,
	}
	switch v := p.(type) {
	case schedule.SingleDay:
		out.Day = string(v.Day)
		out.StartTime = v.Start.String()
		out.EndTime = v.End.String()
	case schedule.MultiDay:
		out.StartDay = string(v.StartDay)
		out.EndDay = string(v.EndDay)
		out.Days = dayNames(v.Days)
		out.StartTime = v.Start.String()
		out.EndTime = v.End.String()
		out.IsMultiDay = true
		out.IsRepeated = v.Repeated
		out.Daily = v.Daily
	}
	return out
}

func NewProgramListResponse(g schedule.Grouped) ProgramListResponse {
	out := ProgramListResponse{
		SingleDay: make([]ProgramResponse, 0, len(g.SingleDay)),
		MultiDay:  make([]ProgramResponse, 0, len(g.MultiDay)),
	}
	for _, p := range g.SingleDay {
		out.SingleDay = append(out.SingleDay, NewProgramResponse(p))
	}
	for _, p := range g.MultiDay {
		out.MultiDay = append(out.MultiDay, NewProgramResponse(p))
	}
	return out
}

func NewTemperatureResponse(t model.Temperature, loc *time.Location) TemperatureResponse {
	return TemperatureResponse{
		ID:         t.ID,
		SensorName: t.SensorName,
		Value:      t.Value,
		Celsius:    t.Celsius(),
		Timestamp:  t.Timestamp.In(loc).Format(time.RFC3339),
	}
}

func NewSensorGroupResponse(g model.SensorGroup) SensorGroupResponse {
	sensors := g.Sensors
	if sensors == nil {
		sensors = []string{}
	}
	return SensorGroupResponse{
		ID:        g.ID,
		Name:      g.Name,
		Sensors:   sensors,
		CreatedAt: g.CreatedAt.Format(time.RFC3339),
		UpdatedAt: g.UpdatedAt.Format(time.RFC3339),
	}
}

func dayNames(days []week.Day) []string {
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = string(d)
	}
	return out
}
