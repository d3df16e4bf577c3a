package packets

import "github.com/Nixie-Tech-LLC/boreas/internal/schedule"

// body for creating or replacing a program. Mode wins over the
// isMultiDay/isRepeated flags older dashboards send.
type ProgramRequest struct {
	Name       string   `json:"name"`
	Action     string   `json:"action"`
	Mode       string   `json:"mode" binding:"omitempty,oneof=single_day multi_day repeated"`
	IsMultiDay bool     `json:"isMultiDay"`
	IsRepeated bool     `json:"isRepeated"`
	Day        string   `json:"day" binding:"omitempty,weekday"`
	Days       []string `json:"days" binding:"omitempty,dive,weekday"`
	StartDay   string   `json:"start_day" binding:"omitempty,weekday"`
	EndDay     string   `json:"end_day" binding:"omitempty,weekday"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
}

func (r ProgramRequest) Expansion() schedule.Request {
	mode := schedule.Mode(r.Mode)
	if mode == "" {
		switch {
		case r.IsRepeated:
			mode = schedule.ModeRepeated
		case r.IsMultiDay:
			mode = schedule.ModeMultiDay
		default:
			mode = schedule.ModeSingleDay
		}
	}
	return schedule.Request{
		Name:     r.Name,
		Action:   r.Action,
		Mode:     mode,
		Day:      r.Day,
		Days:     r.Days,
		StartDay: r.StartDay,
		EndDay:   r.EndDay,
		Start:    r.Start,
		End:      r.End,
	}
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type RepeatRequest struct {
	Days []string `json:"days" binding:"required,min=1,dive,weekday"`
}

// body posted by sensors; Value is in tenths of a degree
type TemperatureRequest struct {
	SensorName string `json:"sensor_name" binding:"required"`
	Value      *int   `json:"value" binding:"required"`
	Timestamp  string `json:"timestamp" binding:"omitempty"`
}

type SensorGroupRequest struct {
	Name    string   `json:"name" binding:"required"`
	Sensors []string `json:"sensors" binding:"required,min=1,dive,required"`
}

// query for reading and exporting temperatures; bounds are RFC3339
type TemperatureQuery struct {
	From   string `form:"from"`
	To     string `form:"to"`
	Format string `form:"format" binding:"omitempty,oneof=csv pdf"`
}
