package endpoints

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/export"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/utils"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/storage"
)

type TemperatureController struct {
	store    db.Store
	archive  storage.Storage
	location *time.Location
	now      func() time.Time
}

func newTemperatureController(store db.Store, archive storage.Storage, loc *time.Location) *TemperatureController {
	if loc == nil {
		loc = time.UTC
	}
	return &TemperatureController{store: store, archive: archive, location: loc, now: time.Now}
}

// TemperatureModule mounts reading, export and archive endpoints (JWT required).
func TemperatureModule(store db.Store, archive storage.Storage, loc *time.Location) api.Module {
	ctl := newTemperatureController(store, archive, loc)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/temperatures", ctl.listTemperatures)
		c.GET("/temperatures/export", ctl.exportTemperatures)
		c.POST("/temperatures/exports", ctl.archiveTemperatures)
	})
}

// TemperatureIngestModule mounts the public endpoint sensors post readings to.
// An empty key leaves it open.
func TemperatureIngestModule(store db.Store, ingestKey string) api.Module {
	ctl := newTemperatureController(store, nil, time.UTC)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_POST("/temperatures", ctl.ingestTemperature, middleware.IngestKey(ingestKey))
	})
}

// POST /api/temperatures
func (t *TemperatureController) ingestTemperature(ctx *gin.Context) (any, *api.APIError) {
	var request packets.TemperatureRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, utils.BindingError(err)
	}

	recorded := t.now()
	if request.Timestamp != "" {
		ts, err := time.Parse(time.RFC3339, request.Timestamp)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "timestamp must be RFC3339"}
		}
		recorded = ts
	}

	saved, err := t.store.InsertTemperature(ctx.Request.Context(), model.Temperature{
		SensorName: request.SensorName,
		Value:      *request.Value,
		Timestamp:  recorded,
	})
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	log.Debug().Str("sensor", saved.SensorName).Int("value", saved.Value).Msg("temperature recorded")
	return api.Created{Body: packets.NewTemperatureResponse(saved, t.location)}, nil
}

// GET /api/temperatures?from=&to=
func (t *TemperatureController) listTemperatures(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	_, r, apiErr := t.query(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	readings, err := t.store.ListTemperatures(ctx.Request.Context(), r.From, r.To)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	out := make([]packets.TemperatureResponse, 0, len(readings))
	for _, reading := range readings {
		out = append(out, packets.NewTemperatureResponse(reading, t.location))
	}
	return out, nil
}

// GET /api/temperatures/export?from=&to=&format=csv|pdf
func (t *TemperatureController) exportTemperatures(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	report, apiErr := t.render(ctx)
	if apiErr != nil {
		return nil, apiErr
	}
	return api.File{Name: report.Name, ContentType: report.ContentType, Data: report.Data}, nil
}

// POST /api/temperatures/exports?from=&to=&format=csv|pdf
func (t *TemperatureController) archiveTemperatures(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if t.archive == nil {
		return nil, &api.APIError{Code: http.StatusServiceUnavailable, Message: "export storage is not configured"}
	}

	report, apiErr := t.render(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	url, err := t.archive.Save(ctx.Request.Context(), report.Name, report.ContentType, report.Data)
	if err != nil {
		log.Error().Err(err).Str("name", report.Name).Msg("failed to archive export")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store export"}
	}

	log.Info().Int("user", user.ID).Str("url", url).Msg("temperature export archived")
	return api.Created{Body: packets.ExportResponse{Name: report.Name, URL: url}}, nil
}

func (t *TemperatureController) render(ctx *gin.Context) (export.Report, *api.APIError) {
	format, r, apiErr := t.query(ctx)
	if apiErr != nil {
		return export.Report{}, apiErr
	}

	readings, err := t.store.ListTemperatures(ctx.Request.Context(), r.From, r.To)
	if err != nil {
		return export.Report{}, utils.ErrorFor(err)
	}

	report, err := export.Render(format, readings, r, t.location)
	if err != nil {
		log.Error().Err(err).Str("format", string(format)).Msg("failed to render export")
		return export.Report{}, &api.APIError{Code: http.StatusInternalServerError, Message: "could not render export"}
	}
	return report, nil
}

func (t *TemperatureController) query(ctx *gin.Context) (export.Format, export.Range, *api.APIError) {
	var q packets.TemperatureQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		return "", export.Range{}, utils.BindingError(err)
	}

	format, err := export.ParseFormat(q.Format)
	if err != nil {
		return "", export.Range{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var r export.Range
	if r.From, err = parseBound("from", q.From); err != nil {
		return "", export.Range{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if r.To, err = parseBound("to", q.To); err != nil {
		return "", export.Range{}, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	if !r.From.IsZero() && !r.To.IsZero() && !r.From.Before(r.To) {
		return "", export.Range{}, &api.APIError{Code: http.StatusBadRequest, Message: "from must be before to"}
	}
	return format, r, nil
}

// parseBound accepts an RFC3339 instant or a bare date; empty means unbounded.
func parseBound(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	if ts, err := time.Parse(time.DateOnly, raw); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("%s must be RFC3339 or YYYY-MM-DD", name)
}
