package endpoints

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/utils"
	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
)

type ProgramController struct {
	store    db.Store
	expander schedule.Expander
	resolver schedule.Resolver
	now      func() time.Time
}

func newProgramController(store db.Store, expander schedule.Expander, resolver schedule.Resolver) *ProgramController {
	return &ProgramController{store: store, expander: expander, resolver: resolver, now: time.Now}
}

// ProgramModule mounts the air program endpoints.
func ProgramModule(store db.Store, expander schedule.Expander, resolver schedule.Resolver) api.Module {
	utils.RegisterValidators()
	ctl := newProgramController(store, expander, resolver)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/air-programs", ctl.listPrograms)
		c.POST("/air-programs", ctl.createProgram)
		c.GET("/air-programs/active", ctl.activeProgram)
		c.PUT("/air-programs/:id", ctl.updateProgram)
		c.DELETE("/air-programs/:id", ctl.deleteProgram)
		c.PUT("/air-programs/:id/active", ctl.setActive)
		c.POST("/air-programs/:id/repeat", ctl.repeatProgram) // body: {days}
	})
}

// GET /api/air-programs
func (p *ProgramController) listPrograms(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	rows, err := p.store.ListProgramRows(ctx.Request.Context())
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	return packets.NewProgramListResponse(schedule.Split(schedule.Group(rows))), nil
}

// POST /api/air-programs
func (p *ProgramController) createProgram(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ProgramRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, utils.BindingError(err)
	}

	rows, err := p.expander.Expand(request.Expansion())
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	ids, err := p.store.CreatePrograms(ctx.Request.Context(), rows)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	log.Info().Int("user", user.ID).Ints64("rows", ids).Str("name", rows[0].Name).Msg("program created")
	return api.Created{Body: packets.ProgramCreatedResponse{ID: schedule.Base{IDs: ids}.ID(), RowIDs: ids}}, nil
}

// PUT /api/air-programs/:id
func (p *ProgramController) updateProgram(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ids, apiErr := programIDs(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.ProgramRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, utils.BindingError(err)
	}

	rows, err := p.expander.Expand(request.Expansion())
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	newIDs, err := p.store.ReplacePrograms(ctx.Request.Context(), ids, rows)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	log.Info().Int("user", user.ID).Ints64("old", ids).Ints64("new", newIDs).Msg("program replaced")
	return packets.ProgramCreatedResponse{ID: schedule.Base{IDs: newIDs}.ID(), RowIDs: newIDs}, nil
}

// DELETE /api/air-programs/:id
func (p *ProgramController) deleteProgram(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ids, apiErr := programIDs(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	affected, err := p.store.DeletePrograms(ctx.Request.Context(), ids)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	log.Info().Int("user", user.ID).Ints64("rows", ids).Int64("deleted", affected).Msg("program deleted")
	return gin.H{"deleted": affected}, nil
}

// PUT /api/air-programs/:id/active
func (p *ProgramController) setActive(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ids, apiErr := programIDs(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.SetActiveRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, utils.BindingError(err)
	}

	if err := p.store.SetProgramsActive(ctx.Request.Context(), ids, *request.IsActive); err != nil {
		return nil, utils.ErrorFor(err)
	}
	return gin.H{"id": ctx.Param("id"), "is_active": *request.IsActive}, nil
}

// POST /api/air-programs/:id/repeat
func (p *ProgramController) repeatProgram(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ids, apiErr := programIDs(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	var request packets.RepeatRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, utils.BindingError(err)
	}

	src, err := p.store.GetProgramRow(ctx.Request.Context(), ids[0])
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	rows, err := schedule.Repeat(src, request.Days)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	if len(rows) == 0 {
		return gin.H{"row_ids": []int64{}}, nil
	}

	newIDs, err := p.store.CreatePrograms(ctx.Request.Context(), rows)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	return api.Created{Body: gin.H{"row_ids": newIDs}}, nil
}

// GET /api/air-programs/active?at=2024-01-01T08:00:00Z
func (p *ProgramController) activeProgram(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	now := p.now()
	if raw := ctx.Query("at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "at must be an RFC3339 timestamp"}
		}
		now = at
	}

	rows, err := p.store.ListProgramRows(ctx.Request.Context())
	if err != nil {
		return nil, utils.ErrorFor(err)
	}

	active, ok := p.resolver.Resolve(schedule.Group(rows), now)
	if !ok {
		return packets.ActiveProgramResponse{Active: false}, nil
	}

	program := packets.NewProgramResponse(active.Program)
	return packets.ActiveProgramResponse{
		Active:   true,
		Program:  &program,
		Start:    active.Start.Format(time.RFC3339),
		End:      active.End.Format(time.RFC3339),
		Progress: active.Progress(now),
	}, nil
}

func programIDs(ctx *gin.Context) ([]int64, *api.APIError) {
	ids, err := schedule.ParseID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}
	return ids, nil
}
