package endpoints

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/utils"
	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

type SensorGroupController struct{ store db.Store }

func newSensorGroupController(store db.Store) *SensorGroupController {
	return &SensorGroupController{store: store}
}

func SensorGroupModule(store db.Store) api.Module {
	ctl := newSensorGroupController(store)
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/sensor-groups", ctl.listGroups)
		c.POST("/sensor-groups", ctl.createGroup)
		c.PUT("/sensor-groups/:id", ctl.updateGroup)
		c.DELETE("/sensor-groups/:id", ctl.deleteGroup)
	})
}

// GET /api/sensor-groups
func (g *SensorGroupController) listGroups(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	groups, err := g.store.ListSensorGroups(ctx.Request.Context())
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	out := make([]packets.SensorGroupResponse, 0, len(groups))
	for _, grp := range groups {
		out = append(out, packets.NewSensorGroupResponse(grp))
	}
	return out, nil
}

// POST /api/sensor-groups
func (g *SensorGroupController) createGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var req packets.SensorGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, utils.BindingError(err)
	}
	grp, err := g.store.CreateSensorGroup(ctx.Request.Context(), req.Name, req.Sensors)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	return api.Created{Body: packets.NewSensorGroupResponse(grp)}, nil
}

// PUT /api/sensor-groups/:id
func (g *SensorGroupController) updateGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	var req packets.SensorGroupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		return nil, utils.BindingError(err)
	}
	grp, err := g.store.UpdateSensorGroup(ctx.Request.Context(), id, req.Name, req.Sensors)
	if err != nil {
		return nil, utils.ErrorFor(err)
	}
	return packets.NewSensorGroupResponse(grp), nil
}

// DELETE /api/sensor-groups/:id
func (g *SensorGroupController) deleteGroup(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid id"}
	}
	if err := g.store.DeleteSensorGroup(ctx.Request.Context(), id); err != nil {
		return nil, utils.ErrorFor(err)
	}
	return gin.H{"message": "sensor group deleted"}, nil
}
