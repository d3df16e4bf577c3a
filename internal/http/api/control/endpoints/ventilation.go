package endpoints

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/packets"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/utils"
	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/ventilation"
)

// VentilationStatus reports the last command the dispatcher sent.
type VentilationStatus interface {
	Action() string
	Status(ctx context.Context) (ventilation.State, bool, error)
}

func VentilationModule(status VentilationStatus, loc *time.Location) api.Module {
	if loc == nil {
		loc = time.UTC
	}
	return api.ModuleFunc(func(c *api.Controller) {
		// GET /api/ventilation/status
		c.GET("/ventilation/status", func(ctx *gin.Context, user *model.User) (any, *api.APIError) {
			st, known, err := status.Status(ctx.Request.Context())
			if err != nil {
				return nil, utils.ErrorFor(err)
			}
			out := packets.VentilationStatusResponse{Action: status.Action(), Known: known}
			if !known {
				return out, nil
			}
			out.On = st.On
			out.ProgramID = st.ProgramID
			if !st.Until.IsZero() {
				out.Until = st.Until.In(loc).Format(time.RFC3339)
			}
			out.UpdatedAt = st.UpdatedAt.In(loc).Format(time.RFC3339)
			return out, nil
		})
	})
}
