package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/boreas/internal/config"
	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/api"
	authapi "github.com/Nixie-Tech-LLC/boreas/internal/http/api/auth/endpoints"
	controlapi "github.com/Nixie-Tech-LLC/boreas/internal/http/api/control/endpoints"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/boreas/internal/schedule"
	"github.com/Nixie-Tech-LLC/boreas/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, cfg *config.Config, store db.Store, archive storage.Storage, status controlapi.VentilationStatus) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
			middleware.IngestKeyHeader,
			middleware.RequestIDHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Disposition",
			middleware.RequestIDHeader,
		},
		AllowCredentials: false,
	}))

	expander := schedule.Expander{Strict: cfg.StrictTimes}
	resolver := schedule.Resolver{Location: cfg.Location}

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api",
		Auth:   false,
	},
		authapi.AuthPublicModule(cfg.JWTSecret, store),
		controlapi.TemperatureIngestModule(store, cfg.IngestKey),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api",
		Auth:      true,
		SecretKey: cfg.JWTSecret,
		Users:     store,
	},
		// session endpoints that require auth
		authapi.AuthSessionModule(cfg.JWTSecret, store),
		// control modules
		controlapi.ProgramModule(store, expander, resolver),
		controlapi.TemperatureModule(store, archive, cfg.Location),
		controlapi.SensorGroupModule(store),
		controlapi.VentilationModule(status, cfg.Location),
	)

	// archived exports
	if !cfg.UseSpaces {
		r.Static(exportsRoute, cfg.ExportDir)
	}
}
