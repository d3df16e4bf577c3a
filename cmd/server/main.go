package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/config"
	"github.com/Nixie-Tech-LLC/boreas/internal/db"
	"github.com/Nixie-Tech-LLC/boreas/internal/http/middleware"
	"github.com/Nixie-Tech-LLC/boreas/internal/logger"
	"github.com/Nixie-Tech-LLC/boreas/internal/mqtt"
	"github.com/Nixie-Tech-LLC/boreas/internal/redis"
	"github.com/Nixie-Tech-LLC/boreas/internal/ventilation"
)

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logger.Setup(cfg.LogLevel, cfg.Production())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := db.Init(cfg.DatabaseDriver, cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}
	defer db.DB.Close()

	// run pending migrations
	if err := db.RunMigrations(ctx, db.DB); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore(db.DB)

	publisher, closePublisher := initPublisher(cfg)
	defer closePublisher()
	states, closeStates := initStates(ctx, cfg)
	defer closeStates()

	dispatcher := ventilation.NewDispatcher(ventilation.Config{
		Action:      cfg.VentilationAction,
		TopicPrefix: cfg.MQTTTopicPrefix,
		Interval:    cfg.PollInterval,
		Location:    cfg.Location,
	}, store, publisher, states)

	go func() {
		if err := dispatcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("ventilation dispatcher exited")
		}
	}()

	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())
	RegisterRoutes(r, cfg, store, InitStorage(cfg), dispatcher)

	srv := &http.Server{Addr: cfg.ServerAddress, Handler: r}
	go func() {
		log.Info().Str("address", cfg.ServerAddress).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// initPublisher connects to the broker, or logs commands when none is configured.
func initPublisher(cfg *config.Config) (ventilation.Publisher, func()) {
	if cfg.MQTTBroker == "" {
		log.Warn().Msg("MQTT_BROKER_URL not set, ventilation commands will only be logged")
		return ventilation.LogPublisher{}, func() {}
	}
	client, err := mqtt.Connect(cfg.MQTTBroker, cfg.MQTTClientID, 10*time.Second)
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	return client, client.Close
}

func initStates(ctx context.Context, cfg *config.Config) (ventilation.StateStore, func()) {
	if cfg.RedisAddress == "" {
		log.Info().Msg("REDIS_ADDRESS not set, keeping ventilation state in memory")
		return ventilation.NewMemoryStates(), func() {}
	}
	client := redis.New(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	if err := redis.Ping(ctx, client); err != nil {
		log.Fatal().Err(err).Msg("redis init")
	}
	return redis.NewStateCache(client, cfg.MQTTTopicPrefix), func() { client.Close() }
}
