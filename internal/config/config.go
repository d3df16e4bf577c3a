package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/db"
)

// Config holds environment-based settings
type Config struct {
	Environment   string
	ServerAddress string
	JWTSecret     string
	LogLevel      string

	DatabaseURL    string
	DatabaseDriver string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBroker      string
	MQTTClientID    string
	MQTTTopicPrefix string

	VentilationAction string
	PollInterval      time.Duration
	Location          *time.Location
	StrictTimes       bool

	IngestKey string

	ExportDir       string
	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
}

// Load reads configuration from environment variables, after merging a
// .env file from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("no .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:   getenv("APP_ENV", "development"),
		ServerAddress: getenv("SERVER_ADDRESS", ":8080"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		LogLevel:      getenv("LOG_LEVEL", "info"),

		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DatabaseDriver: os.Getenv("DATABASE_DRIVER"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBroker:      os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:    getenv("MQTT_CLIENT_ID", "boreas"),
		MQTTTopicPrefix: getenv("MQTT_TOPIC_PREFIX", "boreas"),

		VentilationAction: getenv("VENTILATION_ACTION", "ventilation"),

		IngestKey: os.Getenv("INGEST_KEY"),

		ExportDir:       getenv("EXPORT_DIR", "./exports"),
		UseSpaces:       os.Getenv("USE_SPACES") == "true",
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.DatabaseDriver == "" {
		cfg.DatabaseDriver = db.DriverFor(cfg.DatabaseURL)
	}

	interval, err := time.ParseDuration(getenv("VENTILATION_POLL_INTERVAL", "1m"))
	if err != nil || interval <= 0 {
		return nil, fmt.Errorf("VENTILATION_POLL_INTERVAL must be a positive duration")
	}
	cfg.PollInterval = interval

	cfg.Location, err = time.LoadLocation(getenv("TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("TIMEZONE: %w", err)
	}

	if raw := os.Getenv("STRICT_TIME_PARSING"); raw != "" {
		cfg.StrictTimes, err = strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("STRICT_TIME_PARSING: %w", err)
		}
	}

	if cfg.UseSpaces && (cfg.SpacesBucket == "" || cfg.SpacesEndpoint == "") {
		return nil, fmt.Errorf("SPACES_BUCKET and SPACES_ENDPOINT are required when USE_SPACES=true")
	}

	return cfg, nil
}

// Production reports whether the service runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
