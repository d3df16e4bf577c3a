package db

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

func (s *sqlStore) InsertTemperature(ctx context.Context, t model.Temperature) (model.Temperature, error) {
	if t.Timestamp.IsZero() {
		t.Timestamp = time.Now()
	}
	t.Timestamp = t.Timestamp.UTC()

	err := s.db.QueryRowxContext(ctx, s.db.Rebind(`
		INSERT INTO temperatures (sensor_name, value, recorded_at)
		VALUES (?, ?, ?)
		RETURNING id
	`), t.SensorName, t.Value, t.Timestamp).Scan(&t.ID)
	if err != nil {
		log.Error().Err(err).Str("sensor", t.SensorName).Msg("failed to insert temperature")
		return model.Temperature{}, fail("insert temperature", err)
	}
	return t, nil
}

// ListTemperatures returns readings in [from, to) oldest first. A zero bound is open.
func (s *sqlStore) ListTemperatures(ctx context.Context, from, to time.Time) ([]model.Temperature, error) {
	var where []string
	var args []interface{}
	if !from.IsZero() {
		where = append(where, "recorded_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		where = append(where, "recorded_at < ?")
		args = append(args, to.UTC())
	}

	q := `SELECT id, sensor_name, value, recorded_at FROM temperatures`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY recorded_at, id"

	readings := []model.Temperature{}
	if err := s.db.SelectContext(ctx, &readings, s.db.Rebind(q), args...); err != nil {
		log.Error().Err(err).Msg("failed to list temperatures")
		return nil, fail("list temperatures", err)
	}
	return readings, nil
}
