package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

func (s *sqlStore) CreateSensorGroup(ctx context.Context, name string, sensors []string) (model.SensorGroup, error) {
	var g model.SensorGroup
	err := s.withTx(ctx, "create sensor group", func(tx *sqlx.Tx) error {
		var id int64
		err := tx.QueryRowxContext(ctx, s.db.Rebind(`
			INSERT INTO sensor_groups (name, created_at, updated_at)
			VALUES (?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
			RETURNING id
		`), name).Scan(&id)
		if err != nil {
			return fail("create sensor group", err)
		}
		if g, err = s.getGroup(ctx, tx, id); err != nil {
			return err
		}
		g.Sensors, err = s.addMembers(ctx, tx, id, sensors)
		return err
	})
	if err != nil {
		log.Error().Err(err).Str("name", name).Msg("failed to create sensor group")
		return model.SensorGroup{}, err
	}
	return g, nil
}

// ListSensorGroups returns every group with its sensors, ordered by id.
func (s *sqlStore) ListSensorGroups(ctx context.Context) ([]model.SensorGroup, error) {
	groups := []model.SensorGroup{}
	if err := s.db.SelectContext(ctx, &groups, `
		SELECT id, name, created_at, updated_at
		  FROM sensor_groups
		 ORDER BY id
	`); err != nil {
		return nil, fail("list sensor groups", err)
	}

	var members []struct {
		GroupID    int64  `db:"group_id"`
		SensorName string `db:"sensor_name"`
	}
	if err := s.db.SelectContext(ctx, &members, `
		SELECT group_id, sensor_name
		  FROM sensor_group_members
		 ORDER BY group_id, sensor_name
	`); err != nil {
		return nil, fail("list sensor groups", err)
	}

	byID := make(map[int64]int, len(groups))
	for i := range groups {
		groups[i].Sensors = []string{}
		byID[groups[i].ID] = i
	}
	for _, m := range members {
		if i, ok := byID[m.GroupID]; ok {
			groups[i].Sensors = append(groups[i].Sensors, m.SensorName)
		}
	}
	return groups, nil
}

// UpdateSensorGroup renames a group and replaces its sensor list.
func (s *sqlStore) UpdateSensorGroup(ctx context.Context, id int64, name string, sensors []string) (model.SensorGroup, error) {
	var g model.SensorGroup
	err := s.withTx(ctx, "update sensor group", func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, s.db.Rebind(`
			UPDATE sensor_groups
			   SET name = ?,
			       updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?
		`), name, id)
		if err != nil {
			return fail("update sensor group", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sensor group %d: %w", id, ErrNotFound)
		}
		if g, err = s.getGroup(ctx, tx, id); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM sensor_group_members WHERE group_id = ?`), id); err != nil {
			return fail("update sensor group", err)
		}
		g.Sensors, err = s.addMembers(ctx, tx, id, sensors)
		return err
	})
	if err != nil {
		return model.SensorGroup{}, err
	}
	return g, nil
}

func (s *sqlStore) DeleteSensorGroup(ctx context.Context, id int64) error {
	return s.withTx(ctx, "delete sensor group", func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM sensor_group_members WHERE group_id = ?`), id); err != nil {
			return fail("delete sensor group", err)
		}
		res, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM sensor_groups WHERE id = ?`), id)
		if err != nil {
			return fail("delete sensor group", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("sensor group %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

// addMembers inserts sensors for a group, skipping duplicates, and returns the stored list.
func (s *sqlStore) addMembers(ctx context.Context, tx *sqlx.Tx, groupID int64, sensors []string) ([]string, error) {
	q := s.db.Rebind(`INSERT INTO sensor_group_members (group_id, sensor_name) VALUES (?, ?)`)
	seen := make(map[string]bool, len(sensors))
	stored := make([]string, 0, len(sensors))
	for _, name := range sensors {
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, err := tx.ExecContext(ctx, q, groupID, name); err != nil {
			return nil, fail("add sensor to group", err)
		}
		stored = append(stored, name)
	}
	return stored, nil
}

func (s *sqlStore) getGroup(ctx context.Context, tx *sqlx.Tx, id int64) (model.SensorGroup, error) {
	var g model.SensorGroup
	err := tx.GetContext(ctx, &g, s.db.Rebind(`
		SELECT id, name, created_at, updated_at
		  FROM sensor_groups
		 WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return g, fmt.Errorf("sensor group %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return g, fail("get sensor group", err)
	}
	return g, nil
}
