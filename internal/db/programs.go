package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
	"github.com/Nixie-Tech-LLC/boreas/internal/week"
)

const programColumns = `id, day, start_time, end_time, action, name, is_active`

// dayOrder sorts the day column in canonical week order instead of alphabetically.
var dayOrder = func() string {
	var b strings.Builder
	b.WriteString("CASE day")
	for i, d := range week.Order {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", d, i)
	}
	b.WriteString(" ELSE 7 END")
	return b.String()
}()

func (s *sqlStore) ListProgramRows(ctx context.Context) ([]model.ProgramRow, error) {
	rows := []model.ProgramRow{}
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+programColumns+`
		  FROM air_programs
		 ORDER BY `+dayOrder+`, start_time, id
	`)
	if err != nil {
		log.Error().Err(err).Msg("failed to list program rows")
		return nil, fail("list program rows", err)
	}
	return rows, nil
}

func (s *sqlStore) GetProgramRow(ctx context.Context, id int64) (model.ProgramRow, error) {
	var row model.ProgramRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`
		SELECT `+programColumns+`
		  FROM air_programs
		 WHERE id = ?
	`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return row, fmt.Errorf("program row %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return row, fail("get program row", err)
	}
	return row, nil
}

// CreatePrograms inserts every row of one logical program, or none of them.
func (s *sqlStore) CreatePrograms(ctx context.Context, rows []model.ProgramRow) ([]int64, error) {
	var ids []int64
	err := s.withTx(ctx, "create programs", func(tx *sqlx.Tx) error {
		var err error
		ids, err = s.insertRows(ctx, tx, rows)
		return err
	})
	if err != nil {
		log.Error().Err(err).Int("rows", len(rows)).Msg("failed to create program")
		return nil, err
	}
	return ids, nil
}

// ReplacePrograms deletes the rows of a logical program and inserts its new
// expansion in one transaction. The new rows are enabled when any old row was.
func (s *sqlStore) ReplacePrograms(ctx context.Context, ids []int64, rows []model.ProgramRow) ([]int64, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("replace programs: %w", ErrNotFound)
	}

	var newIDs []int64
	err := s.withTx(ctx, "replace programs", func(tx *sqlx.Tx) error {
		q, args, err := s.in(`SELECT is_active FROM air_programs WHERE id IN (?)`, ids)
		if err != nil {
			return fail("replace programs", err)
		}
		var flags []bool
		if err := tx.SelectContext(ctx, &flags, q, args...); err != nil {
			return fail("replace programs", err)
		}
		if len(flags) != len(ids) {
			return fmt.Errorf("program %v: %w", ids, ErrNotFound)
		}
		active := false
		for _, f := range flags {
			active = active || f
		}

		if _, err := s.deleteRows(ctx, tx, ids); err != nil {
			return err
		}

		inherited := make([]model.ProgramRow, len(rows))
		for i, r := range rows {
			r.IsActive = active
			inherited[i] = r
		}
		newIDs, err = s.insertRows(ctx, tx, inherited)
		return err
	})
	if err != nil {
		return nil, err
	}
	return newIDs, nil
}

// DeletePrograms removes the given rows and reports how many existed.
func (s *sqlStore) DeletePrograms(ctx context.Context, ids []int64) (int64, error) {
	var affected int64
	err := s.withTx(ctx, "delete programs", func(tx *sqlx.Tx) error {
		var err error
		affected, err = s.deleteRows(ctx, tx, ids)
		if err != nil {
			return err
		}
		if affected == 0 {
			return fmt.Errorf("program %v: %w", ids, ErrNotFound)
		}
		return nil
	})
	return affected, err
}

func (s *sqlStore) SetProgramsActive(ctx context.Context, ids []int64, active bool) error {
	if len(ids) == 0 {
		return fmt.Errorf("set programs active: %w", ErrNotFound)
	}
	q, args, err := s.in(`UPDATE air_programs SET is_active = ? WHERE id IN (?)`, active, ids)
	if err != nil {
		return fail("set programs active", err)
	}
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		log.Error().Err(err).Msg("failed to update program active flag")
		return fail("set programs active", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fail("set programs active", err)
	}
	if n == 0 {
		return fmt.Errorf("program %v: %w", ids, ErrNotFound)
	}
	return nil
}

func (s *sqlStore) insertRows(ctx context.Context, tx *sqlx.Tx, rows []model.ProgramRow) ([]int64, error) {
	q := s.db.Rebind(`
		INSERT INTO air_programs (day, start_time, end_time, action, name, is_active)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`)
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		var id int64
		err := tx.QueryRowxContext(ctx, q, r.Day, r.Start, r.End, r.Action, r.Name, r.IsActive).Scan(&id)
		if err != nil {
			return nil, fail("insert program row", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *sqlStore) deleteRows(ctx context.Context, tx *sqlx.Tx, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, args, err := s.in(`DELETE FROM air_programs WHERE id IN (?)`, ids)
	if err != nil {
		return 0, fail("delete program rows", err)
	}
	res, err := tx.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, fail("delete program rows", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fail("delete program rows", err)
	}
	return n, nil
}
