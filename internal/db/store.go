// exposes a Store interface that is passed to API calls w/ param requirements
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/boreas/internal/model"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("already exists")
	ErrPersistence = errors.New("persistence failure")
)

type Store interface {
	// program rows
	ListProgramRows(ctx context.Context) ([]model.ProgramRow, error)
	GetProgramRow(ctx context.Context, id int64) (model.ProgramRow, error)
	CreatePrograms(ctx context.Context, rows []model.ProgramRow) ([]int64, error)
	ReplacePrograms(ctx context.Context, ids []int64, rows []model.ProgramRow) ([]int64, error)
	DeletePrograms(ctx context.Context, ids []int64) (int64, error)
	SetProgramsActive(ctx context.Context, ids []int64, active bool) error

	// temperature readings
	InsertTemperature(ctx context.Context, t model.Temperature) (model.Temperature, error)
	ListTemperatures(ctx context.Context, from, to time.Time) ([]model.Temperature, error)

	// sensor groups
	CreateSensorGroup(ctx context.Context, name string, sensors []string) (model.SensorGroup, error)
	ListSensorGroups(ctx context.Context) ([]model.SensorGroup, error)
	UpdateSensorGroup(ctx context.Context, id int64, name string, sensors []string) (model.SensorGroup, error)
	DeleteSensorGroup(ctx context.Context, id int64) error

	// user functions
	CreateUser(ctx context.Context, email, hashedPassword string, name *string) (int, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int) (*model.User, error)
	UpdateUserProfile(ctx context.Context, id int, email string, name *string) error
}

type sqlStore struct {
	db *sqlx.DB
}

// compile-time check that sqlStore implements Store
var _ Store = (*sqlStore)(nil)

func NewStore(conn *sqlx.DB) Store {
	return &sqlStore{db: conn}
}

// fail tags a driver error as a persistence failure.
func fail(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrPersistence, err)
}

// withTx runs fn in a transaction, rolling back every write when fn fails.
func (s *sqlStore) withTx(ctx context.Context, op string, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fail(op, err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error().Err(rbErr).Str("op", op).Msg("failed to roll back transaction")
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return fail(op, err)
	}
	return nil
}

// in expands an IN (?) query for the store's driver.
func (s *sqlStore) in(query string, args ...interface{}) (string, []interface{}, error) {
	q, a, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return s.db.Rebind(q), a, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
