// Package postgresdb provides a PostgreSQL-based storage of user records.
// The schema is managed by goose migrations; insertion order is kept by a serial column.
package postgresdb

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/patric-chuzhbe/usersignup/internal/models"
)

// PostgresDB is a PostgreSQL-backed users storage.
type PostgresDB struct {
	database          *sql.DB
	connectionTimeout time.Duration
}

type initOptions struct {
	DBPreReset bool
}

// InitOption configures New.
type InitOption func(*initOptions)

// WithDBPreReset drops the users table and the goose version table before migrating.
// Meant for tests against a disposable database.
func WithDBPreReset(dbPreReset bool) InitOption {
	return func(options *initOptions) {
		options.DBPreReset = dbPreReset
	}
}

// New connects to the database, applies the migrations found in migrationsDir
// and returns the storage.
func New(
	ctx context.Context,
	databaseDSN string,
	connectionTimeout time.Duration,
	migrationsDir string,
	optionsProto ...InitOption,
) (*PostgresDB, error) {
	options := &initOptions{
		DBPreReset: false,
	}
	for _, protoOption := range optionsProto {
		protoOption(options)
	}

	database, err := sql.Open("pgx", databaseDSN)
	if err != nil {
		return nil, err
	}

	result := &PostgresDB{
		database:          database,
		connectionTimeout: connectionTimeout,
	}

	if err := result.Ping(ctx); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `result.Ping()` calling: %w",
				err,
			)
	}

	if options.DBPreReset {
		if err := result.resetDB(ctx); err != nil {
			return nil,
				fmt.Errorf(
					"in internal/db/postgresdb/postgresdb.go/New(): error while `result.resetDB()` calling: %w",
					err,
				)
		}
	}

	if err := goose.SetDialect("postgres"); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.SetDialect()` calling: %w",
				err,
			)
	}

	if err := goose.UpContext(ctx, result.database, migrationsDir); err != nil {
		return nil,
			fmt.Errorf(
				"in internal/db/postgresdb/postgresdb.go/New(): error while `goose.UpContext()` calling: %w",
				err,
			)
	}

	return result, nil
}

func (db *PostgresDB) resetDB(ctx context.Context) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			DROP TABLE IF EXISTS users;
			DROP TABLE IF EXISTS goose_db_version;
		`,
	)

	return err
}

// GetUsers returns every record in insertion order.
func (db *PostgresDB) GetUsers(ctx context.Context) (models.Users, error) {
	rows, err := db.database.QueryContext(
		ctx,
		`
			SELECT id, name, mobile, state, city, address
				FROM users
				ORDER BY seq
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := models.Users{}
	for rows.Next() {
		var record models.UserRecord
		err := rows.Scan(
			&record.ID,
			&record.Name,
			&record.Mobile,
			&record.State,
			&record.City,
			&record.Address,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

// InsertUser stores a new record.
func (db *PostgresDB) InsertUser(ctx context.Context, record models.UserRecord) error {
	_, err := db.database.ExecContext(
		ctx,
		`
			INSERT INTO users (id, name, mobile, state, city, address)
				VALUES ($1, $2, $3, $4, $5, $6)
		`,
		record.ID,
		record.Name,
		record.Mobile,
		record.State,
		record.City,
		record.Address,
	)

	return err
}

// UpdateUser overwrites the record with the same id, keeping its position.
func (db *PostgresDB) UpdateUser(ctx context.Context, record models.UserRecord) error {
	result, err := db.database.ExecContext(
		ctx,
		`
			UPDATE users
				SET name = $2, mobile = $3, state = $4, city = $5, address = $6
				WHERE id = $1
		`,
		record.ID,
		record.Name,
		record.Mobile,
		record.State,
		record.City,
		record.Address,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// Ping checks the connection within the configured timeout.
func (db *PostgresDB) Ping(ctx context.Context) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, db.connectionTimeout)
	defer cancel()

	return db.database.PingContext(ctxWithTimeout)
}

func (db *PostgresDB) Close() error {
	return db.database.Close()
}
