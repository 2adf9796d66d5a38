package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"
)

const sqliteFlightsSchema = `
CREATE TABLE IF NOT EXISTS flights (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_point TEXT,
	exit_point TEXT,
	flight TEXT,
	flight_date TEXT,
	flight_time TEXT,
	aircraft_registration TEXT,
	aircraft_type TEXT,
	flight_call_sign TEXT,
	origin TEXT,
	destination TEXT,
	route TEXT,
	timestamp TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_flights_timestamp ON flights(timestamp);
`

// SQLiteFlightRecordRepository implements FlightRecordRepository on a local SQLite file
type SQLiteFlightRecordRepository struct {
	db *sql.DB
}

// NewSQLiteFlightRecordRepository creates a new SQLite flight record repository
func NewSQLiteFlightRecordRepository(db *sql.DB) repository.FlightRecordRepository {
	return &SQLiteFlightRecordRepository{
		db: db,
	}
}

var (
	sqliteInsertSQL = fmt.Sprintf("INSERT INTO flights (%s) VALUES (%s)",
		strings.Join(inputColumns(), ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(entity.FlightFields)), ", "))

	sqliteSelectColumns = strings.Join(append(append([]string{entity.ColumnID}, inputColumns()...), entity.ColumnTimestamp), ", ")
)

func inputColumns() []string {
	cols := make([]string, 0, len(entity.FlightFields))
	for _, f := range entity.FlightFields {
		cols = append(cols, f.Column)
	}
	return cols
}

// Initialize creates the flights table and its index if absent
func (r *SQLiteFlightRecordRepository) Initialize(ctx context.Context) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return repository.NewStoreError("initialize flights", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, sqliteFlightsSchema); err != nil {
		return repository.NewStoreError("initialize flights", err)
	}
	return nil
}

// InsertBatch stores records in one transaction and returns how many were written
func (r *SQLiteFlightRecordRepository) InsertBatch(ctx context.Context, records []entity.FlightInput) (int, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	defer conn.Close()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, sqliteInsertSQL)
	if err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	defer stmt.Close()

	for i := range records {
		if _, err := stmt.ExecContext(ctx, records[i].Args()...); err != nil {
			return 0, repository.NewStoreError("insert flights", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	return len(records), nil
}

// GetLatest returns the most recently stored record
func (r *SQLiteFlightRecordRepository) GetLatest(ctx context.Context) (*entity.FlightRecord, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, repository.NewStoreError("get latest flight", err)
	}
	defer conn.Close()

	row := conn.QueryRowContext(ctx,
		"SELECT "+sqliteSelectColumns+" FROM flights ORDER BY timestamp DESC, id DESC LIMIT 1")

	record, err := scanSQLiteFlight(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNoFlights
	}
	if err != nil {
		return nil, repository.NewStoreError("get latest flight", err)
	}
	return record, nil
}

// GetAll returns every stored record in id order
func (r *SQLiteFlightRecordRepository) GetAll(ctx context.Context) ([]*entity.FlightRecord, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, repository.NewStoreError("get all flights", err)
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, "SELECT "+sqliteSelectColumns+" FROM flights ORDER BY id ASC")
	if err != nil {
		return nil, repository.NewStoreError("get all flights", err)
	}
	defer rows.Close()

	records := make([]*entity.FlightRecord, 0)
	for rows.Next() {
		record, err := scanSQLiteFlight(rows)
		if err != nil {
			return nil, repository.NewStoreError("get all flights", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.NewStoreError("get all flights", err)
	}
	return records, nil
}

// Ping checks the database file is reachable
func (r *SQLiteFlightRecordRepository) Ping(ctx context.Context) error {
	return repository.NewStoreError("ping", r.db.PingContext(ctx))
}

// Close releases the database handle
func (r *SQLiteFlightRecordRepository) Close() error {
	return r.db.Close()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSQLiteFlight(row rowScanner) (*entity.FlightRecord, error) {
	var (
		record    entity.FlightRecord
		values    = make([]sql.NullString, len(entity.FlightFields))
		timestamp string
	)

	dest := make([]interface{}, 0, len(values)+2)
	dest = append(dest, &record.ID)
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &timestamp)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, field := range entity.FlightFields {
		if values[i].Valid {
			v := values[i].String
			record.Set(field.Column, &v)
		}
	}

	ts, err := time.ParseInLocation(entity.TimestampLayout, timestamp, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse timestamp %q: %w", timestamp, err)
	}
	record.Timestamp = ts

	return &record, nil
}
