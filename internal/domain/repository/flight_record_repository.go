package repository

import (
	"context"

	"airspace-service/internal/domain/entity"
)

// FlightRecordRepository defines the interface for flight record operations
type FlightRecordRepository interface {
	// Initialize creates the flights schema if it is absent
	Initialize(ctx context.Context) error
	InsertBatch(ctx context.Context, records []entity.FlightInput) (int, error)
	// GetLatest returns ErrNoFlights when the store is empty
	GetLatest(ctx context.Context) (*entity.FlightRecord, error)
	GetAll(ctx context.Context) ([]*entity.FlightRecord, error)
	Ping(ctx context.Context) error
	Close() error
}
