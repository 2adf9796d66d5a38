package repository

import (
	"context"

	"airspace-service/internal/domain/entity"
)

// FlightEventRepository defines the interface for announcing stored flights
type FlightEventRepository interface {
	PublishFlightsCreated(ctx context.Context, event *entity.FlightsCreatedEvent) error
	Close() error
}
