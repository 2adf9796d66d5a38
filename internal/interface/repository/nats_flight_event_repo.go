package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"
	"airspace-service/pkg/logger"

	"github.com/nats-io/nats.go"
)

// NATSFlightEventRepository publishes flight events on a NATS subject
type NATSFlightEventRepository struct {
	conn    *nats.Conn
	subject string
	logger  logger.Logger
}

// NewNATSFlightEventRepository creates a new NATS flight event repository
func NewNATSFlightEventRepository(conn *nats.Conn, subject string, logger logger.Logger) repository.FlightEventRepository {
	return &NATSFlightEventRepository{
		conn:    conn,
		subject: subject,
		logger:  logger,
	}
}

// PublishFlightsCreated sends event as JSON on the configured subject
func (r *NATSFlightEventRepository) PublishFlightsCreated(ctx context.Context, event *entity.FlightsCreatedEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := r.conn.Publish(r.subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", r.subject, err)
	}

	r.logger.Debug("Published flights event", "subject", r.subject, "count", event.Count)
	return nil
}

// Close drains pending messages and closes the connection
func (r *NATSFlightEventRepository) Close() error {
	return r.conn.Drain()
}

// NoopFlightEventRepository drops every event. Used when NATS is not configured.
type NoopFlightEventRepository struct{}

// NewNoopFlightEventRepository creates a repository that publishes nothing
func NewNoopFlightEventRepository() repository.FlightEventRepository {
	return NoopFlightEventRepository{}
}

func (NoopFlightEventRepository) PublishFlightsCreated(context.Context, *entity.FlightsCreatedEvent) error {
	return nil
}

func (NoopFlightEventRepository) Close() error {
	return nil
}
