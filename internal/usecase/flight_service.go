package usecase

import (
	"context"
	"errors"
	"time"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"
	"airspace-service/pkg/logger"
	"airspace-service/pkg/metrics"
)

// FlightService handles flight record creation and lookup
type FlightService struct {
	flightRepo repository.FlightRecordRepository
	eventRepo  repository.FlightEventRepository
	metrics    *metrics.Metrics
	logger     logger.Logger
	now        func() time.Time
}

// NewFlightService creates a new flight service
func NewFlightService(
	flightRepo repository.FlightRecordRepository,
	eventRepo repository.FlightEventRepository,
	metrics *metrics.Metrics,
	logger logger.Logger,
) *FlightService {
	return &FlightService{
		flightRepo: flightRepo,
		eventRepo:  eventRepo,
		metrics:    metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// CreateFlights validates body and stores every record in it.
// It returns a *ValidationError for bad input and a *repository.StoreError for storage faults.
func (s *FlightService) CreateFlights(ctx context.Context, body []byte) (int, error) {
	inputs, err := ParseFlightPayload(body)
	if err != nil {
		s.countError("validate")
		return 0, err
	}

	n, err := s.flightRepo.InsertBatch(ctx, inputs)
	if err != nil {
		s.countError("insert")
		s.logger.Error("Failed to insert flights", "count", len(inputs), "error", err)
		return 0, repository.NewStoreError("insert flights", err)
	}

	if s.metrics != nil {
		s.metrics.FlightsInserted.Add(float64(n))
	}
	s.logger.Info("Flights added", "count", n)

	s.publishCreated(ctx, inputs)

	return n, nil
}

// publishCreated announces stored flights. Failures are logged only; the records are already stored.
func (s *FlightService) publishCreated(ctx context.Context, inputs []entity.FlightInput) {
	if s.eventRepo == nil {
		return
	}

	event := &entity.FlightsCreatedEvent{
		Count:       len(inputs),
		Flights:     inputs,
		PublishedAt: s.now().UTC(),
	}
	if err := s.eventRepo.PublishFlightsCreated(ctx, event); err != nil {
		s.countError("publish")
		s.logger.Warn("Failed to publish flights event", "count", len(inputs), "error", err)
		return
	}
	if s.metrics != nil {
		s.metrics.EventsPublished.Inc()
	}
}

// LatestFlight returns the most recently stored record, or repository.ErrNoFlights
func (s *FlightService) LatestFlight(ctx context.Context) (*entity.FlightRecord, error) {
	record, err := s.flightRepo.GetLatest(ctx)
	if err != nil {
		if !errors.Is(err, repository.ErrNoFlights) {
			s.countError("get_latest")
		}
		return nil, err
	}
	return record, nil
}

// AllFlights returns every stored record in insertion order
func (s *FlightService) AllFlights(ctx context.Context) ([]*entity.FlightRecord, error) {
	records, err := s.flightRepo.GetAll(ctx)
	if err != nil {
		s.countError("get_all")
		return nil, err
	}
	if records == nil {
		records = make([]*entity.FlightRecord, 0)
	}
	return records, nil
}

// Ready reports whether the store answers
func (s *FlightService) Ready(ctx context.Context) error {
	return s.flightRepo.Ping(ctx)
}

func (s *FlightService) countError(operation string) {
	if s.metrics != nil {
		s.metrics.ErrorsCount.WithLabelValues(operation).Inc()
	}
}
