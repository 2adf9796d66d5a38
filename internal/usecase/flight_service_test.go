package usecase

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"
	"airspace-service/internal/infrastructure/persistence"
	repoimpl "airspace-service/internal/interface/repository"
	"airspace-service/pkg/logger"
	"airspace-service/pkg/metrics"

	"github.com/alecthomas/assert"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type fakeFlightRepo struct {
	inserted  [][]entity.FlightInput
	latest    *entity.FlightRecord
	all       []*entity.FlightRecord
	insertErr error
	readErr   error
	pingErr   error
}

func (f *fakeFlightRepo) Initialize(context.Context) error { return nil }

func (f *fakeFlightRepo) InsertBatch(_ context.Context, records []entity.FlightInput) (int, error) {
	if f.insertErr != nil {
		return 0, f.insertErr
	}
	f.inserted = append(f.inserted, records)
	return len(records), nil
}

func (f *fakeFlightRepo) GetLatest(context.Context) (*entity.FlightRecord, error) {
	if f.readErr != nil {
		return nil, f.readErr
	}
	if f.latest == nil {
		return nil, repository.ErrNoFlights
	}
	return f.latest, nil
}

func (f *fakeFlightRepo) GetAll(context.Context) ([]*entity.FlightRecord, error) {
	return f.all, f.readErr
}

func (f *fakeFlightRepo) Ping(context.Context) error { return f.pingErr }
func (f *fakeFlightRepo) Close() error               { return nil }

type fakeEventRepo struct {
	events []*entity.FlightsCreatedEvent
	err    error
}

func (f *fakeEventRepo) PublishFlightsCreated(_ context.Context, event *entity.FlightsCreatedEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) Close() error { return nil }

func newTestService(repo repository.FlightRecordRepository, events repository.FlightEventRepository) (*FlightService, *metrics.Metrics) {
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	svc := NewFlightService(repo, events, m, logger.NewNopLogger())
	svc.now = func() time.Time { return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC) }
	return svc, m
}

func TestCreateFlightsStoresAndPublishes(t *testing.T) {
	repo := &fakeFlightRepo{}
	events := &fakeEventRepo{}
	svc, m := newTestService(repo, events)

	body := "[" + validFlightJSON + "," + validFlightJSON + "]"
	n, err := svc.CreateFlights(context.Background(), []byte(body))
	assert.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, 1, len(repo.inserted))
	assert.Equal(t, 2, len(repo.inserted[0]))
	assert.Nil(t, repo.inserted[0][0].ExitPoint)

	assert.Equal(t, 1, len(events.events))
	assert.Equal(t, 2, events.events[0].Count)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), events.events[0].PublishedAt)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.FlightsInserted))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.EventsPublished))
}

func TestCreateFlightsValidationNeverTouchesStore(t *testing.T) {
	repo := &fakeFlightRepo{}
	events := &fakeEventRepo{}
	svc, m := newTestService(repo, events)

	missingRoute := strings.Replace(validFlightJSON, `,"ROUTE":"R1"`, "", 1)
	_, err := svc.CreateFlights(context.Background(), []byte("["+validFlightJSON+","+missingRoute+"]"))

	var ve *ValidationError
	assert.True(t, errors.As(err, &ve))
	assert.Equal(t, 0, len(repo.inserted))
	assert.Equal(t, 0, len(events.events))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsCount.WithLabelValues("validate")))
}

func TestCreateFlightsStoreErrorIsClassified(t *testing.T) {
	repo := &fakeFlightRepo{insertErr: errors.New("database is locked")}
	events := &fakeEventRepo{}
	svc, m := newTestService(repo, events)

	_, err := svc.CreateFlights(context.Background(), []byte(validFlightJSON))

	var se *repository.StoreError
	assert.True(t, errors.As(err, &se))
	assert.Contains(t, err.Error(), "database is locked")
	assert.Equal(t, 0, len(events.events))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsCount.WithLabelValues("insert")))
}

func TestCreateFlightsPublishFailureStillSucceeds(t *testing.T) {
	repo := &fakeFlightRepo{}
	events := &fakeEventRepo{err: errors.New("nats: connection closed")}
	svc, m := newTestService(repo, events)

	n, err := svc.CreateFlights(context.Background(), []byte(validFlightJSON))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsCount.WithLabelValues("publish")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.EventsPublished))
}

func TestCreateFlightsWithoutEventRepo(t *testing.T) {
	svc := NewFlightService(&fakeFlightRepo{}, nil, nil, logger.NewNopLogger())

	n, err := svc.CreateFlights(context.Background(), []byte(validFlightJSON))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestLatestFlight(t *testing.T) {
	repo := &fakeFlightRepo{}
	svc, m := newTestService(repo, nil)

	_, err := svc.LatestFlight(context.Background())
	assert.True(t, errors.Is(err, repository.ErrNoFlights))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ErrorsCount.WithLabelValues("get_latest")))

	repo.latest = &entity.FlightRecord{ID: 3}
	record, err := svc.LatestFlight(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(3), record.ID)
}

func TestAllFlightsNeverNil(t *testing.T) {
	svc, _ := newTestService(&fakeFlightRepo{}, nil)

	records, err := svc.AllFlights(context.Background())
	assert.NoError(t, err)
	assert.NotNil(t, records)
	assert.Equal(t, 0, len(records))
}

func TestReadyReportsStoreFailure(t *testing.T) {
	repo := &fakeFlightRepo{pingErr: repository.NewStoreError("ping", errors.New("down"))}
	svc, _ := newTestService(repo, nil)
	assert.Error(t, svc.Ready(context.Background()))
}

func TestCreateFlightsAgainstSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := persistence.NewSQLiteDB(ctx, filepath.Join(t.TempDir(), "airspace.db"))
	assert.NoError(t, err)
	repo := repoimpl.NewSQLiteFlightRecordRepository(db)
	defer repo.Close()
	assert.NoError(t, repo.Initialize(ctx))

	svc, _ := newTestService(repo, repoimpl.NewNoopFlightEventRepository())

	n, err := svc.CreateFlights(ctx, []byte(validFlightJSON))
	assert.NoError(t, err)
	assert.Equal(t, 1, n)

	latest, err := svc.LatestFlight(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "F1", *latest.Flight)
	assert.Nil(t, latest.ExitPoint)
}
