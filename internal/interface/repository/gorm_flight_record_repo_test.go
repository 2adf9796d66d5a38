package repository

import (
	"context"
	"os"
	"testing"

	"airspace-service/internal/domain/repository"
	"airspace-service/internal/infrastructure/persistence"

	"github.com/alecthomas/assert"
)

// setupTestPostgres returns a repository over a freshly created flights table.
// The test is skipped when TEST_POSTGRES_DSN is not set.
func setupTestPostgres(t *testing.T) repository.FlightRecordRepository {
	t.Helper()

	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	db, err := persistence.NewPostgresDB(ctx, dsn)
	if err != nil {
		t.Skipf("No PostgreSQL connection available: %v", err)
	}

	assert.NoError(t, db.Migrator().DropTable(&Flights{}))

	repo := NewGormFlightRecordRepository(db)
	assert.NoError(t, repo.Initialize(ctx))
	t.Cleanup(func() { _ = repo.Close() })

	return repo
}

func TestGormFlightRecordContract(t *testing.T) {
	runFlightRecordContract(t, setupTestPostgres)
}

func TestFlightsTableName(t *testing.T) {
	assert.Equal(t, "flights", Flights{}.TableName())
}

func TestGormModelRoundTrip(t *testing.T) {
	in := sampleFlight("F9", strPtr("EXIT"))
	row := toFlightsModel(&in)
	row.ID = 42

	record := row.toEntity()
	assert.Equal(t, int64(42), record.ID)
	assert.Equal(t, in, record.FlightInput)
}
