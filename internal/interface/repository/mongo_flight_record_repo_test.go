package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"airspace-service/internal/domain/repository"
	"airspace-service/internal/infrastructure/persistence"

	"github.com/alecthomas/assert"
)

// setupTestMongo returns a repository over a throwaway database.
// The test is skipped when TEST_MONGODB_DSN is not set.
func setupTestMongo(t *testing.T) repository.FlightRecordRepository {
	t.Helper()

	uri := os.Getenv("TEST_MONGODB_DSN")
	if uri == "" {
		t.Skip("TEST_MONGODB_DSN not set")
	}

	ctx := context.Background()
	client, err := persistence.NewMongoClient(ctx, uri, "", "")
	if err != nil {
		t.Skipf("No MongoDB connection available: %v", err)
	}

	db := persistence.GetDatabase(client, fmt.Sprintf("airspace_test_%d", time.Now().UnixNano()))
	repo := NewMongoFlightRecordRepository(client, db)
	assert.NoError(t, repo.Initialize(ctx))

	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = repo.Close()
	})

	return repo
}

func TestMongoFlightRecordContract(t *testing.T) {
	runFlightRecordContract(t, setupTestMongo)
}

func TestFlightDocumentRoundTrip(t *testing.T) {
	in := sampleFlight("F9", nil)
	ts := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

	doc := toFlightDocument(7, ts, &in)
	record := doc.toEntity()

	assert.Equal(t, int64(7), record.ID)
	assert.Equal(t, ts, record.Timestamp)
	assert.Equal(t, in, record.FlightInput)
	assert.Nil(t, record.ExitPoint)
}
