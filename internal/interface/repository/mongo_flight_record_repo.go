package repository

import (
	"context"
	"errors"
	"time"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const flightsCounterID = "flights"

// MongoFlightRecordRepository implements FlightRecordRepository on a MongoDB collection
type MongoFlightRecordRepository struct {
	client     *mongo.Client
	collection *mongo.Collection
	counters   *mongo.Collection
}

// NewMongoFlightRecordRepository creates a new flight record repository
func NewMongoFlightRecordRepository(client *mongo.Client, db *mongo.Database) repository.FlightRecordRepository {
	return &MongoFlightRecordRepository{
		client:     client,
		collection: db.Collection("flights"),
		counters:   db.Collection("counters"),
	}
}

// flightDocument mirrors the relational flights row; _id is left to MongoDB.
// Nil fields are stored as BSON null.
type flightDocument struct {
	ID                   int64     `bson:"id"`
	EntryPoint           *string   `bson:"entry_point"`
	ExitPoint            *string   `bson:"exit_point"`
	Flight               *string   `bson:"flight"`
	FlightDate           *string   `bson:"flight_date"`
	FlightTime           *string   `bson:"flight_time"`
	AircraftRegistration *string   `bson:"aircraft_registration"`
	AircraftType         *string   `bson:"aircraft_type"`
	FlightCallSign       *string   `bson:"flight_call_sign"`
	Origin               *string   `bson:"origin"`
	Destination          *string   `bson:"destination"`
	Route                *string   `bson:"route"`
	Timestamp            time.Time `bson:"timestamp"`
}

type counterDocument struct {
	ID *string `bson:"_id"`
	Seq int64  `bson:"seq"`
}

// Initialize creates the flights indexes; MongoDB creates the collection on first write
func (r *MongoFlightRecordRepository) Initialize(ctx context.Context) error {
	// Unique index on id, the sequence issued from the counters collection
	idIndex := mongo.IndexModel{
		Keys:    bson.D{{Key: entity.ColumnID, Value: 1}},
		Options: options.Index().SetUnique(true).SetName("idx_flights_id"),
	}

	// Index on timestamp for the latest-flight lookup
	timestampIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: entity.ColumnTimestamp, Value: -1},
			{Key: entity.ColumnID, Value: -1},
		},
		Options: options.Index().SetName("idx_flights_timestamp"),
	}

	if _, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{idIndex, timestampIndex}); err != nil {
		return repository.NewStoreError("initialize flights", err)
	}
	return nil
}

// InsertBatch reserves a block of ids and stores records with them
func (r *MongoFlightRecordRepository) InsertBatch(ctx context.Context, records []entity.FlightInput) (int, error) {
	err := r.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		last, err := r.reserveIDs(sc, int64(len(records)))
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		first := last - int64(len(records)) + 1
		docs := make([]interface{}, 0, len(records))
		for i := range records {
			docs = append(docs, toFlightDocument(first+int64(i), now, &records[i]))
		}

		_, err = r.collection.InsertMany(sc, docs, options.InsertMany().SetOrdered(true))
		return err
	})
	if err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	return len(records), nil
}

func (r *MongoFlightRecordRepository) reserveIDs(ctx context.Context, n int64) (int64, error) {
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var counter counterDocument
	err := r.counters.FindOneAndUpdate(
		ctx,
		bson.M{"_id": flightsCounterID},
		bson.M{"$inc": bson.M{"seq": n}},
		opts,
	).Decode(&counter)
	if err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// GetLatest returns the most recently stored record
func (r *MongoFlightRecordRepository) GetLatest(ctx context.Context) (*entity.FlightRecord, error) {
	var doc flightDocument
	err := r.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		opts := options.FindOne().SetSort(bson.D{
			{Key: entity.ColumnTimestamp, Value: -1},
			{Key: entity.ColumnID, Value: -1},
		})
		return r.collection.FindOne(sc, bson.M{}, opts).Decode(&doc)
	})
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, repository.ErrNoFlights
	}
	if err != nil {
		return nil, repository.NewStoreError("get latest flight", err)
	}
	return doc.toEntity(), nil
}

// GetAll returns every stored record in id order
func (r *MongoFlightRecordRepository) GetAll(ctx context.Context) ([]*entity.FlightRecord, error) {
	var docs []flightDocument
	err := r.client.UseSession(ctx, func(sc mongo.SessionContext) error {
		opts := options.Find().SetSort(bson.D{{Key: entity.ColumnID, Value: 1}})
		cursor, err := r.collection.Find(sc, bson.M{}, opts)
		if err != nil {
			return err
		}
		return cursor.All(sc, &docs)
	})
	if err != nil {
		return nil, repository.NewStoreError("get all flights", err)
	}

	records := make([]*entity.FlightRecord, 0, len(docs))
	for i := range docs {
		records = append(records, docs[i].toEntity())
	}
	return records, nil
}

// Ping checks the server is reachable
func (r *MongoFlightRecordRepository) Ping(ctx context.Context) error {
	return repository.NewStoreError("ping", r.client.Ping(ctx, nil))
}

// Close disconnects the client
func (r *MongoFlightRecordRepository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func toFlightDocument(id int64, ts time.Time, in *entity.FlightInput) flightDocument {
	return flightDocument{
		ID:                   id,
		EntryPoint:           in.EntryPoint,
		ExitPoint:            in.ExitPoint,
		Flight:               in.Flight,
		FlightDate:           in.FlightDate,
		FlightTime:           in.FlightTime,
		AircraftRegistration: in.AircraftRegistration,
		AircraftType:         in.AircraftType,
		FlightCallSign:       in.FlightCallSign,
		Origin:               in.Origin,
		Destination:          in.Destination,
		Route:                in.Route,
		Timestamp:            ts,
	}
}

func (d *flightDocument) toEntity() *entity.FlightRecord {
	return &entity.FlightRecord{
		ID: d.ID,
		FlightInput: entity.FlightInput{
			EntryPoint:           d.EntryPoint,
			ExitPoint:            d.ExitPoint,
			Flight:               d.Flight,
			FlightDate:           d.FlightDate,
			FlightTime:           d.FlightTime,
			AircraftRegistration: d.AircraftRegistration,
			AircraftType:         d.AircraftType,
			FlightCallSign:       d.FlightCallSign,
			Origin:               d.Origin,
			Destination:          d.Destination,
			Route:                d.Route,
		},
		Timestamp: d.Timestamp.UTC(),
	}
}
