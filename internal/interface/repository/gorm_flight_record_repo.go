package repository

import (
	"context"
	"errors"
	"time"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFlightRecordRepository implements the FlightRecordRepository interface on PostgreSQL
type GormFlightRecordRepository struct {
	db *gorm.DB
}

// NewGormFlightRecordRepository creates a new GORM flight record repository
func NewGormFlightRecordRepository(db *gorm.DB) repository.FlightRecordRepository {
	return &GormFlightRecordRepository{
		db: db,
	}
}

// Flights GORM model for database mapping
type Flights struct {
	ID                   int64     `gorm:"column:id;primaryKey;autoIncrement"`
	EntryPoint           *string   `gorm:"column:entry_point;type:text"`
	ExitPoint            *string   `gorm:"column:exit_point;type:text"`
	Flight               *string   `gorm:"column:flight;type:text"`
	FlightDate           *string   `gorm:"column:flight_date;type:text"`
	FlightTime           *string   `gorm:"column:flight_time;type:text"`
	AircraftRegistration *string   `gorm:"column:aircraft_registration;type:text"`
	AircraftType         *string   `gorm:"column:aircraft_type;type:text"`
	FlightCallSign       *string   `gorm:"column:flight_call_sign;type:text"`
	Origin               *string   `gorm:"column:origin;type:text"`
	Destination          *string   `gorm:"column:destination;type:text"`
	Route                *string   `gorm:"column:route;type:text"`
	Timestamp            time.Time `gorm:"column:timestamp;type:timestamptz;not null;default:CURRENT_TIMESTAMP;autoCreateTime;index:idx_flights_timestamp"`
}

// TableName overrides the default table name
func (Flights) TableName() string {
	return "flights"
}

// Initialize creates the flights table if it does not exist yet.
// Existing tables are left untouched.
func (r *GormFlightRecordRepository) Initialize(ctx context.Context) error {
	migrator := r.db.WithContext(ctx).Migrator()
	if migrator.HasTable(&Flights{}) {
		return nil
	}
	if err := migrator.CreateTable(&Flights{}); err != nil {
		return repository.NewStoreError("initialize flights", err)
	}
	return nil
}

// InsertBatch stores records in one transaction
func (r *GormFlightRecordRepository) InsertBatch(ctx context.Context, records []entity.FlightInput) (int, error) {
	rows := make([]Flights, 0, len(records))
	for i := range records {
		rows = append(rows, toFlightsModel(&records[i]))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&rows).Error
	})
	if err != nil {
		return 0, repository.NewStoreError("insert flights", err)
	}
	return len(rows), nil
}

// GetLatest returns the most recently stored record
func (r *GormFlightRecordRepository) GetLatest(ctx context.Context) (*entity.FlightRecord, error) {
	var row Flights
	result := r.db.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: entity.ColumnTimestamp}, Desc: true}).
		Order(clause.OrderByColumn{Column: clause.Column{Name: entity.ColumnID}, Desc: true}).
		Take(&row)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, repository.ErrNoFlights
	}
	if result.Error != nil {
		return nil, repository.NewStoreError("get latest flight", result.Error)
	}

	return row.toEntity(), nil
}

// GetAll returns every stored record in id order
func (r *GormFlightRecordRepository) GetAll(ctx context.Context) ([]*entity.FlightRecord, error) {
	var rows []Flights
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: entity.ColumnID}}).Find(&rows).Error; err != nil {
		return nil, repository.NewStoreError("get all flights", err)
	}

	records := make([]*entity.FlightRecord, 0, len(rows))
	for i := range rows {
		records = append(records, rows[i].toEntity())
	}
	return records, nil
}

// Ping checks the database connection
func (r *GormFlightRecordRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return repository.NewStoreError("ping", err)
	}
	return repository.NewStoreError("ping", sqlDB.PingContext(ctx))
}

// Close releases the connection pool
func (r *GormFlightRecordRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func toFlightsModel(in *entity.FlightInput) Flights {
	return Flights{
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
	}
}

// Convert GORM model to domain entity
func (f *Flights) toEntity() *entity.FlightRecord {
	return &entity.FlightRecord{
		ID: f.ID,
		FlightInput: entity.FlightInput{
			EntryPoint:           f.EntryPoint,
			ExitPoint:            f.ExitPoint,
			Flight:               f.Flight,
			FlightDate:           f.FlightDate,
			FlightTime:           f.FlightTime,
			AircraftRegistration: f.AircraftRegistration,
			AircraftType:         f.AircraftType,
			FlightCallSign:       f.FlightCallSign,
			Origin:               f.Origin,
			Destination:          f.Destination,
			Route:                f.Route,
		},
		Timestamp: f.Timestamp.UTC(),
	}
}
