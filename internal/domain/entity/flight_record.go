// internal/domain/entity/flight_record.go
package entity

import (
	"time"
)

// TimestampLayout is the text form of FlightRecord.Timestamp on the wire and in SQLite
const TimestampLayout = "2006-01-02 15:04:05"

// NaNExitPoint is the exit point sentinel that is stored as null
const NaNExitPoint = "nan"

// Storage column names
const (
	ColumnID                   = "id"
	ColumnEntryPoint           = "entry_point"
	ColumnExitPoint            = "exit_point"
	ColumnFlight               = "flight"
	ColumnFlightDate           = "flight_date"
	ColumnFlightTime           = "flight_time"
	ColumnAircraftRegistration = "aircraft_registration"
	ColumnAircraftType         = "aircraft_type"
	ColumnFlightCallSign       = "flight_call_sign"
	ColumnOrigin               = "origin"
	ColumnDestination          = "destination"
	ColumnRoute                = "route"
	ColumnTimestamp            = "timestamp"
)

// FlightField maps a client-facing key to its storage column
type FlightField struct {
	WireKey string
	Column  string
}

// FlightFields lists the client-supplied fields in storage order.
// id and timestamp are store generated and not part of it.
var FlightFields = []FlightField{
	{WireKey: "ENTRY POINT", Column: ColumnEntryPoint},
	{WireKey: "EXIT POINT", Column: ColumnExitPoint},
	{WireKey: "FLIGHT", Column: ColumnFlight},
	{WireKey: "FLIGHT DATE", Column: ColumnFlightDate},
	{WireKey: "FLIGHT TIME", Column: ColumnFlightTime},
	{WireKey: "AIRCRAFT REGISTRATION", Column: ColumnAircraftRegistration},
	{WireKey: "AIRCRAFT TYPE", Column: ColumnAircraftType},
	{WireKey: "FLIGHT CALL SIGN", Column: ColumnFlightCallSign},
	{WireKey: "ORIGIN", Column: ColumnOrigin},
	{WireKey: "DESTINATION", Column: ColumnDestination},
	{WireKey: "ROUTE", Column: ColumnRoute},
}

// Wire keys for the store generated fields
const (
	WireKeyID        = "id"
	WireKeyTimestamp = "TIMESTAMP"
)

// FlightInput is a client-submitted flight crossing, before the store assigns id and timestamp.
// A nil field is a JSON null and is stored as NULL.
type FlightInput struct {
	EntryPoint           *string `json:"ENTRY POINT"`
	ExitPoint            *string `json:"EXIT POINT"`
	Flight               *string `json:"FLIGHT"`
	FlightDate           *string `json:"FLIGHT DATE"`
	FlightTime           *string `json:"FLIGHT TIME"`
	AircraftRegistration *string `json:"AIRCRAFT REGISTRATION"`
	AircraftType         *string `json:"AIRCRAFT TYPE"`
	FlightCallSign       *string `json:"FLIGHT CALL SIGN"`
	Origin               *string `json:"ORIGIN"`
	Destination          *string `json:"DESTINATION"`
	Route                *string `json:"ROUTE"`
}

// FlightRecord is a stored flight crossing
type FlightRecord struct {
	ID int64
	FlightInput
	Timestamp time.Time
}

// Set assigns the field stored in column
func (f *FlightInput) Set(column string, value *string) {
	switch column {
	case ColumnEntryPoint:
		f.EntryPoint = value
	case ColumnExitPoint:
		f.ExitPoint = value
	case ColumnFlight:
		f.Flight = value
	case ColumnFlightDate:
		f.FlightDate = value
	case ColumnFlightTime:
		f.FlightTime = value
	case ColumnAircraftRegistration:
		f.AircraftRegistration = value
	case ColumnAircraftType:
		f.AircraftType = value
	case ColumnFlightCallSign:
		f.FlightCallSign = value
	case ColumnOrigin:
		f.Origin = value
	case ColumnDestination:
		f.Destination = value
	case ColumnRoute:
		f.Route = value
	}
}

// Value returns the field stored in column, or nil when it is null
func (f *FlightInput) Value(column string) *string {
	switch column {
	case ColumnEntryPoint:
		return f.EntryPoint
	case ColumnExitPoint:
		return f.ExitPoint
	case ColumnFlight:
		return f.Flight
	case ColumnFlightDate:
		return f.FlightDate
	case ColumnFlightTime:
		return f.FlightTime
	case ColumnAircraftRegistration:
		return f.AircraftRegistration
	case ColumnAircraftType:
		return f.AircraftType
	case ColumnFlightCallSign:
		return f.FlightCallSign
	case ColumnOrigin:
		return f.Origin
	case ColumnDestination:
		return f.Destination
	case ColumnRoute:
		return f.Route
	}
	return nil
}

// Args returns the field values in FlightFields order, with nil for null fields
func (f *FlightInput) Args() []interface{} {
	args := make([]interface{}, 0, len(FlightFields))
	for _, field := range FlightFields {
		v := f.Value(field.Column)
		if v == nil {
			args = append(args, nil)
			continue
		}
		args = append(args, *v)
	}
	return args
}

// NormalizeExitPoint replaces the "nan" exit point sentinel with null
func (f *FlightInput) NormalizeExitPoint() {
	if f.ExitPoint != nil && *f.ExitPoint == NaNExitPoint {
		f.ExitPoint = nil
	}
}

// FlightsCreatedEvent is published after a batch of flights is stored
type FlightsCreatedEvent struct {
	Count       int           `json:"count"`
	Flights     []FlightInput `json:"flights"`
	PublishedAt time.Time     `json:"published_at"`
}
