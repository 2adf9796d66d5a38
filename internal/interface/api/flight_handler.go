package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"airspace-service/internal/domain/entity"
	"airspace-service/internal/domain/repository"
	"airspace-service/internal/usecase"
)

// Client-facing messages that are not validation errors
const (
	msgNoFlights     = "No flights found"
	msgDatabaseError = "A database error occurred"
	msgInternalError = "An internal server error occurred"
)

// FlightResponse is a stored flight record keyed by its table column names
type FlightResponse struct {
	ID                   int64   `json:"id"`
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
	Timestamp            string  `json:"TIMESTAMP"`
}


func flightToResponse(f *entity.FlightRecord) FlightResponse {
	return FlightResponse{
		ID:                   f.ID,
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
		Timestamp:            f.Timestamp.UTC().Format(entity.TimestampLayout),
	}
}

func (s *Server) handleCreateFlights(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, usecase.MsgInvalidJSON)
		return
	}

	n, err := s.flights.CreateFlights(r.Context(), body)
	if err != nil {
		var ve *usecase.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Message)
			return
		}
		writeError(w, http.StatusInternalServerError, storeErrorDetail(err))
		return
	}

	writeMessage(w, http.StatusCreated, fmt.Sprintf("%d flight(s) added successfully", n))
}

func (s *Server) handleGetLatestFlight(w http.ResponseWriter, r *http.Request) {
	record, err := s.flights.LatestFlight(r.Context())
	if errors.Is(err, repository.ErrNoFlights) {
		writeMessage(w, http.StatusNotFound, msgNoFlights)
		return
	}
	if err != nil {
		s.logger.Error("Failed to get latest flight", "error", err)
		writeError(w, http.StatusInternalServerError, storeErrorDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, flightToResponse(record))
}

// storeErrorDetail returns the driver message without the operation prefix
func storeErrorDetail(err error) string {
	var se *repository.StoreError
	if errors.As(err, &se) && se.Err != nil {
		return se.Err.Error()
	}
	return err.Error()
}

// handleGetAllFlights hides error detail from the client, unlike create and latest
func (s *Server) handleGetAllFlights(w http.ResponseWriter, r *http.Request) {
	records, err := s.flights.AllFlights(r.Context())
	if err != nil {
		var se *repository.StoreError
		if errors.As(err, &se) {
			s.logger.Error("Database error listing flights", "error", err)
			writeError(w, http.StatusInternalServerError, msgDatabaseError)
			return
		}
		s.logger.Error("Unexpected error listing flights", "error", err)
		writeError(w, http.StatusInternalServerError, msgInternalError)
		return
	}

	results := make([]FlightResponse, 0, len(records))
	for _, record := range records {
		results = append(results, flightToResponse(record))
	}

	writeJSON(w, http.StatusOK, results)
}
