package handler

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/identity"
)

// ListInProgress handles GET /api/trips/in-progress.
// It is the read the duplicate check runs on every attempt.
func (s *Server) ListInProgress(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.InProgress(r.Context())
	if err != nil {
		s.log.ErrorContext(r.Context(), "in-progress lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal", "Ocorreu um erro ao buscar os veículos em curso.")
		return
	}
	if trips == nil {
		trips = []domain.InProgressTrip{}
	}
	writeJSON(w, http.StatusOK, trips)
}

// CreateDeparture handles POST /api/departures.
func (s *Server) CreateDeparture(w http.ResponseWriter, r *http.Request) {
	var req DepartureRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	c := domain.TripCandidate{
		Vehicle:   req.Vehicle,
		Driver:    req.Driver,
		Requester: req.Requester,
		Route:     req.Route,
	}
	if req.DepartureTime != nil {
		c.DepartureTime = *req.DepartureTime
	}

	trip, err := s.trips.Depart(r.Context(), c)
	if err != nil {
		s.writeServiceError(w, r, err, msgTripNotFound)
		return
	}

	writeJSON(w, http.StatusCreated, MessageResponse{
		Message: fmt.Sprintf("Saída do veículo %s registrada com sucesso.", trip.Vehicle),
		Trip:    &trip,
	})
}

// CreateArrival handles POST /api/arrivals.
func (s *Server) CreateArrival(w http.ResponseWriter, r *http.Request) {
	var req ArrivalRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	a := domain.Arrival{
		Vehicle:  req.Vehicle,
		Liters:   req.Liters,
		Odometer: req.Odometer,
	}
	if req.ArrivalTime != nil {
		a.ArrivalTime = *req.ArrivalTime
	}

	trip, refuel, err := s.trips.Arrive(r.Context(), a)
	if err != nil {
		notFound := fmt.Sprintf("Nenhum registro de saída 'em curso' encontrado para o veículo %s.",
			identity.NormalizePlate(req.Vehicle))
		s.writeServiceError(w, r, err, notFound)
		return
	}

	msg := fmt.Sprintf("Chegada do veículo %s registrada com sucesso. Viagem finalizada.", trip.Vehicle)
	if refuel != nil {
		msg += " Abastecimento registrado (litros/odômetro)."
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msg, Trip: &trip, Refuel: refuel})
}

// CancelTrip handles POST /api/trips/cancel.
// It deletes the vehicle's latest open trip.
func (s *Server) CancelTrip(w http.ResponseWriter, r *http.Request) {
	var req CancelRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	trip, err := s.trips.Cancel(r.Context(), req.Vehicle)
	if err != nil {
		s.writeServiceError(w, r, err, "Nenhum registro em curso encontrado para este veículo.")
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Viagem cancelada.", Trip: &trip})
}

// ListTrips handles GET /api/trips.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	var params ListTripsParams
	if err := runtime.BindQueryParameter("form", true, false, "page", r.URL.Query(), &params.Page); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Parâmetro 'page' inválido.")
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Parâmetro 'limit' inválido.")
		return
	}

	p := domain.NewPaginationParams(params.Page, params.Limit)
	trips, total, err := s.trips.ListPaged(r.Context(), p)
	if err != nil {
		s.writeServiceError(w, r, err, msgTripNotFound)
		return
	}
	if trips == nil {
		trips = []domain.Trip{}
	}

	writeJSON(w, http.StatusOK, TripPage{
		Data: trips,
		Pagination: Pagination{
			Page:       p.Page,
			Limit:      p.Limit,
			Total:      int(total),
			TotalPages: p.TotalPages(total),
		},
	})
}

// GetTrip handles GET /api/trips/{id}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "id", chi.URLParam(r, "id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Identificador de viagem inválido.")
		return
	}

	trip, err := s.trips.GetByID(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err, msgTripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, trip)
}
