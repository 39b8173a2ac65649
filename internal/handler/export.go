package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/frotalog/frotalog/internal/domain"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "vehicle", "driver", "requester", "route", "status",
	"departure_time", "departed_at", "arrival_time", "arrived_at", "duration_minutes",
}

// GetExport handles GET /api/trips/export.
// It returns one row per trip. Use ?format=csv to receive CSV; default is JSON.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	var params ExportParams
	if err := runtime.BindQueryParameter("form", true, false, "format", r.URL.Query(), &params.Format); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Parâmetro 'format' inválido.")
		return
	}

	rows, err := s.export.Export(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err, msgTripNotFound)
		return
	}

	if params.Format != nil && *params.Format == Csv {
		writeCSV(w, rows)
		return
	}

	out := make([]ExportRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domainRowToJSONRow(row))
	}
	writeJSON(w, http.StatusOK, out)
}

// writeCSV encodes domain rows as CSV with a download disposition.
func writeCSV(w http.ResponseWriter, rows []domain.ExportRow) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	cw.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		cw.Write(domainRowToCSVRecord(r))
	}
	cw.Flush()

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="viagens.csv"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// domainRowToJSONRow maps a domain.ExportRow to the JSON wire row.
// Arrival fields stay nil while the trip is in progress.
func domainRowToJSONRow(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripID:        tripID,
		Vehicle:       r.Vehicle,
		Driver:        r.Driver,
		Requester:     r.Requester,
		Route:         r.Route,
		Status:        r.Status,
		DepartureTime: r.DepartureTime,
		DepartedAt:    r.DepartedAt,
		ArrivedAt:     r.ArrivedAt,
	}
	if r.ArrivalTime != "" {
		row.ArrivalTime = &r.ArrivalTime
	}
	if r.ArrivedAt != nil {
		m := int(r.Duration / time.Minute)
		row.DurationMinutes = &m
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// Missing arrival values are encoded as empty strings.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	duration := ""
	if r.ArrivedAt != nil {
		duration = strconv.Itoa(int(r.Duration / time.Minute))
	}
	return []string{
		r.TripID,
		r.Vehicle,
		r.Driver,
		r.Requester,
		r.Route,
		string(r.Status),
		r.DepartureTime,
		r.DepartedAt.UTC().Format(time.RFC3339),
		r.ArrivalTime,
		formatOptionalTime(r.ArrivedAt),
		duration,
	}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
