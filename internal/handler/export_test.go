package handler_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/handler"
)

// ---- mock ExportServicer ---------------------------------------------------

type mockExportServicer struct {
	export func(ctx context.Context) ([]domain.ExportRow, error)
}

func (m *mockExportServicer) Export(ctx context.Context) ([]domain.ExportRow, error) {
	return m.export(ctx)
}

// compile-time check: mockExportServicer must satisfy handler.ExportServicer.
var _ handler.ExportServicer = (*mockExportServicer)(nil)

// ---- helpers ---------------------------------------------------------------

// newExportHTTPHandler wires a Server with only the export service mock.
func newExportHTTPHandler(exportSvc handler.ExportServicer) http.Handler {
	return handler.Handler(handler.NewServer(nil, exportSvc, nil, nil))
}

// finishedRowFixture returns an export row for a trip that has arrived.
func finishedRowFixture() domain.ExportRow {
	departedAt := time.Date(2025, 6, 1, 11, 15, 0, 0, time.UTC)
	arrivedAt := departedAt.Add(2*time.Hour + 30*time.Minute)

	return domain.ExportRow{
		TripID:        uuid.New().String(),
		Vehicle:       "ABC1D23",
		Driver:        "José Silva",
		Requester:     "Ana Souza",
		Route:         "Centro, Aeroporto",
		Status:        domain.TripFinished,
		DepartureTime: "08:15",
		DepartedAt:    departedAt,
		ArrivalTime:   "10:45",
		ArrivedAt:     &arrivedAt,
		Duration:      arrivedAt.Sub(departedAt),
	}
}

// openRowFixture returns an export row for a trip still in progress.
func openRowFixture() domain.ExportRow {
	return domain.ExportRow{
		TripID:        uuid.New().String(),
		Vehicle:       "XYZ9K88",
		Driver:        "Maria Lima",
		Status:        domain.TripInProgress,
		DepartureTime: "09:00",
		DepartedAt:    time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

func getExport(h http.Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/trips/export"+query, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

// ---- GET /api/trips/export - JSON --------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{}, nil
		},
	}

	rec := getExport(newExportHTTPHandler(svc), "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetExport_JSON_FinishedAndOpenTrips(t *testing.T) {
	finished, open := finishedRowFixture(), openRowFixture()
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{finished, open}, nil
		},
	}

	rec := getExport(newExportHTTPHandler(svc), "?format=json")

	require.Equal(t, http.StatusOK, rec.Code)
	var rows []handler.ExportRow
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&rows))
	require.Len(t, rows, 2)

	assert.Equal(t, finished.TripID, rows[0].TripID.String())
	assert.Equal(t, "Centro, Aeroporto", rows[0].Route)
	require.NotNil(t, rows[0].ArrivalTime)
	assert.Equal(t, "10:45", *rows[0].ArrivalTime)
	require.NotNil(t, rows[0].DurationMinutes)
	assert.Equal(t, 150, *rows[0].DurationMinutes)

	assert.Equal(t, domain.TripInProgress, rows[1].Status)
	assert.Nil(t, rows[1].ArrivalTime)
	assert.Nil(t, rows[1].ArrivedAt)
	assert.Nil(t, rows[1].DurationMinutes)
}

// ---- GET /api/trips/export - CSV ---------------------------------------------

func TestGetExport_CSV(t *testing.T) {
	finished, open := finishedRowFixture(), openRowFixture()
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{finished, open}, nil
		},
	}

	rec := getExport(newExportHTTPHandler(svc), "?format=csv")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "viagens.csv")

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"trip_id", "vehicle", "driver", "requester", "route", "status",
		"departure_time", "departed_at", "arrival_time", "arrived_at", "duration_minutes",
	}, records[0])

	assert.Equal(t, []string{
		finished.TripID, "ABC1D23", "José Silva", "Ana Souza", "Centro, Aeroporto", "finished",
		"08:15", "2025-06-01T11:15:00Z", "10:45", "2025-06-01T13:45:00Z", "150",
	}, records[1], "a comma inside a field survives the round trip")

	assert.Equal(t, "", records[2][8], "arrival_time is blank while in progress")
	assert.Equal(t, "", records[2][9])
	assert.Equal(t, "", records[2][10])
}

func TestGetExport_500(t *testing.T) {
	svc := &mockExportServicer{
		export: func(context.Context) ([]domain.ExportRow, error) {
			return nil, errors.New("db down")
		},
	}

	rec := getExport(newExportHTTPHandler(svc), "")

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
