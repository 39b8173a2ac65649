package service

import (
	"context"
	"fmt"

	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/repo"
)

// ExportService assembles a flat export of the whole trip history.
type ExportService struct {
	trips repo.TripRepo
}

// NewExportService constructs an ExportService backed by the provided repo.
func NewExportService(trips repo.TripRepo) *ExportService {
	return &ExportService{trips: trips}
}

// Export returns one ExportRow per trip, open trips first.
// Open trips have no arrival and a zero Duration.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	trips, err := s.trips.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := make([]domain.ExportRow, 0, len(trips))
	for _, t := range trips {
		row := domain.ExportRow{
			TripID:        t.ID.String(),
			Vehicle:       t.Vehicle,
			Driver:        t.Driver,
			Requester:     t.Requester,
			Route:         t.Route,
			Status:        t.Status,
			DepartureTime: t.DepartureTime,
			DepartedAt:    t.DepartedAt,
			ArrivalTime:   t.ArrivalTime,
			ArrivedAt:     t.ArrivedAt,
		}
		if t.ArrivedAt != nil {
			row.Duration = t.ArrivedAt.Sub(t.DepartedAt)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
