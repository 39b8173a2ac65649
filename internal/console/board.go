package console

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gosuri/uitable"

	"github.com/frotalog/frotalog/internal/checkout"
	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/guard"
)

const (
	msgNoneInProgress  = "Nenhum veículo em curso."
	msgRefreshFailed   = "Não foi possível atualizar a lista de veículos em curso."
	highlightMarker    = "»"
	tableMaxColumnSize = 40
)

// PrintInProgress prints the open trips as a table. The highlighted trip, if
// any, is marked.
func (c *Console) PrintInProgress(trips []domain.InProgressTrip) {
	if len(trips) == 0 {
		fmt.Fprintln(c.out, msgNoneInProgress)
		return
	}

	table := uitable.New()
	table.MaxColWidth = tableMaxColumnSize
	table.AddRow("", "PLACA", "MOTORISTA", "SAÍDA")
	for _, t := range trips {
		marker := ""
		if c.isHighlighted(t) {
			marker = highlightMarker
		}
		table.AddRow(marker, t.Vehicle, t.Driver, t.DepartureTimeDisplay)
	}
	fmt.Fprintln(c.out, table.String())
}

var _ checkout.Refresher = (*Board)(nil)

// Board is the in-progress list shown by the console. It reloads from the
// store each time the checkout controller asks for a refresh.
type Board struct {
	trips   guard.TripLister
	console *Console
	log     *slog.Logger
}

// NewBoard builds a Board that prints through c.
func NewBoard(trips guard.TripLister, c *Console, log *slog.Logger) *Board {
	if log == nil {
		log = slog.Default()
	}
	return &Board{trips: trips, console: c, log: log}
}

// RefreshInProgress reads the open trips and prints them. A failed read
// prints a warning instead.
func (b *Board) RefreshInProgress(ctx context.Context) {
	trips, err := b.trips.InProgress(ctx)
	if err != nil {
		b.log.WarnContext(ctx, "in-progress refresh failed", "error", err)
		b.console.Notify(ctx, checkout.Notice{Level: checkout.LevelWarning, Message: msgRefreshFailed})
		return
	}
	b.console.PrintInProgress(trips)
}
