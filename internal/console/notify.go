package console

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/frotalog/frotalog/internal/checkout"
	"github.com/frotalog/frotalog/internal/domain"
)

const msgPressEnter = "Pressione Enter para continuar."

var (
	_ checkout.Notifier    = (*Console)(nil)
	_ checkout.Highlighter = (*Console)(nil)
)

// Notify prints n. Blocking notices wait for the operator to press Enter.
func (c *Console) Notify(ctx context.Context, n checkout.Notice) {
	col := c.levelColor(n.Level)
	fmt.Fprintln(c.out)
	if col != nil {
		col.Fprintln(c.out, n.Message)
	} else {
		fmt.Fprintln(c.out, n.Message)
	}
	if n.Level == checkout.LevelBlocking {
		fmt.Fprint(c.out, msgPressEnter)
		_, _ = c.readLine(ctx)
		fmt.Fprintln(c.out)
	}
}

func (c *Console) levelColor(l checkout.Level) *color.Color {
	switch l {
	case checkout.LevelSuccess:
		return c.success
	case checkout.LevelWarning:
		return c.warning
	case checkout.LevelError, checkout.LevelBlocking:
		return c.failure
	default:
		return nil
	}
}

// Highlight marks trip in the next in-progress table and points it out now.
func (c *Console) Highlight(_ context.Context, trip domain.InProgressTrip) {
	c.mu.Lock()
	c.highlighted = trip.ID
	c.mu.Unlock()

	c.mark.Fprintf(c.out, "» %s | %s | saída %s\n", trip.Vehicle, trip.Driver, trip.DepartureTimeDisplay)
}

func (c *Console) isHighlighted(trip domain.InProgressTrip) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.highlighted != uuid.Nil && c.highlighted == trip.ID
}
