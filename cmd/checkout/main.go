// Command checkout is the operator console for vehicle departures. It runs
// the duplicate check and confirmation protocol against the store API.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/frotalog/frotalog/cmd/checkout/app"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.NewCheckoutCommand().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
