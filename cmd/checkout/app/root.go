// Package app builds the cobra command tree of the checkout console.
package app

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/frotalog/frotalog/internal/config"
	"github.com/frotalog/frotalog/internal/console"
	"github.com/frotalog/frotalog/internal/tripclient"
)

// session is what every subcommand needs, built once before it runs.
type session struct {
	cfg     config.ConsoleConfig
	client  *tripclient.Client
	console *console.Console
	log     *slog.Logger
}

// NewCheckoutCommand returns the root command. Input and output come from
// cmd.InOrStdin and cmd.OutOrStdout so tests can swap them.
func NewCheckoutCommand() *cobra.Command {
	s := &session{}
	var noColor bool

	cmd := &cobra.Command{
		Use:          "checkout",
		Short:        "Registro de saídas e chegadas da frota",
		Long:         "Console do operador: registra saídas com verificação de duplicidade, chegadas e cancelamentos.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConsole()
			if err != nil {
				return err
			}

			var level slog.Level
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				level = slog.LevelInfo
			}
			s.cfg = cfg
			s.log = slog.New(slog.NewJSONHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			s.client = tripclient.New(cfg.APIURL, max(cfg.LookupTimeout, cfg.SubmitTimeout)+time.Second)

			var opts []console.Option
			if noColor {
				opts = append(opts, console.WithoutColor())
			}
			s.console = console.New(cmd.InOrStdin(), cmd.OutOrStdout(), opts...)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "desativa cores na saída")

	cmd.AddCommand(
		newDepartCommand(s),
		newInProgressCommand(s),
		newArriveCommand(s),
		newCancelCommand(s),
	)
	return cmd
}
