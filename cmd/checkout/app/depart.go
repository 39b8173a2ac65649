package app

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/frotalog/frotalog/internal/checkout"
	"github.com/frotalog/frotalog/internal/console"
	"github.com/frotalog/frotalog/internal/domain"
	"github.com/frotalog/frotalog/internal/guard"
)

const hintTTL = 5 * time.Second

var (
	errNotRegistered = errors.New("saída não registrada")
	errBlocked       = errors.New("veículo já está em curso")
)

func newDepartCommand(s *session) *cobra.Command {
	var form domain.TripCandidate

	cmd := &cobra.Command{
		Use:   "depart",
		Short: "Registra a saída de um veículo",
		Long: "Registra a saída de um veículo. Campos não informados por flag são perguntados.\n" +
			"Um veículo em curso bloqueia o registro; um motorista em viagem pede confirmação.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			indicator := checkout.NewIndicator(s.client, hintTTL, s.log)

			if err := fillForm(ctx, s.console, indicator, &form); err != nil {
				return err
			}

			ctrl := checkout.NewController(
				guard.New(s.client),
				s.client,
				s.console.OverrideConfirm(),
				s.console.FinalConfirm(),
				checkout.WithNotifier(s.console),
				checkout.WithHighlighter(s.console),
				checkout.WithRefresher(checkout.Refreshers{indicator, console.NewBoard(s.client, s.console, s.log)}),
				checkout.WithTimeouts(s.cfg.LookupTimeout, s.cfg.SubmitTimeout),
				checkout.WithLogger(s.log),
			)
			ctrl.SetForm(form)
			return runDeparture(ctx, ctrl, s.console)
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Vehicle, "vehicle", "", "placa do veículo")
	f.StringVar(&form.Driver, "driver", "", "nome do motorista")
	f.StringVar(&form.Requester, "requester", "", "nome do solicitante")
	f.StringVar(&form.Route, "route", "", "trajeto")
	f.StringVar(&form.DepartureTime, "time", "", "horário de saída HH:MM (vazio = agora)")
	return cmd
}

// fillForm asks for the fields not given as flags. Vehicle and driver get
// an in-progress hint right after they are typed.
func fillForm(ctx context.Context, c *console.Console, ind *checkout.Indicator, form *domain.TripCandidate) error {
	ask := func(dst *string, label string, hint func(context.Context, string) string) error {
		if *dst == "" {
			v, err := c.Ask(ctx, label, "")
			if err != nil {
				return err
			}
			*dst = v
		}
		if hint != nil && *dst != "" {
			if h := hint(ctx, *dst); h != "" {
				c.Println("  ! " + h)
			}
		}
		return nil
	}

	if err := ask(&form.Vehicle, "Placa", ind.VehicleHint); err != nil {
		return err
	}
	if err := ask(&form.Driver, "Motorista", ind.DriverHint); err != nil {
		return err
	}
	if err := ask(&form.Requester, "Solicitante", nil); err != nil {
		return err
	}
	if err := ask(&form.Route, "Trajeto", nil); err != nil {
		return err
	}
	return ask(&form.DepartureTime, "Horário de saída (vazio = agora)", nil)
}

// runDeparture submits the form, offering a retry while attempts fail.
// The form is kept between retries.
func runDeparture(ctx context.Context, ctrl *checkout.Controller, c *console.Console) error {
	for {
		out := ctrl.Submit(ctx)
		switch out.State {
		case checkout.StateSucceeded:
			return nil
		case checkout.StateCancelled:
			return nil
		case checkout.StateBlocked:
			return errBlocked
		case checkout.StateFailed:
			if c.YesNo(ctx, "Tentar novamente?") {
				continue
			}
			return errNotRegistered
		default:
			if out.Err != nil {
				return out.Err
			}
			return errNotRegistered
		}
	}
}
