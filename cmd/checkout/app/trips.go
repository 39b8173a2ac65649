package app

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/frotalog/frotalog/internal/domain"
)

func newInProgressCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "in-progress",
		Short: "Lista os veículos em curso",
		RunE: func(cmd *cobra.Command, _ []string) error {
			trips, err := s.client.InProgress(cmd.Context())
			if err != nil {
				return err
			}
			s.console.PrintInProgress(trips)
			return nil
		},
	}
}

func newArriveCommand(s *session) *cobra.Command {
	var (
		a        domain.Arrival
		liters   float64
		odometer int
	)

	cmd := &cobra.Command{
		Use:   "arrive",
		Short: "Registra a chegada de um veículo e finaliza a viagem",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("liters") {
				a.Liters = &liters
			}
			if cmd.Flags().Changed("odometer") {
				a.Odometer = &odometer
			}
			msg, err := s.client.RegisterArrival(cmd.Context(), a)
			if err != nil {
				return storeError(err)
			}
			s.console.Println(msg)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&a.Vehicle, "vehicle", "", "placa do veículo")
	f.StringVar(&a.ArrivalTime, "time", "", "horário de chegada HH:MM (vazio = agora)")
	f.Float64Var(&liters, "liters", 0, "litros abastecidos")
	f.IntVar(&odometer, "odometer", 0, "leitura do odômetro")
	_ = cmd.MarkFlagRequired("vehicle")
	return cmd
}

func newCancelCommand(s *session) *cobra.Command {
	var vehicle string

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancela a viagem em curso de um veículo",
		RunE: func(cmd *cobra.Command, _ []string) error {
			msg, err := s.client.CancelTrip(cmd.Context(), vehicle)
			if err != nil {
				return storeError(err)
			}
			s.console.Println(msg)
			return nil
		},
	}

	cmd.Flags().StringVar(&vehicle, "vehicle", "", "placa do veículo")
	_ = cmd.MarkFlagRequired("vehicle")
	return cmd
}

// storeError surfaces the store's own message when it sent one.
func storeError(err error) error {
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) && subErr.Message != "" {
		return errors.New(subErr.Message)
	}
	return err
}
