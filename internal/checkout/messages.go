package checkout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frotalog/frotalog/internal/domain"
)

// Operator-facing texts. The office works in Portuguese.
const (
	msgMissingVehicle   = "Informe a placa do veículo."
	msgMissingDriver    = "Informe o nome do motorista."
	msgLookupFailed     = "Não foi possível verificar as viagens em curso. Verifique a conexão e tente novamente."
	msgOverrideDeclined = "Registro cancelado para evitar duplicidade.\nVerifique a viagem em curso antes de tentar novamente."
	msgFinalDeclined    = "Registro cancelado."
	msgSubmitGeneric    = "Erro de conexão com o servidor."
	msgSubmitted        = "Saída registrada com sucesso."
	msgBusy             = "Já existe um registro de saída em andamento para este formulário."

	departureNow = "Agora"
)

func vehicleConflictMessage(c domain.TripCandidate, conflict domain.InProgressTrip) string {
	return fmt.Sprintf(
		"VEÍCULO JÁ EM USO!\n\n"+
			"O veículo %s já está em curso:\n\n"+
			"Motorista: %s\n"+
			"Saída: %s\n\n"+
			"Registre a CHEGADA primeiro antes de uma nova saída.",
		c.Vehicle, conflict.Driver, conflict.DepartureTimeDisplay,
	)
}

func overridePrompt(c domain.TripCandidate, conflict domain.InProgressTrip) Prompt {
	return Prompt{
		Kind:  PromptDriverOverride,
		Title: "ATENÇÃO: POSSÍVEL DUPLICIDADE",
		Message: fmt.Sprintf(
			"O motorista %q já está em viagem. Registrar outra saída pode causar duplicidade nos registros.\n\n"+
				"Verifique se:\n"+
				"  - o motorista já registrou a chegada da viagem anterior\n"+
				"  - é realmente necessário um segundo registro (ex: ajudante)\n"+
				"  - o nome do motorista está correto\n\n"+
				"Deseja CONTINUAR mesmo assim?",
			c.Driver,
		),
		Fields: []Field{
			{Label: "Veículo", Value: conflict.Vehicle},
			{Label: "Horário de saída", Value: conflict.DepartureTimeDisplay},
		},
	}
}

func finalPrompt(c domain.TripCandidate) Prompt {
	at := strings.TrimSpace(c.DepartureTime)
	if at == "" {
		at = departureNow
	}
	return Prompt{
		Kind:    PromptFinalConfirm,
		Title:   "Confirmar Saída",
		Message: "Confira os dados antes de registrar a saída.",
		Fields: []Field{
			{Label: "Placa", Value: c.Vehicle},
			{Label: "Motorista", Value: c.Driver},
			{Label: "Solicitante", Value: c.Requester},
			{Label: "Trajeto", Value: c.Route},
			{Label: "Horário", Value: at},
		},
	}
}

// submissionMessage returns the store's own error text when it sent one.
func submissionMessage(err error) string {
	var subErr *domain.SubmissionError
	if errors.As(err, &subErr) && subErr.Message != "" {
		return subErr.Message
	}
	return msgSubmitGeneric
}
