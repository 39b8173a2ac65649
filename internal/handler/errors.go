package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/frotalog/frotalog/internal/domain"
)

// Messages shown to the operator. The console prints them verbatim.
const (
	msgBadRequest   = "Requisição inválida."
	msgInternal     = "Erro interno do servidor."
	msgTripNotFound = "Viagem não encontrada."
)

// fieldMessages maps a failing request field to its operator-facing message.
var fieldMessages = map[string]string{
	"vehicle":   "Informe a placa do veículo.",
	"driver":    "Informe o nome do motorista.",
	"requester": "Nome do solicitante muito longo.",
	"route":     "Trajeto muito longo.",
	"liters":    "Valor inválido para litros.",
	"odometer":  "Valor inválido para odômetro.",
}

// writeJSON encodes body with status.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// validationMessage picks the message for a validation failure, from either
// the request validator or a domain.ValidationError.
func validationMessage(err error) string {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		if msg, ok := fieldMessages[fieldErrs[0].Field()]; ok {
			return msg
		}
		return "Campo inválido: " + fieldErrs[0].Field() + "."
	}
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return msgBadRequest
}

// writeServiceError maps service errors to responses in one place.
// notFound is the message for domain.ErrNotFound, which only the caller
// can phrase.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var conflict *domain.ConflictError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
	case errors.As(err, &conflict):
		writeError(w, http.StatusConflict, "conflict", conflict.Message)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", notFound)
	default:
		s.log.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal", msgInternal)
	}
}

// decodeBody decodes and validates a JSON request body into dst. It writes
// the error response itself and reports whether the caller may go on.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "Requisição grande demais.")
			return false
		}
		writeError(w, http.StatusUnprocessableEntity, "validation_error", msgBadRequest)
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", validationMessage(err))
		return false
	}
	return true
}
