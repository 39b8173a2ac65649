package handler

import (
	"net/http"

	"github.com/oapi-codegen/runtime"

	"github.com/frotalog/frotalog/internal/domain"
)

// ListAuditLogs handles GET /api/audit-logs, newest first.
func (s *Server) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	var params ListAuditParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "validation_error", "Parâmetro 'limit' inválido.")
		return
	}

	entries, err := s.audit.Recent(r.Context(), params.Limit)
	if err != nil {
		s.writeServiceError(w, r, err, msgTripNotFound)
		return
	}
	if entries == nil {
		entries = []domain.AuditEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}
