package middleware

import (
	"encoding/json"
	"net/http"
)

// writeError writes the API's {"error","code"} body. Middleware rejects
// requests before any handler runs, so it cannot reuse the handler package.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message, "code": code})
}
