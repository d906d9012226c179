package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/classhub/gateway/types"
)

type contextKey string

const contextIdentityKey contextKey = "identity"

// ErrorResponse is the uniform error body returned by every failing
// endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ContextWithIdentity returns a context carrying the authenticated
// identity. Outside the gate itself it is mostly useful to tests.
func ContextWithIdentity(ctx context.Context, user types.User) context.Context {
	return context.WithValue(ctx, contextIdentityKey, user)
}

// IdentityFromContext returns the sanitized identity attached by the
// authentication gate. The second return is false for requests that
// never passed the gate.
func IdentityFromContext(ctx context.Context) (types.User, bool) {
	user, ok := ctx.Value(contextIdentityKey).(types.User)
	return user, ok
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// Healthz reports process liveness.
func Healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
