package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/classhub/gateway/internal/services"
	"github.com/classhub/gateway/internal/store"
	"github.com/classhub/gateway/internal/token"
)

// Gate is the single authentication checkpoint every protected route and
// every proxied request passes through. It verifies the bearer token,
// resolves its subject to a live user record, and attaches the sanitized
// identity to the request context before any downstream work runs.
type Gate struct {
	codec *token.Codec
	users *services.UserService
}

// NewGate constructs a Gate from the token codec and user service.
func NewGate(codec *token.Codec, users *services.UserService) *Gate {
	return &Gate{codec: codec, users: users}
}

// Middleware enforces authentication. Responses are deliberately
// distinct per failure cause:
//
//	no credential supplied        -> 401 "Access token required"
//	credential supplied, unusable -> 403 "Invalid token"
//	valid credential, subject gone -> 401 "Unauthorized: Invalid token"
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenString, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := g.codec.Verify(tokenString)
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}

		userID, err := claims.UserID()
		if err != nil {
			writeError(w, http.StatusForbidden, "Invalid token")
			return
		}

		user, err := g.users.GetByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				writeError(w, http.StatusUnauthorized, "Unauthorized: Invalid token")
				return
			}
			writeError(w, http.StatusInternalServerError, "Error authenticating request")
			return
		}

		next.ServeHTTP(w, r.WithContext(ContextWithIdentity(r.Context(), user.Sanitized())))
	})
}

// bearerToken extracts the credential from an "Authorization: Bearer
// <token>" header. The second return is false when no credential was
// supplied at all.
func bearerToken(r *http.Request) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) < 2 {
		return "", false
	}
	return parts[1], true
}
