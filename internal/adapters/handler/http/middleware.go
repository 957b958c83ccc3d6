package http

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/ostryk/contactio/internal/core/domain"
	"github.com/ostryk/contactio/internal/core/ports"
)

type contextKey string

// userContextKey carries the authenticated *domain.User for the remainder of
// the request. Handlers never accept an owner identifier from request input.
const userContextKey contextKey = "current_user"

// Authenticator turns a bearer token into the request's authenticated user.
// Every failure mode yields the same uniform 401 body; the underlying cause
// is only logged.
type Authenticator struct {
	auth ports.AuthService
}

func NewAuthenticator(auth ports.AuthService) *Authenticator {
	return &Authenticator{auth: auth}
}

func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		user, err := a.auth.Authenticate(r.Context(), token)
		if err != nil {
			log.Printf("authentication rejected: %v", err)
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// currentUser retrieves the user placed in the context by RequireUser.
func currentUser(r *http.Request) (*domain.User, bool) {
	user, ok := r.Context().Value(userContextKey).(*domain.User)
	return user, ok
}
