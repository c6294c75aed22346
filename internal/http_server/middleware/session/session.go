// Package session turns the Authorization header into a verified Session for
// the request. Absent and invalid tokens are rejected identically, so the
// response leaks nothing about which check failed.
package session

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	resp "scheduler_service/internal/lib/api/response"
	"scheduler_service/internal/models"
)

type ctxKey struct{}

type Verifier interface {
	Verify(raw string) (models.Session, error)
}

// New builds the middleware. Verification is pure token parsing plus a clock
// read; it never touches a store.
func New(log *slog.Logger, verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get("Authorization")
			if raw == "" {
				unauthorized(w, r)
				return
			}

			sess, err := verifier.Verify(raw)
			if err != nil {
				log.Info("token rejected", slog.String("op", "middleware.session"))
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		}

		return http.HandlerFunc(fn)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, resp.Error("not authorized"))
}

// FromContext returns the Session stored by the middleware.
func FromContext(ctx context.Context) (models.Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(models.Session)
	return sess, ok
}
