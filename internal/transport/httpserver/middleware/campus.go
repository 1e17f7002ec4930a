package middleware

import (
	"context"
	"net/http"

	"campus-market-go/internal/domain/campus"
)

type CampusObserver interface {
	Observe(ctx context.Context, personID uint, current campus.Code, ip string) (campus.Code, bool)
}

// CampusDetection runs after authentication and hands the signed-in person and
// client IP to the observer. A synchronously assigned campus replaces the one
// in the request context.
func CampusDetection(observer CampusObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			current, ok := PersonFromContext(r.Context())
			if !ok || observer == nil {
				next.ServeHTTP(w, r)
				return
			}

			code, changed := observer.Observe(r.Context(), current.ID, current.Campus, campus.ClientIP(r))
			if changed {
				current.Campus = code
				r = r.WithContext(WithPerson(r.Context(), current))
			}
			next.ServeHTTP(w, r)
		})
	}
}
