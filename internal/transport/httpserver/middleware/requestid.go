package middleware

import (
	"net/http"

	commonhandler "campus-market-go/internal/transport/httpserver/handler/common"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// EchoRequestID copies the id set by chi's RequestID middleware onto the
// response. It must run after RequestID.
func EchoRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id := chimw.GetReqID(r.Context()); id != "" {
			w.Header().Set(commonhandler.RequestIDHeader, id)
		}
		next.ServeHTTP(w, r)
	})
}
