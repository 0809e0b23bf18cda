package middleware

import (
	"encoding/json"
	"net/http"

	"tube-service/configs"
	"tube-service/responses"
)

// RecoveryMiddleware turns a handler panic into a 500 response instead of
// killing the process.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				configs.LogWithContext("tube-service", "recovery").
					WithField("path", r.URL.Path).
					Errorf("panic recovered: %v", rec)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(responses.ErrorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
