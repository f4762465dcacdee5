package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/httprate"
)

const rateLimitedBody = `{"error":"RATE_LIMITED","message":"Muitas tentativas. Tente novamente em instantes."}`

// LoginRateLimit limita tentativas de login por IP, por minuto. limit <= 0 desliga.
func LoginRateLimit(limit int) func(http.Handler) http.Handler {
	if limit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(limit, time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(rateLimitedBody))
		}),
	)
}
