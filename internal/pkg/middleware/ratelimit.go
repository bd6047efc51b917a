package middleware

import (
	"net"
	"net/http"
	"strconv"
	"time"

	"warehub/internal/api/response"
	apperror "warehub/internal/errors"
	"warehub/internal/pkg/cache"
	"warehub/internal/pkg/logger"
)

// RateLimiter limita requisições por IP em janelas fixas, com contadores no cache.
// Falhas do cache não bloqueiam o tráfego.
func RateLimiter(client cache.Client, limit int, window time.Duration, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if limit <= 0 {
				next.ServeHTTP(w, r)
				return
			}

			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}
			key := "rate-limit:" + ip
			ctx := r.Context()

			// O contador e o TTL da janela nascem no mesmo INCR.
			count, err := client.IncrWindow(ctx, key, window)
			if err != nil {
				log.Warn("Cache indisponível para rate limit; requisição liberada.", map[string]interface{}{"ip": ip, "error": err.Error()})
				next.ServeHTTP(w, r)
				return
			}

			if count > int64(limit) {
				w.Header().Set("X-RateLimit-Remaining", "0")
				response.Error(w, r, log, apperror.NewRateLimitError("Muitas requisições. Tente novamente em instantes."))
				return
			}

			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(int64(limit)-count, 10))
			next.ServeHTTP(w, r)
		})
	}
}
