package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"telecare-backend/pkg/auth"
	"telecare-backend/pkg/ratelimit"

	"github.com/go-chi/chi/v5"
)

// RateLimit enforces the given quota preset on every request it wraps.
//
// Authenticated callers are counted per user so one tenant cannot starve
// another from behind the same NAT; anonymous callers fall back to
// per-IP buckets. The standard X-RateLimit-* headers go out on every
// response, allowed or not, so well-behaved clients can pace themselves.
func RateLimit(limiter *ratelimit.Limiter, preset ratelimit.Preset) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			result := limiter.Check(r.Context(), requestIdentity(r), endpointName(r), preset)

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))

			if !result.Allowed {
				w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
				respondWithError(w, http.StatusTooManyRequests,
					fmt.Sprintf("Rate limit exceeded: %d requests per %s", result.Limit, preset.Window))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestIdentity picks the quota bucket owner: the authenticated user if
// present, the client IP otherwise
func requestIdentity(r *http.Request) string {
	if user, err := auth.GetUserFromContext(r.Context()); err == nil {
		return "user:" + user.UserID
	}
	return "ip:" + ClientIP(r)
}

// endpointName names the quota scope for a request. The route pattern
// keeps parameterized paths ("/doctors/{id}") in one bucket; raw paths
// are the fallback when no pattern matched yet.
func endpointName(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
