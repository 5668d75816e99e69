package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"community-app-go/internal/config"
)

// NewCORS builds a CORS middleware from the configured allowlists. Origins
// are matched exactly, except "*" which admits any origin; the matched
// origin is echoed back rather than the wildcard so credentialed requests
// keep working.
func NewCORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	allowAny := false
	allowed := make(map[string]struct{}, len(cfg.AllowedOrigins))
	for _, origin := range cfg.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		switch origin {
		case "":
		case "*":
			allowAny = true
		default:
			allowed[origin] = struct{}{}
		}
	}

	methods := strings.Join(listOrDefault(cfg.AllowedMethods, "GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"), ",")
	headers := strings.Join(listOrDefault(cfg.AllowedHeaders, "Authorization", "Content-Type"), ",")
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 24 * time.Hour
	}
	maxAgeSeconds := strconv.Itoa(int(maxAge / time.Second))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				w.Header().Add("Vary", "Origin")

				_, ok := allowed[origin]
				if ok || allowAny {
					h := w.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Set("Access-Control-Allow-Methods", methods)
					h.Set("Access-Control-Allow-Headers", headers)
					h.Set("Access-Control-Max-Age", maxAgeSeconds)
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func listOrDefault(values []string, fallback ...string) []string {
	cleaned := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	if len(cleaned) == 0 {
		return fallback
	}
	return cleaned
}
