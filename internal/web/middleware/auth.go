package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
)

// API key errors passed to the ErrorResponder.
var (
	ErrMissingAPIKey = errors.New("missing api key")
	ErrInvalidAPIKey = errors.New("invalid api key")
)

// ErrorResponder writes an error response with the given status.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, err error, status int)

// APIKeyAuth requires one of keys in the X-API-Key header or as an
// Authorization bearer token. With no keys configured every request passes.
func APIKeyAuth(keys []string, respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := requestAPIKey(r)
			switch {
			case apiKey == "":
				respond(w, r, ErrMissingAPIKey, http.StatusUnauthorized)
			case !isValidAPIKey(apiKey, keys):
				respond(w, r, ErrInvalidAPIKey, http.StatusForbidden)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}

// requestAPIKey prefers X-API-Key and falls back to "Authorization: Bearer".
func requestAPIKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if key, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return strings.TrimSpace(key)
	}
	return ""
}

// isValidAPIKey compares key against every configured key in constant time.
func isValidAPIKey(key string, validKeys []string) bool {
	valid := 0
	for _, validKey := range validKeys {
		valid |= subtle.ConstantTimeCompare([]byte(key), []byte(validKey))
	}
	return valid == 1
}
