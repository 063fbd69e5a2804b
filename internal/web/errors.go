package web

// errors.go maps internal errors to user-facing messages with support codes.
//
// Codes:
//
//	FILE001 - Upload too large            (413) "request body too large"
//	FILE002 - No file in upload           (400) "no file provided"
//	FILE003 - Malformed multipart upload  (400) "multipart"
//	CHK001  - Invalid failure limit       (400) "invalid max"
//	CHK002  - Too many checks running     (503) "too many concurrent checks"
//	CHK003  - Request cancelled           "context canceled"
//	CHK004  - Request timed out           "context deadline exceeded"
//	AUTH001 - Missing API key             (401) "missing api key"
//	AUTH002 - Invalid API key             (403) "invalid api key"
//	RATE001 - Rate limited                (429) "rate limit"
//	ERR000  - Anything else
//
// Patterns are matched case-insensitively with strings.Contains; the first
// match wins.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/tsvcheck/internal/logging"
)

var (
	errNoFile     = errors.New("no file provided")
	errInvalidMax = errors.New("invalid max")
)

// UserMessage is the user-facing description of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	{"request body too large", UserMessage{"The uploaded file is too large", "Split the file into smaller chunks", "FILE001"}},
	{"no file provided", UserMessage{"No file was uploaded", "Send the TSV as the request body or as the multipart field \"file\"", "FILE002"}},
	{"multipart", UserMessage{"The upload could not be read", "Check the multipart encoding of the request", "FILE003"}},
	{"invalid max", UserMessage{"The failure limit is not valid", "Use a non-negative whole number for max", "CHK001"}},
	{"too many concurrent checks", UserMessage{"The server is busy checking other files", "Please wait a moment and try again", "CHK002"}},
	{"context canceled", UserMessage{"The request was cancelled", "Please try again", "CHK003"}},
	{"context deadline exceeded", UserMessage{"The request timed out", "Try a smaller file or check your connection", "CHK004"}},
	{"missing api key", UserMessage{"An API key is required", "Send your key in the X-API-Key header", "AUTH001"}},
	{"invalid api key", UserMessage{"The API key is not valid", "Check the key in the X-API-Key header", "AUTH002"}},
	{"rate limit", UserMessage{"Too many requests", "Please wait a moment before trying again", "RATE001"}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError returns the user message for err. A nil error maps to the zero
// UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// respondError logs err with the request context and writes the mapped
// message as JSON.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	userMsg := MapError(err)

	logging.FromContext(r.Context()).Log(r.Context(), levelFor(statusCode), "request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", userMsg.Code,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   userMsg.Message,
		Message: userMsg.Message,
		Action:  userMsg.Action,
		Code:    userMsg.Code,
	})
}

func levelFor(status int) slog.Level {
	if status >= http.StatusInternalServerError {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// writeJSON encodes v as JSON and writes it to w.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode error", "error", err)
	}
}
