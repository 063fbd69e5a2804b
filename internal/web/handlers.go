package web

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/tsvcheck/internal/check"
	"github.com/JonMunkholm/tsvcheck/internal/logging"
	"github.com/JonMunkholm/tsvcheck/internal/report"
	"github.com/JonMunkholm/tsvcheck/internal/rules"
	"github.com/google/uuid"
)

// flushEvery is how many records are written between flushes.
const flushEvery = 64

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]any{
		"status": "ok",
		"checks": s.limiter.Status(),
	})
}

type columnInfo struct {
	Position string `json:"column"`
	rules.Column
}

type rulesResponse struct {
	UnexpectedColumns string       `json:"unexpected_columns"`
	Header            bool         `json:"header"`
	Columns           []columnInfo `json:"columns"`
	Kinds             []string     `json:"kinds"`
}

func (s *Server) handleRules(w http.ResponseWriter, r *http.Request) {
	resp := rulesResponse{
		UnexpectedColumns: s.policy().String(),
		Header:            s.settings.Header,
		Columns:           make([]columnInfo, len(s.settings.Columns)),
		Kinds:             rules.Kinds(),
	}
	for i, col := range s.settings.Columns {
		resp.Columns[i] = columnInfo{Position: check.ColumnName(uint(i)), Column: col}
	}
	writeJSON(w, resp)
}

// policy is Fatal when either the rules file or the server configuration
// asks for it.
func (s *Server) policy() check.UnexpectedColumnPolicy {
	if s.settings.UnexpectedColumns == check.Fatal {
		return check.Fatal
	}
	return s.opts.UnexpectedColumn
}

// handleCheck streams the failures of the uploaded TSV as JSON lines,
// followed by a summary line.
func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	checkID := uuid.NewString()
	w.Header().Set("X-Check-ID", checkID)
	logger := logging.WithFields(r.Context(), "check_id", checkID)

	limit, err := parseMax(r.URL.Query().Get("max"))
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	tooLarge := &http.MaxBytesError{Limit: s.cfg.MaxFileSize}
	if r.ContentLength > s.cfg.MaxFileSize {
		s.respondError(w, r, tooLarge, http.StatusRequestEntityTooLarge)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxFileSize)

	if err := s.limiter.Acquire(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	defer s.limiter.Release()

	body, name, err := checkInput(r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		s.respondError(w, r, err, status)
		return
	}

	opts := s.opts
	opts.UnexpectedColumn = s.policy()
	opts.Logger = logger
	stream := check.NewStream(body, s.settings, opts)
	defer stream.Close()

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	out := report.NewJSONWriter(w)
	rc := http.NewResponseController(w)

	var written int
	truncated := false
	for f := range stream.Failures() {
		if err := out.WriteFailure(name, f); err != nil {
			logger.Warn("check aborted, client gone", "error", err)
			return
		}
		written++
		if limit > 0 && written >= limit {
			truncated = true
			break
		}
		if written%flushEvery == 0 {
			rc.Flush()
		}
	}

	st := stream.Stats()
	if err := out.WriteSummary(report.NewSummary(name, st, truncated)); err != nil {
		logger.Warn("write summary", "error", err)
		return
	}
	rc.Flush()

	logger.Info("check finished",
		"file", name,
		"rows", st.Rows,
		"failures", st.Failures,
		"bytes", st.BytesRead,
		"truncated", truncated,
	)
}

// parseMax reads the optional failure limit; 0 and "" mean no limit.
func parseMax(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %q", errInvalidMax, v)
	}
	return n, nil
}

// checkInput returns the TSV to check: the multipart part named "file", or
// the raw body for any other content type.
func checkInput(r *http.Request) (io.Reader, string, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if !strings.HasPrefix(mediaType, "multipart/") {
		if r.ContentLength == 0 {
			return nil, "", errNoFile
		}
		return r.Body, "", nil
	}

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, "", fmt.Errorf("multipart: %w", err)
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, "", errNoFile
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return nil, "", err
			}
			return nil, "", fmt.Errorf("multipart: %w", err)
		}
		if part.FormName() == "file" {
			return part, part.FileName(), nil
		}
		part.Close()
	}
}
