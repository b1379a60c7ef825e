package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gardar/textalign/pkg/align"
	"github.com/gardar/textalign/pkg/glyph"
	"github.com/gardar/textalign/pkg/project"
	"github.com/gardar/textalign/pkg/syllable"
	"github.com/gardar/textalign/pkg/textalign"
)

type alignRequest struct {
	Transcript    string                   `json:"transcript"`
	Glyphs        []glyph.Glyph            `json:"glyphs"`
	Layout        textalign.Layout         `json:"layout"`
	Scoring       *textalign.ScoringConfig `json:"scoring,omitempty"`
	Abbreviations *bool                    `json:"abbreviations,omitempty"`
	Transliterate *bool                    `json:"transliterate,omitempty"`
}

type syllabifyRequest struct {
	Text string `json:"text"`
}

type syllabifyResponse struct {
	Syllables []string `json:"syllables"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAlign(w http.ResponseWriter, r *http.Request) {
	var req alignRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	cfg := s.cfg
	if req.Scoring != nil {
		cfg.Scoring = *req.Scoring
	}
	if req.Abbreviations != nil {
		cfg.Abbreviations = *req.Abbreviations
	}
	if req.Transliterate != nil {
		cfg.Transliterate = *req.Transliterate
	}

	res, err := textalign.Process(r.Context(), textalign.Page{
		Transcript: req.Transcript,
		Glyphs:     req.Glyphs,
		Layout:     req.Layout,
	}, cfg)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleSyllabify(w http.ResponseWriter, r *http.Request) {
	var req syllabifyRequest
	if err := decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	syls, err := syllable.Syllabify(textalign.NormalizeTranscript(req.Text))
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	if syls == nil {
		syls = []string{}
	}
	writeJSON(w, http.StatusOK, syllabifyResponse{Syllables: syls})
}

// statusFor maps the error taxonomy onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, textalign.ErrInvalidConfig), errors.Is(err, align.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, project.ErrConsistency), errors.Is(err, syllable.ErrNonConvergence):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}
