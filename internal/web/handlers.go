package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/JonMunkholm/entities/internal/entity"
	"github.com/JonMunkholm/entities/internal/logging"
	"github.com/JonMunkholm/entities/internal/persist"
	"github.com/JonMunkholm/entities/internal/web/templates"
	"github.com/go-chi/chi/v5"
)

const (
	defaultLeft     = persist.FormatCSV
	defaultRight    = persist.FormatXML
	defaultHistory  = 20
	maxHistoryLimit = 100
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok\n")
}

func (s *Server) handleListFormats(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string][]string{"formats": s.service.Formats()})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistory
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			s.respondError(w, r, badRequest(fmt.Errorf("limit must be a positive integer")))
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	results := s.service.History(limit)
	out := make([]saveResultJSON, len(results))
	for i, res := range results {
		out[i] = toSaveResultJSON(res)
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{"saves": out})
}

func (s *Server) handleLoadEntities(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	entities, err := s.service.Load(r.Context(), format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, map[string]any{
		"format":   format,
		"entities": toEntityJSONs(entities),
	})
}

func (s *Server) handleSaveEntities(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	var req entitiesRequest
	if err := s.decodeJSON(w, r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}
	entities, err := req.toEntities()
	if err != nil {
		s.respondError(w, r, badRequest(err))
		return
	}

	res, err := s.service.Save(r.Context(), format, entities)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusCreated, toSaveResultJSON(res))
}

// handleExport streams the stored file of a file-backed format.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")

	h, err := s.service.Handler(format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	fb, ok := h.(persist.FileBacked)
	if !ok {
		s.respondError(w, r, badRequest(fmt.Errorf("format %q is not stored in a file", format)))
		return
	}

	// Saves replace the file by rename, so an open handle always sees a
	// complete version.
	f, err := os.Open(fb.Path())
	if err != nil {
		s.respondError(w, r, entity.IOError("export", fb.Path(), err))
		return
	}
	defer f.Close()

	contentType := "text/csv; charset=utf-8"
	if format == persist.FormatXML {
		contentType = "application/xml; charset=utf-8"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filepath.Base(fb.Path())))

	if _, err := io.Copy(w, f); err != nil {
		logging.FromContext(r.Context()).Error("export copy failed", "format", format, "error", err)
	}
}

// handleCrossCheck saves a set through two formats and compares what comes
// back. Without a body the seed set is used.
func (s *Server) handleCrossCheck(w http.ResponseWriter, r *http.Request) {
	left, right := formatPair(r)

	entities := s.seed
	if r.ContentLength != 0 {
		var req entitiesRequest
		if err := s.decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			s.respondError(w, r, err)
			return
		} else if err == nil {
			if entities, err = req.toEntities(); err != nil {
				s.respondError(w, r, badRequest(err))
				return
			}
		}
	}

	res, err := s.service.CrossCheck(r.Context(), left, right, entities)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.writeJSON(w, r, http.StatusOK, toCrossCheckJSON(res))
}

// handleReport runs a cross-check of the seed set and renders it. Like the
// API call it rewrites both destinations.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	left, right := formatPair(r)

	res, err := s.service.CrossCheck(r.Context(), left, right, s.seed)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := templates.ReportData{
		Records: s.seed,
		Result:  res,
		History: s.service.History(defaultHistory),
	}
	if err := templates.Report(data).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render report", "error", err)
	}
}

func formatPair(r *http.Request) (left, right string) {
	left, right = r.URL.Query().Get("left"), r.URL.Query().Get("right")
	if left == "" {
		left = defaultLeft
	}
	if right == "" {
		right = defaultRight
	}
	return left, right
}
