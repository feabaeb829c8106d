package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/couchcryptid/solar-sizing-service/internal/report"
	"github.com/couchcryptid/solar-sizing-service/internal/sizing"
)

// Request bounds for GET /v1/sizing.
const (
	MaxPanels = 500
	MaxSites  = 50
)

// ReportBuilder produces sizing reports.
type ReportBuilder interface {
	Build(ctx context.Context, panelCount int, sites []report.Site) (report.Report, error)
}

// SizingHandler serves GET /v1/sizing?panels=N&site=Name:Temp.
// Missing parameters fall back to the configured panel count and sites.
type SizingHandler struct {
	builder    ReportBuilder
	panelCount int
	sites      []report.Site
	logger     *slog.Logger
}

// NewSizingHandler creates a handler with the given defaults.
func NewSizingHandler(builder ReportBuilder, panelCount int, sites []report.Site, logger *slog.Logger) *SizingHandler {
	return &SizingHandler{
		builder:    builder,
		panelCount: panelCount,
		sites:      sites,
		logger:     logger,
	}
}

func (h *SizingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	panels, sites, err := h.parseQuery(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	rep, err := h.builder.Build(r.Context(), panels, sites)
	switch {
	case errors.Is(err, sizing.ErrInvalidArgument):
		writeError(w, http.StatusBadRequest, err)
		return
	case err != nil:
		h.logger.Error("sizing request failed", "panels", panels, "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("sizing failed"))
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (h *SizingHandler) parseQuery(r *http.Request) (int, []report.Site, error) {
	q := r.URL.Query()

	panels := h.panelCount
	if v := q.Get("panels"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, nil, fmt.Errorf("invalid panels %q", v)
		}
		panels = n
	}
	if panels <= 0 || panels > MaxPanels {
		return 0, nil, fmt.Errorf("panels must be between 1 and %d", MaxPanels)
	}

	specs := q["site"]
	if len(specs) == 0 {
		return panels, h.sites, nil
	}
	if len(specs) > MaxSites {
		return 0, nil, fmt.Errorf("at most %d sites per request", MaxSites)
	}
	sites := make([]report.Site, 0, len(specs))
	for _, spec := range specs {
		s, err := report.ParseSite(spec)
		if err != nil {
			return 0, nil, err
		}
		sites = append(sites, s)
	}
	return panels, sites, nil
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
