package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"swissgeo/internal/formatter"
	"swissgeo/internal/metrics"
	"swissgeo/internal/models"
	"swissgeo/internal/query"
)

// GeoHandler serves the geography queries over the current model
type GeoHandler struct {
	holder    *query.Holder
	formatter *formatter.ResultsFormatter
	logger    *slog.Logger
}

func NewGeoHandler(holder *query.Holder, f *formatter.ResultsFormatter, logger *slog.Logger) *GeoHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GeoHandler{
		holder:    holder,
		formatter: f,
		logger:    logger,
	}
}

// engine returns the current engine or answers 503 when no model is loaded
func (h *GeoHandler) engine(w http.ResponseWriter, r *http.Request, operation string) (*query.Engine, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	e := h.holder.Load()
	if e == nil {
		metrics.ObserveQuery(operation, "unavailable")
		http.Error(w, "Model not loaded", http.StatusServiceUnavailable)
		return nil, false
	}
	return e, true
}

// writeCount answers a counting query, mapping unknown keys to 400
func (h *GeoHandler) writeCount(w http.ResponseWriter, operation string, count int, err error) {
	if err != nil {
		if errors.Is(err, query.ErrInvalidArgument) {
			metrics.ObserveQuery(operation, "invalid_argument")
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("query failed", "operation", operation, "error", err)
		http.Error(w, "Query failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveQuery(operation, "ok")
	writeJSON(w, http.StatusOK, models.Count{Count: count})
}

func (h *GeoHandler) HandleListCantons(w http.ResponseWriter, r *http.Request) {
	const op = "list_cantons"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}

	summaries, err := h.formatter.CantonSummaries(e)
	if err != nil {
		h.logger.Error("failed to summarize cantons", "error", err)
		http.Error(w, "Query failed", http.StatusInternalServerError)
		return
	}
	metrics.ObserveQuery(op, "ok")
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"total":   len(summaries),
		"cantons": summaries,
	})
}

func (h *GeoHandler) HandleCountCantons(w http.ResponseWriter, r *http.Request) {
	const op = "count_cantons"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	h.writeCount(w, op, e.CountCantons(), nil)
}

func (h *GeoHandler) HandleCountPoliticalCommunitiesInCanton(w http.ResponseWriter, r *http.Request) {
	const op = "count_political_communities_in_canton"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	count, err := e.CountPoliticalCommunitiesInCanton(r.PathValue("code"))
	h.writeCount(w, op, count, err)
}

func (h *GeoHandler) HandleCountDistrictsInCanton(w http.ResponseWriter, r *http.Request) {
	const op = "count_districts_in_canton"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	count, err := e.CountDistrictsInCanton(r.PathValue("code"))
	h.writeCount(w, op, count, err)
}

func (h *GeoHandler) HandleCountPoliticalCommunitiesInDistrict(w http.ResponseWriter, r *http.Request) {
	const op = "count_political_communities_in_district"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	count, err := e.CountPoliticalCommunitiesInDistrict(r.PathValue("number"))
	h.writeCount(w, op, count, err)
}

func (h *GeoHandler) HandleDistrictsForZipCode(w http.ResponseWriter, r *http.Request) {
	const op = "district_names_for_zip_code"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	zipCode := r.PathValue("zip")
	names := e.DistrictNamesForZipCode(zipCode)
	if len(names) == 0 {
		metrics.ObserveQuery(op, "not_found")
	} else {
		metrics.ObserveQuery(op, "ok")
	}
	writeJSON(w, http.StatusOK, h.formatter.DistrictNames(zipCode, names))
}

func (h *GeoHandler) HandleLastUpdateByPostalCommunityName(w http.ResponseWriter, r *http.Request) {
	const op = "last_update_by_postal_community_name"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	lastUpdate, found := e.LastUpdateByPostalCommunityName(name)
	if !found {
		metrics.ObserveQuery(op, "not_found")
		http.Error(w, "Postal community not found", http.StatusNotFound)
		return
	}
	metrics.ObserveQuery(op, "ok")
	writeJSON(w, http.StatusOK, h.formatter.LastUpdate(name, lastUpdate))
}

func (h *GeoHandler) HandleCountWithoutPostalCommunities(w http.ResponseWriter, r *http.Request) {
	const op = "count_political_communities_without_postal_communities"
	e, ok := h.engine(w, r, op)
	if !ok {
		return
	}
	h.writeCount(w, op, e.CountPoliticalCommunitiesWithoutPostalCommunities(), nil)
}

// Register adds the query routes to mux
func (h *GeoHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/cantons", h.HandleListCantons)
	mux.HandleFunc("/api/cantons/count", h.HandleCountCantons)
	mux.HandleFunc("/api/cantons/{code}/political-communities/count", h.HandleCountPoliticalCommunitiesInCanton)
	mux.HandleFunc("/api/cantons/{code}/districts/count", h.HandleCountDistrictsInCanton)
	mux.HandleFunc("/api/districts/{number}/political-communities/count", h.HandleCountPoliticalCommunitiesInDistrict)
	mux.HandleFunc("/api/zip-codes/{zip}/districts", h.HandleDistrictsForZipCode)
	mux.HandleFunc("/api/postal-communities/last-update", h.HandleLastUpdateByPostalCommunityName)
	mux.HandleFunc("/api/political-communities/without-postal-communities/count", h.HandleCountWithoutPostalCommunities)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
