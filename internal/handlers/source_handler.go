package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"swissgeo/internal/dataset"
	"swissgeo/internal/models"
	"swissgeo/internal/query"
)

// SourceStore is the registry of data sources
type SourceStore interface {
	SaveDataSource(src *models.DataSource) error
	GetDataSource(id string) (*models.DataSource, error)
	GetAllDataSources() ([]models.DataSource, error)
	FindDataSourcesByKind(kind models.SourceKind) ([]models.DataSource, error)
	UpdateDataSource(id string, src *models.DataSource) error
	DeleteDataSource(id string) error
}

// ModelLoader builds an engine from data sources
type ModelLoader interface {
	Load(ctx context.Context, sources []models.DataSource) (*query.Engine, error)
}

type SourceHandler struct {
	store  SourceStore
	loader ModelLoader
	holder *query.Holder
	logger *slog.Logger
}

func NewSourceHandler(store SourceStore, loader ModelLoader, holder *query.Holder, logger *slog.Logger) *SourceHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SourceHandler{
		store:  store,
		loader: loader,
		holder: holder,
		logger: logger,
	}
}

func (h *SourceHandler) HandleSaveDataSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var src models.DataSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := src.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.SaveDataSource(&src); err != nil {
		h.logger.Error("failed to save data source", "name", src.Name, "error", err)
		http.Error(w, "Error saving data source", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, src)
}

func (h *SourceHandler) HandleGetDataSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		var (
			sources []models.DataSource
			err     error
		)
		if kind := models.SourceKind(r.URL.Query().Get("kind")); kind != "" {
			if err := models.ValidateSourceKind(kind); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			sources, err = h.store.FindDataSourcesByKind(kind)
		} else {
			sources, err = h.store.GetAllDataSources()
		}
		if err != nil {
			h.logger.Error("failed to fetch data sources", "error", err)
			http.Error(w, "Error fetching data sources", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, sources)
		return
	}

	src, err := h.store.GetDataSource(id)
	if err != nil {
		http.Error(w, "Data source not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, src)
}

func (h *SourceHandler) HandleUpdateDataSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return
	}

	var src models.DataSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if err := src.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.store.UpdateDataSource(id, &src); err != nil {
		h.logger.Error("failed to update data source", "id", id, "error", err)
		http.Error(w, "Error updating data source", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, src)
}

func (h *SourceHandler) HandleDeleteDataSource(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.PathValue("id")
	if id == "" {
		http.Error(w, "ID is required", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteDataSource(id); err != nil {
		h.logger.Error("failed to delete data source", "id", id, "error", err)
		http.Error(w, "Error deleting data source", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Data source deleted successfully",
	})
}

// HandleReload rebuilds the model from every registered data source and
// publishes it. The previous model keeps serving if the rebuild fails.
func (h *SourceHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := h.Reload(r.Context()); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dataset.ErrMissingSource) {
			status = http.StatusConflict
		}
		http.Error(w, fmt.Sprintf("Failed to reload model: %v", err), status)
		return
	}

	e := h.holder.Load()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":               "Model reloaded successfully",
		"cantons":               e.CountCantons(),
		"political_communities": len(e.Model().PoliticalCommunities()),
		"postal_communities":    len(e.Model().PostalCommunities()),
	})
}

// Reload loads the registered data sources and publishes the new engine
func (h *SourceHandler) Reload(ctx context.Context) error {
	sources, err := h.store.GetAllDataSources()
	if err != nil {
		return fmt.Errorf("failed to fetch data sources: %w", err)
	}

	engine, err := h.loader.Load(ctx, sources)
	if err != nil {
		h.logger.Error("model reload failed", "error", err)
		return err
	}
	h.holder.Store(engine)
	return nil
}

// Register adds the registry and reload routes to mux
func (h *SourceHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/data-sources", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleGetDataSource(w, r)
		case http.MethodPost:
			h.HandleSaveDataSource(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/data-sources/{id}", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			h.HandleGetDataSource(w, r)
		case http.MethodPut:
			h.HandleUpdateDataSource(w, r)
		case http.MethodDelete:
			h.HandleDeleteDataSource(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/api/reload", h.HandleReload)
}
