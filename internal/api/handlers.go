package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/savegress/mobitrace/internal/chains"
	"github.com/savegress/mobitrace/internal/config"
	"github.com/savegress/mobitrace/internal/export"
	"github.com/savegress/mobitrace/internal/scan"
)

// Handlers contains all HTTP handlers.
type Handlers struct {
	config *config.Config
	engine *scan.Engine
	store  *scan.Store
}

// NewHandlers creates new handlers.
func NewHandlers(cfg *config.Config, engine *scan.Engine, store *scan.Store) *Handlers {
	return &Handlers{
		config: cfg,
		engine: engine,
		store:  store,
	}
}

// HealthCheck handles health check requests.
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "mobitrace",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// CreateScan accepts a multipart CSV upload, runs the full detection
// pipeline over it and stores the result.
func (h *Handlers) CreateScan(w http.ResponseWriter, r *http.Request) {
	file, _, err := r.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "no file supplied")
		return
	}
	defer file.Close()

	result, err := h.engine.Run(r.Context(), file)
	if err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	id := h.store.Save(result)
	respond(w, http.StatusCreated, map[string]interface{}{
		"id":             id,
		"rows_read":      result.RowsRead,
		"total_findings": result.TotalFindings(),
		"cashout_chains": len(result.CashoutChains),
		"total_volume":   chains.ChainVolume(result.CashoutChains),
	})
}

// ListScans lists stored scans, newest first.
func (h *Handlers) ListScans(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, h.store.List())
}

// GetScan returns every table of one stored scan.
func (h *Handlers) GetScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, ok := h.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "scan not found")
		return
	}

	respond(w, http.StatusOK, result)
}

// ExportScan downloads one stored scan as an XLSX workbook (all tables as
// named sheets) or as CSV (one table selected by name).
func (h *Handlers) ExportScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result, ok := h.store.Get(id)
	if !ok {
		respondError(w, http.StatusNotFound, "scan not found")
		return
	}

	format := r.URL.Query().Get("format")
	switch format {
	case "", "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mobitrace-"+id+".xlsx"))
		if err := export.WriteWorkbook(w, result); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
	case "csv":
		table, ok := export.Find(result, r.URL.Query().Get("table"))
		if !ok {
			respondError(w, http.StatusBadRequest, "unknown table")
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "mobitrace-"+id+".csv"))
		if err := export.WriteCSV(w, table); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
		}
	default:
		respondError(w, http.StatusBadRequest, "unsupported format: "+format)
	}
}

// GetWeights returns the effective scoring weight table.
func (h *Handlers) GetWeights(w http.ResponseWriter, r *http.Request) {
	weights, err := h.config.Scoring.ResolveWeights()
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]interface{}{
		"profile":               h.config.Scoring.Profile,
		"fast_cashout_window":   h.config.Scoring.FastCashoutWindow.String(),
		"high_amount_threshold": h.config.Scoring.HighAmountThreshold,
		"weights":               weights,
	})
}

func respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respond(w, status, map[string]string{"error": message})
}
