package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Spok95/clinic-backend/internal/domain/facilities"
	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/domain/patients"
	"github.com/Spok95/clinic-backend/internal/domain/stock"
	"github.com/Spok95/clinic-backend/internal/domain/usage"
	"github.com/Spok95/clinic-backend/internal/domain/visits"
	"github.com/Spok95/clinic-backend/internal/report"
)

// Deps — операции ядра, которые выставляет админский HTTP-интерфейс.
type Deps struct {
	Ledger      *stock.Ledger
	Allocator   *usage.Allocator
	Visits      *visits.Repo
	Medications *medications.Repo
	Patients    *patients.Repo
	Facilities  *facilities.Repo
	BatchSize   int
	Log         *slog.Logger
}

type Server struct {
	srv  *http.Server
	deps Deps
}

func New(addr string, exposeMetrics bool, deps Deps) *Server {
	s := &Server{deps: deps}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	if exposeMetrics {
		mux.Handle("/metrics", promhttp.Handler())
	}

	mux.HandleFunc("POST /medications", s.handleCreateMedication)
	mux.HandleFunc("GET /medications", s.handleListMedications)
	mux.HandleFunc("PUT /medications/{id}/price", s.handleUpdatePrice)
	mux.HandleFunc("DELETE /medications/{id}", s.handleDeleteMedication)
	mux.HandleFunc("GET /medications/{id}/history", s.handleStockHistory)
	mux.HandleFunc("POST /medications/restock", s.handleRestock)

	mux.HandleFunc("POST /patients", s.handleCreatePatient)
	mux.HandleFunc("GET /patients", s.handleListPatients)
	mux.HandleFunc("POST /facilities", s.handleCreateFacility)
	mux.HandleFunc("GET /facilities", s.handleListFacilities)

	mux.HandleFunc("POST /visits", s.handleCreateVisit)
	mux.HandleFunc("GET /visits/{id}", s.handleGetVisit)
	mux.HandleFunc("POST /visits/allocate", s.handleAllocate)

	mux.HandleFunc("GET /reports/daily", s.handleDailyReport)
	mux.HandleFunc("GET /reports/act", s.handleAct)

	s.srv = &http.Server{Addr: addr, Handler: mux}
	return s
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.deps.Log.Error("write response failed", "err", err)
	}
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, stock.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, stock.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, stock.ErrInvalidQuantity):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.deps.Log.Error("request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

type logEntryJSON struct {
	ID              int64   `json:"id"`
	ChangeType      string  `json:"change_type"`
	QuantityChanged float64 `json:"quantity_changed"`
	PreviousStock   float64 `json:"previous_stock"`
	NewStock        float64 `json:"new_stock"`
}

func toLogJSON(e *stock.Entry) logEntryJSON {
	return logEntryJSON{
		ID:              e.ID,
		ChangeType:      string(e.ChangeType),
		QuantityChanged: e.QuantityChanged,
		PreviousStock:   e.PreviousStock,
		NewStock:        e.NewStock,
	}
}

func (s *Server) handleRestock(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MedicationID int64   `json:"medication_id"`
		Quantity     float64 `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	med, entry, err := s.deps.Ledger.Restock(r.Context(), req.MedicationID, req.Quantity)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"medication": map[string]any{
			"id":             med.ID,
			"short_name":     med.ShortName,
			"stock_quantity": med.StockQuantity,
		},
		"log": toLogJSON(entry),
	})
}

func (s *Server) handleAllocate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VisitID int64 `json:"visit_id"`
		Items   []struct {
			MedicationID int64   `json:"medication_id"`
			Quantity     float64 `json:"quantity"`
		} `json:"items"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	items := make([]usage.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, usage.Item{MedicationID: it.MedicationID, Quantity: it.Quantity})
	}

	usages, err := s.deps.Allocator.Allocate(r.Context(), req.VisitID, items)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	out := make([]map[string]any, 0, len(usages))
	for _, u := range usages {
		out = append(out, map[string]any{
			"id":            u.ID,
			"visit_id":      u.VisitID,
			"medication_id": u.MedicationID,
			"quantity":      u.Quantity,
		})
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"usages": out})
}

func (s *Server) handleDailyReport(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", r.URL.Query().Get("date"))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "parameter date is required, format YYYY-MM-DD"})
		return
	}
	batchIdx := 0
	if raw := r.URL.Query().Get("batch"); raw != "" {
		if batchIdx, err = strconv.Atoi(raw); err != nil || batchIdx < 0 {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "parameter batch must be a non-negative integer"})
			return
		}
	}

	vs, err := s.deps.Visits.ListForDailyReport(r.Context(), date)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	batches, err := report.ProjectDay(vs, date, s.deps.BatchSize)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if batchIdx >= len(batches) {
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("batch %d not found, batches on %s: %d", batchIdx, date.Format("2006-01-02"), len(batches)),
		})
		return
	}

	data, err := report.RenderDaily(batches[batchIdx], date)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", report.DailyFileName(batches[batchIdx])))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
