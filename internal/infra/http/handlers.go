package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/Spok95/clinic-backend/internal/domain/dosage"
	"github.com/Spok95/clinic-backend/internal/domain/medications"
	"github.com/Spok95/clinic-backend/internal/report"
)

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func medJSON(m *medications.Medication) map[string]any {
	return map[string]any{
		"id":             m.ID,
		"short_name":     m.ShortName,
		"full_name":      m.FullName,
		"unit":           m.Unit,
		"price_per_unit": m.PricePerUnit,
		"stock_quantity": m.StockQuantity,
	}
}

func (s *Server) handleCreateMedication(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ShortName    string  `json:"short_name"`
		FullName     string  `json:"full_name"`
		Unit         string  `json:"unit"`
		PricePerUnit float64 `json:"price_per_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	m, err := s.deps.Medications.Create(r.Context(), req.ShortName, req.FullName, req.Unit, req.PricePerUnit)
	if err != nil {
		if errors.Is(err, dosage.ErrUnknownUnit) {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, medJSON(m))
}

func (s *Server) handleListMedications(w http.ResponseWriter, r *http.Request) {
	ms, err := s.deps.Medications.List(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(ms))
	for i := range ms {
		out = append(out, medJSON(&ms[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	var req struct {
		PricePerUnit float64 `json:"price_per_unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	m, err := s.deps.Medications.UpdatePrice(r.Context(), id, req.PricePerUnit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if m == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("medication %d not found", id)})
		return
	}
	s.writeJSON(w, http.StatusOK, medJSON(m))
}

func (s *Server) handleDeleteMedication(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	ok, err := s.deps.Medications.Delete(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("medication %d not found", id)})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStockHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	m, err := s.deps.Medications.GetByID(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if m == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("medication %d not found", id)})
		return
	}

	entries, err := s.deps.Ledger.History(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]logEntryJSON, 0, len(entries))
	for i := range entries {
		out = append(out, toLogJSON(&entries[i]))
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"medication": medJSON(m),
		"log":        out,
	})
}

func (s *Server) handleCreatePatient(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		BirthDate string `json:"birth_date"`
		Rank      string `json:"rank"`
		Unit      string `json:"unit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	p, err := s.deps.Patients.Create(r.Context(), req.Name, req.Phone, req.BirthDate, req.Rank, req.Unit)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": p.ID, "name": p.Name})
}

func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	ps, err := s.deps.Patients.List(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(ps))
	for _, p := range ps {
		out = append(out, map[string]any{"id": p.ID, "name": p.Name, "phone": p.Phone})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateFacility(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	f, err := s.deps.Facilities.Create(r.Context(), req.Name)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": f.ID, "name": f.Name})
}

func (s *Server) handleListFacilities(w http.ResponseWriter, r *http.Request) {
	fs, err := s.deps.Facilities.List(r.Context())
	if err != nil {
		s.writeErr(w, err)
		return
	}
	out := make([]map[string]any, 0, len(fs))
	for _, f := range fs {
		out = append(out, map[string]any{"id": f.ID, "name": f.Name})
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCreateVisit(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PatientID     int64  `json:"patient_id"`
		FacilityID    int64  `json:"facility_id"`
		StartDate     string `json:"start_date"`
		EndDate       string `json:"end_date"`
		TreatmentType string `json:"treatment_type"`
		InjuryType    string `json:"injury_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "start_date must be YYYY-MM-DD"})
		return
	}
	var end *time.Time
	if req.EndDate != "" {
		e, err := time.Parse("2006-01-02", req.EndDate)
		if err != nil {
			s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "end_date must be YYYY-MM-DD"})
			return
		}
		end = &e
	}

	p, err := s.deps.Patients.GetByID(r.Context(), req.PatientID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if p == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("patient %d not found", req.PatientID)})
		return
	}
	f, err := s.deps.Facilities.GetByID(r.Context(), req.FacilityID)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if f == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("facility %d not found", req.FacilityID)})
		return
	}

	v, err := s.deps.Visits.Create(r.Context(), req.PatientID, req.FacilityID, start, end, req.TreatmentType, req.InjuryType)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{"id": v.ID, "call_date": v.CallDate})
}

func (s *Server) handleGetVisit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}
	v, err := s.deps.Visits.GetByID(r.Context(), id)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	if v == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": fmt.Sprintf("visit %d not found", id)})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"id":             v.ID,
		"patient_id":     v.PatientID,
		"patient_name":   v.PatientName,
		"facility":       v.FacilityName,
		"start_date":     v.StartDate.Format("2006-01-02"),
		"end_date":       v.EndDate,
		"call_date":      v.CallDate,
		"treatment_type": v.TreatmentType,
		"injury_type":    v.InjuryType,
		"status":         v.Status,
		"has_appendix21": v.HasAppendix21,
	})
}

func (s *Server) handleAct(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if _, err := time.Parse("2006-01-02", from); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "parameter from is required, format YYYY-MM-DD"})
		return
	}
	if _, err := time.Parse("2006-01-02", to); err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": "parameter to is required, format YYYY-MM-DD"})
		return
	}

	items, err := s.deps.Medications.ConsumptionTotals(r.Context(), from, to)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	period := fmt.Sprintf("%s по %s", from, to)
	data, err := report.RenderAct(items, period)
	if err != nil {
		s.writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("act_%s_%s.xlsx", from, to)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
