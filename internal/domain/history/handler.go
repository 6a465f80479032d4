package history

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-adherence/internal/domain/caregivers"
	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, grantsSvc *caregivers.Service) {
	r.Get("/history", listHandler(svc))
	r.Get("/patients/{patientID}/history", patientListHandler(svc, grantsSvc))
}

type entryResponse struct {
	ID           string    `json:"id"`
	MedicationID string    `json:"medication_id"`
	Action       Action    `json:"action"`
	DoseTime     string    `json:"dose_time"`
	Date         string    `json:"date"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// listHandler godoc
// @Summary Dose audit log
// @Tags history
// @Produce json
// @Param medication_id query string false "filter by medication"
// @Param action query string false "taken|untaken"
// @Param limit query int false "max entries, newest first"
// @Success 200 {array} entryResponse
// @Router /history [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		renderEntries(w, r, svc, claims.UserID)
	}
}

func patientListHandler(svc *Service, grantsSvc *caregivers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		g, err := grantsSvc.ActiveGrant(r.Context(), patientID, claims.UserID)
		if err != nil || !caregivers.HasScope(g, caregivers.ScopeHistoryRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		renderEntries(w, r, svc, patientID)
	}
}

func renderEntries(w http.ResponseWriter, r *http.Request, svc *Service, userID string) {
	q := r.URL.Query()

	filter := ListFilter{MedicationID: strings.TrimSpace(q.Get("medication_id"))}
	if raw := strings.TrimSpace(q.Get("action")); raw != "" {
		a := Action(raw)
		if a != ActionTaken && a != ActionUntaken {
			http.Error(w, "action must be taken or untaken", http.StatusBadRequest)
			return
		}
		filter.Actions = []Action{a}
	}
	if raw := strings.TrimSpace(q.Get("from")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "from must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		filter.From = &d
	}
	if raw := strings.TrimSpace(q.Get("to")); raw != "" {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "to must be YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		// inclusivo hasta el fin del día
		d = d.Add(24*time.Hour - time.Nanosecond)
		filter.To = &d
	}
	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		filter.Limit = n
	}

	entries, err := svc.ListByUser(r.Context(), userID, filter)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:           e.ID,
			MedicationID: e.MedicationID,
			Action:       e.Action,
			DoseTime:     e.DoseTime,
			Date:         e.Date,
			RecordedAt:   e.RecordedAt,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
