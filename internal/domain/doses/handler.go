package doses

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"med-adherence/internal/domain/adherence"
	"med-adherence/internal/domain/caregivers"
	"med-adherence/internal/domain/medications"
	"med-adherence/internal/middleware"
	"med-adherence/internal/platform/logger"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(
	r chi.Router,
	medsSvc *medications.Service,
	adhSvc *adherence.Service,
	grantsSvc *caregivers.Service,
	log logger.Logger,
	windows Windows,
) {
	r.Get("/dashboard", dashboardHandler(medsSvc, windows))

	// Vista de paciente para cuidadores (requiere grant activo con meds:read)
	r.Get("/patients/{patientID}/dashboard", patientDashboardHandler(medsSvc, grantsSvc, windows))

	r.Post("/medications/{medicationID}/doses/{doseIndex}/take", doseActionHandler(medsSvc, adhSvc, log, true))
	r.Post("/medications/{medicationID}/doses/{doseIndex}/untake", doseActionHandler(medsSvc, adhSvc, log, false))
}

type doseResponse struct {
	MedicationID   string `json:"medication_id"`
	MedicationName string `json:"medication_name"`
	Dosage         string `json:"dosage"`
	Time           string `json:"time"`
	DoseIndex      int    `json:"dose_index"`
	Taken          bool   `json:"taken"`
	Status         Status `json:"status"`
}

type dashboardSummary struct {
	Medications int     `json:"medications"`
	TotalDoses  int     `json:"total_doses"`
	TakenDoses  int     `json:"taken_doses"`
	Adherence   float64 `json:"adherence"`
}

type remindersResponse struct {
	Advance []doseResponse `json:"advance"`
	DueNow  []doseResponse `json:"due_now"`
}

type dashboardResponse struct {
	Date      string            `json:"date"`
	Now       string            `json:"now"`
	Doses     []doseResponse    `json:"doses"`
	Summary   dashboardSummary  `json:"summary"`
	Reminders remindersResponse `json:"reminders"`
}

type doseActionResponse struct {
	MedicationID string  `json:"medication_id"`
	DoseIndex    int     `json:"dose_index"`
	Time         string  `json:"time"`
	Date         string  `json:"date"`
	Changed      bool    `json:"changed"`
	Adherence    float64 `json:"adherence"`
}

// dashboardHandler godoc
// @Summary Today's dose dashboard
// @Description Expanded dose occurrences with status, adherence and reminders.
// @Tags doses
// @Produce json
// @Param date query string false "YYYY-MM-DD (default: today)"
// @Param now query string false "HH:MM (default: current time)"
// @Success 200 {object} dashboardResponse
// @Router /dashboard [get]
func dashboardHandler(medsSvc *medications.Service, windows Windows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		renderDashboard(w, r, medsSvc, windows, claims.UserID)
	}
}

func patientDashboardHandler(medsSvc *medications.Service, grantsSvc *caregivers.Service, windows Windows) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		g, err := grantsSvc.ActiveGrant(r.Context(), patientID, claims.UserID)
		if err != nil || !caregivers.HasScope(g, caregivers.ScopeMedsRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		renderDashboard(w, r, medsSvc, windows, patientID)
	}
}

func renderDashboard(w http.ResponseWriter, r *http.Request, medsSvc *medications.Service, windows Windows, userID string) {
	today, ref, err := refTime(r)
	if err != nil {
		http.Error(w, "date must be YYYY-MM-DD and now must be HH:MM", http.StatusBadRequest)
		return
	}

	meds, err := medsSvc.ListByUser(r.Context(), userID)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	occs := make([]Occurrence, 0, len(meds))
	for _, m := range meds {
		occs = append(occs, Expand(m, today)...)
	}
	occs = ClassifyAll(occs, ref)

	taken := 0
	for _, o := range occs {
		if o.Taken {
			taken++
		}
	}

	rem := Evaluate(occs, ref, windows)

	writeJSON(w, http.StatusOK, dashboardResponse{
		Date:  today,
		Now:   ref.Format("15:04"),
		Doses: toDoseResponses(occs),
		Summary: dashboardSummary{
			Medications: len(meds),
			TotalDoses:  len(occs),
			TakenDoses:  taken,
			Adherence:   Adherence(meds, today),
		},
		Reminders: remindersResponse{
			Advance: toDoseResponses(rem.Advance),
			DueNow:  toDoseResponses(rem.DueNow),
		},
	})
}

// doseActionHandler godoc
// @Summary Mark or unmark a dose as taken
// @Tags doses
// @Produce json
// @Param medicationID path string true "medication id"
// @Param doseIndex path int true "dose index within the schedule"
// @Success 200 {object} doseActionResponse
// @Failure 409 {string} string "stale dose reference"
// @Router /medications/{medicationID}/doses/{doseIndex}/take [post]
func doseActionHandler(medsSvc *medications.Service, adhSvc *adherence.Service, log logger.Logger, take bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		medID := chi.URLParam(r, "medicationID")
		idx, err := strconv.Atoi(chi.URLParam(r, "doseIndex"))
		if err != nil {
			http.Error(w, "dose index must be an integer", http.StatusBadRequest)
			return
		}

		today := strings.TrimSpace(r.URL.Query().Get("date"))
		if today == "" {
			today = time.Now().Format("2006-01-02")
		}

		var res medications.DoseAction
		if take {
			res, err = medsSvc.MarkTaken(r.Context(), claims.UserID, medID, idx, today)
		} else {
			res, err = medsSvc.UnmarkTaken(r.Context(), claims.UserID, medID, idx, today)
		}
		if err != nil {
			switch {
			case errors.Is(err, medications.ErrStaleDose):
				// El schedule cambió desde que se renderizó la vista:
				// el caller debe recargar y reintentar.
				http.Error(w, "stale dose reference", http.StatusConflict)
			case errors.Is(err, medications.ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, medications.ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "medication not found", http.StatusNotFound)
			}
			return
		}

		// Refrescar el snapshot diario con el agregador único.
		meds, err := medsSvc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		pct := Adherence(meds, today)
		if _, err := adhSvc.Snapshot(r.Context(), claims.UserID, today, pct); err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		action := "dose taken"
		if !take {
			action = "dose untaken"
		}
		log.Info(action, map[string]any{
			"user_id":       claims.UserID,
			"medication_id": medID,
			"dose_index":    idx,
			"dose_time":     res.Time,
			"date":          today,
			"changed":       res.Changed,
			"adherence":     pct,
		})

		writeJSON(w, http.StatusOK, doseActionResponse{
			MedicationID: medID,
			DoseIndex:    idx,
			Time:         res.Time,
			Date:         today,
			Changed:      res.Changed,
			Adherence:    pct,
		})
	}
}

// refTime arma la referencia (fecha + reloj) desde query params,
// con default "ahora". Solo se usan fecha y minuto.
func refTime(r *http.Request) (string, time.Time, error) {
	now := time.Now()

	today := strings.TrimSpace(r.URL.Query().Get("date"))
	if today == "" {
		today = now.Format("2006-01-02")
	}
	day, err := time.Parse("2006-01-02", today)
	if err != nil {
		return "", time.Time{}, err
	}

	ref := time.Date(day.Year(), day.Month(), day.Day(), now.Hour(), now.Minute(), 0, 0, time.Local)
	if clock := strings.TrimSpace(r.URL.Query().Get("now")); clock != "" {
		min, err := medications.ParseClock(clock)
		if err != nil {
			return "", time.Time{}, err
		}
		ref = time.Date(day.Year(), day.Month(), day.Day(), min/60, min%60, 0, 0, time.Local)
	}

	return today, ref, nil
}

func toDoseResponses(occs []Occurrence) []doseResponse {
	out := make([]doseResponse, 0, len(occs))
	for _, o := range occs {
		out = append(out, doseResponse{
			MedicationID:   o.MedicationID,
			MedicationName: o.MedicationName,
			Dosage:         o.Dosage,
			Time:           o.Time,
			DoseIndex:      o.Index,
			Taken:          o.Taken,
			Status:         o.Status,
		})
	}
	return out
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
