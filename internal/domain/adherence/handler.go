package adherence

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/domain/caregivers"
	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service, grantsSvc *caregivers.Service) {
	r.Get("/adherence/history", historyHandler(svc))
	r.Get("/patients/{patientID}/adherence", patientHistoryHandler(svc, grantsSvc))
}

type recordResponse struct {
	Date      string    `json:"date"`
	Percent   float64   `json:"percent"`
	UpdatedAt time.Time `json:"updated_at"`
}

// historyHandler godoc
// @Summary Adherence history snapshots
// @Tags adherence
// @Produce json
// @Param from query string false "YYYY-MM-DD inclusive"
// @Param to query string false "YYYY-MM-DD inclusive"
// @Success 200 {array} recordResponse
// @Router /adherence/history [get]
func historyHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		renderHistory(w, r, svc, claims.UserID)
	}
}

func patientHistoryHandler(svc *Service, grantsSvc *caregivers.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		patientID := chi.URLParam(r, "patientID")
		g, err := grantsSvc.ActiveGrant(r.Context(), patientID, claims.UserID)
		if err != nil || !caregivers.HasScope(g, caregivers.ScopeAdherenceRead) {
			http.Error(w, "forbidden", http.StatusForbidden)
			return
		}

		renderHistory(w, r, svc, patientID)
	}
}

func renderHistory(w http.ResponseWriter, r *http.Request, svc *Service, userID string) {
	from := strings.TrimSpace(r.URL.Query().Get("from"))
	to := strings.TrimSpace(r.URL.Query().Get("to"))

	recs, err := svc.History(r.Context(), userID, from, to)
	if err != nil {
		http.Error(w, "from/to must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	out := make([]recordResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, recordResponse{Date: rec.Date, Percent: rec.Percent, UpdatedAt: rec.UpdatedAt})
	}
	writeJSON(w, http.StatusOK, out)
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
