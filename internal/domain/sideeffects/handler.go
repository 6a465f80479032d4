package sideeffects

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"med-adherence/internal/middleware"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/side-effects", func(sr chi.Router) {
		sr.Post("/", createHandler(svc))
		sr.Get("/", listHandler(svc))
		sr.Get("/summary", summaryHandler(svc))
		sr.Delete("/{reportID}", deleteHandler(svc))
	})
}

type createReportRequest struct {
	Medication  string `json:"medication"`
	Severity    string `json:"severity"`
	Kind        string `json:"kind"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type reportResponse struct {
	ID          string    `json:"id"`
	Medication  string    `json:"medication"`
	Severity    Severity  `json:"severity"`
	Kind        string    `json:"kind"`
	Description string    `json:"description,omitempty"`
	Date        string    `json:"date"`
	ReportedAt  time.Time `json:"reported_at"`
}

type summaryResponse struct {
	Total        int              `json:"total"`
	BySeverity   map[Severity]int `json:"by_severity"`
	ByMedication map[string]int   `json:"by_medication"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		rep, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Medication:  req.Medication,
			Severity:    Severity(req.Severity),
			Kind:        req.Kind,
			Description: req.Description,
			Date:        req.Date,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "medication, kind and severity (mild|moderate|severe) are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(rep))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		reps, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]reportResponse, 0, len(reps))
		for _, rep := range reps {
			out = append(out, toResponse(rep))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func summaryHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		sum, err := svc.Summary(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, summaryResponse{
			Total:        sum.Total,
			BySeverity:   sum.BySeverity,
			ByMedication: sum.ByMedication,
		})
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "reportID")
		if err := svc.Delete(r.Context(), claims.UserID, id); err != nil {
			if errors.Is(err, ErrForbidden) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "report not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(rep Report) reportResponse {
	return reportResponse{
		ID:          rep.ID,
		Medication:  rep.Medication,
		Severity:    rep.Severity,
		Kind:        rep.Kind,
		Description: rep.Description,
		Date:        rep.Date,
		ReportedAt:  rep.ReportedAt,
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
