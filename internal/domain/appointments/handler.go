package appointments

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
	r.Route("/appointments", func(ar chi.Router) {
		ar.Post("/", createHandler(svc))
		ar.Get("/", listHandler(svc))
		ar.Delete("/{appointmentID}", deleteHandler(svc))
	})
}

type createAppointmentRequest struct {
	Doctor    string `json:"doctor"`
	Specialty string `json:"specialty"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Location  string `json:"location"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type appointmentResponse struct {
	ID        string    `json:"id"`
	Doctor    string    `json:"doctor"`
	Specialty string    `json:"specialty,omitempty"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	Location  string    `json:"location,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	DaysUntil int       `json:"days_until"`
	CreatedAt time.Time `json:"created_at"`
}

func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createAppointmentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}

		a, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Doctor:    req.Doctor,
			Specialty: req.Specialty,
			Date:      req.Date,
			Time:      req.Time,
			Location:  req.Location,
			Phone:     req.Phone,
			Notes:     req.Notes,
		})
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, "doctor, date (YYYY-MM-DD) and time (HH:MM) are required", http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toResponse(a, time.Now().Format("2006-01-02")))
	}
}

func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		upcomingOnly := r.URL.Query().Get("upcoming") == "true"
		list, err := svc.ListByUser(r.Context(), claims.UserID, upcomingOnly)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		today := time.Now().Format("2006-01-02")
		out := make([]appointmentResponse, 0, len(list))
		for _, a := range list {
			out = append(out, toResponse(a, today))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		id := chi.URLParam(r, "appointmentID")
		if err := svc.Delete(r.Context(), claims.UserID, id); err != nil {
			if errors.Is(err, ErrForbidden) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "appointment not found", http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toResponse(a Appointment, today string) appointmentResponse {
	days, _ := a.DaysUntil(today)
	return appointmentResponse{
		ID:        a.ID,
		Doctor:    a.Doctor,
		Specialty: a.Specialty,
		Date:      a.Date,
		Time:      a.Time,
		Location:  a.Location,
		Phone:     a.Phone,
		Notes:     a.Notes,
		DaysUntil: days,
		CreatedAt: a.CreatedAt,
	}
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
