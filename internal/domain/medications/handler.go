package medications

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
	r.Route("/medications", func(mr chi.Router) {
		mr.Post("/", createMedicationHandler(svc))
		mr.Get("/", listMedicationsHandler(svc))

		mr.Get("/{medicationID}", getMedicationHandler(svc))
		mr.Patch("/{medicationID}", updateMedicationHandler(svc))
		mr.Delete("/{medicationID}", deleteMedicationHandler(svc))
	})
}

type createMedicationRequest struct {
	Name        string   `json:"name"`
	Dosage      string   `json:"dosage"`
	Frequency   string   `json:"frequency"`
	PrimaryTime string   `json:"primary_time"` // HH:MM opcional
	Schedule    []string `json:"schedule"`     // HH:MM; vacío => defaults por frecuencia
	Notes       string   `json:"notes"`
}

type takenRecordResponse struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

type medicationResponse struct {
	ID          string                `json:"id"`
	UserID      string                `json:"user_id"`
	Name        string                `json:"name"`
	Dosage      string                `json:"dosage"`
	Frequency   string                `json:"frequency"`
	PrimaryTime string                `json:"primary_time"`
	Schedule    []string              `json:"schedule"`
	TakenDoses  []takenRecordResponse `json:"taken_doses"`
	Notes       string                `json:"notes"`
	CreatedAt   time.Time             `json:"created_at"`
	UpdatedAt   time.Time             `json:"updated_at"`
}

type createMedicationResponse struct {
	Medication medicationResponse `json:"medication"`
	// Medicaciones existentes con toma principal a <30min (no bloquea el alta).
	ConflictWarnings []string `json:"conflict_warnings,omitempty"`
}

type updateMedicationRequest struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string   `json:"name"`
	Dosage      *string   `json:"dosage"`
	Frequency   *string   `json:"frequency"`
	PrimaryTime *string   `json:"primary_time"`
	Schedule    *[]string `json:"schedule"`
	Notes       *string   `json:"notes"`
}

// createMedicationHandler godoc
// @Summary Register a medication
// @Tags medications
// @Accept json
// @Produce json
// @Param medication body createMedicationRequest true "medication"
// @Success 201 {object} createMedicationResponse
// @Router /medications [post]
func createMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createMedicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, conflicts, err := svc.Create(r.Context(), claims.UserID, CreateInput{
			Name:        req.Name,
			Dosage:      req.Dosage,
			Frequency:   req.Frequency,
			PrimaryTime: req.PrimaryTime,
			Schedule:    req.Schedule,
			Notes:       req.Notes,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		writeJSON(w, http.StatusCreated, createMedicationResponse{
			Medication:       toMedicationResponse(m),
			ConflictWarnings: conflicts,
		})
	}
}

// listMedicationsHandler godoc
// @Summary List my medications
// @Tags medications
// @Produce json
// @Success 200 {array} medicationResponse
// @Router /medications [get]
func listMedicationsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := svc.ListByUser(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]medicationResponse, 0, len(items))
		for _, m := range items {
			out = append(out, toMedicationResponse(m))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func getMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		m, err := svc.GetByID(r.Context(), chi.URLParam(r, "medicationID"))
		if err != nil || m.UserID != claims.UserID {
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func updateMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		dec := json.NewDecoder(r.Body)
		dec.DisallowUnknownFields()

		var req updateMedicationRequest
		if err := dec.Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		m, err := svc.Update(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID, UpdateInput{
			Name:        req.Name,
			Dosage:      req.Dosage,
			Frequency:   req.Frequency,
			PrimaryTime: req.PrimaryTime,
			Schedule:    req.Schedule,
			Notes:       req.Notes,
		})
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			default:
				http.Error(w, "medication not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toMedicationResponse(m))
	}
}

func deleteMedicationHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		err := svc.Delete(r.Context(), chi.URLParam(r, "medicationID"), claims.UserID)
		if err != nil {
			if errors.Is(err, ErrForbidden) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			http.Error(w, "medication not found", http.StatusNotFound)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func toMedicationResponse(m Medication) medicationResponse {
	taken := make([]takenRecordResponse, 0, len(m.TakenDoses))
	for _, t := range m.TakenDoses {
		taken = append(taken, takenRecordResponse{Date: t.Date, Time: t.Time})
	}

	return medicationResponse{
		ID:          m.ID,
		UserID:      m.UserID,
		Name:        m.Name,
		Dosage:      m.Dosage,
		Frequency:   string(m.Frequency),
		PrimaryTime: m.PrimaryTime,
		Schedule:    m.Schedule,
		TakenDoses:  taken,
		Notes:       m.Notes,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// writeJSON está duplicado intencionalmente en handlers de distintos módulos
// para evitar crear paquetes/helpers compartidos demasiado pronto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
