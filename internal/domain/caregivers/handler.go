package caregivers

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
	r.Route("/caregivers", func(cr chi.Router) {
		// Lado paciente
		cr.Post("/invites", createInviteHandler(svc))
		cr.Get("/grants", listGrantsHandler(svc))
		cr.Post("/grants/{grantID}/revoke", revokeGrantHandler(svc))

		// Lado cuidador
		cr.Post("/claim", claimHandler(svc))
	})

	// Pacientes vinculados a mí (como cuidador)
	r.Get("/me/patients", listMyPatientsHandler(svc))
}

type createInviteRequest struct {
	Scopes []string `json:"scopes"`
}

type claimRequest struct {
	Code string `json:"code"`
}

type grantResponse struct {
	ID              string     `json:"id"`
	PatientUserID   string     `json:"patient_user_id"`
	CaregiverUserID string     `json:"caregiver_user_id,omitempty"`
	AccessCode      string     `json:"access_code,omitempty"` // solo visible para el paciente en invited
	Scopes          []Scope    `json:"scopes"`
	Status          Status     `json:"status"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	RevokedAt       *time.Time `json:"revoked_at,omitempty"`
}

type linkedPatientResponse struct {
	PatientUserID string  `json:"patient_user_id"`
	GrantID       string  `json:"grant_id"`
	Scopes        []Scope `json:"scopes"`
}

func createInviteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req createInviteRequest
		if r.Body != nil {
			// body opcional: sin scopes se aplican defaults
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		scopes := make([]Scope, 0, len(req.Scopes))
		for _, sc := range req.Scopes {
			scopes = append(scopes, Scope(sc))
		}

		g, err := svc.CreateInvite(r.Context(), claims.UserID, scopes)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusCreated, toGrantResponse(g, true))
	}
}

func claimHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req claimRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		g, err := svc.Claim(r.Context(), claims.UserID, req.Code)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidInput):
				http.Error(w, err.Error(), http.StatusBadRequest)
			case errors.Is(err, ErrBadState):
				http.Error(w, "code already used", http.StatusConflict)
			default:
				http.Error(w, "invite not found", http.StatusNotFound)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponse(g, false))
	}
}

func revokeGrantHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		g, err := svc.Revoke(r.Context(), chi.URLParam(r, "grantID"), claims.UserID)
		if err != nil {
			switch {
			case errors.Is(err, ErrForbidden):
				http.Error(w, "forbidden", http.StatusForbidden)
			case errors.Is(err, ErrNotFound):
				http.Error(w, "grant not found", http.StatusNotFound)
			default:
				http.Error(w, "internal error", http.StatusInternalServerError)
			}
			return
		}

		writeJSON(w, http.StatusOK, toGrantResponse(g, false))
	}
}

func listGrantsHandler(svc *Service) http.HandlerFunc {
	// Grants donde el caller es el paciente
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		grants, err := svc.ListByPatient(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]grantResponse, 0, len(grants))
		for _, g := range grants {
			out = append(out, toGrantResponse(g, true))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func listMyPatientsHandler(svc *Service) http.HandlerFunc {
	// Vínculos activos donde el caller es el cuidador
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := middleware.GetClaims(r.Context())
		if !ok || strings.TrimSpace(claims.UserID) == "" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		grants, err := svc.ListByCaregiver(r.Context(), claims.UserID)
		if err != nil {
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		out := make([]linkedPatientResponse, 0, len(grants))
		for _, g := range grants {
			if g.Status != StatusActive {
				continue
			}
			out = append(out, linkedPatientResponse{
				PatientUserID: g.PatientUserID,
				GrantID:       g.ID,
				Scopes:        g.Scopes,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

func toGrantResponse(g Grant, includeCode bool) grantResponse {
	resp := grantResponse{
		ID:              g.ID,
		PatientUserID:   g.PatientUserID,
		CaregiverUserID: g.CaregiverUserID,
		Scopes:          g.Scopes,
		Status:          g.Status,
		CreatedAt:       g.CreatedAt,
		UpdatedAt:       g.UpdatedAt,
		RevokedAt:       g.RevokedAt,
	}
	if includeCode && g.Status == StatusInvited {
		resp.AccessCode = g.AccessCode
	}
	return resp
}

// writeJSON duplicado a propósito por módulo (ver nota en medications).
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
