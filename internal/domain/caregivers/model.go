package caregivers

import "time"

// Scope limita qué puede leer un cuidador sobre un paciente vinculado.
type Scope string

const (
	ScopeMedsRead      Scope = "meds:read"
	ScopeAdherenceRead Scope = "adherence:read"
	ScopeHistoryRead   Scope = "history:read"
)

// Status del vínculo paciente-cuidador.
// @Enum invited, active, revoked
type Status string

const (
	StatusInvited Status = "invited"
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
)

// Grant vincula a un cuidador con un paciente.
// El paciente genera una invitación con código de acceso de 6 dígitos;
// el cuidador la reclama con ese código y el grant pasa a active.
type Grant struct {
	ID            string
	PatientUserID string

	// Vacío hasta que alguien reclama el código.
	CaregiverUserID string

	AccessCode string // 6 dígitos; solo útil mientras status=invited
	Scopes     []Scope
	Status     Status

	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// HasScope responde si el grant incluye un scope puntual.
func HasScope(g Grant, s Scope) bool {
	for _, have := range g.Scopes {
		if have == s {
			return true
		}
	}
	return false
}

func validScope(s Scope) bool {
	switch s {
	case ScopeMedsRead, ScopeAdherenceRead, ScopeHistoryRead:
		return true
	default:
		return false
	}
}
