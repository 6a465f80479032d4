package history

import "time"

// Action es la acción auditada sobre una dosis.
type Action string

const (
	ActionTaken   Action = "taken"
	ActionUntaken Action = "untaken"
)

// Entry es un registro de auditoría de mutación de dosis.
// El log es append-only: nunca se actualiza ni se borra.
type Entry struct {
	ID           string
	UserID       string
	MedicationID string

	Action   Action
	DoseTime string // HH:MM agendado al que aplica la acción
	Date     string // YYYY-MM-DD de la toma

	RecordedAt time.Time
}
