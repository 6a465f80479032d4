package medications

import "time"

// Frequency define las cadencias de dosificación soportadas.
// @Enum once-daily, twice-daily, three-times-daily, every-4-hours, every-6-hours, every-8-hours, every-12-hours, as-needed, weekly, monthly
type Frequency string

const (
	FreqOnceDaily       Frequency = "once-daily"
	FreqTwiceDaily      Frequency = "twice-daily"
	FreqThreeTimesDaily Frequency = "three-times-daily"
	FreqEvery4Hours     Frequency = "every-4-hours"
	FreqEvery6Hours     Frequency = "every-6-hours"
	FreqEvery8Hours     Frequency = "every-8-hours"
	FreqEvery12Hours    Frequency = "every-12-hours"
	FreqAsNeeded        Frequency = "as-needed"
	FreqWeekly          Frequency = "weekly"
	FreqMonthly         Frequency = "monthly"
)

// TakenRecord marca una toma concreta: la hora agendada HH:MM en una fecha.
// El "reset" diario es implícito: al avanzar la fecha ningún record matchea.
type TakenRecord struct {
	Date string // YYYY-MM-DD
	Time string // HH:MM
}

// Medication representa una prescripción del usuario.
type Medication struct {
	ID     string
	UserID string

	Name      string
	Dosage    string // texto libre: "500mg", "2 pastillas"
	Frequency Frequency

	PrimaryTime string   // HH:MM; fallback cuando Schedule está vacío
	Schedule    []string // HH:MM canónicos, únicos, en orden de toma

	// Invariante: cada TakenRecord.Time pertenece al schedule vigente
	// (o al PrimaryTime si no hay schedule).
	TakenDoses []TakenRecord

	Notes string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TakenAt responde si la dosis (date, clock) está marcada como tomada.
func (m Medication) TakenAt(date, clock string) bool {
	for _, t := range m.TakenDoses {
		if t.Date == date && t.Time == clock {
			return true
		}
	}
	return false
}
