package doses

import (
	"time"

	"med-adherence/internal/domain/medications"
)

// Expand deriva las ocurrencias de dosis de una medicación para una fecha.
// - Con schedule: una ocurrencia por horario, índice = posición.
// - Sin schedule: exactamente una ocurrencia con el PrimaryTime, índice 0.
// Taken es true solo si existe un TakenRecord con esa (fecha, hora): al
// avanzar la fecha ningún record matchea y todo vuelve a no-tomado.
func Expand(m medications.Medication, today string) []Occurrence {
	times := m.Schedule
	if len(times) == 0 {
		times = []string{m.PrimaryTime}
	}

	out := make([]Occurrence, 0, len(times))
	for i, t := range times {
		out = append(out, Occurrence{
			MedicationID:   m.ID,
			MedicationName: m.Name,
			Dosage:         m.Dosage,
			Time:           t,
			Index:          i,
			Taken:          m.TakenAt(today, t),
		})
	}
	return out
}

// Classify asigna estado a una ocurrencia contra el reloj actual.
// - Tomada gana siempre, sin mirar la hora.
// - Hora no parseable => upcoming (default seguro: nunca "missed" en falso).
// - Agendada estrictamente antes del minuto actual => missed.
// - El empate exacto al minuto es upcoming, para no marcar "missed" en el
//   mismo instante en que la dosis recién vence.
func Classify(o Occurrence, now time.Time) Status {
	if o.Taken {
		return StatusTaken
	}

	sched, err := medications.ParseClock(o.Time)
	if err != nil {
		return StatusUpcoming
	}

	if sched < now.Hour()*60+now.Minute() {
		return StatusMissed
	}
	return StatusUpcoming
}

// ClassifyAll expande el estado sobre cada ocurrencia, in place sobre la copia.
func ClassifyAll(occs []Occurrence, now time.Time) []Occurrence {
	for i := range occs {
		occs[i].Status = Classify(occs[i], now)
	}
	return occs
}
