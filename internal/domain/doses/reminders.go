package doses

import (
	"sort"
	"time"

	"med-adherence/internal/domain/medications"
)

// Windows define las ventanas de aviso, en minutos. Son política configurable,
// no literales: el valor canónico de advance es (0,30].
type Windows struct {
	Advance int // aviso anticipado: 0 < delta <= Advance
	DueNow  int // "tomar ahora": |delta| <= DueNow, simétrico
}

func DefaultWindows() Windows {
	return Windows{Advance: 30, DueNow: 5}
}

// Reminders agrupa las ocurrencias que ameritan aviso, ordenadas por hora.
type Reminders struct {
	Advance []Occurrence
	DueNow  []Occurrence
}

// Evaluate decide qué ocurrencias no tomadas generan aviso contra el reloj
// actual. Sin estado entre llamadas: mismos inputs, mismo output; la
// supresión de "ya notificado", si se quiere, es del caller.
// Una dosis dentro de la ventana due-now no aparece además en advance.
func Evaluate(occs []Occurrence, now time.Time, w Windows) Reminders {
	nowMin := now.Hour()*60 + now.Minute()

	out := Reminders{
		Advance: []Occurrence{},
		DueNow:  []Occurrence{},
	}

	for _, o := range occs {
		if o.Taken {
			continue
		}

		sched, err := medications.ParseClock(o.Time)
		if err != nil {
			continue
		}

		delta := sched - nowMin
		abs := delta
		if abs < 0 {
			abs = -abs
		}

		switch {
		case abs <= w.DueNow:
			out.DueNow = append(out.DueNow, o)
		case delta > 0 && delta <= w.Advance:
			out.Advance = append(out.Advance, o)
		}
	}

	sortByTime(out.Advance)
	sortByTime(out.DueNow)
	return out
}

func sortByTime(occs []Occurrence) {
	// HH:MM canónico ordena bien lexicográficamente
	sort.Slice(occs, func(i, j int) bool {
		return occs[i].Time < occs[j].Time
	})
}
