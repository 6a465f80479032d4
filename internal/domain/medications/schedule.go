package medications

// defaultSchedules mapea cada frecuencia a sus anclas HH:MM por defecto.
// El orden es el orden de toma y se preserva tal cual.
var defaultSchedules = map[Frequency][]string{
	FreqOnceDaily:       {"09:00"},
	FreqTwiceDaily:      {"08:00", "20:00"},
	FreqThreeTimesDaily: {"08:00", "13:00", "20:00"},
	FreqEvery4Hours:     {"08:00", "12:00", "16:00", "20:00"},
	FreqEvery6Hours:     {"06:00", "12:00", "18:00", "00:00"},
	FreqEvery8Hours:     {"08:00", "16:00", "00:00"},
	FreqEvery12Hours:    {"08:00", "20:00"},
	FreqAsNeeded:        {"09:00"},
	FreqWeekly:          {"09:00"},
	FreqMonthly:         {"09:00"},
}

// DefaultSchedule devuelve los horarios por defecto para una frecuencia.
// Frecuencias desconocidas caen a una sola toma a las 09:00.
// Se usa solo cuando el usuario acepta los defaults en vez de cargar horarios.
func DefaultSchedule(f Frequency) []string {
	times, ok := defaultSchedules[f]
	if !ok {
		return []string{"09:00"}
	}

	out := make([]string, len(times))
	copy(out, times)
	return out
}
