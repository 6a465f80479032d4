package doses

// Status clasifica una ocurrencia de dosis contra el reloj actual.
// @Enum taken, missed, upcoming
type Status string

const (
	StatusTaken    Status = "taken"
	StatusMissed   Status = "missed"
	StatusUpcoming Status = "upcoming"
)

// Occurrence es un evento de toma esperado: una medicación a una hora de hoy.
// Es una vista derivada en lectura; nunca se persiste.
type Occurrence struct {
	MedicationID   string
	MedicationName string
	Dosage         string

	Time  string // HH:MM agendado
	Index int    // posición dentro del schedule, 0-based, estable entre expansiones

	Taken  bool
	Status Status
}
