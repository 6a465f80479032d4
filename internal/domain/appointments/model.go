package appointments

import "time"

// Appointment es una cita médica del usuario. Date y Time usan los
// mismos formatos canónicos del resto del sistema (YYYY-MM-DD, HH:MM).
type Appointment struct {
	ID        string
	UserID    string
	Doctor    string
	Specialty string
	Date      string
	Time      string
	Location  string
	Phone     string
	Notes     string
	CreatedAt time.Time
}

// DaysUntil devuelve los días calendario hasta la cita, relativo a today.
// Negativo si la cita ya pasó.
func (a Appointment) DaysUntil(today string) (int, error) {
	d, err := time.Parse("2006-01-02", a.Date)
	if err != nil {
		return 0, err
	}
	t, err := time.Parse("2006-01-02", today)
	if err != nil {
		return 0, err
	}
	return int(d.Sub(t).Hours() / 24), nil
}
