package adherence

import "time"

// Record es el snapshot de adherencia de un día: un row por (user, fecha).
// Updates posteriores del mismo día pisan el valor (upsert), nunca duplican.
type Record struct {
	UserID  string
	Date    string // YYYY-MM-DD
	Percent float64

	UpdatedAt time.Time
}
