package sideeffects

import "time"

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySevere   Severity = "severe"
)

func validSeverity(s Severity) bool {
	switch s {
	case SeverityMild, SeverityModerate, SeveritySevere:
		return true
	}
	return false
}

// Report es un efecto secundario reportado por el usuario. Medication
// es texto libre: el reporte sobrevive aunque el medicamento se borre.
type Report struct {
	ID          string
	UserID      string
	Medication  string
	Severity    Severity
	Kind        string
	Description string
	Date        string
	ReportedAt  time.Time
}
