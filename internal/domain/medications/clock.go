package medications

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrBadClock = errors.New("invalid clock value")

// ParseClock parsea un HH:MM de 24h a minutos desde medianoche.
// Acepta "8:5" pero no strings vacíos ni horas fuera de rango.
func ParseClock(s string) (int, error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, ErrBadClock
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, ErrBadClock
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, ErrBadClock
	}

	return h*60 + m, nil
}

// NormalizeClock deja un tiempo en formato canónico HH:MM ("8:5" => "08:05").
func NormalizeClock(s string) (string, error) {
	min, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%02d:%02d", min/60, min%60), nil
}
