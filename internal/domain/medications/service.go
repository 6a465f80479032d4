package medications

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrStaleDose: el índice de dosis ya no existe contra el schedule vigente
	// (p.ej. el schedule se editó después de renderizar la vista).
	ErrStaleDose = errors.New("stale dose reference")
)

// conflictWindowMinutes: dos medicaciones cuyas tomas principales caen a menos
// de 30 minutos se reportan como posible conflicto (warning, no error).
const conflictWindowMinutes = 30

// Auditor registra el historial append-only de acciones de dosis.
// Lo implementa history.Service; la interface local evita acoplar módulos.
type Auditor interface {
	Record(ctx context.Context, userID, medicationID, action, doseTime, date string) error
}

type Service struct {
	repo  Repository
	audit Auditor // puede ser nil (tests)
	now   func() time.Time
}

func NewService(repo Repository, audit Auditor) *Service {
	return &Service{
		repo:  repo,
		audit: audit,
		now:   time.Now,
	}
}

type CreateInput struct {
	Name        string
	Dosage      string
	Frequency   string
	PrimaryTime string
	Schedule    []string
	Notes       string
}

// Create registra una medicación. Si no viene schedule explícito se deriva
// de la frecuencia (DefaultSchedule). Devuelve además los nombres de
// medicaciones existentes cuya toma principal queda a <30min (warnings).
func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Medication, []string, error) {
	if strings.TrimSpace(userID) == "" {
		return Medication{}, nil, ErrInvalidInput
	}
	if strings.TrimSpace(in.Name) == "" {
		return Medication{}, nil, ErrInvalidInput
	}

	freq := Frequency(strings.TrimSpace(in.Frequency))

	schedule, err := normalizeSchedule(in.Schedule)
	if err != nil {
		return Medication{}, nil, err
	}
	if len(schedule) == 0 && freq != "" {
		schedule = DefaultSchedule(freq)
	}

	primary := strings.TrimSpace(in.PrimaryTime)
	if primary != "" {
		primary, err = NormalizeClock(primary)
		if err != nil {
			return Medication{}, nil, ErrInvalidInput
		}
	} else if len(schedule) > 0 {
		primary = schedule[0]
	} else {
		primary = "09:00"
	}

	now := s.now()
	m := Medication{
		ID:          uuid.NewString(),
		UserID:      userID,
		Name:        strings.TrimSpace(in.Name),
		Dosage:      strings.TrimSpace(in.Dosage),
		Frequency:   freq,
		PrimaryTime: primary,
		Schedule:    schedule,
		TakenDoses:  []TakenRecord{},
		Notes:       strings.TrimSpace(in.Notes),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	conflicts, _ := s.conflictsWith(ctx, userID, primary)

	if err := s.repo.Create(ctx, m); err != nil {
		return Medication{}, nil, err
	}
	return m, conflicts, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Medication, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	return s.repo.ListByUser(ctx, userID)
}

type UpdateInput struct {
	// Punteros para PATCH real: nil = no tocar.
	Name        *string
	Dosage      *string
	Frequency   *string
	PrimaryTime *string
	Schedule    *[]string
	Notes       *string
}

func (s *Service) Update(ctx context.Context, id, userID string, in UpdateInput) (Medication, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Medication{}, err
	}
	if m.UserID != userID {
		return Medication{}, ErrForbidden
	}

	if in.Name != nil {
		if strings.TrimSpace(*in.Name) == "" {
			return Medication{}, ErrInvalidInput
		}
		m.Name = strings.TrimSpace(*in.Name)
	}
	if in.Dosage != nil {
		m.Dosage = strings.TrimSpace(*in.Dosage)
	}
	if in.Frequency != nil {
		m.Frequency = Frequency(strings.TrimSpace(*in.Frequency))
	}
	if in.PrimaryTime != nil {
		norm, err := NormalizeClock(*in.PrimaryTime)
		if err != nil {
			return Medication{}, ErrInvalidInput
		}
		m.PrimaryTime = norm
	}
	if in.Schedule != nil {
		schedule, err := normalizeSchedule(*in.Schedule)
		if err != nil {
			return Medication{}, err
		}
		m.Schedule = schedule
		// Mantener el invariante: tomas registradas solo contra horarios vigentes.
		m.TakenDoses = pruneTaken(m.TakenDoses, m)
	}
	if in.Notes != nil {
		m.Notes = strings.TrimSpace(*in.Notes)
	}

	m.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, m); err != nil {
		return Medication{}, err
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id, userID string) error {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if m.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// DoseAction es el resultado de un mark/unmark.
// Changed=false significa no-op idempotente (igual se reporta éxito).
type DoseAction struct {
	Time    string
	Changed bool
}

// MarkTaken marca como tomada la dosis doseIndex para la fecha today.
// Idempotente: si ya estaba tomada es no-op. El índice se resuelve contra el
// schedule vigente; fuera de rango => ErrStaleDose.
func (s *Service) MarkTaken(ctx context.Context, userID, medID string, doseIndex int, today string) (DoseAction, error) {
	return s.setTaken(ctx, userID, medID, doseIndex, today, true)
}

// UnmarkTaken deshace una toma. Idempotente: sin registro previo es no-op.
func (s *Service) UnmarkTaken(ctx context.Context, userID, medID string, doseIndex int, today string) (DoseAction, error) {
	return s.setTaken(ctx, userID, medID, doseIndex, today, false)
}

func (s *Service) setTaken(ctx context.Context, userID, medID string, doseIndex int, today string, taken bool) (DoseAction, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(medID) == "" {
		return DoseAction{}, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", today); err != nil {
		return DoseAction{}, ErrInvalidInput
	}

	m, err := s.repo.GetByID(ctx, medID)
	if err != nil {
		return DoseAction{}, err
	}
	if m.UserID != userID {
		return DoseAction{}, ErrForbidden
	}

	doseTime, err := resolveDoseTime(m, doseIndex)
	if err != nil {
		return DoseAction{}, err
	}

	changed, err := s.repo.SetDoseTaken(ctx, medID, TakenRecord{Date: today, Time: doseTime}, taken)
	if err != nil {
		return DoseAction{}, err
	}

	if changed && s.audit != nil {
		action := "taken"
		if !taken {
			action = "untaken"
		}
		if err := s.audit.Record(ctx, userID, medID, action, doseTime, today); err != nil {
			return DoseAction{}, err
		}
	}

	return DoseAction{Time: doseTime, Changed: changed}, nil
}

// resolveDoseTime traduce un índice de dosis al HH:MM agendado.
// Sin schedule explícito solo existe la dosis 0 (PrimaryTime).
func resolveDoseTime(m Medication, doseIndex int) (string, error) {
	if len(m.Schedule) == 0 {
		if doseIndex != 0 {
			return "", ErrStaleDose
		}
		return m.PrimaryTime, nil
	}
	if doseIndex < 0 || doseIndex >= len(m.Schedule) {
		return "", ErrStaleDose
	}
	return m.Schedule[doseIndex], nil
}

func (s *Service) conflictsWith(ctx context.Context, userID, primary string) ([]string, error) {
	newMin, err := ParseClock(primary)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, m := range existing {
		min, err := ParseClock(m.PrimaryTime)
		if err != nil {
			continue
		}
		diff := newMin - min
		if diff < 0 {
			diff = -diff
		}
		if diff < conflictWindowMinutes {
			names = append(names, m.Name)
		}
	}
	return names, nil
}

func normalizeSchedule(times []string) ([]string, error) {
	out := make([]string, 0, len(times))
	seen := map[string]struct{}{}

	for _, t := range times {
		norm, err := NormalizeClock(t)
		if err != nil {
			return nil, ErrInvalidInput
		}
		// Horarios duplicados dentro de una medicación se rechazan.
		if _, dup := seen[norm]; dup {
			return nil, ErrInvalidInput
		}
		seen[norm] = struct{}{}
		out = append(out, norm)
	}
	return out, nil
}

func pruneTaken(taken []TakenRecord, m Medication) []TakenRecord {
	valid := map[string]struct{}{}
	for _, t := range m.Schedule {
		valid[t] = struct{}{}
	}
	if len(m.Schedule) == 0 {
		valid[m.PrimaryTime] = struct{}{}
	}

	out := make([]TakenRecord, 0, len(taken))
	for _, rec := range taken {
		if _, ok := valid[rec.Time]; ok {
			out = append(out, rec)
		}
	}
	return out
}
