package sideeffects

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
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

type CreateInput struct {
	Medication  string
	Severity    Severity
	Kind        string
	Description string
	Date        string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Report, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(in.Medication) == "" || strings.TrimSpace(in.Kind) == "" {
		return Report{}, ErrInvalidInput
	}
	if !validSeverity(in.Severity) {
		return Report{}, ErrInvalidInput
	}
	date := in.Date
	if date == "" {
		date = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", date); err != nil {
		return Report{}, ErrInvalidInput
	}

	rep := Report{
		ID:          uuid.NewString(),
		UserID:      userID,
		Medication:  strings.TrimSpace(in.Medication),
		Severity:    in.Severity,
		Kind:        strings.TrimSpace(in.Kind),
		Description: strings.TrimSpace(in.Description),
		Date:        date,
		ReportedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return Report{}, err
	}
	return rep, nil
}

func (s *Service) ListByUser(ctx context.Context, userID string) ([]Report, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	rep, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if rep.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Summary cuenta reportes por severidad y por medicamento.
type Summary struct {
	Total        int
	BySeverity   map[Severity]int
	ByMedication map[string]int
}

func (s *Service) Summary(ctx context.Context, userID string) (Summary, error) {
	reps, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return Summary{}, err
	}

	sum := Summary{
		Total:        len(reps),
		BySeverity:   make(map[Severity]int),
		ByMedication: make(map[string]int),
	}
	for _, rep := range reps {
		sum.BySeverity[rep.Severity]++
		sum.ByMedication[rep.Medication]++
	}
	return sum, nil
}
