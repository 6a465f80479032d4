package appointments

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"med-adherence/internal/domain/medications"

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
	Doctor    string
	Specialty string
	Date      string
	Time      string
	Location  string
	Phone     string
	Notes     string
}

func (s *Service) Create(ctx context.Context, userID string, in CreateInput) (Appointment, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(in.Doctor) == "" {
		return Appointment{}, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", in.Date); err != nil {
		return Appointment{}, ErrInvalidInput
	}
	clock, err := medications.NormalizeClock(in.Time)
	if err != nil {
		return Appointment{}, ErrInvalidInput
	}

	a := Appointment{
		ID:        uuid.NewString(),
		UserID:    userID,
		Doctor:    strings.TrimSpace(in.Doctor),
		Specialty: strings.TrimSpace(in.Specialty),
		Date:      in.Date,
		Time:      clock,
		Location:  strings.TrimSpace(in.Location),
		Phone:     strings.TrimSpace(in.Phone),
		Notes:     strings.TrimSpace(in.Notes),
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return Appointment{}, err
	}
	return a, nil
}

// ListByUser devuelve las citas ordenadas por fecha y hora ascendente.
// Con upcomingOnly se filtran las anteriores a hoy.
func (s *Service) ListByUser(ctx context.Context, userID string, upcomingOnly bool) ([]Appointment, error) {
	all, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := all
	if upcomingOnly {
		today := s.now().Format("2006-01-02")
		out = out[:0]
		for _, a := range all {
			if a.Date >= today {
				out = append(out, a)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if a.UserID != userID {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}
