package adherence

import (
	"context"
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// Snapshot guarda (upsert) el porcentaje de adherencia calculado para un día.
// El cálculo en sí vive en doses.Adherence; acá solo persistimos el resultado.
func (s *Service) Snapshot(ctx context.Context, userID, date string, percent float64) (Record, error) {
	if strings.TrimSpace(userID) == "" {
		return Record{}, ErrInvalidInput
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return Record{}, ErrInvalidInput
	}
	if percent < 0 || percent > 100 {
		return Record{}, ErrInvalidInput
	}

	rec := Record{
		UserID:    userID,
		Date:      date,
		Percent:   percent,
		UpdatedAt: s.now(),
	}
	if err := s.repo.Upsert(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

func (s *Service) GetByDate(ctx context.Context, userID, date string) (Record, error) {
	return s.repo.GetByDate(ctx, userID, date)
}

func (s *Service) History(ctx context.Context, userID, from, to string) ([]Record, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d); err != nil {
			return nil, ErrInvalidInput
		}
	}
	return s.repo.ListByUser(ctx, userID, from, to)
}
