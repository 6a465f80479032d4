package history

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
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

// Record agrega una entrada de auditoría por una acción de dosis.
// Firma con strings planos: es la interface Auditor que consume medications
// sin importar este paquete.
func (s *Service) Record(ctx context.Context, userID, medicationID, action, doseTime, date string) error {
	act := Action(strings.TrimSpace(action))
	if act != ActionTaken && act != ActionUntaken {
		return ErrInvalidInput
	}
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(medicationID) == "" {
		return ErrInvalidInput
	}

	return s.repo.Append(ctx, Entry{
		ID:           uuid.NewString(),
		UserID:       userID,
		MedicationID: medicationID,
		Action:       act,
		DoseTime:     doseTime,
		Date:         date,
		RecordedAt:   s.now(),
	})
}

func (s *Service) ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Entry, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByUser(ctx, userID, filter)
}
