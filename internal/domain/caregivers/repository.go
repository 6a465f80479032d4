package caregivers

import "context"

type Repository interface {
	Create(ctx context.Context, g Grant) error
	Update(ctx context.Context, g Grant) error
	GetByID(ctx context.Context, id string) (Grant, error)
	// GetByCode busca por código de acceso entre invitaciones pendientes.
	GetByCode(ctx context.Context, code string) (Grant, error)
	ListByPatient(ctx context.Context, patientUserID string) ([]Grant, error)
	ListByCaregiver(ctx context.Context, caregiverUserID string) ([]Grant, error)
}
