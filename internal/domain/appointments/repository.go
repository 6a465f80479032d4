package appointments

import "context"

type Repository interface {
	Create(ctx context.Context, a Appointment) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Appointment, error)
	// ListByUser devuelve todas las citas del usuario sin orden garantizado.
	ListByUser(ctx context.Context, userID string) ([]Appointment, error)
}
