package medications

import "context"

type Repository interface {
	Create(ctx context.Context, m Medication) error
	Update(ctx context.Context, m Medication) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Medication, error)
	ListByUser(ctx context.Context, userID string) ([]Medication, error)

	// SetDoseTaken aplica el cambio de estado de una toma como
	// read-modify-write atómico (tx/lock en el adapter), para que dos toggles
	// rápidos sobre la misma dosis resuelvan a un estado final determinista.
	// Devuelve false si ya estaba en el estado pedido (no-op idempotente).
	SetDoseTaken(ctx context.Context, id string, rec TakenRecord, taken bool) (bool, error)
}
