package adherence

import "context"

type Repository interface {
	// Upsert pisa el record existente de (user, fecha) o lo crea.
	Upsert(ctx context.Context, rec Record) error
	GetByDate(ctx context.Context, userID, date string) (Record, error)
	// ListByUser devuelve records en [from, to] (bordes opcionales), fecha asc.
	ListByUser(ctx context.Context, userID, from, to string) ([]Record, error)
}
