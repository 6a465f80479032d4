package sideeffects

import "context"

type Repository interface {
	Create(ctx context.Context, rep Report) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (Report, error)
	// ListByUser devuelve los reportes del usuario, más recientes primero.
	ListByUser(ctx context.Context, userID string) ([]Report, error)
}
