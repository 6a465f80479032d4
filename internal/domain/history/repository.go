package history

import (
	"context"
	"time"
)

type Repository interface {
	// Append agrega al log. No existen Update/Delete a propósito.
	Append(ctx context.Context, e Entry) error
	ListByUser(ctx context.Context, userID string, filter ListFilter) ([]Entry, error)
}

type ListFilter struct {
	MedicationID string
	Actions      []Action
	From         *time.Time
	To           *time.Time
	Limit        int
}
