package memory

import (
	"context"
	"sort"
	"sync"

	"med-adherence/internal/domain/history"
)

type HistoryRepo struct {
	mu      sync.RWMutex
	entries map[string][]history.Entry // por userID, en orden de llegada
}

func NewHistoryRepo() *HistoryRepo {
	return &HistoryRepo{entries: make(map[string][]history.Entry)}
}

func (r *HistoryRepo) Append(_ context.Context, e history.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries[e.UserID] = append(r.entries[e.UserID], e)
	return nil
}

func (r *HistoryRepo) ListByUser(_ context.Context, userID string, filter history.ListFilter) ([]history.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]history.Entry, 0)
	for _, e := range r.entries[userID] {
		if filter.MedicationID != "" && e.MedicationID != filter.MedicationID {
			continue
		}
		if len(filter.Actions) > 0 && !containsAction(filter.Actions, e.Action) {
			continue
		}
		if filter.From != nil && e.RecordedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.RecordedAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
	}

	// Más recientes primero.
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func containsAction(actions []history.Action, a history.Action) bool {
	for _, v := range actions {
		if v == a {
			return true
		}
	}
	return false
}
