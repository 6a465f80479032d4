package memory

import (
	"context"
	"sort"
	"sync"

	"med-adherence/internal/domain/adherence"
)

type AdherenceRepo struct {
	mu   sync.RWMutex
	recs map[string]adherence.Record // clave: userID + "|" + date
}

func NewAdherenceRepo() *AdherenceRepo {
	return &AdherenceRepo{recs: make(map[string]adherence.Record)}
}

func (r *AdherenceRepo) Upsert(_ context.Context, rec adherence.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.recs[rec.UserID+"|"+rec.Date] = rec
	return nil
}

func (r *AdherenceRepo) GetByDate(_ context.Context, userID, date string) (adherence.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.recs[userID+"|"+date]
	if !ok {
		return adherence.Record{}, ErrNotFound
	}
	return rec, nil
}

func (r *AdherenceRepo) ListByUser(_ context.Context, userID, from, to string) ([]adherence.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]adherence.Record, 0)
	for _, rec := range r.recs {
		if rec.UserID != userID {
			continue
		}
		if from != "" && rec.Date < from {
			continue
		}
		if to != "" && rec.Date > to {
			continue
		}
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}
