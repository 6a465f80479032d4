package memory

import (
	"context"
	"sort"
	"sync"

	"med-adherence/internal/domain/sideeffects"
)

type SideEffectsRepo struct {
	mu   sync.RWMutex
	byID map[string]sideeffects.Report
}

func NewSideEffectsRepo() *SideEffectsRepo {
	return &SideEffectsRepo{byID: make(map[string]sideeffects.Report)}
}

func (r *SideEffectsRepo) Create(_ context.Context, rep sideeffects.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[rep.ID] = rep
	return nil
}

func (r *SideEffectsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *SideEffectsRepo) GetByID(_ context.Context, id string) (sideeffects.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rep, ok := r.byID[id]
	if !ok {
		return sideeffects.Report{}, ErrNotFound
	}
	return rep, nil
}

func (r *SideEffectsRepo) ListByUser(_ context.Context, userID string) ([]sideeffects.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]sideeffects.Report, 0)
	for _, rep := range r.byID {
		if rep.UserID == userID {
			out = append(out, rep)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ReportedAt.After(out[j].ReportedAt) })
	return out, nil
}
