package memory

import (
	"context"
	"sort"
	"sync"

	"med-adherence/internal/domain/caregivers"
)

type CaregiversRepo struct {
	mu   sync.RWMutex
	byID map[string]caregivers.Grant
}

func NewCaregiversRepo() *CaregiversRepo {
	return &CaregiversRepo{byID: make(map[string]caregivers.Grant)}
}

func (r *CaregiversRepo) Create(_ context.Context, g caregivers.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[g.ID] = cloneGrant(g)
	return nil
}

func (r *CaregiversRepo) Update(_ context.Context, g caregivers.Grant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[g.ID]; !ok {
		return ErrNotFound
	}
	r.byID[g.ID] = cloneGrant(g)
	return nil
}

func (r *CaregiversRepo) GetByID(_ context.Context, id string) (caregivers.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.byID[id]
	if !ok {
		return caregivers.Grant{}, ErrNotFound
	}
	return cloneGrant(g), nil
}

// GetByCode solo considera invitaciones pendientes: un código de un
// grant activo o revocado ya no es canjeable.
func (r *CaregiversRepo) GetByCode(_ context.Context, code string) (caregivers.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, g := range r.byID {
		if g.AccessCode == code && g.Status == caregivers.StatusInvited {
			return cloneGrant(g), nil
		}
	}
	return caregivers.Grant{}, ErrNotFound
}

func (r *CaregiversRepo) ListByPatient(_ context.Context, patientUserID string) ([]caregivers.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]caregivers.Grant, 0)
	for _, g := range r.byID {
		if g.PatientUserID == patientUserID {
			out = append(out, cloneGrant(g))
		}
	}
	sortGrants(out)
	return out, nil
}

func (r *CaregiversRepo) ListByCaregiver(_ context.Context, caregiverUserID string) ([]caregivers.Grant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]caregivers.Grant, 0)
	for _, g := range r.byID {
		if g.CaregiverUserID == caregiverUserID {
			out = append(out, cloneGrant(g))
		}
	}
	sortGrants(out)
	return out, nil
}

func sortGrants(gs []caregivers.Grant) {
	sort.Slice(gs, func(i, j int) bool { return gs[i].CreatedAt.Before(gs[j].CreatedAt) })
}

func cloneGrant(g caregivers.Grant) caregivers.Grant {
	g.Scopes = append([]caregivers.Scope(nil), g.Scopes...)
	if g.RevokedAt != nil {
		t := *g.RevokedAt
		g.RevokedAt = &t
	}
	return g
}
