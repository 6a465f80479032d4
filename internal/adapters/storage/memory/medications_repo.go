package memory

import (
	"context"
	"sync"

	"med-adherence/internal/domain/medications"
)

type MedicationsRepo struct {
	mu    sync.RWMutex
	byID  map[string]medications.Medication
	byUsr map[string][]string
}

func NewMedicationsRepo() *MedicationsRepo {
	return &MedicationsRepo{
		byID:  make(map[string]medications.Medication),
		byUsr: make(map[string][]string),
	}
}

func (r *MedicationsRepo) Create(_ context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[m.ID] = cloneMed(m)
	r.byUsr[m.UserID] = append(r.byUsr[m.UserID], m.ID)
	return nil
}

func (r *MedicationsRepo) Update(_ context.Context, m medications.Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[m.ID]; !ok {
		return ErrNotFound
	}
	r.byID[m.ID] = cloneMed(m)
	return nil
}

func (r *MedicationsRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byID, id)

	ids := r.byUsr[m.UserID]
	for i, v := range ids {
		if v == id {
			r.byUsr[m.UserID] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	return nil
}

func (r *MedicationsRepo) GetByID(_ context.Context, id string) (medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	m, ok := r.byID[id]
	if !ok {
		return medications.Medication{}, ErrNotFound
	}
	return cloneMed(m), nil
}

func (r *MedicationsRepo) ListByUser(_ context.Context, userID string) ([]medications.Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byUsr[userID]
	out := make([]medications.Medication, 0, len(ids))
	for _, id := range ids {
		if m, ok := r.byID[id]; ok {
			out = append(out, cloneMed(m))
		}
	}
	return out, nil
}

// SetDoseTaken hace el read-modify-write bajo el lock de escritura,
// así dos requests concurrentes sobre la misma dosis no se pisan.
func (r *MedicationsRepo) SetDoseTaken(_ context.Context, id string, rec medications.TakenRecord, taken bool) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, ok := r.byID[id]
	if !ok {
		return false, ErrNotFound
	}

	idx := -1
	for i, t := range m.TakenDoses {
		if t.Date == rec.Date && t.Time == rec.Time {
			idx = i
			break
		}
	}

	if taken {
		if idx >= 0 {
			return false, nil
		}
		m.TakenDoses = append(cloneTaken(m.TakenDoses), rec)
	} else {
		if idx < 0 {
			return false, nil
		}
		cp := cloneTaken(m.TakenDoses)
		m.TakenDoses = append(cp[:idx], cp[idx+1:]...)
	}

	r.byID[id] = m
	return true, nil
}

func cloneMed(m medications.Medication) medications.Medication {
	m.Schedule = append([]string(nil), m.Schedule...)
	m.TakenDoses = cloneTaken(m.TakenDoses)
	return m
}

func cloneTaken(ts []medications.TakenRecord) []medications.TakenRecord {
	return append([]medications.TakenRecord(nil), ts...)
}
