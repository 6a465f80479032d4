package medications

import (
	"context"
	"errors"
	"testing"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

var errRepoNotFound = errors.New("repo: not found")

type testRepo struct {
	byID map[string]Medication
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Medication{}}
}

func (r *testRepo) Create(ctx context.Context, m Medication) error {
	if m.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Update(ctx context.Context, m Medication) error {
	if _, ok := r.byID[m.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[m.ID] = m
	return nil
}

func (r *testRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return errRepoNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Medication, error) {
	m, ok := r.byID[id]
	if !ok {
		return Medication{}, errRepoNotFound
	}
	return m, nil
}

func (r *testRepo) ListByUser(ctx context.Context, userID string) ([]Medication, error) {
	out := make([]Medication, 0)
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *testRepo) SetDoseTaken(ctx context.Context, id string, rec TakenRecord, taken bool) (bool, error) {
	m, ok := r.byID[id]
	if !ok {
		return false, errRepoNotFound
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
		m.TakenDoses = append(m.TakenDoses, rec)
	} else {
		if idx < 0 {
			return false, nil
		}
		m.TakenDoses = append(m.TakenDoses[:idx], m.TakenDoses[idx+1:]...)
	}
	r.byID[id] = m
	return true, nil
}

type testAuditor struct {
	entries []string
}

func (a *testAuditor) Record(ctx context.Context, userID, medicationID, action, doseTime, date string) error {
	a.entries = append(a.entries, action+" "+doseTime+" "+date)
	return nil
}

// -------------------------
// Tests
// -------------------------

func TestCreate_DerivesScheduleFromFrequency(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	m, _, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:      "Metformin",
		Dosage:    "500mg",
		Frequency: "twice-daily",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(m.Schedule) != 2 || m.Schedule[0] != "08:00" || m.Schedule[1] != "20:00" {
		t.Fatalf("schedule = %v, want [08:00 20:00]", m.Schedule)
	}
	if m.PrimaryTime != "08:00" {
		t.Fatalf("primary = %q, want 08:00 (primer horario del schedule)", m.PrimaryTime)
	}
}

func TestCreate_NormalizesExplicitSchedule(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	m, _, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Aspirin",
		Schedule: []string{"8:0", "20:30"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if m.Schedule[0] != "08:00" || m.Schedule[1] != "20:30" {
		t.Fatalf("schedule = %v, want normalizado [08:00 20:30]", m.Schedule)
	}
}

func TestCreate_RejectsDuplicateTimes(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	_, _, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Aspirin",
		Schedule: []string{"08:00", "8:00"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicated times, got %v", err)
	}
}

func TestCreate_RejectsBadClock(t *testing.T) {
	svc := NewService(newTestRepo(), nil)

	_, _, err := svc.Create(context.Background(), "user-1", CreateInput{
		Name:     "Aspirin",
		Schedule: []string{"25:00"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad clock, got %v", err)
	}
}

func TestCreate_ReportsConflictWarnings(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	if _, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Aspirin", PrimaryTime: "08:00"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// a 20 minutos => warning
	_, conflicts, err := svc.Create(ctx, "user-1", CreateInput{Name: "Ibuprofen", PrimaryTime: "08:20"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(conflicts) != 1 || conflicts[0] != "Aspirin" {
		t.Fatalf("conflicts = %v, want [Aspirin]", conflicts)
	}

	// 09:00 queda a 40min y 60min de las existentes => sin warning
	_, conflicts, err = svc.Create(ctx, "user-1", CreateInput{Name: "Vitamin D", PrimaryTime: "09:00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(conflicts) != 0 {
		t.Fatalf("conflicts = %v, want vacío", conflicts)
	}
}

func TestMarkTaken_IsIdempotent(t *testing.T) {
	repo := newTestRepo()
	audit := &testAuditor{}
	svc := NewService(repo, audit)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin", Frequency: "twice-daily"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.MarkTaken(ctx, "user-1", m.ID, 0, "2026-09-01")
	if err != nil {
		t.Fatalf("MarkTaken: %v", err)
	}
	if !res.Changed || res.Time != "08:00" {
		t.Fatalf("primer mark: %+v, want Changed=true Time=08:00", res)
	}

	// segunda vez: no-op, sin entrada de historial extra
	res, err = svc.MarkTaken(ctx, "user-1", m.ID, 0, "2026-09-01")
	if err != nil {
		t.Fatalf("MarkTaken (repetido): %v", err)
	}
	if res.Changed {
		t.Fatalf("mark repetido debería ser no-op")
	}
	if len(audit.entries) != 1 {
		t.Fatalf("audit entries = %d, want 1", len(audit.entries))
	}
}

func TestUnmarkTaken_NoopWithoutRecord(t *testing.T) {
	repo := newTestRepo()
	audit := &testAuditor{}
	svc := NewService(repo, audit)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin", Frequency: "once-daily"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.UnmarkTaken(ctx, "user-1", m.ID, 0, "2026-09-01")
	if err != nil {
		t.Fatalf("UnmarkTaken: %v", err)
	}
	if res.Changed {
		t.Fatalf("unmark sin registro previo debería ser no-op")
	}
	if len(audit.entries) != 0 {
		t.Fatalf("no-op no debería auditar, got %v", audit.entries)
	}
}

func TestMarkTaken_StaleIndex(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin", Frequency: "twice-daily"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, 5, "2026-09-01"); !errors.Is(err, ErrStaleDose) {
		t.Fatalf("expected ErrStaleDose for index 5, got %v", err)
	}
	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, -1, "2026-09-01"); !errors.Is(err, ErrStaleDose) {
		t.Fatalf("expected ErrStaleDose for index -1, got %v", err)
	}
}

func TestMarkTaken_OwnershipAndDate(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin", Frequency: "once-daily"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.MarkTaken(ctx, "user-2", m.ID, 0, "2026-09-01"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for other user, got %v", err)
	}
	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, 0, "01/09/2026"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for bad date, got %v", err)
	}
}

func TestUpdate_ScheduleChangePrunesTaken(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin", Frequency: "twice-daily"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, 0, "2026-09-01"); err != nil { // 08:00
		t.Fatalf("MarkTaken: %v", err)
	}
	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, 1, "2026-09-01"); err != nil { // 20:00
		t.Fatalf("MarkTaken: %v", err)
	}

	// Cambiar el schedule: 20:00 sobrevive, 08:00 cae.
	newSched := []string{"20:00", "23:00"}
	updated, err := svc.Update(ctx, m.ID, "user-1", UpdateInput{Schedule: &newSched})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if len(updated.TakenDoses) != 1 || updated.TakenDoses[0].Time != "20:00" {
		t.Fatalf("taken tras prune = %v, want solo 20:00", updated.TakenDoses)
	}
}

func TestUpdate_OtherUserForbidden(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Metformin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	name := "Hacked"
	if _, err := svc.Update(ctx, m.ID, "user-2", UpdateInput{Name: &name}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := svc.Delete(ctx, m.ID, "user-2"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}
}

func TestMarkTaken_EmptyScheduleUsesPrimary(t *testing.T) {
	svc := NewService(newTestRepo(), nil)
	ctx := context.Background()

	// Sin frecuencia ni schedule: solo existe la dosis 0 (PrimaryTime).
	m, _, err := svc.Create(ctx, "user-1", CreateInput{Name: "Rescue", PrimaryTime: "10:00"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	res, err := svc.MarkTaken(ctx, "user-1", m.ID, 0, "2026-09-01")
	if err != nil {
		t.Fatalf("MarkTaken: %v", err)
	}
	if res.Time != "10:00" {
		t.Fatalf("dose time = %q, want 10:00", res.Time)
	}

	if _, err := svc.MarkTaken(ctx, "user-1", m.ID, 1, "2026-09-01"); !errors.Is(err, ErrStaleDose) {
		t.Fatalf("expected ErrStaleDose for index 1 sin schedule, got %v", err)
	}
}
