package caregivers

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
	byID map[string]Grant
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Grant{}}
}

func (r *testRepo) Create(ctx context.Context, g Grant) error {
	if g.ID == "" {
		return errors.New("repo: id required")
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) Update(ctx context.Context, g Grant) error {
	if _, ok := r.byID[g.ID]; !ok {
		return errRepoNotFound
	}
	r.byID[g.ID] = g
	return nil
}

func (r *testRepo) GetByID(ctx context.Context, id string) (Grant, error) {
	g, ok := r.byID[id]
	if !ok {
		return Grant{}, errRepoNotFound
	}
	return g, nil
}

func (r *testRepo) GetByCode(ctx context.Context, code string) (Grant, error) {
	for _, g := range r.byID {
		if g.AccessCode == code && g.Status == StatusInvited {
			return g, nil
		}
	}
	return Grant{}, errRepoNotFound
}

func (r *testRepo) ListByPatient(ctx context.Context, patientUserID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.PatientUserID == patientUserID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (r *testRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]Grant, error) {
	out := make([]Grant, 0)
	for _, g := range r.byID {
		if g.CaregiverUserID == caregiverUserID {
			out = append(out, g)
		}
	}
	return out, nil
}

// -------------------------
// Tests
// -------------------------

func TestInvite_GeneratesSixDigitCode(t *testing.T) {
	svc := NewService(newTestRepo())

	g, err := svc.CreateInvite(context.Background(), "patient-1", nil)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	if len(g.AccessCode) != 6 {
		t.Fatalf("code = %q, want 6 dígitos", g.AccessCode)
	}
	for _, c := range g.AccessCode {
		if c < '0' || c > '9' {
			t.Fatalf("code = %q contiene no-dígitos", g.AccessCode)
		}
	}
	if g.Status != StatusInvited {
		t.Fatalf("status = %q, want invited", g.Status)
	}

	// scopes default
	if !HasScope(g, ScopeMedsRead) || !HasScope(g, ScopeAdherenceRead) {
		t.Fatalf("scopes default faltantes: %v", g.Scopes)
	}
	if HasScope(g, ScopeHistoryRead) {
		t.Fatalf("history:read no debería venir por default")
	}
}

func TestInvite_RejectsUnknownScope(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.CreateInvite(context.Background(), "patient-1", []Scope{ScopeMedsRead, Scope("meds:write")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown scope, got %v", err)
	}
}

func TestClaim_ActivatesGrant(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	g, err := svc.CreateInvite(ctx, "patient-1", nil)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	claimed, err := svc.Claim(ctx, "caregiver-1", g.AccessCode)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if claimed.Status != StatusActive || claimed.CaregiverUserID != "caregiver-1" {
		t.Fatalf("claimed = %+v, want active para caregiver-1", claimed)
	}

	// El código ya no es canjeable.
	if _, err := svc.Claim(ctx, "caregiver-2", g.AccessCode); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound reusing code, got %v", err)
	}

	got, err := svc.ActiveGrant(ctx, "patient-1", "caregiver-1")
	if err != nil {
		t.Fatalf("ActiveGrant: %v", err)
	}
	if got.ID != claimed.ID {
		t.Fatalf("ActiveGrant devolvió otro grant")
	}
}

func TestClaim_SelfClaimRejected(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	g, err := svc.CreateInvite(ctx, "patient-1", nil)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}

	if _, err := svc.Claim(ctx, "patient-1", g.AccessCode); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for self-claim, got %v", err)
	}
}

func TestClaim_DedupesExistingLink(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	g1, err := svc.CreateInvite(ctx, "patient-1", nil)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	first, err := svc.Claim(ctx, "caregiver-1", g1.AccessCode)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}

	// Segunda invitación al mismo cuidador: el vínculo viejo se revoca.
	g2, err := svc.CreateInvite(ctx, "patient-1", []Scope{ScopeMedsRead, ScopeHistoryRead})
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	second, err := svc.Claim(ctx, "caregiver-1", g2.AccessCode)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}

	if old, err := svc.repo.GetByID(ctx, first.ID); err != nil || old.Status != StatusRevoked {
		t.Fatalf("grant viejo = %+v err=%v, want revoked", old, err)
	}

	active, err := svc.ActiveGrant(ctx, "patient-1", "caregiver-1")
	if err != nil {
		t.Fatalf("ActiveGrant: %v", err)
	}
	if active.ID != second.ID {
		t.Fatalf("queda más de un vínculo vigente por par")
	}
}

func TestRevoke_PatientOnlyAndIdempotent(t *testing.T) {
	svc := NewService(newTestRepo())
	ctx := context.Background()

	g, err := svc.CreateInvite(ctx, "patient-1", nil)
	if err != nil {
		t.Fatalf("CreateInvite: %v", err)
	}
	claimed, err := svc.Claim(ctx, "caregiver-1", g.AccessCode)
	if err != nil {
		t.Fatalf("Claim: %v", err)
	}

	if _, err := svc.Revoke(ctx, claimed.ID, "caregiver-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-patient revoke, got %v", err)
	}

	revoked, err := svc.Revoke(ctx, claimed.ID, "patient-1")
	if err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if revoked.Status != StatusRevoked || revoked.RevokedAt == nil {
		t.Fatalf("revoked = %+v, want status revoked + timestamp", revoked)
	}

	// Revocar dos veces no falla.
	if _, err := svc.Revoke(ctx, claimed.ID, "patient-1"); err != nil {
		t.Fatalf("Revoke idempotente: %v", err)
	}

	if _, err := svc.ActiveGrant(ctx, "patient-1", "caregiver-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after revoke, got %v", err)
	}
}
