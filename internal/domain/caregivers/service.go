package caregivers

import (
	"context"
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrBadState     = errors.New("invalid state")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

// CreateInvite genera una invitación con código de 6 dígitos para que un
// cuidador se vincule. Scopes vacíos => default útil (ver meds + adherencia).
func (s *Service) CreateInvite(ctx context.Context, patientUserID string, scopes []Scope) (Grant, error) {
	patientUserID = strings.TrimSpace(patientUserID)
	if patientUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	if len(scopes) == 0 {
		scopes = []Scope{ScopeMedsRead, ScopeAdherenceRead}
	} else {
		normalized, err := normalizeScopesStrict(scopes)
		if err != nil {
			return Grant{}, err
		}
		scopes = normalized
	}

	code, err := s.uniqueCode(ctx)
	if err != nil {
		return Grant{}, err
	}

	now := s.now()
	g := Grant{
		ID:            uuid.NewString(),
		PatientUserID: patientUserID,
		AccessCode:    code,
		Scopes:        scopes,
		Status:        StatusInvited,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// Claim reclama una invitación por código y activa el vínculo.
// Si el mismo cuidador ya tiene un grant no-revocado con el paciente,
// se revoca el viejo: queda exactamente un vínculo vigente por par.
func (s *Service) Claim(ctx context.Context, caregiverUserID, code string) (Grant, error) {
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	code = strings.TrimSpace(code)
	if caregiverUserID == "" || len(code) != 6 {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByCode(ctx, code)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.Status != StatusInvited {
		return Grant{}, ErrBadState
	}
	if g.PatientUserID == caregiverUserID {
		// Nadie se cuida a sí mismo vía código
		return Grant{}, ErrInvalidInput
	}

	now := s.now()
	_ = s.revokeExisting(ctx, g.PatientUserID, caregiverUserID, now)

	g.CaregiverUserID = caregiverUserID
	g.Status = StatusActive
	g.UpdatedAt = now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

// Revoke corta el acceso. Solo el paciente dueño del grant puede revocar.
func (s *Service) Revoke(ctx context.Context, grantID, patientUserID string) (Grant, error) {
	grantID = strings.TrimSpace(grantID)
	patientUserID = strings.TrimSpace(patientUserID)
	if grantID == "" || patientUserID == "" {
		return Grant{}, ErrInvalidInput
	}

	g, err := s.repo.GetByID(ctx, grantID)
	if err != nil {
		return Grant{}, ErrNotFound
	}
	if g.PatientUserID != patientUserID {
		return Grant{}, ErrForbidden
	}
	if g.Status == StatusRevoked {
		return g, nil
	}

	now := s.now()
	g.Status = StatusRevoked
	g.UpdatedAt = now
	g.RevokedAt = &now

	if err := s.repo.Update(ctx, g); err != nil {
		return Grant{}, err
	}
	return g, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientUserID string) ([]Grant, error) {
	return s.repo.ListByPatient(ctx, patientUserID)
}

func (s *Service) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]Grant, error) {
	return s.repo.ListByCaregiver(ctx, caregiverUserID)
}

// ActiveGrant devuelve el grant activo entre un paciente y un cuidador, si hay.
func (s *Service) ActiveGrant(ctx context.Context, patientUserID, caregiverUserID string) (Grant, error) {
	grants, err := s.repo.ListByCaregiver(ctx, caregiverUserID)
	if err != nil {
		return Grant{}, err
	}
	for _, g := range grants {
		if g.PatientUserID == patientUserID && g.Status == StatusActive {
			return g, nil
		}
	}
	return Grant{}, ErrNotFound
}

func (s *Service) revokeExisting(ctx context.Context, patientUserID, caregiverUserID string, now time.Time) error {
	grants, err := s.repo.ListByCaregiver(ctx, caregiverUserID)
	if err != nil {
		return err
	}
	for _, g := range grants {
		if g.PatientUserID != patientUserID || g.Status == StatusRevoked {
			continue
		}
		g.Status = StatusRevoked
		g.UpdatedAt = now
		revokedAt := now
		g.RevokedAt = &revokedAt
		if err := s.repo.Update(ctx, g); err != nil {
			return err
		}
	}
	return nil
}

// uniqueCode genera un código de 6 dígitos que no choque con invitaciones
// pendientes. Con pocos grants por usuario las colisiones son raras; igual
// reintentamos algunas veces antes de rendirnos.
func (s *Service) uniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < 5; i++ {
		code, err := newAccessCode()
		if err != nil {
			return "", err
		}
		if _, err := s.repo.GetByCode(ctx, code); err != nil {
			return code, nil
		}
	}
	return "", errors.New("could not allocate access code")
}

func newAccessCode() (string, error) {
	var b [6]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	digits := make([]byte, 6)
	for i, v := range b {
		digits[i] = '0' + v%10
	}
	return string(digits), nil
}

func normalizeScopesStrict(scopes []Scope) ([]Scope, error) {
	out := make([]Scope, 0, len(scopes))
	seen := map[Scope]struct{}{}

	for _, sc := range scopes {
		sc = Scope(strings.TrimSpace(string(sc)))
		if !validScope(sc) {
			return nil, ErrInvalidInput
		}
		if _, dup := seen[sc]; dup {
			continue
		}
		seen[sc] = struct{}{}
		out = append(out, sc)
	}

	if len(out) == 0 {
		return nil, ErrInvalidInput
	}
	return out, nil
}
