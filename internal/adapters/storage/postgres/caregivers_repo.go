package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"med-adherence/internal/domain/caregivers"
)

type CaregiversRepo struct {
	db *sql.DB
}

func NewCaregiversRepo(db *sql.DB) *CaregiversRepo {
	return &CaregiversRepo{db: db}
}

func (r *CaregiversRepo) Create(ctx context.Context, g caregivers.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO caregiver_grants (
			id, patient_user_id, caregiver_user_id,
			access_code, scopes, status,
			created_at, updated_at, revoked_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
	`,
		g.ID,
		g.PatientUserID,
		g.CaregiverUserID,
		g.AccessCode,
		scopesToTextArray(g.Scopes),
		string(g.Status),
		g.CreatedAt,
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	return err
}

func (r *CaregiversRepo) Update(ctx context.Context, g caregivers.Grant) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE caregiver_grants
		SET
			caregiver_user_id = $2,
			scopes = $3,
			status = $4,
			updated_at = $5,
			revoked_at = $6
		WHERE id = $1
	`,
		g.ID,
		g.CaregiverUserID,
		scopesToTextArray(g.Scopes),
		string(g.Status),
		g.UpdatedAt,
		toNullTime(g.RevokedAt),
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CaregiversRepo) GetByID(ctx context.Context, id string) (caregivers.Grant, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return caregivers.Grant{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, grantSelect+` WHERE id = $1`, id)
	return scanGrant(row)
}

// GetByCode solo considera invitaciones pendientes: un código de un
// grant activo o revocado ya no es canjeable.
func (r *CaregiversRepo) GetByCode(ctx context.Context, code string) (caregivers.Grant, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return caregivers.Grant{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, grantSelect+`
		WHERE access_code = $1 AND status = 'invited'
		ORDER BY created_at DESC
		LIMIT 1
	`, code)
	return scanGrant(row)
}

func (r *CaregiversRepo) ListByPatient(ctx context.Context, patientUserID string) ([]caregivers.Grant, error) {
	patientUserID = strings.TrimSpace(patientUserID)
	if patientUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, grantSelect+`
		WHERE patient_user_id = $1
		ORDER BY created_at ASC
	`, patientUserID)
	if err != nil {
		return nil, err
	}
	return scanGrants(rows)
}

func (r *CaregiversRepo) ListByCaregiver(ctx context.Context, caregiverUserID string) ([]caregivers.Grant, error) {
	caregiverUserID = strings.TrimSpace(caregiverUserID)
	if caregiverUserID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, grantSelect+`
		WHERE caregiver_user_id = $1
		ORDER BY created_at ASC
	`, caregiverUserID)
	if err != nil {
		return nil, err
	}
	return scanGrants(rows)
}

const grantSelect = `
	SELECT
		id, patient_user_id, caregiver_user_id,
		access_code, scopes, status,
		created_at, updated_at, revoked_at
	FROM caregiver_grants
`

func scanGrant(row *sql.Row) (caregivers.Grant, error) {
	var g caregivers.Grant
	var status string
	var scopes []string
	var revokedAt sql.NullTime

	if err := row.Scan(
		&g.ID,
		&g.PatientUserID,
		&g.CaregiverUserID,
		&g.AccessCode,
		&scopes,
		&status,
		&g.CreatedAt,
		&g.UpdatedAt,
		&revokedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return caregivers.Grant{}, ErrNotFound
		}
		return caregivers.Grant{}, err
	}

	g.Status = caregivers.Status(status)
	g.Scopes = textArrayToScopes(scopes)
	if revokedAt.Valid {
		t := revokedAt.Time
		g.RevokedAt = &t
	}
	return g, nil
}

func scanGrants(rows *sql.Rows) ([]caregivers.Grant, error) {
	defer rows.Close()

	out := make([]caregivers.Grant, 0)
	for rows.Next() {
		var g caregivers.Grant
		var status string
		var scopes []string
		var revokedAt sql.NullTime

		if err := rows.Scan(
			&g.ID,
			&g.PatientUserID,
			&g.CaregiverUserID,
			&g.AccessCode,
			&scopes,
			&status,
			&g.CreatedAt,
			&g.UpdatedAt,
			&revokedAt,
		); err != nil {
			return nil, err
		}

		g.Status = caregivers.Status(status)
		g.Scopes = textArrayToScopes(scopes)
		if revokedAt.Valid {
			t := revokedAt.Time
			g.RevokedAt = &t
		}

		out = append(out, g)
	}

	return out, rows.Err()
}

// helpers
func scopesToTextArray(in []caregivers.Scope) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, string(s))
	}
	return out
}

func textArrayToScopes(in []string) []caregivers.Scope {
	if len(in) == 0 {
		return []caregivers.Scope{}
	}
	out := make([]caregivers.Scope, 0, len(in))
	for _, s := range in {
		out = append(out, caregivers.Scope(s))
	}
	return out
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
