package postgres

import (
	"context"
	"database/sql"

	"med-adherence/internal/domain/sideeffects"
)

type SideEffectsRepo struct {
	db *sql.DB
}

func NewSideEffectsRepo(db *sql.DB) *SideEffectsRepo {
	return &SideEffectsRepo{db: db}
}

func (r *SideEffectsRepo) Create(ctx context.Context, rep sideeffects.Report) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO side_effects (
			id, user_id,
			medication, severity, kind, description,
			date, reported_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		rep.ID,
		rep.UserID,
		rep.Medication,
		rep.Severity,
		rep.Kind,
		rep.Description,
		rep.Date,
		rep.ReportedAt,
	)
	return err
}

func (r *SideEffectsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM side_effects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SideEffectsRepo) GetByID(ctx context.Context, id string) (sideeffects.Report, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, medication, severity, kind, description, date, reported_at
		FROM side_effects
		WHERE id = $1
	`, id)

	var rep sideeffects.Report
	if err := row.Scan(
		&rep.ID,
		&rep.UserID,
		&rep.Medication,
		&rep.Severity,
		&rep.Kind,
		&rep.Description,
		&rep.Date,
		&rep.ReportedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return sideeffects.Report{}, ErrNotFound
		}
		return sideeffects.Report{}, err
	}
	return rep, nil
}

func (r *SideEffectsRepo) ListByUser(ctx context.Context, userID string) ([]sideeffects.Report, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, medication, severity, kind, description, date, reported_at
		FROM side_effects
		WHERE user_id = $1
		ORDER BY reported_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]sideeffects.Report, 0)
	for rows.Next() {
		var rep sideeffects.Report
		if err := rows.Scan(
			&rep.ID,
			&rep.UserID,
			&rep.Medication,
			&rep.Severity,
			&rep.Kind,
			&rep.Description,
			&rep.Date,
			&rep.ReportedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, rep)
	}

	return out, rows.Err()
}
