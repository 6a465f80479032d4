package postgres

import (
	"context"
	"database/sql"

	"med-adherence/internal/domain/adherence"
)

type AdherenceRepo struct {
	db *sql.DB
}

func NewAdherenceRepo(db *sql.DB) *AdherenceRepo {
	return &AdherenceRepo{db: db}
}

func (r *AdherenceRepo) Upsert(ctx context.Context, rec adherence.Record) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO adherence_records (user_id, date, percent, updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (user_id, date)
		DO UPDATE SET percent = EXCLUDED.percent, updated_at = EXCLUDED.updated_at
	`,
		rec.UserID,
		rec.Date,
		rec.Percent,
		rec.UpdatedAt,
	)
	return err
}

func (r *AdherenceRepo) GetByDate(ctx context.Context, userID, date string) (adherence.Record, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT user_id, date, percent, updated_at
		FROM adherence_records
		WHERE user_id = $1 AND date = $2
	`, userID, date)

	var rec adherence.Record
	if err := row.Scan(&rec.UserID, &rec.Date, &rec.Percent, &rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return adherence.Record{}, ErrNotFound
		}
		return adherence.Record{}, err
	}
	return rec, nil
}

func (r *AdherenceRepo) ListByUser(ctx context.Context, userID, from, to string) ([]adherence.Record, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, date, percent, updated_at
		FROM adherence_records
		WHERE user_id = $1
		  AND ($2 = '' OR date >= $2)
		  AND ($3 = '' OR date <= $3)
		ORDER BY date ASC
	`, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]adherence.Record, 0)
	for rows.Next() {
		var rec adherence.Record
		if err := rows.Scan(&rec.UserID, &rec.Date, &rec.Percent, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, rows.Err()
}
