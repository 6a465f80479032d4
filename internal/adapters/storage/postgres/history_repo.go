package postgres

import (
	"context"
	"database/sql"

	"med-adherence/internal/domain/history"
)

type HistoryRepo struct {
	db *sql.DB
}

func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

func (r *HistoryRepo) Append(ctx context.Context, e history.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dose_history (
			id, user_id, medication_id,
			action, dose_time, date, recorded_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		e.ID,
		e.UserID,
		e.MedicationID,
		e.Action,
		e.DoseTime,
		e.Date,
		e.RecordedAt,
	)
	return err
}

func (r *HistoryRepo) ListByUser(ctx context.Context, userID string, filter history.ListFilter) ([]history.Entry, error) {
	// El filtro de acciones se resuelve en memoria: son a lo sumo dos
	// valores y evita armar SQL dinámico.
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, medication_id, action, dose_time, date, recorded_at
		FROM dose_history
		WHERE user_id = $1
		  AND ($2 = '' OR medication_id = $2)
		ORDER BY recorded_at DESC
	`, userID, filter.MedicationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]history.Entry, 0)
	for rows.Next() {
		var e history.Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.MedicationID, &e.Action, &e.DoseTime, &e.Date, &e.RecordedAt); err != nil {
			return nil, err
		}
		if len(filter.Actions) > 0 && !matchAction(filter.Actions, e.Action) {
			continue
		}
		if filter.From != nil && e.RecordedAt.Before(*filter.From) {
			continue
		}
		if filter.To != nil && e.RecordedAt.After(*filter.To) {
			continue
		}
		out = append(out, e)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}

	return out, rows.Err()
}

func matchAction(actions []history.Action, a history.Action) bool {
	for _, v := range actions {
		if v == a {
			return true
		}
	}
	return false
}
