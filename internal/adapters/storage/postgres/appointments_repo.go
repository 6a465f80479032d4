package postgres

import (
	"context"
	"database/sql"

	"med-adherence/internal/domain/appointments"
)

type AppointmentsRepo struct {
	db *sql.DB
}

func NewAppointmentsRepo(db *sql.DB) *AppointmentsRepo {
	return &AppointmentsRepo{db: db}
}

func (r *AppointmentsRepo) Create(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO appointments (
			id, user_id,
			doctor, specialty, date, time,
			location, phone, notes, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
	`,
		a.ID,
		a.UserID,
		a.Doctor,
		a.Specialty,
		a.Date,
		a.Time,
		a.Location,
		a.Phone,
		a.Notes,
		a.CreatedAt,
	)
	return err
}

func (r *AppointmentsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AppointmentsRepo) GetByID(ctx context.Context, id string) (appointments.Appointment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, doctor, specialty, date, time, location, phone, notes, created_at
		FROM appointments
		WHERE id = $1
	`, id)

	var a appointments.Appointment
	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Doctor,
		&a.Specialty,
		&a.Date,
		&a.Time,
		&a.Location,
		&a.Phone,
		&a.Notes,
		&a.CreatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return appointments.Appointment{}, ErrNotFound
		}
		return appointments.Appointment{}, err
	}
	return a, nil
}

func (r *AppointmentsRepo) ListByUser(ctx context.Context, userID string) ([]appointments.Appointment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, doctor, specialty, date, time, location, phone, notes, created_at
		FROM appointments
		WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]appointments.Appointment, 0)
	for rows.Next() {
		var a appointments.Appointment
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.Doctor,
			&a.Specialty,
			&a.Date,
			&a.Time,
			&a.Location,
			&a.Phone,
			&a.Notes,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, a)
	}

	return out, rows.Err()
}
