package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"med-adherence/internal/domain/medications"
)

type MedicationsRepo struct {
	db *sql.DB
}

func NewMedicationsRepo(db *sql.DB) *MedicationsRepo {
	return &MedicationsRepo{db: db}
}

func (r *MedicationsRepo) Create(ctx context.Context, m medications.Medication) error {
	sched, taken, err := marshalMed(m)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO medications (
			id, user_id,
			name, dosage, frequency, primary_time,
			schedule, taken_doses, notes,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`,
		m.ID,
		m.UserID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.PrimaryTime,
		sched,
		taken,
		m.Notes,
		m.CreatedAt,
		m.UpdatedAt,
	)
	return err
}

func (r *MedicationsRepo) Update(ctx context.Context, m medications.Medication) error {
	sched, taken, err := marshalMed(m)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE medications
		SET
			name = $2,
			dosage = $3,
			frequency = $4,
			primary_time = $5,
			schedule = $6,
			taken_doses = $7,
			notes = $8,
			updated_at = $9
		WHERE id = $1
	`,
		m.ID,
		m.Name,
		m.Dosage,
		m.Frequency,
		m.PrimaryTime,
		sched,
		taken,
		m.Notes,
		m.UpdatedAt,
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

func (r *MedicationsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM medications WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MedicationsRepo) GetByID(ctx context.Context, id string) (medications.Medication, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return medications.Medication{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			id, user_id,
			name, dosage, frequency, primary_time,
			schedule, taken_doses, notes,
			created_at, updated_at
		FROM medications
		WHERE id = $1
	`, id)

	m, err := scanMed(row)
	if err == sql.ErrNoRows {
		return medications.Medication{}, ErrNotFound
	}
	return m, err
}

func (r *MedicationsRepo) ListByUser(ctx context.Context, userID string) ([]medications.Medication, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT
			id, user_id,
			name, dosage, frequency, primary_time,
			schedule, taken_doses, notes,
			created_at, updated_at
		FROM medications
		WHERE user_id = $1
		ORDER BY created_at ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]medications.Medication, 0)
	for rows.Next() {
		m, err := scanMed(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}

	return out, rows.Err()
}

// SetDoseTaken hace el read-modify-write dentro de una transacción con
// SELECT ... FOR UPDATE para serializar mutaciones sobre la misma fila.
func (r *MedicationsRepo) SetDoseTaken(ctx context.Context, id string, rec medications.TakenRecord, taken bool) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var rawTaken []byte
	err = tx.QueryRowContext(ctx, `
		SELECT taken_doses FROM medications WHERE id = $1 FOR UPDATE
	`, id).Scan(&rawTaken)
	if err == sql.ErrNoRows {
		return false, ErrNotFound
	}
	if err != nil {
		return false, err
	}

	var doses []medications.TakenRecord
	if len(rawTaken) > 0 {
		if err := json.Unmarshal(rawTaken, &doses); err != nil {
			return false, err
		}
	}

	idx := -1
	for i, t := range doses {
		if t.Date == rec.Date && t.Time == rec.Time {
			idx = i
			break
		}
	}

	if taken {
		if idx >= 0 {
			return false, nil // ya estaba marcada, no-op idempotente
		}
		doses = append(doses, rec)
	} else {
		if idx < 0 {
			return false, nil
		}
		doses = append(doses[:idx], doses[idx+1:]...)
	}

	next, err := json.Marshal(doses)
	if err != nil {
		return false, err
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE medications SET taken_doses = $2, updated_at = now() WHERE id = $1
	`, id, next); err != nil {
		return false, err
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func marshalMed(m medications.Medication) (sched, taken []byte, err error) {
	if m.Schedule == nil {
		m.Schedule = []string{}
	}
	if m.TakenDoses == nil {
		m.TakenDoses = []medications.TakenRecord{}
	}
	sched, err = json.Marshal(m.Schedule)
	if err != nil {
		return nil, nil, err
	}
	taken, err = json.Marshal(m.TakenDoses)
	if err != nil {
		return nil, nil, err
	}
	return sched, taken, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMed(row rowScanner) (medications.Medication, error) {
	var m medications.Medication
	var rawSched, rawTaken []byte
	if err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.Name,
		&m.Dosage,
		&m.Frequency,
		&m.PrimaryTime,
		&rawSched,
		&rawTaken,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return medications.Medication{}, err
	}

	if len(rawSched) > 0 {
		if err := json.Unmarshal(rawSched, &m.Schedule); err != nil {
			return medications.Medication{}, err
		}
	}
	if len(rawTaken) > 0 {
		if err := json.Unmarshal(rawTaken, &m.TakenDoses); err != nil {
			return medications.Medication{}, err
		}
	}

	return m, nil
}
