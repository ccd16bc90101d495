package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mynotif/mynotif/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type prescriptionRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a new PostgreSQL-backed prescription repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &prescriptionRepoPG{pool: pool}
}

func (r *prescriptionRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const prescriptionCols = `id, patient_id, prescribing_doctor, email_doctor,
	start_date, end_date, document_key, created_at, updated_at`

func scanPrescription(row pgx.Row) (*Prescription, error) {
	var p Prescription
	err := row.Scan(&p.ID, &p.PatientID, &p.PrescribingDoctor, &p.EmailDoctor,
		&p.StartDate, &p.EndDate, &p.DocumentKey, &p.CreatedAt, &p.UpdatedAt)
	return &p, err
}

func (r *prescriptionRepoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription (id, patient_id, prescribing_doctor, email_doctor, start_date, end_date, document_key)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		p.ID, p.PatientID, p.PrescribingDoctor, p.EmailDoctor, p.StartDate, p.EndDate, p.DocumentKey)
	return err
}

func (r *prescriptionRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return scanPrescription(r.conn(ctx).QueryRow(ctx,
		`SELECT `+prescriptionCols+` FROM prescription WHERE id = $1`, id))
}

func (r *prescriptionRepoPG) Update(ctx context.Context, p *Prescription) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE prescription SET patient_id=$2, prescribing_doctor=$3, email_doctor=$4,
			start_date=$5, end_date=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.PatientID, p.PrescribingDoctor, p.EmailDoctor, p.StartDate, p.EndDate)
	return err
}

func (r *prescriptionRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM prescription WHERE id = $1`, id)
	return err
}

func (r *prescriptionRepoPG) ListByNurse(ctx context.Context, nurseID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM prescription p
		JOIN nurse_patient np ON np.patient_id = p.patient_id
		WHERE np.nurse_id = $1`, nurseID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prescriptionCols+` FROM prescription p
		JOIN nurse_patient np ON np.patient_id = p.patient_id
		WHERE np.nurse_id = $1
		ORDER BY p.end_date, p.id
		LIMIT $2 OFFSET $3`, nurseID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, rows.Err()
}

func (r *prescriptionRepoPG) CountByNurse(ctx context.Context, nurseID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM prescription p
		JOIN nurse_patient np ON np.patient_id = p.patient_id
		WHERE np.nurse_id = $1`, nurseID).Scan(&count)
	return count, err
}

func (r *prescriptionRepoPG) ListExpiringSoon(ctx context.Context, ref time.Time, horizon time.Duration) ([]*Prescription, error) {
	day := DateOnly(ref)
	limit := day.Add(horizon)
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+prescriptionCols+` FROM prescription
		WHERE end_date > $1 AND end_date <= $2
		ORDER BY end_date, id`, day, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, p)
	}
	return items, rows.Err()
}

func (r *prescriptionRepoPG) SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error {
	_, err := r.conn(ctx).Exec(ctx,
		`UPDATE prescription SET document_key=$2, updated_at=NOW() WHERE id = $1`, id, key)
	return err
}
