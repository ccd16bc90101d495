package nurse

import (
	"context"

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

type nurseRepoPG struct{ pool *pgxpool.Pool }

// NewRepoPG creates a new PostgreSQL-backed nurse repository.
func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &nurseRepoPG{pool: pool}
}

func (r *nurseRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const nurseCols = `id, account_id, phone, address, zip_code, city, created_at, updated_at`

func scanNurse(row pgx.Row) (*Nurse, error) {
	var n Nurse
	err := row.Scan(&n.ID, &n.AccountID, &n.Phone, &n.Address, &n.ZipCode, &n.City, &n.CreatedAt, &n.UpdatedAt)
	return &n, err
}

func (r *nurseRepoPG) Create(ctx context.Context, n *Nurse) error {
	n.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO nurse (id, account_id, phone, address, zip_code, city)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		n.ID, n.AccountID, n.Phone, n.Address, n.ZipCode, n.City)
	return err
}

func (r *nurseRepoPG) Update(ctx context.Context, n *Nurse) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE nurse
		SET phone = $2, address = $3, zip_code = $4, city = $5, updated_at = now()
		WHERE id = $1`,
		n.ID, n.Phone, n.Address, n.ZipCode, n.City)
	return err
}

func (r *nurseRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error) {
	return scanNurse(r.conn(ctx).QueryRow(ctx, `SELECT `+nurseCols+` FROM nurse WHERE id = $1`, id))
}

func (r *nurseRepoPG) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Nurse, error) {
	return scanNurse(r.conn(ctx).QueryRow(ctx, `SELECT `+nurseCols+` FROM nurse WHERE account_id = $1`, accountID))
}

func (r *nurseRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM nurse WHERE id = $1`, id)
	return err
}

func (r *nurseRepoPG) AttachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO nurse_patient (nurse_id, patient_id) VALUES ($1,$2)
		ON CONFLICT (nurse_id, patient_id) DO NOTHING`, nurseID, patientID)
	return err
}

func (r *nurseRepoPG) DetachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx,
		`DELETE FROM nurse_patient WHERE nurse_id = $1 AND patient_id = $2`, nurseID, patientID)
	return err
}

func (r *nurseRepoPG) ListPatientIDs(ctx context.Context, nurseID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT patient_id FROM nurse_patient WHERE nurse_id = $1 ORDER BY patient_id`, nurseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *nurseRepoPG) CountPatients(ctx context.Context, nurseID uuid.UUID) (int, error) {
	var count int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM nurse_patient WHERE nurse_id = $1`, nurseID).Scan(&count)
	return count, err
}

func (r *nurseRepoPG) HasPatient(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM nurse_patient WHERE nurse_id = $1 AND patient_id = $2)`,
		nurseID, patientID).Scan(&exists)
	return exists, err
}

func (r *nurseRepoPG) ListNurseAccountsForPatient(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT n.account_id FROM nurse n
		JOIN nurse_patient np ON np.nurse_id = n.id
		WHERE np.patient_id = $1`, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
