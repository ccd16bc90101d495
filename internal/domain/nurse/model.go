package nurse

import (
	"time"

	"github.com/google/uuid"
)

// Nurse maps to the nurse table. One nurse per account; patients are linked
// through the nurse_patient join table.
type Nurse struct {
	ID         uuid.UUID   `db:"id" json:"id"`
	AccountID  uuid.UUID   `db:"account_id" json:"account_id"`
	Phone      string      `db:"phone" json:"phone"`
	Address    string      `db:"address" json:"address"`
	ZipCode    string      `db:"zip_code" json:"zip_code"`
	City       string      `db:"city" json:"city"`
	PatientIDs []uuid.UUID `json:"patient_ids"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time   `db:"updated_at" json:"updated_at"`
}
