package nurse

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access interface for nurses and their patient
// links.
type Repository interface {
	Create(ctx context.Context, n *Nurse) error
	GetByID(ctx context.Context, id uuid.UUID) (*Nurse, error)
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*Nurse, error)
	Update(ctx context.Context, n *Nurse) error
	Delete(ctx context.Context, id uuid.UUID) error

	AttachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error
	DetachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error
	ListPatientIDs(ctx context.Context, nurseID uuid.UUID) ([]uuid.UUID, error)
	CountPatients(ctx context.Context, nurseID uuid.UUID) (int, error)
	HasPatient(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error)
	ListNurseAccountsForPatient(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error)
}
