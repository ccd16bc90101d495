package prescription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the data access interface for prescriptions.
type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	Update(ctx context.Context, p *Prescription) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByNurse(ctx context.Context, nurseID uuid.UUID, limit, offset int) ([]*Prescription, int, error)
	CountByNurse(ctx context.Context, nurseID uuid.UUID) (int, error)
	ListExpiringSoon(ctx context.Context, ref time.Time, horizon time.Duration) ([]*Prescription, error)
	SetDocumentKey(ctx context.Context, id uuid.UUID, key string) error
}
