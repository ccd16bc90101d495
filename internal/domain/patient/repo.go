package patient

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the data access interface for patients.
type Repository interface {
	Create(ctx context.Context, p *Patient) error
	GetByID(ctx context.Context, id uuid.UUID) (*Patient, error)
	Update(ctx context.Context, p *Patient) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByNurse(ctx context.Context, nurseID uuid.UUID, limit, offset int) ([]*Patient, int, error)
	CountByNurse(ctx context.Context, nurseID uuid.UUID) (int, error)
}
