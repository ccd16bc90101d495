package patient

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// FreePatientLimit caps the number of patients a non-staff nurse can manage.
const FreePatientLimit = 15

var (
	ErrNotFound     = errors.New("patient not found")
	ErrPatientLimit = fmt.Errorf("free plan allows at most %d patients", FreePatientLimit)
)

// CareTeam resolves the requesting account to its nurse and manages the
// nurse/patient links. The nurse domain supplies the implementation.
type CareTeam interface {
	NurseIDForAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	Attach(ctx context.Context, nurseID, patientID uuid.UUID) error
	Owns(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error)
}

// Service provides business logic for patient management. Every operation is
// scoped to the requesting account's nurse.
type Service struct {
	repo Repository
	care CareTeam
}

// NewService creates a new patient service.
func NewService(repo Repository, care CareTeam) *Service {
	return &Service{repo: repo, care: care}
}

// Create stores a patient and links it to the requesting nurse. The free
// plan cap is skipped for unlimited (staff) accounts.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, p *Patient, unlimited bool) error {
	if p.Firstname == "" || p.Lastname == "" {
		return fmt.Errorf("firstname and lastname are required")
	}

	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return err
	}

	if !unlimited {
		count, err := s.repo.CountByNurse(ctx, nurseID)
		if err != nil {
			return err
		}
		if count >= FreePatientLimit {
			return ErrPatientLimit
		}
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return err
	}
	return s.care.Attach(ctx, nurseID, p.ID)
}

// Get returns a patient if it belongs to the requesting nurse.
func (s *Service) Get(ctx context.Context, accountID, patientID uuid.UUID) (*Patient, error) {
	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	owns, err := s.care.Owns(ctx, nurseID, patientID)
	if err != nil {
		return nil, err
	}
	if !owns {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, patientID)
}

// List returns the requesting nurse's patients.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Patient, int, error) {
	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByNurse(ctx, nurseID, limit, offset)
}

// Update modifies a patient owned by the requesting nurse.
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, p *Patient) error {
	if p.Firstname == "" || p.Lastname == "" {
		return fmt.Errorf("firstname and lastname are required")
	}
	if _, err := s.Get(ctx, accountID, p.ID); err != nil {
		return err
	}
	return s.repo.Update(ctx, p)
}

// Delete removes a patient owned by the requesting nurse.
func (s *Service) Delete(ctx context.Context, accountID, patientID uuid.UUID) error {
	if _, err := s.Get(ctx, accountID, patientID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, patientID)
}
