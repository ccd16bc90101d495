package nurse

import (
	"context"

	"github.com/google/uuid"
)

// Service provides business logic for nurse management.
type Service struct {
	repo Repository
}

// NewService creates a new nurse service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EnsureForAccount returns the nurse for an account, creating it on first
// use. Idempotent, so existing accounts pick up a nurse record the first time
// they touch a nurse endpoint.
func (s *Service) EnsureForAccount(ctx context.Context, accountID uuid.UUID) (*Nurse, error) {
	if n, err := s.repo.GetByAccount(ctx, accountID); err == nil {
		return n, nil
	}

	n := &Nurse{AccountID: accountID}
	if err := s.repo.Create(ctx, n); err != nil {
		// Lost a create race; the record exists now.
		if existing, getErr := s.repo.GetByAccount(ctx, accountID); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return n, nil
}

// GetWithPatients returns the nurse for an account including patient links.
func (s *Service) GetWithPatients(ctx context.Context, accountID uuid.UUID) (*Nurse, error) {
	n, err := s.EnsureForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	ids, err := s.repo.ListPatientIDs(ctx, n.ID)
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	n.PatientIDs = ids
	return n, nil
}

// ProfileUpdate carries the nurse profile fields a caller may change.
type ProfileUpdate struct {
	Phone   string `json:"phone"`
	Address string `json:"address"`
	ZipCode string `json:"zip_code"`
	City    string `json:"city"`
}

// UpdateProfile replaces the nurse's contact fields.
func (s *Service) UpdateProfile(ctx context.Context, accountID uuid.UUID, upd ProfileUpdate) (*Nurse, error) {
	n, err := s.EnsureForAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	n.Phone = upd.Phone
	n.Address = upd.Address
	n.ZipCode = upd.ZipCode
	n.City = upd.City
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// AttachPatient links a patient to the nurse.
func (s *Service) AttachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error {
	return s.repo.AttachPatient(ctx, nurseID, patientID)
}

// DetachPatient removes a patient link.
func (s *Service) DetachPatient(ctx context.Context, nurseID, patientID uuid.UUID) error {
	return s.repo.DetachPatient(ctx, nurseID, patientID)
}

// HasPatient reports whether the nurse is linked to the patient.
func (s *Service) HasPatient(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error) {
	return s.repo.HasPatient(ctx, nurseID, patientID)
}

// CountPatients returns the number of patients linked to the nurse.
func (s *Service) CountPatients(ctx context.Context, nurseID uuid.UUID) (int, error) {
	return s.repo.CountPatients(ctx, nurseID)
}

// AccountsForPatient returns the account IDs of every nurse caring for the
// patient. The notification engine fans out to these accounts.
func (s *Service) AccountsForPatient(ctx context.Context, patientID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.ListNurseAccountsForPatient(ctx, patientID)
}
