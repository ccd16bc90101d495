package prescription

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"

	"github.com/mynotif/mynotif/internal/platform/blobstore"
	"github.com/mynotif/mynotif/internal/platform/email"
)

// FreePrescriptionLimit caps the number of prescriptions a non-staff nurse
// can manage.
const FreePrescriptionLimit = 15

var (
	ErrNotFound          = errors.New("prescription not found")
	ErrPrescriptionLimit = fmt.Errorf("free plan allows at most %d prescriptions", FreePrescriptionLimit)
	ErrNoDocument        = errors.New("prescription has no document")
)

// CareTeam resolves the requesting account to its nurse and checks patient
// ownership. The nurse domain supplies the implementation.
type CareTeam interface {
	NurseIDForAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error)
	Owns(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error)
}

// Service provides business logic for prescription management. Every
// operation is scoped through the patient links of the requesting nurse.
type Service struct {
	repo  Repository
	care  CareTeam
	blobs blobstore.Store
	mail  email.Sender
}

// NewService creates a new prescription service. blobs and mail may be nil
// when document upload and doctor mail are disabled.
func NewService(repo Repository, care CareTeam, blobs blobstore.Store, mail email.Sender) *Service {
	return &Service{repo: repo, care: care, blobs: blobs, mail: mail}
}

// Create stores a prescription for one of the requesting nurse's patients.
func (s *Service) Create(ctx context.Context, accountID uuid.UUID, p *Prescription, unlimited bool) error {
	if err := validateDates(p); err != nil {
		return err
	}

	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	owns, err := s.care.Owns(ctx, nurseID, p.PatientID)
	if err != nil {
		return err
	}
	if !owns {
		return fmt.Errorf("patient does not belong to this nurse")
	}

	if !unlimited {
		count, err := s.repo.CountByNurse(ctx, nurseID)
		if err != nil {
			return err
		}
		if count >= FreePrescriptionLimit {
			return ErrPrescriptionLimit
		}
	}

	p.StartDate = DateOnly(p.StartDate)
	p.EndDate = DateOnly(p.EndDate)
	return s.repo.Create(ctx, p)
}

func validateDates(p *Prescription) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.StartDate.IsZero() || p.EndDate.IsZero() {
		return fmt.Errorf("start_date and end_date are required")
	}
	if DateOnly(p.EndDate).Before(DateOnly(p.StartDate)) {
		return fmt.Errorf("end_date must not be before start_date")
	}
	return nil
}

// Get returns a prescription if its patient belongs to the requesting nurse.
func (s *Service) Get(ctx context.Context, accountID, id uuid.UUID) (*Prescription, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if err := s.authorize(ctx, accountID, p.PatientID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) authorize(ctx context.Context, accountID, patientID uuid.UUID) error {
	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return err
	}
	owns, err := s.care.Owns(ctx, nurseID, patientID)
	if err != nil {
		return err
	}
	if !owns {
		return ErrNotFound
	}
	return nil
}

// List returns the prescriptions of the requesting nurse's patients.
func (s *Service) List(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*Prescription, int, error) {
	nurseID, err := s.care.NurseIDForAccount(ctx, accountID)
	if err != nil {
		return nil, 0, err
	}
	return s.repo.ListByNurse(ctx, nurseID, limit, offset)
}

// Update modifies a prescription owned by the requesting nurse. The target
// patient must also belong to the nurse.
func (s *Service) Update(ctx context.Context, accountID uuid.UUID, p *Prescription) error {
	if err := validateDates(p); err != nil {
		return err
	}
	existing, err := s.Get(ctx, accountID, p.ID)
	if err != nil {
		return err
	}
	if p.PatientID != existing.PatientID {
		if err := s.authorize(ctx, accountID, p.PatientID); err != nil {
			return fmt.Errorf("patient does not belong to this nurse")
		}
	}
	p.StartDate = DateOnly(p.StartDate)
	p.EndDate = DateOnly(p.EndDate)
	return s.repo.Update(ctx, p)
}

// Delete removes a prescription owned by the requesting nurse, including its
// stored document.
func (s *Service) Delete(ctx context.Context, accountID, id uuid.UUID) error {
	p, err := s.Get(ctx, accountID, id)
	if err != nil {
		return err
	}
	if p.DocumentKey != "" && s.blobs != nil {
		_ = s.blobs.Delete(ctx, p.DocumentKey)
	}
	return s.repo.Delete(ctx, id)
}

// AttachDocument stores the uploaded scan and records its key on the
// prescription. A previous document is replaced.
func (s *Service) AttachDocument(ctx context.Context, accountID, id uuid.UUID, filename, contentType string, content io.Reader) (string, error) {
	if s.blobs == nil {
		return "", fmt.Errorf("document storage is not configured")
	}
	p, err := s.Get(ctx, accountID, id)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("prescriptions/%s/%s%s", p.ID, uuid.NewString(), path.Ext(filename))
	if err := s.blobs.Put(ctx, key, contentType, content); err != nil {
		return "", err
	}

	if p.DocumentKey != "" {
		_ = s.blobs.Delete(ctx, p.DocumentKey)
	}
	if err := s.repo.SetDocumentKey(ctx, id, key); err != nil {
		return "", err
	}
	return key, nil
}

// OpenDocument returns the stored document for download.
func (s *Service) OpenDocument(ctx context.Context, accountID, id uuid.UUID) (io.ReadCloser, string, error) {
	if s.blobs == nil {
		return nil, "", fmt.Errorf("document storage is not configured")
	}
	p, err := s.Get(ctx, accountID, id)
	if err != nil {
		return nil, "", err
	}
	if p.DocumentKey == "" {
		return nil, "", ErrNoDocument
	}
	return s.blobs.Get(ctx, p.DocumentKey)
}

// EmailDoctor sends a renewal request to the prescribing doctor.
func (s *Service) EmailDoctor(ctx context.Context, accountID, id uuid.UUID, subject, body string) error {
	if s.mail == nil {
		return fmt.Errorf("email is not configured")
	}
	p, err := s.Get(ctx, accountID, id)
	if err != nil {
		return err
	}
	if p.EmailDoctor == "" {
		return fmt.Errorf("prescription has no doctor email")
	}
	if subject == "" {
		subject = "Prescription renewal request"
	}
	return s.mail.SendEmail(ctx, p.EmailDoctor, subject, body)
}

// ExpiringSoon returns prescriptions that end after ref but within the
// horizon.
func (s *Service) ExpiringSoon(ctx context.Context, ref time.Time, horizon time.Duration) ([]*Prescription, error) {
	return s.repo.ListExpiringSoon(ctx, ref, horizon)
}
