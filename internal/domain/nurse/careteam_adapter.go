package nurse

import (
	"context"

	"github.com/google/uuid"
)

// CareTeamAdapter exposes nurse/patient links to the patient and prescription
// domains, which depend on narrow consumer-side interfaces.
type CareTeamAdapter struct {
	svc *Service
}

func NewCareTeamAdapter(svc *Service) *CareTeamAdapter {
	return &CareTeamAdapter{svc: svc}
}

func (a *CareTeamAdapter) NurseIDForAccount(ctx context.Context, accountID uuid.UUID) (uuid.UUID, error) {
	n, err := a.svc.EnsureForAccount(ctx, accountID)
	if err != nil {
		return uuid.Nil, err
	}
	return n.ID, nil
}

func (a *CareTeamAdapter) Attach(ctx context.Context, nurseID, patientID uuid.UUID) error {
	return a.svc.AttachPatient(ctx, nurseID, patientID)
}

func (a *CareTeamAdapter) Owns(ctx context.Context, nurseID, patientID uuid.UUID) (bool, error) {
	return a.svc.HasPatient(ctx, nurseID, patientID)
}
