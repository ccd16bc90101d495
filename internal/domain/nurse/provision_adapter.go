package nurse

import (
	"context"

	"github.com/google/uuid"
)

// ProvisionAdapter bridges the nurse service to the account registration
// flow, which expects a narrow provisioning interface.
type ProvisionAdapter struct {
	svc *Service
}

func NewProvisionAdapter(svc *Service) *ProvisionAdapter {
	return &ProvisionAdapter{svc: svc}
}

func (a *ProvisionAdapter) EnsureNurse(ctx context.Context, accountID uuid.UUID) error {
	_, err := a.svc.EnsureForAccount(ctx, accountID)
	return err
}
