package device

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines storage operations for device subscriptions.
type Repository interface {
	Upsert(ctx context.Context, sub *Subscription) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*Subscription, error)
	DeleteByAccount(ctx context.Context, accountID uuid.UUID) error
	// ListByAccounts returns the subscriptions of the given accounts.
	// Accounts without a registered device are silently absent from the result.
	ListByAccounts(ctx context.Context, accountIDs []uuid.UUID) ([]*Subscription, error)
}
