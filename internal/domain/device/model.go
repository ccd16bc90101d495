package device

import (
	"time"

	"github.com/google/uuid"
)

// Subscription links an account to its push-provider subscription id.
// Each account keeps at most one; re-registering replaces the previous id.
type Subscription struct {
	ID             uuid.UUID `db:"id" json:"id"`
	AccountID      uuid.UUID `db:"account_id" json:"account_id"`
	SubscriptionID string    `db:"subscription_id" json:"subscription_id"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}
